package service

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyTitle       = errors.New("title is required")
	ErrInvalidTimeRange = errors.New("end time must be after start time on the same day")
	ErrInvalidRepeatEnd = errors.New("repeat end day is before the selected day")
	ErrTaskOverlap      = errors.New("this task overlaps with another task")
	ErrNotRecurring     = errors.New("not a recurring item")
	ErrNoOccurrence     = errors.New("no occurrence on that day")
	ErrInvalidRange     = errors.New("range start is after range end")
	ErrRangeTooLarge    = errors.New("range is too large")
	ErrInvalidDate      = errors.New("invalid date")
)
