package repo

import (
	"encoding/json"

	"Planner/internal/recurrence"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// skipDatesParam encodes a skip list for a JSONB column.
func skipDatesParam(s recurrence.SkipList) ([]byte, error) {
	if s == nil {
		s = recurrence.SkipList{}
	}
	return json.Marshal(s)
}
