// Package calendar renders tasks and reminders as an iCalendar feed.
package calendar

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"Planner/internal/dateutil"
	dom "Planner/internal/domain"
	"Planner/internal/recurrence"
)

const ProductID = "-//Planner//Planner API//EN"

// uidSpace keeps UIDs stable across exports; the same row always gets the same UID.
var uidSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("planner"))

// UID returns the deterministic iCalendar UID of a stored row.
func UID(kind string, id int64) string {
	return uuid.NewSHA1(uidSpace, []byte(kind+":"+strconv.FormatInt(id, 10))).String()
}

// Build assembles a VCALENDAR with one VEVENT per task and per reminder.
// stamp is written as DTSTAMP on every event.
func Build(tasks []dom.Task, reminders []dom.Reminder, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)

	stamp = stamp.UTC().Truncate(time.Second)
	for _, t := range tasks {
		if ev := taskEvent(t, stamp); ev != nil {
			cal.Children = append(cal.Children, ev)
		}
	}
	for _, r := range reminders {
		if ev := reminderEvent(r, stamp); ev != nil {
			cal.Children = append(cal.Children, ev)
		}
	}
	return cal
}

// Encode writes cal as RFC 5545 text.
func Encode(cal *ical.Calendar) ([]byte, error) {
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func taskEvent(t dom.Task, stamp time.Time) *ical.Component {
	start, ok1 := dateutil.CombineDateTime(t.SelectedDay, t.StartTime).Get()
	end, ok2 := dateutil.CombineDateTime(t.SelectedDay, t.EndTime).Get()
	if !ok1 || !ok2 {
		return nil
	}

	ev := newEvent(UID("task", t.ID), t.Title, t.Description, start, stamp)
	ev.Props.SetDateTime(ical.PropDateTimeEnd, end)
	addRecurrence(ev, t.Rule(), t.SkipDates, start)
	return ev
}

func reminderEvent(r dom.Reminder, stamp time.Time) *ical.Component {
	at, ok := dateutil.CombineDateTime(r.SelectedDay, r.SelectedTime).Get()
	if !ok {
		return nil
	}

	ev := newEvent(UID("reminder", r.ID), r.Title, r.Description, at, stamp)
	alarm := ical.NewComponent(ical.CompAlarm)
	alarm.Props.SetText(ical.PropAction, "DISPLAY")
	alarm.Props.SetText(ical.PropDescription, r.Title)
	trigger := ical.NewProp(ical.PropTrigger)
	trigger.Value = "PT0S"
	alarm.Props.Set(trigger)
	ev.Children = append(ev.Children, alarm)

	addRecurrence(ev, r.Rule(), r.SkipDates, at)
	return ev
}

func newEvent(uid, title, description string, start, stamp time.Time) *ical.Component {
	ev := ical.NewComponent(ical.CompEvent)
	ev.Props.SetText(ical.PropUID, uid)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	ev.Props.SetDateTime(ical.PropDateTimeStart, start)
	ev.Props.SetText(ical.PropSummary, title)
	if description != "" {
		ev.Props.SetText(ical.PropDescription, description)
	}
	return ev
}

// addRecurrence writes RRULE and one EXDATE per skipped day. EXDATE values
// carry the event's own start time so they match the expanded instances.
func addRecurrence(ev *ical.Component, rule recurrence.Rule, skip recurrence.SkipList, start time.Time) {
	rr, ok := recurrence.ToRRule(rule)
	if !ok {
		return
	}
	prop := ical.NewProp(ical.PropRecurrenceRule)
	prop.Value = rr
	ev.Props.Set(prop)

	for _, d := range skip.Strings() {
		day, ok := dateutil.ParseUTCDate(d).Get()
		if !ok {
			continue
		}
		at, ok := dateutil.CombineDateTime(day, start).Get()
		if !ok {
			continue
		}
		ex := ical.NewProp(ical.PropExceptionDates)
		ex.SetDateTime(at)
		ev.Props.Add(ex)
	}
}
