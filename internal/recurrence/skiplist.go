package recurrence

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"Planner/internal/dateutil"
)

// SkipList holds the canonical dates (YYYY-MM-DD) of individually deleted occurrences.
type SkipList map[string]struct{}

// NewSkipList builds a SkipList from date strings, dropping the unparsable ones.
func NewSkipList(dates ...string) SkipList {
	s := make(SkipList, len(dates))
	for _, d := range dates {
		s.AddString(d)
	}
	return s
}

// ParseSkipList accepts a JSON array string, raw JSON bytes, a string slice, a
// decoded []any or an existing SkipList. Malformed input yields an empty list.
func ParseSkipList(value any) SkipList {
	switch v := value.(type) {
	case nil:
		return SkipList{}
	case SkipList:
		return v.Clone()
	case []string:
		return NewSkipList(v...)
	case []any:
		s := SkipList{}
		for _, item := range v {
			if str, ok := item.(string); ok {
				s.AddString(str)
			}
		}
		return s
	case string:
		return parseSkipJSON([]byte(v))
	case []byte:
		return parseSkipJSON(v)
	default:
		slog.Warn("recurrence: unsupported skip list type", "type", fmt.Sprintf("%T", v))
		return SkipList{}
	}
}

func parseSkipJSON(b []byte) SkipList {
	if strings.TrimSpace(string(b)) == "" {
		return SkipList{}
	}
	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		slog.Warn("recurrence: malformed skip list ignored", "err", err)
		return SkipList{}
	}
	return ParseSkipList(raw)
}

// Has reports whether the occurrence on day t has been skipped.
func (s SkipList) Has(t time.Time) bool {
	d, ok := dateutil.FormatDate(t).Get()
	if !ok {
		return false
	}
	return s.HasString(d)
}

// HasString reports whether the canonical date string d is skipped.
func (s SkipList) HasString(d string) bool {
	if len(s) == 0 {
		return false
	}
	_, ok := s[d]
	return ok
}

// Add marks day t as skipped.
func (s SkipList) Add(t time.Time) {
	if d, ok := dateutil.FormatDate(t).Get(); ok {
		s[d] = struct{}{}
	}
}

// AddString marks a date string as skipped after normalizing it.
func (s SkipList) AddString(d string) {
	if t, ok := dateutil.ParseUTCDate(d).Get(); ok {
		s.Add(t)
	}
}

// Remove un-skips day t.
func (s SkipList) Remove(t time.Time) {
	if d, ok := dateutil.FormatDate(t).Get(); ok {
		delete(s, d)
	}
}

// Strings returns the skipped dates in ascending order.
func (s SkipList) Strings() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func (s SkipList) Clone() SkipList {
	out := make(SkipList, len(s))
	for d := range s {
		out[d] = struct{}{}
	}
	return out
}

// MarshalJSON encodes the list as a sorted JSON array.
func (s SkipList) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *SkipList) UnmarshalJSON(b []byte) error {
	*s = parseSkipJSON(b)
	return nil
}
