package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"Planner/internal/dateutil"
)

// Date parses a calendar day from JSON as a date-only string ("2006-01-02"),
// an RFC3339 timestamp or epoch milliseconds. Every form lands on UTC midnight.
type Date struct{ t *time.Time }

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		d.t = nil
		return nil
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		d.t = nil
		return nil
	}
	parsed, ok := dateutil.ParseUTCDate(raw).Get()
	if !ok {
		return fmt.Errorf("date: use YYYY-MM-DD, RFC3339 datetime or epoch milliseconds")
	}
	day := dateutil.Day(parsed)
	d.t = &day
	return nil
}

// Ptr returns *time.Time for use in service/domain.
func (d Date) Ptr() *time.Time { return d.t }

// Time returns the parsed day or the zero time.
func (d Date) Time() time.Time {
	if d.t == nil {
		return time.Time{}
	}
	return *d.t
}

// NullableDate distinguishes an absent field from an explicit null in a patch.
type NullableDate struct {
	Set  bool
	Date Date
}

func (n *NullableDate) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Date = Date{}
		return nil
	}
	return n.Date.UnmarshalJSON(data)
}

// Clock parses a time of day as "15:04", "15:04:05" or a full timestamp of
// which only the UTC clock is kept.
type Clock struct{ t *time.Time }

var clockLayouts = []string{"15:04", "15:04:05"}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		c.t = nil
		return nil
	}
	if s, ok := raw.(string); ok {
		s = strings.TrimSpace(s)
		for _, layout := range clockLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				// Base on 1970 so midnight is not the zero time.
				t := time.Date(1970, 1, 1, parsed.Hour(), parsed.Minute(), parsed.Second(), 0, time.UTC)
				c.t = &t
				return nil
			}
		}
	}
	parsed, ok := dateutil.ParseUTCDate(raw).Get()
	if !ok {
		return fmt.Errorf("time: use HH:MM, HH:MM:SS or RFC3339 datetime")
	}
	c.t = &parsed
	return nil
}

// Ptr returns *time.Time for use in service/domain.
func (c Clock) Ptr() *time.Time { return c.t }

// Time returns the parsed instant or the zero time.
func (c Clock) Time() time.Time {
	if c.t == nil {
		return time.Time{}
	}
	return *c.t
}

// FormatClock renders the UTC time of day of t as "15:04".
func FormatClock(t time.Time) string {
	return t.UTC().Format("15:04")
}
