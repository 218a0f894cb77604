package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const dateOnly = "2006-01-02"

// Deadline parses deadline from JSON as either date-only ("2006-01-02") or RFC3339.
// Date-only and zone-less values are taken as UTC.
type Deadline struct{ t time.Time }

func (d *Deadline) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("deadline: must be a string")
	}
	t, err := ParseDeadline(raw)
	if err != nil {
		return err
	}
	d.t = t
	return nil
}

// Time returns the parsed deadline.
func (d Deadline) Time() time.Time { return d.t }

// ParseDeadline accepts "2006-01-02", RFC3339 (with or without fractional
// seconds) and "2006-01-02T15:04:05".
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("deadline: must not be empty")
	}
	layouts := []string{
		dateOnly,
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("deadline: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// TodoRequest is the JSON body for POST /todos and PUT /todos/:id.
type TodoRequest struct {
	Title    string    `json:"title" binding:"required"`
	Deadline *Deadline `json:"deadline" binding:"required"`
}

type TodoResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	Deadline  time.Time `json:"deadline"`
	CreatedAt time.Time `json:"created_at"`
}
