// Package models contains request/response shapes and small domain value
// types shared across the store, search, agent, and API packages.
package models

import "time"

// RecurrenceType is the closed set of recurrence rule kinds.
type RecurrenceType string

// Recurrence rule kinds.
const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

// Recurrence describes how a completed item materializes its next
// occurrence. Only meaningful when the owning item has a due_at set.
type Recurrence struct {
	Type     RecurrenceType `json:"type"`
	Interval int            `json:"interval"`
	Days     []int          `json:"days,omitempty"` // 0=Sunday .. 6=Saturday, weekly only
	EndDate  *time.Time     `json:"end_date,omitempty"`
}

// ToMap converts the recurrence to the generic map ent persists it as.
func (r *Recurrence) ToMap() map[string]interface{} {
	if r == nil {
		return nil
	}
	m := map[string]interface{}{
		"type":     string(r.Type),
		"interval": r.Interval,
	}
	if len(r.Days) > 0 {
		days := make([]interface{}, len(r.Days))
		for i, d := range r.Days {
			days[i] = d
		}
		m["days"] = days
	}
	if r.EndDate != nil {
		m["end_date"] = r.EndDate.Format(time.RFC3339)
	}
	return m
}

// RecurrenceFromMap reconstructs a Recurrence from the generic map ent
// stores. Returns nil if m is empty or malformed in a way that makes the
// rule unusable (missing type).
func RecurrenceFromMap(m map[string]interface{}) *Recurrence {
	if len(m) == 0 {
		return nil
	}
	typ, _ := m["type"].(string)
	if typ == "" {
		return nil
	}
	r := &Recurrence{Type: RecurrenceType(typ), Interval: 1}
	switch v := m["interval"].(type) {
	case int:
		r.Interval = v
	case float64:
		r.Interval = int(v)
	}
	if days, ok := m["days"].([]interface{}); ok {
		for _, d := range days {
			switch v := d.(type) {
			case int:
				r.Days = append(r.Days, v)
			case float64:
				r.Days = append(r.Days, int(v))
			}
		}
	}
	if endStr, ok := m["end_date"].(string); ok && endStr != "" {
		if t, err := time.Parse(time.RFC3339, endStr); err == nil {
			r.EndDate = &t
		}
	}
	return r
}
