package repository

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Timestamps are stored as RFC3339 text so both database backends return
// identical row shapes.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func parseTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func marshalStrings(list []string) string {
	if list == nil {
		list = []string{}
	}
	b, _ := json.Marshal(list)
	return string(b)
}

func unmarshalStrings(raw string) []string {
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return []string{}
	}
	return list
}

func marshalFields(fields map[string]string) string {
	if fields == nil {
		fields = map[string]string{}
	}
	b, _ := json.Marshal(fields)
	return string(b)
}

func unmarshalFields(raw string) map[string]string {
	fields := map[string]string{}
	_ = json.Unmarshal([]byte(raw), &fields)
	return fields
}
