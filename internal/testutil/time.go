// Package testutil provides deterministic helpers shared by package tests.
package testutil

import (
	"fmt"
	"time"
)

// MustTime parses an RFC 3339 timestamp or panics. Test fixtures only.
func MustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(fmt.Sprintf("testutil.MustTime(%q): %v", s, err))
	}
	return t
}

// TimePtr returns a pointer to t, for optional timestamp fields.
func TimePtr(t time.Time) *time.Time {
	return &t
}
