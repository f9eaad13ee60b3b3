package repository

import (
	"fmt"
	"time"
)

// timeLayout keeps sub-second precision so creation order survives a round trip.
const timeLayout = time.RFC3339Nano

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", field, err)
	}
	return t, nil
}

// wrapExecErr wraps err with op, preferring a package sentinel when the
// driver reported a known constraint failure.
func wrapExecErr(op string, err error) error {
	if sentinel := classifySQLiteError(err); sentinel != nil {
		return fmt.Errorf("%s: %w", op, sentinel)
	}
	return fmt.Errorf("%s: %w", op, err)
}
