package utils

import "time"

// Database timestamps are stored as unix seconds.
func UnixPtr(t time.Time) *int64 {
	v := t.Unix()
	return &v
}
