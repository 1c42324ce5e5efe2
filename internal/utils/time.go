package utils

import "time"

const (
	layoutStamp    = "20060102"
	layoutDateTime = "2006-01-02 15:04"
)

// FileStamp renders t as a compact date for download file names.
func FileStamp(t time.Time) string {
	return t.Format(layoutStamp)
}

// FormatDateTime renders t for printed documents, minutes precision.
func FormatDateTime(t time.Time) string {
	return t.Format(layoutDateTime)
}
