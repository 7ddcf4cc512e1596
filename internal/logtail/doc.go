// Package logtail reads the tail of storekit's log file and renders its
// records for the logs tab.
//
// # Reading
//
// Read returns the last N lines using a ring buffer of N entries, so memory
// stays bounded however large the file grows. A missing file is not an
// error: the logs tab simply shows that the log is empty.
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// # Formatting
//
// The logger writes slog JSON lines. Format turns each into a compact line
// for the terminal:
//
//	{"time":"2026-03-01T12:00:00Z","level":"INFO","msg":"logged in","user":"ada"}
//	12:00:00 INFO  logged in user=ada
//
// Attributes are sorted by key. Values containing spaces are
// quoted. Nested groups are shown as raw JSON. Lines that are not slog
// records pass through unchanged so a hand-edited or truncated log still
// displays.
package logtail
