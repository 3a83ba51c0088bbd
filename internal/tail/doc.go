// Package tail implements polling-based file tailing across a glob of
// log files.
//
// A Tailer remembers the byte offset already consumed for each matched
// path and returns only newly appended lines on each Poll. Rotation and
// truncation are detected by a shrinking file size, which resets the
// offset to zero so the replacement file is read from its start. Files
// that stop matching the glob are forgotten entirely.
//
// Polling never returns an error: transient I/O failures (a file
// vanishing mid-poll, a permission race with the writer) simply yield
// no lines for that file and are retried on the next poll. The
// dashboard's availability always wins over completeness of any single
// poll.
package tail
