// Package activity reads the kiosk's own log back for display.
//
// The logger writes one JSON object per line. Read keeps only the last
// maxLines of the file in a ring buffer, so memory stays bounded by the
// window rather than the file size, and returns them oldest first as
// decoded entries:
//
//	entries, err := activity.Read(cfg.Log.Path, 200)
//
// Lines that are not JSON (a crash trace, a hand edit) are passed through
// in Entry.Raw rather than dropped. A missing log file is not an error.
//
// There is no file watching here. The UI polls Read on its refresh tick.
package activity
