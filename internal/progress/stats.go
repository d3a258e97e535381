package progress

import "fmt"

// ScanStats describes walker progress: files seen and selected so far.
type ScanStats struct {
	Seen     int
	Selected int
}

func (s ScanStats) String() string {
	return fmt.Sprintf("scanning: %d files seen, %d selected", s.Seen, s.Selected)
}

// RemovalStats describes removal-workflow progress.
type RemovalStats struct {
	Removed    int
	BytesFreed int64
}

func (s RemovalStats) String() string {
	return fmt.Sprintf("removed %d files, %d bytes freed", s.Removed, s.BytesFreed)
}
