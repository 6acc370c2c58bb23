package syncrun

import "time"

// Run records one synchronization run for a sport key.
type Run struct {
	ID         string
	SportKey   string
	StartedAt  time.Time
	FinishedAt *time.Time
	Success    bool
	Created    int
	Updated    int
	Errors     []string
}

func (r Run) Finished() bool {
	return r.FinishedAt != nil
}
