package reconcile

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Failure records one file the scan could not process.
type Failure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Report aggregates the outcome of one scan cycle. A scan always completes
// and reports per-file failures instead of aborting the batch.
type Report struct {
	ScanID     string    `json:"scan_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Created    int       `json:"created"`
	Restored   int       `json:"restored"`
	Updated    int       `json:"updated"`
	Unchanged  int       `json:"unchanged"`
	Removed    int       `json:"removed"`
	Failures   []Failure `json:"failures,omitempty"`
}

func newReport() *Report {
	return &Report{
		ScanID:    uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

func (r *Report) finish() *Report {
	r.FinishedAt = time.Now().UTC()
	return r
}

func (r *Report) addFailure(path string, err error) {
	r.Failures = append(r.Failures, Failure{Path: path, Reason: err.Error()})
}

// Indexed returns the number of files processed successfully by the index pass.
func (r *Report) Indexed() int {
	return r.Created + r.Restored + r.Updated + r.Unchanged
}

// Failed returns the number of per-file failures across both passes.
func (r *Report) Failed() int {
	return len(r.Failures)
}

// Mutations returns the number of store writes the scan performed. A repeat
// scan over an unchanged filesystem reports zero.
func (r *Report) Mutations() int {
	return r.Created + r.Restored + r.Updated + r.Removed
}

// Summary renders a one-line human-readable digest.
func (r *Report) Summary() string {
	return fmt.Sprintf("indexed %d (created %d, restored %d, updated %d, unchanged %d), removed %d, failed %d",
		r.Indexed(), r.Created, r.Restored, r.Updated, r.Unchanged, r.Removed, r.Failed())
}
