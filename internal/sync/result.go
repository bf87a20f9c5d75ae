package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mejrifx/fnt-motorgroup-main-sub000/pkg/db/models"
)

// VehicleError is one per-vehicle failure collected during a run. The run
// continues past these; they are reported in the result and the sync log.
type VehicleError struct {
	ProviderID string `json:"providerId"`
	Reason     string `json:"reason"`
}

// Result is the outcome of one full sync run.
type Result struct {
	Added             int            `json:"added"`
	Updated           int            `json:"updated"`
	MarkedUnavailable int            `json:"markedUnavailable"`
	Errors            []VehicleError `json:"errors"`
	Status            string         `json:"status"`
	Duration          time.Duration  `json:"-"`
}

// writes reports whether any store write succeeded during the run.
func (r Result) writes() int {
	return r.Added + r.Updated + r.MarkedUnavailable
}

// resolveStatus applies the run grading: clean runs are success, runs with
// per-vehicle errors are partial when anything was written and failed when
// nothing was.
func (r *Result) resolveStatus() {
	switch {
	case len(r.Errors) == 0:
		r.Status = models.SyncStatusSuccess
	case r.writes() > 0:
		r.Status = models.SyncStatusPartial
	default:
		r.Status = models.SyncStatusFailed
	}
}

const errorSummaryLimit = 2000

// errorSummary flattens the error list for the sync log row.
func (r Result) errorSummary() *string {
	if len(r.Errors) == 0 {
		return nil
	}
	parts := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", e.ProviderID, e.Reason))
	}
	joined := strings.Join(parts, "; ")
	if len(joined) > errorSummaryLimit {
		joined = joined[:errorSummaryLimit]
	}
	return &joined
}
