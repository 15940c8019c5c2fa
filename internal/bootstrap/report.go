package bootstrap

import (
	"time"

	"github.com/zjrosen/strata/internal/contributor"
	"github.com/zjrosen/strata/internal/env"
	"github.com/zjrosen/strata/internal/lifecycle"
)

// Status represents the outcome of a run.
type Status int

const (
	// StatusCompleted means the pipeline reached the running phase.
	StatusCompleted Status = iota
	// StatusFailed means the pipeline aborted and the failed phase fired.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Report summarizes one bootstrap run. The embedded environment is the live
// destination; callers read it, they do not mutate it.
type Report struct {
	RunID      string
	ConfigName string
	StartedAt  time.Time
	FinishedAt time.Time
	Duration   time.Duration

	// Profiles is the final active-profile list in resolution order. Empty
	// when only default profiles were processed.
	Profiles []string
	// Sources lists property-source names in precedence order, highest first.
	Sources []string
	// Contributors is the final ordered contributor selection.
	Contributors []contributor.Selection
	// Listeners names the lifecycle listeners in registration order.
	Listeners []string

	Environment *env.Environment
	Status      Status
	Err         error
}

// ContributorIDs returns the selected contributor identifiers in final order.
func (r *Report) ContributorIDs() []string {
	ids := make([]string, len(r.Contributors))
	for i, sel := range r.Contributors {
		ids[i] = sel.ID
	}
	return ids
}

// Progress is the payload published on the broker as the pipeline advances.
type Progress struct {
	RunID  string
	Phase  lifecycle.Phase
	Detail string
}
