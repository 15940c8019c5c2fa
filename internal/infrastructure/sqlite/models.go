package sqlite

import (
	"encoding/json"
	"time"
)

// Run statuses.
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Run is one recorded bootstrap run.
type Run struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	Duration    time.Duration
	Status      string
	Error       string
	ConfigName  string
	Profiles    []string
	SourceCount int
	// Contributors holds the selected contributor IDs in final order.
	Contributors []string
}

// runModel is the database row for the runs table. Timestamps are Unix
// seconds; the duration column keeps millisecond precision.
type runModel struct {
	ID           string
	StartedAt    int64
	FinishedAt   int64
	DurationMs   int64
	Status       string
	Error        *string // nullable
	ConfigName   string
	Profiles     *string // nullable, JSON encoded
	SourceCount  int64
	Contributors *string // nullable, JSON encoded
}

// toRunModel converts a Run to its database row.
func toRunModel(r *Run) *runModel {
	m := &runModel{
		ID:          r.ID,
		StartedAt:   r.StartedAt.Unix(),
		FinishedAt:  r.FinishedAt.Unix(),
		DurationMs:  r.Duration.Milliseconds(),
		Status:      r.Status,
		ConfigName:  r.ConfigName,
		SourceCount: int64(r.SourceCount),
	}
	if r.Error != "" {
		errMsg := r.Error
		m.Error = &errMsg
	}
	if len(r.Profiles) > 0 {
		if encoded, err := json.Marshal(r.Profiles); err == nil {
			profiles := string(encoded)
			m.Profiles = &profiles
		}
	}
	if len(r.Contributors) > 0 {
		if encoded, err := json.Marshal(r.Contributors); err == nil {
			contributors := string(encoded)
			m.Contributors = &contributors
		}
	}
	return m
}

// toDomain converts a database row back to a Run.
func (m *runModel) toDomain() *Run {
	r := &Run{
		ID:          m.ID,
		StartedAt:   time.Unix(m.StartedAt, 0),
		FinishedAt:  time.Unix(m.FinishedAt, 0),
		Duration:    time.Duration(m.DurationMs) * time.Millisecond,
		Status:      m.Status,
		ConfigName:  m.ConfigName,
		SourceCount: int(m.SourceCount),
	}
	if m.Error != nil {
		r.Error = *m.Error
	}
	if m.Profiles != nil {
		_ = json.Unmarshal([]byte(*m.Profiles), &r.Profiles)
	}
	if m.Contributors != nil {
		_ = json.Unmarshal([]byte(*m.Contributors), &r.Contributors)
	}
	return r
}
