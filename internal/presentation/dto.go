// Package presentation converts pipeline results into output DTOs and
// renders them as JSON or styled text for the CLI.
package presentation

import (
	"sort"
	"time"

	"github.com/zjrosen/strata/internal/bootstrap"
	"github.com/zjrosen/strata/internal/env"
	"github.com/zjrosen/strata/internal/infrastructure/sqlite"
	"github.com/zjrosen/strata/internal/registry"
)

// ReportDTO summarizes one bootstrap run for output.
type ReportDTO struct {
	RunID        string         `json:"run_id"`
	ConfigName   string         `json:"config_name,omitempty"`
	Status       string         `json:"status"`
	StartedAt    time.Time      `json:"started_at"`
	DurationMs   int64          `json:"duration_ms"`
	Profiles     []string       `json:"profiles"`
	Sources      []string       `json:"sources"`
	Listeners    []string       `json:"listeners,omitempty"`
	Contributors []SelectionDTO `json:"contributors"`
	Error        string         `json:"error,omitempty"`
}

// SelectionDTO is one selected contributor in final order.
type SelectionDTO struct {
	ID          string `json:"id"`
	Source      string `json:"source,omitempty"`
	Description string `json:"description,omitempty"`
}

// PropertyDTO is one key of the effective configuration view with the source
// that supplied it.
type PropertyDTO struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// RegistrationDTO is one registry entry for inspection output.
type RegistrationDTO struct {
	Capability      string   `json:"capability"`
	ID              string   `json:"id"`
	Order           int      `json:"order,omitempty"`
	After           []string `json:"after,omitempty"`
	Before          []string `json:"before,omitempty"`
	RequiresProfile string   `json:"requires_profile,omitempty"`
	RequiresKey     string   `json:"requires_key,omitempty"`
	Description     string   `json:"description,omitempty"`
}

// RunDTO is one recorded run from the history store.
type RunDTO struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"started_at"`
	DurationMs   int64     `json:"duration_ms"`
	Status       string    `json:"status"`
	ConfigName   string    `json:"config_name,omitempty"`
	Profiles     []string  `json:"profiles,omitempty"`
	SourceCount  int       `json:"source_count"`
	Contributors []string  `json:"contributors,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// DiffEntryDTO is one non-unchanged diff line for JSON output.
type DiffEntryDTO struct {
	Kind  string `json:"kind"`
	Key   string `json:"key"`
	Left  string `json:"left,omitempty"`
	Right string `json:"right,omitempty"`
}

// FromReport converts a pipeline report to its DTO.
func FromReport(report *bootstrap.Report) ReportDTO {
	dto := ReportDTO{
		RunID:        report.RunID,
		ConfigName:   report.ConfigName,
		Status:       report.Status.String(),
		StartedAt:    report.StartedAt,
		DurationMs:   report.Duration.Milliseconds(),
		Profiles:     report.Profiles,
		Sources:      report.Sources,
		Listeners:    report.Listeners,
		Contributors: make([]SelectionDTO, len(report.Contributors)),
	}
	for i, sel := range report.Contributors {
		dto.Contributors[i] = SelectionDTO{ID: sel.ID, Source: sel.Source}
		if sel.Registration != nil {
			dto.Contributors[i].Description = sel.Registration.Description
		}
	}
	if report.Err != nil {
		dto.Error = report.Err.Error()
	}
	return dto
}

// FromEnvironment converts the effective view to sorted property DTOs.
func FromEnvironment(environment *env.Environment) []PropertyDTO {
	values, origin := environment.Merged()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]PropertyDTO, len(keys))
	for i, k := range keys {
		out[i] = PropertyDTO{Key: k, Value: values[k], Source: origin[k]}
	}
	return out
}

// FromRegistrations converts registry entries to DTOs.
func FromRegistrations(regs []*registry.Registration) []RegistrationDTO {
	out := make([]RegistrationDTO, len(regs))
	for i, reg := range regs {
		out[i] = RegistrationDTO{
			Capability:      reg.Capability,
			ID:              reg.ID,
			Order:           reg.Order,
			After:           reg.After,
			Before:          reg.Before,
			RequiresProfile: reg.RequiresProfile,
			RequiresKey:     reg.RequiresKey,
			Description:     reg.Description,
		}
	}
	return out
}

// FromDiff converts diff lines to DTOs, dropping unchanged keys.
func FromDiff(lines []DiffLine) []DiffEntryDTO {
	out := make([]DiffEntryDTO, 0, len(lines))
	for _, line := range lines {
		var kind string
		switch line.Kind {
		case DiffAdded:
			kind = "added"
		case DiffRemoved:
			kind = "removed"
		case DiffChanged:
			kind = "changed"
		default:
			continue
		}
		out = append(out, DiffEntryDTO{Kind: kind, Key: line.Key, Left: line.Left, Right: line.Right})
	}
	return out
}

// FromRuns converts history rows to DTOs, preserving store order.
func FromRuns(runs []*sqlite.Run) []RunDTO {
	out := make([]RunDTO, len(runs))
	for i, run := range runs {
		out[i] = RunDTO{
			ID:           run.ID,
			StartedAt:    run.StartedAt,
			DurationMs:   run.Duration.Milliseconds(),
			Status:       run.Status,
			ConfigName:   run.ConfigName,
			Profiles:     run.Profiles,
			SourceCount:  run.SourceCount,
			Contributors: run.Contributors,
			Error:        run.Error,
		}
	}
	return out
}
