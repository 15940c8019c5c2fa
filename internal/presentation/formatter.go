package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Formatter renders DTOs to a writer as JSON or styled text.
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a formatter over the given writer.
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{writer: writer}
}

// JSON writes any DTO as indented JSON.
func (f *Formatter) JSON(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// Report writes the run summary as styled text.
func (f *Formatter) Report(dto ReportDTO) error {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Bootstrap " + dto.Status))
	b.WriteString("  ")
	b.WriteString(MutedStyle.Render(dto.RunID))
	b.WriteString("\n")

	f.field(&b, "duration", fmt.Sprintf("%dms", dto.DurationMs))
	f.field(&b, "profiles", orNone(strings.Join(dto.Profiles, ", ")))
	f.field(&b, "listeners", orNone(strings.Join(dto.Listeners, ", ")))
	if dto.Error != "" {
		f.field(&b, "error", ErrorStyle.Render(dto.Error))
	}

	b.WriteString(TitleStyle.Render("Property sources"))
	b.WriteString(MutedStyle.Render("  (highest precedence first)"))
	b.WriteString("\n")
	for _, name := range dto.Sources {
		b.WriteString("  " + ValueStyle.Render(name) + "\n")
	}

	b.WriteString(TitleStyle.Render("Contributors"))
	b.WriteString("\n")
	for i, sel := range dto.Contributors {
		b.WriteString(fmt.Sprintf("  %2d. %s", i+1, ValueStyle.Render(sel.ID)))
		if sel.Description != "" {
			b.WriteString("  " + MutedStyle.Render(sel.Description))
		}
		b.WriteString("\n")
	}

	_, err := fmt.Fprint(f.writer, b.String())
	return err
}

// Properties writes the effective view as aligned key=value lines. Verbose
// appends the supplying source per key.
func (f *Formatter) Properties(props []PropertyDTO, verbose bool) error {
	width := 0
	for _, p := range props {
		if len(p.Key) > width {
			width = len(p.Key)
		}
	}
	var b strings.Builder
	for _, p := range props {
		b.WriteString(LabelStyle.Render(fmt.Sprintf("%-*s", width, p.Key)))
		b.WriteString(" = ")
		b.WriteString(ValueStyle.Render(p.Value))
		if verbose {
			b.WriteString("  " + MutedStyle.Render("("+p.Source+")"))
		}
		b.WriteString("\n")
	}
	_, err := fmt.Fprint(f.writer, b.String())
	return err
}

// Selections writes the ordered contributor list.
func (f *Formatter) Selections(sels []SelectionDTO) error {
	var b strings.Builder
	for i, sel := range sels {
		b.WriteString(fmt.Sprintf("%2d. %s", i+1, ValueStyle.Render(sel.ID)))
		if sel.Description != "" {
			b.WriteString("  " + MutedStyle.Render(sel.Description))
		}
		b.WriteString("\n")
	}
	if len(sels) == 0 {
		b.WriteString(MutedStyle.Render("no contributors selected") + "\n")
	}
	_, err := fmt.Fprint(f.writer, b.String())
	return err
}

// Registrations writes registry entries grouped by capability.
func (f *Formatter) Registrations(regs []RegistrationDTO) error {
	var b strings.Builder
	last := ""
	for _, reg := range regs {
		if reg.Capability != last {
			b.WriteString(TitleStyle.Render(reg.Capability) + "\n")
			last = reg.Capability
		}
		b.WriteString("  " + ValueStyle.Render(reg.ID))
		var notes []string
		if reg.Order != 0 {
			notes = append(notes, fmt.Sprintf("order=%d", reg.Order))
		}
		if len(reg.After) > 0 {
			notes = append(notes, "after="+strings.Join(reg.After, ","))
		}
		if len(reg.Before) > 0 {
			notes = append(notes, "before="+strings.Join(reg.Before, ","))
		}
		if reg.RequiresProfile != "" {
			notes = append(notes, "requires-profile="+reg.RequiresProfile)
		}
		if reg.RequiresKey != "" {
			notes = append(notes, "requires-key="+reg.RequiresKey)
		}
		if len(notes) > 0 {
			b.WriteString("  " + MutedStyle.Render(strings.Join(notes, " ")))
		}
		b.WriteString("\n")
		if reg.Description != "" {
			b.WriteString("      " + MutedStyle.Render(reg.Description) + "\n")
		}
	}
	_, err := fmt.Fprint(f.writer, b.String())
	return err
}

// Runs writes history rows, newest first as supplied.
func (f *Formatter) Runs(runs []RunDTO) error {
	var b strings.Builder
	for _, run := range runs {
		status := SuccessStyle.Render(run.Status)
		if run.Status != "completed" {
			status = ErrorStyle.Render(run.Status)
		}
		b.WriteString(fmt.Sprintf("%s  %s  %s",
			MutedStyle.Render(run.StartedAt.Format(time.DateTime)),
			status,
			ValueStyle.Render(shortID(run.ID))))
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  %dms  %d sources  %d contributors",
			run.DurationMs, run.SourceCount, len(run.Contributors))))
		if len(run.Profiles) > 0 {
			b.WriteString("  " + LabelStyle.Render(strings.Join(run.Profiles, ",")))
		}
		b.WriteString("\n")
		if run.Error != "" {
			b.WriteString("    " + ErrorStyle.Render(run.Error) + "\n")
		}
	}
	_, err := fmt.Fprint(f.writer, b.String())
	return err
}

func (f *Formatter) field(b *strings.Builder, label, value string) {
	b.WriteString(LabelStyle.Render(fmt.Sprintf("%-10s", label)))
	b.WriteString(" " + ValueStyle.Render(value) + "\n")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
