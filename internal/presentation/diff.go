package presentation

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffLineKind classifies one line of an effective-view diff.
type DiffLineKind int

const (
	// DiffUnchanged marks a key present with the same value on both sides.
	DiffUnchanged DiffLineKind = iota
	// DiffAdded marks a key only present on the right side.
	DiffAdded
	// DiffRemoved marks a key only present on the left side.
	DiffRemoved
	// DiffChanged marks a key whose value differs between sides.
	DiffChanged
)

// DiffLine is one key-level difference between two effective views.
type DiffLine struct {
	Kind     DiffLineKind
	Key      string
	Left     string
	Right    string
	Segments []DiffSegment
}

// DiffSegment is one fragment of a changed value, classified by side.
type DiffSegment struct {
	Kind DiffLineKind
	Text string
}

// DiffViews compares two effective views key by key, sorted by key. Changed
// values carry character-level segments from a semantic diff so the output
// can highlight what moved inside a long value.
func DiffViews(left, right map[string]string) []DiffLine {
	keys := make(map[string]struct{}, len(left)+len(right))
	for k := range left {
		keys[k] = struct{}{}
	}
	for k := range right {
		keys[k] = struct{}{}
	}
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	dmp := diffmatchpatch.New()
	var out []DiffLine
	for _, k := range sorted {
		lv, inLeft := left[k]
		rv, inRight := right[k]
		switch {
		case inLeft && !inRight:
			out = append(out, DiffLine{Kind: DiffRemoved, Key: k, Left: lv})
		case !inLeft && inRight:
			out = append(out, DiffLine{Kind: DiffAdded, Key: k, Right: rv})
		case lv != rv:
			out = append(out, DiffLine{
				Kind: DiffChanged, Key: k, Left: lv, Right: rv,
				Segments: valueSegments(dmp, lv, rv),
			})
		default:
			out = append(out, DiffLine{Kind: DiffUnchanged, Key: k, Left: lv, Right: rv})
		}
	}
	return out
}

func valueSegments(dmp *diffmatchpatch.DiffMatchPatch, left, right string) []DiffSegment {
	diffs := dmp.DiffMain(left, right, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	out := make([]DiffSegment, 0, len(diffs))
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			out = append(out, DiffSegment{Kind: DiffUnchanged, Text: d.Text})
		case diffmatchpatch.DiffDelete:
			out = append(out, DiffSegment{Kind: DiffRemoved, Text: d.Text})
		case diffmatchpatch.DiffInsert:
			out = append(out, DiffSegment{Kind: DiffAdded, Text: d.Text})
		}
	}
	return out
}

// Changed reports whether the diff contains any non-unchanged line.
func Changed(lines []DiffLine) bool {
	for _, line := range lines {
		if line.Kind != DiffUnchanged {
			return true
		}
	}
	return false
}

// RenderDiff writes the non-unchanged lines of a diff with +/- markers.
// Returns the number of lines written.
func RenderDiff(w io.Writer, lines []DiffLine) (int, error) {
	var b strings.Builder
	count := 0
	for _, line := range lines {
		switch line.Kind {
		case DiffAdded:
			b.WriteString(AddedStyle.Render(fmt.Sprintf("+ %s = %s", line.Key, line.Right)) + "\n")
		case DiffRemoved:
			b.WriteString(RemovedStyle.Render(fmt.Sprintf("- %s = %s", line.Key, line.Left)) + "\n")
		case DiffChanged:
			b.WriteString(ChangedStyle.Render("~ "+line.Key) + " = ")
			for _, seg := range line.Segments {
				switch seg.Kind {
				case DiffRemoved:
					b.WriteString(RemovedStyle.Strikethrough(true).Render(seg.Text))
				case DiffAdded:
					b.WriteString(AddedStyle.Render(seg.Text))
				default:
					b.WriteString(ValueStyle.Render(seg.Text))
				}
			}
			b.WriteString("\n")
		default:
			continue
		}
		count++
	}
	if count == 0 {
		b.WriteString(MutedStyle.Render("no differences") + "\n")
	}
	_, err := fmt.Fprint(w, b.String())
	return count, err
}
