package audit

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/keyward/keyward/internal/baseline"
	"github.com/keyward/keyward/internal/types"
)

// ChangeKind classifies one difference between two baselines.
type ChangeKind string

const (
	Added     ChangeKind = "added"
	Removed   ChangeKind = "removed"
	Relabeled ChangeKind = "relabeled"
)

// Change is a finding that differs in presence or label.
type Change struct {
	Kind ChangeKind
	// Old is the zero Finding for Added; New is zero for Removed.
	Old types.Finding
	New types.Finding
}

// Finding returns whichever side of the change is present.
func (c Change) Finding() types.Finding {
	if c.Kind == Removed {
		return c.Old
	}
	return c.New
}

// Compare lists differences from older to newer, ordered by file, then line,
// hash and type as stored.
func Compare(older, newer *baseline.Baseline) []Change {
	var out []Change
	seen := map[types.Identity]bool{}
	files := map[string]bool{}
	for _, name := range older.Results.Files() {
		files[name] = true
	}
	for _, name := range newer.Results.Files() {
		files[name] = true
	}
	all := types.NewResultSet()
	for name := range files {
		all.AddAll(older.Results.FindingsFor(name))
		all.AddAll(newer.Results.FindingsFor(name))
	}
	for _, f := range all.All() {
		id := f.Identity()
		if seen[id] {
			continue
		}
		seen[id] = true
		o, inOld := older.Results.Get(id)
		n, inNew := newer.Results.Get(id)
		switch {
		case inOld && !inNew:
			out = append(out, Change{Kind: Removed, Old: o})
		case !inOld && inNew:
			out = append(out, Change{Kind: Added, New: n})
		case label(o) != label(n):
			out = append(out, Change{Kind: Relabeled, Old: o, New: n})
		}
	}
	return out
}

func label(f types.Finding) string {
	switch {
	case f.IsSecret == nil:
		return "unlabeled"
	case *f.IsSecret:
		return "real"
	default:
		return "false positive"
	}
}

var (
	addedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	removedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	relabeledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// RenderChanges writes one line per change for review.
func RenderChanges(w io.Writer, changes []Change, noColor bool) {
	paint := func(s lipgloss.Style, text string) string {
		if noColor {
			return text
		}
		return s.Render(text)
	}
	if len(changes) == 0 {
		fmt.Fprintln(w, "No differences.")
		return
	}
	for _, c := range changes {
		f := c.Finding()
		loc := fmt.Sprintf("%s:%d", f.Filename, f.LineNumber)
		switch c.Kind {
		case Added:
			fmt.Fprintf(w, "%s %s  %s\n", paint(addedStyle, "+"), loc, f.SecretType)
		case Removed:
			fmt.Fprintf(w, "%s %s  %s\n", paint(removedStyle, "-"), loc, f.SecretType)
		case Relabeled:
			fmt.Fprintf(w, "%s %s  %s  %s\n", paint(relabeledStyle, "~"), loc, f.SecretType,
				paint(dimStyle, label(c.Old)+" -> "+label(c.New)))
		}
	}
	added, removed, relabeled := 0, 0, 0
	for _, c := range changes {
		switch c.Kind {
		case Added:
			added++
		case Removed:
			removed++
		default:
			relabeled++
		}
	}
	fmt.Fprintf(w, "\n%d added, %d removed, %d relabeled\n", added, removed, relabeled)
}
