package audit

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/keyward/keyward/internal/baseline"
)

// ErrNotImplemented marks audit combinations that are accepted on the
// command line but have no implementation.
var ErrNotImplemented = errors.New("not implemented")

// Counts tallies findings by label.
type Counts struct {
	Total         int `json:"total"`
	Real          int `json:"real"`
	FalsePositive int `json:"false_positive"`
	Unlabeled     int `json:"unlabeled"`
}

// Precision is real / labeled, or 0 when nothing is labeled.
func (c Counts) Precision() float64 {
	labeled := c.Real + c.FalsePositive
	if labeled == 0 {
		return 0
	}
	return float64(c.Real) / float64(labeled)
}

func (c *Counts) add(isSecret *bool) {
	c.Total++
	switch {
	case isSecret == nil:
		c.Unlabeled++
	case *isSecret:
		c.Real++
	default:
		c.FalsePositive++
	}
}

// Stats summarises the labels in one baseline.
type Stats struct {
	Counts
	ByType map[string]Counts
}

// Statistics computes label counts over b.
func Statistics(b *baseline.Baseline) Stats {
	s := Stats{ByType: map[string]Counts{}}
	for _, f := range b.Results.All() {
		s.add(f.IsSecret)
		c := s.ByType[f.SecretType]
		c.add(f.IsSecret)
		s.ByType[f.SecretType] = c
	}
	return s
}

type countsJSON struct {
	Counts
	Precision float64 `json:"precision"`
}

// JSON returns the structure printed by --stats --json.
func (s Stats) JSON() any {
	byType := map[string]countsJSON{}
	for k, c := range s.ByType {
		byType[k] = countsJSON{c, round3(c.Precision())}
	}
	return struct {
		Total  countsJSON            `json:"total"`
		ByType map[string]countsJSON `json:"by_type"`
	}{countsJSON{s.Counts, round3(s.Precision())}, byType}
}

func round3(f float64) float64 {
	return float64(int(f*1000+0.5)) / 1000
}

// Render writes a table with one row per secret type and a total row.
func (s Stats) Render(w io.Writer) error {
	table := tablewriter.NewWriter(w)
	table.Header("Secret type", "Total", "Real", "False positive", "Unlabeled", "Precision")
	for _, typ := range slices.Sorted(maps.Keys(s.ByType)) {
		if err := table.Append(row(typ, s.ByType[typ])); err != nil {
			return err
		}
	}
	if err := table.Append(row("TOTAL", s.Counts)); err != nil {
		return err
	}
	return table.Render()
}

func (s Stats) String() string {
	var b strings.Builder
	if err := s.Render(&b); err != nil {
		return fmt.Sprintf("render stats: %v", err)
	}
	return b.String()
}

func row(name string, c Counts) []string {
	return []string{
		name,
		fmt.Sprint(c.Total),
		fmt.Sprint(c.Real),
		fmt.Sprint(c.FalsePositive),
		fmt.Sprint(c.Unlabeled),
		fmt.Sprintf("%.3f", c.Precision()),
	}
}
