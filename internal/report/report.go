// Package report builds the audit report: one entry per distinct secret in a
// file, with the current text of every line it was found on.
package report

import (
	"encoding/json"
	"io"
	"slices"

	"github.com/keyward/keyward/internal/audit"
	"github.com/keyward/keyward/internal/baseline"
	"github.com/keyward/keyward/internal/types"
)

// Category values, derived from audit labels.
const (
	VerifiedTrue  = "VERIFIED_TRUE"
	VerifiedFalse = "VERIFIED_FALSE"
	Unverified    = "UNVERIFIED"
)

// Class selects which entries are included.
type Class int

const (
	All Class = iota
	OnlyReal
	OnlyFalse
)

// ClassFor resolves the two filter flags. Real wins when both are set.
func ClassFor(onlyReal, onlyFalse bool) Class {
	switch {
	case onlyReal:
		return OnlyReal
	case onlyFalse:
		return OnlyFalse
	}
	return All
}

// Entry fields are declared in key order so the encoded JSON is key-sorted.
type Entry struct {
	Category string         `json:"category"`
	Filename string         `json:"filename"`
	Lines    map[int]string `json:"lines"`
	Types    []string       `json:"types"`
}

type Report struct {
	Results []Entry `json:"results"`
}

type group struct {
	filename string
	hash     string
}

// Generate builds the report for b. Line text is read from disk; unreadable
// lines are reported as empty strings.
func Generate(b *baseline.Baseline, class Class) Report {
	var order []group
	byGroup := map[group][]types.Finding{}
	for _, f := range b.Results.All() {
		g := group{f.Filename, f.HashedSecret}
		if _, ok := byGroup[g]; !ok {
			order = append(order, g)
		}
		byGroup[g] = append(byGroup[g], f)
	}

	r := Report{Results: []Entry{}}
	for _, g := range order {
		fs := byGroup[g]
		e := Entry{Category: category(fs), Filename: g.filename, Lines: map[int]string{}}
		if !class.includes(e.Category) {
			continue
		}
		for _, f := range fs {
			if !slices.Contains(e.Types, f.SecretType) {
				e.Types = append(e.Types, f.SecretType)
			}
			if f.LineNumber > 0 {
				text, _ := audit.LineAt(f.Filename, f.LineNumber)
				e.Lines[f.LineNumber] = text
			}
		}
		slices.Sort(e.Types)
		r.Results = append(r.Results, e)
	}
	return r
}

func category(fs []types.Finding) string {
	out := Unverified
	for _, f := range fs {
		if f.IsSecret == nil {
			continue
		}
		if *f.IsSecret {
			return VerifiedTrue
		}
		out = VerifiedFalse
	}
	return out
}

func (c Class) includes(category string) bool {
	switch c {
	case OnlyReal:
		return category == VerifiedTrue
	case OnlyFalse:
		return category == VerifiedFalse
	}
	return true
}

// Write prints r as 4-space indented JSON.
func Write(w io.Writer, r Report) error {
	out, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(out, '\n'))
	return err
}
