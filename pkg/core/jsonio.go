package core

import (
	"io"

	"github.com/keyward/keyward/internal/baseline"
)

// MarshalBaseline writes b in the baseline file format.
func MarshalBaseline(w io.Writer, b *Baseline, slim bool) error {
	out, err := baseline.Format(b, slim)
	if err != nil {
		return err
	}
	_, err = w.Write(append(out, '\n'))
	return err
}

// UnmarshalBaseline decodes and upgrades a baseline document.
func UnmarshalBaseline(r io.Reader) (*Baseline, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return baseline.Parse(data)
}
