package audit

import (
	"errors"
	"fmt"
	"io"

	"github.com/keyward/keyward/internal/baseline"
	"github.com/keyward/keyward/internal/types"
)

// Decision is the reviewer's verdict on one finding.
type Decision int

const (
	Real Decision = iota
	FalsePositive
	Skip
	Quit
)

func (d Decision) String() string {
	switch d {
	case Real:
		return "real"
	case FalsePositive:
		return "false positive"
	case Skip:
		return "skip"
	case Quit:
		return "quit"
	}
	return fmt.Sprintf("Decision(%d)", int(d))
}

// State is the session's position in its lifecycle.
type State int

const (
	Start State = iota
	Prompt
	Saved
)

// InputFunc supplies the decision for the finding at position pos of total.
// Returning io.EOF ends the session as if Quit had been chosen.
type InputFunc func(f types.Finding, pos, total int) (Decision, error)

// SaveFunc persists the baseline after each label and at session end.
type SaveFunc func(*baseline.Baseline) error

// Session walks the unlabeled findings of a baseline in stored order.
type Session struct {
	b       *baseline.Baseline
	save    SaveFunc
	queue   []types.Identity
	cursor  int
	state   State
	labeled map[types.Identity]Decision
}

// NewSession queues every unlabeled finding of b.
func NewSession(b *baseline.Baseline, save SaveFunc) *Session {
	s := &Session{b: b, save: save, labeled: map[types.Identity]Decision{}}
	for _, f := range b.Results.All() {
		if !f.Labeled() {
			s.queue = append(s.queue, f.Identity())
		}
	}
	return s
}

func (s *Session) State() State                 { return s.state }
func (s *Session) Baseline() *baseline.Baseline { return s.b }

// Total is the number of findings queued for review.
func (s *Session) Total() int { return len(s.queue) }

// Position is the zero-based index of the current finding.
func (s *Session) Position() int { return s.cursor }

// Labeled returns the decisions recorded this session.
func (s *Session) Labeled() map[types.Identity]Decision { return s.labeled }

// Begin moves from Start to the first prompt. With nothing to review the
// session is saved immediately.
func (s *Session) Begin() error {
	if s.state != Start {
		return nil
	}
	if len(s.queue) == 0 {
		return s.finish()
	}
	s.state = Prompt
	return nil
}

// Current returns the finding awaiting a decision.
func (s *Session) Current() (types.Finding, bool) {
	if s.state != Prompt || s.cursor >= len(s.queue) {
		return types.Finding{}, false
	}
	return s.b.Results.Get(s.queue[s.cursor])
}

// Apply records d for the current finding and advances.
func (s *Session) Apply(d Decision) error {
	if s.state != Prompt {
		return fmt.Errorf("no finding awaiting a decision")
	}
	switch d {
	case Quit:
		return s.finish()
	case Real, FalsePositive:
		f, _ := s.Current()
		f.IsSecret = types.Bool(d == Real)
		s.b.Results.Update(f)
		s.labeled[f.Identity()] = d
		if err := s.save(s.b); err != nil {
			return err
		}
	case Skip:
	default:
		return fmt.Errorf("unknown decision %v", d)
	}
	s.cursor++
	if s.cursor >= len(s.queue) {
		return s.finish()
	}
	return nil
}

func (s *Session) finish() error {
	s.state = Saved
	return s.save(s.b)
}

// Run drives the session to completion with input.
func (s *Session) Run(input InputFunc) error {
	if err := s.Begin(); err != nil {
		return err
	}
	for s.state == Prompt {
		f, _ := s.Current()
		d, err := input(f, s.cursor, len(s.queue))
		if errors.Is(err, io.EOF) {
			d, err = Quit, nil
		}
		if err != nil {
			// keep what was labeled before the input failed
			if serr := s.finish(); serr != nil {
				return errors.Join(err, serr)
			}
			return err
		}
		if err := s.Apply(d); err != nil {
			return err
		}
	}
	return nil
}
