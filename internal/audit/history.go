package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/keyward/keyward/internal/git"
)

// Record kinds.
const (
	KindMerge = "merge"
	KindLabel = "label"
)

// Record is one line of the audit history: a baseline merge or a labeling
// session. It never carries secret values.
type Record struct {
	Timestamp     time.Time `json:"timestamp"`
	Kind          string    `json:"kind"`
	Baseline      string    `json:"baseline"`
	TotalFindings int       `json:"total_findings"`
	Added         int       `json:"added,omitempty"`
	Removed       int       `json:"removed,omitempty"`
	Real          int       `json:"real,omitempty"`
	FalsePositive int       `json:"false_positive,omitempty"`
	Repo          string    `json:"repo,omitempty"`
	Commit        string    `json:"commit,omitempty"`
	Branch        string    `json:"branch,omitempty"`
}

// History is an append-only JSONL log kept inside a repository's .git
// directory.
type History struct {
	root string
	path string
}

// OpenHistory returns the history for the repository at root, or nil when
// root has no .git directory.
func OpenHistory(root string) *History {
	gitDir := filepath.Join(root, ".git")
	if st, err := os.Stat(gitDir); err != nil || !st.IsDir() {
		return nil
	}
	return &History{root: root, path: filepath.Join(gitDir, "keyward_audit.jsonl")}
}

// Append writes one record, stamped with the checkout's commit and branch.
// A nil History discards it.
func (h *History) Append(record Record) error {
	if h == nil {
		return nil
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	if record.Commit == "" {
		md := git.RepoMetadata(h.root)
		record.Repo, record.Commit, record.Branch = md.Repo, md.Commit, md.Branch
	}
	f, err := os.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit history: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}
