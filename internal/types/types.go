package types

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
)

// Finding describes a potential secret detected in a file. The raw secret is
// only held in memory; baselines persist the SHA-1 of it.
type Finding struct {
	Filename     string `json:"filename"`
	SecretType   string `json:"type"`
	LineNumber   int    `json:"line_number,omitempty"`
	HashedSecret string `json:"hashed_secret"`
	IsVerified   bool   `json:"is_verified"`
	IsSecret     *bool  `json:"is_secret,omitempty"`

	Secret string `json:"-"`
}

// Identity is the key two findings share when they describe the same secret
// across scans.
type Identity struct {
	Filename     string
	SecretType   string
	HashedSecret string
}

func (f Finding) Identity() Identity {
	return Identity{Filename: f.Filename, SecretType: f.SecretType, HashedSecret: f.HashedSecret}
}

// Labeled reports whether an audit decision has been recorded.
func (f Finding) Labeled() bool { return f.IsSecret != nil }

// HashSecret returns the lowercase hex SHA-1 of a raw secret value.
func HashSecret(secret string) string {
	sum := sha1.Sum([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// Bool returns a pointer to v, for setting IsSecret.
func Bool(v bool) *bool { return &v }

// ResultSet maps file paths to the ordered set of findings for that file.
// It is not safe for concurrent mutation.
type ResultSet struct {
	files map[string][]Finding
	index map[Identity]int
}

func NewResultSet() *ResultSet {
	return &ResultSet{files: map[string][]Finding{}, index: map[Identity]int{}}
}

// Add appends f to its file's findings unless a finding with the same
// identity is already present. It reports whether f was added.
func (r *ResultSet) Add(f Finding) bool {
	id := f.Identity()
	if _, ok := r.index[id]; ok {
		return false
	}
	r.index[id] = len(r.files[f.Filename])
	r.files[f.Filename] = append(r.files[f.Filename], f)
	return true
}

// AddAll adds every finding in fs, in order.
func (r *ResultSet) AddAll(fs []Finding) {
	for _, f := range fs {
		r.Add(f)
	}
}

// Get returns the finding stored under id.
func (r *ResultSet) Get(id Identity) (Finding, bool) {
	i, ok := r.index[id]
	if !ok {
		return Finding{}, false
	}
	return r.files[id.Filename][i], true
}

// Update replaces the stored finding sharing f's identity.
func (r *ResultSet) Update(f Finding) bool {
	i, ok := r.index[f.Identity()]
	if !ok {
		return false
	}
	r.files[f.Filename][i] = f
	return true
}

// Files returns the file paths in lexical order.
func (r *ResultSet) Files() []string {
	out := make([]string, 0, len(r.files))
	for name := range r.files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// FindingsFor returns a copy of the findings for name in insertion order.
func (r *ResultSet) FindingsFor(name string) []Finding {
	return append([]Finding(nil), r.files[name]...)
}

// Len returns the total number of findings.
func (r *ResultSet) Len() int { return len(r.index) }

// All returns every finding, files in lexical order and findings sorted by
// line, hash and type within a file.
func (r *ResultSet) All() []Finding {
	var out []Finding
	for _, name := range r.Files() {
		out = append(out, r.Sorted(name)...)
	}
	return out
}

// Sorted returns the findings for name in serialization order.
func (r *ResultSet) Sorted(name string) []Finding {
	fs := r.FindingsFor(name)
	sort.SliceStable(fs, func(i, j int) bool {
		if fs[i].LineNumber != fs[j].LineNumber {
			return fs[i].LineNumber < fs[j].LineNumber
		}
		if fs[i].HashedSecret != fs[j].HashedSecret {
			return fs[i].HashedSecret < fs[j].HashedSecret
		}
		return fs[i].SecretType < fs[j].SecretType
	})
	return fs
}
