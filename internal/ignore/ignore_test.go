package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIgnoreMatch(t *testing.T) {
	dir := t.TempDir()
	ig := filepath.Join(dir, ".keywardignore")
	content := "node_modules/\n*.pem\n# comment\n\nsecret.env\n"
	if err := os.WriteFile(ig, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(ig)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]bool{
		"node_modules/pkg/index.js": true,
		"certs/key.pem":             true,
		"secret.env":                true,
		"src/app.go":                false,
	}
	for p, want := range cases {
		if got := m.Match(p); got != want {
			t.Fatalf("Match(%q)=%v want %v", p, got, want)
		}
	}
}

func TestNew_DoublestarAndNested(t *testing.T) {
	m := New("docs/**/*.md", "fixtures/", "  ", "# nothing")
	assert.Equal(t, []string{"docs/**/*.md", "fixtures/**"}, m.Patterns())
	assert.True(t, m.Match("docs/a/b/readme.md"))
	assert.True(t, m.Match("pkg/fixtures/key.txt"))
	assert.False(t, m.Match("src/readme.md"))
}

func TestLoad_Missing(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.False(t, m.Match("anything"))
}
