package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultSet_AddDedupesByIdentity(t *testing.T) {
	rs := NewResultSet()
	f := Finding{Filename: "a.env", SecretType: "AWS Access Key", LineNumber: 3, HashedSecret: HashSecret("AKIA")}
	require.True(t, rs.Add(f))
	f.LineNumber = 9
	assert.False(t, rs.Add(f), "same identity on another line is the same secret")
	assert.Equal(t, 1, rs.Len())
	got, ok := rs.Get(f.Identity())
	require.True(t, ok)
	assert.Equal(t, 3, got.LineNumber)
}

func TestResultSet_OrderingForSerialization(t *testing.T) {
	rs := NewResultSet()
	rs.Add(Finding{Filename: "z.go", SecretType: "t", LineNumber: 1, HashedSecret: "b"})
	rs.Add(Finding{Filename: "a.go", SecretType: "t", LineNumber: 7, HashedSecret: "b"})
	rs.Add(Finding{Filename: "a.go", SecretType: "t", LineNumber: 2, HashedSecret: "c"})

	assert.Equal(t, []string{"a.go", "z.go"}, rs.Files())
	// insertion order is preserved for FindingsFor
	assert.Equal(t, 7, rs.FindingsFor("a.go")[0].LineNumber)
	all := rs.All()
	require.Len(t, all, 3)
	assert.Equal(t, "a.go", all[0].Filename)
	assert.Equal(t, 2, all[0].LineNumber)
	assert.Equal(t, "z.go", all[2].Filename)
}

func TestResultSet_Update(t *testing.T) {
	rs := NewResultSet()
	f := Finding{Filename: "a", SecretType: "t", HashedSecret: "h"}
	rs.Add(f)
	f.IsSecret = Bool(true)
	require.True(t, rs.Update(f))
	got, _ := rs.Get(f.Identity())
	require.True(t, got.Labeled())
	assert.True(t, *got.IsSecret)

	assert.False(t, rs.Update(Finding{Filename: "b", SecretType: "t", HashedSecret: "h"}))
}

func TestHashSecret(t *testing.T) {
	assert.Equal(t, "a94a8fe5ccb19ba61c4c0873d391e987982fbbd3", HashSecret("test"))
}
