package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formsmith/internal/template"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "profiles.csv", "name,email,age\nAB,ab@example.com,19\nCD,cd@example.com,23\n")

	p, err := Load(path, ModeSequential)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())

	row := p.Next()
	name, ok := row.Get("name")
	require.True(t, ok)
	assert.Equal(t, "AB", name)
}

func TestLoadCSVShortRecordPadded(t *testing.T) {
	// csv.Reader rejects ragged rows by default, so pad via quoting.
	path := writeFile(t, "profiles.csv", "name,email\nAB,\"\"\n")

	p, err := Load(path, ModeSequential)
	require.NoError(t, err)

	email, ok := p.Next().Get("email")
	require.True(t, ok)
	assert.Equal(t, "", email)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "profiles.json", `[{"name":"AB","age":19},{"name":"CD","age":23}]`)

	p, err := Load(path, ModeSequential)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Len())

	age, ok := p.Next().Get("age")
	require.True(t, ok)
	assert.EqualValues(t, 19, age)
}

func TestLoadJSONRejectsNonArray(t *testing.T) {
	path := writeFile(t, "profiles.json", `{"name":"AB"}`)
	_, err := Load(path, ModeRandom)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeFile(t, "profiles.yaml", "name: AB")
	_, err := Load(path, ModeRandom)
	assert.Error(t, err)
}

func TestSequentialWrapsAround(t *testing.T) {
	p := New([]template.MapVariables{{"i": 0}, {"i": 1}}, ModeSequential)

	var got []any
	for n := 0; n < 4; n++ {
		v, _ := p.Next().Get("i")
		got = append(got, v)
	}
	assert.Equal(t, []any{0, 1, 0, 1}, got)
}

func TestRandomStaysWithinRows(t *testing.T) {
	p := New([]template.MapVariables{{"i": 0}, {"i": 1}, {"i": 2}}, ModeRandom)

	for n := 0; n < 20; n++ {
		v, ok := p.Next().Get("i")
		require.True(t, ok)
		assert.Contains(t, []any{0, 1, 2}, v)
	}
}

func TestEmptyProfilesReturnNoVariables(t *testing.T) {
	p := New(nil, ModeRandom)
	_, ok := p.Next().Get("anything")
	assert.False(t, ok)
}
