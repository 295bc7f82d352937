package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDirectory(t *testing.T) *Directory {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staff_database.json")
	d, err := Open(path, Data{
		"CSE": {"cse101": Entry{}, "cse102": Entry{Registered: true}},
		"ECE": {"ece101": Entry{}},
	})
	require.NoError(t, err)
	return d
}

func TestOpenCreatesFileWithSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staff_database.json")
	_, err := Open(path, DefaultStaffSeed())
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)

	// Reopening must not reset the file.
	d, err := Open(path, Data{})
	require.NoError(t, err)
	members, departments, err := d.Counts()
	require.NoError(t, err)
	assert.Equal(t, 2, members)
	assert.Equal(t, 2, departments)
}

func TestFind(t *testing.T) {
	d := openTestDirectory(t)

	res, err := d.Find("cse101")
	require.NoError(t, err)
	assert.True(t, res.Exists)
	assert.Equal(t, "CSE", res.Department)
	assert.False(t, res.Registered)

	res, err = d.Find("cse102")
	require.NoError(t, err)
	assert.True(t, res.Registered)

	res, err = d.Find("unknown999")
	require.NoError(t, err)
	assert.False(t, res.Exists)
}

func TestFindIsCaseInsensitive(t *testing.T) {
	d := openTestDirectory(t)

	res, err := d.Find("CSE101")
	require.NoError(t, err)
	assert.True(t, res.Exists)
	assert.Equal(t, "CSE", res.Department)
}

func TestMarkRegisteredPersists(t *testing.T) {
	d := openTestDirectory(t)

	require.NoError(t, d.MarkRegistered("ece101"))

	// Reopen from disk and verify the flag survived.
	reopened, err := Open(d.path, Data{})
	require.NoError(t, err)
	res, err := reopened.Find("ece101")
	require.NoError(t, err)
	assert.True(t, res.Registered)
}

func TestMarkRegisteredUnknownID(t *testing.T) {
	d := openTestDirectory(t)
	assert.Error(t, d.MarkRegistered("ghost42"))
}

func TestCounts(t *testing.T) {
	d := openTestDirectory(t)

	members, departments, err := d.Counts()
	require.NoError(t, err)
	assert.Equal(t, 3, members)
	assert.Equal(t, 2, departments)
}
