package sources_test

import (
	"testing"

	"github.com/arthur-debert/aptdedup/pkg/errors"
	"github.com/arthur-debert/aptdedup/pkg/sources"
	"github.com/arthur-debert/aptdedup/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectPreservesOrder(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFile(t, fs, "/etc/apt/sources.list", "deb http://a main\ndeb http://b main\n")
	testutil.WriteFile(t, fs, "/etc/apt/sources.list.d/extra.list", "deb http://c main\n")

	collector := sources.NewCollector(fs, marker)
	entries, err := collector.Collect([]string{
		"/etc/apt/sources.list",
		"/etc/apt/sources.list.d/extra.list",
	})
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, "deb http://a main", entries[0].Raw)
	assert.Equal(t, "/etc/apt/sources.list", entries[0].File)
	assert.Equal(t, 1, entries[0].Line)
	assert.Equal(t, 0, entries[0].Ordinal)

	assert.Equal(t, "deb http://b main", entries[1].Raw)
	assert.Equal(t, 2, entries[1].Line)

	assert.Equal(t, "deb http://c main", entries[2].Raw)
	assert.Equal(t, "/etc/apt/sources.list.d/extra.list", entries[2].File)
	assert.Equal(t, 1, entries[2].Line)
	assert.Equal(t, 2, entries[2].Ordinal)
}

func TestCollectMissingFileIsNotAnError(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFile(t, fs, "/etc/apt/sources.list", "deb http://a main\n")

	collector := sources.NewCollector(fs, marker)
	entries, err := collector.Collect([]string{
		"/etc/apt/missing.list",
		"/etc/apt/sources.list",
	})
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "deb http://a main", entries[0].Raw)
	assert.Equal(t, 0, entries[0].Ordinal)
}

func TestCollectRepeatedPathReadOnce(t *testing.T) {
	// A path listed twice must not make its lines duplicates of
	// themselves.
	fs := testutil.NewTestFS()
	testutil.WriteFile(t, fs, "/a.list", "deb http://x main\n")

	collector := sources.NewCollector(fs, marker)
	entries, err := collector.Collect([]string{"/a.list", "/a.list"})
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "deb http://x main", entries[0].Raw)
	assert.Equal(t, "/a.list", entries[0].File)
}

func TestCollectReadFailureIsScanError(t *testing.T) {
	fs := testutil.NewTestFS()
	// A directory where a file is expected forces a read error that is
	// not ErrNotExist.
	require.NoError(t, fs.MkdirAll("/etc/apt/sources.list", 0755))

	collector := sources.NewCollector(fs, marker)
	_, err := collector.Collect([]string{"/etc/apt/sources.list"})

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrScanFailed))
}

func TestCollectMarkedAndBlankLinesHaveNoCanonical(t *testing.T) {
	fs := testutil.NewTestFS()
	content := "deb http://a main\n\n# aptdedup-dup: deb http://a main\n  deb   http://a   main\n"
	testutil.WriteFile(t, fs, "/etc/apt/sources.list", content)

	collector := sources.NewCollector(fs, marker)
	entries, err := collector.Collect([]string{"/etc/apt/sources.list"})
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, "deb http://a main", entries[0].Canonical)
	assert.Empty(t, entries[1].Canonical, "blank line must not group")
	assert.Empty(t, entries[2].Canonical, "marked line must not group")
	assert.Equal(t, " deb http://a main", entries[3].Canonical)
	// Raw text is untouched in every case.
	assert.Equal(t, "  deb   http://a   main", entries[3].Raw)
}
