package dedup_test

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/arthur-debert/aptdedup/pkg/dedup"
	apterrors "github.com/arthur-debert/aptdedup/pkg/errors"
	"github.com/arthur-debert/aptdedup/pkg/sources"
	"github.com/arthur-debert/aptdedup/pkg/testutil"
	"github.com/arthur-debert/aptdedup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyScenario(t *testing.T) {
	// The identical line appears at sources.list:5, a.list:2, b.list:1.
	testfs := testutil.NewTestFS()
	kali := "deb http://example.org/kali kali-rolling main"
	testutil.WriteFile(t, testfs, "/etc/apt/sources.list",
		"# header\n\ndeb http://a main\n\n"+kali+"\n")
	testutil.WriteFile(t, testfs, "/a.list", "deb http://other main\n"+kali+"\n")
	testutil.WriteFile(t, testfs, "/b.list", kali+"\n")

	order := []string{"/etc/apt/sources.list", "/a.list", "/b.list"}
	entries, err := sources.NewCollector(testfs, marker).Collect(order)
	require.NoError(t, err)
	groups := dedup.Detect(entries)

	rewritten, err := dedup.New(testfs, marker).Apply(context.Background(), groups, order)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.list", "/b.list"}, rewritten)

	// sources.list keeps its copy untouched.
	assert.Equal(t, "# header\n\ndeb http://a main\n\n"+kali+"\n",
		testutil.ReadFile(t, testfs, "/etc/apt/sources.list"))
	// Later copies are commented, verbatim text preserved.
	assert.Equal(t, "deb http://other main\n# aptdedup-dup: "+kali+"\n",
		testutil.ReadFile(t, testfs, "/a.list"))
	assert.Equal(t, "# aptdedup-dup: "+kali+"\n",
		testutil.ReadFile(t, testfs, "/b.list"))
}

func TestApplyRepeatedFilePathKeepsOneActiveCopy(t *testing.T) {
	// The same path in the file list twice: the kept occurrence must
	// stay active and the marked one must not be marked again.
	testfs := testutil.NewTestFS()
	line := "deb http://x main"
	testutil.WriteFile(t, testfs, "/a.list", line+"\n"+line+"\n")

	order := []string{"/a.list", "/a.list"}
	entries, err := sources.NewCollector(testfs, marker).Collect(order)
	require.NoError(t, err)
	require.Len(t, entries, 2, "repeated path contributes entries once")
	groups := dedup.Detect(entries)

	rewritten, err := dedup.New(testfs, marker).Apply(context.Background(), groups, order)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.list"}, rewritten)

	assert.Equal(t, line+"\n"+marker+": "+line+"\n",
		testutil.ReadFile(t, testfs, "/a.list"))
}

func TestApplyIsIdempotent(t *testing.T) {
	testfs := testutil.NewTestFS()
	testutil.WriteFile(t, testfs, "/a.list", "deb http://x main\ndeb http://x main\n")

	order := []string{"/a.list"}
	runApply := func() string {
		entries, err := sources.NewCollector(testfs, marker).Collect(order)
		require.NoError(t, err)
		_, err = dedup.New(testfs, marker).Apply(context.Background(), dedup.Detect(entries), order)
		require.NoError(t, err)
		return testutil.ReadFile(t, testfs, "/a.list")
	}

	first := runApply()
	second := runApply()
	assert.Equal(t, first, second, "second apply must be a byte-identical no-op")
	assert.Equal(t, "deb http://x main\n# aptdedup-dup: deb http://x main\n", first)
}

func TestApplyPreservesRawTextOfCommentedCopies(t *testing.T) {
	testfs := testutil.NewTestFS()
	testutil.WriteFile(t, testfs, "/a.list", "deb http://x main\ndeb   http://x   main  \n")

	order := []string{"/a.list"}
	entries, err := sources.NewCollector(testfs, marker).Collect(order)
	require.NoError(t, err)

	_, err = dedup.New(testfs, marker).Apply(context.Background(), dedup.Detect(entries), order)
	require.NoError(t, err)

	// The commented copy keeps its original spacing, not the canonical form.
	assert.Equal(t, "deb http://x main\n# aptdedup-dup: deb   http://x   main  \n",
		testutil.ReadFile(t, testfs, "/a.list"))
}

func TestApplyNoTrailingNewlinePreserved(t *testing.T) {
	testfs := testutil.NewTestFS()
	testutil.WriteFile(t, testfs, "/a.list", "deb http://x main\ndeb http://x main")

	order := []string{"/a.list"}
	entries, err := sources.NewCollector(testfs, marker).Collect(order)
	require.NoError(t, err)

	_, err = dedup.New(testfs, marker).Apply(context.Background(), dedup.Detect(entries), order)
	require.NoError(t, err)

	assert.Equal(t, "deb http://x main\n# aptdedup-dup: deb http://x main",
		testutil.ReadFile(t, testfs, "/a.list"))
}

// failAfterFS fails every write once the budget is spent.
type failAfterFS struct {
	types.FS
	remaining int
}

func (f *failAfterFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if f.remaining <= 0 {
		return errors.New("disk full")
	}
	f.remaining--
	return f.FS.WriteFile(name, data, perm)
}

func TestApplyPartialFailureKeepsCompletedFiles(t *testing.T) {
	inner := testutil.NewTestFS()
	dup := "deb http://x main"
	testutil.WriteFile(t, inner, "/keep.list", dup+"\n")
	testutil.WriteFile(t, inner, "/a.list", dup+"\n")
	testutil.WriteFile(t, inner, "/b.list", dup+"\n")

	order := []string{"/keep.list", "/a.list", "/b.list"}
	entries, err := sources.NewCollector(inner, marker).Collect(order)
	require.NoError(t, err)
	groups := dedup.Detect(entries)

	// One write budget: /a.list succeeds, /b.list fails.
	testfs := &failAfterFS{FS: inner, remaining: 1}
	rewritten, err := dedup.New(testfs, marker).Apply(context.Background(), groups, order)

	require.Error(t, err)
	assert.True(t, apterrors.IsErrorCode(err, apterrors.ErrWriteFailed))
	assert.Equal(t, []string{"/a.list"}, rewritten, "completed work is preserved")

	details := apterrors.GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, []string{"/b.list"}, details["unprocessed"])

	// /a.list is in its valid new state, /b.list fully old.
	assert.Equal(t, "# aptdedup-dup: "+dup+"\n", testutil.ReadFile(t, inner, "/a.list"))
	assert.Equal(t, dup+"\n", testutil.ReadFile(t, inner, "/b.list"))
}

func TestApplyCancellationBetweenFiles(t *testing.T) {
	testfs := testutil.NewTestFS()
	dup := "deb http://x main"
	testutil.WriteFile(t, testfs, "/a.list", dup+"\n"+dup+"\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rewritten, err := dedup.New(testfs, marker).Apply(ctx, dedup.Detect(mustCollect(t, testfs, "/a.list")), []string{"/a.list"})

	require.Error(t, err)
	assert.Empty(t, rewritten)
	// Nothing was touched.
	assert.Equal(t, dup+"\n"+dup+"\n", testutil.ReadFile(t, testfs, "/a.list"))
}

func mustCollect(t *testing.T, fs types.FS, files ...string) []sources.Entry {
	t.Helper()
	entries, err := sources.NewCollector(fs, marker).Collect(files)
	require.NoError(t, err)
	return entries
}
