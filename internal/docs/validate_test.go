package docs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticomni/conform/internal/apperr"
	"github.com/agenticomni/conform/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestValidate_MissingDocsDir(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{"README.md": "x"})

	_, err := Validate(context.Background(), Options{Root: root, Logger: quietLogger()})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrDocsDirNotFound))
}

func TestValidate_DocsIsFile(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{"docs": "not a dir"})

	_, err := Validate(context.Background(), Options{Root: root, Logger: quietLogger()})
	assert.ErrorIs(t, err, apperr.ErrDocsDirNotFound)
}

func TestValidate_EmptyDocsDir(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{
		"docs/notes.txt":         "not markdown",
		"docs/templates/tmpl.md": "excluded",
		"docs/CHANGELOG.md":      "excluded",
	})

	rep, err := Validate(context.Background(), Options{Root: root, Exclude: DefaultExclude, Logger: quietLogger()})
	require.NoError(t, err)
	assert.True(t, rep.Empty)
	assert.Equal(t, 0, rep.ExitCode())
	assert.Empty(t, rep.Documents)
}

func TestValidate_MixedResults(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{
		"docs/b-good.md":      testutil.ValidDoc,
		"docs/a-noheader.md":  "# Title\n**Last Updated**: now\n",
		"docs/c-stale.md":     strings.Replace(testutil.ValidDoc, "**Last Updated**", "Updated", 1),
		"docs/sub/d-links.md": testutil.ValidDoc + "[ok](../b-good.md) [bad](./nope.md)\n",
		"docs/templates/t.md": "ignored",
		"docs/CHANGELOG.md":   "ignored",
	})

	rep, err := Validate(context.Background(), Options{Root: root, Exclude: DefaultExclude, Logger: quietLogger()})
	require.NoError(t, err)

	paths := make([]string, 0, len(rep.Documents))
	for _, d := range rep.Documents {
		paths = append(paths, d.Path)
	}
	assert.Equal(t, []string{"docs/a-noheader.md", "docs/b-good.md", "docs/c-stale.md", "docs/sub/d-links.md"}, paths)

	assert.Equal(t, []string{"Missing YAML frontmatter (should start with '---')"}, rep.Documents[0].Issues)
	assert.Empty(t, rep.Documents[1].Issues)
	assert.Equal(t, []string{"Missing 'Last Updated' timestamp"}, rep.Documents[2].Issues)
	assert.Equal(t, []string{"Broken link: [bad](./nope.md)"}, rep.Documents[3].Issues)

	assert.Equal(t, 4, rep.Summary.Checked)
	assert.Equal(t, 3, rep.Summary.Failed)
	assert.Equal(t, 1, rep.Summary.Passed)
	assert.Equal(t, 3, rep.Summary.TotalIssues)
	assert.Equal(t, 1, rep.ExitCode())
}

func TestValidate_AllValid(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{
		"docs/a.md": testutil.ValidDoc,
		"docs/b.md": testutil.ValidDoc + "[a](a.md) [ext](https://example.com) [anchor](#top)\n",
	})

	rep, err := Validate(context.Background(), Options{Root: root, Logger: quietLogger()})
	require.NoError(t, err)
	assert.Equal(t, 0, rep.ExitCode())
	assert.Equal(t, 2, rep.Summary.Passed)
}

func TestValidate_FailedCountMatchesNonEmptyIssueLists(t *testing.T) {
	files := map[string]string{}
	bodies := []string{
		testutil.ValidDoc,
		"no header, no marker",
		testutil.ValidDoc + "[x](missing.md)",
		"---\ntitle: x\n",
		strings.Replace(testutil.ValidDoc, `status: "approved"`, `status: "nope"`, 1),
	}
	for i, b := range bodies {
		files["docs/doc"+string(rune('a'+i))+".md"] = b
	}
	root := testutil.TestProject(t, files)

	for _, workers := range []int{1, 4} {
		rep, err := Validate(context.Background(), Options{Root: root, Workers: workers, Logger: quietLogger()})
		require.NoError(t, err)

		failed := 0
		for _, d := range rep.Documents {
			if len(d.Issues) > 0 {
				failed++
			}
		}
		assert.Equal(t, failed, rep.Summary.Failed, "workers=%d", workers)
		assert.Equal(t, 4, rep.Summary.Failed, "workers=%d", workers)
	}
}

func TestValidate_ParallelMatchesSequential(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 20; i++ {
		body := testutil.ValidDoc
		if i%3 == 0 {
			body += "[gone](gone.md)"
		}
		files["docs/n"+string(rune('a'+i))+".md"] = body
	}
	root := testutil.TestProject(t, files)

	seq, err := Validate(context.Background(), Options{Root: root, Workers: 1, Logger: quietLogger()})
	require.NoError(t, err)
	par, err := Validate(context.Background(), Options{Root: root, Workers: 8, Logger: quietLogger()})
	require.NoError(t, err)

	assert.Equal(t, seq.Documents, par.Documents)
	assert.Equal(t, seq.Summary, par.Summary)
}

func TestValidate_InvalidUTF8BecomesIssue(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{
		"docs/bad.md":  "\xff\xfe\xfd",
		"docs/good.md": testutil.ValidDoc,
	})

	rep, err := Validate(context.Background(), Options{Root: root, Logger: quietLogger()})
	require.NoError(t, err)
	require.Len(t, rep.Documents, 2)
	require.Len(t, rep.Documents[0].Issues, 1)
	assert.Contains(t, rep.Documents[0].Issues[0], "Error reading file")
	assert.True(t, rep.Documents[1].Valid())
}

func TestValidate_Cancelled(t *testing.T) {
	root := testutil.TestProject(t, map[string]string{"docs/a.md": testutil.ValidDoc})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Validate(ctx, Options{Root: root, Logger: quietLogger()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidate_UnreadableSubdirDoesNotAbort(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	root := testutil.TestProject(t, map[string]string{
		"docs/a.md":         testutil.ValidDoc,
		"docs/private/b.md": testutil.ValidDoc,
	})
	private := filepath.Join(root, "docs", "private")
	require.NoError(t, os.Chmod(private, 0o000))
	t.Cleanup(func() { _ = os.Chmod(private, 0o755) })

	rep, err := Validate(context.Background(), Options{Root: root, Logger: quietLogger()})
	require.NoError(t, err)
	require.Len(t, rep.Documents, 1)
	assert.Equal(t, "docs/a.md", rep.Documents[0].Path)
	assert.Equal(t, 0, rep.ExitCode())
}
