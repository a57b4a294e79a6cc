package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"doc-composer/core/docx"
	"doc-composer/core/docx/docxtest"
	"doc-composer/core/library"
	"doc-composer/core/resolve"
	"doc-composer/core/validation"
	"doc-composer/feature/compose"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParse(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		f, err := Parse([]byte(`
master: templates/corporate.docx
workers: 2
accept_fuzzy: true
jobs:
  - name: q3
    manifest: manifests/q3.md
    output: output/q3.docx
  - manifest: manifests/board.md
    output: output/board.docx
    master: s3://templates/board.docx
`))
		require.NoError(t, err)
		assert.Equal(t, 2, f.Workers)
		assert.True(t, f.AcceptFuzzy)
		require.Len(t, f.Jobs, 2)
		assert.Equal(t, "q3", f.Jobs[0].Name)
		assert.Equal(t, "board", f.Jobs[1].Name, "name defaults to manifest stem")
	})

	t.Run("Unknown Field", func(t *testing.T) {
		_, err := Parse([]byte("jobs: []\nparallel: 3\n"))
		assert.Error(t, err)
	})

	t.Run("No Jobs", func(t *testing.T) {
		_, err := Parse([]byte("master: m.docx\n"))
		var verr *validation.Error
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "jobs")
	})

	t.Run("Missing Output", func(t *testing.T) {
		_, err := Parse([]byte("jobs:\n  - manifest: a.md\n"))
		var verr *validation.Error
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "jobs[0].output")
	})

	t.Run("Duplicate Names", func(t *testing.T) {
		_, err := Parse([]byte("jobs:\n  - {manifest: a/x.md, output: 1.docx}\n  - {manifest: b/x.md, output: 2.docx}\n"))
		assert.ErrorContains(t, err, `duplicate job name "x"`)
	})

	t.Run("Duplicate Outputs", func(t *testing.T) {
		_, err := Parse([]byte("jobs:\n  - {manifest: a.md, output: out/q3.docx}\n  - {manifest: b.md, output: ./out/q3.docx}\n"))
		assert.ErrorContains(t, err, `duplicate output "./out/q3.docx" in jobs "a" and "b"`)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := Parse(nil)
		assert.ErrorContains(t, err, "empty")
	})
}

func TestLoad_RelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
master: master.docx
jobs:
  - manifest: q3.md
    output: out/q3.docx
    master: s3://templates/board.docx
`), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "master.docx"), f.Master)
	assert.Equal(t, filepath.Join(dir, "q3.md"), f.Jobs[0].Manifest)
	assert.Equal(t, filepath.Join(dir, "out", "q3.docx"), f.Jobs[0].Output)
	assert.Equal(t, "s3://templates/board.docx", f.Jobs[0].Master)
}

type fixture struct {
	dir    string
	runner *Runner
}

func setupRunner(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()

	lib := filepath.Join(dir, "library")
	require.NoError(t, os.Mkdir(lib, 0o755))
	for _, name := range []string{"Cover-Page", "Executive-Summary", "Conclusion"} {
		require.NoError(t, os.WriteFile(filepath.Join(lib, name+".docx"), docxtest.Build(name), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "master.docx"), docxtest.Build("Master"), 0o644))

	cache := library.NewCache(library.New(library.NewDirSource(lib, "")), 0)
	svc := compose.NewService(cache, nil, "", zap.NewNop(), compose.Options{
		Threshold:   resolve.DefaultThreshold,
		Interactive: true,
		OnReject:    compose.RejectSkip,
	})
	return fixture{dir: dir, runner: NewRunner(svc, zap.NewNop(), 2)}
}

func (fx fixture) manifest(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(fx.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func paragraphs(t *testing.T, path string) []string {
	t.Helper()
	doc, err := docx.OpenFile(path)
	require.NoError(t, err)
	paras, err := doc.Paragraphs()
	require.NoError(t, err)
	return paras
}

func TestRun(t *testing.T) {
	fx := setupRunner(t)
	f := &File{
		Master:      filepath.Join(fx.dir, "master.docx"),
		AcceptFuzzy: true,
		Jobs: []Job{
			{Name: "full", Manifest: fx.manifest(t, "full.md", "- Cover Page\n- Executive Sumary\n- Conclusion\n"), Output: filepath.Join(fx.dir, "out", "full.docx")},
			{Name: "broken", Manifest: filepath.Join(fx.dir, "missing.md"), Output: filepath.Join(fx.dir, "out", "broken.docx")},
			{Name: "short", Manifest: fx.manifest(t, "short.md", "- conclusion\n- Glossary\n"), Output: filepath.Join(fx.dir, "out", "short.docx")},
		},
	}

	results, err := fx.runner.Run(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "full", results[0].Job.Name)
	assert.False(t, results[0].Failed())
	assert.Equal(t, 3, results[0].Pages)
	assert.Equal(t, []string{"Master", "", "Cover-Page", "", "Executive-Summary", "", "Conclusion"}, paragraphs(t, f.Jobs[0].Output))

	assert.Equal(t, "broken", results[1].Job.Name)
	assert.True(t, results[1].Failed())
	assert.Contains(t, results[1].Error, "failed to read manifest")

	assert.Equal(t, "short", results[2].Job.Name)
	assert.False(t, results[2].Failed())
	assert.Equal(t, 1, results[2].Pages)
	assert.Equal(t, 1, results[2].Skipped)
}

func TestRun_RejectFuzzy(t *testing.T) {
	fx := setupRunner(t)
	f := &File{
		Master: filepath.Join(fx.dir, "master.docx"),
		Jobs: []Job{
			{Name: "q3", Manifest: fx.manifest(t, "q3.md", "- Cover Page\n- Executive Sumary\n"), Output: filepath.Join(fx.dir, "q3.docx")},
		},
	}

	results, err := fx.runner.Run(context.Background(), f)
	require.NoError(t, err)
	require.False(t, results[0].Failed())
	assert.Equal(t, 1, results[0].Pages)
	assert.Equal(t, []string{"Master", "", "Cover-Page"}, paragraphs(t, f.Jobs[0].Output))
}

func TestRun_Cancelled(t *testing.T) {
	fx := setupRunner(t)
	lib := library.New(library.NewDirSource(filepath.Join(fx.dir, "library"), ""))
	cache := library.NewCache(lib, time.Hour)
	_, err := cache.Get(context.Background())
	require.NoError(t, err)

	svc := compose.NewService(cache, nil, "", zap.NewNop(), compose.Options{Threshold: resolve.DefaultThreshold})
	runner := NewRunner(svc, zap.NewNop(), 1)
	f := &File{
		Master: filepath.Join(fx.dir, "master.docx"),
		Jobs: []Job{
			{Name: "a", Manifest: fx.manifest(t, "a.md", "- Conclusion\n"), Output: filepath.Join(fx.dir, "a.docx")},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := runner.Run(ctx, f)
	require.NoError(t, err, "the cached snapshot is used")
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestRun_LibraryError(t *testing.T) {
	cache := library.NewCache(library.New(library.NewDirSource(filepath.Join(t.TempDir(), "none"), "")), 0)
	svc := compose.NewService(cache, nil, "", zap.NewNop(), compose.Options{Threshold: resolve.DefaultThreshold})
	runner := NewRunner(svc, zap.NewNop(), 0)

	_, err := runner.Run(context.Background(), &File{Jobs: []Job{{Name: "x", Manifest: "x.md", Output: "x.docx"}}})
	assert.ErrorContains(t, err, "failed to load library")
}
