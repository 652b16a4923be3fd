package rename

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartekS5/twinren/pkg/logger"
	"github.com/BartekS5/twinren/pkg/models"
)

var testMapping = models.CodeMapping{
	"IMG001": "PRD001", "PRD001": "IMG001",
	"IMG002": "PRD002", "PRD002": "IMG002",
}

func touch(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestProcess_Scenario(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "nested", "out")
	touch(t, in, "IMG001.png", "one")
	touch(t, in, "IMG002.jpg", "two")
	touch(t, in, "IMG999.png", "nine")

	res, err := Process(testMapping, in, out, []string{"png", "jpg"}, false, nil)
	require.NoError(t, err)

	assert.Equal(t, models.Result{Processed: 2, Skipped: 1, Errors: 0}, res)
	assert.Equal(t, []string{"PRD001.png", "PRD002.jpg"}, listDir(t, out))

	b, err := os.ReadFile(filepath.Join(out, "PRD002.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "two", string(b))
	assert.Len(t, listDir(t, in), 3, "sources are copied, not moved")
}

func TestProcess_ExistingDestination(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	touch(t, in, "IMG001.png", "new")
	touch(t, out, "PRD001.png", "old")

	res, err := Process(testMapping, in, out, []string{"png"}, false, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)

	old, _ := os.ReadFile(filepath.Join(out, "PRD001.png"))
	assert.Equal(t, "old", string(old))
	b, err := os.ReadFile(filepath.Join(out, "PRD001_1.png"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(b))
}

func TestProcess_CollisionLandsOnNextFreeSuffix(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	touch(t, in, "IMG001.png", "x")
	touch(t, out, "PRD001.png", "")
	for i := 1; i < 5; i++ {
		touch(t, out, conflictName("PRD001", ".png", i), "")
	}

	res, err := Process(testMapping, in, out, []string{"png"}, false, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.FileExists(t, filepath.Join(out, "PRD001_5.png"))
}

func TestProcess_ExtensionFilter(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	touch(t, in, "IMG001.PNG", "upper")
	touch(t, in, "IMG002.gif", "gif")
	touch(t, in, "notes.txt", "ignored")
	touch(t, in, ".png", "dotfile")
	touch(t, in, "IMG001", "no extension")
	require.NoError(t, os.Mkdir(filepath.Join(in, "IMG002.png"), 0o755))

	res, err := Process(testMapping, in, out, []string{".Png", "jpg"}, false, nil)
	require.NoError(t, err)

	assert.Equal(t, models.Result{Processed: 1}, res)
	assert.Equal(t, []string{"PRD001.PNG"}, listDir(t, out), "original extension case is kept")
}

func TestProcess_ReverseDirection(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	touch(t, in, "PRD002.jpg", "")

	res, err := Process(testMapping, in, out, []string{"jpg"}, false, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, []string{"IMG002.jpg"}, listDir(t, out))
}

func TestProcess_DryRunTouchesNothing(t *testing.T) {
	in := t.TempDir()
	out := filepath.Join(t.TempDir(), "not-created")
	touch(t, in, "IMG001.png", "")
	touch(t, in, "IMG003.png", "")

	var buf bytes.Buffer
	res, err := Process(testMapping, in, out, []string{"png"}, true, logger.New(&buf, logger.INFO))
	require.NoError(t, err)

	assert.Equal(t, models.Result{Processed: 1, Skipped: 1}, res)
	assert.NoDirExists(t, out)
	assert.Contains(t, buf.String(), "[DRY-RUN] IMG001.png -> PRD001.png")
}

func TestProcess_DryRunWithExistingOutput(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	touch(t, in, "IMG001.png", "")
	touch(t, out, "PRD001.png", "keep")

	fsys := &recordingFS{}
	e := &Engine{FS: fsys}
	res, err := e.Process(testMapping, in, out, []string{"png"}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Processed)
	assert.Empty(t, fsys.writes)
	assert.Equal(t, []string{"PRD001.png"}, listDir(t, out))
}

func TestProcess_MissingInputDir(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	_, err := Process(testMapping, filepath.Join(t.TempDir(), "missing"), out, []string{"png"}, false, nil)

	var dnf *DirectoryNotFoundError
	require.ErrorAs(t, err, &dnf)
	assert.False(t, dnf.NotDir)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.NoDirExists(t, out, "nothing is written before the input check")
}

func TestProcess_InputIsFile(t *testing.T) {
	file := touch(t, t.TempDir(), "IMG001.png", "")
	_, err := Process(testMapping, file, t.TempDir(), []string{"png"}, false, nil)

	var dnf *DirectoryNotFoundError
	require.ErrorAs(t, err, &dnf)
	assert.True(t, dnf.NotDir)
}

func TestProcess_CopyFailureIsIsolated(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	touch(t, in, "IMG001.png", "")
	touch(t, in, "IMG002.png", "")
	touch(t, in, "IMG404.png", "")

	var buf bytes.Buffer
	e := &Engine{
		FS:  &recordingFS{failCopy: "IMG001.png"},
		Log: logger.New(&buf, logger.INFO),
	}
	res, err := e.Process(testMapping, in, out, []string{"png"}, false)
	require.NoError(t, err)

	assert.Equal(t, models.Result{Processed: 1, Skipped: 1, Errors: 1}, res)
	assert.Equal(t, []string{"PRD002.png"}, listDir(t, out))
	assert.Contains(t, buf.String(), "ERROR: ")
}

func TestProcess_TooManyConflicts(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	touch(t, in, "IMG001.png", "")
	touch(t, in, "IMG002.png", "")

	fsys := &recordingFS{occupied: "PRD001", outputDir: out}
	var buf bytes.Buffer
	e := &Engine{FS: fsys, Log: logger.New(&buf, logger.INFO)}
	res, err := e.Process(testMapping, in, out, []string{"png"}, false)
	require.NoError(t, err)

	assert.Equal(t, models.Result{Processed: 1, Errors: 1}, res)
	assert.Contains(t, buf.String(), "too many name conflicts for PRD001.png")
}

func TestProcess_InvalidTarget(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	touch(t, in, "IMG001.png", "")
	touch(t, in, "IMG002.png", "")
	m := models.CodeMapping{"IMG001": "../escape", "../escape": "IMG001", "IMG002": "..", "..": "IMG002"}

	res, err := Process(m, in, out, []string{"png"}, false, nil)
	require.NoError(t, err)
	assert.Equal(t, models.Result{Errors: 2}, res)
	assert.Empty(t, listDir(t, out))
}

func TestProcess_CountsAccountForAllowedFiles(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	names := []string{"IMG001.png", "IMG002.JPG", "PRD001.jpg", "A.png", "B.jpg", "C.txt", "D.bmp"}
	for _, n := range names {
		touch(t, in, n, n)
	}
	touch(t, out, "PRD001.png", "")

	res, err := Process(testMapping, in, out, []string{"png", "jpg"}, false, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total())
	assert.Equal(t, 3, res.Processed)
	assert.Equal(t, 2, res.Skipped)
}

func TestCopyFilePreservesMetadata(t *testing.T) {
	dir := t.TempDir()
	src := touch(t, dir, "a.png", "payload")
	require.NoError(t, os.Chmod(src, 0o600))
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	dst := filepath.Join(dir, "b.png")
	require.NoError(t, OSFileSystem{}.CopyFile(src, dst))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime))

	err = OSFileSystem{}.CopyFile(src, dst)
	assert.True(t, errors.Is(err, fs.ErrExist), "never overwrites")
}

func TestSplitName(t *testing.T) {
	tests := []struct{ in, stem, ext string }{
		{"IMG001.png", "IMG001", ".png"},
		{"IMG001.tar.gz", "IMG001.tar", ".gz"},
		{"IMG001.PNG", "IMG001", ".PNG"},
		{".hidden", ".hidden", ""},
		{"noext", "noext", ""},
		{"trailing.", "trailing.", ""},
	}
	for _, tt := range tests {
		stem, ext := SplitName(tt.in)
		assert.Equal(t, tt.stem, stem, tt.in)
		assert.Equal(t, tt.ext, ext, tt.in)
	}
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "copied", Copied.String())
	assert.Equal(t, "skipped-unmatched", Unmatched.String())
	assert.Equal(t, "errored", Errored.String())
	assert.Equal(t, "extension-rejected", ExtensionRejected.String())
}

// recordingFS wraps the OS filesystem, records mutations and can inject
// failures.
type recordingFS struct {
	OSFileSystem
	writes    []string
	failCopy  string
	occupied  string
	outputDir string
}

type fakeInfo struct{ name string }

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() fs.FileMode  { return 0o644 }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return false }
func (f fakeInfo) Sys() interface{}   { return nil }

func (r *recordingFS) Stat(path string) (fs.FileInfo, error) {
	if r.occupied != "" && filepath.Dir(path) == r.outputDir && strings.HasPrefix(filepath.Base(path), r.occupied) {
		return fakeInfo{name: filepath.Base(path)}, nil
	}
	return r.OSFileSystem.Stat(path)
}

func (r *recordingFS) MkdirAll(path string, perm fs.FileMode) error {
	r.writes = append(r.writes, "mkdir "+path)
	return r.OSFileSystem.MkdirAll(path, perm)
}

func (r *recordingFS) CopyFile(src, dst string) error {
	r.writes = append(r.writes, "copy "+dst)
	if r.failCopy != "" && filepath.Base(src) == r.failCopy {
		return errors.New("disk full")
	}
	return r.OSFileSystem.CopyFile(src, dst)
}
