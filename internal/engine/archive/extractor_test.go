package archive_test

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/skeleton/internal/core/domain"
	"go.trai.ch/zerr"
)

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	require.NoError(t, err)
	return out
}

func regular(name, data string) readEntry {
	return readEntry{
		hdr:  &tar.Header{Typeflag: tar.TypeReg, Name: name, Mode: 0o644},
		data: data,
	}
}

func TestExtractor_RoundTrip(t *testing.T) {
	f := newFixture(t)
	data := build(t, f)
	dest := t.TempDir()

	require.NoError(t, newExtractor(t).Extract(bytes.NewReader(data), dest))

	for _, e := range readArchive(t, data) {
		path := filepath.Join(dest, filepath.FromSlash(e.hdr.Name))
		content, err := os.ReadFile(path)
		require.NoError(t, err, e.hdr.Name)
		assert.Equal(t, e.data, string(content), e.hdr.Name)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(e.hdr.Mode).Perm(), info.Mode().Perm(), e.hdr.Name)
		assert.Equal(t, e.hdr.ModTime.Unix(), info.ModTime().Unix(), e.hdr.Name)
	}

	lock, err := os.ReadFile(filepath.Join(dest, "Cargo.lock"))
	require.NoError(t, err)
	assert.Equal(t, "version = 3\n", string(lock))
	assert.FileExists(t, filepath.Join(dest, domain.LockfileName))
}

func TestExtractor_ReunpackOverSkeleton(t *testing.T) {
	f := newFixture(t)
	data := build(t, f)
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "extra.txt"), "kept", 0o644)

	require.NoError(t, newExtractor(t).Extract(bytes.NewReader(data), dest))
	require.NoError(t, newExtractor(t).Extract(bytes.NewReader(data), dest), "a previous skeleton may be overwritten")

	assert.FileExists(t, filepath.Join(dest, "extra.txt"), "unrelated files are never deleted")
}

func TestExtractor_RefusesRealProject(t *testing.T) {
	data := build(t, newFixture(t))
	dest := t.TempDir()
	writeFile(t, filepath.Join(dest, "Cargo.toml"), "[package]\nname = \"real\"\n", 0o644)

	err := newExtractor(t).Extract(bytes.NewReader(data), dest)
	require.ErrorIs(t, err, domain.ErrDestinationNotASkeleton)

	assert.Equal(t, []string{"Cargo.toml"}, listDir(t, dest))
	content, err := os.ReadFile(filepath.Join(dest, "Cargo.toml"))
	require.NoError(t, err)
	assert.Equal(t, "[package]\nname = \"real\"\n", string(content))
}

func TestExtractor_RejectsEscapingEntries(t *testing.T) {
	for _, name := range []string{"../evil.rs", "src/../../evil.rs", "/etc/evil.rs"} {
		t.Run(name, func(t *testing.T) {
			data := tarOf(t, regular("ok.rs", "fine"), regular(name, "evil"))
			parent := t.TempDir()
			dest := filepath.Join(parent, "dest")
			require.NoError(t, os.Mkdir(dest, 0o755))

			err := newExtractor(t).Extract(bytes.NewReader(data), dest)
			require.ErrorIs(t, err, domain.ErrPathEscapesWorkspace)

			zErr, ok := err.(*zerr.Error)
			require.True(t, ok, "expected *zerr.Error, got %T", err)
			assert.Equal(t, name, zErr.Metadata()["entry"])

			assert.Empty(t, listDir(t, parent), "nothing is written when any entry is rejected")
		})
	}
}

func TestExtractor_RejectsSymlinks(t *testing.T) {
	data := tarOf(t,
		regular("ok.rs", "fine"),
		readEntry{hdr: &tar.Header{Typeflag: tar.TypeSymlink, Name: "link", Linkname: "/etc/passwd"}},
	)
	dest := t.TempDir()

	err := newExtractor(t).Extract(bytes.NewReader(data), dest)
	require.ErrorIs(t, err, domain.ErrUnsupportedEntry)
	assert.Empty(t, listDir(t, dest))
}

func TestExtractor_CorruptArchive(t *testing.T) {
	valid := tarOf(t, regular("src/lib.rs", "pub fn f() {}\n"))

	tests := []struct {
		name string
		data []byte
	}{
		{name: "garbage", data: bytes.Repeat([]byte("x"), 1024)},
		{name: "truncated content", data: valid[:512+4]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := t.TempDir()

			err := newExtractor(t).Extract(bytes.NewReader(tt.data), dest)
			require.ErrorIs(t, err, domain.ErrCorruptArchive)
			assert.Empty(t, listDir(t, dest))
		})
	}
}

func TestExtractor_DirectoriesAndDefaults(t *testing.T) {
	data := tarOf(t,
		readEntry{hdr: &tar.Header{Typeflag: tar.TypeDir, Name: "empty/", Mode: 0o755}},
		readEntry{hdr: &tar.Header{Typeflag: tar.TypeReg, Name: "./src/main.rs", Mode: 0o600, ModTime: time.Unix(1_700_000_000, 0)}, data: "fn main() {}\n"},
	)
	dest := t.TempDir()

	require.NoError(t, newExtractor(t).Extract(bytes.NewReader(data), dest))

	assert.DirExists(t, filepath.Join(dest, "empty"))
	info, err := os.Stat(filepath.Join(dest, "src", "main.rs"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	assert.Equal(t, int64(1_700_000_000), info.ModTime().Unix())
}
