package archive_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/skeleton/internal/adapters/lockfile"
	"go.trai.ch/skeleton/internal/core/domain"
	"go.trai.ch/skeleton/internal/engine/archive"
)

func names(entries []readEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.hdr.Name
	}
	return out
}

func TestBuilder_EntryOrder(t *testing.T) {
	f := newFixture(t)

	entries := readArchive(t, build(t, f))

	assert.Equal(t, []string{
		"Cargo.toml",
		"Cargo.lock",
		"crates/a/Cargo.toml",
		"crates/a/src/lib.rs",
		"crates/a/src/main.rs",
		"crates/b/Cargo.toml",
		"crates/b/src/lib.rs",
		domain.LockfileName,
	}, names(entries))
}

func TestBuilder_Deterministic(t *testing.T) {
	f := newFixture(t)

	first := build(t, f)
	second := build(t, f)

	assert.True(t, bytes.Equal(first, second), "archives of the same workspace differ")
}

func TestBuilder_Headers(t *testing.T) {
	f := newFixture(t)

	byName := make(map[string]readEntry)
	for _, e := range readArchive(t, build(t, f)) {
		byName[e.hdr.Name] = e
	}

	for _, name := range []string{"crates/a/src/main.rs", domain.LockfileName} {
		hdr := byName[name].hdr
		assert.Equal(t, int64(0o644), hdr.Mode, name)
		assert.Equal(t, int64(0), hdr.ModTime.Unix(), name)
		assert.Equal(t, 0, hdr.Uid, name)
		assert.Equal(t, 0, hdr.Gid, name)
		assert.Empty(t, hdr.Uname, name)
		assert.Empty(t, hdr.Gname, name)
	}

	lock := byName["Cargo.lock"]
	assert.Equal(t, int64(0o600), lock.hdr.Mode, "verbatim entries keep their permissions")
	assert.Equal(t, fixedTime.Truncate(time.Second).Unix(), lock.hdr.ModTime.Unix())
	assert.Equal(t, 0, lock.hdr.Uid)
	assert.Empty(t, lock.hdr.Uname)
	assert.Equal(t, "version = 3\n", lock.data)
}

func TestBuilder_Stubs(t *testing.T) {
	f := newFixture(t)

	byName := make(map[string]string)
	for _, e := range readArchive(t, build(t, f)) {
		byName[e.hdr.Name] = e.data
	}

	assert.Equal(t, string(archive.Stub(domain.TargetExecutable)), byName["crates/a/src/main.rs"])
	assert.Equal(t, string(archive.Stub(domain.TargetLibrary)), byName["crates/a/src/lib.rs"])
	assert.Contains(t, byName["crates/a/src/main.rs"], "fn main() {}")
	assert.NotContains(t, byName["crates/a/src/lib.rs"], "fn main")
	for name, content := range byName {
		if filepath.Ext(name) == ".rs" {
			assert.Contains(t, content, "compile_error!", name)
		}
	}
}

func TestBuilder_LockfileMatchesWorkspace(t *testing.T) {
	f := newFixture(t)

	var lockData string
	for _, e := range readArchive(t, build(t, f)) {
		if e.hdr.Name == domain.LockfileName {
			lockData = e.data
		}
	}

	lf, err := lockfile.NewCodec().Unmarshal([]byte(lockData))
	require.NoError(t, err)

	restored := domain.NewWorkspace(f.root)
	restored.LoadLockfile(lf)
	assert.Equal(t, f.ws.Members(), restored.Members())
}

func TestBuilder_RootManifestIsMember(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Cargo.toml"), "[package]\nname = \"solo\"\n", 0o644)
	writeFile(t, filepath.Join(root, "Cargo.lock"), "version = 3\n", 0o644)

	id := domain.PackageID("path+file:///solo#0.1.0")
	ws := domain.NewWorkspace(root)
	ws.AddMember(domain.NewPackage("solo", id, nil))

	var buf bytes.Buffer
	err := newBuilder(t).Build(&buf, ws, []domain.MemberLayout{{
		ID:           id,
		Name:         "solo",
		ManifestPath: filepath.Join(root, "Cargo.toml"),
		Targets: []domain.Target{
			{Name: "solo", Kind: domain.TargetExecutable, SrcPath: filepath.Join(root, "src/main.rs")},
		},
	}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Cargo.lock", "Cargo.toml", "src/main.rs", domain.LockfileName}, names(readArchive(t, buf.Bytes())))
}

func TestBuilder_SharedSourcePath(t *testing.T) {
	f := newFixture(t)
	shared := filepath.Join(f.root, "crates/b/src/lib.rs")
	f.layouts[0].Targets = append(f.layouts[0].Targets,
		domain.Target{Name: "b-tool", Kind: domain.TargetExecutable, SrcPath: shared})

	var stubs []readEntry
	for _, e := range readArchive(t, build(t, f)) {
		if e.hdr.Name == "crates/b/src/lib.rs" {
			stubs = append(stubs, e)
		}
	}

	require.Len(t, stubs, 1)
	assert.Equal(t, string(archive.Stub(domain.TargetExecutable)), stubs[0].data)
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("target outside the root", func(t *testing.T) {
		f := newFixture(t)
		f.layouts[0].Targets[0].SrcPath = filepath.Join(filepath.Dir(f.root), "elsewhere", "lib.rs")

		err := newBuilder(t).Build(&bytes.Buffer{}, f.ws, f.layouts)
		require.ErrorIs(t, err, domain.ErrPathEscapesWorkspace)
	})

	t.Run("member without layout", func(t *testing.T) {
		f := newFixture(t)

		err := newBuilder(t).Build(&bytes.Buffer{}, f.ws, f.layouts[1:])
		require.ErrorIs(t, err, domain.ErrGraphInconsistency)
	})

	t.Run("missing Cargo.lock", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, os.Remove(filepath.Join(f.root, "Cargo.lock")))

		err := newBuilder(t).Build(&bytes.Buffer{}, f.ws, f.layouts)
		require.ErrorIs(t, err, domain.ErrFileReadFailed)
	})
}
