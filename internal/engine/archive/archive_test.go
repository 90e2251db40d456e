package archive_test

import (
	"archive/tar"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/skeleton/internal/adapters/lockfile"
	"go.trai.ch/skeleton/internal/core/domain"
	"go.trai.ch/skeleton/internal/core/ports/mocks"
	"go.trai.ch/skeleton/internal/engine/archive"
	"go.uber.org/mock/gomock"
)

const (
	idA   domain.PackageID = "path+file:///ws/crates/a#0.1.0"
	idB   domain.PackageID = "path+file:///ws/crates/b#0.1.0"
	idExt domain.PackageID = "registry+https://github.com/rust-lang/crates.io-index#serde@1.0.200"
)

var fixedTime = time.Date(2024, 1, 2, 3, 4, 5, 500_000_000, time.UTC)

// fixture is an on-disk workspace with two members: a (bin + lib) and b (lib).
type fixture struct {
	root    string
	ws      *domain.Workspace
	layouts []domain.MemberLayout
}

func writeFile(t *testing.T, path, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), perm))
	require.NoError(t, os.Chmod(path, perm))
	require.NoError(t, os.Chtimes(path, fixedTime, fixedTime))
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "Cargo.toml"), "[workspace]\nmembers = [\"crates/*\"]\n", 0o644)
	writeFile(t, filepath.Join(root, "Cargo.lock"), "version = 3\n", 0o600)
	writeFile(t, filepath.Join(root, "crates/a/Cargo.toml"), "[package]\nname = \"a\"\n", 0o644)
	writeFile(t, filepath.Join(root, "crates/a/src/main.rs"), "fn main() { a::run() }\n", 0o644)
	writeFile(t, filepath.Join(root, "crates/a/src/lib.rs"), "pub fn run() {}\n", 0o644)
	writeFile(t, filepath.Join(root, "crates/b/Cargo.toml"), "[package]\nname = \"b\"\n", 0o644)
	writeFile(t, filepath.Join(root, "crates/b/src/lib.rs"), "pub fn b() {}\n", 0o644)

	ws := domain.NewWorkspace(root)
	ws.AddMember(domain.NewPackage("b", idB, []domain.PackageID{idExt}))
	ws.AddMember(domain.NewPackage("a", idA, []domain.PackageID{idB, idExt}))

	layouts := []domain.MemberLayout{
		{
			ID:           idB,
			Name:         "b",
			ManifestPath: filepath.Join(root, "crates/b/Cargo.toml"),
			Targets: []domain.Target{
				{Name: "b", Kind: domain.TargetLibrary, SrcPath: filepath.Join(root, "crates/b/src/lib.rs")},
			},
		},
		{
			ID:           idA,
			Name:         "a",
			ManifestPath: filepath.Join(root, "crates/a/Cargo.toml"),
			Targets: []domain.Target{
				{Name: "a", Kind: domain.TargetExecutable, SrcPath: filepath.Join(root, "crates/a/src/main.rs")},
				{Name: "a", Kind: domain.TargetLibrary, SrcPath: filepath.Join(root, "crates/a/src/lib.rs")},
			},
		},
		{
			ID:           idExt,
			Name:         "serde",
			ManifestPath: "/registry/serde/Cargo.toml",
		},
	}

	return &fixture{root: root, ws: ws, layouts: layouts}
}

func newBuilder(t *testing.T) *archive.Builder {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return archive.NewBuilder(lockfile.NewCodec(), log)
}

func newExtractor(t *testing.T) *archive.Extractor {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return archive.NewExtractor(log)
}

func build(t *testing.T, f *fixture) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, newBuilder(t).Build(&buf, f.ws, f.layouts))
	return buf.Bytes()
}

type readEntry struct {
	hdr  *tar.Header
	data string
}

func readArchive(t *testing.T, data []byte) []readEntry {
	t.Helper()
	var out []readEntry
	tr := tar.NewReader(bytes.NewReader(data))
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		content, err := io.ReadAll(tr)
		require.NoError(t, err)
		out = append(out, readEntry{hdr: hdr, data: string(content)})
	}
}

// tarOf builds an archive from raw headers, for feeding hostile input to the extractor.
func tarOf(t *testing.T, entries ...readEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		hdr := *e.hdr
		if hdr.Typeflag == tar.TypeReg {
			hdr.Size = int64(len(e.data))
		}
		require.NoError(t, tw.WriteHeader(&hdr))
		if e.data != "" {
			_, err := tw.Write([]byte(e.data))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}
