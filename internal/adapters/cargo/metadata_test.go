package cargo_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/skeleton/internal/adapters/cargo"
	"go.trai.ch/skeleton/internal/core/domain"
	"go.trai.ch/skeleton/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const (
	idApp   domain.PackageID = "path+file:///ws/crates/app#0.1.0"
	idCore  domain.PackageID = "path+file:///ws/crates/core#0.1.0"
	idSerde domain.PackageID = "registry+https://github.com/rust-lang/crates.io-index#serde@1.0.200"
	idInsta domain.PackageID = "registry+https://github.com/rust-lang/crates.io-index#insta@1.39.0"
)

// fakeCargo writes an executable shell script standing in for cargo.
func fakeCargo(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "cargo")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755)) //nolint:gosec // test script must be executable
	return path
}

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	log := mocks.NewMockLogger(gomock.NewController(t))
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return log
}

func TestParseMetadata(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "metadata.json"))
	require.NoError(t, err)

	res, err := cargo.ParseMetadata(data)
	require.NoError(t, err)

	assert.Equal(t, "/ws", res.WorkspaceRoot)
	require.Len(t, res.Packages, 4)

	app := res.Packages[0]
	assert.True(t, app.IsLocal())
	assert.Equal(t, "/ws/crates/app/Cargo.toml", app.ManifestPath)
	assert.Equal(t, []domain.Target{
		{Name: "app", Kind: domain.TargetExecutable, SrcPath: "/ws/crates/app/src/main.rs"},
		{Name: "app", Kind: domain.TargetLibrary, SrcPath: "/ws/crates/app/src/lib.rs"},
	}, app.Targets)

	core := res.Packages[1]
	assert.Equal(t, domain.TargetExecutable, core.Targets[1].Kind, "build scripts need a main function")

	serde := res.Packages[2]
	assert.False(t, serde.IsLocal())

	node, ok := res.Node(idApp)
	require.True(t, ok)
	want := []domain.ResolveDep{
		{Pkg: idCore, Kinds: []domain.DependencyKind{domain.DependencyNormal}},
		{Pkg: idInsta, Kinds: []domain.DependencyKind{domain.DependencyDev}},
		{Pkg: idSerde, Kinds: []domain.DependencyKind{domain.DependencyNormal, domain.DependencyBuild}},
	}
	if diff := cmp.Diff(want, node.Deps); diff != "" {
		t.Errorf("app deps mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMetadata_FeedsWorkspace(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "metadata.json"))
	require.NoError(t, err)

	res, err := cargo.ParseMetadata(data)
	require.NoError(t, err)

	ws := domain.NewWorkspace(res.WorkspaceRoot)
	ignored, err := ws.LoadResolution(res)
	require.NoError(t, err)
	assert.Empty(t, ignored)

	assert.Equal(t, []domain.PackageID{idSerde}, ws.ExternalDependencies(idApp), "dev-only insta is dropped")
	assert.Empty(t, ws.ExternalDependencies(idCore), "build-only serde is dropped")
	assert.Equal(t, []domain.PackageID{idCore}, ws.LocalDependencies(idApp))
}

func TestParseMetadata_NoResolve(t *testing.T) {
	res, err := cargo.ParseMetadata([]byte(`{"packages": [], "resolve": null, "workspace_root": "/ws"}`))
	require.NoError(t, err)
	assert.Nil(t, res.Nodes)
}

func TestParseMetadata_MissingDepKindsReadAsNormal(t *testing.T) {
	res, err := cargo.ParseMetadata([]byte(`{
		"packages": [],
		"resolve": {"nodes": [{"id": "a", "deps": [{"pkg": "b"}]}]},
		"workspace_root": "/ws"
	}`))
	require.NoError(t, err)

	node, ok := res.Node("a")
	require.True(t, ok)
	require.Len(t, node.Deps, 1)
	assert.True(t, node.Deps[0].IsNormal())
}

func TestParseMetadata_InvalidJSON(t *testing.T) {
	_, err := cargo.ParseMetadata([]byte("warning: not json"))
	require.ErrorIs(t, err, domain.ErrResolverFailed)
}

func TestTargetKind(t *testing.T) {
	tests := []struct {
		kinds []string
		want  domain.TargetKind
	}{
		{kinds: []string{"bin"}, want: domain.TargetExecutable},
		{kinds: []string{"example"}, want: domain.TargetExecutable},
		{kinds: []string{"custom-build"}, want: domain.TargetExecutable},
		{kinds: []string{"lib"}, want: domain.TargetLibrary},
		{kinds: []string{"rlib", "cdylib"}, want: domain.TargetLibrary},
		{kinds: []string{"proc-macro"}, want: domain.TargetLibrary},
		{kinds: []string{"test"}, want: domain.TargetLibrary},
		{kinds: []string{"bench"}, want: domain.TargetLibrary},
		{kinds: nil, want: domain.TargetLibrary},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.kinds, ","), func(t *testing.T) {
			assert.Equal(t, tt.want, cargo.TargetKind(tt.kinds))
		})
	}
}

func TestMetadataArgs(t *testing.T) {
	assert.Equal(t, []string{"metadata", "--format-version", "1"}, cargo.MetadataArgs(domain.ResolveOptions{}))

	assert.Equal(t, []string{
		"metadata", "--format-version", "1",
		"--manifest-path", "ws/Cargo.toml",
		"--features", "tls,serde",
		"--all-features",
		"--no-default-features",
	}, cargo.MetadataArgs(domain.ResolveOptions{
		ManifestPath:      "ws/Cargo.toml",
		Features:          []string{"tls", "serde"},
		AllFeatures:       true,
		NoDefaultFeatures: true,
	}))
}

func TestMetadataResolver_Resolve(t *testing.T) {
	fixture, err := filepath.Abs(filepath.Join("testdata", "metadata.json"))
	require.NoError(t, err)

	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	bin := fakeCargo(t, `echo "$@" > "`+argsFile+`"
cat "`+fixture+`"`)

	resolver := cargo.NewMetadataResolver(quietLogger(t))
	res, err := resolver.Resolve(context.Background(), domain.ResolveOptions{
		Cargo:        bin,
		Dir:          dir,
		ManifestPath: "Cargo.toml",
	})
	require.NoError(t, err)
	assert.Len(t, res.Packages, 4)

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "metadata --format-version 1 --manifest-path Cargo.toml\n", string(args))
}

func TestMetadataResolver_Resolve_Failure(t *testing.T) {
	bin := fakeCargo(t, `echo "error: could not find Cargo.toml" >&2
exit 101`)

	resolver := cargo.NewMetadataResolver(quietLogger(t))
	_, err := resolver.Resolve(context.Background(), domain.ResolveOptions{Cargo: bin, Dir: t.TempDir()})
	require.ErrorIs(t, err, domain.ErrResolverFailed)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	meta := zErr.Metadata()
	assert.Equal(t, 101, meta["exit_code"])
	assert.Equal(t, "error: could not find Cargo.toml", meta["stderr"])
}

func TestMetadataResolver_Resolve_MissingBinary(t *testing.T) {
	resolver := cargo.NewMetadataResolver(quietLogger(t))
	_, err := resolver.Resolve(context.Background(), domain.ResolveOptions{
		Cargo: filepath.Join(t.TempDir(), "no-such-cargo"),
	})
	require.ErrorIs(t, err, domain.ErrResolverFailed)
}
