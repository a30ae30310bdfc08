package pack

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/nodegen/compiler/gen"
	"github.com/syssam/nodegen/nodetree"
)

func export(t *testing.T, dir string) *gen.Result {
	t.Helper()
	root := nodetree.NewTree("Root", nodetree.DomainShader)
	tex := root.Nodes.New("ShaderNodeTexImage")
	tex.Name = "Image"
	tex.Set("image", &nodetree.Image{Name: "wood", Format: "PNG", Data: []byte("png")})
	cfg := gen.MustNewConfig(
		gen.WithDestination(gen.DestinationPackage),
		gen.WithTarget(dir),
		gen.WithLogger(slog.New(slog.DiscardHandler)),
	)
	res, err := gen.Export(context.Background(), root, cfg)
	require.NoError(t, err)
	return res
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	res := export(t, dir)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	w := NewWriter(dir).WithWorkers(2)
	m, err := w.Write(context.Background(), res, Meta{Package: "scene", License: "MIT License\n", Time: created})
	require.NoError(t, err)

	assert.Equal(t, PackageID("scene", "Root"), m.ID)
	assert.Equal(t, []string{"Root"}, m.Trees)
	assert.Equal(t, []string{"assets/wood.png"}, m.Resources)
	assert.Equal(t, "nodegen "+Version, m.Generator)
	assert.Equal(t, time.UTC, m.Created.Location())
	assert.Equal(t, 3, w.Metrics().FilesWritten)
	assert.Positive(t, w.Metrics().TotalBytes)

	src, err := os.ReadFile(filepath.Join(dir, "scene.go"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(src), "// "+gen.DefaultHeader))
	assert.Contains(t, string(src), "package scene")
	assert.Contains(t, string(src), "//go:embed assets")

	license, err := os.ReadFile(filepath.Join(dir, LicenseFile))
	require.NoError(t, err)
	assert.Equal(t, "MIT License\n", string(license))

	read, err := ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, m.ID, read.ID)
	assert.True(t, created.Equal(read.Created))
	assert.Equal(t, m.Trees, read.Trees)
}

func TestWriteDefaults(t *testing.T) {
	dir := t.TempDir()
	m, err := Write(dir, export(t, dir), Meta{})
	require.NoError(t, err)
	assert.Equal(t, gen.DefaultPackage, m.Package)
	assert.False(t, m.Created.IsZero())

	_, err = os.Stat(filepath.Join(dir, gen.DefaultPackage+".go"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, LicenseFile))
	assert.True(t, os.IsNotExist(err))
}

func TestPackageID(t *testing.T) {
	a := PackageID("scene", "Root")
	assert.Equal(t, a, PackageID("scene", "Root"))
	assert.NotEqual(t, a, PackageID("scene", "Other"))
	assert.NotEqual(t, a, PackageID("other", "Root"))
	assert.Equal(t, 5, int(a.Version()))
}

func TestWriteErrors(t *testing.T) {
	_, err := Write(t.TempDir(), nil, Meta{})
	assert.Error(t, err)

	dir := t.TempDir()
	res := &gen.Result{
		Source: []byte("package scene\n\nfunc {"),
		Trees:  []*nodetree.Tree{nodetree.NewTree("Root", nodetree.DomainShader)},
	}
	_, err = Write(dir, res, Meta{Package: "scene"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format scene.go")
	_, statErr := os.Stat(filepath.Join(dir, "scene.go.error"))
	assert.NoError(t, statErr)

	_, err = ReadManifest(t.TempDir())
	assert.Error(t, err)
}
