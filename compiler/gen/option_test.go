package gen

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/nodegen/catalog"
	"github.com/syssam/nodegen/schema"
)

func TestNewConfigDefaults(t *testing.T) {
	c, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, DestinationInline, c.Destination)
	assert.Equal(t, DefaultVersion, c.Version)
	assert.True(t, c.SocketDefaults)
	assert.False(t, c.NodeSizes)
	assert.False(t, c.HiddenSocketDefaults)
	assert.Equal(t, IndentTab, c.Indent)
	assert.Equal(t, DefaultHeader, c.Header)
	assert.Equal(t, DefaultRuntimePackage, c.RuntimePackage)
	assert.NotNil(t, c.Logger)
	assert.NoError(t, c.Validate())
}

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Custom header")(c)

		require.NoError(t, err)
		assert.Equal(t, "Custom header", c.Header)
	})

	t.Run("empty header is allowed", func(t *testing.T) {
		c := &Config{Header: "existing"}
		require.NoError(t, WithHeader("")(c))
		assert.Equal(t, "", c.Header)
	})
}

func TestWithDestination(t *testing.T) {
	tests := []struct {
		name    string
		d       Destination
		wantErr bool
	}{
		{"inline", DestinationInline, false},
		{"package", DestinationPackage, false},
		{"invalid", "zip", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithDestination(tt.d)(c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.d, c.Destination)
		})
	}
}

func TestWithIndent(t *testing.T) {
	tests := []struct {
		in      Indent
		unit    string
		wantErr bool
	}{
		{IndentTab, "\t", false},
		{Indent2, "  ", false},
		{Indent4, "    ", false},
		{Indent8, "        ", false},
		{"3-space", "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			c := &Config{}
			err := WithIndent(tt.in)(c)
			if tt.wantErr {
				assert.True(t, IsConfigError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.unit, c.Indent.Unit())
		})
	}
}

func TestWithVersion(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithVersion("3.6")(c))
	assert.Equal(t, schema.Version{Major: 3, Minor: 6}, c.Version)

	err := WithVersion("three")(c)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestWithPackage(t *testing.T) {
	c := &Config{}
	require.NoError(t, WithPackage("scene")(c))
	assert.Equal(t, "scene", c.Package)
	assert.True(t, IsConfigError(WithPackage("my-scene")(c)))
	assert.True(t, IsConfigError(WithPackage("")(c)))
}

func TestSimpleOptions(t *testing.T) {
	reg := schema.New()
	cat := catalog.NewMemory()
	logger := slog.New(slog.DiscardHandler)
	c, err := NewConfig(
		WithTarget("out"),
		WithSocketDefaults(false),
		WithNodeSizes(true),
		WithHiddenSocketDefaults(true),
		WithRegistry(reg),
		WithCatalog(cat),
		WithLogger(logger),
		WithRuntimePackage("example.com/rt"),
	)
	require.NoError(t, err)
	assert.Equal(t, "out", c.Target)
	assert.False(t, c.SocketDefaults)
	assert.True(t, c.NodeSizes)
	assert.True(t, c.HiddenSocketDefaults)
	assert.Same(t, reg, c.Registry)
	assert.Same(t, cat, c.Catalog)
	assert.Same(t, logger, c.Logger)
	assert.Equal(t, "example.com/rt", c.RuntimePackage)
}

func TestOptionErrors(t *testing.T) {
	for name, opt := range map[string]Option{
		"target":   WithTarget(""),
		"registry": WithRegistry(nil),
		"logger":   WithLogger(nil),
		"runtime":  WithRuntimePackage("bad path"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := NewConfig(opt)
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestApplyAll(t *testing.T) {
	c := &Config{}
	err := c.ApplyAll(WithTarget(""), WithPackage("ok"), WithIndent("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Target")
	assert.Contains(t, err.Error(), "Indent")
	assert.Equal(t, "ok", c.Package)

	assert.Panics(t, func() { MustNewConfig(WithTarget("")) })
}

func TestValidate(t *testing.T) {
	t.Run("package without target", func(t *testing.T) {
		c := MustNewConfig(WithDestination(DestinationPackage))
		err := c.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingConfig)
	})

	t.Run("target is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "f")
		require.NoError(t, os.WriteFile(file, nil, 0o644))
		c := MustNewConfig(WithDestination(DestinationPackage), WithTarget(file))
		assert.True(t, IsConfigError(c.Validate()))
	})

	t.Run("missing target directory is fine", func(t *testing.T) {
		c := MustNewConfig(WithDestination(DestinationPackage), WithTarget(filepath.Join(t.TempDir(), "new")))
		assert.NoError(t, c.Validate())
	})
}
