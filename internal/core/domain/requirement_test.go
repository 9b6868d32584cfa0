package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/lode/internal/core/domain"
)

func TestParseRequirement(t *testing.T) {
	t.Run("bare name", func(t *testing.T) {
		req, err := domain.ParseRequirement("pkga")
		require.NoError(t, err)
		assert.Equal(t, "pkga", req.Name.String())
		assert.True(t, req.Specifier.IsEmpty())
		assert.True(t, req.Marker.IsAlways())
		assert.True(t, req.Source.IsRegistry())
	})

	t.Run("name normalization", func(t *testing.T) {
		req, err := domain.ParseRequirement("My_Package>=1.0")
		require.NoError(t, err)
		assert.Equal(t, "my-package", req.Name.String())
	})

	t.Run("specifier and marker", func(t *testing.T) {
		req, err := domain.ParseRequirement("server>=1.0,<2.0; sys_platform != 'win32'")
		require.NoError(t, err)
		assert.Equal(t, ">=1.0,<2.0", req.Specifier.String())
		assert.False(t, req.Marker.IsAlways())
	})

	t.Run("extras sorted and deduplicated", func(t *testing.T) {
		req, err := domain.ParseRequirement("server[TLS, redis, tls]~=2.1")
		require.NoError(t, err)
		assert.Equal(t, []string{"redis", "tls"}, req.Extras)
	})

	t.Run("git direct reference", func(t *testing.T) {
		req, err := domain.ParseRequirement("tool @ git+https://example.org/tool.git@v3#subdir=core")
		require.NoError(t, err)
		assert.Equal(t, domain.SourceGit, req.Source.Kind)
		assert.Equal(t, "https://example.org/tool.git", req.Source.URL)
		assert.Equal(t, "v3", req.Source.Ref)
		assert.Equal(t, "core", req.Source.Subdir)
	})

	t.Run("git reference keeps user in host", func(t *testing.T) {
		req, err := domain.ParseRequirement("tool @ git+ssh://git@example.org/tool.git")
		require.NoError(t, err)
		assert.Equal(t, "ssh://git@example.org/tool.git", req.Source.URL)
		assert.Empty(t, req.Source.Ref)
	})

	t.Run("path direct reference", func(t *testing.T) {
		req, err := domain.ParseRequirement("local @ file:///srv/vendored/local")
		require.NoError(t, err)
		assert.Equal(t, domain.SourcePath, req.Source.Kind)
		assert.Equal(t, "/srv/vendored/local", req.Source.Path)
	})

	t.Run("url direct reference", func(t *testing.T) {
		req, err := domain.ParseRequirement("blob @ https://example.org/blob.json")
		require.NoError(t, err)
		assert.Equal(t, domain.SourceURL, req.Source.Kind)
		assert.Equal(t, "https://example.org/blob.json", req.Source.URL)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, in := range []string{
			"",
			"   ",
			">=1.0",
			"pkga[",
			"pkga[]",
			"pkga @ ",
			"pkga>=1.0 @ git+https://example.org/x.git",
			"pkga>=bogus",
			"pkga; sys_platform ==",
		} {
			_, err := domain.ParseRequirement(in)
			assert.ErrorIs(t, err, domain.ErrParse, "input %q", in)
		}
	})
}

func TestRequirementString(t *testing.T) {
	tests := []string{
		"pkga",
		"pkga>=1.0,<2.0",
		"server[redis,tls]~=2.1",
		"pkgb==1.9; os_name == 'posix'",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			req := domain.MustParseRequirement(in)
			assert.Equal(t, in, req.String())

			// Canonical form must be a fixed point.
			again := domain.MustParseRequirement(req.String())
			assert.Equal(t, req.String(), again.String())
		})
	}

	req := domain.MustParseRequirement("tool @ git+https://example.org/tool.git@v3#subdir=core")
	assert.Equal(t, "tool @ git+https://example.org/tool.git@v3#subdir=core", req.String())
}
