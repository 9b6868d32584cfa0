package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lode/internal/adapters/config"
	"go.trai.ch/lode/internal/core/domain"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lode.yaml"), []byte(content), 0o644))
}

func TestLoad_SinglePackage(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
package:
  name: My_App
  version: "1.2.0"
dependencies:
  main:
    - requests>=2.28
  dev:
    - pytest>=8.0
`)

	loader := &config.FileConfigLoader{}
	ws, err := loader.Load(root)
	require.NoError(t, err)

	require.Len(t, ws.Members(), 1)
	m := ws.Members()[0]
	assert.Equal(t, "my-app", m.Name.String())
	assert.Equal(t, "1.2.0", m.Version.String())
	require.Len(t, m.Groups["main"], 1)
	assert.Equal(t, "requests", m.Groups["main"][0].Name.String())
	require.Len(t, m.Groups["dev"], 1)
}

func TestLoad_WorkspaceMembers(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
workspace:
  members:
    - packages/app
    - packages/lib
`)
	writeManifest(t, filepath.Join(root, "packages", "app"), `
package:
  name: app
  version: "0.1.0"
dependencies:
  main:
    - lib
`)
	writeManifest(t, filepath.Join(root, "packages", "lib"), `
package:
  name: lib
  version: "0.2.0"
`)

	loader := &config.FileConfigLoader{}
	ws, err := loader.Load(root)
	require.NoError(t, err)

	require.Len(t, ws.Members(), 2)
	assert.True(t, ws.IsMember(domain.NormalizeName("lib")))

	// The sibling reference becomes a path pin in the union roots.
	union := ws.UnionRoots()
	require.Len(t, union["main"], 1)
	req := union["main"][0]
	assert.Equal(t, domain.SourcePath, req.Source.Kind)
	pinned, ok := req.Specifier.Pinned()
	require.True(t, ok)
	assert.Equal(t, "0.2.0", pinned.String())
}

func TestLoad_DiscoversManifestInParent(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
package:
  name: app
  version: "1.0.0"
`)
	nested := filepath.Join(root, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	loader := &config.FileConfigLoader{}
	ws, err := loader.Load(nested)
	require.NoError(t, err)
	assert.Len(t, ws.Members(), 1)
}

func TestLoad_MemberCycleFails(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
workspace:
  members:
    - a
    - b
`)
	writeManifest(t, filepath.Join(root, "a"), `
package:
  name: a
  version: "1.0.0"
dependencies:
  main:
    - b
`)
	writeManifest(t, filepath.Join(root, "b"), `
package:
  name: b
  version: "1.0.0"
dependencies:
  main:
    - a
`)

	loader := &config.FileConfigLoader{}
	_, err := loader.Load(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCycle)
}

func TestLoad_InvalidRequirementFails(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
package:
  name: app
  version: "1.0.0"
dependencies:
  main:
    - ">>nonsense"
`)

	loader := &config.FileConfigLoader{}
	_, err := loader.Load(root)
	assert.Error(t, err)
}

func TestLoad_NoManifestFails(t *testing.T) {
	loader := &config.FileConfigLoader{}
	_, err := loader.Load(t.TempDir())
	assert.Error(t, err)
}

func TestReadManifest_WithExtras(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
package:
  name: webkit
  version: "2.0.0"
dependencies:
  main:
    - urllib3>=2.0
extras:
  socks:
    - pysocks>=1.7
`)

	m, err := config.ReadManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, "webkit", m.Name.String())
	require.Len(t, m.Dependencies, 1)
	require.Len(t, m.Extras["socks"], 1)
	assert.Equal(t, "pysocks", m.Extras["socks"][0].Name.String())
}
