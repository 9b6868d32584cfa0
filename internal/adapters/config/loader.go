// Package config provides the workspace configuration loader for lode.
package config

import (
	"os"
	"path/filepath"

	"go.trai.ch/lode/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the manifest file name looked up during discovery.
const DefaultFilename = "lode.yaml"

// FileConfigLoader implements ports.ConfigLoader using YAML manifests.
type FileConfigLoader struct {
	Filename string
}

// Load discovers the workspace manifest starting at cwd and walking up, then
// returns the validated workspace.
func (l *FileConfigLoader) Load(cwd string) (*domain.Workspace, error) {
	filename := l.Filename
	if filename == "" {
		filename = DefaultFilename
	}

	root, err := discover(cwd, filename)
	if err != nil {
		return nil, err
	}
	return LoadWorkspace(root, filename)
}

// discover walks up from cwd until it finds a directory containing the
// manifest file.
func discover(cwd, filename string) (string, error) {
	dir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.Wrap(err, "failed to absolutize working directory")
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, filename)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", zerr.With(zerr.New("no manifest found"), "filename", filename)
		}
		dir = parent
	}
}

// LoadWorkspace reads the manifest at root and, if it declares workspace
// members, each member manifest. A manifest without a workspace section is a
// single-member workspace.
func LoadWorkspace(root, filename string) (*domain.Workspace, error) {
	file, err := readLodefile(filepath.Join(root, filename))
	if err != nil {
		return nil, err
	}

	var members []domain.WorkspaceMember

	if file.Package != nil {
		m, err := memberFromFile(file, root)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	if file.Workspace != nil {
		for _, rel := range file.Workspace.Members {
			dir := filepath.Join(root, rel)
			memberFile, err := readLodefile(filepath.Join(dir, filename))
			if err != nil {
				return nil, zerr.With(err, "member", rel)
			}
			if memberFile.Package == nil {
				return nil, zerr.With(zerr.New("member manifest missing package section"), "member", rel)
			}
			m, err := memberFromFile(memberFile, dir)
			if err != nil {
				return nil, zerr.With(err, "member", rel)
			}
			members = append(members, m)
		}
	}

	if len(members) == 0 {
		return nil, zerr.With(zerr.New("manifest declares neither package nor workspace members"), "root", root)
	}

	return domain.NewWorkspace(members)
}

// Manifest is one package manifest as the catalog sees it: identity plus
// dependency and extra requirement lists. Path and git sources read their
// candidate metadata through this.
type Manifest struct {
	Name         domain.PackageName
	Version      domain.Version
	Dependencies []domain.Requirement
	Extras       map[string][]domain.Requirement
}

// ReadManifest reads the package manifest in the given directory.
func ReadManifest(dir string) (*Manifest, error) {
	file, err := readLodefile(filepath.Join(dir, DefaultFilename))
	if err != nil {
		return nil, err
	}
	if file.Package == nil {
		return nil, zerr.With(zerr.New("manifest missing package section"), "dir", dir)
	}

	version, err := domain.ParseVersion(file.Package.Version)
	if err != nil {
		return nil, zerr.With(err, "package", file.Package.Name)
	}

	m := &Manifest{
		Name:    domain.NormalizeName(file.Package.Name),
		Version: version,
	}
	m.Dependencies, err = parseRequirements(file.Dependencies["main"])
	if err != nil {
		return nil, zerr.With(err, "package", file.Package.Name)
	}
	if len(file.Extras) > 0 {
		m.Extras = make(map[string][]domain.Requirement, len(file.Extras))
		for extra, reqs := range file.Extras {
			parsed, err := parseRequirements(reqs)
			if err != nil {
				return nil, zerr.With(zerr.With(err, "package", file.Package.Name), "extra", extra)
			}
			m.Extras[extra] = parsed
		}
	}
	return m, nil
}

func readLodefile(path string) (*Lodefile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read manifest")
	}

	var file Lodefile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to parse manifest")
	}
	return &file, nil
}

func memberFromFile(file *Lodefile, dir string) (domain.WorkspaceMember, error) {
	if file.Package.Name == "" {
		return domain.WorkspaceMember{}, zerr.With(zerr.New("package name is required"), "dir", dir)
	}
	version, err := domain.ParseVersion(file.Package.Version)
	if err != nil {
		return domain.WorkspaceMember{}, zerr.With(err, "package", file.Package.Name)
	}

	groups := make(map[string][]domain.Requirement, len(file.Dependencies))
	for group, reqs := range file.Dependencies {
		parsed, err := parseRequirements(reqs)
		if err != nil {
			return domain.WorkspaceMember{}, zerr.With(zerr.With(err, "package", file.Package.Name), "group", group)
		}
		groups[group] = parsed
	}

	return domain.WorkspaceMember{
		Name:    domain.NormalizeName(file.Package.Name),
		Path:    dir,
		Version: version,
		Groups:  groups,
	}, nil
}

func parseRequirements(raw []string) ([]domain.Requirement, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]domain.Requirement, len(raw))
	for i, s := range raw {
		req, err := domain.ParseRequirement(s)
		if err != nil {
			return nil, err
		}
		out[i] = req
	}
	return out, nil
}
