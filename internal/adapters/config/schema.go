package config

// Lodefile represents the structure of a lode.yaml file. A workspace root
// carries the workspace section; member directories (and standalone
// projects) carry the package section. A file may carry both, in which case
// the root directory is itself a member.
type Lodefile struct {
	Workspace *WorkspaceDTO `yaml:"workspace"`
	Package   *PackageDTO   `yaml:"package"`
	// Dependencies maps a group name ("main", "dev", ...) to requirement
	// strings.
	Dependencies map[string][]string `yaml:"dependencies"`
	// Extras maps an extra name to the requirement strings it activates.
	Extras map[string][]string `yaml:"extras"`
}

// WorkspaceDTO declares the member directories of a workspace, relative to
// the workspace root.
type WorkspaceDTO struct {
	Members []string `yaml:"members"`
}

// PackageDTO declares a package's identity.
type PackageDTO struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}
