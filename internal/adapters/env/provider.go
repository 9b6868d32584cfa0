// Package env derives the target-environment snapshot markers are evaluated
// against.
package env

import (
	"runtime"

	"go.trai.ch/lode/internal/core/domain"
)

// Provider implements ports.EnvironmentProvider from host facts plus
// explicit overrides. Overrides let a resolve target an environment other
// than the host, e.g. locking for a linux deployment from a mac.
type Provider struct {
	overrides map[string]string
}

// New creates a Provider. Overrides take precedence over host-derived
// attributes.
func New(overrides map[string]string) *Provider {
	return &Provider{overrides: overrides}
}

// Snapshot returns one immutable environment snapshot.
func (p *Provider) Snapshot() (domain.Environment, error) {
	attrs := map[string]string{
		"os_name":          osName(runtime.GOOS),
		"sys_platform":     sysPlatform(runtime.GOOS),
		"platform_machine": platformMachine(runtime.GOARCH),
		"platform_system":  platformSystem(runtime.GOOS),
	}
	for k, v := range p.overrides {
		attrs[k] = v
	}
	return domain.NewEnvironment(attrs), nil
}

func osName(goos string) string {
	if goos == "windows" {
		return "nt"
	}
	return "posix"
}

func sysPlatform(goos string) string {
	switch goos {
	case "windows":
		return "win32"
	case "darwin":
		return "darwin"
	default:
		return "linux"
	}
}

func platformSystem(goos string) string {
	switch goos {
	case "windows":
		return "Windows"
	case "darwin":
		return "Darwin"
	default:
		return "Linux"
	}
}

func platformMachine(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	default:
		return goarch
	}
}
