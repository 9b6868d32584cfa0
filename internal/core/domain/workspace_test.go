package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/lode/internal/core/domain"
)

func member(name, path, version string, groups map[string][]string) domain.WorkspaceMember {
	m := domain.WorkspaceMember{
		Name:    domain.NewPackageName(name),
		Path:    path,
		Version: domain.MustParseVersion(version),
		Groups:  make(map[string][]domain.Requirement),
	}
	for g, reqs := range groups {
		for _, r := range reqs {
			m.Groups[g] = append(m.Groups[g], domain.MustParseRequirement(r))
		}
	}
	return m
}

func TestNewWorkspace_DuplicateMember(t *testing.T) {
	_, err := domain.NewWorkspace([]domain.WorkspaceMember{
		member("app", "/ws/app", "1.0", nil),
		member("App", "/ws/app2", "1.0", nil),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateMember)
}

func TestNewWorkspace_CycleDetection(t *testing.T) {
	_, err := domain.NewWorkspace([]domain.WorkspaceMember{
		member("liba", "/ws/liba", "1.0", map[string][]string{"main": {"libb"}}),
		member("libb", "/ws/libb", "1.0", map[string][]string{"main": {"libc"}}),
		member("libc", "/ws/libc", "1.0", map[string][]string{"main": {"liba"}}),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCycle)
	assert.Contains(t, err.Error(), "liba -> libb -> libc -> liba")
}

func TestNewWorkspace_SelfReferenceIsNotACycle(t *testing.T) {
	ws, err := domain.NewWorkspace([]domain.WorkspaceMember{
		member("app", "/ws/app", "1.0", map[string][]string{"main": {"app"}}),
	})
	require.NoError(t, err)
	assert.True(t, ws.IsMember(domain.NewPackageName("app")))
}

func TestWorkspaceUnionRoots_RewritesSiblings(t *testing.T) {
	ws, err := domain.NewWorkspace([]domain.WorkspaceMember{
		member("app", "/ws/app", "1.0", map[string][]string{
			"main": {"libx>=2.0", "requests>=1.0"},
			"dev":  {"pytest>=7.0"},
		}),
		member("libx", "/ws/libx", "2.1", map[string][]string{
			"main": {"requests>=1.2"},
		}),
	})
	require.NoError(t, err)

	union := ws.UnionRoots()
	require.Len(t, union["main"], 3)

	var sibling *domain.Requirement
	for i := range union["main"] {
		if union["main"][i].Name == domain.NewPackageName("libx") {
			sibling = &union["main"][i]
		}
	}
	require.NotNil(t, sibling)
	assert.Equal(t, domain.SourcePath, sibling.Source.Kind)
	assert.Equal(t, "/ws/libx", sibling.Source.Path)
	assert.True(t, sibling.Specifier.Contains(domain.MustParseVersion("2.1")))
	assert.False(t, sibling.Specifier.Contains(domain.MustParseVersion("2.0")))

	require.Len(t, union["dev"], 1)
	assert.Equal(t, "pytest>=7.0", union["dev"][0].String())
}

func TestWorkspaceMemberRoots(t *testing.T) {
	ws, err := domain.NewWorkspace([]domain.WorkspaceMember{
		member("app", "/ws/app", "1.0", map[string][]string{"main": {"libx"}}),
		member("libx", "/ws/libx", "2.1", map[string][]string{"main": {"requests>=1.0"}}),
	})
	require.NoError(t, err)

	roots, err := ws.MemberRoots(domain.NewPackageName("libx"))
	require.NoError(t, err)
	require.Len(t, roots["main"], 1)
	assert.Equal(t, "requests>=1.0", roots["main"][0].String())

	_, err = ws.MemberRoots(domain.NewPackageName("ghost"))
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestWorkspaceProjectMemberSubset(t *testing.T) {
	ws, err := domain.NewWorkspace([]domain.WorkspaceMember{
		member("app", "/ws/app", "1.0", map[string][]string{"main": {"requests>=1.0"}}),
		member("tool", "/ws/tool", "1.0", map[string][]string{"main": {"click>=8.0"}}),
	})
	require.NoError(t, err)

	resolution := domain.NewResolution(map[domain.PackageName]*domain.ResolvedPackage{
		domain.NewPackageName("requests"): {Candidate: domain.CandidateVersion{
			Name:         domain.NewPackageName("requests"),
			Version:      domain.MustParseVersion("1.4"),
			Dependencies: []domain.Requirement{domain.MustParseRequirement("urllib>=1.0")},
		}},
		domain.NewPackageName("urllib"): {Candidate: domain.CandidateVersion{
			Name:    domain.NewPackageName("urllib"),
			Version: domain.MustParseVersion("1.1"),
		}},
		domain.NewPackageName("click"): {Candidate: domain.CandidateVersion{
			Name:    domain.NewPackageName("click"),
			Version: domain.MustParseVersion("8.1"),
		}},
	})

	subset, err := ws.ProjectMemberSubset(resolution, domain.NewPackageName("app"))
	require.NoError(t, err)
	assert.Equal(t, 2, subset.Len())
	assert.NotNil(t, subset.Get(domain.NewPackageName("requests")))
	assert.NotNil(t, subset.Get(domain.NewPackageName("urllib")))
	assert.Nil(t, subset.Get(domain.NewPackageName("click")))
}
