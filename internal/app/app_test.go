package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/lode/internal/adapters/catalog"
	"go.trai.ch/lode/internal/adapters/telemetry"
	"go.trai.ch/lode/internal/app"
	"go.trai.ch/lode/internal/core/domain"
	"go.trai.ch/lode/internal/core/ports/mocks"
	"go.trai.ch/lode/internal/engine/lockfile"
	"go.trai.ch/lode/internal/engine/solver"
)

type fixture struct {
	loader    *mocks.MockConfigLoader
	env       *mocks.MockEnvironmentProvider
	lockStore *mocks.MockLockStore
	app       *app.App
}

func newFixture(t *testing.T, cat *catalog.Memory) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any(), gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	f := &fixture{
		loader:    mocks.NewMockConfigLoader(ctrl),
		env:       mocks.NewMockEnvironmentProvider(ctrl),
		lockStore: mocks.NewMockLockStore(ctrl),
	}
	slv := solver.New(cat, logger, telemetry.NewNoop())
	f.app = app.New(f.loader, slv, cat, f.env, f.lockStore, logger)
	return f
}

func singleMemberWorkspace(t *testing.T, reqs ...string) *domain.Workspace {
	t.Helper()
	m := domain.WorkspaceMember{
		Name:    domain.NewPackageName("app"),
		Path:    "/ws/app",
		Version: domain.MustParseVersion("0.1.0"),
		Groups:  map[string][]domain.Requirement{},
	}
	for _, r := range reqs {
		m.Groups["main"] = append(m.Groups["main"], domain.MustParseRequirement(r))
	}
	ws, err := domain.NewWorkspace([]domain.WorkspaceMember{m})
	require.NoError(t, err)
	return ws
}

func testEnv() domain.Environment {
	return domain.NewEnvironment(map[string]string{"os_name": "posix", "sys_platform": "linux"})
}

func TestApp_LockWritesResolvedLockfile(t *testing.T) {
	cat := catalog.NewMemory().
		Add("requests", "1.4", "urllib>=1.0").
		Add("urllib", "1.1")
	f := newFixture(t, cat)

	f.loader.EXPECT().Load(".").Return(singleMemberWorkspace(t, "requests>=1.0"), nil)
	f.env.EXPECT().Snapshot().Return(testEnv(), nil)

	var written []byte
	f.lockStore.EXPECT().Write(gomock.Any()).DoAndReturn(func(data []byte) error {
		written = data
		return nil
	})

	require.NoError(t, f.app.Lock(context.Background(), ".", app.Options{}))

	lock, err := lockfile.Decode(written)
	require.NoError(t, err)
	assert.Equal(t, lockfile.FormatVersion, lock.Format)
	require.Len(t, lock.Packages, 2)
	assert.Equal(t, "requests", lock.Packages[0].Name)
	assert.Equal(t, "1.4", lock.Packages[0].Version)
	assert.Equal(t, "urllib", lock.Packages[1].Name)
}

func TestApp_LockLeavesLockUntouchedOnSolverFailure(t *testing.T) {
	// The catalog knows nothing; resolution fails and Write must never run.
	f := newFixture(t, catalog.NewMemory())

	f.loader.EXPECT().Load(".").Return(singleMemberWorkspace(t, "ghost>=1.0"), nil)
	f.env.EXPECT().Snapshot().Return(testEnv(), nil)

	err := f.app.Lock(context.Background(), ".", app.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsatisfiable)
}

func TestApp_CheckMissingLock(t *testing.T) {
	f := newFixture(t, catalog.NewMemory())

	f.loader.EXPECT().Load(".").Return(singleMemberWorkspace(t), nil)
	f.lockStore.EXPECT().Read().Return(nil, false, nil)

	status, err := f.app.Check(context.Background(), ".")
	require.NoError(t, err)
	assert.False(t, status.Fresh)
	assert.Equal(t, "lockfile missing", status.Reason)
}

func lockWorkspace(t *testing.T, f *fixture, ws *domain.Workspace) []byte {
	t.Helper()
	f.loader.EXPECT().Load(".").Return(ws, nil)
	f.env.EXPECT().Snapshot().Return(testEnv(), nil)
	var written []byte
	f.lockStore.EXPECT().Write(gomock.Any()).DoAndReturn(func(data []byte) error {
		written = data
		return nil
	})
	require.NoError(t, f.app.Lock(context.Background(), ".", app.Options{}))
	return written
}

func TestApp_CheckFreshAfterLock(t *testing.T) {
	cat := catalog.NewMemory().Add("requests", "1.4")
	f := newFixture(t, cat)
	written := lockWorkspace(t, f, singleMemberWorkspace(t, "requests>=1.0"))

	f.loader.EXPECT().Load(".").Return(singleMemberWorkspace(t, "requests>=1.0"), nil)
	f.env.EXPECT().Snapshot().Return(testEnv(), nil)
	f.lockStore.EXPECT().Read().Return(written, true, nil)

	status, err := f.app.Check(context.Background(), ".")
	require.NoError(t, err)
	assert.True(t, status.Fresh)
	assert.Empty(t, status.Reason)
}

func TestApp_CheckStaleAfterRootChange(t *testing.T) {
	cat := catalog.NewMemory().
		Add("requests", "1.4").
		Add("click", "8.1")
	f := newFixture(t, cat)
	written := lockWorkspace(t, f, singleMemberWorkspace(t, "requests>=1.0"))

	f.loader.EXPECT().Load(".").Return(singleMemberWorkspace(t, "requests>=1.0", "click>=8.0"), nil)
	f.env.EXPECT().Snapshot().Return(testEnv(), nil)
	f.lockStore.EXPECT().Read().Return(written, true, nil)

	status, err := f.app.Check(context.Background(), ".")
	require.NoError(t, err)
	assert.False(t, status.Fresh)
	assert.Equal(t, "root requirements changed", status.Reason)
}

func TestApp_MemberLockWithoutLockfile(t *testing.T) {
	f := newFixture(t, catalog.NewMemory())

	f.loader.EXPECT().Load(".").Return(singleMemberWorkspace(t), nil)
	f.lockStore.EXPECT().Read().Return(nil, false, nil)

	_, err := f.app.MemberLock(context.Background(), ".", "app")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStaleLock)
}

func TestApp_Why(t *testing.T) {
	cat := catalog.NewMemory().
		Add("requests", "1.4", "urllib>=1.0").
		Add("urllib", "1.1")
	f := newFixture(t, cat)
	written := lockWorkspace(t, f, singleMemberWorkspace(t, "requests>=1.0"))

	f.loader.EXPECT().Load(".").Return(singleMemberWorkspace(t, "requests>=1.0"), nil)
	f.lockStore.EXPECT().Read().Return(written, true, nil)

	lines, err := f.app.Why(context.Background(), ".", "urllib")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"group main requires requests",
		"requests 1.4 (registry)",
		"urllib 1.1 (registry)",
	}, lines)
}

func TestApp_WhyUnknownPackage(t *testing.T) {
	cat := catalog.NewMemory().Add("requests", "1.4")
	f := newFixture(t, cat)
	written := lockWorkspace(t, f, singleMemberWorkspace(t, "requests>=1.0"))

	f.loader.EXPECT().Load(".").Return(singleMemberWorkspace(t, "requests>=1.0"), nil)
	f.lockStore.EXPECT().Read().Return(written, true, nil)

	_, err := f.app.Why(context.Background(), ".", "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
