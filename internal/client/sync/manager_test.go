package sync

import (
	"context"
	"io"
	"log/slog"
	stdsync "sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zentesthq/zentest/internal/client/backend"
	"github.com/zentesthq/zentest/internal/client/state"
	"github.com/zentesthq/zentest/internal/logging"
	"github.com/zentesthq/zentest/internal/models"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeBackend records subscriptions and lets tests push snapshots by hand.
type fakeBackend struct {
	backend.Backend

	mu         stdsync.Mutex
	memberFn   backend.MembershipsFunc
	projectFn  backend.ProjectsFunc
	moduleFns  map[string]backend.ModulesFunc
	caseFns    map[string]backend.CasesFunc
	apiFns     map[string]backend.APICasesFunc
	cancels    int
	catalogSub int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		moduleFns: make(map[string]backend.ModulesFunc),
		caseFns:   make(map[string]backend.CasesFunc),
		apiFns:    make(map[string]backend.APICasesFunc),
	}
}

func (f *fakeBackend) SubscribeMemberships(_ context.Context, _ string, fn backend.MembershipsFunc) (backend.CancelFunc, error) {
	f.mu.Lock()
	f.memberFn = fn
	f.mu.Unlock()
	return f.countCancel(), nil
}

func (f *fakeBackend) SubscribeProjects(_ context.Context, fn backend.ProjectsFunc) (backend.CancelFunc, error) {
	f.mu.Lock()
	f.projectFn = fn
	f.catalogSub++
	f.mu.Unlock()
	return f.countCancel(), nil
}

func (f *fakeBackend) SubscribeModules(_ context.Context, projectID string, fn backend.ModulesFunc) (backend.CancelFunc, error) {
	f.mu.Lock()
	f.moduleFns[projectID] = fn
	f.mu.Unlock()
	return f.countCancel(), nil
}

func (f *fakeBackend) SubscribeCases(_ context.Context, projectID string, fn backend.CasesFunc) (backend.CancelFunc, error) {
	f.mu.Lock()
	f.caseFns[projectID] = fn
	f.mu.Unlock()
	return f.countCancel(), nil
}

func (f *fakeBackend) SubscribeAPICases(_ context.Context, projectID string, fn backend.APICasesFunc) (backend.CancelFunc, error) {
	f.mu.Lock()
	f.apiFns[projectID] = fn
	f.mu.Unlock()
	return f.countCancel(), nil
}

func (f *fakeBackend) countCancel() backend.CancelFunc {
	return func() {
		f.mu.Lock()
		f.cancels++
		f.mu.Unlock()
	}
}

func (f *fakeBackend) pushMemberships(ms []models.Membership) {
	f.mu.Lock()
	fn := f.memberFn
	f.mu.Unlock()
	fn(ms)
}

func (f *fakeBackend) pushCatalog(ps []models.Project) {
	f.mu.Lock()
	fn := f.projectFn
	f.mu.Unlock()
	fn(ps)
}

func member(id string) models.Membership {
	return models.Membership{ProjectID: id, Role: models.RoleMember}
}

func TestManager_GuestPipelineLoadsFixtures(t *testing.T) {
	st := state.NewStore()
	m := NewManager(backend.NewLocalBackend(), st, testLogger())
	defer m.Close()

	require.NoError(t, m.SetIdentity(context.Background(), models.Guest()))

	projects := st.Projects()
	require.Len(t, projects, 2)
	assert.Equal(t, "demo-1", st.ActiveProjectID())
	assert.Len(t, st.Modules(), 2)
	assert.Len(t, st.Cases(), 3)
	assert.Len(t, st.APICases(), 2)
}

func TestManager_ProjectSwitchSwapsScope(t *testing.T) {
	st := state.NewStore()
	m := NewManager(backend.NewLocalBackend(), st, testLogger())
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.SetIdentity(ctx, models.Guest()))

	m.SetActiveProject(ctx, "demo-2")

	assert.Equal(t, "demo-2", st.ActiveProjectID())
	modules := st.Modules()
	require.Len(t, modules, 1)
	assert.Equal(t, "Onboarding", modules[0].Name)
	assert.Empty(t, st.Cases())
	assert.Empty(t, st.APICases())
}

func TestManager_VisibilityIsMembershipIntersection(t *testing.T) {
	fb := newFakeBackend()
	st := state.NewStore()
	m := NewManager(fb, st, testLogger())
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.SetIdentity(ctx, models.Identity{UID: "u-1"}))

	fb.pushMemberships([]models.Membership{member("p-2")})
	fb.pushCatalog([]models.Project{
		{ID: "p-1", Name: "Other team"},
		{ID: "p-2", Name: "Mine"},
		{ID: "p-3", Name: "Also other"},
	})

	projects := st.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, "p-2", projects[0].ID)
	assert.Equal(t, "p-2", st.ActiveProjectID())
}

func TestManager_EmptyMembershipsClearWorkspace(t *testing.T) {
	fb := newFakeBackend()
	st := state.NewStore()
	m := NewManager(fb, st, testLogger())
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.SetIdentity(ctx, models.Identity{UID: "u-1"}))

	fb.pushMemberships([]models.Membership{member("p-1")})
	fb.pushCatalog([]models.Project{{ID: "p-1"}})
	require.Equal(t, "p-1", st.ActiveProjectID())

	fb.pushMemberships(nil)

	assert.Empty(t, st.Projects())
	assert.Empty(t, st.ActiveProjectID())
}

func TestManager_ActiveRepairedWhenProjectDisappears(t *testing.T) {
	fb := newFakeBackend()
	st := state.NewStore()
	m := NewManager(fb, st, testLogger())
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.SetIdentity(ctx, models.Identity{UID: "u-1"}))

	fb.pushMemberships([]models.Membership{member("p-1"), member("p-2")})
	fb.pushCatalog([]models.Project{{ID: "p-1"}, {ID: "p-2"}})
	require.Equal(t, "p-1", st.ActiveProjectID())

	// owner deleted p-1 under us
	fb.pushCatalog([]models.Project{{ID: "p-2"}})

	assert.Equal(t, "p-2", st.ActiveProjectID())
}

func TestManager_MembershipRefreshReplacesCatalogSubscription(t *testing.T) {
	fb := newFakeBackend()
	st := state.NewStore()
	m := NewManager(fb, st, testLogger())
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.SetIdentity(ctx, models.Identity{UID: "u-1"}))

	fb.pushMemberships([]models.Membership{member("p-1")})
	fb.pushMemberships([]models.Membership{member("p-1"), member("p-2")})

	fb.mu.Lock()
	subs, cancels := fb.catalogSub, fb.cancels
	fb.mu.Unlock()
	assert.Equal(t, 2, subs)
	// the first catalog subscription was disposed before the second opened
	assert.GreaterOrEqual(t, cancels, 1)
}

func TestManager_StaleScopedSnapshotIgnoredAfterSwitch(t *testing.T) {
	fb := newFakeBackend()
	st := state.NewStore()
	m := NewManager(fb, st, testLogger())
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.SetIdentity(ctx, models.Identity{UID: "u-1"}))

	fb.pushMemberships([]models.Membership{member("p-1"), member("p-2")})
	fb.pushCatalog([]models.Project{{ID: "p-1"}, {ID: "p-2"}})
	require.Equal(t, "p-1", st.ActiveProjectID())

	fb.mu.Lock()
	staleCases := fb.caseFns["p-1"]
	fb.mu.Unlock()

	m.SetActiveProject(ctx, "p-2")

	// a late snapshot from the previous scope must not land
	staleCases([]models.TestCase{{ID: "TC-OLD", ProjectID: "p-1"}})
	assert.Empty(t, st.Cases())

	fb.mu.Lock()
	fresh := fb.caseFns["p-2"]
	fb.mu.Unlock()
	fresh([]models.TestCase{{ID: "TC-NEW", ProjectID: "p-2"}})
	require.Len(t, st.Cases(), 1)
	assert.Equal(t, "TC-NEW", st.Cases()[0].ID)
}

func TestManager_IdentitySwitchDropsEverything(t *testing.T) {
	fb := newFakeBackend()
	st := state.NewStore()
	m := NewManager(fb, st, testLogger())
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.SetIdentity(ctx, models.Identity{UID: "u-1"}))
	fb.pushMemberships([]models.Membership{member("p-1")})
	fb.pushCatalog([]models.Project{{ID: "p-1"}})
	require.NotEmpty(t, st.Projects())

	fb.mu.Lock()
	staleMembers := fb.memberFn
	fb.mu.Unlock()

	require.NoError(t, m.SetIdentity(ctx, models.Identity{UID: "u-2"}))

	assert.Empty(t, st.Projects())
	assert.Empty(t, st.ActiveProjectID())

	// the previous identity's feed is dead even if it still fires
	staleMembers([]models.Membership{member("p-1"), member("p-9")})
	assert.Empty(t, st.Projects())
}

func TestManager_SignOutToEmptyIdentity(t *testing.T) {
	st := state.NewStore()
	m := NewManager(backend.NewLocalBackend(), st, testLogger())
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.SetIdentity(ctx, models.Guest()))
	require.NotEmpty(t, st.Projects())

	require.NoError(t, m.SetIdentity(ctx, models.Identity{}))

	assert.Empty(t, st.Projects())
	assert.Empty(t, st.Cases())
}

func TestManager_CloseDisposesSubscriptions(t *testing.T) {
	fb := newFakeBackend()
	st := state.NewStore()
	m := NewManager(fb, st, testLogger())

	ctx := context.Background()
	require.NoError(t, m.SetIdentity(ctx, models.Identity{UID: "u-1"}))
	fb.pushMemberships([]models.Membership{member("p-1")})
	fb.pushCatalog([]models.Project{{ID: "p-1"}})

	fb.mu.Lock()
	before := fb.cancels
	fb.mu.Unlock()

	m.Close()

	// memberships + catalog + three scoped subscriptions
	fb.mu.Lock()
	after := fb.cancels
	fb.mu.Unlock()
	assert.Equal(t, before+5, after)
}
