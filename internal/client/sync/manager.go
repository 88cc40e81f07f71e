// Package sync keeps the canonical state store consistent with the data
// backend. For an authenticated identity it maintains one membership
// subscription, one public-catalog subscription filtered to the membership
// ids, and three project-scoped subscriptions (modules, functional cases,
// API cases). For a guest identity the local backend answers the same
// contract synchronously, so the manager is identical in both modes.
//
// Scope changes are guarded by generation counters: a subscription opened
// for an earlier identity or project can never apply a stale snapshot
// after the switch, and the stale subscription is always disposed before
// its replacement is established.
package sync

import (
	"context"
	"sync"

	"github.com/zentesthq/zentest/internal/client/backend"
	"github.com/zentesthq/zentest/internal/client/state"
	"github.com/zentesthq/zentest/internal/logging"
	"github.com/zentesthq/zentest/internal/models"
)

type Manager struct {
	backend backend.Backend
	store   *state.Store
	log     logging.Logger

	mu           sync.Mutex
	identity     models.Identity
	authEpoch    int
	catalogGen   int
	projectEpoch int
	memberIDs    []string

	cancelMemberships backend.CancelFunc
	cancelCatalog     backend.CancelFunc
	cancelScoped      []backend.CancelFunc
	scopedActive      bool
	activeProject     string
}

func NewManager(b backend.Backend, st *state.Store, log logging.Logger) *Manager {
	return &Manager{
		backend: b,
		store:   st,
		log:     log.With("module", "sync"),
	}
}

// SetIdentity tears down every live subscription of the previous identity,
// resets the store, and, for a non-empty identity, opens the membership
// subscription that drives the rest of the pipeline.
func (m *Manager) SetIdentity(ctx context.Context, id models.Identity) error {
	m.mu.Lock()
	cancels := m.collectAllLocked()
	m.identity = id
	m.authEpoch++
	m.projectEpoch++
	m.activeProject = ""
	m.memberIDs = nil
	epoch := m.authEpoch
	m.mu.Unlock()

	runAll(cancels)
	m.store.Reset()

	if id.UID == "" {
		return nil
	}

	m.log.Debug(ctx, "subscribing memberships", "uid", id.UID)
	cancel, err := m.backend.SubscribeMemberships(ctx, id.UID, func(ms []models.Membership) {
		m.onMemberships(ctx, epoch, ms)
	})
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.authEpoch == epoch {
		m.cancelMemberships = cancel
		cancel = nil
	}
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return nil
}

// onMemberships reacts to a membership snapshot: it replaces the catalog
// subscription so the visible project list can be recomputed against the
// new membership ids.
func (m *Manager) onMemberships(ctx context.Context, epoch int, ms []models.Membership) {
	m.mu.Lock()
	if epoch != m.authEpoch {
		m.mu.Unlock()
		return
	}
	ids := make([]string, 0, len(ms))
	for _, link := range ms {
		ids = append(ids, link.ProjectID)
	}
	m.memberIDs = ids
	m.catalogGen++
	gen := m.catalogGen
	old := m.cancelCatalog
	m.cancelCatalog = nil
	m.mu.Unlock()

	// Stale catalog subscription goes first; its replacement may only be
	// opened after disposal.
	if old != nil {
		old()
	}

	if len(ids) == 0 {
		m.store.SetProjects([]models.Project{})
		m.SetActiveProject(ctx, "")
		return
	}

	cancel, err := m.backend.SubscribeProjects(ctx, func(all []models.Project) {
		m.onCatalog(ctx, epoch, all)
	})
	if err != nil {
		m.log.Error(ctx, "catalog subscription failed", "error", err)
		return
	}

	m.mu.Lock()
	if m.authEpoch == epoch && m.catalogGen == gen {
		m.cancelCatalog = cancel
		cancel = nil
	}
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// onCatalog intersects the public catalog with the membership ids and
// repairs the active-project selection if it is no longer visible.
func (m *Manager) onCatalog(ctx context.Context, epoch int, all []models.Project) {
	m.mu.Lock()
	if epoch != m.authEpoch {
		m.mu.Unlock()
		return
	}
	member := make(map[string]struct{}, len(m.memberIDs))
	for _, id := range m.memberIDs {
		member[id] = struct{}{}
	}
	visible := make([]models.Project, 0, len(member))
	for _, p := range all {
		if _, ok := member[p.ID]; ok {
			visible = append(visible, p)
		}
	}
	active := m.activeProject
	m.mu.Unlock()

	m.store.SetProjects(visible)

	stillVisible := false
	for _, p := range visible {
		if p.ID == active {
			stillVisible = true
			break
		}
	}
	if active == "" || !stillVisible {
		next := ""
		if len(visible) > 0 {
			next = visible[0].ID
		}
		m.SetActiveProject(ctx, next)
	}
}

// SetActiveProject switches the project scope: the three project-scoped
// subscriptions are disposed, the scoped collections cleared, and fresh
// subscriptions opened against the new project when the id is non-empty.
// Setting the already-active project is a no-op.
func (m *Manager) SetActiveProject(ctx context.Context, projectID string) {
	m.mu.Lock()
	if projectID == m.activeProject && (m.scopedActive || projectID == "") {
		m.mu.Unlock()
		return
	}
	old := m.cancelScoped
	m.cancelScoped = nil
	m.scopedActive = false
	m.activeProject = projectID
	m.projectEpoch++
	pe := m.projectEpoch
	ae := m.authEpoch
	m.mu.Unlock()

	runAll(old)
	m.store.SetActiveProject(projectID)
	m.store.ClearProjectScope()

	if projectID == "" {
		return
	}

	guard := func(apply func()) {
		m.mu.Lock()
		ok := pe == m.projectEpoch && ae == m.authEpoch
		m.mu.Unlock()
		if ok {
			apply()
		}
	}

	var cancels []backend.CancelFunc
	subscribe := func(open func() (backend.CancelFunc, error), what string) {
		cancel, err := open()
		if err != nil {
			m.log.Error(ctx, "subscription failed", "collection", what, "projectId", projectID, "error", err)
			return
		}
		cancels = append(cancels, cancel)
	}

	subscribe(func() (backend.CancelFunc, error) {
		return m.backend.SubscribeModules(ctx, projectID, func(mods []models.Module) {
			guard(func() { m.store.SetModules(mods) })
		})
	}, "modules")
	subscribe(func() (backend.CancelFunc, error) {
		return m.backend.SubscribeCases(ctx, projectID, func(cases []models.TestCase) {
			guard(func() { m.store.SetCases(cases) })
		})
	}, "testCases")
	subscribe(func() (backend.CancelFunc, error) {
		return m.backend.SubscribeAPICases(ctx, projectID, func(cases []models.APITestCase) {
			guard(func() { m.store.SetAPICases(cases) })
		})
	}, "apiTestCases")

	m.mu.Lock()
	if m.projectEpoch == pe && m.authEpoch == ae {
		m.cancelScoped = cancels
		m.scopedActive = true
		cancels = nil
	}
	m.mu.Unlock()
	runAll(cancels)
}

// Close disposes every live subscription. The manager is not reusable
// afterwards except through SetIdentity.
func (m *Manager) Close() {
	m.mu.Lock()
	cancels := m.collectAllLocked()
	m.authEpoch++
	m.projectEpoch++
	m.mu.Unlock()
	runAll(cancels)
}

func (m *Manager) collectAllLocked() []backend.CancelFunc {
	var cancels []backend.CancelFunc
	if m.cancelMemberships != nil {
		cancels = append(cancels, m.cancelMemberships)
		m.cancelMemberships = nil
	}
	if m.cancelCatalog != nil {
		cancels = append(cancels, m.cancelCatalog)
		m.cancelCatalog = nil
	}
	cancels = append(cancels, m.cancelScoped...)
	m.cancelScoped = nil
	m.scopedActive = false
	return cancels
}

func runAll(cancels []backend.CancelFunc) {
	for _, cancel := range cancels {
		if cancel != nil {
			cancel()
		}
	}
}
