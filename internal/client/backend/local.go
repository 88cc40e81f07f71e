package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zentesthq/zentest/internal/client/mockdata"
	"github.com/zentesthq/zentest/internal/common"
	"github.com/zentesthq/zentest/internal/models"
)

// LocalBackend serves guest/preview sessions entirely from memory, seeded
// with the mock fixture set. Every write completes synchronously and the
// new snapshot is pushed to affected subscribers before the call returns,
// so the canonical state is never stale in this mode.
//
// Snapshot callbacks are invoked outside the backend's lock; re-entrant
// subscribe calls from inside a callback are safe.
type LocalBackend struct {
	mu       sync.Mutex
	projects []models.Project
	modules  []models.Module
	cases    []models.TestCase
	apiCases []models.APITestCase

	nextSub    int
	memberSubs map[int]MembershipsFunc
	projSubs   map[int]ProjectsFunc
	moduleSubs map[int]scopedSub[ModulesFunc]
	caseSubs   map[int]scopedSub[CasesFunc]
	apiSubs    map[int]scopedSub[APICasesFunc]

	now func() time.Time
}

var _ Backend = (*LocalBackend)(nil)

type scopedSub[F any] struct {
	projectID string
	fn        F
}

// NewLocalBackend returns a backend seeded with the demo fixtures.
func NewLocalBackend() *LocalBackend {
	b := &LocalBackend{
		memberSubs: make(map[int]MembershipsFunc),
		projSubs:   make(map[int]ProjectsFunc),
		moduleSubs: make(map[int]scopedSub[ModulesFunc]),
		caseSubs:   make(map[int]scopedSub[CasesFunc]),
		apiSubs:    make(map[int]scopedSub[APICasesFunc]),
		now:        time.Now,
	}
	now := time.Now().UnixMilli()
	b.projects = mockdata.Projects()
	b.modules = mockdata.Modules()
	b.cases = mockdata.Cases(now)
	b.apiCases = mockdata.APICases(now)
	return b
}

func (b *LocalBackend) nowMilli() int64 { return b.now().UnixMilli() }

// --- snapshots (callers hold b.mu) ---

func (b *LocalBackend) projectSnapshot() []models.Project {
	out := make([]models.Project, len(b.projects))
	copy(out, b.projects)
	return out
}

// Guest visibility is one owner link per local project. Join/leave do not
// apply in preview mode, so membership is derived rather than stored.
func (b *LocalBackend) membershipSnapshot() []models.Membership {
	out := make([]models.Membership, 0, len(b.projects))
	for _, p := range b.projects {
		out = append(out, models.Membership{ProjectID: p.ID, JoinedAt: 0, Role: models.RoleOwner})
	}
	return out
}

func (b *LocalBackend) moduleSnapshot(projectID string) []models.Module {
	out := make([]models.Module, 0)
	for _, m := range b.modules {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out
}

func (b *LocalBackend) caseSnapshot(projectID string) []models.TestCase {
	out := make([]models.TestCase, 0)
	for _, c := range b.cases {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out
}

func (b *LocalBackend) apiSnapshot(projectID string) []models.APITestCase {
	out := make([]models.APITestCase, 0)
	for _, c := range b.apiCases {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out
}

// notify gathers the pending callback invocations for the named collections
// under the lock; the returned closure runs them after the lock is released.
func (b *LocalBackend) notifyProjects() func() {
	projects := b.projectSnapshot()
	members := b.membershipSnapshot()
	pfns := make([]ProjectsFunc, 0, len(b.projSubs))
	for _, fn := range b.projSubs {
		pfns = append(pfns, fn)
	}
	mfns := make([]MembershipsFunc, 0, len(b.memberSubs))
	for _, fn := range b.memberSubs {
		mfns = append(mfns, fn)
	}
	return func() {
		for _, fn := range mfns {
			fn(members)
		}
		for _, fn := range pfns {
			fn(projects)
		}
	}
}

func (b *LocalBackend) notifyModules(projectID string) func() {
	snap := b.moduleSnapshot(projectID)
	fns := make([]ModulesFunc, 0)
	for _, s := range b.moduleSubs {
		if s.projectID == projectID {
			fns = append(fns, s.fn)
		}
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}

func (b *LocalBackend) notifyCases(projectID string) func() {
	snap := b.caseSnapshot(projectID)
	fns := make([]CasesFunc, 0)
	for _, s := range b.caseSubs {
		if s.projectID == projectID {
			fns = append(fns, s.fn)
		}
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}

func (b *LocalBackend) notifyAPICases(projectID string) func() {
	snap := b.apiSnapshot(projectID)
	fns := make([]APICasesFunc, 0)
	for _, s := range b.apiSubs {
		if s.projectID == projectID {
			fns = append(fns, s.fn)
		}
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}

// --- projects ---

func (b *LocalBackend) SaveProject(ctx context.Context, p models.Project, isNew bool, by models.Identity) (string, error) {
	b.mu.Lock()
	if isNew {
		p.ID = fmt.Sprintf("demo-new-%d", b.nowMilli())
		p.Owner = by.UID
		if p.Color == "" {
			p.Color = "#ffffff"
		}
		b.projects = append(b.projects, p)
	} else {
		for i := range b.projects {
			if b.projects[i].ID == p.ID {
				owner := b.projects[i].Owner
				b.projects[i] = p
				b.projects[i].Owner = owner
				break
			}
		}
	}
	notify := b.notifyProjects()
	b.mu.Unlock()
	notify()
	return p.ID, nil
}

func (b *LocalBackend) DeleteProject(ctx context.Context, id string) error {
	b.mu.Lock()
	out := b.projects[:0]
	for _, p := range b.projects {
		if p.ID != id {
			out = append(out, p)
		}
	}
	b.projects = out
	// Modules and cases of the deleted project are left orphaned on
	// purpose; project deletion does not cascade.
	notify := b.notifyProjects()
	b.mu.Unlock()
	notify()
	return nil
}

func (b *LocalBackend) JoinProject(ctx context.Context, projectID string, by models.Identity) error {
	return common.ErrNotConfigured
}

// LeaveProject drops the project from the local catalog. Preview data is
// owned by the guest, so leaving and deleting are the same operation here.
func (b *LocalBackend) LeaveProject(ctx context.Context, projectID string, by models.Identity) error {
	return b.DeleteProject(ctx, projectID)
}

// --- modules ---

func (b *LocalBackend) AddModule(ctx context.Context, projectID, name string) error {
	b.mu.Lock()
	b.modules = append(b.modules, models.Module{
		ID:        "mod-" + uuid.NewString()[:8],
		ProjectID: projectID,
		Name:      name,
	})
	notify := b.notifyModules(projectID)
	b.mu.Unlock()
	notify()
	return nil
}

func (b *LocalBackend) RenameModule(ctx context.Context, id, name string) error {
	b.mu.Lock()
	var projectID string
	for i := range b.modules {
		if b.modules[i].ID == id {
			b.modules[i].Name = name
			projectID = b.modules[i].ProjectID
			break
		}
	}
	// Existing cases keep the old module name; the reference is a
	// denormalized string, not a foreign key.
	notify := b.notifyModules(projectID)
	b.mu.Unlock()
	notify()
	return nil
}

func (b *LocalBackend) DeleteModule(ctx context.Context, id string) error {
	b.mu.Lock()
	var projectID string
	out := b.modules[:0]
	for _, m := range b.modules {
		if m.ID == id {
			projectID = m.ProjectID
			continue
		}
		out = append(out, m)
	}
	b.modules = out
	notify := b.notifyModules(projectID)
	b.mu.Unlock()
	notify()
	return nil
}

// --- functional cases ---

func (b *LocalBackend) SaveCase(ctx context.Context, c models.TestCase, isNew bool, by models.Identity) (string, error) {
	b.mu.Lock()
	c.RecomputeAutomation()
	c.Timestamp = b.nowMilli()
	c.LastUpdatedBy = by.UID
	c.LastUpdatedByName = by.AuditName()
	if isNew {
		c.ID = models.NewCaseID()
		if c.Status == "" {
			c.Status = models.StatusPending
		}
		b.cases = append(b.cases, c)
	} else {
		for i := range b.cases {
			if b.cases[i].ID == c.ID {
				b.cases[i] = c
				break
			}
		}
	}
	notify := b.notifyCases(c.ProjectID)
	b.mu.Unlock()
	notify()
	return c.ID, nil
}

func (b *LocalBackend) DeleteCase(ctx context.Context, id string) error {
	b.mu.Lock()
	var projectID string
	out := b.cases[:0]
	for _, c := range b.cases {
		if c.ID == id {
			projectID = c.ProjectID
			continue
		}
		out = append(out, c)
	}
	b.cases = out
	notify := b.notifyCases(projectID)
	b.mu.Unlock()
	notify()
	return nil
}

func (b *LocalBackend) BulkDeleteCases(ctx context.Context, ids []string) error {
	// One independent delete per id, mirroring the remote path's lack of
	// transactional grouping.
	for _, id := range ids {
		if err := b.DeleteCase(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (b *LocalBackend) UpdateStatus(ctx context.Context, id string, status models.Status, by models.Identity) error {
	b.mu.Lock()
	var projectID string
	for i := range b.cases {
		if b.cases[i].ID == id {
			b.cases[i].Status = status
			b.cases[i].Timestamp = b.nowMilli()
			b.cases[i].LastUpdatedBy = by.UID
			b.cases[i].LastUpdatedByName = by.AuditName()
			projectID = b.cases[i].ProjectID
			break
		}
	}
	notify := b.notifyCases(projectID)
	b.mu.Unlock()
	notify()
	return nil
}

// --- API cases ---

func (b *LocalBackend) SaveAPICase(ctx context.Context, c models.APITestCase, isNew bool, by models.Identity) (string, error) {
	b.mu.Lock()
	c.Timestamp = b.nowMilli()
	c.LastUpdatedBy = by.UID
	c.LastUpdatedByName = by.AuditName()
	if isNew {
		c.ID = models.NewAPICaseID()
		if c.Status == "" {
			c.Status = models.StatusPending
		}
		b.apiCases = append(b.apiCases, c)
	} else {
		for i := range b.apiCases {
			if b.apiCases[i].ID == c.ID {
				b.apiCases[i] = c
				break
			}
		}
	}
	notify := b.notifyAPICases(c.ProjectID)
	b.mu.Unlock()
	notify()
	return c.ID, nil
}

func (b *LocalBackend) DeleteAPICase(ctx context.Context, id string) error {
	b.mu.Lock()
	var projectID string
	out := b.apiCases[:0]
	for _, c := range b.apiCases {
		if c.ID == id {
			projectID = c.ProjectID
			continue
		}
		out = append(out, c)
	}
	b.apiCases = out
	notify := b.notifyAPICases(projectID)
	b.mu.Unlock()
	notify()
	return nil
}

func (b *LocalBackend) UpdateAPIStatus(ctx context.Context, id string, status models.Status, by models.Identity) error {
	b.mu.Lock()
	var projectID string
	for i := range b.apiCases {
		if b.apiCases[i].ID == id {
			b.apiCases[i].Status = status
			b.apiCases[i].Timestamp = b.nowMilli()
			b.apiCases[i].LastUpdatedBy = by.UID
			b.apiCases[i].LastUpdatedByName = by.AuditName()
			projectID = b.apiCases[i].ProjectID
			break
		}
	}
	notify := b.notifyAPICases(projectID)
	b.mu.Unlock()
	notify()
	return nil
}

// --- live queries ---

func (b *LocalBackend) SubscribeMemberships(ctx context.Context, uid string, fn MembershipsFunc) (CancelFunc, error) {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.memberSubs[id] = fn
	snap := b.membershipSnapshot()
	b.mu.Unlock()
	fn(snap)
	return func() {
		b.mu.Lock()
		delete(b.memberSubs, id)
		b.mu.Unlock()
	}, nil
}

func (b *LocalBackend) SubscribeProjects(ctx context.Context, fn ProjectsFunc) (CancelFunc, error) {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.projSubs[id] = fn
	snap := b.projectSnapshot()
	b.mu.Unlock()
	fn(snap)
	return func() {
		b.mu.Lock()
		delete(b.projSubs, id)
		b.mu.Unlock()
	}, nil
}

func (b *LocalBackend) SubscribeModules(ctx context.Context, projectID string, fn ModulesFunc) (CancelFunc, error) {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.moduleSubs[id] = scopedSub[ModulesFunc]{projectID: projectID, fn: fn}
	snap := b.moduleSnapshot(projectID)
	b.mu.Unlock()
	fn(snap)
	return func() {
		b.mu.Lock()
		delete(b.moduleSubs, id)
		b.mu.Unlock()
	}, nil
}

func (b *LocalBackend) SubscribeCases(ctx context.Context, projectID string, fn CasesFunc) (CancelFunc, error) {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.caseSubs[id] = scopedSub[CasesFunc]{projectID: projectID, fn: fn}
	snap := b.caseSnapshot(projectID)
	b.mu.Unlock()
	fn(snap)
	return func() {
		b.mu.Lock()
		delete(b.caseSubs, id)
		b.mu.Unlock()
	}, nil
}

func (b *LocalBackend) SubscribeAPICases(ctx context.Context, projectID string, fn APICasesFunc) (CancelFunc, error) {
	b.mu.Lock()
	id := b.nextSub
	b.nextSub++
	b.apiSubs[id] = scopedSub[APICasesFunc]{projectID: projectID, fn: fn}
	snap := b.apiSnapshot(projectID)
	b.mu.Unlock()
	fn(snap)
	return func() {
		b.mu.Lock()
		delete(b.apiSubs, id)
		b.mu.Unlock()
	}, nil
}
