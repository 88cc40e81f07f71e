// Package backend defines the data-backend abstraction the client core is
// built on. The application selects one implementation at session start,
// LocalBackend for guest/preview sessions or RemoteBackend for
// authenticated ones, and no downstream consumer branches on mode again.
package backend

import (
	"context"

	"github.com/zentesthq/zentest/internal/models"
)

// CancelFunc disposes a live query. Disposal is synchronous: after it
// returns, the callback will not be invoked again.
type CancelFunc func()

// Snapshot callbacks receive the full result set on subscribe and after
// every change. Consumers replace their collection wholesale
// (last-snapshot-wins); there is no incremental patching.
type (
	ProjectsFunc    func([]models.Project)
	MembershipsFunc func([]models.Membership)
	ModulesFunc     func([]models.Module)
	CasesFunc       func([]models.TestCase)
	APICasesFunc    func([]models.APITestCase)
)

// Backend is the uniform write/subscribe contract shared by both modes.
//
// Write methods on the remote implementation are fire-and-forget from the
// store's perspective: the canonical state reflects a write only when the
// next snapshot arrives. The local implementation mutates its collections
// synchronously and pushes the new snapshot before returning, so both
// paths converge on identical shapes.
type Backend interface {
	// Projects and membership links.
	SaveProject(ctx context.Context, p models.Project, isNew bool, by models.Identity) (string, error)
	DeleteProject(ctx context.Context, id string) error
	JoinProject(ctx context.Context, projectID string, by models.Identity) error
	LeaveProject(ctx context.Context, projectID string, by models.Identity) error

	// Modules.
	AddModule(ctx context.Context, projectID, name string) error
	RenameModule(ctx context.Context, id, name string) error
	DeleteModule(ctx context.Context, id string) error

	// Functional test cases. HasAutomation is recomputed from Script on
	// every save regardless of the value supplied by the caller.
	SaveCase(ctx context.Context, c models.TestCase, isNew bool, by models.Identity) (string, error)
	DeleteCase(ctx context.Context, id string) error
	BulkDeleteCases(ctx context.Context, ids []string) error
	UpdateStatus(ctx context.Context, id string, status models.Status, by models.Identity) error

	// API test cases.
	SaveAPICase(ctx context.Context, c models.APITestCase, isNew bool, by models.Identity) (string, error)
	DeleteAPICase(ctx context.Context, id string) error
	UpdateAPIStatus(ctx context.Context, id string, status models.Status, by models.Identity) error

	// Live queries. Membership links intersected with the public catalog
	// determine project visibility; there is no direct ownership query.
	SubscribeMemberships(ctx context.Context, uid string, fn MembershipsFunc) (CancelFunc, error)
	SubscribeProjects(ctx context.Context, fn ProjectsFunc) (CancelFunc, error)
	SubscribeModules(ctx context.Context, projectID string, fn ModulesFunc) (CancelFunc, error)
	SubscribeCases(ctx context.Context, projectID string, fn CasesFunc) (CancelFunc, error)
	SubscribeAPICases(ctx context.Context, projectID string, fn APICasesFunc) (CancelFunc, error)
}
