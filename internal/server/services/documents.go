package services

import (
	"context"
	"time"

	"github.com/zentesthq/zentest/internal/models"
	"github.com/zentesthq/zentest/internal/server/broker"
	"github.com/zentesthq/zentest/internal/server/repositories/apicases"
	"github.com/zentesthq/zentest/internal/server/repositories/cases"
	"github.com/zentesthq/zentest/internal/server/repositories/memberships"
	"github.com/zentesthq/zentest/internal/server/repositories/modules"
	"github.com/zentesthq/zentest/internal/server/repositories/projects"
)

// Collection names as they appear in the URL scheme.
const (
	CollectionProjects     = "projects"
	CollectionModules      = "modules"
	CollectionTestCases    = "testCases"
	CollectionAPITestCases = "apiTestCases"
)

// CollectionTopic names the change stream of one public collection of an
// app. Scoped subscribers over-wake on writes to sibling projects and
// re-query; correctness does not depend on topic granularity.
func CollectionTopic(appID, collection string) broker.Topic {
	return broker.Topic(appID + "|" + collection)
}

// MembershipTopic names the per-user myProjects change stream.
func MembershipTopic(appID, userID string) broker.Topic {
	return broker.Topic(appID + "|myProjects|" + userID)
}

// DocumentService coordinates collection writes with change notification.
// Every successful mutation publishes the collection's topic so that open
// SSE streams refresh their snapshot.
type DocumentService struct {
	projects    projects.Repository
	modules     modules.Repository
	cases       cases.Repository
	apiCases    apicases.Repository
	memberships memberships.Repository
	broker      *broker.Broker
}

func NewDocumentService(
	p projects.Repository,
	m modules.Repository,
	c cases.Repository,
	a apicases.Repository,
	mb memberships.Repository,
	b *broker.Broker,
) *DocumentService {
	return &DocumentService{projects: p, modules: m, cases: c, apiCases: a, memberships: mb, broker: b}
}

// Broker exposes the underlying broker for SSE handlers.
func (s *DocumentService) Broker() *broker.Broker { return s.broker }

// --- projects ---

func (s *DocumentService) ListProjects(ctx context.Context, appID string) ([]models.Project, error) {
	return s.projects.List(ctx, appID)
}

func (s *DocumentService) PutProject(ctx context.Context, appID string, p models.Project) error {
	if err := s.projects.Upsert(ctx, appID, p); err != nil {
		return err
	}
	s.broker.Publish(CollectionTopic(appID, CollectionProjects))
	return nil
}

func (s *DocumentService) PatchProject(ctx context.Context, appID, id, name, color, initial string) error {
	if err := s.projects.UpdateMeta(ctx, appID, id, name, color, initial); err != nil {
		return err
	}
	s.broker.Publish(CollectionTopic(appID, CollectionProjects))
	return nil
}

func (s *DocumentService) DeleteProject(ctx context.Context, appID, id string) error {
	if err := s.projects.Delete(ctx, appID, id); err != nil {
		return err
	}
	s.broker.Publish(CollectionTopic(appID, CollectionProjects))
	return nil
}

// --- modules ---

func (s *DocumentService) ListModules(ctx context.Context, appID, projectID string) ([]models.Module, error) {
	return s.modules.List(ctx, appID, projectID)
}

func (s *DocumentService) PutModule(ctx context.Context, appID string, m models.Module) error {
	if err := s.modules.Upsert(ctx, appID, m); err != nil {
		return err
	}
	s.broker.Publish(CollectionTopic(appID, CollectionModules))
	return nil
}

func (s *DocumentService) RenameModule(ctx context.Context, appID, id, name string) error {
	if err := s.modules.Rename(ctx, appID, id, name); err != nil {
		return err
	}
	s.broker.Publish(CollectionTopic(appID, CollectionModules))
	return nil
}

func (s *DocumentService) DeleteModule(ctx context.Context, appID, id string) error {
	if err := s.modules.Delete(ctx, appID, id); err != nil {
		return err
	}
	s.broker.Publish(CollectionTopic(appID, CollectionModules))
	return nil
}

// --- functional cases ---

func (s *DocumentService) ListCases(ctx context.Context, appID, projectID string) ([]models.TestCase, error) {
	return s.cases.List(ctx, appID, projectID)
}

func (s *DocumentService) PutCase(ctx context.Context, appID string, c models.TestCase) error {
	if err := s.cases.Upsert(ctx, appID, c); err != nil {
		return err
	}
	s.broker.Publish(CollectionTopic(appID, CollectionTestCases))
	return nil
}

func (s *DocumentService) PatchCaseStatus(ctx context.Context, appID, id string, p cases.StatusPatch) error {
	if err := s.cases.UpdateStatus(ctx, appID, id, p); err != nil {
		return err
	}
	s.broker.Publish(CollectionTopic(appID, CollectionTestCases))
	return nil
}

func (s *DocumentService) DeleteCase(ctx context.Context, appID, id string) error {
	if err := s.cases.Delete(ctx, appID, id); err != nil {
		return err
	}
	s.broker.Publish(CollectionTopic(appID, CollectionTestCases))
	return nil
}

// --- API cases ---

func (s *DocumentService) ListAPICases(ctx context.Context, appID, projectID string) ([]models.APITestCase, error) {
	return s.apiCases.List(ctx, appID, projectID)
}

func (s *DocumentService) PutAPICase(ctx context.Context, appID string, c models.APITestCase) error {
	if err := s.apiCases.Upsert(ctx, appID, c); err != nil {
		return err
	}
	s.broker.Publish(CollectionTopic(appID, CollectionAPITestCases))
	return nil
}

func (s *DocumentService) PatchAPICaseStatus(ctx context.Context, appID, id string, p cases.StatusPatch) error {
	if err := s.apiCases.UpdateStatus(ctx, appID, id, p); err != nil {
		return err
	}
	s.broker.Publish(CollectionTopic(appID, CollectionAPITestCases))
	return nil
}

func (s *DocumentService) DeleteAPICase(ctx context.Context, appID, id string) error {
	if err := s.apiCases.Delete(ctx, appID, id); err != nil {
		return err
	}
	s.broker.Publish(CollectionTopic(appID, CollectionAPITestCases))
	return nil
}

// --- memberships ---

func (s *DocumentService) ListMemberships(ctx context.Context, appID, userID string) ([]models.Membership, error) {
	return s.memberships.ListByUser(ctx, appID, userID)
}

func (s *DocumentService) PutMembership(ctx context.Context, appID, userID string, m models.Membership) error {
	if m.JoinedAt == 0 {
		m.JoinedAt = time.Now().UnixMilli()
	}
	if m.Role == "" {
		m.Role = models.RoleMember
	}
	if err := s.memberships.Put(ctx, appID, userID, m); err != nil {
		return err
	}
	s.broker.Publish(MembershipTopic(appID, userID))
	return nil
}

func (s *DocumentService) DeleteMembership(ctx context.Context, appID, userID, projectID string) error {
	if err := s.memberships.Delete(ctx, appID, userID, projectID); err != nil {
		return err
	}
	s.broker.Publish(MembershipTopic(appID, userID))
	return nil
}
