package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zentesthq/zentest/internal/models"
	"github.com/zentesthq/zentest/internal/server/broker"
	"github.com/zentesthq/zentest/internal/server/repositories/apicases"
	"github.com/zentesthq/zentest/internal/server/repositories/cases"
	"github.com/zentesthq/zentest/internal/server/repositories/memberships"
	"github.com/zentesthq/zentest/internal/server/repositories/modules"
	"github.com/zentesthq/zentest/internal/server/repositories/projects"
)

func newDocumentService(t *testing.T) *DocumentService {
	t.Helper()
	db := setupDB(t)
	return NewDocumentService(
		projects.NewSQLiteRepository(db),
		modules.NewSQLiteRepository(db),
		cases.NewSQLiteRepository(db),
		apicases.NewSQLiteRepository(db),
		memberships.NewSQLiteRepository(db),
		broker.New(),
	)
}

func signalled(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}

func TestWritesPublishCollectionTopic(t *testing.T) {
	svc := newDocumentService(t)
	ctx := context.Background()

	ch, cancel := svc.Broker().Subscribe(CollectionTopic("app-1", CollectionProjects))
	defer cancel()

	require.NoError(t, svc.PutProject(ctx, "app-1", models.Project{ID: "p-1", Name: "Mobile", Owner: "u-1"}))
	assert.True(t, signalled(ch))

	require.NoError(t, svc.PatchProject(ctx, "app-1", "p-1", "Renamed", "#fff", "RE"))
	assert.True(t, signalled(ch))

	require.NoError(t, svc.DeleteProject(ctx, "app-1", "p-1"))
	assert.True(t, signalled(ch))
}

func TestFailedWriteDoesNotPublish(t *testing.T) {
	svc := newDocumentService(t)
	ctx := context.Background()

	ch, cancel := svc.Broker().Subscribe(CollectionTopic("app-1", CollectionModules))
	defer cancel()

	err := svc.RenameModule(ctx, "app-1", "m-404", "x")
	require.Error(t, err)
	assert.False(t, signalled(ch))
}

func TestCaseWritesAreIsolatedPerCollection(t *testing.T) {
	svc := newDocumentService(t)
	ctx := context.Background()

	funcCh, cancel1 := svc.Broker().Subscribe(CollectionTopic("app-1", CollectionTestCases))
	defer cancel1()
	apiCh, cancel2 := svc.Broker().Subscribe(CollectionTopic("app-1", CollectionAPITestCases))
	defer cancel2()

	require.NoError(t, svc.PutCase(ctx, "app-1", models.TestCase{ID: "TC-1001", ProjectID: "p-1", Title: "t"}))
	assert.True(t, signalled(funcCh))
	assert.False(t, signalled(apiCh))

	require.NoError(t, svc.PutAPICase(ctx, "app-1", models.APITestCase{ID: "API-1001", ProjectID: "p-1", Title: "t"}))
	assert.True(t, signalled(apiCh))
	assert.False(t, signalled(funcCh))
}

func TestMembershipTopicIsPerUser(t *testing.T) {
	svc := newDocumentService(t)
	ctx := context.Background()

	aliceCh, cancel1 := svc.Broker().Subscribe(MembershipTopic("app-1", "u-1"))
	defer cancel1()
	bobCh, cancel2 := svc.Broker().Subscribe(MembershipTopic("app-1", "u-2"))
	defer cancel2()

	require.NoError(t, svc.PutMembership(ctx, "app-1", "u-1", models.Membership{ProjectID: "p-1"}))
	assert.True(t, signalled(aliceCh))
	assert.False(t, signalled(bobCh))

	got, err := svc.ListMemberships(ctx, "app-1", "u-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	// Defaults filled in for a bare join request.
	assert.Equal(t, models.RoleMember, got[0].Role)
	assert.NotZero(t, got[0].JoinedAt)

	require.NoError(t, svc.DeleteMembership(ctx, "app-1", "u-1", "p-1"))
	assert.True(t, signalled(aliceCh))
}
