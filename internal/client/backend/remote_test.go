package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zentesthq/zentest/internal/common"
	"github.com/zentesthq/zentest/internal/models"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   []byte
}

// recordingServer captures every request and answers 200 with an optional
// fixed body.
func recordingServer(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		reqs = append(reqs, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get(common.AccessTokenHeaderName),
			Body:   body,
		})
		mu.Unlock()
		if respond != nil {
			respond(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func TestRemoteBackend_LoginStoresToken(t *testing.T) {
	srv, reqs := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(authResponse{
			Token: "tok-123",
			User:  models.Identity{UID: "u-1", DisplayName: "Alice"},
		})
	})
	b := NewRemoteBackend(srv.URL, "zentest-compact-shared")

	id, err := b.Login(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u-1", id.UID)

	require.NoError(t, b.DeleteModule(context.Background(), "mod-1"))

	require.Len(t, *reqs, 2)
	assert.Equal(t, "/api/auth/login", (*reqs)[0].Path)
	assert.Empty(t, (*reqs)[0].Auth)
	// subsequent requests carry the token
	assert.Equal(t, "Bearer tok-123", (*reqs)[1].Auth)

	b.Logout()
	require.NoError(t, b.DeleteModule(context.Background(), "mod-1"))
	assert.Empty(t, (*reqs)[2].Auth)
}

func TestRemoteBackend_SaveProjectNewWritesTwoDocuments(t *testing.T) {
	srv, reqs := recordingServer(t, nil)
	b := NewRemoteBackend(srv.URL, "app-1")

	id, err := b.SaveProject(context.Background(), models.Project{Name: "Web", Color: "#fff", Initial: "W"},
		true, models.Identity{UID: "u-1"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Len(t, *reqs, 2)
	assert.Equal(t, http.MethodPut, (*reqs)[0].Method)
	assert.Equal(t, "/api/artifacts/app-1/public/data/projects/"+id, (*reqs)[0].Path)

	var p models.Project
	require.NoError(t, json.Unmarshal((*reqs)[0].Body, &p))
	assert.Equal(t, "u-1", p.Owner)

	assert.Equal(t, http.MethodPut, (*reqs)[1].Method)
	assert.Equal(t, "/api/artifacts/app-1/users/me/myProjects/"+id, (*reqs)[1].Path)

	var link models.Membership
	require.NoError(t, json.Unmarshal((*reqs)[1].Body, &link))
	assert.Equal(t, models.RoleOwner, link.Role)
	assert.Equal(t, id, link.ProjectID)
}

func TestRemoteBackend_SaveProjectUpdatePatchesFields(t *testing.T) {
	srv, reqs := recordingServer(t, nil)
	b := NewRemoteBackend(srv.URL, "app-1")

	_, err := b.SaveProject(context.Background(), models.Project{ID: "p-1", Name: "Renamed", Color: "#000", Initial: "R"},
		false, models.Identity{UID: "u-1"})
	require.NoError(t, err)

	require.Len(t, *reqs, 1)
	assert.Equal(t, http.MethodPatch, (*reqs)[0].Method)

	var patch map[string]any
	require.NoError(t, json.Unmarshal((*reqs)[0].Body, &patch))
	assert.Equal(t, "Renamed", patch["name"])
	// owner is never part of an update patch
	assert.NotContains(t, patch, "owner")
}

func TestRemoteBackend_SaveCaseStampsAuditAndAutomation(t *testing.T) {
	srv, reqs := recordingServer(t, nil)
	b := NewRemoteBackend(srv.URL, "app-1")

	by := models.Identity{UID: "u-1", DisplayName: "Alice"}
	id, err := b.SaveCase(context.Background(), models.TestCase{
		ProjectID: "p-1",
		Title:     "Login",
		Script:    "await page.goto('/');",
	}, true, by)
	require.NoError(t, err)

	var c models.TestCase
	require.NoError(t, json.Unmarshal((*reqs)[0].Body, &c))
	assert.Equal(t, id, c.ID)
	assert.True(t, c.HasAutomation)
	assert.Equal(t, models.StatusPending, c.Status)
	assert.Equal(t, "u-1", c.LastUpdatedBy)
	assert.Equal(t, "Alice", c.LastUpdatedByName)
	assert.NotZero(t, c.Timestamp)
}

func TestRemoteBackend_UpdateStatusSendsPatch(t *testing.T) {
	srv, reqs := recordingServer(t, nil)
	b := NewRemoteBackend(srv.URL, "app-1")

	err := b.UpdateStatus(context.Background(), "TC-1", models.StatusFailed, models.Identity{UID: "u-1"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, (*reqs)[0].Method)
	assert.Equal(t, "/api/artifacts/app-1/public/data/testCases/TC-1", (*reqs)[0].Path)

	var patch map[string]any
	require.NoError(t, json.Unmarshal((*reqs)[0].Body, &patch))
	assert.Equal(t, "Failed", patch["status"])
	assert.Equal(t, "u-1", patch["lastUpdatedBy"])
}

func TestRemoteBackend_BulkDeleteContinuesPastFailures(t *testing.T) {
	srv, reqs := recordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/artifacts/app-1/public/data/testCases/TC-2" {
			w.WriteHeader(http.StatusNotFound)
		}
	})
	b := NewRemoteBackend(srv.URL, "app-1")

	err := b.BulkDeleteCases(context.Background(), []string{"TC-1", "TC-2", "TC-3"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	// all three deletes were attempted
	assert.Len(t, *reqs, 3)
}

func TestRemoteBackend_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		code   int
		body   string
		verify func(t *testing.T, err error)
	}{
		{name: "401", code: http.StatusUnauthorized, verify: func(t *testing.T, err error) {
			assert.ErrorIs(t, err, common.ErrorUnauthorized)
		}},
		{name: "404", code: http.StatusNotFound, verify: func(t *testing.T, err error) {
			assert.ErrorIs(t, err, common.ErrorNotFound)
		}},
		{name: "500 with message", code: http.StatusInternalServerError, body: `{"error":"db down"}`,
			verify: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "db down")
			}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			}))
			t.Cleanup(srv.Close)

			b := NewRemoteBackend(srv.URL, "app-1")
			tt.verify(t, b.DeleteCase(context.Background(), "TC-1"))
		})
	}
}

// sseServer streams the given snapshot payloads as SSE events.
func sseServer(t *testing.T, snapshots <-chan string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		w.WriteHeader(http.StatusOK)
		flusher.Flush()
		for {
			select {
			case snap, open := <-snapshots:
				if !open {
					return
				}
				fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", snap)
				flusher.Flush()
			case <-r.Context().Done():
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSubscribeSSE_DeliversSnapshots(t *testing.T) {
	snapshots := make(chan string, 2)
	srv := sseServer(t, snapshots)
	b := NewRemoteBackend(srv.URL, "app-1")

	got := make(chan []models.Module, 2)
	cancel, err := subscribeSSE(context.Background(), b, srv.URL+"/stream", func(ms []models.Module) {
		got <- ms
	})
	require.NoError(t, err)
	defer cancel()

	snapshots <- `[{"id":"mod-1","projectId":"p-1","name":"Auth"}]`
	select {
	case ms := <-got:
		require.Len(t, ms, 1)
		assert.Equal(t, "Auth", ms[0].Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot received")
	}

	// whole-set replacement: an empty set arrives as an empty, non-nil slice
	snapshots <- `[]`
	select {
	case ms := <-got:
		assert.NotNil(t, ms)
		assert.Empty(t, ms)
	case <-time.After(2 * time.Second):
		t.Fatal("no empty snapshot received")
	}
}

func TestSubscribeSSE_CancelIsSynchronous(t *testing.T) {
	snapshots := make(chan string, 1)
	srv := sseServer(t, snapshots)
	b := NewRemoteBackend(srv.URL, "app-1")

	delivered := make(chan struct{}, 1)
	cancel, err := subscribeSSE(context.Background(), b, srv.URL+"/stream", func([]models.Module) {
		delivered <- struct{}{}
	})
	require.NoError(t, err)

	snapshots <- `[{"id":"mod-1"}]`
	select {
	case <-delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot received")
	}

	cancel()
	// after cancel returns, the callback never fires again
	snapshots <- `[{"id":"mod-2"}]`
	select {
	case <-delivered:
		t.Fatal("callback fired after cancel")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscribeSSE_UnauthorizedAtOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)
	b := NewRemoteBackend(srv.URL, "app-1")

	_, err := subscribeSSE(context.Background(), b, srv.URL+"/stream", func([]models.Module) {})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRemoteBackend_ScopedSubscribeAddsProjectQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	b := NewRemoteBackend(srv.URL, "app-1")

	cancel, err := b.SubscribeCases(context.Background(), "p-1", func([]models.TestCase) {})
	require.NoError(t, err)
	cancel()

	assert.Equal(t, "projectId=p-1", gotQuery)
}
