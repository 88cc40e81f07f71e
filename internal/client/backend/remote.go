package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/zentesthq/zentest/internal/common"
	"github.com/zentesthq/zentest/internal/models"
)

// Collection names under the public data root. The path shape is the fixed
// four-segment root artifacts/{appId}/public/data plus the collection name;
// membership links live under the per-identity root
// artifacts/{appId}/users/me/myProjects.
const (
	CollectionProjects     = "projects"
	CollectionModules      = "modules"
	CollectionTestCases    = "testCases"
	CollectionAPITestCases = "apiTestCases"
)

// RemoteBackend performs writes against the sync server and receives data
// through SSE live queries. Writes are fire-and-forget from the store's
// perspective: no optimistic local mutation is applied, so the canonical
// state reflects a write only when the next snapshot arrives.
type RemoteBackend struct {
	baseURL string
	appID   string
	token   string
	http    *http.Client
}

var _ Backend = (*RemoteBackend)(nil)

// NewRemoteBackend returns a backend for the given server endpoint and app
// id. The access token is set after sign-in via SetToken.
func NewRemoteBackend(baseURL, appID string) *RemoteBackend {
	return &RemoteBackend{
		baseURL: baseURL,
		appID:   appID,
		http:    &http.Client{},
	}
}

// SetToken installs the access token attached to every request.
func (b *RemoteBackend) SetToken(token string) { b.token = token }

func (b *RemoteBackend) publicURL(collection string, parts ...string) string {
	url := fmt.Sprintf("%s/api/artifacts/%s/public/data/%s", b.baseURL, b.appID, collection)
	for _, p := range parts {
		url += "/" + p
	}
	return url
}

func (b *RemoteBackend) myProjectsURL(parts ...string) string {
	url := fmt.Sprintf("%s/api/artifacts/%s/users/me/myProjects", b.baseURL, b.appID)
	for _, p := range parts {
		url += "/" + p
	}
	return url
}

func (b *RemoteBackend) do(ctx context.Context, method, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.token != "" {
		req.Header.Set(common.AccessTokenHeaderName, "Bearer "+b.token)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return common.ErrorUnauthorized
	}
	if resp.StatusCode == http.StatusNotFound {
		return common.ErrorNotFound
	}
	if resp.StatusCode >= 400 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return fmt.Errorf("server: %s", e.Error)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// --- auth ---

type authResponse struct {
	Token string          `json:"token"`
	User  models.Identity `json:"user"`
}

// Register creates an account and signs in.
func (b *RemoteBackend) Register(ctx context.Context, login, password, displayName string) (models.Identity, error) {
	var resp authResponse
	err := b.do(ctx, http.MethodPost, b.baseURL+"/api/auth/register", map[string]string{
		"login":       login,
		"password":    password,
		"displayName": displayName,
	}, &resp)
	if err != nil {
		return models.Identity{}, err
	}
	b.token = resp.Token
	return resp.User, nil
}

// Login exchanges credentials for an access token.
func (b *RemoteBackend) Login(ctx context.Context, login, password string) (models.Identity, error) {
	var resp authResponse
	err := b.do(ctx, http.MethodPost, b.baseURL+"/api/auth/login", map[string]string{
		"login":    login,
		"password": password,
	}, &resp)
	if err != nil {
		return models.Identity{}, err
	}
	b.token = resp.Token
	return resp.User, nil
}

// Logout drops the access token. The server keeps no session state.
func (b *RemoteBackend) Logout() { b.token = "" }

// --- projects ---

func (b *RemoteBackend) SaveProject(ctx context.Context, p models.Project, isNew bool, by models.Identity) (string, error) {
	if isNew {
		p.ID = uuid.NewString()
		p.Owner = by.UID
		if err := b.do(ctx, http.MethodPut, b.publicURL(CollectionProjects, p.ID), p, nil); err != nil {
			return "", err
		}
		// Second, independent write: the owner's membership link. There is
		// no transaction spanning the two documents.
		link := models.Membership{ProjectID: p.ID, JoinedAt: time.Now().UnixMilli(), Role: models.RoleOwner}
		if err := b.do(ctx, http.MethodPut, b.myProjectsURL(p.ID), link, nil); err != nil {
			return "", err
		}
		return p.ID, nil
	}
	patch := map[string]any{"name": p.Name, "color": p.Color, "initial": p.Initial}
	return p.ID, b.do(ctx, http.MethodPatch, b.publicURL(CollectionProjects, p.ID), patch, nil)
}

// DeleteProject removes only the project document. Modules and cases are
// left orphaned; cascading cleanup is explicitly out of scope.
func (b *RemoteBackend) DeleteProject(ctx context.Context, id string) error {
	return b.do(ctx, http.MethodDelete, b.publicURL(CollectionProjects, id), nil, nil)
}

func (b *RemoteBackend) JoinProject(ctx context.Context, projectID string, by models.Identity) error {
	link := models.Membership{ProjectID: projectID, JoinedAt: time.Now().UnixMilli(), Role: models.RoleMember}
	return b.do(ctx, http.MethodPut, b.myProjectsURL(projectID), link, nil)
}

func (b *RemoteBackend) LeaveProject(ctx context.Context, projectID string, by models.Identity) error {
	return b.do(ctx, http.MethodDelete, b.myProjectsURL(projectID), nil, nil)
}

// --- modules ---

func (b *RemoteBackend) AddModule(ctx context.Context, projectID, name string) error {
	m := models.Module{ID: "mod-" + uuid.NewString()[:8], ProjectID: projectID, Name: name}
	return b.do(ctx, http.MethodPut, b.publicURL(CollectionModules, m.ID), m, nil)
}

func (b *RemoteBackend) RenameModule(ctx context.Context, id, name string) error {
	return b.do(ctx, http.MethodPatch, b.publicURL(CollectionModules, id), map[string]any{"name": name}, nil)
}

func (b *RemoteBackend) DeleteModule(ctx context.Context, id string) error {
	return b.do(ctx, http.MethodDelete, b.publicURL(CollectionModules, id), nil, nil)
}

// --- functional cases ---

func (b *RemoteBackend) SaveCase(ctx context.Context, c models.TestCase, isNew bool, by models.Identity) (string, error) {
	c.RecomputeAutomation()
	c.Timestamp = time.Now().UnixMilli()
	c.LastUpdatedBy = by.UID
	c.LastUpdatedByName = by.AuditName()
	if isNew {
		c.ID = models.NewCaseID()
		if c.Status == "" {
			c.Status = models.StatusPending
		}
	}
	return c.ID, b.do(ctx, http.MethodPut, b.publicURL(CollectionTestCases, c.ID), c, nil)
}

func (b *RemoteBackend) DeleteCase(ctx context.Context, id string) error {
	return b.do(ctx, http.MethodDelete, b.publicURL(CollectionTestCases, id), nil, nil)
}

// BulkDeleteCases issues one delete per id. A failure does not stop the
// remaining deletes; the first error is reported after the batch finishes.
func (b *RemoteBackend) BulkDeleteCases(ctx context.Context, ids []string) error {
	var firstErr error
	for _, id := range ids {
		if err := b.DeleteCase(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (b *RemoteBackend) statusPatch(status models.Status, by models.Identity) map[string]any {
	return map[string]any{
		"status":            status,
		"lastUpdatedBy":     by.UID,
		"lastUpdatedByName": by.AuditName(),
		"timestamp":         time.Now().UnixMilli(),
	}
}

func (b *RemoteBackend) UpdateStatus(ctx context.Context, id string, status models.Status, by models.Identity) error {
	return b.do(ctx, http.MethodPatch, b.publicURL(CollectionTestCases, id), b.statusPatch(status, by), nil)
}

// --- API cases ---

func (b *RemoteBackend) SaveAPICase(ctx context.Context, c models.APITestCase, isNew bool, by models.Identity) (string, error) {
	c.Timestamp = time.Now().UnixMilli()
	c.LastUpdatedBy = by.UID
	c.LastUpdatedByName = by.AuditName()
	if isNew {
		c.ID = models.NewAPICaseID()
		if c.Status == "" {
			c.Status = models.StatusPending
		}
	}
	return c.ID, b.do(ctx, http.MethodPut, b.publicURL(CollectionAPITestCases, c.ID), c, nil)
}

func (b *RemoteBackend) DeleteAPICase(ctx context.Context, id string) error {
	return b.do(ctx, http.MethodDelete, b.publicURL(CollectionAPITestCases, id), nil, nil)
}

func (b *RemoteBackend) UpdateAPIStatus(ctx context.Context, id string, status models.Status, by models.Identity) error {
	return b.do(ctx, http.MethodPatch, b.publicURL(CollectionAPITestCases, id), b.statusPatch(status, by), nil)
}

// --- live queries ---

func (b *RemoteBackend) SubscribeMemberships(ctx context.Context, uid string, fn MembershipsFunc) (CancelFunc, error) {
	return subscribeSSE(ctx, b, b.myProjectsURL("subscribe"), fn)
}

func (b *RemoteBackend) SubscribeProjects(ctx context.Context, fn ProjectsFunc) (CancelFunc, error) {
	return subscribeSSE(ctx, b, b.publicURL(CollectionProjects, "subscribe"), fn)
}

func (b *RemoteBackend) SubscribeModules(ctx context.Context, projectID string, fn ModulesFunc) (CancelFunc, error) {
	return subscribeSSE(ctx, b, b.publicURL(CollectionModules, "subscribe")+"?projectId="+projectID, fn)
}

func (b *RemoteBackend) SubscribeCases(ctx context.Context, projectID string, fn CasesFunc) (CancelFunc, error) {
	return subscribeSSE(ctx, b, b.publicURL(CollectionTestCases, "subscribe")+"?projectId="+projectID, fn)
}

func (b *RemoteBackend) SubscribeAPICases(ctx context.Context, projectID string, fn APICasesFunc) (CancelFunc, error) {
	return subscribeSSE(ctx, b, b.publicURL(CollectionAPITestCases, "subscribe")+"?projectId="+projectID, fn)
}
