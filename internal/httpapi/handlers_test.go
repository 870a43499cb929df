package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satu-n/sprig/internal/middleware"
	"github.com/satu-n/sprig/internal/model"
	"github.com/satu-n/sprig/internal/repository"
)

type fakeUsers struct{ byID map[int64]*model.User }

func (f *fakeUsers) Find(ctx context.Context, id int64) (*model.User, error) { return f.byID[id], nil }
func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUsers) FindByName(ctx context.Context, name string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUsers) Update(ctx context.Context, id int64, patch repository.UserPatch) error {
	u := f.byID[id]
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Hash != nil {
		u.Hash = *patch.Hash
	}
	if patch.Timescale != nil {
		u.Timescale = *patch.Timescale
	}
	return nil
}

type fakePermissions struct{}

func (fakePermissions) Exists(ctx context.Context, subject, object int64, edit bool) (bool, error) {
	return true, nil
}
func (fakePermissions) Insert(ctx context.Context, subject, object int64, edit bool) error {
	return nil
}

type fakeInvitations struct{}

func (fakeInvitations) Find(ctx context.Context, token string) (*model.Invitation, error) {
	return nil, nil
}
func (fakeInvitations) Insert(ctx context.Context, inv model.Invitation) error { return nil }

type fakeTasks struct {
	byID   map[int64]*model.Task
	nextID int64
}

func (f *fakeTasks) Find(ctx context.Context, id int64) (*model.Task, error) { return f.byID[id], nil }
func (f *fakeTasks) Filter(ctx context.Context, owner int64, cond model.Condition) ([]model.Task, error) {
	var out []model.Task
	for _, t := range f.byID {
		if t.Assign != owner {
			continue
		}
		if cond.Archived != nil && t.IsArchived != *cond.Archived {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}
func (f *fakeTasks) Insert(ctx context.Context, owner int64, patch repository.TaskPatch) (int64, error) {
	f.nextID++
	f.byID[f.nextID] = &model.Task{
		ID: f.nextID, Title: patch.Title, Assign: patch.Assign,
		Startable: patch.Startable, Deadline: patch.Deadline, Weight: patch.Weight, Link: patch.Link,
	}
	return f.nextID, nil
}
func (f *fakeTasks) Update(ctx context.Context, id int64, patch repository.TaskPatch) error {
	t := f.byID[id]
	t.Title = patch.Title
	t.IsArchived = patch.IsArchived
	t.IsStarred = patch.IsStarred
	return nil
}

type fakeArrows struct{ all []model.Arrow }

func (f *fakeArrows) LoadAll(ctx context.Context, owner int64) ([]model.Arrow, error) { return f.all, nil }
func (f *fakeArrows) LoadAmong(ctx context.Context, ids []int64) ([]model.Arrow, error) {
	return f.all, nil
}
func (f *fakeArrows) InsertMany(ctx context.Context, arrows []model.Arrow) error {
	f.all = append(f.all, arrows...)
	return nil
}

type fakeAllocations struct{}

func (fakeAllocations) Filter(ctx context.Context, owner int64) ([]model.Allocation, error) {
	return nil, nil
}
func (fakeAllocations) DeleteByOwner(ctx context.Context, owner int64) error { return nil }
func (fakeAllocations) InsertMany(ctx context.Context, allocs []model.Allocation) error {
	return nil
}

type fakeRepo struct {
	users       *fakeUsers
	permissions fakePermissions
	invitations fakeInvitations
	tasks       *fakeTasks
	arrows      *fakeArrows
	allocations fakeAllocations
}

func (r *fakeRepo) Users() repository.Users            { return r.users }
func (r *fakeRepo) Permissions() repository.Permissions { return r.permissions }
func (r *fakeRepo) Invitations() repository.Invitations { return r.invitations }
func (r *fakeRepo) Tasks() repository.Tasks             { return r.tasks }
func (r *fakeRepo) Arrows() repository.Arrows           { return r.arrows }
func (r *fakeRepo) Allocations() repository.Allocations { return r.allocations }

// WithTx has nothing to transact against in-memory: fn just runs against
// the same fake repo.
func (r *fakeRepo) WithTx(ctx context.Context, fn func(repository.Repository) error) error {
	return fn(r)
}

func newFakeRepo(user *model.User) *fakeRepo {
	return &fakeRepo{
		users:       &fakeUsers{byID: map[int64]*model.User{user.ID: user}},
		permissions: fakePermissions{},
		invitations: fakeInvitations{},
		tasks:       &fakeTasks{byID: map[int64]*model.Task{}},
		arrows:      &fakeArrows{},
		allocations: fakeAllocations{},
	}
}

const testSecret = "test-secret"

func newTestApp(h *Handlers) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Use(middleware.Auth(middleware.AuthConfig{JWTSecret: testSecret}))
	app.Post("/api/text", h.PostText)
	app.Get("/api/home", h.GetHome)
	return app
}

func authedRequest(method, path string, body []byte, userID int64) *http.Request {
	tok, _ := middleware.IssueToken(userID, "UTC", testSecret, time.Hour)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestPostTextCreatesTask(t *testing.T) {
	user := &model.User{ID: 1, Name: "alice", TZ: "UTC"}
	repo := newFakeRepo(user)
	h := &Handlers{Repo: repo}
	app := newTestApp(h)

	body, _ := json.Marshal(textRequest{Text: "buy milk"})
	resp, err := app.Test(authedRequest(http.MethodPost, "/api/text", body, user.ID))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, repo.tasks.byID, 1)
}

func TestPostTextRejectsMalformedBatch(t *testing.T) {
	user := &model.User{ID: 1, Name: "alice", TZ: "UTC"}
	repo := newFakeRepo(user)
	h := &Handlers{Repo: repo}
	app := newTestApp(h)

	// three leading spaces is not a multiple of four: rejected indent.
	body, _ := json.Marshal(textRequest{Text: "a\n   b"})
	resp, err := app.Test(authedRequest(http.MethodPost, "/api/text", body, user.ID))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPostTextUserRename(t *testing.T) {
	user := &model.User{ID: 1, Name: "alice", TZ: "UTC"}
	repo := newFakeRepo(user)
	h := &Handlers{Repo: repo}
	app := newTestApp(h)

	body, _ := json.Marshal(textRequest{Text: "/u -n bob"})
	resp, err := app.Test(authedRequest(http.MethodPost, "/api/text", body, user.ID))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "bob", user.Name)
}

func TestGetHomeReturnsScheduledTasks(t *testing.T) {
	user := &model.User{ID: 1, Name: "alice", TZ: "UTC"}
	repo := newFakeRepo(user)
	repo.tasks.byID[1] = &model.Task{ID: 1, Title: "t", Assign: user.ID}
	h := &Handlers{Repo: repo}
	app := newTestApp(h)

	req := authedRequest(http.MethodGet, "/api/home", nil, user.ID)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPostTextUnauthorizedWithoutToken(t *testing.T) {
	user := &model.User{ID: 1, Name: "alice", TZ: "UTC"}
	repo := newFakeRepo(user)
	h := &Handlers{Repo: repo}
	app := newTestApp(h)

	req := httptest.NewRequest(http.MethodPost, "/api/text", bytes.NewReader(nil))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
