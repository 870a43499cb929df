package acceptor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satu-n/sprig/internal/dsl"
	"github.com/satu-n/sprig/internal/graph"
	"github.com/satu-n/sprig/internal/model"
	"github.com/satu-n/sprig/internal/repository"
)

type fakeUsers struct{ byName map[string]*model.User }

func (f fakeUsers) Find(ctx context.Context, id int64) (*model.User, error) { return nil, nil }
func (f fakeUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (f fakeUsers) FindByName(ctx context.Context, name string) (*model.User, error) {
	return f.byName[name], nil
}
func (f fakeUsers) Update(ctx context.Context, id int64, patch repository.UserPatch) error {
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
	byID    map[int64]*model.Task
	nextID  int64
	updated []int64
	inserts []repository.TaskPatch
}

func (f *fakeTasks) Find(ctx context.Context, id int64) (*model.Task, error) {
	return f.byID[id], nil
}
func (f *fakeTasks) Filter(ctx context.Context, owner int64, cond model.Condition) ([]model.Task, error) {
	return nil, nil
}
func (f *fakeTasks) Insert(ctx context.Context, owner int64, patch repository.TaskPatch) (int64, error) {
	f.nextID++
	f.inserts = append(f.inserts, patch)
	return f.nextID, nil
}
func (f *fakeTasks) Update(ctx context.Context, id int64, patch repository.TaskPatch) error {
	f.updated = append(f.updated, id)
	return nil
}

type fakeArrows struct{ inserted []model.Arrow }

func (f *fakeArrows) LoadAll(ctx context.Context, owner int64) ([]model.Arrow, error) {
	return nil, nil
}
func (f *fakeArrows) LoadAmong(ctx context.Context, ids []int64) ([]model.Arrow, error) {
	return nil, nil
}
func (f *fakeArrows) InsertMany(ctx context.Context, arrows []model.Arrow) error {
	f.inserted = append(f.inserted, arrows...)
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
	users       fakeUsers
	permissions fakePermissions
	invitations fakeInvitations
	tasks       *fakeTasks
	arrows      *fakeArrows
	allocations fakeAllocations
}

func (r *fakeRepo) Users() repository.Users             { return r.users }
func (r *fakeRepo) Permissions() repository.Permissions  { return r.permissions }
func (r *fakeRepo) Invitations() repository.Invitations  { return r.invitations }
func (r *fakeRepo) Tasks() repository.Tasks              { return r.tasks }
func (r *fakeRepo) Arrows() repository.Arrows            { return r.arrows }
func (r *fakeRepo) Allocations() repository.Allocations  { return r.allocations }

// WithTx has nothing to transact against in-memory: fn just runs against
// the same fake repo.
func (r *fakeRepo) WithTx(ctx context.Context, fn func(repository.Repository) error) error {
	return fn(r)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:       fakeUsers{byName: map[string]*model.User{}},
		permissions: fakePermissions{},
		invitations: fakeInvitations{},
		tasks:       &fakeTasks{byID: map[int64]*model.Task{}},
		arrows:      &fakeArrows{},
		allocations: fakeAllocations{},
	}
}

func TestDissembleIndentAndLink(t *testing.T) {
	input := "jump https://jump\n    step\n    http://step"
	req, perr := dsl.Parse(input)
	require.Nil(t, perr)

	arrows := Dissemble(req.Tasks)
	require.Len(t, arrows, 1)
	assert.Equal(t, graph.Arrow{Source: 1, Target: 0}, arrows[0])
}

func TestAcceptRejectsCycle(t *testing.T) {
	// Dissemble only ever targets a strictly prior index (indent: the
	// nearest shallower task; joint: some earlier tail), so its output
	// can never itself cycle — a cycle can only arise once task ids from
	// more than one batch are linked together. rejectCycle is exercised
	// directly here against a hand-built, genuinely cyclic graph.Arrows,
	// bypassing Dissemble, to cover the Acceptor's cycle-rejection wiring.
	arrows := graph.New([]graph.Arrow{
		{Source: 1, Target: 2},
		{Source: 2, Target: 3},
		{Source: 3, Target: 1},
	})

	err := rejectCycle(arrows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loop found")
}

func TestAcceptSimpleBatch(t *testing.T) {
	repo := newFakeRepo()
	user := model.User{ID: 1, TZ: "UTC"}

	req, perr := dsl.Parse("buy milk")
	require.Nil(t, perr)

	up, err := Accept(context.Background(), req.Tasks, user, repo)
	require.NoError(t, err)
	require.Len(t, up.Tasks, 1)
	assert.Equal(t, "buy milk", up.Tasks[0].Title)
	assert.Equal(t, int64(1), up.Tasks[0].Assign)

	created, updated, err := up.Upsert(context.Background(), repo, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 0, updated)
}
