package reposts

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SoulMinT05/threadsnet/internal/core/posts"
	"github.com/SoulMinT05/threadsnet/internal/db/badgerdb"
)

type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Create(ctx context.Context, post *posts.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepository) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.Post), args.Error(1)
}

func (m *mockPostRepository) FindByIDAndUpdate(ctx context.Context, id string, patch posts.Patch) (*posts.Post, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.Post), args.Error(1)
}

func (m *mockPostRepository) FindByIDAndDelete(ctx context.Context, id string) (*posts.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*posts.Post), args.Error(1)
}

func (m *mockPostRepository) Find(ctx context.Context, q posts.Query) ([]*posts.Post, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*posts.Post), args.Error(1)
}

func (m *mockPostRepository) WithinTx(ctx context.Context, fn func(ctx context.Context, repo posts.Repository) error) error {
	return fn(ctx, m)
}

func setupRepo(t *testing.T) posts.Repository {
	t.Helper()
	db, err := badgerdb.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return badgerdb.NewPostRepository(db)
}

// seedEngagedPost stores a post with likes, saves, replies and views
func seedEngagedPost(t *testing.T, repo posts.Repository) *posts.Post {
	t.Helper()
	ctx := context.Background()
	image := "https://cdn.example/cat.png"
	post := &posts.Post{PostedBy: "alice", TextComment: "original text", Image: &image}
	require.NoError(t, repo.Create(ctx, post))

	_, err := repo.FindByIDAndUpdate(ctx, post.ID, posts.Patch{
		Inc:      map[posts.Counter]int{posts.CounterViews: 3},
		AddToSet: map[posts.SetField]string{posts.SetLikes: "bob"},
		Toggle:   map[posts.SetField]string{posts.SetSavedLists: "carol"},
		Push:     []posts.Reply{{ID: "r1", AuthorID: "bob", TextComment: "first!"}},
	})
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	return stored
}

func TestRepost_CopiesSnapshot(t *testing.T) {
	repo := setupRepo(t)
	service := NewRepostService(repo, nil)
	ctx := context.Background()
	original := seedEngagedPost(t, repo)

	repost, err := service.Repost(ctx, original.ID, "dave")
	require.NoError(t, err)

	assert.NotEqual(t, original.ID, repost.ID)
	assert.Equal(t, "dave", repost.PostedBy)
	require.NotNil(t, repost.OriginalPost)
	assert.Equal(t, original.ID, *repost.OriginalPost)
	require.NotNil(t, repost.LastRepostedAt)
	assert.Zero(t, repost.NumberViewsRepost)

	// Content and engagement match the original at repost time
	diff := cmp.Diff(original, repost,
		cmpopts.IgnoreFields(posts.Post{},
			"ID", "PostedBy", "OriginalPost", "LastRepostedAt", "CreatedAt", "UpdatedAt"),
		cmpopts.EquateEmpty(),
	)
	assert.Empty(t, diff)
}

func TestRepost_SnapshotIsolation(t *testing.T) {
	repo := setupRepo(t)
	service := NewRepostService(repo, nil)
	ctx := context.Background()
	original := seedEngagedPost(t, repo)

	repost, err := service.Repost(ctx, original.ID, "dave")
	require.NoError(t, err)

	// Engagement on the original does not leak into the repost
	_, err = repo.FindByIDAndUpdate(ctx, original.ID, posts.Patch{
		Toggle: map[posts.SetField]string{posts.SetLikes: "erin"},
		Push:   []posts.Reply{{ID: "r2", AuthorID: "erin", TextComment: "late"}},
	})
	require.NoError(t, err)

	storedRepost, err := repo.GetByID(ctx, repost.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, storedRepost.Likes)
	assert.Len(t, storedRepost.Replies, 1)

	// And the other way round
	_, err = repo.FindByIDAndUpdate(ctx, repost.ID, posts.Patch{
		Pull: map[posts.SetField]string{posts.SetLikes: "bob"},
		Set:  posts.Fields{TextComment: ptr("edited copy")},
	})
	require.NoError(t, err)

	storedOriginal, err := repo.GetByID(ctx, original.ID)
	require.NoError(t, err)
	assert.True(t, storedOriginal.LikedBy("bob"))
	assert.Equal(t, "original text", storedOriginal.TextComment)
}

func TestRepost_BumpsCounterWithoutTouchingUpdatedAt(t *testing.T) {
	repo := setupRepo(t)
	service := NewRepostService(repo, nil)
	ctx := context.Background()
	original := seedEngagedPost(t, repo)

	_, err := service.Repost(ctx, original.ID, "dave")
	require.NoError(t, err)
	_, err = service.Repost(ctx, original.ID, "erin")
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.NumberViewsRepost)
	assert.True(t, original.UpdatedAt.Equal(stored.UpdatedAt))
}

func TestRepost_DeletedOriginal(t *testing.T) {
	repo := setupRepo(t)
	service := NewRepostService(repo, nil)
	ctx := context.Background()
	original := seedEngagedPost(t, repo)

	_, err := repo.FindByIDAndDelete(ctx, original.ID)
	require.NoError(t, err)

	_, err = service.Repost(ctx, original.ID, "dave")
	assert.ErrorIs(t, err, posts.ErrNotFound)

	reposts, err := repo.Find(ctx, posts.Query{OnlyReposts: true})
	require.NoError(t, err)
	assert.Empty(t, reposts)
}

func TestRepost_DeletingOriginalKeepsRepost(t *testing.T) {
	repo := setupRepo(t)
	service := NewRepostService(repo, nil)
	ctx := context.Background()
	original := seedEngagedPost(t, repo)

	repost, err := service.Repost(ctx, original.ID, "dave")
	require.NoError(t, err)

	_, err = repo.FindByIDAndDelete(ctx, original.ID)
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, repost.ID)
	require.NoError(t, err)
	assert.Equal(t, original.ID, *stored.OriginalPost)
	assert.Equal(t, "original text", stored.TextComment)
}

func TestRepost_CounterFailureIsWrapped(t *testing.T) {
	repo := new(mockPostRepository)
	service := NewRepostService(repo, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, "p1").Return(&posts.Post{ID: "p1", PostedBy: "alice", TextComment: "t"}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*posts.Post")).Return(nil)
	repo.On("FindByIDAndUpdate", ctx, "p1", mock.Anything).Return(nil, errors.New("timeout"))

	_, err := service.Repost(ctx, "p1", "bob")
	require.Error(t, err)
	assert.False(t, posts.IsNotFound(err))
	assert.Contains(t, err.Error(), "failed to count repost")
}

func TestRepairRepostCounters(t *testing.T) {
	repo := setupRepo(t)
	service := NewRepostService(repo, nil)
	ctx := context.Background()
	original := seedEngagedPost(t, repo)
	dangling := "deleted-post"

	// Two reposts written without their counter bump, plus one whose
	// original no longer exists
	for _, actor := range []string{"dave", "erin"} {
		id := original.ID
		require.NoError(t, repo.Create(ctx, &posts.Post{PostedBy: actor, TextComment: "copy", OriginalPost: &id}))
	}
	require.NoError(t, repo.Create(ctx, &posts.Post{PostedBy: "frank", TextComment: "orphan", OriginalPost: &dangling}))

	adjusted, err := service.RepairRepostCounters(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, adjusted)

	stored, err := repo.GetByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.NumberViewsRepost)
	assert.True(t, original.UpdatedAt.Equal(stored.UpdatedAt))

	// A second pass finds nothing to do
	adjusted, err = service.RepairRepostCounters(ctx)
	require.NoError(t, err)
	assert.Zero(t, adjusted)
}

func TestRepairRepostCounters_NeverLowers(t *testing.T) {
	repo := setupRepo(t)
	service := NewRepostService(repo, nil)
	ctx := context.Background()
	original := seedEngagedPost(t, repo)

	_, err := repo.FindByIDAndUpdate(ctx, original.ID, posts.Patch{
		Inc:            map[posts.Counter]int{posts.CounterReposts: 5},
		SkipTimestamps: true,
	})
	require.NoError(t, err)

	id := original.ID
	require.NoError(t, repo.Create(ctx, &posts.Post{PostedBy: "dave", TextComment: "copy", OriginalPost: &id}))

	adjusted, err := service.RepairRepostCounters(ctx)
	require.NoError(t, err)
	assert.Zero(t, adjusted)

	stored, err := repo.GetByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.NumberViewsRepost)
}

func ptr(s string) *string {
	return &s
}
