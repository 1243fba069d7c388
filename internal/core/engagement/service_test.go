package engagement

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SoulMinT05/threadsnet/internal/core/posts"
	"github.com/SoulMinT05/threadsnet/internal/core/users"
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

// setupBadger returns repositories over a fresh in-memory store
func setupBadger(t *testing.T) (posts.Repository, users.Repository) {
	t.Helper()
	db, err := badgerdb.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return badgerdb.NewPostRepository(db), badgerdb.NewUserRepository(db)
}

func seedPost(t *testing.T, repo posts.Repository, author string) *posts.Post {
	t.Helper()
	post := &posts.Post{PostedBy: author, TextComment: "hello"}
	require.NoError(t, repo.Create(context.Background(), post))
	return post
}

func TestToggleLike_TwiceRestoresMembership(t *testing.T) {
	repo, userRepo := setupBadger(t)
	service := NewEngagementService(repo, userRepo, nil)
	ctx := context.Background()
	post := seedPost(t, repo, "alice")

	updated, liked, err := service.ToggleLike(ctx, post.ID, "bob")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, []string{"bob"}, updated.Likes)

	updated, liked, err = service.ToggleLike(ctx, post.ID, "bob")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Empty(t, updated.Likes)
}

func TestToggleSave_IndependentOfLikes(t *testing.T) {
	repo, userRepo := setupBadger(t)
	service := NewEngagementService(repo, userRepo, nil)
	ctx := context.Background()
	post := seedPost(t, repo, "alice")

	_, _, err := service.ToggleLike(ctx, post.ID, "bob")
	require.NoError(t, err)

	updated, saved, err := service.ToggleSave(ctx, post.ID, "bob")
	require.NoError(t, err)
	assert.True(t, saved)
	assert.True(t, updated.SavedBy("bob"))
	assert.True(t, updated.LikedBy("bob"))
}

func TestToggleLike_ConcurrentActorsNoDuplicates(t *testing.T) {
	repo, userRepo := setupBadger(t)
	service := NewEngagementService(repo, userRepo, nil)
	ctx := context.Background()
	post := seedPost(t, repo, "alice")

	const actors = 10
	var wg sync.WaitGroup
	for i := 0; i < actors; i++ {
		actor := fmt.Sprintf("fan-%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := service.ToggleLike(ctx, post.ID, actor)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, got.Likes, actors)

	seen := make(map[string]bool)
	for _, id := range got.Likes {
		assert.False(t, seen[id], "duplicate like from %s", id)
		seen[id] = true
	}
}

func TestToggleLike_MissingPost(t *testing.T) {
	repo, userRepo := setupBadger(t)
	service := NewEngagementService(repo, userRepo, nil)

	_, _, err := service.ToggleLike(context.Background(), "missing", "bob")
	assert.ErrorIs(t, err, posts.ErrNotFound)
}

func TestToggleLike_StoreFailureIsWrapped(t *testing.T) {
	repo := new(mockPostRepository)
	service := NewEngagementService(repo, nil, nil)
	ctx := context.Background()

	repo.On("FindByIDAndUpdate", ctx, "p1", posts.Patch{
		Toggle: map[posts.SetField]string{posts.SetLikes: "bob"},
	}).Return(nil, errors.New("disk full"))

	_, _, err := service.ToggleLike(ctx, "p1", "bob")
	require.Error(t, err)
	assert.False(t, posts.IsNotFound(err))
	assert.Contains(t, err.Error(), "failed to toggle likes")
}

func TestToggle_RequiresActor(t *testing.T) {
	repo := new(mockPostRepository)
	service := NewEngagementService(repo, nil, nil)

	_, _, err := service.ToggleSave(context.Background(), "p1", "")
	assert.ErrorIs(t, err, posts.ErrNotAuthorized)
	repo.AssertNotCalled(t, "FindByIDAndUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddReply_SnapshotsAuthorProfile(t *testing.T) {
	repo, userRepo := setupBadger(t)
	service := NewEngagementService(repo, userRepo, nil)
	ctx := context.Background()
	post := seedPost(t, repo, "alice")

	require.NoError(t, userRepo.Upsert(ctx, &users.User{
		ID:          "bob",
		Username:    "bob",
		DisplayName: "Bob B",
		Avatar:      "https://cdn.example/bob.png",
	}))

	updated, err := service.AddReply(ctx, AddReplyRequest{
		PostID:      post.ID,
		ActorID:     "bob",
		TextComment: "nice",
	})
	require.NoError(t, err)
	require.Len(t, updated.Replies, 1)

	reply := updated.Replies[0]
	assert.NotEmpty(t, reply.ID)
	assert.Equal(t, "bob", reply.AuthorID)
	assert.Equal(t, "nice", reply.TextComment)
	assert.Equal(t, "Bob B", reply.AuthorDisplayName)
	assert.Equal(t, "https://cdn.example/bob.png", reply.AuthorAvatar)
	assert.False(t, reply.CreatedAt.IsZero())

	// Later profile edits do not rewrite the stored snapshot
	require.NoError(t, userRepo.Upsert(ctx, &users.User{ID: "bob", Username: "bob", DisplayName: "Robert"}))
	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob B", got.Replies[0].AuthorDisplayName)
}

func TestAddReply_KeepsInsertionOrder(t *testing.T) {
	repo, userRepo := setupBadger(t)
	service := NewEngagementService(repo, userRepo, nil)
	ctx := context.Background()
	post := seedPost(t, repo, "alice")

	for _, text := range []string{"first", "second", "third"} {
		_, err := service.AddReply(ctx, AddReplyRequest{
			PostID:            post.ID,
			ActorID:           "carol",
			TextComment:       text,
			AuthorDisplayName: "Carol",
		})
		require.NoError(t, err)
	}

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Replies, 3)
	assert.Equal(t, "first", got.Replies[0].TextComment)
	assert.Equal(t, "third", got.Replies[2].TextComment)
	assert.NotEqual(t, got.Replies[0].ID, got.Replies[1].ID)
}

func TestAddReply_Validation(t *testing.T) {
	repo := new(mockPostRepository)
	service := NewEngagementService(repo, nil, nil)

	_, err := service.AddReply(context.Background(), AddReplyRequest{PostID: "p1", ActorID: "bob"})

	var valErr *posts.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "textComment", valErr.Field)
	repo.AssertNotCalled(t, "FindByIDAndUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddReply_MissingPost(t *testing.T) {
	repo, userRepo := setupBadger(t)
	service := NewEngagementService(repo, userRepo, nil)

	_, err := service.AddReply(context.Background(), AddReplyRequest{
		PostID:      "missing",
		ActorID:     "bob",
		TextComment: "hello?",
	})
	assert.ErrorIs(t, err, posts.ErrNotFound)
}
