package posts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		patch   Patch
		wantErr bool
	}{
		{name: "empty", patch: Patch{}, wantErr: true},
		{name: "view increment", patch: Patch{Inc: map[Counter]int{CounterViews: 1}}},
		{name: "unknown counter", patch: Patch{Inc: map[Counter]int{"karma": 1}}, wantErr: true},
		{name: "negative delta", patch: Patch{Inc: map[Counter]int{CounterViews: -1}}, wantErr: true},
		{name: "toggle like", patch: Patch{Toggle: map[SetField]string{SetLikes: "alice"}}},
		{name: "unknown set", patch: Patch{AddToSet: map[SetField]string{"followers": "alice"}}, wantErr: true},
		{name: "empty member", patch: Patch{Pull: map[SetField]string{SetLikes: ""}}, wantErr: true},
		{
			name: "same set twice",
			patch: Patch{
				AddToSet: map[SetField]string{SetLikes: "alice"},
				Pull:     map[SetField]string{SetLikes: "bob"},
			},
			wantErr: true,
		},
		{
			name: "different sets",
			patch: Patch{
				AddToSet: map[SetField]string{SetLikes: "alice"},
				Pull:     map[SetField]string{SetSavedLists: "alice"},
			},
		},
		{name: "push only", patch: Patch{Push: []Reply{{ID: "r1"}}}},
		{name: "set only", patch: Patch{Set: Fields{TextComment: strPtr("x")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPatch)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPatch_Apply_SetOperationsAreIdempotent(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	post := &Post{ID: "p1"}
	post.PrepareForCreate(now.Add(-time.Hour))

	add := Patch{AddToSet: map[SetField]string{SetLikes: "alice"}}
	add.Apply(post, now)
	add.Apply(post, now)
	assert.Equal(t, []string{"alice"}, post.Likes)

	pull := Patch{Pull: map[SetField]string{SetLikes: "alice"}}
	pull.Apply(post, now)
	pull.Apply(post, now)
	assert.Empty(t, post.Likes)
	assert.NotNil(t, post.Likes)
}

func TestPatch_Apply_ToggleTwiceRestoresState(t *testing.T) {
	now := time.Now().UTC()
	post := &Post{ID: "p1", SavedLists: []string{"bob"}}

	toggle := Patch{Toggle: map[SetField]string{SetSavedLists: "alice"}}
	toggle.Apply(post, now)
	assert.True(t, post.SavedBy("alice"))
	assert.True(t, post.SavedBy("bob"))

	toggle.Apply(post, now)
	assert.False(t, post.SavedBy("alice"))
	assert.Equal(t, []string{"bob"}, post.SavedLists)
}

func TestPatch_Apply_CountersAndTimestamps(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := created.Add(time.Minute)
	post := &Post{ID: "p1"}
	post.PrepareForCreate(created)

	Patch{Inc: map[Counter]int{CounterViews: 1}}.Apply(post, later)
	assert.Equal(t, 1, post.NumberViews)
	assert.Equal(t, later, post.UpdatedAt)

	Patch{Inc: map[Counter]int{CounterReposts: 2}, SkipTimestamps: true}.Apply(post, later.Add(time.Hour))
	assert.Equal(t, 2, post.NumberViewsRepost)
	assert.Equal(t, later, post.UpdatedAt)
	assert.Equal(t, created, post.CreatedAt)
}

func TestPatch_Apply_PushKeepsOrder(t *testing.T) {
	post := &Post{ID: "p1"}
	now := time.Now().UTC()

	Patch{Push: []Reply{{ID: "r1"}}}.Apply(post, now)
	Patch{Push: []Reply{{ID: "r2"}}}.Apply(post, now)

	require.Len(t, post.Replies, 2)
	assert.Equal(t, "r1", post.Replies[0].ID)
	assert.Equal(t, "r2", post.Replies[1].ID)
}

func TestPrepareForCreate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	post := &Post{PostedBy: "alice", TextComment: "hi"}
	post.PrepareForCreate(now)

	assert.NotEmpty(t, post.ID)
	assert.Equal(t, now, post.CreatedAt)
	assert.Equal(t, now, post.UpdatedAt)
	assert.NotNil(t, post.Likes)
	assert.NotNil(t, post.SavedLists)
	assert.NotNil(t, post.Replies)
}

func TestQuery_MatchesAndSort(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := &Post{ID: "a", PostedBy: "alice", CreatedAt: base}
	b := &Post{ID: "b", PostedBy: "bob", CreatedAt: base}
	c := &Post{ID: "c", PostedBy: "alice", CreatedAt: base.Add(time.Second), OriginalPost: strPtr("a")}

	assert.True(t, Query{}.Matches(a))
	assert.False(t, Query{AuthorIDs: []string{}}.Matches(a))
	assert.False(t, Query{AuthorIDs: []string{"alice"}}.Matches(b))
	assert.False(t, Query{OnlyReposts: true}.Matches(a))
	assert.True(t, Query{OnlyReposts: true}.Matches(c))

	list := []*Post{a, b, c}
	SortPosts(list, SortNewestFirst)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.Equal(t, "a", list[2].ID)
}
