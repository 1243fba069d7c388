package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/SoulMinT05/threadsnet/internal/core/posts"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type postgresPostRepo struct {
	db  *sql.DB
	q   querier
	now func() time.Time
	// inTx is set on repositories handed out by WithinTx
	inTx bool
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{
		db:  db,
		q:   db,
		now: dbNow,
	}
}

// dbNow matches the microsecond precision of TIMESTAMPTZ so returned posts
// compare equal to what a later read yields
func dbNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

const postColumns = `
	id, posted_by, text_comment, image,
	number_views, number_views_repost, likes, saved_lists, replies,
	original_post, last_reposted_at, created_at, updated_at
`

var counterColumns = map[posts.Counter]string{
	posts.CounterViews:   "number_views",
	posts.CounterReposts: "number_views_repost",
}

var setColumns = map[posts.SetField]string{
	posts.SetLikes:      "likes",
	posts.SetSavedLists: "saved_lists",
}

// Create inserts a new post into the posts table
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	post.PrepareForCreate(r.now())

	repliesJSON, err := json.Marshal(post.Replies)
	if err != nil {
		return fmt.Errorf("failed to marshal replies: %w", err)
	}

	query := `
		INSERT INTO posts (
			id, posted_by, text_comment, image,
			number_views, number_views_repost, likes, saved_lists, replies,
			original_post, last_reposted_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, $11, $12, $13
		)
	`

	_, err = r.q.ExecContext(
		ctx, query,
		post.ID, post.PostedBy, post.TextComment, nullString(post.Image),
		post.NumberViews, post.NumberViewsRepost, pq.Array(post.Likes), pq.Array(post.SavedLists), string(repliesJSON),
		nullString(post.OriginalPost), nullTime(post.LastRepostedAt), post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("post already exists: %s", post.ID)
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by ID
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return post, nil
}

// FindByIDAndUpdate translates the patch into one UPDATE ... RETURNING.
// The row lock taken by UPDATE makes toggles and increments atomic.
func (r *postgresPostRepo) FindByIDAndUpdate(ctx context.Context, id string, patch posts.Patch) (*posts.Post, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	args := []interface{}{id}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	var sets []string
	if patch.Set.TextComment != nil {
		sets = append(sets, "text_comment = "+arg(*patch.Set.TextComment))
	}
	if patch.Set.Image != nil {
		sets = append(sets, "image = "+arg(*patch.Set.Image))
	}

	for counter, delta := range patch.Inc {
		col := counterColumns[counter]
		sets = append(sets, fmt.Sprintf("%s = %s + %s", col, col, arg(delta)))
	}

	for field, member := range patch.AddToSet {
		col, p := setColumns[field], arg(member)
		sets = append(sets, fmt.Sprintf(
			"%s = CASE WHEN %s::text = ANY(%s) THEN %s ELSE array_append(%s, %s::text) END",
			col, p, col, col, col, p))
	}
	for field, member := range patch.Pull {
		col := setColumns[field]
		sets = append(sets, fmt.Sprintf("%s = array_remove(%s, %s::text)", col, col, arg(member)))
	}
	for field, member := range patch.Toggle {
		col, p := setColumns[field], arg(member)
		sets = append(sets, fmt.Sprintf(
			"%s = CASE WHEN %s::text = ANY(%s) THEN array_remove(%s, %s::text) ELSE array_append(%s, %s::text) END",
			col, p, col, col, p, col, p))
	}

	if len(patch.Push) > 0 {
		pushJSON, err := json.Marshal(patch.Push)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal replies: %w", err)
		}
		sets = append(sets, "replies = replies || "+arg(string(pushJSON))+"::jsonb")
	}

	if !patch.SkipTimestamps {
		sets = append(sets, "updated_at = "+arg(r.now()))
	}

	query := `UPDATE posts SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + postColumns

	post, err := scanPost(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

// FindByIDAndDelete removes a post and returns the deleted row
func (r *postgresPostRepo) FindByIDAndDelete(ctx context.Context, id string) (*posts.Post, error) {
	query := `DELETE FROM posts WHERE id = $1 RETURNING ` + postColumns

	post, err := scanPost(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete post: %w", err)
	}
	return post, nil
}

// Find returns posts matching q
func (r *postgresPostRepo) Find(ctx context.Context, q posts.Query) ([]*posts.Post, error) {
	result := []*posts.Post{}
	if q.AuthorIDs != nil && len(q.AuthorIDs) == 0 {
		return result, nil
	}

	var (
		where []string
		args  []interface{}
	)
	if q.AuthorIDs != nil {
		args = append(args, pq.Array(q.AuthorIDs))
		where = append(where, fmt.Sprintf("posted_by = ANY($%d)", len(args)))
	}
	if q.OnlyReposts {
		where = append(where, "original_post IS NOT NULL")
	}

	query := `SELECT ` + postColumns + ` FROM posts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	if q.Sort == posts.SortNewestFirst {
		query += ` ORDER BY created_at DESC, id COLLATE "C" DESC`
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return result, nil
}

// WithinTx runs fn inside a database transaction, committing when fn
// returns nil and rolling back otherwise
func (r *postgresPostRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, repo posts.Repository) error) error {
	if r.inTx {
		return fn(ctx, r)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	txRepo := &postgresPostRepo{db: r.db, q: tx, now: r.now, inTx: true}
	if err := fn(ctx, txRepo); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*posts.Post, error) {
	var (
		post           posts.Post
		image          sql.NullString
		originalPost   sql.NullString
		lastRepostedAt sql.NullTime
		repliesJSON    []byte
	)

	err := row.Scan(
		&post.ID, &post.PostedBy, &post.TextComment, &image,
		&post.NumberViews, &post.NumberViewsRepost,
		pq.Array(&post.Likes), pq.Array(&post.SavedLists), &repliesJSON,
		&originalPost, &lastRepostedAt, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if image.Valid {
		post.Image = &image.String
	}
	if originalPost.Valid {
		post.OriginalPost = &originalPost.String
	}
	if lastRepostedAt.Valid {
		t := lastRepostedAt.Time.UTC()
		post.LastRepostedAt = &t
	}
	post.CreatedAt = post.CreatedAt.UTC()
	post.UpdatedAt = post.UpdatedAt.UTC()

	if len(repliesJSON) > 0 {
		if err := json.Unmarshal(repliesJSON, &post.Replies); err != nil {
			return nil, fmt.Errorf("failed to unmarshal replies: %w", err)
		}
	}
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.SavedLists == nil {
		post.SavedLists = []string{}
	}
	if post.Replies == nil {
		post.Replies = []posts.Reply{}
	}

	return &post, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
