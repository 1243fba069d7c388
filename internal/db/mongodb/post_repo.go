package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/SoulMinT05/threadsnet/internal/core/posts"
)

type mongoPostRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
	// transactions requires a replica set; standalone servers run WithinTx
	// closures directly
	transactions bool
	inTx         bool
}

// NewPostRepository creates a post repository over db's posts collection
func NewPostRepository(db *mongo.Database, transactions bool) posts.Repository {
	return &mongoPostRepo{
		client:       db.Client(),
		coll:         db.Collection(postsCollection),
		now:          mongoNow,
		transactions: transactions,
	}
}

var counterFields = map[posts.Counter]string{
	posts.CounterViews:   "number_views",
	posts.CounterReposts: "number_views_repost",
}

var setFields = map[posts.SetField]string{
	posts.SetLikes:      "likes",
	posts.SetSavedLists: "saved_lists",
}

// Create inserts a new post document
func (r *mongoPostRepo) Create(ctx context.Context, post *posts.Post) error {
	post.PrepareForCreate(r.now())

	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("post already exists: %s", post.ID)
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// GetByID retrieves a post by ID
func (r *mongoPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	var post posts.Post
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return normalized(&post), nil
}

// FindByIDAndUpdate runs the patch as a single findOneAndUpdate with an
// aggregation pipeline, so membership tests and writes see the same document
func (r *mongoPostRepo) FindByIDAndUpdate(ctx context.Context, id string, patch posts.Patch) (*posts.Post, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post posts.Post
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, updatePipeline(patch, r.now()), opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return normalized(&post), nil
}

// updatePipeline builds one $set stage. Values are wrapped in $literal so a
// member or text starting with "$" is never read as a field path.
func updatePipeline(patch posts.Patch, now time.Time) mongo.Pipeline {
	set := bson.D{}

	if patch.Set.TextComment != nil {
		set = append(set, bson.E{Key: "text_comment", Value: literal(*patch.Set.TextComment)})
	}
	if patch.Set.Image != nil {
		set = append(set, bson.E{Key: "image", Value: literal(*patch.Set.Image)})
	}

	for counter, delta := range patch.Inc {
		f := counterFields[counter]
		set = append(set, bson.E{Key: f, Value: bson.M{"$add": bson.A{"$" + f, delta}}})
	}

	for field, member := range patch.AddToSet {
		f := setFields[field]
		set = append(set, bson.E{Key: f, Value: bson.M{"$cond": bson.A{
			contains(f, member), array(f), appendTo(f, member),
		}}})
	}
	for field, member := range patch.Pull {
		f := setFields[field]
		set = append(set, bson.E{Key: f, Value: removeFrom(f, member)})
	}
	for field, member := range patch.Toggle {
		f := setFields[field]
		set = append(set, bson.E{Key: f, Value: bson.M{"$cond": bson.A{
			contains(f, member), removeFrom(f, member), appendTo(f, member),
		}}})
	}

	if len(patch.Push) > 0 {
		set = append(set, bson.E{Key: "replies", Value: bson.M{"$concatArrays": bson.A{
			array("replies"), literal(patch.Push),
		}}})
	}

	if !patch.SkipTimestamps {
		set = append(set, bson.E{Key: "updated_at", Value: now})
	}

	return mongo.Pipeline{{{Key: "$set", Value: set}}}
}

func literal(v interface{}) bson.M {
	return bson.M{"$literal": v}
}

// array reads field as an array, treating a missing field as empty
func array(field string) bson.M {
	return bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}}
}

func contains(field, member string) bson.M {
	return bson.M{"$in": bson.A{literal(member), array(field)}}
}

func appendTo(field, member string) bson.M {
	return bson.M{"$concatArrays": bson.A{array(field), bson.A{literal(member)}}}
}

func removeFrom(field, member string) bson.M {
	return bson.M{"$filter": bson.M{
		"input": array(field),
		"cond":  bson.M{"$ne": bson.A{"$$this", literal(member)}},
	}}
}

// FindByIDAndDelete removes a post and returns it
func (r *mongoPostRepo) FindByIDAndDelete(ctx context.Context, id string) (*posts.Post, error) {
	var post posts.Post
	err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete post: %w", err)
	}
	return normalized(&post), nil
}

// Find returns posts matching q
func (r *mongoPostRepo) Find(ctx context.Context, q posts.Query) ([]*posts.Post, error) {
	result := []*posts.Post{}
	if q.AuthorIDs != nil && len(q.AuthorIDs) == 0 {
		return result, nil
	}

	filter := bson.M{}
	if q.AuthorIDs != nil {
		filter["posted_by"] = bson.M{"$in": q.AuthorIDs}
	}
	if q.OnlyReposts {
		filter["original_post"] = bson.M{"$exists": true, "$ne": nil}
	}

	opts := options.Find()
	if q.Sort == posts.SortNewestFirst {
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	for cursor.Next(ctx) {
		var post posts.Post
		if err := cursor.Decode(&post); err != nil {
			return nil, fmt.Errorf("failed to decode post: %w", err)
		}
		result = append(result, normalized(&post))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return result, nil
}

// WithinTx runs fn inside a multi-document transaction when the deployment
// supports them
func (r *mongoPostRepo) WithinTx(ctx context.Context, fn func(ctx context.Context, repo posts.Repository) error) error {
	if r.inTx || !r.transactions {
		return fn(ctx, r)
	}

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	txRepo := *r
	txRepo.inTx = true

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, fn(ctx, &txRepo)
	})
	return err
}

// normalized replaces collections decoded from BSON null with empty ones
func normalized(post *posts.Post) *posts.Post {
	if post.Likes == nil {
		post.Likes = []string{}
	}
	if post.SavedLists == nil {
		post.SavedLists = []string{}
	}
	if post.Replies == nil {
		post.Replies = []posts.Reply{}
	}
	post.CreatedAt = post.CreatedAt.UTC()
	post.UpdatedAt = post.UpdatedAt.UTC()
	return post
}
