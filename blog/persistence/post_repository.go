package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kjanuda/Blogme/blog/domain"
)

var _ domain.PostRepository = (*MongoPostRepository)(nil)

// MongoPostRepository implements domain.PostRepository against a MongoDB
// collection.
type MongoPostRepository struct {
	posts collection
}

// NewPostRepository creates a MongoPostRepository over the posts collection.
func NewPostRepository(coll *mongodriver.Collection) *MongoPostRepository {
	return &MongoPostRepository{posts: wrapCollection(coll)}
}

// newRepositoryWithCollection lets tests inject a fake collection.
func newRepositoryWithCollection(coll collection) *MongoPostRepository {
	return &MongoPostRepository{posts: coll}
}

// writeDateSort orders every list-style query: writeDate descending with
// _id as tiebreak so pages stay stable across requests.
var writeDateSort = bson.D{{Key: "writeDate", Value: -1}, {Key: "_id", Value: -1}}

// EnsureIndexes creates the indexes backing the sort key and the category
// filter. Safe to call on every startup.
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongodriver.IndexModel{
		{Keys: bson.D{{Key: "writeDate", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}
	if _, err := r.posts.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create post indexes: %w", err)
	}
	return nil
}

// FindMany returns one page of posts matching filter, newest writeDate first.
func (r *MongoPostRepository) FindMany(ctx context.Context, filter domain.PostFilter, page domain.Page) ([]*domain.Post, error) {
	opts := options.Find().
		SetSort(writeDateSort).
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.Size))

	cur, err := r.posts.Find(ctx, buildFilter(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find posts: %w", err)
	}
	defer cur.Close(ctx)

	posts := make([]*domain.Post, 0)
	for cur.Next(ctx) {
		var doc postDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode post: %w", err)
		}
		posts = append(posts, doc.toDomain())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

// Count returns the number of posts matching filter.
func (r *MongoPostRepository) Count(ctx context.Context, filter domain.PostFilter) (int64, error) {
	count, err := r.posts.CountDocuments(ctx, buildFilter(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}

// FindByID retrieves a single post by its hex id. A malformed id cannot name
// a stored post, so it reports domain.ErrNotFound like a missing one.
func (r *MongoPostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	var doc postDocument
	if err := r.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post %s: %w", id, err)
	}

	return doc.toDomain(), nil
}

// InsertOne stores a new post, assigning its id and timestamps.
func (r *MongoPostRepository) InsertOne(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	doc := newPostDocument(p, time.Now().UTC())
	if _, err := r.posts.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}
	return doc.toDomain(), nil
}

// InsertMany stores a batch of new posts in order. An empty batch is a no-op.
func (r *MongoPostRepository) InsertMany(ctx context.Context, posts []*domain.Post) ([]*domain.Post, error) {
	if len(posts) == 0 {
		return []*domain.Post{}, nil
	}

	now := time.Now().UTC()
	docs := make([]any, len(posts))
	inserted := make([]*domain.Post, len(posts))
	for i, p := range posts {
		doc := newPostDocument(p, now)
		docs[i] = doc
		inserted[i] = doc.toDomain()
	}

	if _, err := r.posts.InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("failed to insert posts: %w", err)
	}

	return inserted, nil
}

// UpdateByID applies patch to the post with the given id and returns the
// updated post, or domain.ErrNotFound.
func (r *MongoPostRepository) UpdateByID(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNotFound
	}

	update := bson.M{"$set": patchSet(patch, time.Now().UTC())}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc postDocument
	if err := r.posts.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update post %s: %w", id, err)
	}

	return doc.toDomain(), nil
}

// DeleteByID removes the post with the given id, or reports domain.ErrNotFound.
func (r *MongoPostRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNotFound
	}

	result, err := r.posts.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete post %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// DeleteAll empties the posts collection.
func (r *MongoPostRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.posts.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to delete all posts: %w", err)
	}
	return nil
}

// Distinct returns the distinct string values stored under field.
func (r *MongoPostRepository) Distinct(ctx context.Context, field string) ([]string, error) {
	values, err := r.posts.Distinct(ctx, field, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to get distinct %s values: %w", field, err)
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// buildFilter translates a domain filter into a Mongo predicate. Unset
// fields add no clause, so set fields compose with logical AND.
func buildFilter(f domain.PostFilter) bson.M {
	filter := bson.M{}

	if f.Category != "" && f.Category != domain.CategoryAll {
		filter["category"] = f.Category
	}

	if f.Query != "" {
		regex := bson.M{"$regex": escapeRegex(f.Query), "$options": "i"}
		filter["$or"] = []bson.M{
			{"title": regex},
			{"description": regex},
			{"author": regex},
			{"tags": regex},
		}
	}

	if f.Featured != nil {
		filter["featured"] = *f.Featured
	}

	return filter
}

// escapeRegex escapes regex special characters so search input matches
// literally.
func escapeRegex(s string) string {
	special := []string{"\\", ".", "+", "*", "?", "^", "$", "(", ")", "[", "]", "{", "}", "|"}
	result := s
	for _, char := range special {
		result = strings.ReplaceAll(result, char, "\\"+char)
	}
	return result
}

// patchSet builds the $set document for a partial update. updatedAt always
// refreshes, even when the patch is otherwise empty.
func patchSet(patch domain.PostPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}

	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.WriteDate != nil {
		set["writeDate"] = *patch.WriteDate
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Author != nil {
		set["author"] = *patch.Author
	}
	if patch.AuthorTitle != nil {
		set["authorTitle"] = *patch.AuthorTitle
	}
	if patch.ReadTime != nil {
		set["readTime"] = *patch.ReadTime
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.ImageURL != nil {
		set["imageUrl"] = *patch.ImageURL
	}
	if patch.MoreInfoLink != nil {
		set["moreInfoLink"] = *patch.MoreInfoLink
	}
	if patch.Tags != nil {
		tags := *patch.Tags
		if tags == nil {
			tags = []string{}
		}
		set["tags"] = tags
	}
	if patch.Featured != nil {
		set["featured"] = *patch.Featured
	}

	return set
}

// postDocument is a private struct mapping posts to their stored BSON shape.
// It provides methods to convert to and from the domain.Post model.
type postDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Title        string             `bson:"title"`
	WriteDate    string             `bson:"writeDate"`
	Category     string             `bson:"category"`
	Author       string             `bson:"author"`
	AuthorTitle  string             `bson:"authorTitle"`
	ReadTime     string             `bson:"readTime"`
	Description  string             `bson:"description"`
	ImageURL     string             `bson:"imageUrl"`
	MoreInfoLink string             `bson:"moreInfoLink"`
	Tags         []string           `bson:"tags"`
	Featured     bool               `bson:"featured"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// newPostDocument maps a domain post into a fresh document with a generated
// id and both timestamps set to now. Tags are stored as an array, never null.
func newPostDocument(p *domain.Post, now time.Time) *postDocument {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &postDocument{
		ID:           primitive.NewObjectID(),
		Title:        p.Title,
		WriteDate:    p.WriteDate,
		Category:     p.Category,
		Author:       p.Author,
		AuthorTitle:  p.AuthorTitle,
		ReadTime:     p.ReadTime,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		MoreInfoLink: p.MoreInfoLink,
		Tags:         tags,
		Featured:     p.Featured,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// toDomain converts a postDocument to a domain.Post.
func (d *postDocument) toDomain() *domain.Post {
	return &domain.Post{
		ID:           d.ID.Hex(),
		Title:        d.Title,
		WriteDate:    d.WriteDate,
		Category:     d.Category,
		Author:       d.Author,
		AuthorTitle:  d.AuthorTitle,
		ReadTime:     d.ReadTime,
		Description:  d.Description,
		ImageURL:     d.ImageURL,
		MoreInfoLink: d.MoreInfoLink,
		Tags:         d.Tags,
		Featured:     d.Featured,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
