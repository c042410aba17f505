package domain

import (
	"context"
	"time"
)

// Post represents a blog post.
// WriteDate is the display date supplied by the author and the descending
// sort key for every list-style query; ISO-8601 style values keep the
// store's lexical order chronological. CreatedAt and UpdatedAt are managed
// by the repository.
type Post struct {
	ID           string
	Title        string
	WriteDate    string
	Category     string
	Author       string
	AuthorTitle  string
	ReadTime     string
	Description  string
	ImageURL     string
	MoreInfoLink string
	Tags         []string
	Featured     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks that every required attribute is present. It returns a
// *ValidationError naming the first missing field, so callers can surface
// it before anything reaches the store.
func (p *Post) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"title", p.Title},
		{"writeDate", p.WriteDate},
		{"category", p.Category},
		{"author", p.Author},
		{"authorTitle", p.AuthorTitle},
		{"readTime", p.ReadTime},
		{"description", p.Description},
		{"imageUrl", p.ImageURL},
		{"moreInfoLink", p.MoreInfoLink},
	}

	for _, r := range required {
		if r.value == "" {
			return &ValidationError{Field: r.field}
		}
	}

	return nil
}

// PostPatch carries a partial update. Nil fields are left unchanged; the
// repository refreshes UpdatedAt regardless of which fields are set.
type PostPatch struct {
	Title        *string
	WriteDate    *string
	Category     *string
	Author       *string
	AuthorTitle  *string
	ReadTime     *string
	Description  *string
	ImageURL     *string
	MoreInfoLink *string
	Tags         *[]string
	Featured     *bool
}

// PostFilter selects a subset of posts. Zero values impose no constraint,
// so filters compose with logical AND.
type PostFilter struct {
	// Category matches exactly; empty or the sentinel "all" selects every category.
	Category string
	// Query matches case-insensitively as a substring of title, description,
	// author, or any tags element.
	Query string
	// Featured, when non-nil, matches the featured flag.
	Featured *bool
}

// CategoryAll is the sentinel category meaning "no category constraint".
const CategoryAll = "all"

// PostRepository is the collection-level contract over the document store.
type PostRepository interface {
	// FindMany returns the page of posts matching filter, sorted by
	// writeDate descending.
	FindMany(ctx context.Context, filter PostFilter, page Page) ([]*Post, error)
	Count(ctx context.Context, filter PostFilter) (int64, error)
	// FindByID returns ErrNotFound when no post has the given id.
	FindByID(ctx context.Context, id string) (*Post, error)
	InsertOne(ctx context.Context, p *Post) (*Post, error)
	InsertMany(ctx context.Context, posts []*Post) ([]*Post, error)
	// UpdateByID applies patch and returns the updated post, or ErrNotFound.
	UpdateByID(ctx context.Context, id string, patch PostPatch) (*Post, error)
	// DeleteByID returns ErrNotFound when no post was deleted.
	DeleteByID(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	// Distinct returns the distinct values of a document field.
	Distinct(ctx context.Context, field string) ([]string, error)
}
