package application

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/kjanuda/Blogme/blog/domain"
)

// featuredPostCount is how many featured posts the landing page shows.
const featuredPostCount = 3

type PostService struct {
	repo domain.PostRepository
}

func NewPostService(repo domain.PostRepository) *PostService {
	return &PostService{
		repo: repo,
	}
}

// PostList is one page of posts together with its pagination summary.
type PostList struct {
	Posts      []*domain.Post
	Pagination domain.Pagination
}

// ListPosts returns a page of posts, optionally narrowed to a category.
// Category "all" (or empty) matches every post.
func (s *PostService) ListPosts(ctx context.Context, category string, page domain.Page) (*PostList, error) {
	return s.listPage(ctx, domain.PostFilter{Category: category}, page)
}

// SearchPosts returns a page of posts whose title, description, author or
// tags contain query, case-insensitively. A category narrows the match
// further.
func (s *PostService) SearchPosts(ctx context.Context, query, category string, page domain.Page) (*PostList, error) {
	return s.listPage(ctx, domain.PostFilter{Category: category, Query: query}, page)
}

// FeaturedPosts returns the newest featured posts, at most featuredPostCount.
func (s *PostService) FeaturedPosts(ctx context.Context) ([]*domain.Post, error) {
	featured := true
	filter := domain.PostFilter{Featured: &featured}

	posts, err := s.repo.FindMany(ctx, filter, domain.NewPage(1, featuredPostCount))
	if err != nil {
		return nil, fmt.Errorf("failed to list featured posts: %w", err)
	}

	return posts, nil
}

// GetPost returns a single post by id.
func (s *PostService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return s.repo.FindByID(ctx, id)
}

// CreatePost validates and stores a new post.
func (s *PostService) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	if err := post.Validate(); err != nil {
		return nil, err
	}

	return s.repo.InsertOne(ctx, post)
}

// UpdatePost applies a partial update to an existing post.
func (s *PostService) UpdatePost(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	return s.repo.UpdateByID(ctx, id, patch)
}

// DeletePost removes a post by id.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	return s.repo.DeleteByID(ctx, id)
}

// ReplaceAllPosts swaps the entire post collection for the given batch. Every
// post is validated before anything is deleted, so a bad batch leaves the
// store untouched. The delete and insert are separate operations: a reader
// hitting the window between them sees an empty or partial collection.
func (s *PostService) ReplaceAllPosts(ctx context.Context, posts []*domain.Post) ([]*domain.Post, error) {
	for i, p := range posts {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("post %d: %w", i, err)
		}
	}

	if err := s.repo.DeleteAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to clear posts: %w", err)
	}

	inserted, err := s.repo.InsertMany(ctx, posts)
	if err != nil {
		return nil, fmt.Errorf("failed to insert replacement posts: %w", err)
	}

	log.Info().Int("count", len(inserted)).Msg("Replaced all posts")

	return inserted, nil
}

// Categories returns the known categories that currently have posts, with
// the catch-all entry always first.
func (s *PostService) Categories(ctx context.Context) ([]domain.Category, error) {
	stored, err := s.repo.Distinct(ctx, "category")
	if err != nil {
		return nil, fmt.Errorf("failed to list stored categories: %w", err)
	}

	present := make(map[string]bool, len(stored))
	for _, c := range stored {
		present[c] = true
	}

	categories := make([]domain.Category, 0, len(domain.Taxonomy))
	for _, c := range domain.Taxonomy {
		if c.ID == domain.CategoryAll || present[c.ID] {
			categories = append(categories, c)
		}
	}

	return categories, nil
}

// listPage runs the count and page queries backing every list endpoint.
func (s *PostService) listPage(ctx context.Context, filter domain.PostFilter, page domain.Page) (*PostList, error) {
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	posts, err := s.repo.FindMany(ctx, filter, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return &PostList{
		Posts:      posts,
		Pagination: domain.NewPagination(page, total, len(posts)),
	}, nil
}
