package api

import (
	"time"

	"github.com/kjanuda/Blogme/blog/domain"
)

// Post is the JSON representation of a blog post.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	WriteDate    string    `json:"writeDate"`
	Category     string    `json:"category"`
	Author       string    `json:"author"`
	AuthorTitle  string    `json:"authorTitle"`
	ReadTime     string    `json:"readTime"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"imageUrl"`
	MoreInfoLink string    `json:"moreInfoLink"`
	Tags         []string  `json:"tags"`
	Featured     bool      `json:"featured"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FromDomain converts a domain post for the wire. Tags always marshal as an
// array, never null.
func FromDomain(p *domain.Post) Post {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return Post{
		ID:           p.ID,
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
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// FromDomainList converts a page of domain posts for the wire.
func FromDomainList(posts []*domain.Post) []Post {
	out := make([]Post, len(posts))
	for i, p := range posts {
		out[i] = FromDomain(p)
	}
	return out
}

// CreatePostRequest is the body of POST /api/posts and each element of the
// bulk-replace body. Binding enforces required-field presence; the domain
// validates again before anything reaches the store.
type CreatePostRequest struct {
	Title        string   `json:"title" binding:"required"`
	WriteDate    string   `json:"writeDate" binding:"required"`
	Category     string   `json:"category" binding:"required"`
	Author       string   `json:"author" binding:"required"`
	AuthorTitle  string   `json:"authorTitle" binding:"required"`
	ReadTime     string   `json:"readTime" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	ImageURL     string   `json:"imageUrl" binding:"required"`
	MoreInfoLink string   `json:"moreInfoLink" binding:"required"`
	Tags         []string `json:"tags"`
	Featured     bool     `json:"featured"`
}

// ToDomain builds the domain post for insertion.
func (r CreatePostRequest) ToDomain() *domain.Post {
	return &domain.Post{
		Title:        r.Title,
		WriteDate:    r.WriteDate,
		Category:     r.Category,
		Author:       r.Author,
		AuthorTitle:  r.AuthorTitle,
		ReadTime:     r.ReadTime,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		MoreInfoLink: r.MoreInfoLink,
		Tags:         r.Tags,
		Featured:     r.Featured,
	}
}

// UpdatePostRequest is the partial body of PUT /api/posts/:id. Absent fields
// are left unchanged.
type UpdatePostRequest struct {
	Title        *string   `json:"title"`
	WriteDate    *string   `json:"writeDate"`
	Category     *string   `json:"category"`
	Author       *string   `json:"author"`
	AuthorTitle  *string   `json:"authorTitle"`
	ReadTime     *string   `json:"readTime"`
	Description  *string   `json:"description"`
	ImageURL     *string   `json:"imageUrl"`
	MoreInfoLink *string   `json:"moreInfoLink"`
	Tags         *[]string `json:"tags"`
	Featured     *bool     `json:"featured"`
}

// Patch converts the request into a domain patch.
func (r UpdatePostRequest) Patch() domain.PostPatch {
	return domain.PostPatch{
		Title:        r.Title,
		WriteDate:    r.WriteDate,
		Category:     r.Category,
		Author:       r.Author,
		AuthorTitle:  r.AuthorTitle,
		ReadTime:     r.ReadTime,
		Description:  r.Description,
		ImageURL:     r.ImageURL,
		MoreInfoLink: r.MoreInfoLink,
		Tags:         r.Tags,
		Featured:     r.Featured,
	}
}

// Pagination is the summary returned alongside every list result.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalPosts  int64 `json:"totalPosts"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// PaginationFromDomain converts the domain summary for the wire.
func PaginationFromDomain(p domain.Pagination) Pagination {
	return Pagination{
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
		TotalPosts:  p.TotalPosts,
		HasNext:     p.HasNext,
		HasPrev:     p.HasPrev,
	}
}

// ListPostsResponse is the body of GET /api/posts.
type ListPostsResponse struct {
	Posts      []Post     `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// CategoryPostsResponse is the body of GET /api/posts/category/:category.
type CategoryPostsResponse struct {
	Posts      []Post     `json:"posts"`
	Category   string     `json:"category"`
	Pagination Pagination `json:"pagination"`
}

// SearchPostsResponse is the body of GET /api/posts/search/:query.
type SearchPostsResponse struct {
	Posts      []Post     `json:"posts"`
	Query      string     `json:"query"`
	Pagination Pagination `json:"pagination"`
}

// BulkReplaceResponse is the body of POST /api/posts/bulk.
type BulkReplaceResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// Category is a taxonomy entry of GET /api/categories.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MessageResponse is a bare confirmation body.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error body for every non-2xx status.
type ErrorResponse struct {
	Message string `json:"message"`
}
