package rest

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/kjanuda/Blogme/api"
	"github.com/kjanuda/Blogme/blog/application"
	"github.com/kjanuda/Blogme/blog/domain"
)

type PostsHandler struct {
	service *application.PostService
}

func NewPostsHandler(service *application.PostService) *PostsHandler {
	return &PostsHandler{service: service}
}

// ListPosts handles GET /api/posts
func (h *PostsHandler) ListPosts(c *gin.Context) {
	category := c.Query("category")

	list, err := h.service.ListPosts(c.Request.Context(), category, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.ListPostsResponse{
		Posts:      api.FromDomainList(list.Posts),
		Pagination: api.PaginationFromDomain(list.Pagination),
	})
}

// PostsByCategory handles GET /api/posts/category/:category
func (h *PostsHandler) PostsByCategory(c *gin.Context) {
	category := c.Param("category")

	list, err := h.service.ListPosts(c.Request.Context(), category, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.CategoryPostsResponse{
		Posts:      api.FromDomainList(list.Posts),
		Category:   category,
		Pagination: api.PaginationFromDomain(list.Pagination),
	})
}

// SearchPosts handles GET /api/posts/search/:query. An optional category
// query parameter narrows the search.
func (h *PostsHandler) SearchPosts(c *gin.Context) {
	query := c.Param("query")
	category := c.Query("category")

	list, err := h.service.SearchPosts(c.Request.Context(), query, category, parsePage(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.SearchPostsResponse{
		Posts:      api.FromDomainList(list.Posts),
		Query:      query,
		Pagination: api.PaginationFromDomain(list.Pagination),
	})
}

// FeaturedPosts handles GET /api/posts/featured
func (h *PostsHandler) FeaturedPosts(c *gin.Context) {
	posts, err := h.service.FeaturedPosts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FromDomainList(posts))
}

// GetPost handles GET /api/posts/:id
func (h *PostsHandler) GetPost(c *gin.Context) {
	post, err := h.service.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FromDomain(post))
}

// CreatePost handles POST /api/posts
func (h *PostsHandler) CreatePost(c *gin.Context) {
	var req api.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: bindingErrorMessage(err)})
		return
	}

	created, err := h.service.CreatePost(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.FromDomain(created))
}

// UpdatePost handles PUT /api/posts/:id
func (h *PostsHandler) UpdatePost(c *gin.Context) {
	var req api.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: bindingErrorMessage(err)})
		return
	}

	updated, err := h.service.UpdatePost(c.Request.Context(), c.Param("id"), req.Patch())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.FromDomain(updated))
}

// DeletePost handles DELETE /api/posts/:id
func (h *PostsHandler) DeletePost(c *gin.Context) {
	if err := h.service.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "post deleted"})
}

// ReplaceAllPosts handles POST /api/posts/bulk. The whole collection is
// dropped and replaced by the request body.
func (h *PostsHandler) ReplaceAllPosts(c *gin.Context) {
	var reqs []api.CreatePostRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: bindingErrorMessage(err)})
		return
	}

	posts := make([]*domain.Post, len(reqs))
	for i, r := range reqs {
		posts[i] = r.ToDomain()
	}

	inserted, err := h.service.ReplaceAllPosts(c.Request.Context(), posts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.BulkReplaceResponse{
		Message: "posts replaced",
		Count:   len(inserted),
	})
}

// parsePage reads the page and limit query parameters. Missing or malformed
// values parse to zero and fall back to the defaults in domain.NewPage.
func parsePage(c *gin.Context) domain.Page {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return domain.NewPage(page, limit)
}

// respondError maps service errors onto the status taxonomy: validation
// failures are the client's fault, a missing record is 404, anything else
// surfaces as a store error.
func respondError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Message: domain.ErrNotFound.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
	}
}

// bindingErrorMessage flattens a gin binding failure into a readable message,
// naming missing fields by their json tags.
func bindingErrorMessage(err error) string {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		fields := make([]string, len(vErrs))
		for i, fe := range vErrs {
			fields[i] = fe.Field()
		}
		return "missing required fields: " + strings.Join(fields, ", ")
	}

	var sliceErrs binding.SliceValidationError
	if errors.As(err, &sliceErrs) {
		parts := make([]string, 0, len(sliceErrs))
		for _, e := range sliceErrs {
			if e != nil {
				parts = append(parts, bindingErrorMessage(e))
			}
		}
		return strings.Join(parts, "; ")
	}

	return "invalid request body: " + err.Error()
}
