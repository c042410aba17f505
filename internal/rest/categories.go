package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kjanuda/Blogme/api"
	"github.com/kjanuda/Blogme/blog/application"
)

type CategoriesHandler struct {
	service *application.PostService
}

func NewCategoriesHandler(service *application.PostService) *CategoriesHandler {
	return &CategoriesHandler{service: service}
}

// ListCategories handles GET /api/categories
func (h *CategoriesHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]api.Category, len(categories))
	for i, cat := range categories {
		out[i] = api.Category{ID: cat.ID, Name: cat.Name}
	}

	c.JSON(http.StatusOK, out)
}
