package rest

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/kjanuda/Blogme/blog/application"
	"github.com/kjanuda/Blogme/shared/db"
)

func NewApi(router *gin.Engine, service *application.PostService, database db.Database) {
	registerTagNames()

	posts := NewPostsHandler(service)
	categories := NewCategoriesHandler(service)
	health := NewHealthHandler(database)

	postsAPI := router.Group("/api/posts")
	{
		postsAPI.GET("", posts.ListPosts)
		postsAPI.GET("/featured", posts.FeaturedPosts)
		postsAPI.GET("/category/:category", posts.PostsByCategory)
		postsAPI.GET("/search/:query", posts.SearchPosts)
		postsAPI.GET("/:id", posts.GetPost)
		postsAPI.POST("", posts.CreatePost)
		postsAPI.POST("/bulk", posts.ReplaceAllPosts)
		postsAPI.PUT("/:id", posts.UpdatePost)
		postsAPI.DELETE("/:id", posts.DeletePost)
	}

	categoriesAPI := router.Group("/api/categories")
	{
		categoriesAPI.GET("", categories.ListCategories)
	}

	router.GET("/health", health.Health)
}

// registerTagNames makes binding errors report json field names instead of
// Go struct field names.
func registerTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
