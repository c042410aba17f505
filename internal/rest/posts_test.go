package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kjanuda/Blogme/api"
	"github.com/kjanuda/Blogme/blog/application"
	"github.com/kjanuda/Blogme/blog/domain"
)

func newTestRouter(repo domain.PostRepository, database *fakeDatabase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewApi(router, application.NewPostService(repo), database)
	return router
}

func doRequest(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func validPost(title string) *domain.Post {
	return &domain.Post{
		ID:           "66f0c1d2e3a4b5c6d7e8f901",
		Title:        title,
		WriteDate:    "2024-06-01",
		Category:     "cloud",
		Author:       "Jane Doe",
		AuthorTitle:  "Platform Engineer",
		ReadTime:     "6 min",
		Description:  "Running Go in production.",
		ImageURL:     "https://example.com/post.png",
		MoreInfoLink: "https://example.com/post",
		Tags:         []string{"go"},
	}
}

func validBody(t *testing.T, title string, drop ...string) []byte {
	t.Helper()
	fields := map[string]any{
		"title":        title,
		"writeDate":    "2024-06-01",
		"category":     "cloud",
		"author":       "Jane Doe",
		"authorTitle":  "Platform Engineer",
		"readTime":     "6 min",
		"description":  "Running Go in production.",
		"imageUrl":     "https://example.com/post.png",
		"moreInfoLink": "https://example.com/post",
		"tags":         []string{"go"},
	}
	for _, field := range drop {
		delete(fields, field)
	}
	body, err := json.Marshal(fields)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	return body
}

func TestListPostsPaginationExample(t *testing.T) {
	repo := &fakeRepo{
		posts: []*domain.Post{validPost("Thirteenth"), validPost("Fourteenth")},
		total: 14,
	}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodGet, "/api/posts?page=2&limit=12", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	resp := decodeJSON[api.ListPostsResponse](t, w)
	if len(resp.Posts) != 2 {
		t.Errorf("len(posts) = %d, want 2", len(resp.Posts))
	}
	if resp.Pagination.CurrentPage != 2 {
		t.Errorf("currentPage = %d, want 2", resp.Pagination.CurrentPage)
	}
	if resp.Pagination.TotalPages != 2 {
		t.Errorf("totalPages = %d, want 2", resp.Pagination.TotalPages)
	}
	if resp.Pagination.TotalPosts != 14 {
		t.Errorf("totalPosts = %d, want 14", resp.Pagination.TotalPosts)
	}
	if resp.Pagination.HasNext {
		t.Error("hasNext = true, want false")
	}
	if !resp.Pagination.HasPrev {
		t.Error("hasPrev = false, want true")
	}
}

func TestListPostsMalformedPaginationFallsBack(t *testing.T) {
	repo := &fakeRepo{}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodGet, "/api/posts?page=abc&limit=xyz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if repo.lastPage.Number != 1 || repo.lastPage.Size != 12 {
		t.Errorf("page = %+v, want {1 12}", repo.lastPage)
	}
}

func TestListPostsForwardsCategory(t *testing.T) {
	repo := &fakeRepo{}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodGet, "/api/posts?category=devops", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if repo.lastFilter.Category != "devops" {
		t.Errorf("filter category = %q, want %q", repo.lastFilter.Category, "devops")
	}
}

func TestPostsByCategoryEchoesCategory(t *testing.T) {
	repo := &fakeRepo{posts: []*domain.Post{validPost("DevOps Post")}, total: 1}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodGet, "/api/posts/category/devops", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	resp := decodeJSON[api.CategoryPostsResponse](t, w)
	if resp.Category != "devops" {
		t.Errorf("category = %q, want %q", resp.Category, "devops")
	}
	if repo.lastFilter.Category != "devops" {
		t.Errorf("filter category = %q, want %q", repo.lastFilter.Category, "devops")
	}
}

func TestSearchPostsEchoesQuery(t *testing.T) {
	repo := &fakeRepo{posts: []*domain.Post{validPost("Kubernetes Deep Dive")}, total: 1}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodGet, "/api/posts/search/kubernetes?category=cloud", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	resp := decodeJSON[api.SearchPostsResponse](t, w)
	if resp.Query != "kubernetes" {
		t.Errorf("query = %q, want %q", resp.Query, "kubernetes")
	}
	if repo.lastFilter.Query != "kubernetes" {
		t.Errorf("filter query = %q, want %q", repo.lastFilter.Query, "kubernetes")
	}
	if repo.lastFilter.Category != "cloud" {
		t.Errorf("filter category = %q, want %q", repo.lastFilter.Category, "cloud")
	}
}

func TestFeaturedPostsReturnsBareList(t *testing.T) {
	repo := &fakeRepo{posts: []*domain.Post{validPost("Pick")}}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodGet, "/api/posts/featured", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	posts := decodeJSON[[]api.Post](t, w)
	if len(posts) != 1 {
		t.Errorf("len(posts) = %d, want 1", len(posts))
	}
	if repo.lastFilter.Featured == nil || !*repo.lastFilter.Featured {
		t.Error("filter should require featured posts")
	}
	if repo.lastPage.Size != 3 {
		t.Errorf("page size = %d, want 3", repo.lastPage.Size)
	}
}

func TestGetPostByID(t *testing.T) {
	repo := &fakeRepo{posts: []*domain.Post{validPost("Single")}}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodGet, "/api/posts/66f0c1d2e3a4b5c6d7e8f901", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	post := decodeJSON[api.Post](t, w)
	if post.ID != "66f0c1d2e3a4b5c6d7e8f901" {
		t.Errorf("id = %q, want %q", post.ID, "66f0c1d2e3a4b5c6d7e8f901")
	}
	if post.Title != "Single" {
		t.Errorf("title = %q, want %q", post.Title, "Single")
	}
}

func TestGetPostNotFound(t *testing.T) {
	repo := &fakeRepo{findByIDErr: domain.ErrNotFound}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodGet, "/api/posts/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}

	resp := decodeJSON[api.ErrorResponse](t, w)
	if resp.Message != "post not found" {
		t.Errorf("message = %q, want %q", resp.Message, "post not found")
	}
}

func TestCreatePostReturnsCreated(t *testing.T) {
	repo := &fakeRepo{}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodPost, "/api/posts", validBody(t, "Fresh Post"))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	post := decodeJSON[api.Post](t, w)
	if post.Title != "Fresh Post" {
		t.Errorf("title = %q, want %q", post.Title, "Fresh Post")
	}
	if post.ID == "" {
		t.Error("created post should carry the assigned id")
	}
	if repo.insertedOne == nil {
		t.Fatal("post should reach the repository")
	}
}

func TestCreatePostMissingFieldRejected(t *testing.T) {
	repo := &fakeRepo{}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodPost, "/api/posts", validBody(t, "Broken", "author"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	resp := decodeJSON[api.ErrorResponse](t, w)
	if !strings.Contains(resp.Message, "author") {
		t.Errorf("message = %q, should name the missing field", resp.Message)
	}
	if repo.insertedOne != nil {
		t.Error("invalid post must not be persisted")
	}
}

func TestCreatePostMalformedJSON(t *testing.T) {
	repo := &fakeRepo{}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodPost, "/api/posts", []byte("{not json"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if repo.insertedOne != nil {
		t.Error("malformed body must not be persisted")
	}
}

func TestUpdatePostPartialBody(t *testing.T) {
	repo := &fakeRepo{posts: []*domain.Post{validPost("Current")}}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodPut, "/api/posts/66f0c1d2e3a4b5c6d7e8f901", []byte(`{"title":"Renamed"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	if repo.updatedID != "66f0c1d2e3a4b5c6d7e8f901" {
		t.Errorf("updated id = %q, want %q", repo.updatedID, "66f0c1d2e3a4b5c6d7e8f901")
	}
	if repo.updatedPatch.Title == nil || *repo.updatedPatch.Title != "Renamed" {
		t.Error("patch should carry the new title")
	}
	if repo.updatedPatch.Author != nil {
		t.Error("absent fields should stay unset in the patch")
	}
}

func TestUpdatePostNotFound(t *testing.T) {
	repo := &fakeRepo{}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodPut, "/api/posts/missing", []byte(`{"title":"Renamed"}`))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestDeletePostConfirms(t *testing.T) {
	repo := &fakeRepo{}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodDelete, "/api/posts/66f0c1d2e3a4b5c6d7e8f901", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	resp := decodeJSON[api.MessageResponse](t, w)
	if resp.Message != "post deleted" {
		t.Errorf("message = %q, want %q", resp.Message, "post deleted")
	}
	if repo.deletedID != "66f0c1d2e3a4b5c6d7e8f901" {
		t.Errorf("deleted id = %q, want %q", repo.deletedID, "66f0c1d2e3a4b5c6d7e8f901")
	}
}

func TestDeletePostNotFound(t *testing.T) {
	repo := &fakeRepo{deleteErr: domain.ErrNotFound}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodDelete, "/api/posts/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestBulkReplaceSwapsCollection(t *testing.T) {
	repo := &fakeRepo{}
	router := newTestRouter(repo, &fakeDatabase{})

	body := []byte("[" + string(validBody(t, "First")) + "," + string(validBody(t, "Second")) + "]")
	w := doRequest(router, http.MethodPost, "/api/posts/bulk", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", w.Code, http.StatusCreated, w.Body.String())
	}

	resp := decodeJSON[api.BulkReplaceResponse](t, w)
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}
	if !repo.deleteAllCalled {
		t.Error("bulk replace should clear the collection first")
	}
	if len(repo.insertedMany) != 2 {
		t.Errorf("len(insertedMany) = %d, want 2", len(repo.insertedMany))
	}
}

func TestBulkReplaceEmptyArrayEmptiesCollection(t *testing.T) {
	repo := &fakeRepo{}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodPost, "/api/posts/bulk", []byte("[]"))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	resp := decodeJSON[api.BulkReplaceResponse](t, w)
	if resp.Count != 0 {
		t.Errorf("count = %d, want 0", resp.Count)
	}
	if !repo.deleteAllCalled {
		t.Error("an empty batch still clears the collection")
	}
}

func TestBulkReplaceInvalidElementRejected(t *testing.T) {
	repo := &fakeRepo{}
	router := newTestRouter(repo, &fakeDatabase{})

	body := []byte("[" + string(validBody(t, "Good")) + "," + string(validBody(t, "Bad", "title")) + "]")
	w := doRequest(router, http.MethodPost, "/api/posts/bulk", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}

	resp := decodeJSON[api.ErrorResponse](t, w)
	if !strings.Contains(resp.Message, "title") {
		t.Errorf("message = %q, should name the missing field", resp.Message)
	}
	if repo.deleteAllCalled {
		t.Error("a bad batch must leave the collection untouched")
	}
}

func TestStoreErrorSurfaces(t *testing.T) {
	repo := &fakeRepo{countErr: errors.New("connection reset by peer")}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodGet, "/api/posts", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	resp := decodeJSON[api.ErrorResponse](t, w)
	if !strings.Contains(resp.Message, "connection reset by peer") {
		t.Errorf("message = %q, should surface the store error", resp.Message)
	}
}

func TestListCategories(t *testing.T) {
	repo := &fakeRepo{distinct: []string{"cloud"}}
	router := newTestRouter(repo, &fakeDatabase{})

	w := doRequest(router, http.MethodGet, "/api/categories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	categories := decodeJSON[[]api.Category](t, w)
	if len(categories) != 2 {
		t.Fatalf("len(categories) = %d, want 2", len(categories))
	}
	if categories[0].ID != "all" {
		t.Errorf("first category = %q, want %q", categories[0].ID, "all")
	}
	if categories[1].ID != "cloud" {
		t.Errorf("second category = %q, want %q", categories[1].ID, "cloud")
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&fakeRepo{}, &fakeDatabase{})

	w := doRequest(router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestHealthStoreUnreachable(t *testing.T) {
	router := newTestRouter(&fakeRepo{}, &fakeDatabase{pingErr: errors.New("no reachable servers")})

	w := doRequest(router, http.MethodGet, "/health", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

var _ domain.PostRepository = (*fakeRepo)(nil)

type fakeRepo struct {
	posts    []*domain.Post
	total    int64
	distinct []string

	countErr    error
	findByIDErr error
	deleteErr   error

	lastFilter      domain.PostFilter
	lastPage        domain.Page
	insertedOne     *domain.Post
	insertedMany    []*domain.Post
	updatedID       string
	updatedPatch    domain.PostPatch
	deletedID       string
	deleteAllCalled bool
}

func (f *fakeRepo) FindMany(ctx context.Context, filter domain.PostFilter, page domain.Page) ([]*domain.Post, error) {
	f.lastFilter = filter
	f.lastPage = page
	return f.posts, nil
}

func (f *fakeRepo) Count(ctx context.Context, filter domain.PostFilter) (int64, error) {
	f.lastFilter = filter
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.total, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	if f.findByIDErr != nil {
		return nil, f.findByIDErr
	}
	if len(f.posts) == 0 {
		return nil, domain.ErrNotFound
	}
	return f.posts[0], nil
}

func (f *fakeRepo) InsertOne(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	stored := *p
	stored.ID = "66f0c1d2e3a4b5c6d7e8f901"
	f.insertedOne = &stored
	return &stored, nil
}

func (f *fakeRepo) InsertMany(ctx context.Context, posts []*domain.Post) ([]*domain.Post, error) {
	f.insertedMany = posts
	return posts, nil
}

func (f *fakeRepo) UpdateByID(ctx context.Context, id string, patch domain.PostPatch) (*domain.Post, error) {
	f.updatedID = id
	f.updatedPatch = patch
	if len(f.posts) == 0 {
		return nil, domain.ErrNotFound
	}
	return f.posts[0], nil
}

func (f *fakeRepo) DeleteByID(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedID = id
	return nil
}

func (f *fakeRepo) DeleteAll(ctx context.Context) error {
	f.deleteAllCalled = true
	return nil
}

func (f *fakeRepo) Distinct(ctx context.Context, field string) ([]string, error) {
	return f.distinct, nil
}

type fakeDatabase struct {
	pingErr error
}

func (f *fakeDatabase) Connect(ctx context.Context) error { return nil }
func (f *fakeDatabase) Close(ctx context.Context) error   { return nil }
func (f *fakeDatabase) Ping(ctx context.Context) error    { return f.pingErr }
