package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"bookshop/internal/cache"
	"bookshop/internal/microservices/http-api/dto"
	"bookshop/internal/microservices/http-api/middleware"
	"bookshop/internal/microservices/http-api/models"
	"bookshop/internal/microservices/http-api/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testDeps struct {
	books    *MockBookService
	comments *MockCommentService
	ratings  *MockRatingService
	likes    *MockLikeService
	auth     *MockAuthService
}

func newDeps() *testDeps {
	return &testDeps{
		books:    new(MockBookService),
		comments: new(MockCommentService),
		ratings:  new(MockRatingService),
		likes:    new(MockLikeService),
		auth:     new(MockAuthService),
	}
}

func (d *testDeps) router(userID string, pages cache.PageCache) *gin.Engine {
	r := gin.New()
	shop := r.Group("/shop", asUser(userID))
	RegisterShopRoutes(shop, Handlers{
		Auth:    NewAuthHandler(d.auth, false),
		Book:    NewBookHandler(d.books, d.comments, d.ratings, pages, 2),
		Genre:   NewGenreHandler(nil, d.books),
		Comment: NewCommentHandler(d.comments),
		Rating:  NewRatingHandler(d.ratings),
		Like:    NewLikeHandler(d.likes),
	}, Guards{
		Page: middleware.RequireLogin(),
		AJAX: middleware.RequireLoginJSON(),
	})
	return r
}

func serve(r http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRate_RedirectsHome(t *testing.T) {
	d := newDeps()
	d.ratings.On("RateBook", "u1", int64(3), 7).Return(&dto.RateResult{BookID: 3, Rate: 7, CachedRate: 7}, nil)

	w := serve(d.router("u1", nil), http.MethodGet, "/shop/add_rate/7/3", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, homeURL, w.Header().Get("Location"))
	d.ratings.AssertExpectations(t)
}

func TestRate_AnonymousRedirectsToLogin(t *testing.T) {
	d := newDeps()

	w := serve(d.router("", nil), http.MethodGet, "/shop/add_rate/7/3", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/shop/login/?next=%2Fshop%2Fadd_rate%2F7%2F3", w.Header().Get("Location"))
	d.ratings.AssertNotCalled(t, "RateBook", mock.Anything, mock.Anything, mock.Anything)
}

func TestRate_BadPathAnswers404(t *testing.T) {
	d := newDeps()
	r := d.router("u1", nil)

	for _, target := range []string{"/shop/add_rate/x/3", "/shop/add_rate/-1/3", "/shop/add_rate/5/abc"} {
		w := serve(r, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
	}
	d.ratings.AssertNotCalled(t, "RateBook", mock.Anything, mock.Anything, mock.Anything)
}

func TestRate_OutOfRange(t *testing.T) {
	d := newDeps()
	d.ratings.On("RateBook", "u1", int64(3), 11).Return(nil, service.ErrInvalidRate)

	w := serve(d.router("u1", nil), http.MethodGet, "/shop/add_rate/11/3", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRateAjax(t *testing.T) {
	d := newDeps()
	d.ratings.On("RateBook", "u1", int64(3), 0).Return(&dto.RateResult{BookID: 3, Rate: 0, CachedRate: 2.5, Created: true}, nil)

	w := serve(d.router("u1", nil), http.MethodPost, "/shop/add_book_rate_ajax/", url.Values{"book_id": {"3"}, "rate": {"0"}})

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 2.5, body["cached_rate"])
	assert.Equal(t, true, body["created"])
}

func TestRateAjax_ValidationErrors(t *testing.T) {
	d := newDeps()

	w := serve(d.router("u1", nil), http.MethodPost, "/shop/add_book_rate_ajax/", url.Values{"book_id": {"3"}, "rate": {"12"}})

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "rate")
}

func TestRateAjax_Anonymous(t *testing.T) {
	d := newDeps()

	w := serve(d.router("", nil), http.MethodPost, "/shop/add_book_rate_ajax/", url.Values{"book_id": {"3"}, "rate": {"5"}})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestRemoveRatingAjax_NotFound(t *testing.T) {
	d := newDeps()
	d.ratings.On("RemoveRating", "u1", int64(3)).Return(0.0, service.ErrRatingNotFound)

	w := serve(d.router("u1", nil), http.MethodDelete, "/shop/book_rate_ajax/3/", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLikeToggle(t *testing.T) {
	d := newDeps()
	d.likes.On("ToggleCommentLike", int64(9), "u1").Return(&dto.LikeResult{CommentID: 9, Liked: true, CachedLike: 1, Changed: true}, nil)

	w := serve(d.router("u1", nil), http.MethodGet, "/shop/add_like2comment/9", nil)
	assert.Equal(t, http.StatusFound, w.Code)

	w = serve(d.router("u1", nil), http.MethodPost, "/shop/add_like_ajax/", url.Values{"comment_id": {"9"}})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(1), body["cached_like"])
}

func TestLikeSet_MethodSelectsMembership(t *testing.T) {
	d := newDeps()
	d.likes.On("SetCommentLike", int64(9), "u1", true).Return(&dto.LikeResult{CommentID: 9, Liked: true, CachedLike: 1, Changed: true}, nil)
	d.likes.On("SetCommentLike", int64(9), "u1", false).Return(&dto.LikeResult{CommentID: 9, Liked: false, CachedLike: 0, Changed: true}, nil)
	r := d.router("u1", nil)

	w := serve(r, http.MethodPut, "/shop/comment_like_ajax/9/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["liked"])

	w = serve(r, http.MethodDelete, "/shop/comment_like_ajax/9/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["liked"])
	d.likes.AssertExpectations(t)
}

func TestLikeToggle_MissingComment(t *testing.T) {
	d := newDeps()
	d.likes.On("ToggleCommentLike", int64(9), "u1").Return(nil, service.ErrCommentNotFound)

	w := serve(d.router("u1", nil), http.MethodPost, "/shop/add_like_ajax/", url.Values{"comment_id": {"9"}})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestDeleteBook_NotAuthor(t *testing.T) {
	d := newDeps()
	d.books.On("Delete", int64(4), "u2").Return(service.ErrNotBookAuthor)

	w := serve(d.router("u2", nil), http.MethodGet, "/shop/delete_book/4", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateBook_RedirectsToBook(t *testing.T) {
	d := newDeps()
	form := dto.BookForm{Title: "New", Text: "Body", Genre: []int64{1, 2}}
	d.books.On("Update", "old-slug", "u1", form).Return(&models.Book{ID: 4, Slug: "old-slug"}, nil)

	w := serve(d.router("u1", nil), http.MethodPost, "/shop/update_book/old-slug",
		url.Values{"title": {"New"}, "text": {"Body"}, "genre": {"1", "2"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/shop/book/old-slug", w.Header().Get("Location"))
}

func TestAddBook_FormErrors(t *testing.T) {
	d := newDeps()

	w := serve(d.router("u1", nil), http.MethodPost, "/shop/add_book/", url.Values{"title": {"   "}})

	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode(t, w)["errors"].(map[string]interface{})
	assert.Equal(t, "This field is required.", errs["title"])
	assert.Equal(t, "This field is required.", errs["text"])
	d.books.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddBook_UnknownGenre(t *testing.T) {
	d := newDeps()
	d.books.On("Create", "u1", mock.AnythingOfType("dto.BookForm")).Return(nil, service.ErrUnknownGenre)

	w := serve(d.router("u1", nil), http.MethodPost, "/shop/add_book/", url.Values{"title": {"T"}, "text": {"x"}, "genre": {"99"}})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["errors"], "genre")
}

func TestAddComment_InternalErrorIsHidden(t *testing.T) {
	d := newDeps()
	d.comments.On("CreateComment", "u1", int64(2), "hi").Return(nil, errors.New("pq: connection reset"))

	w := serve(d.router("u1", nil), http.MethodPost, "/shop/add_comment/2", url.Values{"text": {"hi"}})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "pq:")
}

func TestDeleteCommentAjax_NotOwner(t *testing.T) {
	d := newDeps()
	d.comments.On("DeleteComment", int64(5), "u2").Return(int64(0), service.ErrNotCommentOwner)

	w := serve(d.router("u2", nil), http.MethodPost, "/shop/delete_comment_ajax/5/", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBookDetail_IncludesOwnRate(t *testing.T) {
	d := newDeps()
	book := &models.Book{ID: 4, Title: "T", Slug: "t-1", CachedRate: 6}
	d.books.On("GetBySlug", "t-1").Return(book, nil)
	d.comments.On("GetBookComments", int64(4), 1, 2).Return(dto.NewPaginatedCommentResponse([]dto.CommentResponse{}, 0, 1, 2), nil)
	d.ratings.On("GetUserRating", "u1", int64(4)).Return(&dto.UserRatingResponse{Rate: 6}, nil)

	w := serve(d.router("u1", nil), http.MethodGet, "/shop/book/t-1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.BookDetailResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.UserRate)
	assert.Equal(t, 6, *resp.UserRate)
	assert.Equal(t, "t-1", resp.Book.Slug)
}

func TestBookDetail_AnonymousAndUnknown(t *testing.T) {
	d := newDeps()
	d.books.On("GetBySlug", "t-1").Return(&models.Book{ID: 4, Slug: "t-1"}, nil)
	d.books.On("GetBySlug", "missing").Return(nil, service.ErrBookNotFound)
	d.comments.On("GetBookComments", int64(4), 1, 2).Return(dto.NewPaginatedCommentResponse([]dto.CommentResponse{}, 0, 1, 2), nil)
	r := d.router("", nil)

	w := serve(r, http.MethodGet, "/shop/book/t-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "user_rate")

	w = serve(r, http.MethodGet, "/shop/book/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	d.ratings.AssertNotCalled(t, "GetUserRating", mock.Anything, mock.Anything)
}

func TestList_ServedFromPageCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	pages := cache.NewRedisPageCache(client, time.Minute)

	d := newDeps()
	d.books.On("List", 1, 2).Return(dto.NewPaginatedBookResponse([]dto.BookResponse{{ID: 1, Title: "A"}}, 1, 1, 2), nil).Once()
	r := d.router("", pages)

	w := serve(r, http.MethodGet, "/shop/hello/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w = serve(r, http.MethodGet, "/shop/hello/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Contains(t, w.Body.String(), `"title":"A"`)

	d.books.AssertNumberOfCalls(t, "List", 1)
}

func TestList_BadPage(t *testing.T) {
	d := newDeps()

	for _, target := range []string{"/shop/hello/0", "/shop/hello/two"} {
		w := serve(d.router("", nil), http.MethodGet, target, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, target)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrBookNotFound, http.StatusNotFound},
		{service.ErrNotCommentOwner, http.StatusForbidden},
		{service.ErrInvalidRate, http.StatusBadRequest},
		{service.ErrNameInUse, http.StatusConflict},
		{service.ErrExpiredToken, http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
		{errors.Join(service.ErrRatingNotFound, errors.New("x")), http.StatusNotFound},
	}
	for _, tc := range cases {
		got, _ := statusFor(tc.err)
		assert.Equal(t, tc.want, got, tc.err.Error())
	}
}
