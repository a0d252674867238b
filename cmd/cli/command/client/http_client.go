package client

// http_client.go = talks to the bookshop HTTP API on behalf of the CLI.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bookshop/internal/microservices/http-api/dto"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// APIError is a non-2xx answer from the server
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Body)
}

// RateResponse mirrors the add_book_rate_ajax payload
type RateResponse struct {
	Success    bool    `json:"success"`
	BookID     int64   `json:"book_id"`
	Rate       int     `json:"rate"`
	CachedRate float64 `json:"cached_rate"`
	Created    bool    `json:"created"`
}

// LikeResponse mirrors the comment like payloads
type LikeResponse struct {
	Success    bool  `json:"success"`
	CommentID  int64 `json:"comment_id"`
	Liked      bool  `json:"liked"`
	CachedLike int64 `json:"cached_like"`
	Changed    bool  `json:"changed"`
}

type commentEnvelope struct {
	Success bool                `json:"success"`
	Comment dto.CommentResponse `json:"comment"`
}

type genreList struct {
	Data []dto.GenreResponse `json:"data"`
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			// redirects are answers, not something to follow
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

func (c *HTTPClient) Login(username, password string) (*dto.AuthResponse, error) {
	var result dto.AuthResponse
	err := c.doJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Register(username, password, email string) (*dto.RegisterResponse, error) {
	var result dto.RegisterResponse
	err := c.doJSON(http.MethodPost, "/api/auth/register", map[string]string{
		"username":  username,
		"email":     email,
		"password1": password,
		"password2": password,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Refresh(refreshToken string) (*dto.RefreshResponse, error) {
	var result dto.RefreshResponse
	err := c.doJSON(http.MethodPost, "/api/auth/refresh", dto.RefreshTokenRequest{RefreshToken: refreshToken}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListBooks(page int) (*dto.PaginatedBookResponse, error) {
	var result dto.PaginatedBookResponse
	if err := c.do(http.MethodGet, "/shop/hello/"+strconv.Itoa(page), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetBook(slug string) (*dto.BookDetailResponse, error) {
	var result dto.BookDetailResponse
	if err := c.do(http.MethodGet, "/shop/book/"+url.PathEscape(slug), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) RateBook(bookID int64, rate int) (*RateResponse, error) {
	var result RateResponse
	form := url.Values{
		"book_id": {strconv.FormatInt(bookID, 10)},
		"rate":    {strconv.Itoa(rate)},
	}
	if err := c.do(http.MethodPost, "/shop/add_book_rate_ajax/", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) RemoveRating(bookID int64) (float64, error) {
	var result RateResponse
	if err := c.do(http.MethodDelete, fmt.Sprintf("/shop/book_rate_ajax/%d/", bookID), nil, &result); err != nil {
		return 0, err
	}
	return result.CachedRate, nil
}

func (c *HTTPClient) AddComment(bookID int64, text string) (*dto.CommentResponse, error) {
	var result commentEnvelope
	form := url.Values{
		"book_id": {strconv.FormatInt(bookID, 10)},
		"text":    {text},
	}
	if err := c.do(http.MethodPost, "/shop/add_new_comment_ajax/", form, &result); err != nil {
		return nil, err
	}
	return &result.Comment, nil
}

func (c *HTTPClient) DeleteComment(commentID int64) error {
	return c.do(http.MethodPost, fmt.Sprintf("/shop/delete_comment_ajax/%d/", commentID), url.Values{}, nil)
}

func (c *HTTPClient) ToggleLike(commentID int64) (*LikeResponse, error) {
	var result LikeResponse
	form := url.Values{"comment_id": {strconv.FormatInt(commentID, 10)}}
	if err := c.do(http.MethodPost, "/shop/add_like_ajax/", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetLike likes (PUT) or unlikes (DELETE) a comment
func (c *HTTPClient) SetLike(commentID int64, liked bool) (*LikeResponse, error) {
	method := http.MethodDelete
	if liked {
		method = http.MethodPut
	}
	var result LikeResponse
	if err := c.do(method, fmt.Sprintf("/shop/comment_like_ajax/%d/", commentID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) ListGenres() ([]dto.GenreResponse, error) {
	var result genreList
	if err := c.do(http.MethodGet, "/shop/genres/", nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

func (c *HTTPClient) CreateGenre(title string) (*dto.GenreResponse, error) {
	var result dto.GenreResponse
	if err := c.do(http.MethodPost, "/shop/genres/", url.Values{"title": {title}}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) doJSON(method, path string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req, out)
}

// do sends form-encoded requests; a nil form sends no body
func (c *HTTPClient) do(method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return c.send(req, out)
}

func (c *HTTPClient) send(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(response.Body, 4096))
		return &APIError{Status: response.StatusCode, Body: strings.TrimSpace(string(b))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(out)
}
