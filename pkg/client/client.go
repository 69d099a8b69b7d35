// Package client is a typed Go client for the blog interaction API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/namgiho96/giho-blog/internal/content"
	"github.com/namgiho96/giho-blog/internal/models"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response. Message is the server's error text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// PostList is the catalog response.
type PostList struct {
	Posts []content.PostMeta `json:"posts"`
	Total int                `json:"total"`
}

// Client talks to one API base URL, optionally as a signed-in user.
type Client struct {
	baseURL string
	token   string
	hc      *http.Client
	http    *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken authenticates requests with a session token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient swaps the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// New creates a client for baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(c)
	}

	if c.hc != nil {
		c.http = resty.NewWithClient(c.hc)
	} else {
		c.http = resty.New().SetTimeout(defaultTimeout)
	}
	c.http.SetBaseURL(c.baseURL).SetHeader("Accept", "application/json")
	if c.token != "" {
		c.http.SetAuthToken(c.token)
	}
	return c
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var apiErr models.ErrorResponse
	req := c.http.R().
		SetContext(ctx).
		SetError(&apiErr)
	if out != nil {
		req.SetResult(out)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return &APIError{Status: resp.StatusCode(), Message: msg}
	}
	return nil
}

func postPath(slug, resource string) string {
	p := "/api/posts/" + url.PathEscape(slug)
	if resource != "" {
		p += "/" + resource
	}
	return p
}

// Session returns the signed-in user, or nil for an anonymous client.
func (c *Client) Session(ctx context.Context) (*models.AuthUser, error) {
	var out models.SessionResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout revokes the client's session token.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, &models.SuccessResponse{})
}

func (c *Client) Posts(ctx context.Context) (PostList, error) {
	var out PostList
	err := c.do(ctx, http.MethodGet, "/api/posts", nil, &out)
	return out, err
}

func (c *Client) Post(ctx context.Context, slug string) (content.Post, error) {
	var out content.Post
	err := c.do(ctx, http.MethodGet, postPath(slug, ""), nil, &out)
	return out, err
}

func (c *Client) LikeState(ctx context.Context, slug string) (models.LikeState, error) {
	var out models.LikeState
	err := c.do(ctx, http.MethodGet, postPath(slug, "likes"), nil, &out)
	return out, err
}

// ToggleLike likes or unlikes the post and returns the server's resulting state.
func (c *Client) ToggleLike(ctx context.Context, slug string) (models.LikeState, error) {
	var out models.LikeState
	err := c.do(ctx, http.MethodPost, postPath(slug, "likes"), nil, &out)
	return out, err
}

func (c *Client) ViewCount(ctx context.Context, slug string) (models.ViewCount, error) {
	var out models.ViewCount
	err := c.do(ctx, http.MethodGet, postPath(slug, "views"), nil, &out)
	return out, err
}

// RecordView submits one view for sessionID.
func (c *Client) RecordView(ctx context.Context, slug, sessionID string) (models.ViewResult, error) {
	var out models.ViewResult
	body := map[string]string{"sessionId": sessionID}
	err := c.do(ctx, http.MethodPost, postPath(slug, "views"), body, &out)
	return out, err
}

func (c *Client) Comments(ctx context.Context, slug string) (models.CommentList, error) {
	var out models.CommentList
	err := c.do(ctx, http.MethodGet, postPath(slug, "comments"), nil, &out)
	return out, err
}

func (c *Client) CreateComment(ctx context.Context, slug, text string) (models.Comment, error) {
	var out models.CommentEnvelope
	err := c.do(ctx, http.MethodPost, postPath(slug, "comments"), map[string]string{"content": text}, &out)
	return out.Comment, err
}

func (c *Client) UpdateComment(ctx context.Context, id, text string) (models.Comment, error) {
	var out models.CommentEnvelope
	err := c.do(ctx, http.MethodPatch, "/api/comments/"+url.PathEscape(id), map[string]string{"content": text}, &out)
	return out.Comment, err
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/comments/"+url.PathEscape(id), nil, &models.SuccessResponse{})
}

// EventsURL is the websocket address of a post's live interaction feed.
func (c *Client) EventsURL(slug, sessionID string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/ws/posts/" + slug
	if sessionID != "" {
		u.RawQuery = url.Values{"sessionId": {sessionID}}.Encode()
	}
	return u.String(), nil
}
