package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/namgiho96/giho-blog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	method string
	path   string
	auth   string
	body   map[string]string
}

// fakeAPI answers every call with the status and body registered for "METHOD path".
func fakeAPI(t *testing.T, routes map[string]func() (int, any)) (*httptest.Server, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, auth: r.Header.Get("Authorization")}
		_ = json.NewDecoder(r.Body).Decode(&rec.body)
		calls = append(calls, rec)

		handler, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"Not Found"}`))
			return
		}
		status, body := handler()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestCounters(t *testing.T) {
	srv, calls := fakeAPI(t, map[string]func() (int, any){
		"GET /api/posts/hello-world/likes":  func() (int, any) { return 200, models.LikeState{LikeCount: 3} },
		"POST /api/posts/hello-world/likes": func() (int, any) { return 200, models.LikeState{LikeCount: 4, IsLiked: true} },
		"GET /api/posts/hello-world/views":  func() (int, any) { return 200, models.ViewCount{ViewCount: 9} },
		"POST /api/posts/hello-world/views": func() (int, any) { return 200, models.ViewResult{ViewCount: 10, IsNewView: true} },
	})
	c := New(srv.URL+"/", WithToken("tok"))
	ctx := context.Background()

	state, err := c.LikeState(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, int64(3), state.LikeCount)

	state, err = c.ToggleLike(ctx, "hello-world")
	require.NoError(t, err)
	assert.True(t, state.IsLiked)

	count, err := c.ViewCount(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, int64(9), count.ViewCount)

	result, err := c.RecordView(ctx, "hello-world", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, models.ViewResult{ViewCount: 10, IsNewView: true}, result)

	last := (*calls)[len(*calls)-1]
	assert.Equal(t, "sess-1", last.body["sessionId"])
	assert.Equal(t, "Bearer tok", last.auth)
}

func TestComments(t *testing.T) {
	srv, calls := fakeAPI(t, map[string]func() (int, any){
		"GET /api/posts/p/comments": func() (int, any) {
			return 200, models.CommentList{Comments: []models.Comment{{ID: "c1"}}, Total: 1}
		},
		"POST /api/posts/p/comments": func() (int, any) {
			return 200, models.CommentEnvelope{Comment: models.Comment{ID: "c2", Content: "hi"}}
		},
		"PATCH /api/comments/c2": func() (int, any) {
			return 200, models.CommentEnvelope{Comment: models.Comment{ID: "c2", Content: "edited"}}
		},
		"DELETE /api/comments/c2": func() (int, any) { return 200, models.SuccessResponse{Success: true} },
	})
	c := New(srv.URL)
	ctx := context.Background()

	list, err := c.Comments(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	created, err := c.CreateComment(ctx, "p", "hi")
	require.NoError(t, err)
	assert.Equal(t, "c2", created.ID)
	assert.Equal(t, "hi", (*calls)[1].body["content"])

	updated, err := c.UpdateComment(ctx, "c2", "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	require.NoError(t, c.DeleteComment(ctx, "c2"))
	assert.Empty(t, (*calls)[3].auth)
}

func TestAPIError(t *testing.T) {
	srv, _ := fakeAPI(t, map[string]func() (int, any){
		"POST /api/posts/p/likes": func() (int, any) {
			return 401, models.ErrorResponse{Error: "Authentication required"}
		},
	})
	c := New(srv.URL)

	_, err := c.ToggleLike(context.Background(), "p")
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 401, apiErr.Status)
	assert.Equal(t, "Authentication required", apiErr.Message)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))

	_, err = c.Comments(context.Background(), "missing")
	assert.True(t, IsStatus(err, http.StatusNotFound))
}

func TestSession(t *testing.T) {
	srv, _ := fakeAPI(t, map[string]func() (int, any){
		"GET /api/auth/session": func() (int, any) {
			return 200, models.SessionResponse{User: &models.AuthUser{ID: "u1", UserName: "octo"}}
		},
		"POST /auth/logout": func() (int, any) { return 200, models.SuccessResponse{Success: true} },
	})
	c := New(srv.URL, WithHTTPClient(srv.Client()), WithToken("tok"))

	user, err := c.Session(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "octo", user.UserName)
	require.NoError(t, c.Logout(context.Background()))
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := New(srv.URL).LikeState(context.Background(), "p")
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestEventsURL(t *testing.T) {
	u, err := New("https://blog.example/").EventsURL("hello-world", "s 1")
	require.NoError(t, err)
	assert.Equal(t, "wss://blog.example/api/ws/posts/hello-world?sessionId=s+1", u)

	u, err = New("http://localhost:8080").EventsURL("p", "")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8080/api/ws/posts/p", u)
}
