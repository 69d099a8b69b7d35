package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/namgiho96/giho-blog/internal/models"
	"github.com/namgiho96/giho-blog/internal/notifications"
	"github.com/namgiho96/giho-blog/pkg/widget"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeServer(t *testing.T, user *models.AuthUser) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
	mux.HandleFunc("GET /api/auth/session", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, models.SessionResponse{User: user})
	})
	mux.HandleFunc("POST /api/posts/hello-world/views", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, models.ViewResult{ViewCount: 11, IsNewView: true})
	})
	mux.HandleFunc("GET /api/posts/hello-world/likes", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, models.LikeState{LikeCount: 2})
	})
	mux.HandleFunc("POST /api/posts/hello-world/likes", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, models.LikeState{LikeCount: 3, IsLiked: true})
	})
	mux.HandleFunc("GET /api/posts/hello-world/comments", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, models.CommentList{Comments: []models.Comment{
			{ID: "c1", UserID: "u1", Content: "hi", User: models.CommentUser{DisplayName: "Giho"}},
		}, Total: 1})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), options{api: srv.URL, token: "tok", sessionDir: t.TempDir()}, args, &out)
	return out.String(), err
}

func TestRun_Usage(t *testing.T) {
	srv := fakeServer(t, nil)
	_, err := runCLI(t, srv)
	assert.ErrorIs(t, err, errUsage)
	_, err = runCLI(t, srv, "view")
	assert.ErrorIs(t, err, errUsage)
	_, err = runCLI(t, srv, "bogus", "x")
	assert.ErrorIs(t, err, errUsage)
}

func TestRun_View(t *testing.T) {
	out, err := runCLI(t, fakeServer(t, nil), "view", "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "hello-world: 11 views\n", out)
}

func TestRun_LikeRequiresLogin(t *testing.T) {
	_, err := runCLI(t, fakeServer(t, nil), "like", "hello-world")
	assert.ErrorIs(t, err, widget.ErrLoginRequired)
}

func TestRun_Like(t *testing.T) {
	out, err := runCLI(t, fakeServer(t, &models.AuthUser{ID: "u1"}), "like", "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "liked hello-world: 3 likes\n", out)
}

func TestRun_Comments(t *testing.T) {
	out, err := runCLI(t, fakeServer(t, &models.AuthUser{ID: "u1"}), "comments", "hello-world")
	require.NoError(t, err)
	assert.Contains(t, out, "* c1")
	assert.Contains(t, out, "Giho")
	assert.Contains(t, out, "1 comments")
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		ev   notifications.Event
		want string
	}{
		{notifications.Event{Type: notifications.EventLikeToggled, Slug: "a", Payload: map[string]any{"likeCount": float64(4)}}, "[a] likes: 4"},
		{notifications.Event{Type: notifications.EventViewRecorded, Slug: "a", Payload: map[string]any{"viewCount": float64(9)}}, "[a] views: 9"},
		{notifications.Event{Type: notifications.EventCommentCreated, Slug: "a", Payload: map[string]any{"comment": map[string]any{"id": "c1"}}}, "[a] comment_created c1"},
		{notifications.Event{Type: notifications.EventCommentDeleted, Slug: "a", Payload: map[string]any{"id": "c2"}}, "[a] comment_deleted c2"},
		{notifications.Event{Type: "other", Slug: "a"}, "[a] other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describe(tt.ev))
	}
}
