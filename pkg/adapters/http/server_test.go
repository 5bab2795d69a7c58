package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpAdapter "github.com/aretw0/newsmeme/pkg/adapters/http"
	"github.com/aretw0/newsmeme/pkg/adapters/memory"
	"github.com/aretw0/newsmeme/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.AddPost(ctx, domain.Post{ID: 42, Author: "alice", Score: 16}))
	require.NoError(t, store.AddComment(ctx, domain.Comment{ID: 9, PostID: 42, Author: "bob"}))
	return store
}

func post(t *testing.T, h http.Handler, path, user string) (int, domain.ActionResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(""))
	if user != "" {
		req.Header.Set(httpAdapter.UserHeader, user)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	resp, err := domain.ParseResponse(w.Body.Bytes())
	require.NoError(t, err, "body: %s", w.Body.String())
	return w.Code, resp
}

type countingObserver struct {
	served map[string]int
}

func (o *countingObserver) ActionServed(action, result string) {
	o.served[action+":"+result]++
}

func TestServer_Actions(t *testing.T) {
	tests := []struct {
		name string
		path string
		user string
		want domain.ActionResponse
	}{
		{"upvote post", "/post/42/upvote/", "bob", domain.PostScore(42, 17)},
		{"downvote post", "/post/42/downvote/", "carol", domain.PostScore(42, 15)},
		{"upvote comment", "/comment/9/upvote/", "alice", domain.CommentScore(9, 1)},
		{"delete comment", "/comment/9/delete/", "bob", domain.CommentDeleted(9)},
		{"delete post", "/post/42/delete/", "alice", domain.Redirect("/")},
		{"anonymous", "/post/42/upvote/", "", domain.Failure(httpAdapter.MsgLoginRequired)},
		{"missing post", "/post/7/upvote/", "bob", domain.Failure(httpAdapter.MsgNotFound)},
		{"bad id", "/post/abc/upvote/", "bob", domain.Failure(httpAdapter.MsgNotFound)},
		{"own post", "/post/42/upvote/", "alice", domain.Failure(httpAdapter.MsgNotAllowed)},
		{"foreign comment", "/comment/9/delete/", "alice", domain.Failure(httpAdapter.MsgNotAllowed)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := httpAdapter.NewHandler(seededStore(t))
			code, resp := post(t, h, tt.path, tt.user)

			assert.Equal(t, http.StatusOK, code)
			resp.Fields = nil
			assert.Equal(t, tt.want, resp)
		})
	}
}

func TestServer_WireShape(t *testing.T) {
	h := httpAdapter.NewHandler(seededStore(t))

	req := httptest.NewRequest(http.MethodPost, "/post/42/upvote/", nil)
	req.Header.Set(httpAdapter.UserHeader, "bob")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success": true, "post_id": 42, "score": 17}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/post/42/upvote/", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.JSONEq(t, `{"success": false, "error": "Login required"}`, w.Body.String())
}

func TestServer_ModeratorDeletes(t *testing.T) {
	h := httpAdapter.NewHandler(seededStore(t), httpAdapter.WithModerators("mod"))

	_, resp := post(t, h, "/comment/9/delete/", "carol")
	assert.Equal(t, httpAdapter.MsgNotAllowed, resp.Error)

	_, resp = post(t, h, "/comment/9/delete/", "mod")
	assert.True(t, resp.Success)
	assert.Equal(t, int64(9), resp.CommentID)

	_, resp = post(t, h, "/post/42/delete/", "mod")
	assert.Equal(t, "/", resp.RedirectURL)

	_, resp = post(t, h, "/post/42/upvote/", "mod")
	assert.Equal(t, httpAdapter.MsgNotFound, resp.Error)
}

func TestServer_SecondVoteIsRejected(t *testing.T) {
	h := httpAdapter.NewHandler(seededStore(t))

	_, first := post(t, h, "/post/42/upvote/", "bob")
	assert.True(t, first.Success)

	_, second := post(t, h, "/post/42/upvote/", "bob")
	assert.False(t, second.Success)
	assert.Equal(t, httpAdapter.MsgNotAllowed, second.Error)
}

func TestServer_ObserverAndMetrics(t *testing.T) {
	obs := &countingObserver{served: map[string]int{}}
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# metrics"))
	})
	h := httpAdapter.NewHandler(seededStore(t),
		httpAdapter.WithServerObserver(obs),
		httpAdapter.WithMetricsHandler(metrics),
	)

	post(t, h, "/post/42/upvote/", "bob")
	post(t, h, "/post/42/upvote/", "")

	assert.Equal(t, 1, obs.served["post.upvote:payload"])
	assert.Equal(t, 1, obs.served["post.upvote:error"])

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "# metrics", w.Body.String())
}

func TestServer_Health(t *testing.T) {
	h := httpAdapter.NewHandler(memory.NewStore())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestServer_WrongMethod(t *testing.T) {
	h := httpAdapter.NewHandler(seededStore(t))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/post/42/upvote/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
