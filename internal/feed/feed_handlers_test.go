package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusfeed/internal/common"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubUsecase lets each test plug in just the method it exercises.
type stubUsecase struct {
	FeedUsecase

	toggleLike func(ctx context.Context, userID uint64, postID int64) (bool, int64, error)
	checkNew   func(ctx context.Context, userID uint64, since, category, query string) (int64, error)
	loadNew    func(ctx context.Context, userID uint64, since, category, query string) (*NewPostsResult, error)
	getPost    func(ctx context.Context, requesterID uint64, postID int64) (*PostView, []CommentView, bool, error)
}

func (s *stubUsecase) ToggleLike(ctx context.Context, userID uint64, postID int64) (bool, int64, error) {
	return s.toggleLike(ctx, userID, postID)
}

func (s *stubUsecase) CheckNewPosts(ctx context.Context, userID uint64, since, category, query string) (int64, error) {
	return s.checkNew(ctx, userID, since, category, query)
}

func (s *stubUsecase) LoadNewPosts(ctx context.Context, userID uint64, since, category, query string) (*NewPostsResult, error) {
	return s.loadNew(ctx, userID, since, category, query)
}

func (s *stubUsecase) GetPost(ctx context.Context, requesterID uint64, postID int64) (*PostView, []CommentView, bool, error) {
	return s.getPost(ctx, requesterID, postID)
}

func newTestRouter(stub *stubUsecase) *mux.Router {
	router := mux.NewRouter()
	NewFeedHandler(stub, zap.NewNop()).RegisterRoutes(router)
	return router
}

func authed(req *http.Request, userID uint64) *http.Request {
	return req.WithContext(common.WithUserID(req.Context(), userID, "tester"))
}

func TestToggleLikeHandler_ResponseShape(t *testing.T) {
	stub := &stubUsecase{
		toggleLike: func(_ context.Context, userID uint64, postID int64) (bool, int64, error) {
			assert.Equal(t, uint64(7), userID)
			assert.Equal(t, int64(42), postID)
			return true, 5, nil
		},
	}
	router := newTestRouter(stub)

	req := authed(httptest.NewRequest(http.MethodPost, "/posts/42/like", nil), 7)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["liked"])
	assert.Equal(t, float64(5), body["likes_count"])
}

func TestToggleLikeHandler_Unauthenticated(t *testing.T) {
	router := newTestRouter(&stubUsecase{})

	req := httptest.NewRequest(http.MethodPost, "/posts/42/like", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToggleLikeHandler_UnknownPost(t *testing.T) {
	stub := &stubUsecase{
		toggleLike: func(_ context.Context, _ uint64, _ int64) (bool, int64, error) {
			return false, 0, common.ErrNotFound
		},
	}
	router := newTestRouter(stub)

	req := authed(httptest.NewRequest(http.MethodPost, "/posts/99/like", nil), 7)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckNewHandler_PassesQueryThrough(t *testing.T) {
	stub := &stubUsecase{
		checkNew: func(_ context.Context, userID uint64, since, category, query string) (int64, error) {
			assert.Equal(t, uint64(7), userID)
			assert.Equal(t, "2026-08-29T10:00:00Z", since)
			assert.Equal(t, "FUNNY", category)
			assert.Equal(t, "exam", query)
			return 3, nil
		},
	}
	router := newTestRouter(stub)

	req := authed(httptest.NewRequest(http.MethodGet,
		"/feed/check-new?since=2026-08-29T10:00:00Z&category=FUNNY&q=exam", nil), 7)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["count"])
}

func TestLoadNewHandler_EmptyResultIs200(t *testing.T) {
	stub := &stubUsecase{
		loadNew: func(_ context.Context, _ uint64, _, _, _ string) (*NewPostsResult, error) {
			return &NewPostsResult{}, nil
		},
	}
	router := newTestRouter(stub)

	req := authed(httptest.NewRequest(http.MethodGet, "/feed/load-new?since=garbage", nil), 7)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result NewPostsResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Zero(t, result.Count)
	assert.Nil(t, result.LatestTimestamp)
}

func TestGetPostHandler_InvalidID(t *testing.T) {
	router := newTestRouter(&stubUsecase{})

	req := authed(httptest.NewRequest(http.MethodGet, "/posts/0", nil), 7)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
