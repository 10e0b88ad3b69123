package dm_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campusfeed/internal/common"
	"campusfeed/internal/dm"
	"campusfeed/internal/dm/mocks"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDMRouter(t *testing.T) (*mux.Router, *mocks.MockDMUsecase) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mock := mocks.NewMockDMUsecase(ctrl)
	router := mux.NewRouter()
	dm.NewDMHandler(mock, zap.NewNop()).RegisterRoutes(router)
	return router, mock
}

func authed(req *http.Request, userID uint64) *http.Request {
	return req.WithContext(common.WithUserID(req.Context(), userID, "tester"))
}

func TestUnreadCountHandler(t *testing.T) {
	router, mock := newDMRouter(t)
	mock.EXPECT().UnreadTotal(gomock.Any(), uint64(7)).Return(int64(4), nil)

	req := authed(httptest.NewRequest(http.MethodGet, "/messages/unread-count", nil), 7)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(4), body["unread_count"])
}

func TestUnreadCountHandler_Unauthenticated(t *testing.T) {
	router, _ := newDMRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/messages/unread-count", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMarkReadHandler(t *testing.T) {
	router, mock := newDMRouter(t)
	mock.EXPECT().MarkRead(gomock.Any(), uint64(7), "conv-1").Return(int64(3), nil)

	req := authed(httptest.NewRequest(http.MethodPost, "/conversations/conv-1/read", nil), 7)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(3), body["marked_count"])
}

func TestMarkReadHandler_NonMember(t *testing.T) {
	router, mock := newDMRouter(t)
	mock.EXPECT().MarkRead(gomock.Any(), uint64(7), "conv-1").Return(int64(0), common.ErrForbidden)

	req := authed(httptest.NewRequest(http.MethodPost, "/conversations/conv-1/read", nil), 7)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSharePostHandler(t *testing.T) {
	router, mock := newDMRouter(t)
	mock.EXPECT().
		SharePost(gomock.Any(), uint64(7), uint64(2), int64(10), "look").
		Return(&dm.MessageView{ID: 1, MessageType: "POST"}, nil)

	payload := `{"recipient_id": 2, "post_id": 10, "note": "look"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/messages/share-post", strings.NewReader(payload)), 7)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSharePostHandler_MissingFields(t *testing.T) {
	router, _ := newDMRouter(t)

	req := authed(httptest.NewRequest(http.MethodPost, "/messages/share-post", strings.NewReader(`{}`)), 7)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPollHandler_PassesCursor(t *testing.T) {
	router, mock := newDMRouter(t)
	mock.EXPECT().
		MessagesSince(gomock.Any(), uint64(7), "conv-1", "2026-08-29T10:00:00Z").
		Return([]dm.MessageView{{ID: 1, Content: "hi"}}, nil)

	req := authed(httptest.NewRequest(http.MethodGet,
		"/conversations/conv-1/poll?since=2026-08-29T10:00:00Z", nil), 7)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["count"])
}
