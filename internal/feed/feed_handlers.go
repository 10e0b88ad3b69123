package feed

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"

	"campusfeed/internal/common"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxUploadBytes = 64 << 20

type FeedHandler struct {
	svc      FeedUsecase
	validate *validator.Validate
	logger   *zap.Logger
}

func NewFeedHandler(svc FeedUsecase, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{
		svc:      svc,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes mounts the feed endpoints on an authenticated subrouter.
func (h *FeedHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	r.HandleFunc("/posts/{postID:[0-9]+}", h.GetPost).Methods(http.MethodGet)
	r.HandleFunc("/posts/{postID:[0-9]+}", h.EditPost).Methods(http.MethodPut)
	r.HandleFunc("/posts/{postID:[0-9]+}", h.DeletePost).Methods(http.MethodDelete)
	r.HandleFunc("/posts/{postID:[0-9]+}/like", h.ToggleLike).Methods(http.MethodPost)
	r.HandleFunc("/posts/{postID:[0-9]+}/bookmark", h.ToggleBookmark).Methods(http.MethodPost)
	r.HandleFunc("/posts/{postID:[0-9]+}/comments", h.ListComments).Methods(http.MethodGet)
	r.HandleFunc("/posts/{postID:[0-9]+}/comments", h.AddComment).Methods(http.MethodPost)
	r.HandleFunc("/posts/{postID:[0-9]+}/share", h.SharePost).Methods(http.MethodPost)
	r.HandleFunc("/comments/{commentID:[0-9]+}", h.DeleteComment).Methods(http.MethodDelete)
	r.HandleFunc("/feed", h.Feed).Methods(http.MethodGet)
	r.HandleFunc("/feed/check-new", h.CheckNewPosts).Methods(http.MethodGet)
	r.HandleFunc("/feed/load-new", h.LoadNewPosts).Methods(http.MethodGet)
	r.HandleFunc("/feed/load-more", h.LoadMorePosts).Methods(http.MethodGet)
	r.HandleFunc("/trending", h.Trending).Methods(http.MethodGet)
	r.HandleFunc("/bookmarks", h.Bookmarks).Methods(http.MethodGet)
	r.HandleFunc("/search/posts", h.SearchPosts).Methods(http.MethodGet)
	r.HandleFunc("/notifications", h.Notifications).Methods(http.MethodGet)
}

func pathID(r *http.Request, key string) (int64, bool) {
	raw := mux.Vars(r)[key]
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func formUpload(fh *multipart.FileHeader) (*Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	return &Upload{
		Name:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Data:     f,
	}, nil
}

// --------- POSTS ---------

func (h *FeedHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	in := PostInput{
		Content:     r.FormValue("content"),
		Category:    r.FormValue("category"),
		IsAnonymous: r.FormValue("is_anonymous") == "true",
	}
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File["images"] {
			upload, err := formUpload(fh)
			if err != nil {
				common.WriteError(w, http.StatusBadRequest, "unreadable image upload")
				return
			}
			in.Images = append(in.Images, *upload)
		}
		if files := r.MultipartForm.File["video"]; len(files) > 0 {
			upload, err := formUpload(files[0])
			if err != nil {
				common.WriteError(w, http.StatusBadRequest, "unreadable video upload")
				return
			}
			in.Video = upload
		}
	}

	view, err := h.svc.CreatePost(r.Context(), userID, in)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"post":    view,
	})
}

func (h *FeedHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFrom(r.Context())
	postID, ok := pathID(r, "postID")
	if !ok {
		common.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	view, comments, isOwner, err := h.svc.GetPost(r.Context(), userID, postID)
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"post":     view,
		"comments": comments,
		"is_owner": isOwner,
	})
}

type editPostRequest struct {
	Content     string `json:"content" validate:"required"`
	Category    string `json:"category" validate:"required"`
	IsAnonymous bool   `json:"is_anonymous"`
}

func (h *FeedHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFrom(r.Context())
	postID, ok := pathID(r, "postID")
	if !ok {
		common.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	var req editPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteFieldErrors(w, common.FieldErrors(err))
		return
	}

	if err := h.svc.EditPost(r.Context(), userID, postID, req.Content, req.Category, req.IsAnonymous); err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *FeedHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFrom(r.Context())
	postID, ok := pathID(r, "postID")
	if !ok {
		common.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := h.svc.DeletePost(r.Context(), userID, postID); err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFrom(r.Context())
	q := r.URL.Query()

	page, err := h.svc.Feed(r.Context(), userID, q.Get("category"), q.Get("q"), queryPage(r))
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, page)
}

func (h *FeedHandler) Trending(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFrom(r.Context())

	page, err := h.svc.Trending(r.Context(), userID, queryPage(r))
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, page)
}

// --------- LIKES / BOOKMARKS ---------

func (h *FeedHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	postID, valid := pathID(r, "postID")
	if !valid {
		common.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	liked, count, err := h.svc.ToggleLike(r.Context(), userID, postID)
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"liked":       liked,
		"likes_count": count,
	})
}

func (h *FeedHandler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	postID, valid := pathID(r, "postID")
	if !valid {
		common.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	bookmarked, err := h.svc.ToggleBookmark(r.Context(), userID, postID)
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"bookmarked": bookmarked,
	})
}

func (h *FeedHandler) Bookmarks(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	page, err := h.svc.Bookmarks(r.Context(), userID, queryPage(r))
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, page)
}

// --------- COMMENTS ---------

func (h *FeedHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFrom(r.Context())
	postID, ok := pathID(r, "postID")
	if !ok {
		common.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	comments, err := h.svc.ListComments(r.Context(), userID, postID)
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"comments": comments,
	})
}

func (h *FeedHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	postID, valid := pathID(r, "postID")
	if !valid {
		common.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var image, video *Upload
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["image"]; len(files) > 0 {
			up, err := formUpload(files[0])
			if err != nil {
				common.WriteError(w, http.StatusBadRequest, "unreadable image upload")
				return
			}
			image = up
		}
		if files := r.MultipartForm.File["video"]; len(files) > 0 {
			up, err := formUpload(files[0])
			if err != nil {
				common.WriteError(w, http.StatusBadRequest, "unreadable video upload")
				return
			}
			video = up
		}
	}

	view, count, err := h.svc.AddComment(r.Context(), userID, postID,
		r.FormValue("content"), r.FormValue("is_anonymous") == "true", image, video)
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success":        true,
		"comment":        view,
		"comments_count": count,
	})
}

func (h *FeedHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	commentID, valid := pathID(r, "commentID")
	if !valid {
		common.WriteError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	count, err := h.svc.DeleteComment(r.Context(), userID, commentID)
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"comments_count": count,
	})
}

// --------- SHARES ---------

func (h *FeedHandler) SharePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	postID, valid := pathID(r, "postID")
	if !valid {
		common.WriteError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	url, err := h.svc.ShareLink(r.Context(), userID, postID)
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"share_url": url,
	})
}

// --------- POLLING ---------

func (h *FeedHandler) CheckNewPosts(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFrom(r.Context())
	q := r.URL.Query()

	count, err := h.svc.CheckNewPosts(r.Context(), userID, q.Get("since"), q.Get("category"), q.Get("q"))
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"count": count})
}

func (h *FeedHandler) LoadNewPosts(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFrom(r.Context())
	q := r.URL.Query()

	result, err := h.svc.LoadNewPosts(r.Context(), userID, q.Get("since"), q.Get("category"), q.Get("q"))
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, result)
}

func (h *FeedHandler) LoadMorePosts(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFrom(r.Context())
	q := r.URL.Query()

	page, html, err := h.svc.LoadMorePosts(r.Context(), userID, q.Get("category"), q.Get("q"), queryPage(r))
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"html":     html,
		"has_next": page.HasNext,
		"page":     page.Page,
	})
}

// --------- SEARCH / NOTIFICATIONS ---------

func (h *FeedHandler) SearchPosts(w http.ResponseWriter, r *http.Request) {
	userID, _ := common.UserIDFrom(r.Context())
	q := r.URL.Query()

	page, err := h.svc.SearchPosts(r.Context(), userID, q.Get("q"), q.Get("tab"), queryPage(r))
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, page)
}

func (h *FeedHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	items, err := h.svc.Activity(r.Context(), userID)
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"activities": items,
	})
}
