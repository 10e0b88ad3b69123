package dm

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

type DMHandler struct {
	svc      DMUsecase
	validate *validator.Validate
	logger   *zap.Logger
}

func NewDMHandler(svc DMUsecase, logger *zap.Logger) *DMHandler {
	return &DMHandler{
		svc:      svc,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *DMHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/messages", h.Inbox).Methods(http.MethodGet)
	r.HandleFunc("/messages/unread-count", h.UnreadTotal).Methods(http.MethodGet)
	r.HandleFunc("/messages/open", h.OpenConversation).Methods(http.MethodPost)
	r.HandleFunc("/messages/share-post", h.SharePost).Methods(http.MethodPost)
	r.HandleFunc("/conversations/{conversationID}/messages", h.Messages).Methods(http.MethodGet)
	r.HandleFunc("/conversations/{conversationID}/messages", h.SendMessage).Methods(http.MethodPost)
	r.HandleFunc("/conversations/{conversationID}/poll", h.Poll).Methods(http.MethodGet)
	r.HandleFunc("/conversations/{conversationID}/read", h.MarkRead).Methods(http.MethodPost)
	r.HandleFunc("/direct-messages/{messageID:[0-9]+}", h.DeleteMessage).Methods(http.MethodDelete)
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

func (h *DMHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	views, err := h.svc.Inbox(r.Context(), userID)
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"conversations": views,
	})
}

func (h *DMHandler) UnreadTotal(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	count, err := h.svc.UnreadTotal(r.Context(), userID)
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"unread_count": count})
}

type openConversationRequest struct {
	UserID uint64 `json:"user_id" validate:"required"`
}

func (h *DMHandler) OpenConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req openConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteFieldErrors(w, common.FieldErrors(err))
		return
	}

	conv, err := h.svc.OpenConversation(r.Context(), userID, req.UserID)
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":         true,
		"conversation_id": conv.ID,
	})
}

func (h *DMHandler) Messages(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	conversationID := mux.Vars(r)["conversationID"]

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	views, err := h.svc.Messages(r.Context(), userID, conversationID, page)
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"messages": views,
	})
}

func (h *DMHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	conversationID := mux.Vars(r)["conversationID"]

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	in := MessageInput{Content: r.FormValue("content")}
	if d, err := strconv.Atoi(r.FormValue("voice_duration")); err == nil {
		in.VoiceDuration = d
	}
	if r.MultipartForm != nil {
		for field, target := range map[string]**Upload{
			"image": &in.Image,
			"video": &in.Video,
			"voice": &in.Voice,
		} {
			files := r.MultipartForm.File[field]
			if len(files) == 0 {
				continue
			}
			up, err := formUpload(files[0])
			if err != nil {
				common.WriteError(w, http.StatusBadRequest, "unreadable "+field+" upload")
				return
			}
			*target = up
		}
	}

	view, err := h.svc.SendMessage(r.Context(), userID, conversationID, in)
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": view,
	})
}

// Poll returns messages newer than the since cursor.
func (h *DMHandler) Poll(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	conversationID := mux.Vars(r)["conversationID"]

	views, err := h.svc.MessagesSince(r.Context(), userID, conversationID, r.URL.Query().Get("since"))
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"messages": views,
		"count":    len(views),
	})
}

func (h *DMHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	conversationID := mux.Vars(r)["conversationID"]

	marked, err := h.svc.MarkRead(r.Context(), userID, conversationID)
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"marked_count": marked,
	})
}

type sharePostRequest struct {
	RecipientID uint64 `json:"recipient_id" validate:"required"`
	PostID      int64  `json:"post_id" validate:"required"`
	Note        string `json:"note"`
}

func (h *DMHandler) SharePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req sharePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteFieldErrors(w, common.FieldErrors(err))
		return
	}

	view, err := h.svc.SharePost(r.Context(), userID, req.RecipientID, req.PostID, req.Note)
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": view,
	})
}

func (h *DMHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	messageID, err := strconv.ParseInt(mux.Vars(r)["messageID"], 10, 64)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid message id")
		return
	}

	if err := h.svc.DeleteMessage(r.Context(), userID, messageID); err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
