package user

import (
	"encoding/json"
	"net/http"
	"strconv"

	"campusfeed/internal/common"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const maxAvatarBytes = 8 << 20

type UserHandler struct {
	svc      UserUsecase
	validate *validator.Validate
	logger   *zap.Logger
}

func NewUserHandler(svc UserUsecase, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		svc:      svc,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterPublicRoutes mounts the unauthenticated endpoints.
func (h *UserHandler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
}

// RegisterRoutes mounts the endpoints requiring authentication.
func (h *UserHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/profile", h.OwnProfile).Methods(http.MethodGet)
	r.HandleFunc("/profile", h.UpdateProfile).Methods(http.MethodPut)
	r.HandleFunc("/users/{userID:[0-9]+}", h.Profile).Methods(http.MethodGet)
	r.HandleFunc("/users/{userID:[0-9]+}/follow", h.ToggleFollow).Methods(http.MethodPost)
	r.HandleFunc("/users/{userID:[0-9]+}/followers", h.Followers).Methods(http.MethodGet)
	r.HandleFunc("/users/{userID:[0-9]+}/following", h.Following).Methods(http.MethodGet)
	r.HandleFunc("/users/by-handle/{handle}", h.ProfileByHandle).Methods(http.MethodGet)
	r.HandleFunc("/search/users", h.SearchUsers).Methods(http.MethodGet)
}

type registerRequest struct {
	Handle     string `json:"username" validate:"required,min=3,max=50"`
	Password   string `json:"password" validate:"required,min=6,max=100"`
	Email      string `json:"email" validate:"omitempty,email"`
	Department string `json:"department" validate:"max=50"`
	Level      string `json:"level" validate:"max=10"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteFieldErrors(w, common.FieldErrors(err))
		return
	}

	user, token, err := h.svc.Register(r.Context(), RegisterInput{
		Handle:     req.Handle,
		Password:   req.Password,
		Email:      req.Email,
		Department: req.Department,
		Level:      req.Level,
	})
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success":  true,
		"token":    token,
		"user_id":  user.UserID,
		"username": user.Handle,
	})
}

type loginRequest struct {
	Handle   string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		common.WriteFieldErrors(w, common.FieldErrors(err))
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Handle, req.Password)
	if err != nil {
		common.WriteError(w, http.StatusUnauthorized, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"token":    token,
		"user_id":  user.UserID,
		"username": user.Handle,
	})
}

func (h *UserHandler) OwnProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	view, err := h.svc.Profile(r.Context(), userID, userID)
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": view,
	})
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := common.UserIDFrom(r.Context())
	targetID, err := strconv.ParseUint(mux.Vars(r)["userID"], 10, 64)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	view, err := h.svc.Profile(r.Context(), requesterID, targetID)
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": view,
	})
}

func (h *UserHandler) ProfileByHandle(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := common.UserIDFrom(r.Context())

	view, err := h.svc.ProfileByHandle(r.Context(), requesterID, mux.Vars(r)["handle"])
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": view,
	})
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	in := ProfileInput{
		Email:      r.FormValue("email"),
		Department: r.FormValue("department"),
		Level:      r.FormValue("level"),
		Bio:        r.FormValue("bio"),
	}
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["avatar"]; len(files) > 0 {
			f, err := files[0].Open()
			if err != nil {
				common.WriteError(w, http.StatusBadRequest, "unreadable avatar upload")
				return
			}
			in.Avatar = &AvatarUpload{
				Name:     files[0].Filename,
				MimeType: files[0].Header.Get("Content-Type"),
				Data:     f,
			}
		}
	}

	view, err := h.svc.UpdateProfile(r.Context(), userID, in)
	if err != nil {
		common.WriteError(w, common.StatusFromError(err), err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": view,
	})
}

func (h *UserHandler) ToggleFollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFrom(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	targetID, err := strconv.ParseUint(mux.Vars(r)["userID"], 10, 64)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	following, count, err := h.svc.ToggleFollow(r.Context(), userID, targetID)
	if err != nil {
		status := common.StatusFromError(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		common.WriteError(w, status, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"following":      following,
		"follower_count": count,
	})
}

func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseUint(mux.Vars(r)["userID"], 10, 64)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	users, err := h.svc.Followers(r.Context(), targetID, page)
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
	})
}

func (h *UserHandler) Following(w http.ResponseWriter, r *http.Request) {
	targetID, err := strconv.ParseUint(mux.Vars(r)["userID"], 10, 64)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	users, err := h.svc.Following(r.Context(), targetID, page)
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
	})
}

func (h *UserHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.SearchUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		common.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
	})
}
