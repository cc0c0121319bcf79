package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"openschool/internal/api/v1/dto"
	"openschool/internal/model"
	"openschool/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// UserHandler handles account endpoints: registration, auth and profiles.
type UserHandler struct {
	userService service.UserService
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, validate *validator.Validate, logger zerolog.Logger) *UserHandler {
	return &UserHandler{userService: userService, validate: validate, logger: logger}
}

// RegisterRoutes mounts user routes. Registration, login and token refresh are
// public; everything else requires an access token. Payment routes share the
// /users/ prefix but are registered on a longer one and win.
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users/register/", http.HandlerFunc(h.register))
	mux.Handle("/users/login/", http.HandlerFunc(h.login))
	mux.Handle("/users/token/refresh/", http.HandlerFunc(h.refresh))
	mux.Handle("/users", authMw(http.HandlerFunc(h.listUsers)))
	mux.Handle("/users/", authMw(http.HandlerFunc(h.handleUser)))
}

func (h *UserHandler) handleUser(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/users/"), "/")
	if rest == "" {
		h.listUsers(w, r)
		return
	}
	parts := strings.SplitN(rest, "/", 2)
	id, ok := parseID(parts[0])
	if !ok {
		http.NotFound(w, r)
		return
	}
	sub := ""
	if len(parts) == 2 {
		sub = parts[1]
	}
	switch {
	case sub == "" && r.Method == http.MethodGet:
		h.getUser(w, r, id)
	case sub == "update" && (r.Method == http.MethodPatch || r.Method == http.MethodPut):
		h.updateUser(w, r, id)
	case sub == "delete" && r.Method == http.MethodDelete:
		h.deleteUser(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// register godoc
// @Summary Register a new account
// @Description Creates an active account. The password is write-only.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.UserRegisterDTO true "Registration request"
// @Success 201 {object} dto.UserPublicDTO
// @Failure 400 {string} string "Invalid JSON payload, validation failed or email taken"
// @Router /users/register [post]
func (h *UserHandler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.UserRegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	user := &model.User{Email: req.Email}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Town != nil {
		user.Town = *req.Town
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	created, err := h.userService.Register(r.Context(), user, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, userPublic(created))
}

// login godoc
// @Summary Log in
// @Description Verifies credentials and returns an access/refresh token pair.
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body dto.LoginDTO true "Login request"
// @Success 200 {object} dto.TokenPairDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Invalid credentials"
// @Router /users/login [post]
func (h *UserHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	access, refresh, err := h.userService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.TokenPairDTO{Access: access, Refresh: refresh})
}

// refresh godoc
// @Summary Refresh the access token
// @Description Exchanges a valid refresh token for a new access token.
// @Tags users
// @Accept json
// @Produce json
// @Param token body dto.TokenRefreshDTO true "Refresh request"
// @Success 200 {object} dto.TokenAccessDTO
// @Failure 401 {string} string "Invalid credentials"
// @Router /users/token/refresh [post]
func (h *UserHandler) refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.TokenRefreshDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	access, err := h.userService.Refresh(r.Context(), req.Refresh)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.TokenAccessDTO{Access: access})
}

// listUsers godoc
// @Summary List users
// @Description Returns public profiles of all users.
// @Tags users
// @Produce json
// @Success 200 {array} dto.UserPublicDTO
// @Failure 401 {string} string "Unauthorized"
// @Router /users [get]
func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	users, err := h.userService.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]dto.UserPublicDTO, 0, len(users))
	for i := range users {
		out = append(out, userPublic(&users[i]))
	}
	respondJSON(w, http.StatusOK, out)
}

// getUser godoc
// @Summary User profile
// @Description Returns the private profile with payment history when the
// @Description caller is the subject, the public profile otherwise.
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserPrivateDTO
// @Failure 404 {string} string "Not found"
// @Router /users/{id} [get]
func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := principalFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	user, payments, private, err := h.userService.Get(r.Context(), p, id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !private {
		respondJSON(w, http.StatusOK, userPublic(user))
		return
	}
	respondJSON(w, http.StatusOK, userPrivate(user, payments))
}

// updateUser godoc
// @Summary Update a profile
// @Description Updates profile fields. Subject only.
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body dto.UserUpdateDTO true "Profile update request"
// @Success 200 {object} dto.UserPrivateDTO
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /users/{id}/update [patch]
func (h *UserHandler) updateUser(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := principalFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.UserUpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	upd := model.UserUpdate{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Town:        req.Town,
		AvatarURL:   req.AvatarURL,
	}
	updated, err := h.userService.Update(r.Context(), p, id, upd)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, userPrivate(updated, nil))
}

// deleteUser godoc
// @Summary Delete an account
// @Description Removes the account. Subject only.
// @Tags users
// @Param id path int true "User ID"
// @Success 204
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /users/{id}/delete [delete]
func (h *UserHandler) deleteUser(w http.ResponseWriter, r *http.Request, id int64) {
	p, ok := principalFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if err := h.userService.Delete(r.Context(), p, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func userPublic(u *model.User) dto.UserPublicDTO {
	return dto.UserPublicDTO{ID: u.ID, Town: u.Town, AvatarURL: u.AvatarURL}
}

func userPrivate(u *model.User, payments []model.Payment) dto.UserPrivateDTO {
	out := dto.UserPrivateDTO{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		Town:        u.Town,
		AvatarURL:   u.AvatarURL,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLogin:   u.LastLogin,
		Payments:    make([]dto.PaymentResponseDTO, 0, len(payments)),
	}
	for i := range payments {
		out.Payments = append(out.Payments, paymentResponse(&payments[i], nil))
	}
	return out
}
