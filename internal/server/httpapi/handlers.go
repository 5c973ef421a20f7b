package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/roomchat/internal/common"
	"github.com/dmitrijs2005/roomchat/internal/server/models"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type createRoomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
}

type updateRoomRequest struct {
	Name string `json:"name"`
}

type roomResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPrivate   bool      `json:"is_private"`
	Token       string    `json:"room_token"`
	CreatedAt   time.Time `json:"created_at"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.UserName,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func newRoomResponse(r *models.Room) roomResponse {
	return roomResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsPrivate:   r.IsPrivate,
		Token:       r.Token,
		CreatedAt:   r.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeServiceError maps the service sentinel errors to HTTP statuses.
func (a *API) writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusBadRequest, "already exists")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, common.ErrorForbidden):
		writeError(w, http.StatusForbidden, "not allowed")
	default:
		a.logger.Error(ctx, "request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := a.users.Signup(r.Context(), req.Username, req.Email, req.Password, models.RoleUser)
	if err != nil {
		a.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newUserResponse(user))
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !readJSON(w, r, &req) {
		return
	}

	token, err := a.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		a.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	identity := identityFrom(r.Context())

	user, err := a.users.Profile(r.Context(), identity.Username)
	if err != nil {
		a.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}

func (a *API) handleMyRooms(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.actorID(w, r)
	if !ok {
		return
	}

	rooms, err := a.rooms.ListForUser(r.Context(), userID)
	if err != nil {
		a.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, roomResponses(rooms))
}

func (a *API) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.actorID(w, r)
	if !ok {
		return
	}

	var req createRoomRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "room name is required")
		return
	}

	room, err := a.rooms.Create(r.Context(), userID, req.Name, req.Description, req.IsPrivate)
	if err != nil {
		a.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newRoomResponse(room))
}

func (a *API) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := a.rooms.ResolveByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		a.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRoomResponse(room))
}

func (a *API) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.actorID(w, r)
	if !ok {
		return
	}

	var req updateRoomRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "room name is required")
		return
	}

	room, err := a.rooms.Rename(r.Context(), userID, r.PathValue("token"), req.Name)
	if err != nil {
		a.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRoomResponse(room))
}

func (a *API) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.actorID(w, r)
	if !ok {
		return
	}

	if err := a.rooms.Delete(r.Context(), userID, r.PathValue("token")); err != nil {
		a.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "room deleted"})
}

func (a *API) handleAdminListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := a.rooms.List(r.Context())
	if err != nil {
		a.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, roomResponses(rooms))
}

func (a *API) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.users.List(r.Context())
	if err != nil {
		a.writeServiceError(r.Context(), w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u))
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := a.users.Delete(r.Context(), id); err != nil {
		a.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "user deleted"})
}

func (a *API) handleAdminDeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := a.rooms.AdminDelete(r.Context(), r.PathValue("token")); err != nil {
		a.writeServiceError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "room deleted"})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// actorID parses the numeric user id carried inside the verified identity.
func (a *API) actorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	identity := identityFrom(r.Context())
	id, err := strconv.ParseInt(identity.UserID, 10, 64)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return 0, false
	}
	return id, true
}

func roomResponses(rooms []*models.Room) []roomResponse {
	out := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, newRoomResponse(room))
	}
	return out
}
