package httpapi

import "net/http"

// Routes builds the request mux for the whole HTTP surface.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /signup", a.handleSignup)
	mux.HandleFunc("POST /login", a.handleLogin)
	mux.HandleFunc("GET /healthz", a.handleHealth)

	mux.HandleFunc("GET /users/me", a.requireAuth(a.handleProfile))
	mux.HandleFunc("GET /users/me/rooms", a.requireAuth(a.handleMyRooms))

	mux.HandleFunc("POST /rooms/create", a.requireAuth(a.handleCreateRoom))
	mux.HandleFunc("GET /rooms/token/{token}", a.requireAuth(a.handleGetRoom))
	mux.HandleFunc("PUT /rooms/{token}", a.requireAuth(a.handleUpdateRoom))
	mux.HandleFunc("DELETE /rooms/{token}", a.requireAuth(a.handleDeleteRoom))

	mux.HandleFunc("GET /admin/rooms", a.requireAdmin(a.handleAdminListRooms))
	mux.HandleFunc("GET /admin/users", a.requireAdmin(a.handleAdminListUsers))
	mux.HandleFunc("DELETE /admin/users/{id}", a.requireAdmin(a.handleAdminDeleteUser))
	mux.HandleFunc("DELETE /admin/rooms/{token}", a.requireAdmin(a.handleAdminDeleteRoom))

	mux.HandleFunc("GET /ws/token/{room_token}", a.handleWebSocket)

	return mux
}
