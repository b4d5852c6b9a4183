package rest

import "net/http"

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /auth/signin", s.handleSignIn)

	mux.HandleFunc("GET /users/me", s.requireAuth(s.handleMe))
	mux.HandleFunc("PATCH /users", s.requireAuth(s.handleEditUser))

	mux.HandleFunc("POST /bookmarks", s.requireAuth(s.handleCreateBookmark))
	mux.HandleFunc("GET /bookmarks", s.requireAuth(s.handleListBookmarks))
	mux.HandleFunc("GET /bookmarks/{id}", s.requireAuth(s.handleGetBookmark))
	mux.HandleFunc("PATCH /bookmarks/{id}", s.requireAuth(s.handleEditBookmark))
	mux.HandleFunc("DELETE /bookmarks/{id}", s.requireAuth(s.handleDeleteBookmark))

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
