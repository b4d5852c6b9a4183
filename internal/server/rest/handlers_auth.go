package rest

import (
	"net/http"

	"github.com/dmitrijs2005/bookmarker/internal/server/auth"
	"github.com/dmitrijs2005/bookmarker/internal/server/users"
	"github.com/dmitrijs2005/bookmarker/internal/server/validation"
)

type credentialsRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// decodeCredentials reads the body shared by signup and signin and runs
// check over it.
func (s *Server) decodeCredentials(w http.ResponseWriter, r *http.Request, check func(credentialsRequest) error) (credentialsRequest, error) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return req, err
	}
	if err := check(req); err != nil {
		return req, err
	}
	return req, nil
}

func checkSignUp(req credentialsRequest) error {
	return validation.SignUp(req.Email, req.Password, req.FirstName, req.LastName)
}

func checkSignIn(req credentialsRequest) error {
	return validation.SignIn(req.Email, req.Password)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeCredentials(w, r, checkSignUp)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.users.SignUp(r.Context(), users.SignUpInput{
		Email:     req.Email,
		Password:  auth.NewPassword(req.Password),
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse{AccessToken: token})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeCredentials(w, r, checkSignIn)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.users.SignIn(r.Context(), users.SignInInput{
		Email:    req.Email,
		Password: auth.NewPassword(req.Password),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}
