package app

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/sanjayfuloria/simulation-game/internal/platform/errors"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/storage"
	"github.com/sanjayfuloria/simulation-game/internal/services/lab/user"
)

type authRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u user.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Role: string(u.Role)}
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body authRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	if strings.TrimSpace(body.Password) == "" {
		writeError(w, apperrors.New(apperrors.CodeAuthInvalidCredentials, "a password is required"))
		return
	}

	role, err := user.ParseRole(body.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, err)
		return
	}

	created, err := user.CreateUser(user.CreateUserInput{
		Email:        body.Email,
		PasswordHash: string(hash),
		Role:         role,
	}, s.clock, s.newID)
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := s.store.GetUserByEmail(r.Context(), created.Email); err == nil {
		writeError(w, apperrors.New(apperrors.CodeAuthEmailExists, "email already exists"))
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		writeError(w, err)
		return
	}

	if err := s.store.PutUser(r.Context(), created); err != nil {
		writeError(w, err)
		return
	}

	signed, err := s.signer.Issue(created.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: signed, User: toUserResponse(created)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body authRequest
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}

	invalid := apperrors.New(apperrors.CodeAuthInvalidCredentials, "invalid credentials")

	found, err := s.store.GetUserByEmail(r.Context(), body.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, invalid)
			return
		}
		writeError(w, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(body.Password)); err != nil {
		writeError(w, invalid)
		return
	}

	signed, err := s.signer.Issue(found.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: signed, User: toUserResponse(found)})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	current, err := s.authenticate(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(current))
}

// authenticate resolves the bearer token on a request to a stored user.
func (s *Server) authenticate(r *http.Request) (user.User, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return user.User{}, apperrors.New(apperrors.CodeAuthMissingToken, "missing bearer token")
	}
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return user.User{}, apperrors.New(apperrors.CodeAuthMissingToken, "missing bearer token")
	}

	userID, err := s.signer.Verify(raw)
	if err != nil {
		return user.User{}, err
	}
	current, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return user.User{}, apperrors.New(apperrors.CodeAuthInvalidToken, "unknown user")
		}
		return user.User{}, err
	}
	return current, nil
}

// requireInstructor authenticates and rejects non-instructor callers.
func (s *Server) requireInstructor(r *http.Request) (user.User, error) {
	current, err := s.authenticate(r)
	if err != nil {
		return user.User{}, err
	}
	if current.Role != user.RoleInstructor {
		return user.User{}, apperrors.New(apperrors.CodeAuthInstructorOnly, "instructor only")
	}
	return current, nil
}
