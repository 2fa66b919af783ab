package web

import (
	"net/http"

	"github.com/cohl/pennypicker/internal/auth"
	"github.com/cohl/pennypicker/internal/storage"
)

type tokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func (s *Server) issueTokenPair(userID string) (*tokenPair, error) {
	access, err := s.tokens.IssueAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return &tokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if _, err := s.repo.GetUserByEmail(req.Email); err == nil {
		respondError(w, http.StatusConflict, "Email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hash password", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := &storage.User{
		Email:          req.Email,
		HashedPassword: hash,
		FullName:       req.FullName,
		PhoneNumber:    req.PhoneNumber,
		IsActive:       true,
		Role:           storage.RoleUser,
	}
	if err := s.repo.CreateUser(user); err != nil {
		s.logger.Error("create user", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user, err := s.repo.GetUserByEmail(req.Email)
	if err != nil || !auth.VerifyPassword(req.Password, user.HashedPassword) {
		respondError(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	if !user.IsActive {
		respondError(w, http.StatusForbidden, "Account is disabled")
		return
	}

	pair, err := s.issueTokenPair(user.ID)
	if err != nil {
		s.logger.Error("issue tokens", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, pair)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	userID, err := s.tokens.Verify(req.RefreshToken, auth.TokenRefresh)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	user, err := s.repo.GetUserByID(userID)
	if err != nil || !user.IsActive {
		respondError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	pair, err := s.issueTokenPair(user.ID)
	if err != nil {
		s.logger.Error("issue tokens", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, pair)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, userFrom(r))
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req updateMeRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			s.logger.Error("hash password", "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		user.HashedPassword = hash
	}

	if err := s.repo.UpdateUser(user); err != nil {
		s.logger.Error("update user", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// handleLogout is stateless: tokens expire on their own, the client just
// drops them. The endpoint exists so clients have a uniform flow.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"detail": "Logged out"})
}
