package api

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"serwer-kont/internal/auth"
	"serwer-kont/internal/database"
	"serwer-kont/internal/logger"
	"serwer-kont/internal/models"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

type LoginRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"password123"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LoginResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// issueTokens mints a fresh access/refresh pair and persists the refresh
// token on the user record, superseding whatever token was stored before.
func (s *Server) issueTokens(ctx context.Context, user *models.User) (string, string, error) {
	accessToken, err := auth.GenerateAccessToken(user, s.config.JWT.AccessSecret, s.config.JWT.AccessTTL)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := auth.GenerateRefreshToken(user.ID, s.config.JWT.RefreshSecret, s.config.JWT.RefreshTTL)
	if err != nil {
		return "", "", err
	}

	if err := s.store.SetRefreshToken(ctx, user.ID, &refreshToken); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *Server) setTokenCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(s.config.JWT.AccessTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(s.config.JWT.RefreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
	})
}

func clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
		})
	}
}

// uploadImage pushes one multipart image to the media store under a random
// object key and returns its public URL.
func (s *Server) uploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (string, error) {
	generateID, err := nanoid.Standard(21)
	if err != nil {
		return "", err
	}

	objectName := folder + "/" + generateID() + strings.ToLower(filepath.Ext(header.Filename))

	return s.media.Upload(ctx, objectName, file, header.Size, header.Header.Get("Content-Type"))
}

// @Summary      Register a new user
// @Description  Creates an account from multipart form fields. The avatar image is required, the cover image is optional.
// @Tags         auth
// @Accept       mpfd
// @Produce      json
// @Param        username   formData  string  true   "Unique username, case-insensitive"
// @Param        email      formData  string  true   "Unique email"
// @Param        full_name  formData  string  true   "Display name"
// @Param        password   formData  string  true   "Password"
// @Param        avatar     formData  file    true   "Avatar image"
// @Param        cover_image formData file    false  "Cover image"
// @Success      201  {object}  apiResponse{data=models.User}
// @Failure      400  {object}  apiResponse
// @Failure      409  {object}  apiResponse
// @Failure      500  {object}  apiResponse
// @Router       /register [post]
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 50<<20)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Error parsing multipart form")
		return
	}

	username := strings.ToLower(strings.TrimSpace(r.FormValue("username")))
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	fullName := strings.TrimSpace(r.FormValue("full_name"))
	password := r.FormValue("password")

	if username == "" || email == "" || fullName == "" || strings.TrimSpace(password) == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}

	existing, err := s.store.GetUserByUsernameOrEmail(r.Context(), username, email)
	if err != nil {
		logger.Error("failed to check for existing user", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "User with this username or email already exists")
		return
	}

	avatarFile, avatarHeader, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Avatar image is required")
		return
	}
	defer avatarFile.Close()

	avatarURL, err := s.uploadImage(r.Context(), avatarFile, avatarHeader, "avatars")
	if err != nil {
		logger.Error("avatar upload failed", logger.Err(err))
		writeError(w, http.StatusBadRequest, "Error uploading avatar image")
		return
	}

	coverImageURL := ""
	if coverFile, coverHeader, err := r.FormFile("cover_image"); err == nil {
		defer coverFile.Close()
		coverImageURL, err = s.uploadImage(r.Context(), coverFile, coverHeader, "covers")
		if err != nil {
			logger.Error("cover image upload failed", logger.Err(err))
			writeError(w, http.StatusBadRequest, "Error uploading cover image")
			return
		}
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	user, err := s.store.CreateUser(r.Context(), database.CreateUserParams{
		ID:            uuid.New(),
		Username:      username,
		Email:         email,
		FullName:      fullName,
		AvatarURL:     avatarURL,
		CoverImageURL: coverImageURL,
		PasswordHash:  hashedPassword,
	})
	if err != nil {
		// Two concurrent registrations can both pass the existence check;
		// the unique indexes turn the loser into a conflict as well.
		if errors.Is(err, database.ErrDuplicateUser) {
			writeError(w, http.StatusConflict, "User with this username or email already exists")
			return
		}
		logger.Error("failed to create user", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, "User registered successfully", user)
}

// @Summary      Log a user in
// @Description  Authenticates by username or email and sets accessToken/refreshToken cookies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        loginRequest  body      LoginRequest  true  "Login credentials"
// @Success      200  {object}  apiResponse{data=LoginResponse}
// @Failure      400  {object}  apiResponse
// @Failure      401  {object}  apiResponse
// @Failure      500  {object}  apiResponse
// @Router       /login [post]
func (s *Server) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity := strings.ToLower(strings.TrimSpace(req.Username))
	if identity == "" {
		identity = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if identity == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username or email and password are required")
		return
	}

	user, err := s.store.GetUserByIdentity(r.Context(), identity)
	if err != nil {
		logger.Error("failed to look up user", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "User does not exist")
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Password does not match")
		return
	}

	accessToken, refreshToken, err := s.issueTokens(r.Context(), user)
	if err != nil {
		logger.Error("failed to issue tokens", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	s.setTokenCookies(w, accessToken, refreshToken)
	writeJSON(w, http.StatusOK, "User logged in successfully", LoginResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// @Summary      Log the current user out
// @Description  Clears the stored refresh token and expires both cookies. Safe to call repeatedly.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse
// @Failure      401  {object}  apiResponse
// @Failure      500  {object}  apiResponse
// @Router       /logout [post]
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	if err := s.store.SetRefreshToken(r.Context(), claims.UserID, nil); err != nil {
		logger.Error("failed to clear refresh token", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to log out")
		return
	}

	clearTokenCookies(w)
	writeJSON(w, http.StatusOK, "User logged out", nil)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// @Summary      Rotate the refresh token
// @Description  Exchanges a valid refresh token (cookie or body) for a new access/refresh pair. Each refresh token can be redeemed at most once.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        refreshTokenRequest  body  RefreshTokenRequest  false  "Refresh token, if not sent as a cookie"
// @Success      200  {object}  apiResponse{data=TokenResponse}
// @Failure      401  {object}  apiResponse
// @Failure      500  {object}  apiResponse
// @Router       /refresh-token [post]
func (s *Server) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	var incoming string
	if cookie, err := r.Cookie("refreshToken"); err == nil {
		incoming = cookie.Value
	} else {
		var req RefreshTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			incoming = req.RefreshToken
		}
	}

	if incoming == "" {
		writeError(w, http.StatusUnauthorized, "Refresh token is required")
		return
	}

	claims, err := auth.VerifyRefreshToken(incoming, s.config.JWT.RefreshSecret)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid or expired refresh token")
		return
	}

	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		logger.Error("failed to look up user for refresh", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to refresh token")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	// A token that no longer matches the stored one was either rotated away
	// already or revoked by logout.
	if user.RefreshToken == nil || *user.RefreshToken != incoming {
		writeError(w, http.StatusUnauthorized, "Refresh token is expired or has been revoked")
		return
	}

	accessToken, refreshToken, err := s.issueTokens(r.Context(), user)
	if err != nil {
		logger.Error("failed to rotate tokens", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to refresh token")
		return
	}

	s.setTokenCookies(w, accessToken, refreshToken)
	writeJSON(w, http.StatusOK, "Tokens refreshed", TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// @Summary      Change the current user's password
// @Description  Verifies the old password and stores a hash of the new one. Previously issued tokens stay valid.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        changePasswordRequest  body  ChangePasswordRequest  true  "Old and new password"
// @Success      200  {object}  apiResponse
// @Failure      400  {object}  apiResponse
// @Failure      401  {object}  apiResponse
// @Failure      500  {object}  apiResponse
// @Router       /change-password [post]
func (s *Server) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.OldPassword) == "" || strings.TrimSpace(req.NewPassword) == "" {
		writeError(w, http.StatusBadRequest, "Old and new password are required")
		return
	}

	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	if !auth.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "Old password does not match")
		return
	}

	hashedPassword, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	if err := s.store.UpdateUserPassword(r.Context(), user.ID, hashedPassword); err != nil {
		logger.Error("failed to update password", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	writeJSON(w, http.StatusOK, "Password changed successfully", nil)
}
