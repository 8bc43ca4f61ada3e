package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"serwer-kont/internal/database"
	"serwer-kont/internal/logger"
)

// @Summary      Get the current user
// @Description  Returns the fresh account record of the authenticated user.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  apiResponse{data=models.User}
// @Failure      401  {object}  apiResponse
// @Failure      500  {object}  apiResponse
// @Router       /current-user [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve user")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "User no longer exists")
		return
	}

	writeJSON(w, http.StatusOK, "Current user fetched successfully", user)
}

type UpdateAccountRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
}

// @Summary      Update profile fields
// @Description  Partially updates the display fields of the authenticated user.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        updateAccountRequest  body  UpdateAccountRequest  true  "Fields to update"
// @Success      200  {object}  apiResponse{data=models.User}
// @Failure      400  {object}  apiResponse
// @Failure      409  {object}  apiResponse
// @Failure      500  {object}  apiResponse
// @Router       /update-account [patch]
func (s *Server) UpdateAccountHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FullName == nil && req.Email == nil {
		writeError(w, http.StatusBadRequest, "No update fields specified (provide 'full_name' or 'email')")
		return
	}

	if req.FullName != nil && strings.TrimSpace(*req.FullName) == "" {
		writeError(w, http.StatusBadRequest, "Full name cannot be empty")
		return
	}
	if req.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		if normalized == "" {
			writeError(w, http.StatusBadRequest, "Email cannot be empty")
			return
		}
		req.Email = &normalized
	}

	user, err := s.store.UpdateUserProfile(r.Context(), claims.UserID, database.UpdateUserProfileParams{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicateUser) {
			writeError(w, http.StatusConflict, "Email is already in use")
			return
		}
		logger.Error("failed to update profile", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to update account")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "User no longer exists")
		return
	}

	writeJSON(w, http.StatusOK, "Account updated successfully", user)
}

// @Summary      Replace the avatar image
// @Tags         users
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        avatar  formData  file  true  "New avatar image"
// @Success      200  {object}  apiResponse{data=models.User}
// @Failure      400  {object}  apiResponse
// @Failure      500  {object}  apiResponse
// @Router       /avatar [patch]
func (s *Server) UpdateAvatarHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 50<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Error parsing multipart form")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Avatar image is required")
		return
	}
	defer file.Close()

	avatarURL, err := s.uploadImage(r.Context(), file, header, "avatars")
	if err != nil {
		logger.Error("avatar upload failed", logger.Err(err))
		writeError(w, http.StatusBadRequest, "Error uploading avatar image")
		return
	}

	user, err := s.store.UpdateUserAvatar(r.Context(), claims.UserID, avatarURL)
	if err != nil {
		logger.Error("failed to update avatar", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to update avatar")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "User no longer exists")
		return
	}

	writeJSON(w, http.StatusOK, "Avatar updated successfully", user)
}

// @Summary      Replace the cover image
// @Tags         users
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        cover_image  formData  file  true  "New cover image"
// @Success      200  {object}  apiResponse{data=models.User}
// @Failure      400  {object}  apiResponse
// @Failure      500  {object}  apiResponse
// @Router       /cover-image [patch]
func (s *Server) UpdateCoverImageHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 50<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Error parsing multipart form")
		return
	}

	file, header, err := r.FormFile("cover_image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Cover image is required")
		return
	}
	defer file.Close()

	coverImageURL, err := s.uploadImage(r.Context(), file, header, "covers")
	if err != nil {
		logger.Error("cover image upload failed", logger.Err(err))
		writeError(w, http.StatusBadRequest, "Error uploading cover image")
		return
	}

	user, err := s.store.UpdateUserCoverImage(r.Context(), claims.UserID, coverImageURL)
	if err != nil {
		logger.Error("failed to update cover image", logger.Err(err))
		writeError(w, http.StatusInternalServerError, "Failed to update cover image")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "User no longer exists")
		return
	}

	writeJSON(w, http.StatusOK, "Cover image updated successfully", user)
}
