package database

import (
	"context"
	"fmt"
	"serwer-kont/internal/auth"
	"serwer-kont/internal/models"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, username string) *models.User {
	hashedPassword, err := auth.HashPassword("secretpassword")
	require.NoError(t, err)

	user, err := testStore.CreateUser(context.Background(), CreateUserParams{
		ID:           uuid.New(),
		Username:     username,
		Email:        fmt.Sprintf("%s@example.com", username),
		FullName:     "Test User",
		AvatarURL:    "https://media.test/avatars/" + username + ".png",
		PasswordHash: hashedPassword,
	})
	require.NoError(t, err)
	require.NotNil(t, user)
	return user
}

func TestCreateUser(t *testing.T) {
	user := createTestUser(t, "create_user_test")

	require.Equal(t, "create_user_test", user.Username)
	require.Equal(t, "create_user_test@example.com", user.Email)
	require.Empty(t, user.CoverImageURL)
	require.Nil(t, user.RefreshToken)
	require.NotZero(t, user.CreatedAt)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	createTestUser(t, "duplicate_username_test")

	_, err := testStore.CreateUser(context.Background(), CreateUserParams{
		ID:           uuid.New(),
		Username:     "duplicate_username_test",
		Email:        "different@example.com",
		FullName:     "Other User",
		AvatarURL:    "https://media.test/avatars/other.png",
		PasswordHash: "hash",
	})
	require.ErrorIs(t, err, ErrDuplicateUser)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	createTestUser(t, "duplicate_email_test")

	_, err := testStore.CreateUser(context.Background(), CreateUserParams{
		ID:           uuid.New(),
		Username:     "someone_else_entirely",
		Email:        "duplicate_email_test@example.com",
		FullName:     "Other User",
		AvatarURL:    "https://media.test/avatars/other.png",
		PasswordHash: "hash",
	})
	require.ErrorIs(t, err, ErrDuplicateUser)
}

func TestGetUserByIdentity(t *testing.T) {
	created := createTestUser(t, "identity_test")

	byUsername, err := testStore.GetUserByIdentity(context.Background(), "identity_test")
	require.NoError(t, err)
	require.NotNil(t, byUsername)
	require.Equal(t, created.ID, byUsername.ID)
	require.NotEmpty(t, byUsername.PasswordHash)

	byEmail, err := testStore.GetUserByIdentity(context.Background(), "identity_test@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	require.Equal(t, created.ID, byEmail.ID)

	missing, err := testStore.GetUserByIdentity(context.Background(), "nonexistent")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestSetRefreshToken(t *testing.T) {
	user := createTestUser(t, "refresh_token_test")

	token := "some.signed.token"
	err := testStore.SetRefreshToken(context.Background(), user.ID, &token)
	require.NoError(t, err)

	stored, err := testStore.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.RefreshToken)
	require.Equal(t, token, *stored.RefreshToken)

	err = testStore.SetRefreshToken(context.Background(), user.ID, nil)
	require.NoError(t, err)

	cleared, err := testStore.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Nil(t, cleared.RefreshToken)
}

func TestUpdateUserPassword(t *testing.T) {
	user := createTestUser(t, "password_update_test")

	newHash, err := auth.HashPassword("newpassword")
	require.NoError(t, err)

	err = testStore.UpdateUserPassword(context.Background(), user.ID, newHash)
	require.NoError(t, err)

	updated, err := testStore.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, newHash, updated.PasswordHash)
	require.NotEqual(t, user.PasswordHash, updated.PasswordHash)
}

func TestUpdateUserProfile(t *testing.T) {
	user := createTestUser(t, "profile_update_test")

	newName := "Renamed User"
	updated, err := testStore.UpdateUserProfile(context.Background(), user.ID, UpdateUserProfileParams{
		FullName: &newName,
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed User", updated.FullName)
	require.Equal(t, user.Email, updated.Email, "email should be untouched by a partial update")

	newEmail := "profile_update_new@example.com"
	updated, err = testStore.UpdateUserProfile(context.Background(), user.ID, UpdateUserProfileParams{
		Email: &newEmail,
	})
	require.NoError(t, err)
	require.Equal(t, newEmail, updated.Email)
	require.Equal(t, "Renamed User", updated.FullName)
}

func TestUpdateUserProfile_DuplicateEmail(t *testing.T) {
	first := createTestUser(t, "profile_conflict_a")
	second := createTestUser(t, "profile_conflict_b")

	taken := first.Email
	_, err := testStore.UpdateUserProfile(context.Background(), second.ID, UpdateUserProfileParams{
		Email: &taken,
	})
	require.ErrorIs(t, err, ErrDuplicateUser)
}

func TestUpdateUserImages(t *testing.T) {
	user := createTestUser(t, "image_update_test")

	updated, err := testStore.UpdateUserAvatar(context.Background(), user.ID, "https://media.test/avatars/new.png")
	require.NoError(t, err)
	require.Equal(t, "https://media.test/avatars/new.png", updated.AvatarURL)

	updated, err = testStore.UpdateUserCoverImage(context.Background(), user.ID, "https://media.test/covers/new.png")
	require.NoError(t, err)
	require.Equal(t, "https://media.test/covers/new.png", updated.CoverImageURL)
	require.Equal(t, "https://media.test/avatars/new.png", updated.AvatarURL)
}
