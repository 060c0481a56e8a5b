package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techsphere/cmd/api/auth"
	"techsphere/cmd/api/dto"
	"techsphere/config"
)

func newTestUserService(t *testing.T) (*UserService, *auth.LocalProvider) {
	t.Helper()
	provider, err := auth.NewLocalProvider(config.AuthConfig{JWTSecret: "s"})
	require.NoError(t, err)

	blogs, store, _ := newTestBlogService(t)
	seedDemo(t, store)
	return NewUserService(provider, blogs), provider
}

func TestGetUserProfile(t *testing.T) {
	svc, _ := newTestUserService(t)

	profile, err := svc.GetUserProfile(context.Background(), "demo-user")
	require.NoError(t, err)
	assert.Equal(t, "Demo User", profile.DisplayName)
	assert.Equal(t, "demo@techsphere.com", profile.Email)
	assert.NotEmpty(t, profile.CreatedAt)

	_, err = svc.GetUserProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUserBlogs(t *testing.T) {
	svc, _ := newTestUserService(t)

	blogs, err := svc.ListUserBlogs(context.Background(), "demo-user")
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, "1", blogs[0].ID)

	blogs, err = svc.ListUserBlogs(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, blogs)
}

func TestUpdateProfile(t *testing.T) {
	svc, provider := newTestUserService(t)
	ctx := context.Background()
	owner := &auth.Identity{UID: "demo-user"}

	_, err := svc.UpdateProfile(ctx, &auth.Identity{UID: "intruder"}, "demo-user", dto.UpdateProfileRequestDTO{DisplayName: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateProfile(ctx, nil, "demo-user", dto.UpdateProfileRequestDTO{DisplayName: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	out, err := svc.UpdateProfile(ctx, owner, "demo-user", dto.UpdateProfileRequestDTO{DisplayName: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Profile updated successfully", out.Message)
	assert.Equal(t, "Renamed", out.DisplayName)
	assert.Empty(t, out.PhotoURL)

	u, err := provider.GetUser(ctx, "demo-user")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", u.DisplayName)

	// snapshots on existing content stay as written
	blogs, err := svc.ListUserBlogs(ctx, "demo-user")
	require.NoError(t, err)
	assert.Equal(t, "Demo User", blogs[0].Author.DisplayName)
}
