package services

import (
	"context"
	"fmt"
	"time"

	"techsphere/cmd/api/auth"
	"techsphere/cmd/api/dto"
	"techsphere/models"
)

// UserService projects identity-provider users; it never stores them.
type UserService struct {
	provider auth.Provider
	blogs    *BlogService
}

func NewUserService(provider auth.Provider, blogs *BlogService) *UserService {
	return &UserService{provider: provider, blogs: blogs}
}

// GetUserProfile 은 유저 프로필을 조회한다.
func (s *UserService) GetUserProfile(ctx context.Context, uid string) (*dto.UserProfileDTO, error) {
	u, err := s.provider.GetUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", mapUserErr(err))
	}
	return toProfileDTO(u), nil
}

func (s *UserService) ListUserBlogs(ctx context.Context, uid string) ([]models.Blog, error) {
	return s.blogs.ListByAuthor(ctx, uid)
}

// UpdateProfile lets a caller change only their own displayName/photoURL.
// Blogs and comments keep the author snapshot they were written with.
func (s *UserService) UpdateProfile(ctx context.Context, caller *auth.Identity, uid string, req dto.UpdateProfileRequestDTO) (*dto.UpdateProfileResponseDTO, error) {
	if caller == nil || caller.UID != uid {
		return nil, ErrForbidden
	}

	upd := auth.UserUpdate{DisplayName: req.DisplayName, PhotoURL: req.PhotoURL}
	if _, err := s.provider.UpdateUser(ctx, uid, upd); err != nil {
		return nil, fmt.Errorf("update user: %w", mapUserErr(err))
	}

	return &dto.UpdateProfileResponseDTO{
		Message:     "Profile updated successfully",
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	}, nil
}

func toProfileDTO(u *models.User) *dto.UserProfileDTO {
	out := &dto.UserProfileDTO{
		UID:         u.UID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
	}
	if !u.CreatedAt.IsZero() {
		out.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	return out
}
