package dto

// UserProfileDTO는 /api/users/:userId 응답 스키마를 나타낸다.
type UserProfileDTO struct {
	UID         string `json:"uid" example:"demo-user"`
	Email       string `json:"email" example:"demo@techsphere.com"`
	DisplayName string `json:"displayName" example:"Demo User"`
	PhotoURL    string `json:"photoURL"`
	CreatedAt   string `json:"createdAt,omitempty" example:"2025-01-01T12:00:00Z"`
}

type UpdateProfileRequestDTO struct {
	DisplayName string `json:"displayName" example:"New Name"`
	PhotoURL    string `json:"photoURL"`
}

type UpdateProfileResponseDTO struct {
	Message     string `json:"message" example:"Profile updated successfully"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}
