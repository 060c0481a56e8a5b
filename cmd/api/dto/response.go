package dto

// ErrorResponseDTO는 공통 에러 응답 형식을 통일하기 위한 DTO이다.
type ErrorResponseDTO struct {
	Error string `json:"error" example:"Blog not found"`
}

// ErrorDetailsResponseDTO is returned when an upstream failure has extra context.
type ErrorDetailsResponseDTO struct {
	Error   string `json:"error" example:"Failed to generate essay"`
	Details string `json:"details,omitempty" example:"upstream returned 503"`
}

// MessageResponseDTO는 단순 메시지 응답 형식을 통일하기 위한 DTO이다.
type MessageResponseDTO struct {
	Message string `json:"message" example:"Blog deleted successfully"`
}

type HealthResponseDTO struct {
	Status  string `json:"status" example:"OK"`
	Message string `json:"message" example:"TechSphere API is running"`
	Mode    string `json:"mode" example:"DEMO"`
}
