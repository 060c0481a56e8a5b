package dto

type GenerateEssayRequestDTO struct {
	Topic  string `json:"topic" example:"The future of renewable energy"`
	Style  string `json:"style" example:"academic" enums:"academic,creative,simple,formal"`
	Length string `json:"length" example:"medium" enums:"short,medium,long"`
}

type RefineEssayRequestDTO struct {
	Essay        string `json:"essay"`
	Instructions string `json:"instructions" example:"Make it more concise"`
}

// EssayMetadataDTO carries topic/style/length/generatedAt for generation
// and only refinedAt for refinement.
type EssayMetadataDTO struct {
	Topic       string `json:"topic,omitempty"`
	Style       string `json:"style,omitempty"`
	Length      string `json:"length,omitempty"`
	GeneratedAt string `json:"generatedAt,omitempty" example:"2025-01-01T12:00:00Z"`
	RefinedAt   string `json:"refinedAt,omitempty" example:"2025-01-01T12:00:00Z"`
}

type EssayResponseDTO struct {
	Essay    string           `json:"essay"`
	Metadata EssayMetadataDTO `json:"metadata"`
}
