package dto

type CommentRequestDTO struct {
	Comment string     `json:"comment" example:"Great post!"`
	Author  *AuthorDTO `json:"author"`
}
