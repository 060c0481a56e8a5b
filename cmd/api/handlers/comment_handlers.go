package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"techsphere/cmd/api/auth"
	"techsphere/cmd/api/dto"
	"techsphere/cmd/api/services"
	"techsphere/models"
)

// ListCommentsHandler godoc
// @Summary      List comments
// @Description  Comments of a blog, newest first
// @Tags         comments
// @Param        id   path  string  true  "Blog ID"
// @Produce      json
// @Success      200  {array}  models.Comment
// @Router       /api/blogs/{id}/comments [get]
func ListCommentsHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		comments, err := svc.ListComments(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if comments == nil {
			comments = []models.Comment{}
		}
		c.JSON(http.StatusOK, comments)
	}
}

// AddCommentHandler godoc
// @Summary      Add comment
// @Description  author defaults to the signed-in user, else Anonymous
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Blog ID"
// @Param        body  body      dto.CommentRequestDTO  true  "Comment"
// @Success      201   {object}  models.Comment
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Router       /api/blogs/{id}/comments [post]
func AddCommentHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CommentRequestDTO
		if !bindJSON(c, &req) {
			return
		}

		caller, _ := auth.IdentityFrom(c)
		comment, err := svc.AddComment(c.Request.Context(), c.Param("id"), req, caller)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, comment)
	}
}
