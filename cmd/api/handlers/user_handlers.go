package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"techsphere/cmd/api/auth"
	"techsphere/cmd/api/dto"
	"techsphere/cmd/api/services"
)

// GetUserProfileHandler godoc
// @Summary      사용자 프로필 조회
// @Description  identity provider 에 저장된 프로필을 조회한다.
// @Tags         users
// @Param        userId  path  string  true  "User ID"
// @Produce      json
// @Success      200  {object}  dto.UserProfileDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /api/users/{userId} [get]
func GetUserProfileHandler(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := svc.GetUserProfile(c.Request.Context(), c.Param("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// ListUserBlogsHandler godoc
// @Summary      사용자 블로그 목록
// @Tags         users
// @Param        userId  path  string  true  "User ID"
// @Produce      json
// @Success      200  {array}  models.Blog
// @Router       /api/users/{userId}/blogs [get]
func ListUserBlogsHandler(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		blogs, err := svc.ListUserBlogs(c.Request.Context(), c.Param("userId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNilBlogs(blogs))
	}
}

// UpdateUserProfileHandler godoc
// @Summary      사용자 프로필 수정
// @Description  본인 프로필의 displayName/photoURL 만 수정할 수 있다.
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        userId  path      string                       true  "User ID"
// @Param        body    body      dto.UpdateProfileRequestDTO  true  "Profile fields"
// @Success      200     {object}  dto.UpdateProfileResponseDTO
// @Failure      401     {object}  dto.ErrorResponseDTO
// @Failure      403     {object}  dto.ErrorResponseDTO
// @Failure      404     {object}  dto.ErrorResponseDTO
// @Router       /api/users/{userId} [put]
func UpdateUserProfileHandler(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdateProfileRequestDTO
		if !bindJSON(c, &req) {
			return
		}

		caller, _ := auth.IdentityFrom(c)
		resp, err := svc.UpdateProfile(c.Request.Context(), caller, c.Param("userId"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
