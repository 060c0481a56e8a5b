package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"techsphere/cmd/api/auth"
	"techsphere/cmd/api/dto"
	"techsphere/cmd/api/services"
	"techsphere/models"
)

// ListBlogsHandler godoc
// @Summary      List blogs
// @Description  Blogs ordered by orderBy/order (default createdAt desc)
// @Tags         blogs
// @Param        orderBy  query  string  false  "createdAt, updatedAt, views, rating or title"
// @Param        order    query  string  false  "asc or desc"
// @Param        limit    query  int     false  "Max results (default 50)"
// @Produce      json
// @Success      200  {array}   models.Blog
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /api/blogs [get]
func ListBlogsHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q dto.BlogListQuery
		if !bindQuery(c, &q) {
			return
		}

		blogs, err := svc.List(c.Request.Context(), q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNilBlogs(blogs))
	}
}

// TrendingBlogsHandler godoc
// @Summary      Trending blogs
// @Description  Top blogs by 0.7*rating + 0.001*views
// @Tags         blogs
// @Param        limit  query  int  false  "Max results (default 6)"
// @Produce      json
// @Success      200  {array}   dto.TrendingBlogDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /api/blogs/trending [get]
func TrendingBlogsHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ranked, err := svc.Trending(c.Request.Context(), c.Query("limit"))
		if err != nil {
			respondError(c, err)
			return
		}
		if ranked == nil {
			ranked = []dto.TrendingBlogDTO{}
		}
		c.JSON(http.StatusOK, ranked)
	}
}

// SearchBlogsHandler godoc
// @Summary      Search blogs
// @Description  Case-insensitive text match on title/content/excerpt, optionally filtered by tags
// @Tags         blogs
// @Param        q     query  string  false  "Search text"
// @Param        tags  query  string  false  "Comma separated tags (any match)"
// @Produce      json
// @Success      200  {array}  models.Blog
// @Router       /api/blogs/search [get]
func SearchBlogsHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q dto.BlogSearchQuery
		if !bindQuery(c, &q) {
			return
		}

		blogs, err := svc.Search(c.Request.Context(), q)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, nonNilBlogs(blogs))
	}
}

// GetBlogHandler godoc
// @Summary      Get blog by id
// @Description  Returns the blog and counts the read as a view
// @Tags         blogs
// @Param        id   path  string  true  "Blog ID"
// @Produce      json
// @Success      200  {object}  models.Blog
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /api/blogs/{id} [get]
func GetBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		blog, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, blog)
	}
}

// CreateBlogHandler godoc
// @Summary      Create blog
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Param        body  body      dto.BlogRequestDTO  true  "Blog"
// @Success      201   {object}  models.Blog
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Router       /api/blogs [post]
func CreateBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.BlogRequestDTO
		if !bindJSON(c, &req) {
			return
		}

		caller, _ := auth.IdentityFrom(c)
		blog, err := svc.Create(c.Request.Context(), req, caller)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, blog)
	}
}

// UpdateBlogHandler godoc
// @Summary      Update blog
// @Description  Supplied fields replace the stored ones; views and ratings are kept
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Blog ID"
// @Param        body  body      dto.BlogRequestDTO  true  "Fields to change"
// @Success      200   {object}  models.Blog
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Router       /api/blogs/{id} [put]
func UpdateBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.BlogRequestDTO
		if !bindJSON(c, &req) {
			return
		}

		blog, err := svc.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, blog)
	}
}

// DeleteBlogHandler godoc
// @Summary      Delete blog
// @Description  Deletes the blog with its comments and ratings
// @Tags         blogs
// @Param        id   path  string  true  "Blog ID"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /api/blogs/{id} [delete]
func DeleteBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "Blog deleted successfully"})
	}
}

// RateBlogHandler godoc
// @Summary      Rate blog
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Param        id    path      string                true  "Blog ID"
// @Param        body  body      dto.RatingRequestDTO  true  "Rating between 1 and 5"
// @Success      200   {object}  dto.RatingResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      404   {object}  dto.ErrorResponseDTO
// @Router       /api/blogs/{id}/rate [post]
func RateBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.RatingRequestDTO
		if !bindJSON(c, &req) {
			return
		}

		var userID string
		if caller, ok := auth.IdentityFrom(c); ok {
			userID = caller.UID
		}

		blog, err := svc.Rate(c.Request.Context(), c.Param("id"), req.Rating, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.RatingResponseDTO{Rating: blog.Rating, RatingCount: blog.RatingCount})
	}
}

func nonNilBlogs(blogs []models.Blog) []models.Blog {
	if blogs == nil {
		return []models.Blog{}
	}
	return blogs
}
