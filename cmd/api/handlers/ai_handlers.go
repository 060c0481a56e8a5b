package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"techsphere/cmd/api/dto"
	"techsphere/cmd/api/services"
)

// GenerateEssayHandler godoc
// @Summary      Generate essay
// @Description  LLM 으로 주제에 대한 에세이를 생성한다.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body      dto.GenerateEssayRequestDTO  true  "Topic, style, length"
// @Success      200   {object}  dto.EssayResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      500   {object}  dto.ErrorDetailsResponseDTO
// @Router       /api/ai/generate [post]
func GenerateEssayHandler(svc *services.EssayService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.GenerateEssayRequestDTO
		if !bindJSON(c, &req) {
			return
		}

		resp, err := svc.Generate(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// RefineEssayHandler godoc
// @Summary      Refine essay
// @Description  주어진 지시에 따라 에세이를 다듬는다.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RefineEssayRequestDTO  true  "Essay and instructions"
// @Success      200   {object}  dto.EssayResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      500   {object}  dto.ErrorDetailsResponseDTO
// @Router       /api/ai/refine [post]
func RefineEssayHandler(svc *services.EssayService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.RefineEssayRequestDTO
		if !bindJSON(c, &req) {
			return
		}

		resp, err := svc.Refine(c.Request.Context(), req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
