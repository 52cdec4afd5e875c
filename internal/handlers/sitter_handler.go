package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/pawmates/internal/helpers"
	"github.com/joshua-takyi/pawmates/internal/models"
	"github.com/joshua-takyi/pawmates/internal/services"
)

func ListSitters(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := pagination(c)
		if !ok {
			return
		}

		service := models.ServiceType(strings.TrimSpace(c.Query("service")))

		sitters, total, err := u.ListSitters(c.Request.Context(), service, offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, helpers.PaginatedResponse(sitters, page, limit, total))
	}
}

func GetSitter(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sitterID := strings.TrimSpace(c.Param("id"))
		if sitterID == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("sitter ID is required"))
			return
		}

		sitter, err := u.GetSitter(c.Request.Context(), sitterID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(sitter, ""))
	}
}
