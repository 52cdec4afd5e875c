package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/pawmates/internal/helpers"
	"github.com/joshua-takyi/pawmates/internal/models"
	"github.com/joshua-takyi/pawmates/internal/services"
)

func CreatePet(p *services.PetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		var pet models.Pet
		if err := c.ShouldBindJSON(&pet); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		created, err := p.CreatePet(c.Request.Context(), claims.UserID, &pet)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, helpers.SuccessResponse(created, "Pet created successfully"))
	}
}

func GetPet(p *services.PetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		petID := strings.TrimSpace(c.Param("id"))
		if petID == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("pet ID is required"))
			return
		}

		pet, err := p.GetPet(c.Request.Context(), petID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(pet, ""))
	}
}

func ListMyPets(p *services.PetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		offset, limit, ok := pagination(c)
		if !ok {
			return
		}

		pets, total, err := p.ListPets(c.Request.Context(), claims.UserID, offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, helpers.PaginatedResponse(pets, page, limit, total))
	}
}

func UpdatePet(p *services.PetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		petID := strings.TrimSpace(c.Param("id"))
		if petID == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("pet ID is required"))
			return
		}

		var fields map[string]interface{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid request body"))
			return
		}

		pet, err := p.UpdatePet(c.Request.Context(), claims.UserID, petID, fields)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(pet, "Pet updated successfully"))
	}
}

func DeletePet(p *services.PetService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		petID := strings.TrimSpace(c.Param("id"))
		if petID == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("pet ID is required"))
			return
		}

		if err := p.DeletePet(c.Request.Context(), claims.UserID, petID); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "pet deleted successfully"))
	}
}
