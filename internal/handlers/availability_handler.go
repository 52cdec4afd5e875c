package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/pawmates/internal/helpers"
	"github.com/joshua-takyi/pawmates/internal/services"
)

func CreateRecurringAvailability(a *services.AvailabilityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		var input services.CreateRecurringInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		entry, err := a.CreateRecurring(c.Request.Context(), claims.UserID, input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, helpers.SuccessResponse(entry, "Recurring availability created"))
	}
}

func ListRecurringAvailability(a *services.AvailabilityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		// Defaults to the caller's own schedule.
		sitterID := helpers.StringTrim(c.DefaultQuery("sitter_id", claims.UserID))

		entries, err := a.ListRecurring(c.Request.Context(), sitterID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(entries, ""))
	}
}

func UpdateRecurringAvailability(a *services.AvailabilityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		id := strings.TrimSpace(c.Param("id"))
		if id == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("availability ID is required"))
			return
		}

		var input services.UpdateRecurringInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		entry, err := a.UpdateRecurring(c.Request.Context(), claims.UserID, id, input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(entry, "Recurring availability updated"))
	}
}

func DeleteRecurringAvailability(a *services.AvailabilityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		id := strings.TrimSpace(c.Param("id"))
		if id == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("availability ID is required"))
			return
		}

		if _, err := a.DeleteRecurring(c.Request.Context(), claims.UserID, id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Recurring availability deleted"})
	}
}

func CreateSpecificAvailability(a *services.AvailabilityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		var input services.CreateSpecificInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		entry, err := a.CreateSpecific(c.Request.Context(), claims.UserID, input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, helpers.SuccessResponse(entry, "Specific availability created"))
	}
}

func ListSpecificAvailability(a *services.AvailabilityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		sitterID := helpers.StringTrim(c.DefaultQuery("sitter_id", claims.UserID))
		startDate := helpers.StringTrim(c.Query("start_date"))
		endDate := helpers.StringTrim(c.Query("end_date"))
		if startDate == "" || endDate == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("start_date and end_date are required"))
			return
		}

		entries, err := a.ListSpecific(c.Request.Context(), sitterID, startDate, endDate)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(entries, ""))
	}
}

func UpdateSpecificAvailability(a *services.AvailabilityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		id := strings.TrimSpace(c.Param("id"))
		if id == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("availability ID is required"))
			return
		}

		var input services.UpdateSpecificInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		entry, err := a.UpdateSpecific(c.Request.Context(), claims.UserID, id, input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(entry, "Specific availability updated"))
	}
}

func DeleteSpecificAvailability(a *services.AvailabilityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		id := strings.TrimSpace(c.Param("id"))
		if id == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("availability ID is required"))
			return
		}

		if _, err := a.DeleteSpecific(c.Request.Context(), claims.UserID, id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Specific availability deleted"})
	}
}

func GetSitterAvailability(a *services.AvailabilityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := currentUser(c); !ok {
			return
		}

		sitterID := strings.TrimSpace(c.Param("id"))
		if sitterID == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("sitter ID is required"))
			return
		}
		startDate := helpers.StringTrim(c.Query("start_date"))
		endDate := helpers.StringTrim(c.Query("end_date"))
		if startDate == "" || endDate == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("start_date and end_date are required"))
			return
		}

		view, err := a.GetSitterAvailability(c.Request.Context(), sitterID, startDate, endDate)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(view, ""))
	}
}
