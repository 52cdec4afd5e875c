package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/pawmates/internal/helpers"
	"github.com/joshua-takyi/pawmates/internal/models"
	"github.com/joshua-takyi/pawmates/internal/services"
)

func CreateBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		if !claims.IsOwner() {
			c.JSON(http.StatusForbidden, helpers.ErrorResponse("only pet owners can create bookings"))
			return
		}

		var input services.CreateBookingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		booking, err := b.CreateBooking(c.Request.Context(), claims.UserID, input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, helpers.SuccessResponse(booking, "Booking created successfully"))
	}
}

func ChangeBookingStatus(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		bookingID := strings.TrimSpace(c.Param("id"))
		if bookingID == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("booking ID is required"))
			return
		}

		var input struct {
			Status models.BookingStatus `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		booking, err := b.ChangeStatus(c.Request.Context(), claims.UserID, bookingID, input.Status)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(booking, "Booking status updated"))
	}
}

func UpdateBookingDetails(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		bookingID := strings.TrimSpace(c.Param("id"))
		if bookingID == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("booking ID is required"))
			return
		}

		var input models.BookingDetailsUpdate
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		booking, err := b.UpdateDetails(c.Request.Context(), claims.UserID, bookingID, input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(booking, "Booking updated successfully"))
	}
}

func DeleteBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		bookingID := strings.TrimSpace(c.Param("id"))
		if bookingID == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("booking ID is required"))
			return
		}

		booking, err := b.DeleteBooking(c.Request.Context(), claims.UserID, bookingID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(booking, "Booking deleted successfully"))
	}
}

func GetBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		bookingID := strings.TrimSpace(c.Param("id"))
		if bookingID == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("booking ID is required"))
			return
		}

		booking, err := b.GetBooking(c.Request.Context(), claims.UserID, bookingID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(booking, ""))
	}
}

func ListBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		offset, limit, ok := pagination(c)
		if !ok {
			return
		}

		query := models.BookingQuery{
			UserID:  claims.UserID,
			AsOwner: c.DefaultQuery("as_owner", "true") != "false",
			Status:  models.BookingStatus(c.Query("status")),
			Offset:  offset,
			Limit:   limit,
		}

		bookings, total, err := b.ListBookings(c.Request.Context(), query)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, helpers.PaginatedResponse(bookings, page, limit, total))
	}
}
