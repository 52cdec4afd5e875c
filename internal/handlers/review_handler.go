package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/joshua-takyi/pawmates/internal/helpers"
	"github.com/joshua-takyi/pawmates/internal/services"
)

func CreateReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}
		if !claims.IsOwner() {
			c.JSON(http.StatusForbidden, helpers.ErrorResponse("only pet owners can write reviews"))
			return
		}

		var input services.CreateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		review, err := r.CreateReview(c.Request.Context(), claims.UserID, input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, helpers.SuccessResponse(review, "Review created successfully"))
	}
}

func UpdateReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		reviewID := strings.TrimSpace(c.Param("id"))
		if reviewID == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("review ID is required"))
			return
		}

		var input services.UpdateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		review, err := r.UpdateReview(c.Request.Context(), claims.UserID, reviewID, input)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(review, "Review updated successfully"))
	}
}

func DeleteReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := currentUser(c)
		if !ok {
			return
		}

		reviewID := strings.TrimSpace(c.Param("id"))
		if reviewID == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("review ID is required"))
			return
		}

		review, err := r.DeleteReview(c.Request.Context(), claims.UserID, reviewID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(review, "Review deleted successfully"))
	}
}

func GetReview(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID := strings.TrimSpace(c.Param("id"))
		if reviewID == "" {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("review ID is required"))
			return
		}

		review, err := r.GetReview(c.Request.Context(), reviewID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, helpers.SuccessResponse(review, ""))
	}
}

func ListReviews(r *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		offset, limit, ok := pagination(c)
		if !ok {
			return
		}

		sitterID := strings.TrimSpace(c.Query("sitter_id"))

		reviews, total, err := r.ListReviews(c.Request.Context(), sitterID, offset, limit)
		if err != nil {
			respondError(c, err)
			return
		}

		page := (offset / limit) + 1
		c.JSON(http.StatusOK, helpers.PaginatedResponse(reviews, page, limit, total))
	}
}
