package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/tutor_market/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req struct {
		BookingID uuid.UUID `json:"booking_id" binding:"required"`
		Rating    int       `json:"rating" binding:"required"`
		Comment   string    `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), principalFrom(c), req.BookingID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, "Review submitted successfully!", review)
}
