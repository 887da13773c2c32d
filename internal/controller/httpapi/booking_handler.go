package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/tutor_market/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req struct {
		TutorID uuid.UUID `json:"tutor_id" binding:"required"`
		SlotID  uuid.UUID `json:"slot_id" binding:"required"`
		Note    string    `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), principalFrom(c), req.TutorID, req.SlotID, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, "Booking confirmed successfully!", booking)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid booking id"})
		return
	}

	booking, err := h.bookings.CompleteBooking(c.Request.Context(), principalFrom(c), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "Booking completed successfully!", booking)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid booking id"})
		return
	}

	booking, err := h.bookings.CancelBooking(c.Request.Context(), principalFrom(c), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "Booking cancelled successfully!", booking)
}

func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.bookings.GetUserBookings(c.Request.Context(), principalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "Bookings retrieved successfully!", bookings)
}

func (h *BookingHandler) Get(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid booking id"})
		return
	}

	booking, err := h.bookings.GetBooking(c.Request.Context(), principalFrom(c), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "Booking retrieved successfully!", booking)
}
