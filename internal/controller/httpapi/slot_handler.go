package httpapi

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/service"
	"github.com/gin-gonic/gin"
)

type SlotHandler struct {
	slots *service.SlotService
}

func NewSlotHandler(slots *service.SlotService) *SlotHandler {
	return &SlotHandler{slots: slots}
}

func (h *SlotHandler) ReplaceAvailability(c *gin.Context) {
	var req struct {
		Slots []struct {
			StartTime time.Time `json:"start_time" binding:"required"`
			EndTime   time.Time `json:"end_time" binding:"required"`
		} `json:"slots"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return
	}

	proposed := make([]model.ProposedSlot, 0, len(req.Slots))
	for _, s := range req.Slots {
		proposed = append(proposed, model.ProposedSlot{
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}

	created, rejected, err := h.slots.ReplaceAvailability(c.Request.Context(), principalFrom(c), proposed)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, "Availability updated successfully!", gin.H{
		"created":  created,
		"rejected": rejected,
	})
}
