package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/tutor_market/internal/apperr"
	"github.com/gin-gonic/gin"
)

// respondError переводит вид бизнес-ошибки в HTTP-статус.
// Внутренние ошибки наружу не раскрываются.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindAuthorization:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindState:
		status = http.StatusUnprocessableEntity
	}

	c.JSON(status, gin.H{
		"success": false,
		"message": apperr.Message(err),
	})
}

func respondData(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}
