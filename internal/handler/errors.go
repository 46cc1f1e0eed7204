package handler

import (
	"errors"
	"log"
	"net/http"

	"netadmin/internal/apperrors"
	"netadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

// respondError recovers a service error at the request boundary: field
// errors as 422 with a per-field map, not-found as 404, business-rule
// conflicts as 409, everything else as an opaque 500.
func respondError(c *gin.Context, err error) {
	status := apperrors.Status(err)

	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		c.JSON(status, response.ValidationFailed(status, ve.Fields))
		return
	}

	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
		c.JSON(status, response.Error(status, "internal server error"))
		return
	}

	c.JSON(status, response.Error(status, err.Error()))
}
