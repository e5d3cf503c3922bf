package api

import (
	"net/http"

	"whatsapp-notify/internal/dispatch"

	"github.com/gin-gonic/gin"
)

// respondValidationError maps the dispatch client's typed validation errors
// to their 400 envelopes. Each response carries enough detail for the caller
// to self-correct without another round trip.
func respondValidationError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *dispatch.UnknownTemplateError:
		c.JSON(http.StatusBadRequest, gin.H{
			"success":            false,
			"error":              e.Error(),
			"availableTemplates": e.Available,
		})

	case *dispatch.MissingPhoneError:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "phone is required"})

	case *dispatch.InvalidArgsError:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "templateArgs is required and must be an array"})

	case *dispatch.ArgCountError:
		c.JSON(http.StatusBadRequest, gin.H{
			"success":      false,
			"error":        e.Error(),
			"expectedArgs": e.ArgDescriptions,
			"sampleArgs":   e.SampleArgs,
		})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	}
}
