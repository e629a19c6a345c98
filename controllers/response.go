package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pos-api/dtos"
	"pos-api/logger"
	"pos-api/services"
)

// respondValidation rejects a request that failed binding. The raw body, when
// gin cached one, is logged with the field errors.
func respondValidation(c *gin.Context, err error) {
	detail := dtos.ValidationErrors(err)

	log := logger.FromContext(c.Request.Context())
	event := log.Warn().
		Str("path", c.FullPath()).
		Interface("fields", detail)
	if body, ok := c.Get(gin.BodyBytesKey); ok {
		if raw, ok := body.([]byte); ok {
			event = event.Bytes("payload", raw)
		}
	}
	event.Msg("Request validation failed")

	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error":  "validation failed",
		"detail": detail,
	})
}

// respondError maps service errors to status codes.
func respondError(c *gin.Context, err error) {
	log := logger.FromContext(c.Request.Context())

	switch {
	case errors.Is(err, services.ErrConflict):
		log.Info().Err(err).Msg("Conflict")
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidInput):
		log.Warn().Err(err).Msg("Invalid input")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "detail": []dtos.FieldError{{Field: "body", Message: err.Error()}}})
	default:
		var storageErr *services.StorageError
		if errors.As(err, &storageErr) {
			log.Error().Err(storageErr.Err).Str("op", storageErr.Op).Msg("Storage failure")
		} else {
			log.Error().Err(err).Msg("Unexpected error")
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
