package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/live-learn-hub-api/internal/apperr"
	"github.com/live-learn-hub-api/internal/validation"
)

// respondError writes err with the status its code maps to.
// Internal errors are logged and reported without detail.
func respondError(c *gin.Context, log zerolog.Logger, err error, msg string) {
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) || appErr.Code == apperr.CodeInternal {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
		return
	}

	body := gin.H{"error": appErr.Message, "code": appErr.Code}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	c.JSON(apperr.HTTPStatus(appErr.Code), body)
}

// respondInvalid writes a validation failure
func respondInvalid(c *gin.Context, fields []apperr.FieldError) {
	appErr := apperr.Validation(fields)
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  appErr.Message,
		"code":   appErr.Code,
		"fields": fields,
	})
}

// bindJSON decodes the request body, answering 400 on malformed input
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// uuidParam reads a path id. Ids that are not UUIDs cannot exist, so they answer 404.
func uuidParam(c *gin.Context, name, resource string) (string, bool) {
	id := c.Param(name)
	if !validation.IsValidUUID(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": resource + " not found"})
		return "", false
	}
	return id, true
}

// limitQuery parses the optional limit query parameter
func limitQuery(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		respondInvalid(c, []apperr.FieldError{{Field: "limit", Message: "limit must be a positive integer", Value: raw}})
		return 0, false
	}
	return limit, true
}
