package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/realwork/site/internal/service"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parsePositiveInt(value string, fallback int) int {
	num, err := strconv.Atoi(value)
	if err != nil || num <= 0 {
		return fallback
	}
	return num
}

// fail answers a service error. Validation and not-found errors become 4xx
// responses; everything else goes to the error middleware as a 500.
func fail(c *gin.Context, err error, notFoundMessage string) {
	var validation *service.ValidationError
	switch {
	case errors.As(err, &validation):
		respondError(c, http.StatusBadRequest, validation.Message)
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, http.StatusConflict, "slug already in use")
	case notFoundMessage != "" && isNotFound(err):
		respondError(c, http.StatusNotFound, notFoundMessage)
	default:
		_ = c.Error(err)
		c.Abort()
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, service.ErrPageNotFound) ||
		errors.Is(err, service.ErrSectionNotFound) ||
		errors.Is(err, service.ErrPostNotFound) ||
		errors.Is(err, service.ErrDivisionNotFound) ||
		errors.Is(err, service.ErrJobNotFound)
}
