package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"visaflow/internal/authz"
	"visaflow/internal/middleware"
	"visaflow/internal/services"
)

func getUserAndRole(c *gin.Context) (userID int, role authz.Role) {
	return middleware.Caller(c)
}

func capabilities(c *gin.Context) authz.Capabilities {
	_, role := getUserAndRole(c)
	return authz.CapabilitiesFor(role)
}

func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// parseDate accepts YYYY-MM-DD.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, &services.ValidationError{Field: "date", Message: "is required"}
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, &services.ValidationError{Field: "date", Message: fmt.Sprintf("%q is not YYYY-MM-DD", s)}
	}
	return d, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidField),
		errors.Is(err, services.ErrInvalidValue):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, services.ErrAuthentication):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// writeError maps a service error to its HTTP status. Internal errors are
// logged and hidden from the client.
func writeError(c *gin.Context, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[http][%s] request_id=%s err=%v", op, middleware.RequestIDFrom(c), err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
