// Package handler provides HTTP handlers for API endpoints.
package handler

import (
	"net/http"

	"chatguard/internal/auth"
	"chatguard/internal/services"
	"chatguard/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles token verification endpoints.
type AuthHandler struct {
	service *services.AuthService
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(service *services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// VerifyToken checks the bearer token and reports the subject it attests.
// Every failure kind is answered with the same 401.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	token := auth.BearerToken(c.Request)
	res := h.service.VerifyToken(c.Request.Context(), token, c.ClientIP())
	if !res.Valid() {
		writeUnauthorized(c)
		return
	}

	subject := res.Subject
	c.JSON(http.StatusOK, httpdto.VerifyTokenResponse{Valid: true, User: &subject})
}

func writeUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", `Bearer error="invalid_token"`)
	c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("invalid token", "UNAUTHORIZED"))
}

func writeError(c *gin.Context, err error) {
	status := services.HTTPStatus(err)
	if status == http.StatusUnauthorized {
		writeUnauthorized(c)
		return
	}
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal error"
	}
	c.JSON(status, httpdto.NewErrorResponse(msg, errorCode(status)))
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusServiceUnavailable:
		return "UNAVAILABLE"
	default:
		return "INTERNAL_ERROR"
	}
}
