package middleware

import (
	"net/http"

	"chatguard/internal/auth"
	"chatguard/internal/services"
	"chatguard/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware admits requests carrying a valid token, either as a bearer
// header or in the session cookie named cookieName. The verified subject is
// stored on the request context.
func AuthMiddleware(service *services.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.RequestToken(c.Request, cookieName)
		res := service.VerifyToken(c.Request.Context(), token, c.ClientIP())
		if !res.Valid() {
			abortUnauthorized(c)
			return
		}

		ctx := services.WithSubject(c.Request.Context(), res.Subject)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", `Bearer error="invalid_token"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, httpdto.NewErrorResponse("invalid token", "UNAUTHORIZED"))
}
