package services

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"chatguard/internal/auth"
	chatguard_errors "chatguard/pkg/errors"
	"chatguard/pkg/logger"
)

// TokenVerifier is satisfied by *auth.Verifier.
type TokenVerifier interface {
	Verify(token string) auth.Result
}

type AuthService struct {
	verifier TokenVerifier
	logger   *logger.Logger
}

func NewAuthService(verifier TokenVerifier, l *logger.Logger) *AuthService {
	if l == nil {
		l = logger.NewNop()
	}
	return &AuthService{verifier: verifier, logger: l}
}

// VerifyToken runs the verifier and logs rejections with their reason and the
// client IP. The token itself is never logged. An absent token is rejected as
// malformed.
func (s *AuthService) VerifyToken(ctx context.Context, token, clientIP string) auth.Result {
	res := s.verifier.Verify(token)
	if !res.Valid() {
		s.logger.WithContext(ctx).Warn("token rejected",
			zap.String("reason", res.Reason.String()),
			zap.String("client_ip", clientIP),
			zap.Error(res.Err()),
		)
	}
	return res
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, chatguard_errors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, chatguard_errors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, chatguard_errors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, chatguard_errors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, chatguard_errors.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, chatguard_errors.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, chatguard_errors.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithSubject stores the verified subject on ctx. The same key is read by
// the logger, so request logs carry the subject too.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, logger.SubjectKey, subject)
}

func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(logger.SubjectKey).(string)
	return subject, ok && subject != ""
}
