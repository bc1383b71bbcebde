package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"chatguard/internal/auth"
	chatguard_errors "chatguard/pkg/errors"
	"chatguard/pkg/logger"
)

func newObservedAuthService(t *testing.T) (*AuthService, *observer.ObservedLogs) {
	t.Helper()
	v, err := auth.NewVerifier(auth.Config{SecretKey: "s1", AllowedAlgorithms: []string{"HS256"}})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	return NewAuthService(v, &logger.Logger{Logger: zap.New(core)}), logs
}

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestAuthService_VerifyToken_Valid(t *testing.T) {
	svc, logs := newObservedAuthService(t)
	token := signHS256(t, "s1", jwt.MapClaims{"sub": "alice@example.com", "exp": time.Now().Add(time.Hour).Unix()})

	res := svc.VerifyToken(context.Background(), token, "10.0.0.1")

	assert.True(t, res.Valid())
	assert.Equal(t, "alice@example.com", res.Subject)
	assert.Zero(t, logs.Len())
}

func TestAuthService_VerifyToken_LogsReasonNotToken(t *testing.T) {
	svc, logs := newObservedAuthService(t)
	token := signHS256(t, "s2", jwt.MapClaims{"sub": "alice@example.com", "exp": time.Now().Add(time.Hour).Unix()})
	ctx := context.WithValue(context.Background(), logger.RequestIdKey, "req-1")

	res := svc.VerifyToken(ctx, token, "10.0.0.1")

	assert.Equal(t, auth.ReasonBadSignature, res.Reason)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "bad_signature", fields["reason"])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "10.0.0.1", fields["client_ip"])
	for _, v := range fields {
		assert.NotContains(t, fmt.Sprint(v), token)
	}
}

func TestAuthService_VerifyToken_MissingTokenIsLogged(t *testing.T) {
	svc, logs := newObservedAuthService(t)

	res := svc.VerifyToken(context.Background(), "", "10.0.0.2")

	assert.Equal(t, auth.ReasonMalformedToken, res.Reason)
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "malformed_token", fields["reason"])
	assert.Equal(t, "10.0.0.2", fields["client_ip"])
}

func TestHTTPStatus(t *testing.T) {
	tests := map[error]int{
		chatguard_errors.ErrInvalidInput:       http.StatusBadRequest,
		chatguard_errors.ErrUnauthorized:       http.StatusUnauthorized,
		chatguard_errors.ErrForbidden:          http.StatusForbidden,
		chatguard_errors.ErrNotFound:           http.StatusNotFound,
		chatguard_errors.ErrAlreadyExists:      http.StatusConflict,
		chatguard_errors.ErrRateLimited:        http.StatusTooManyRequests,
		chatguard_errors.ErrServiceUnavailable: http.StatusServiceUnavailable,
		fmt.Errorf("boom"):                     http.StatusInternalServerError,
	}
	for err, want := range tests {
		assert.Equal(t, want, HTTPStatus(err), err.Error())
	}

	rejected := auth.Result{Reason: auth.ReasonExpired}.Err()
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(rejected))
}

func TestSubjectContext(t *testing.T) {
	_, ok := SubjectFromContext(context.Background())
	assert.False(t, ok)

	subject, ok := SubjectFromContext(WithSubject(context.Background(), "alice"))
	assert.True(t, ok)
	assert.Equal(t, "alice", subject)
}
