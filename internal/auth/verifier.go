// Package auth verifies HMAC-signed bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	chatguard_errors "chatguard/pkg/errors"
)

// Config is the process-wide verification configuration.
type Config struct {
	SecretKey         string
	AllowedAlgorithms []string
	ClockSkew         time.Duration
}

// Verifier is immutable after NewVerifier returns and safe for concurrent use.
type Verifier struct {
	secret  []byte
	allowed map[string]struct{}
	skew    time.Duration
	now     func() time.Time
}

type Option func(*Verifier)

// WithClock replaces the wall clock used for exp/nbf/iat checks.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

var errAlgorithmNotAllowed = errors.New("algorithm not in allow-list")

// NewVerifier validates cfg and builds a Verifier. Any error here is a
// startup misconfiguration and wraps chatguard_errors.ErrInvalidConfig.
func NewVerifier(cfg Config, opts ...Option) (*Verifier, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("%w: empty secret key", chatguard_errors.ErrInvalidConfig)
	}
	if len(cfg.AllowedAlgorithms) == 0 {
		return nil, fmt.Errorf("%w: no allowed algorithms", chatguard_errors.ErrInvalidConfig)
	}
	if cfg.ClockSkew < 0 {
		return nil, fmt.Errorf("%w: negative clock skew", chatguard_errors.ErrInvalidConfig)
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedAlgorithms))
	for _, alg := range cfg.AllowedAlgorithms {
		// Only symmetric methods make sense with a shared secret.
		if _, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unsupported algorithm %q", chatguard_errors.ErrInvalidConfig, alg)
		}
		allowed[alg] = struct{}{}
	}

	v := &Verifier{
		secret:  []byte(cfg.SecretKey),
		allowed: allowed,
		skew:    cfg.ClockSkew,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify checks tokenString and returns the authenticated subject or the
// reason it was rejected.
func (v *Verifier) Verify(tokenString string) Result {
	if tokenString == "" {
		return invalid(ReasonMalformedToken, nil)
	}

	// Time claims are checked below so that both ends of the validity
	// window are inclusive.
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	claims := &jwt.RegisteredClaims{}
	if _, err := parser.ParseWithClaims(tokenString, claims, v.keyFunc); err != nil {
		return invalid(classify(err), err)
	}

	if reason, err := v.checkTimes(claims, v.now()); err != nil {
		return invalid(reason, err)
	}

	if claims.Subject == "" {
		return invalid(ReasonMissingSubject, nil)
	}
	return valid(claims.Subject)
}

// checkTimes applies the skew to exp, nbf and iat. A token is expired only
// once now is strictly past exp+skew, and not yet valid only while now is
// strictly before nbf-skew or iat-skew.
func (v *Verifier) checkTimes(claims *jwt.RegisteredClaims, now time.Time) (Reason, error) {
	if claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Add(v.skew)) {
		return ReasonExpired, jwt.ErrTokenExpired
	}
	if claims.NotBefore != nil && now.Before(claims.NotBefore.Add(-v.skew)) {
		return ReasonNotYetValid, jwt.ErrTokenNotValidYet
	}
	if claims.IssuedAt != nil && now.Before(claims.IssuedAt.Add(-v.skew)) {
		return ReasonNotYetValid, jwt.ErrTokenUsedBeforeIssued
	}
	return ReasonNone, nil
}

// keyFunc runs after the header is decoded and before the signature is
// checked, so the allow-list is enforced ahead of any HMAC computation.
func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := v.allowed[token.Method.Alg()]; !ok {
		return nil, errAlgorithmNotAllowed
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errAlgorithmNotAllowed
	}
	return v.secret, nil
}

func classify(err error) Reason {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformedToken
	case errors.Is(err, errAlgorithmNotAllowed):
		return ReasonUnacceptableAlgorithm
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// missing or unregistered alg header
		return ReasonUnacceptableAlgorithm
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ReasonBadSignature
	default:
		return ReasonMalformedToken
	}
}
