package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"vitashop/internal/commons"
	"vitashop/internal/dto"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the token payload issued by the identity provider.
type Claims struct {
	UserID int    `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID int
	Admin  bool
}

// RequestingUserID returns the id ownership checks run against. Admins get
// nil, meaning no restriction.
func (p Principal) RequestingUserID() *int {
	if p.Admin {
		return nil
	}
	id := p.UserID
	return &id
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

type Authenticator struct {
	secret    []byte
	adminRole string
	logger    *zap.Logger
}

func NewAuthenticator(secret, adminRole string, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		secret:    []byte(secret),
		adminRole: adminRole,
		logger:    logger,
	}
}

// ValidateToken verifies an HS256 token and returns its principal.
func (a *Authenticator) ValidateToken(tokenString string) (Principal, error) {
	if len(a.secret) == 0 {
		return Principal{}, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Principal{}, ErrInvalidToken
	}

	admin := a.adminRole != "" && claims.Role == a.adminRole
	if claims.UserID <= 0 && !admin {
		return Principal{}, ErrInvalidToken
	}

	return Principal{UserID: claims.UserID, Admin: admin}, nil
}

// Authenticate rejects requests without a valid Bearer token and stores the
// principal in the request context.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			a.unauthorized(w, "authorization header required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			a.unauthorized(w, "invalid authorization header format")
			return
		}

		principal, err := a.ValidateToken(parts[1])
		if err != nil {
			a.unauthorized(w, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func (a *Authenticator) unauthorized(w http.ResponseWriter, message string) {
	traceID := uuid.New().String()
	a.logger.Debug("request rejected", zap.String("traceId", traceID), zap.String("reason", message))
	commons.WriteJSON(w, http.StatusUnauthorized, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    http.StatusUnauthorized,
		Message:   message,
		Code:      "UNAUTHORIZED",
		Timestamp: time.Now().UTC(),
	}, a.logger)
}
