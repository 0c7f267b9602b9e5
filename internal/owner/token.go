package owner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/platform/logger"
)

type Claims struct {
	OwnerID int64  `json:"owner_id,omitempty"`
	Role    string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type Resolver struct {
	secret   []byte
	fallback int64
}

// NewResolver verifies HS256 tokens signed with secret. A non-zero fallback
// owner is used for requests without a token; it only exists for
// single-tenant deployments and is logged on every use.
func NewResolver(secret string, fallbackOwnerID int64) *Resolver {
	return &Resolver{secret: []byte(secret), fallback: fallbackOwnerID}
}

// Resolve turns an Authorization header value into an Identity.
func (r *Resolver) Resolve(ctx context.Context, header string) (Identity, error) {
	token, ok := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		if r.fallback != 0 {
			logger.Warn(ctx, "request without token, using fallback owner",
				logger.Int64("owner_id", r.fallback),
			)
			return Identity{OwnerID: r.fallback}, nil
		}
		return Identity{}, model.ErrUnauthorized
	}

	return r.Parse(strings.TrimSpace(token))
}

func (r *Resolver) Parse(tokenStr string) (Identity, error) {
	if len(r.secret) == 0 {
		return Identity{}, fmt.Errorf("%w: token verification is not configured", model.ErrUnauthorized)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", model.ErrUnauthorized, err)
	}
	if !token.Valid {
		return Identity{}, model.ErrUnauthorized
	}

	ownerID := claims.OwnerID
	if ownerID == 0 && claims.Subject != "" {
		ownerID, err = strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			return Identity{}, fmt.Errorf("%w: subject is not an owner id", model.ErrUnauthorized)
		}
	}
	if ownerID <= 0 {
		return Identity{}, errors.Join(model.ErrUnauthorized, errors.New("token carries no owner"))
	}

	return Identity{OwnerID: ownerID, Role: claims.Role}, nil
}

// Issue signs a token for id. The sync CLI and tests use it.
func (r *Resolver) Issue(id Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		OwnerID: id.OwnerID,
		Role:    id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.OwnerID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}

// OwnerOf reads the owner a token was issued for without verifying its
// signature. The sync client uses it to key its cache; the server still
// verifies every request.
func OwnerOf(tokenStr string) (int64, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(tokenStr), claims); err != nil {
		return 0, fmt.Errorf("%w: %w", model.ErrUnauthorized, err)
	}

	if claims.OwnerID > 0 {
		return claims.OwnerID, nil
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: token carries no owner", model.ErrUnauthorized)
	}
	return id, nil
}
