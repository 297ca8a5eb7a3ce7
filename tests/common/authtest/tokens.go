//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"mcdee-marketplace/internal/domain/user"
	"mcdee-marketplace/internal/pkg/config"
	"mcdee-marketplace/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// JWTHelper mints tokens with the app's secret without going through login.
type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) service(t *testing.T, accessTTL time.Duration) *jwt.Service {
	t.Helper()
	refreshTTL, err := time.ParseDuration(h.cfg.RefreshTokenDuration)
	require.NoError(t, err)
	if accessTTL == 0 {
		accessTTL, err = time.ParseDuration(h.cfg.AccessTokenDuration)
		require.NoError(t, err)
	}
	return jwt.NewService(h.cfg.Secret, accessTTL, refreshTTL)
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := h.service(t, 0).GenerateAccessToken(userID, role)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) GenerateRefreshToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := h.service(t, 0).GenerateRefreshToken(userID, role)
	require.NoError(t, err)
	return token
}

// CreateExpiredToken issues an access token that expired a minute ago.
func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID uuid.UUID, role user.Role) string {
	t.Helper()
	token, err := h.service(t, -time.Minute).GenerateAccessToken(userID, role)
	require.NoError(t, err)
	return token
}
