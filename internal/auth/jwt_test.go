package auth

import (
	"testing"

	"dairy-backend/internal/config"
	"dairy-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 24
	cfg.JWT.Issuer = "dairy-backend"
	return NewJWTManager(cfg)
}

func TestUserTokenRoundTrip(t *testing.T) {
	m := testManager()
	user := &models.User{ID: 7, Email: "op@dairy.test", Role: "operator", IsActive: true}

	token, err := m.GenerateToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "op@dairy.test", claims.Email)
	assert.Equal(t, "operator", claims.Role)
}

func TestTempTokenIsNotASessionToken(t *testing.T) {
	m := testManager()
	user := &models.User{ID: 3, Email: "admin@dairy.test", Role: "admin", IsActive: true}

	temp, err := m.GenerateTempToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateTempToken(temp)
	require.NoError(t, err)
	assert.Equal(t, 3, claims.UserID)
	assert.Equal(t, "2fa_pending", claims.Type)

	// A full session token must not validate as a temp token.
	session, err := m.GenerateToken(user)
	require.NoError(t, err)
	_, err = m.ValidateTempToken(session)
	assert.Error(t, err)
}

func TestCustomerTokenRoundTrip(t *testing.T) {
	m := testManager()
	customer := &models.Customer{ID: 12, Name: "Ramesh", Phone: "9876543210"}

	token, err := m.GenerateCustomerToken(customer, false)
	require.NoError(t, err)

	claims, err := m.ValidateCustomerToken(token)
	require.NoError(t, err)
	assert.Equal(t, 12, claims.CustomerID)
	assert.Equal(t, "9876543210", claims.Phone)
	assert.True(t, claims.IsCustomer)
}

func TestTokensRejectWrongSecret(t *testing.T) {
	m := testManager()
	user := &models.User{ID: 1, Email: "a@b.c", Role: "admin", IsActive: true}

	token, err := m.GenerateToken(user)
	require.NoError(t, err)

	other := &config.Config{}
	other.JWT.Secret = "different-secret"
	other.JWT.ExpirationHours = 24
	_, err = NewJWTManager(other).ValidateToken(token)
	assert.Error(t, err)
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("milk-money-42")
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "milk-money-42"))
	assert.False(t, VerifyPassword(hash, "milk-money-43"))
}
