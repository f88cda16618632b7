package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitorTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(JWTConfig{Issuer: "sneakverse", Secret: "s3cret", TTLDays: 30})

	token, exp, err := m.SignVisitor("v-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*24*time.Hour), exp, time.Minute)

	claims, err := m.ParseVisitor(token)
	require.NoError(t, err)
	assert.Equal(t, "v-1", claims.VisitorID)
}

func TestVisitorTokenRejected(t *testing.T) {
	m := NewJWTManager(JWTConfig{Issuer: "sneakverse", Secret: "s3cret", TTLDays: 1})
	token, _, err := m.SignVisitor("v-1")
	require.NoError(t, err)

	other := NewJWTManager(JWTConfig{Issuer: "sneakverse", Secret: "different", TTLDays: 1})
	_, err = other.ParseVisitor(token)
	assert.Error(t, err, "wrong secret")

	foreign := NewJWTManager(JWTConfig{Issuer: "elsewhere", Secret: "s3cret", TTLDays: 1})
	_, err = foreign.ParseVisitor(token)
	assert.Error(t, err, "wrong issuer")

	later := NewJWTManager(JWTConfig{Issuer: "sneakverse", Secret: "s3cret", TTLDays: 1})
	later.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = later.ParseVisitor(token)
	assert.Error(t, err, "expired")

	_, err = m.ParseVisitor("not-a-token")
	assert.Error(t, err)
}
