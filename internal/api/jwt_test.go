package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roma7-7-7/vocab-api/internal/config"
)

func TestJWTProcessor(t *testing.T) {
	conf := config.JWT{Issuer: "vocab-api", Audience: []string{"vocab-app"}, Secret: "secret"}
	p := NewJWTProcessor(conf, time.Hour)

	token, err := p.ToAccessToken("user123")
	require.NoError(t, err)

	userID, err := p.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user123", userID)

	other := NewJWTProcessor(config.JWT{Issuer: "vocab-api", Audience: []string{"vocab-app"}, Secret: "other"}, time.Hour)
	_, err = other.ParseAccessToken(token)
	require.Error(t, err)

	wrongIssuer := NewJWTProcessor(config.JWT{Issuer: "someone", Audience: []string{"vocab-app"}, Secret: "secret"}, time.Hour)
	_, err = wrongIssuer.ParseAccessToken(token)
	require.ErrorContains(t, err, "invalid issuer")

	wrongAudience := NewJWTProcessor(config.JWT{Issuer: "vocab-api", Audience: []string{"admin"}, Secret: "secret"}, time.Hour)
	_, err = wrongAudience.ParseAccessToken(token)
	require.ErrorContains(t, err, "invalid audience")

	expired := NewJWTProcessor(conf, -time.Minute)
	token, err = expired.ToAccessToken("user123")
	require.NoError(t, err)
	_, err = p.ParseAccessToken(token)
	require.Error(t, err)
}

func TestContainsAll(t *testing.T) {
	assert.True(t, containsAll([]string{"a", "b"}, nil))
	assert.True(t, containsAll([]string{"a", "b"}, []string{"b"}))
	assert.False(t, containsAll([]string{"a"}, []string{"a", "b"}))
	assert.False(t, containsAll([]string{"a", "c"}, []string{"b"}))
}
