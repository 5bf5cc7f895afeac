package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Roma7-7-7/vocab-api/internal/config"
)

type JWTProcessor struct {
	issuer         string
	audience       []string
	accessExpireIn time.Duration

	secret []byte
}

func NewJWTProcessor(conf config.JWT, accessExpireIn time.Duration) *JWTProcessor {
	return &JWTProcessor{
		issuer:         conf.Issuer,
		audience:       conf.Audience,
		accessExpireIn: accessExpireIn,

		secret: []byte(conf.Secret),
	}
}

func (p *JWTProcessor) ToAccessToken(userID string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    p.issuer,
		Subject:   userID,
		Audience:  p.audience,
		ExpiresAt: jwt.NewNumericDate(now.Add(p.accessExpireIn)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	})

	signedString, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signedString, nil
}

// ParseAccessToken returns the user id the token was issued for.
func (p *JWTProcessor) ParseAccessToken(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid token claims")
	}

	if iss, _ := claims.GetIssuer(); iss != p.issuer {
		return "", errors.New("invalid issuer")
	}
	if aud, _ := claims.GetAudience(); !containsAll(aud, p.audience) {
		return "", errors.New("invalid audience")
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("get subject: %w", err)
	}
	if subject == "" {
		return "", errors.New("empty subject")
	}
	return subject, nil
}

// containsAll returns true if all elements in required are present in actual
func containsAll(actual, required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(actual) < len(required) {
		return false
	}
	for _, r := range required {
		found := false
		for _, a := range actual {
			if a == r {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
