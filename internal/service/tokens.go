package service

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
)

const ephemeralKeyBits = 2048

// Tokens issues and verifies RS256 session tokens.
type Tokens struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	ttl        time.Duration
	issuer     string
	now        func() time.Time
}

// NewTokens parses base64 encoded PEM keys. With no keys configured an
// ephemeral pair is generated and tokens do not survive a restart.
func NewTokens(privateKeyB64, publicKeyB64 string, ttl time.Duration, issuer string) (*Tokens, error) {
	t := &Tokens{
		ttl:    ttl,
		issuer: issuer,
		now:    time.Now,
	}

	if privateKeyB64 == "" {
		key, err := rsa.GenerateKey(rand.Reader, ephemeralKeyBits)
		if err != nil {
			return nil, fmt.Errorf("generate key: %w", err)
		}

		t.privateKey = key
		t.publicKey = &key.PublicKey

		return t, nil
	}

	pKey, err := base64.StdEncoding.DecodeString(cleanKey(privateKeyB64))
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}

	t.privateKey, err = jwt.ParseRSAPrivateKeyFromPEM(pKey)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	t.publicKey = &t.privateKey.PublicKey

	if publicKeyB64 != "" {
		pubKey, err := base64.StdEncoding.DecodeString(cleanKey(publicKeyB64))
		if err != nil {
			return nil, fmt.Errorf("decode public key: %w", err)
		}

		t.publicKey, err = jwt.ParseRSAPublicKeyFromPEM(pubKey)
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
	}

	return t, nil
}

func (t *Tokens) Issue(user entity.User, workspace string) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)

	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, entity.SessionClaims{
		UserID:    user.ID,
		Role:      user.Role,
		Workspace: workspace,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.Must(uuid.NewV4()).String(),
			Issuer:    t.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}).SignedString(t.privateKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return token, expiresAt, nil
}

func (t *Tokens) Parse(tokenString string) (*entity.SessionClaims, error) {
	var claims entity.SessionClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		_, ok := token.Method.(*jwt.SigningMethodRSA)
		if !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return t.publicKey, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithTimeFunc(t.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("parse token: %w", entity.ErrTokenExpired)
		}

		return nil, fmt.Errorf("parse token: %w: %w", entity.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return nil, entity.ErrInvalidToken
	}

	return &claims, nil
}

func cleanKey(key string) string {
	return strings.TrimSpace(strings.NewReplacer(
		`\`, "", `"`, "", " ", "", "\n", "", "\r", "",
	).Replace(key))
}
