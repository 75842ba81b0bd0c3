package auth

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken wraps every verification failure
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnknownKey is returned when a token names a key id the store does not hold
	ErrUnknownKey = errors.New("unknown signing key")
)

// Claims is the token payload. Subject and UserID both carry the user id.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// KeyStore maps key ids to HMAC secrets. One key signs new tokens; every
// key in the store verifies, so retired keys keep working until removed.
type KeyStore struct {
	mu       sync.RWMutex
	activeID string
	keys     map[string][]byte
}

func NewKeyStore(activeID string, secret []byte) *KeyStore {
	return &KeyStore{
		activeID: activeID,
		keys:     map[string][]byte{activeID: secret},
	}
}

// Add registers a verification-only key
func (k *KeyStore) Add(id string, secret []byte) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[id] = secret
}

// Rotate makes id the signing key. The previous signing key stays available
// for verification.
func (k *KeyStore) Rotate(id string, secret []byte) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.keys[id] = secret
	k.activeID = id
}

// SigningKey returns the active key id and its secret
func (k *KeyStore) SigningKey() (string, []byte) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.activeID, k.keys[k.activeID]
}

func (k *KeyStore) Lookup(id string) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	secret, ok := k.keys[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, id)
	}
	return secret, nil
}

// Clock supplies the current time for issuing and validating tokens
type Clock func() time.Time

// TokenConfig holds token settings
type TokenConfig struct {
	Issuer string
	TTL    time.Duration
}

// TokenService issues and verifies HS256 bearer tokens
type TokenService struct {
	keys   *KeyStore
	config TokenConfig
	now    Clock
}

// NewTokenService creates a token service. A nil clock uses time.Now.
func NewTokenService(keys *KeyStore, config TokenConfig, clock Clock) *TokenService {
	if clock == nil {
		clock = time.Now
	}
	return &TokenService{
		keys:   keys,
		config: config,
		now:    clock,
	}
}

// Issue signs a token for userID with the active key
func (s *TokenService) Issue(userID string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TTL)),
		},
	}

	kid, secret := s.keys.SigningKey()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = kid

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature, key id, time window and issuer of raw and
// returns its claims.
func (s *TokenService) Verify(raw string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, s.keyFunc, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.UserID == "" || claims.UserID != claims.Subject {
		return nil, fmt.Errorf("%w: subject mismatch", ErrInvalidToken)
	}
	return claims, nil
}

func (s *TokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	kid, ok := token.Header["kid"].(string)
	if !ok || kid == "" {
		return nil, fmt.Errorf("%w: missing kid header", ErrUnknownKey)
	}
	return s.keys.Lookup(kid)
}
