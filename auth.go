package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	runTokenExpiry   = 2 * time.Hour
	bcryptCost       = 12
	scoreRateWindow  = 60 * time.Second
	maxScoreAttempts = 10
)

var (
	ErrInvalidToken = errors.New("invalid run token")
	ErrRunUsed      = errors.New("run already submitted")
	ErrRateLimited  = errors.New("too many submissions, try again later")
)

// RunClaims identify one asteroids run. The token ID is the run ID.
type RunClaims struct {
	jwt.RegisteredClaims
}

// Auth issues run tokens and checks the admin key
type Auth struct {
	jwtSecret    []byte
	adminKeyHash []byte

	// Rate limiting for score submissions (IP -> attempts)
	rateMu  sync.Mutex
	rateMap map[string]*rateEntry

	now func() time.Time
}

type rateEntry struct {
	Count   int
	ResetAt time.Time
}

// NewAuth creates a new Auth handler. An empty secret is replaced by one
// persisted in db.
func NewAuth(db *DB, secret, adminKeyHash string) *Auth {
	key := []byte(secret)
	if secret == "" {
		key = loadOrCreateSecret(db)
	}
	return &Auth{
		jwtSecret:    key,
		adminKeyHash: []byte(adminKeyHash),
		rateMap:      make(map[string]*rateEntry),
		now:          time.Now,
	}
}

// loadOrCreateSecret loads the JWT secret from the database, or generates
// and persists a new one if none exists.
func loadOrCreateSecret(db *DB) []byte {
	if db != nil {
		if h := db.GetSetting("jwt_secret"); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	// Generate a new secret
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate JWT secret: " + err.Error())
	}
	if db != nil {
		if err := db.SetSetting("jwt_secret", hex.EncodeToString(secret)); err != nil {
			log.Printf("warning: could not persist JWT secret: %v", err)
		}
	}
	return secret
}

// IssueRunToken starts a new run and returns its ID and signed token
func (a *Auth) IssueRunToken() (RunResponse, error) {
	now := a.now()
	runID := uuid.NewString()
	claims := RunClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        runID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(runTokenExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return RunResponse{}, fmt.Errorf("sign run token: %w", err)
	}
	return RunResponse{RunID: runID, Token: signed}, nil
}

// ValidateRunToken checks a run token and returns its run ID and start time
func (a *Auth) ValidateRunToken(tokenStr string) (string, time.Time, error) {
	claims := &RunClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.jwtSecret, nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" || claims.IssuedAt == nil {
		return "", time.Time{}, ErrInvalidToken
	}
	return claims.ID, claims.IssuedAt.Time, nil
}

// CheckAdminKey reports whether key matches the configured admin key hash.
// With no hash configured every key is rejected.
func (a *Auth) CheckAdminKey(key string) bool {
	if len(a.adminKeyHash) == 0 || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.adminKeyHash, []byte(key)) == nil
}

// HashAdminKey returns the bcrypt hash to configure as ADMIN_KEY_HASH
func HashAdminKey(key string) (string, error) {
	if len(key) < 8 {
		return "", fmt.Errorf("admin key must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *Auth) checkRate(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := a.now()
	entry, ok := a.rateMap[ip]
	if !ok || now.After(entry.ResetAt) {
		a.rateMap[ip] = &rateEntry{Count: 1, ResetAt: now.Add(scoreRateWindow)}
		return true
	}
	entry.Count++
	return entry.Count <= maxScoreAttempts
}
