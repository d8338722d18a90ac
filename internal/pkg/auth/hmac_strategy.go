package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/catering/internal/domain/model"
)

var ErrInvalidToken = errors.New("invalid auth token")

// HMACStrategy implements auth token creation/verification using HMAC signatures.
type HMACStrategy struct {
	secret []byte
	ttl    time.Duration
}

// NewHMACStrategy builds HMACStrategy with provided secret and options.
func NewHMACStrategy(secret string, opts Options) *HMACStrategy {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &HMACStrategy{secret: []byte(secret), ttl: ttl}
}

// IssueToken generates a signed token for a customer, owner or admin. The
// system actor never authenticates over HTTP.
func (s *HMACStrategy) IssueToken(actor model.Actor) (string, error) {
	if actor.IsSystem() {
		return "", fmt.Errorf("cannot issue token for system actor")
	}
	expires := time.Now().Add(s.ttl).Unix()
	payload := fmt.Sprintf("%s:%s:%d", actor.UserID, actor.Role, expires)
	sig := s.sign(payload)
	token := fmt.Sprintf("%s:%s", payload, sig)
	return base64.StdEncoding.EncodeToString([]byte(token)), nil
}

// ParseToken validates token and returns the actor it was issued for.
func (s *HMACStrategy) ParseToken(token string) (model.Actor, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return model.Actor{}, ErrInvalidToken
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 4 {
		return model.Actor{}, ErrInvalidToken
	}

	payload := strings.Join(parts[:3], ":")
	expectedSig := s.sign(payload)
	if !hmac.Equal([]byte(expectedSig), []byte(parts[3])) {
		return model.Actor{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(parts[0])
	if err != nil || userID == uuid.Nil {
		return model.Actor{}, ErrInvalidToken
	}

	role, err := model.ParseRole(parts[1])
	if err != nil || role == model.RoleSystem {
		return model.Actor{}, ErrInvalidToken
	}

	expires, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return model.Actor{}, ErrInvalidToken
	}

	if time.Unix(expires, 0).Before(time.Now()) {
		return model.Actor{}, ErrInvalidToken
	}

	return model.Actor{UserID: userID, Role: role}, nil
}

func (s *HMACStrategy) Name() string {
	return "hmac"
}

func (s *HMACStrategy) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
