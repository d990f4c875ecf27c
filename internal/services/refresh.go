package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/sankofa/internal/models"
	"github.com/example/sankofa/internal/store"
	"github.com/example/sankofa/internal/utils"
)

const secretBytes = 32

// RefreshService issues, verifies, rotates and revokes refresh sessions.
//
// A refresh token is "<session id>.<secret>". The session id is a public
// lookup key; only a bcrypt hash of the secret is stored, so verification
// is a point lookup plus one hash comparison instead of a scan over every
// unexpired session.
type RefreshService struct {
	sessions store.SessionStore
	ttl      time.Duration
	log      *slog.Logger
}

// NewRefreshService constructs a RefreshService.
func NewRefreshService(sessions store.SessionStore, ttl time.Duration, log *slog.Logger) *RefreshService {
	return &RefreshService{sessions: sessions, ttl: ttl, log: log}
}

// Issue creates a session for the user and returns the plaintext token.
// The label records which contact the session was issued against.
func (s *RefreshService) Issue(ctx context.Context, userID uuid.UUID, label string) (string, error) {
	secret, err := generateSecret()
	if err != nil {
		return "", fmt.Errorf("generate refresh secret: %w", err)
	}

	hash, err := utils.HashSecret(secret)
	if err != nil {
		return "", fmt.Errorf("hash refresh secret: %w", err)
	}

	session := &models.RefreshSession{
		BaseModel:  models.BaseModel{ID: uuid.Must(uuid.NewV7())},
		UserID:     userID,
		SecretHash: hash,
		ExpiresAt:  time.Now().Add(s.ttl),
		AddedBy:    label,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("store refresh session: %w", err)
	}

	s.log.Info("refresh session issued", "session_id", session.ID, "user_id", userID)
	return session.ID.String() + "." + secret, nil
}

// Verify resolves a plaintext token to its unexpired session, or fails
// with ErrInvalidRefreshToken.
func (s *RefreshService) Verify(ctx context.Context, plaintext string) (*models.RefreshSession, error) {
	id, secret, ok := splitToken(plaintext)
	if !ok {
		return nil, ErrInvalidRefreshToken
	}

	session, err := s.sessions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("load refresh session: %w", err)
	}

	if !time.Now().Before(session.ExpiresAt) {
		return nil, ErrInvalidRefreshToken
	}
	if !utils.CheckSecret(session.SecretHash, secret) {
		return nil, ErrInvalidRefreshToken
	}
	return session, nil
}

// FindForUser verifies the token and additionally checks it belongs to
// the given user. Used by logout so a token alone cannot end another
// user's session.
func (s *RefreshService) FindForUser(ctx context.Context, plaintext string, userID uuid.UUID) (*models.RefreshSession, error) {
	session, err := s.Verify(ctx, plaintext)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Rotate replaces the session with a fresh one for the same user and
// returns the new plaintext token. The swap is atomic: of two concurrent
// rotations of one token, exactly one wins.
func (s *RefreshService) Rotate(ctx context.Context, old *models.RefreshSession) (string, error) {
	secret, err := generateSecret()
	if err != nil {
		return "", fmt.Errorf("generate refresh secret: %w", err)
	}

	hash, err := utils.HashSecret(secret)
	if err != nil {
		return "", fmt.Errorf("hash refresh secret: %w", err)
	}

	next := &models.RefreshSession{
		BaseModel:  models.BaseModel{ID: uuid.Must(uuid.NewV7())},
		UserID:     old.UserID,
		SecretHash: hash,
		ExpiresAt:  time.Now().Add(s.ttl),
		AddedBy:    old.AddedBy,
	}
	if err := s.sessions.Replace(ctx, old.ID, next); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("rotate refresh session: %w", err)
	}

	s.log.Info("refresh session rotated", "old_session_id", old.ID, "session_id", next.ID, "user_id", old.UserID)
	return next.ID.String() + "." + secret, nil
}

// Revoke deletes the session.
func (s *RefreshService) Revoke(ctx context.Context, session *models.RefreshSession) error {
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("revoke refresh session: %w", err)
	}

	s.log.Info("refresh session revoked", "session_id", session.ID, "user_id", session.UserID)
	return nil
}

func generateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func splitToken(plaintext string) (uuid.UUID, string, bool) {
	idPart, secret, found := strings.Cut(plaintext, ".")
	if !found || secret == "" {
		return uuid.Nil, "", false
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.Nil, "", false
	}
	return id, secret, true
}
