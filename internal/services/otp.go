package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/example/sankofa/internal/models"
	"github.com/example/sankofa/internal/store"
)

// OTPService issues and verifies single-use numeric codes.
type OTPService struct {
	otps store.OtpStore
	ttl  time.Duration
	log  *slog.Logger
}

// NewOTPService constructs an OTPService.
func NewOTPService(otps store.OtpStore, ttl time.Duration, log *slog.Logger) *OTPService {
	return &OTPService{otps: otps, ttl: ttl, log: log}
}

// Issue generates a fresh code for the user and upserts it as their sole
// live code. The plaintext is returned once, for delivery.
func (s *OTPService) Issue(ctx context.Context, user *models.User) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}

	otp := &models.Otp{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.otps.Upsert(ctx, otp); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}

	s.log.Info("otp issued", "user_id", user.ID)
	return code, nil
}

// Verify checks the user's current code and deletes it on success. A
// missing, mismatched and expired code all fail the same way so the
// caller learns nothing about which it was.
func (s *OTPService) Verify(ctx context.Context, userID uuid.UUID, code string) error {
	otp, err := s.otps.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidOrExpiredCode
		}
		return fmt.Errorf("load otp: %w", err)
	}

	if otp.Code != code || !time.Now().Before(otp.ExpiresAt) {
		return ErrInvalidOrExpiredCode
	}

	if err := s.otps.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}

	s.log.Info("otp verified", "user_id", userID)
	return nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
