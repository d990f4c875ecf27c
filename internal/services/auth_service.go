package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/example/sankofa/internal/config"
	"github.com/example/sankofa/internal/models"
	"github.com/example/sankofa/internal/store"
	"github.com/example/sankofa/internal/utils"
)

// AuthService orchestrates the contact-based login protocol: login or
// auto-register by email/phone, OTP challenge, refresh rotation and
// logout.
type AuthService struct {
	users     store.UserStore
	Otp       *OTPService
	Refresh   *RefreshService
	notifier  Notifier
	secret    string
	accessTTL time.Duration
	log       *slog.Logger
}

// NewAuthService wires the auth core onto a store and a notifier.
func NewAuthService(st *store.Store, notifier Notifier, cfg *config.Config, log *slog.Logger) *AuthService {
	return &AuthService{
		users:     st.Users,
		Otp:       NewOTPService(st.Otps, cfg.OtpTTL, log),
		Refresh:   NewRefreshService(st.Sessions, cfg.RefreshTokenTTL, log),
		notifier:  notifier,
		secret:    cfg.JWTSecret,
		accessTTL: cfg.AccessTokenTTL,
		log:       log,
	}
}

// LoginResult is returned by Login. Created reports whether the login
// auto-registered a new user.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
	Created      bool
}

// Login authenticates by email or phone. An unrecognized contact
// auto-registers a new account; either way a fresh OTP is issued and
// dispatched, and an access/refresh token pair is returned. Every login
// re-challenges with a new code.
func (s *AuthService) Login(ctx context.Context, contact string) (*LoginResult, error) {
	isEmail := utils.IsValidEmail(contact)
	if !isEmail && !utils.IsValidPhone(contact) {
		return nil, ErrInvalidContact
	}

	created := false
	user, err := s.users.GetByContact(ctx, contact)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		user, created, err = s.register(ctx, contact, isEmail)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	code, err := s.Otp.Issue(ctx, user)
	if err != nil {
		return nil, err
	}
	s.dispatchCode(contact, code)

	accessToken, err := utils.GenerateToken(s.secret, user.ID, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("mint access token: %w", err)
	}

	refreshToken, err := s.Refresh.Issue(ctx, user.ID, contact)
	if err != nil {
		return nil, err
	}

	s.log.Info("login", "user_id", user.ID, "created", created)
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
		Created:      created,
	}, nil
}

// register creates a user for an unseen contact. A unique-constraint
// violation means a concurrent login won the race; resolve to the
// existing row instead of surfacing the conflict.
func (s *AuthService) register(ctx context.Context, contact string, isEmail bool) (*models.User, bool, error) {
	user := &models.User{Name: contact}
	if isEmail {
		user.EmailAddress = &contact
	} else {
		user.PhoneNumber = &contact
	}

	err := s.users.Create(ctx, user)
	if err == nil {
		s.log.Info("user auto-registered", "user_id", user.ID)
		return user, true, nil
	}
	if errors.Is(err, store.ErrDuplicate) {
		existing, lookupErr := s.users.GetByContact(ctx, contact)
		if lookupErr != nil {
			return nil, false, fmt.Errorf("resolve duplicate contact: %w", lookupErr)
		}
		return existing, false, nil
	}
	return nil, false, fmt.Errorf("create user: %w", err)
}

// dispatchCode hands the code to the notification gateway without
// blocking the login response on delivery.
func (s *AuthService) dispatchCode(destination, code string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.SendCode(ctx, destination, code); err != nil {
			s.log.Error("failed to deliver otp", "error", err)
		}
	}()
}

// VerifyOTP checks the user's pending code. Success consumes the code.
func (s *AuthService) VerifyOTP(ctx context.Context, userID uuid.UUID, code string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}
	return s.Otp.Verify(ctx, userID, code)
}

// TokenPair is returned by RefreshTokens.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RefreshTokens verifies and rotates the refresh token, invalidating the
// supplied one, and mints a new access token for the same user.
func (s *AuthService) RefreshTokens(ctx context.Context, plaintext string) (*TokenPair, error) {
	session, err := s.Refresh.Verify(ctx, plaintext)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	refreshToken, err := s.Refresh.Rotate(ctx, session)
	if err != nil {
		return nil, err
	}

	accessToken, err := utils.GenerateToken(s.secret, user.ID, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("mint access token: %w", err)
	}

	s.log.Info("tokens refreshed", "user_id", user.ID)
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout revokes the session matching the token, scoped to the claimed
// user. User and session misses fail distinctly.
func (s *AuthService) Logout(ctx context.Context, plaintext string, userID uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	session, err := s.Refresh.FindForUser(ctx, plaintext, userID)
	if err != nil {
		return err
	}

	if err := s.Refresh.Revoke(ctx, session); err != nil {
		return err
	}

	s.log.Info("logout", "user_id", userID)
	return nil
}
