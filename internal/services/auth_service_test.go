package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/sankofa/internal/config"
	"github.com/example/sankofa/internal/models"
	"github.com/example/sankofa/internal/services"
	"github.com/example/sankofa/internal/store"
)

type fakeNotifier struct {
	sent chan string
}

func (n *fakeNotifier) SendCode(ctx context.Context, destination, code string) error {
	select {
	case n.sent <- destination + ":" + code:
	default:
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-signing-secret",
		AccessTokenTTL:  5 * time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		OtpTTL:          10 * time.Minute,
	}
}

func newTestAuth(t *testing.T) (*services.AuthService, *store.Store, *fakeNotifier) {
	t.Helper()
	st := store.NewMemoryStore()
	notifier := &fakeNotifier{sent: make(chan string, 8)}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return services.NewAuthService(st, notifier, testConfig(), log), st, notifier
}

func TestLoginNewContactAutoRegisters(t *testing.T) {
	auth, st, notifier := newTestAuth(t)
	ctx := context.Background()

	result, err := auth.Login(ctx, "new@x.com")
	require.NoError(t, err)

	assert.True(t, result.Created)
	require.NotNil(t, result.User.EmailAddress)
	assert.Equal(t, "new@x.com", *result.User.EmailAddress)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)

	// Exactly one user, one live OTP, one session.
	_, total, err := st.Users.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	otp, err := st.Otps.GetByUser(ctx, result.User.ID)
	require.NoError(t, err)
	assert.Len(t, otp.Code, 4)

	session, err := auth.Refresh.Verify(ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, session.UserID)

	// The code goes out through the notification gateway.
	select {
	case msg := <-notifier.sent:
		assert.Equal(t, "new@x.com:"+otp.Code, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("otp was never dispatched")
	}
}

func TestLoginByPhone(t *testing.T) {
	auth, _, _ := newTestAuth(t)

	result, err := auth.Login(context.Background(), "+233241234567")
	require.NoError(t, err)
	assert.True(t, result.Created)
	require.NotNil(t, result.User.PhoneNumber)
	assert.Equal(t, "+233241234567", *result.User.PhoneNumber)
	assert.Nil(t, result.User.EmailAddress)
}

func TestLoginExistingContactReChallenges(t *testing.T) {
	auth, st, _ := newTestAuth(t)
	ctx := context.Background()

	first, err := auth.Login(ctx, "existing@x.com")
	require.NoError(t, err)
	firstOtp, err := st.Otps.GetByUser(ctx, first.User.ID)
	require.NoError(t, err)

	second, err := auth.Login(ctx, "existing@x.com")
	require.NoError(t, err)

	assert.False(t, second.Created)
	assert.Equal(t, first.User.ID, second.User.ID)

	// No second account, and the old code was superseded.
	_, total, err := st.Users.List(ctx, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	secondOtp, err := st.Otps.GetByUser(ctx, first.User.ID)
	require.NoError(t, err)
	assert.True(t, secondOtp.ExpiresAt.After(firstOtp.ExpiresAt) || secondOtp.Code != firstOtp.Code)

	// Fresh token pair on every login.
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestLoginInvalidContact(t *testing.T) {
	auth, _, _ := newTestAuth(t)

	for _, contact := range []string{"not-an-email", "12345", ""} {
		_, err := auth.Login(context.Background(), contact)
		assert.ErrorIs(t, err, services.ErrInvalidContact, "contact %q", contact)
	}
}

func TestVerifyOTPConsumesCode(t *testing.T) {
	auth, st, _ := newTestAuth(t)
	ctx := context.Background()

	result, err := auth.Login(ctx, "verify@x.com")
	require.NoError(t, err)
	otp, err := st.Otps.GetByUser(ctx, result.User.ID)
	require.NoError(t, err)

	require.NoError(t, auth.VerifyOTP(ctx, result.User.ID, otp.Code))

	// Single use: the same code must not verify twice.
	err = auth.VerifyOTP(ctx, result.User.ID, otp.Code)
	assert.ErrorIs(t, err, services.ErrInvalidOrExpiredCode)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	auth, st, _ := newTestAuth(t)
	ctx := context.Background()

	result, err := auth.Login(ctx, "wrong@x.com")
	require.NoError(t, err)
	otp, err := st.Otps.GetByUser(ctx, result.User.ID)
	require.NoError(t, err)

	bad := "0000"
	if otp.Code == bad {
		bad = "0001"
	}
	err = auth.VerifyOTP(ctx, result.User.ID, bad)
	assert.ErrorIs(t, err, services.ErrInvalidOrExpiredCode)

	// The failed attempt must not consume the real code.
	assert.NoError(t, auth.VerifyOTP(ctx, result.User.ID, otp.Code))
}

func TestVerifyOTPExpiredCode(t *testing.T) {
	auth, st, _ := newTestAuth(t)
	ctx := context.Background()

	result, err := auth.Login(ctx, "expired@x.com")
	require.NoError(t, err)

	require.NoError(t, st.Otps.Upsert(ctx, &models.Otp{
		UserID:    result.User.ID,
		Code:      "1234",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	err = auth.VerifyOTP(ctx, result.User.ID, "1234")
	assert.ErrorIs(t, err, services.ErrInvalidOrExpiredCode)
}

func TestVerifyOTPUnknownUser(t *testing.T) {
	auth, _, _ := newTestAuth(t)

	err := auth.VerifyOTP(context.Background(), uuid.Must(uuid.NewV7()), "1234")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestRefreshRotatesToken(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	result, err := auth.Login(ctx, "rotate@x.com")
	require.NoError(t, err)

	pair, err := auth.RefreshTokens(ctx, result.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEqual(t, result.RefreshToken, pair.RefreshToken)

	// The rotated-away token is dead.
	_, err = auth.RefreshTokens(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)

	// The replacement works exactly once before its own rotation.
	next, err := auth.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)
	_, err = auth.RefreshTokens(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)
}

func TestRefreshGarbageToken(t *testing.T) {
	auth, _, _ := newTestAuth(t)

	for _, token := range []string{"", "junk", "no-dot-here", uuid.NewString()} {
		_, err := auth.RefreshTokens(context.Background(), token)
		assert.ErrorIs(t, err, services.ErrInvalidRefreshToken, "token %q", token)
	}
}

func TestRefreshExpiredSession(t *testing.T) {
	auth, st, _ := newTestAuth(t)
	ctx := context.Background()

	result, err := auth.Login(ctx, "stale@x.com")
	require.NoError(t, err)

	session, err := auth.Refresh.Verify(ctx, result.RefreshToken)
	require.NoError(t, err)
	session.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, st.Sessions.Replace(ctx, session.ID, session))

	_, err = auth.RefreshTokens(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}

func TestLogoutRevokesSession(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	result, err := auth.Login(ctx, "logout@x.com")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, result.RefreshToken, result.User.ID))

	// Refresh must no longer succeed after logout.
	_, err = auth.RefreshTokens(ctx, result.RefreshToken)
	assert.ErrorIs(t, err, services.ErrInvalidRefreshToken)
}

func TestLogoutWrongUser(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	victim, err := auth.Login(ctx, "victim@x.com")
	require.NoError(t, err)
	other, err := auth.Login(ctx, "other@x.com")
	require.NoError(t, err)

	// A valid token presented with someone else's user id must not
	// revoke anything.
	err = auth.Logout(ctx, victim.RefreshToken, other.User.ID)
	assert.ErrorIs(t, err, services.ErrSessionNotFound)

	_, err = auth.RefreshTokens(ctx, victim.RefreshToken)
	assert.NoError(t, err)
}

func TestLogoutUnknownUser(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	result, err := auth.Login(ctx, "ghost@x.com")
	require.NoError(t, err)

	err = auth.Logout(ctx, result.RefreshToken, uuid.Must(uuid.NewV7()))
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestConcurrentLoginsSameContact(t *testing.T) {
	auth, st, _ := newTestAuth(t)
	ctx := context.Background()

	const attempts = 8
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := auth.Login(ctx, "race@x.com")
			results <- err
		}()
	}
	for i := 0; i < attempts; i++ {
		assert.NoError(t, <-results)
	}

	// Duplicate-contact races resolve to a single account.
	_, total, err := st.Users.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
