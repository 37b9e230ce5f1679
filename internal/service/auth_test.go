package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aibanking/auth-server/internal/mocks"
	"github.com/aibanking/auth-server/internal/model"
	"github.com/aibanking/auth-server/internal/security"
	"github.com/aibanking/auth-server/internal/testutil"
)

const testResetURL = "http://localhost:8080/api/auth/resetpassword"

type authMocks struct {
	userStore *mocks.UserStore
	hasher    *mocks.PasswordHasher
	tokens    *mocks.TokenManager
	mailer    *mocks.Mailer
}

func newAuthWithMocks() (*Auth, authMocks) {
	m := authMocks{
		userStore: &mocks.UserStore{},
		hasher:    &mocks.PasswordHasher{},
		tokens:    &mocks.TokenManager{},
		mailer:    &mocks.Mailer{},
	}
	a := NewAuth(m.userStore, m.hasher, m.tokens, m.mailer, testResetURL, testutil.MakeNoopLogger())
	return a, m
}

func TestAuth_Register_Success(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	userID := uuid.New()
	m.hasher.On("Hash", mock.Anything, "password1").Return("hashed", nil)
	m.userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "t@x.com" && u.Name == "Test" && u.PasswordHash == "hashed"
	})).Return(model.User{ID: userID, Name: "Test", Email: "t@x.com", PasswordHash: "hashed"}, nil)
	m.tokens.On("Generate", userID).Return("session-token", nil)

	user, token, err := a.Register(ctx, RegisterParams{Name: "Test", Email: "t@x.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, "session-token", token)
	assert.Equal(t, "t@x.com", user.Email)
}

func TestAuth_Register_MissingFields(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	cases := []RegisterParams{
		{Email: "t@x.com", Password: "password1"},
		{Name: "Test", Password: "password1"},
		{Name: "Test", Email: "t@x.com"},
	}

	for _, params := range cases {
		_, _, err := a.Register(ctx, params)
		var validationErr *model.ValidationError
		require.ErrorAs(t, err, &validationErr)
	}
	m.hasher.AssertNotCalled(t, "Hash", mock.Anything, mock.Anything)
}

func TestAuth_Register_ShortPassword(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	_, _, err := a.Register(ctx, RegisterParams{Name: "Test", Email: "t@x.com", Password: "123"})
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "Password")
	m.hasher.AssertNotCalled(t, "Hash", mock.Anything, mock.Anything)
}

func TestAuth_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	m.hasher.On("Hash", mock.Anything, "password1").Return("hashed", nil)
	m.userStore.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrDuplicateEmail)

	_, _, err := a.Register(ctx, RegisterParams{Name: "Test", Email: "t@x.com", Password: "password1"})
	require.ErrorIs(t, err, model.ErrDuplicateEmail)
	m.tokens.AssertNotCalled(t, "Generate", mock.Anything)
}

func TestAuth_Register_NormalizesEmail(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	userID := uuid.New()
	m.hasher.On("Hash", mock.Anything, "password1").Return("hashed", nil)
	m.userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "t@x.com"
	})).Return(model.User{ID: userID, Email: "t@x.com"}, nil)
	m.tokens.On("Generate", userID).Return("tok", nil)

	_, _, err := a.Register(ctx, RegisterParams{Name: "Test", Email: "  T@X.com ", Password: "password1"})
	require.NoError(t, err)
	m.userStore.AssertExpectations(t)
}

func TestAuth_Login_Success(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	userID := uuid.New()
	m.userStore.On("GetByEmail", mock.Anything, "t@x.com").
		Return(model.User{ID: userID, Email: "t@x.com", PasswordHash: "hashed"}, nil)
	m.hasher.On("Verify", "password1", "hashed").Return(true)
	m.tokens.On("Generate", userID).Return("session-token", nil)

	user, token, err := a.Login(ctx, "t@x.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, "session-token", token)
	assert.Equal(t, userID, user.ID)
}

func TestAuth_Login_UnknownEmailAndWrongPasswordIndistinguishable(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	m.userStore.On("GetByEmail", mock.Anything, "missing@x.com").
		Return(model.User{}, model.ErrNotFound)
	m.userStore.On("GetByEmail", mock.Anything, "t@x.com").
		Return(model.User{ID: uuid.New(), PasswordHash: "hashed"}, nil)
	m.hasher.On("Verify", "wrongpass", "hashed").Return(false)

	_, _, errUnknown := a.Login(ctx, "missing@x.com", "wrongpass")
	_, _, errWrong := a.Login(ctx, "t@x.com", "wrongpass")

	require.ErrorIs(t, errUnknown, model.ErrInvalidCredentials)
	require.ErrorIs(t, errWrong, model.ErrInvalidCredentials)
	assert.Equal(t, errUnknown, errWrong)
}

func TestAuth_Login_MissingFields(t *testing.T) {
	ctx := context.Background()
	a, _ := newAuthWithMocks()

	_, _, err := a.Login(ctx, "", "password1")
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, _, err = a.Login(ctx, "t@x.com", "")
	require.ErrorAs(t, err, &validationErr)
}

func TestAuth_Login_StoreErrorIsNotInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	m.userStore.On("GetByEmail", mock.Anything, "t@x.com").
		Return(model.User{}, errors.New("connection timeout"))

	_, _, err := a.Login(ctx, "t@x.com", "password1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuth_ForgotPassword_UnknownEmailSendsNothing(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	m.userStore.On("GetByEmail", mock.Anything, "missing@x.com").
		Return(model.User{}, model.ErrNotFound)

	require.NoError(t, a.ForgotPassword(ctx, "missing@x.com"))
	m.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.userStore.AssertNotCalled(t, "SetResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAuth_ForgotPassword_Success(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	userID := uuid.New()
	m.userStore.On("GetByEmail", mock.Anything, "t@x.com").
		Return(model.User{ID: userID, Email: "t@x.com"}, nil)

	var storedDigest []byte
	m.userStore.On("SetResetToken", mock.Anything, userID,
		mock.MatchedBy(func(digest []byte) bool { return len(digest) == 32 }),
		mock.MatchedBy(func(expiry time.Time) bool {
			return time.Until(expiry) > 9*time.Minute && time.Until(expiry) <= security.ResetTokenTTL
		}),
	).Run(func(args mock.Arguments) {
		storedDigest = args.Get(2).([]byte)
	}).Return(nil)
	m.mailer.On("Send", mock.Anything, "t@x.com", "Password Reset", mock.Anything).Return(nil)

	require.NoError(t, a.ForgotPassword(ctx, "t@x.com"))
	assert.Len(t, storedDigest, 32)
	m.mailer.AssertExpectations(t)
	m.userStore.AssertNotCalled(t, "ClearResetToken", mock.Anything, mock.Anything)
}

func TestAuth_ForgotPassword_DispatchFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	userID := uuid.New()
	m.userStore.On("GetByEmail", mock.Anything, "t@x.com").
		Return(model.User{ID: userID, Email: "t@x.com"}, nil)
	m.userStore.On("SetResetToken", mock.Anything, userID, mock.Anything, mock.Anything).Return(nil)
	m.mailer.On("Send", mock.Anything, "t@x.com", "Password Reset", mock.Anything).
		Return(errors.New("smtp unreachable"))
	m.userStore.On("ClearResetToken", mock.Anything, userID).Return(nil)

	err := a.ForgotPassword(ctx, "t@x.com")
	require.ErrorIs(t, err, model.ErrNotificationFailure)
	m.userStore.AssertCalled(t, "ClearResetToken", mock.Anything, userID)
}

func TestAuth_ResetPassword_Success(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	userID := uuid.New()
	raw := "aabbccddeeff00112233445566778899aabbccdd"
	m.hasher.On("Hash", mock.Anything, "newpassword1").Return("newhash", nil)
	m.userStore.On("ConsumeResetToken", mock.Anything, security.HashResetToken(raw), "newhash").
		Return(model.User{ID: userID}, nil)
	m.tokens.On("Generate", userID).Return("fresh-token", nil)

	_, token, err := a.ResetPassword(ctx, raw, "newpassword1")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
}

func TestAuth_ResetPassword_InvalidOrExpired(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	m.hasher.On("Hash", mock.Anything, "newpassword1").Return("newhash", nil)
	m.userStore.On("ConsumeResetToken", mock.Anything, mock.Anything, mock.Anything).
		Return(model.User{}, model.ErrNotFound)

	_, _, err := a.ResetPassword(ctx, "deadbeef", "newpassword1")
	require.ErrorIs(t, err, model.ErrInvalidResetToken)
	m.tokens.AssertNotCalled(t, "Generate", mock.Anything)
}

func TestAuth_ResetPassword_ShortPassword(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	_, _, err := a.ResetPassword(ctx, "deadbeef", "123")
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	m.userStore.AssertNotCalled(t, "ConsumeResetToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuth_UpdatePassword_Success(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	userID := uuid.New()
	m.userStore.On("GetByID", mock.Anything, userID).
		Return(model.User{ID: userID, PasswordHash: "oldhash"}, nil)
	m.hasher.On("Verify", "oldpassword1", "oldhash").Return(true)
	m.hasher.On("Hash", mock.Anything, "newpassword1").Return("newhash", nil)
	m.userStore.On("UpdatePassword", mock.Anything, userID, "newhash").Return(nil)
	m.tokens.On("Generate", userID).Return("fresh-token", nil)

	token, err := a.UpdatePassword(ctx, userID, "oldpassword1", "newpassword1")
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
}

func TestAuth_UpdatePassword_WrongCurrentPassword(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	userID := uuid.New()
	m.userStore.On("GetByID", mock.Anything, userID).
		Return(model.User{ID: userID, PasswordHash: "oldhash"}, nil)
	m.hasher.On("Verify", "wrongpass", "oldhash").Return(false)

	_, err := a.UpdatePassword(ctx, userID, "wrongpass", "newpassword1")
	require.ErrorIs(t, err, model.ErrInvalidCredentials)
	m.userStore.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuth_UpdatePassword_ShortNewPassword(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	_, err := a.UpdatePassword(ctx, uuid.New(), "oldpassword1", "123")
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	m.userStore.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAuth_UpdateDetails_Success(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	userID := uuid.New()
	m.userStore.On("UpdateDetails", mock.Anything, userID, "New Name", "new@x.com").
		Return(model.User{ID: userID, Name: "New Name", Email: "new@x.com"}, nil)

	user, err := a.UpdateDetails(ctx, userID, "New Name", "New@X.com")
	require.NoError(t, err)
	assert.Equal(t, "new@x.com", user.Email)
}

func TestAuth_UpdateDetails_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	a, m := newAuthWithMocks()

	userID := uuid.New()
	m.userStore.On("UpdateDetails", mock.Anything, userID, "Name", "taken@x.com").
		Return(model.User{}, model.ErrDuplicateEmail)

	_, err := a.UpdateDetails(ctx, userID, "Name", "taken@x.com")
	require.ErrorIs(t, err, model.ErrDuplicateEmail)
}
