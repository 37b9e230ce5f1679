package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aibanking/auth-server/internal/logger"
	"github.com/aibanking/auth-server/internal/model"
	"github.com/aibanking/auth-server/internal/security"
)

const minPasswordLength = 8

// Auth orchestrates registration, login and the credential lifecycle.
type Auth struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	tokens    model.TokenManager
	mailer    model.Mailer
	resetURL  string
	logger    *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokens model.TokenManager,
	mailer model.Mailer,
	resetURL string,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore: userStore,
		hasher:    hasher,
		tokens:    tokens,
		mailer:    mailer,
		resetURL:  resetURL,
		logger:    logger,
	}
}

// RegisterParams carries validated-at-the-boundary registration input.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user and issues a session token. Duplicate emails
// are detected by the store's unique constraint, not a pre-check, so two
// concurrent registrations cannot both succeed.
func (a *Auth) Register(ctx context.Context, params RegisterParams) (model.User, string, error) {
	name := strings.TrimSpace(params.Name)
	email := normalizeEmail(params.Email)

	if name == "" || email == "" || params.Password == "" {
		return model.User{}, "", model.NewValidationError("Please provide name, email and password")
	}
	if len(params.Password) < minPasswordLength {
		return model.User{}, "", model.NewValidationError("Password must be at least 8 characters")
	}

	a.logger.Debug("Auth service: registering user", "email", email)

	hash, err := a.hasher.Hash(ctx, params.Password)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			a.logger.Info("Auth service: duplicate email on registration", "email", email)
			return model.User{}, "", err
		}
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := a.tokens.Generate(user.ID)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user registered", "user_id", user.ID, "email", email)

	return user, token, nil
}

// Login verifies credentials and issues a session token. An unknown email
// and a wrong password both return ErrInvalidCredentials so the response
// cannot be used to enumerate accounts. Store failures are surfaced as
// wrapped errors, never as ErrInvalidCredentials.
func (a *Auth) Login(ctx context.Context, email, password string) (model.User, string, error) {
	email = normalizeEmail(email)

	if email == "" || password == "" {
		return model.User{}, "", model.NewValidationError("Please provide email and password")
	}

	a.logger.Debug("Auth service: logging in user", "email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, "", model.ErrInvalidCredentials
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, "", fmt.Errorf("failed to get user by email: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordHash) {
		return model.User{}, "", model.ErrInvalidCredentials
	}

	token, err := a.tokens.Generate(user.ID)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: user logged in", "user_id", user.ID)

	return user, token, nil
}

// ForgotPassword generates a reset secret for the given email and mails it
// out. An unknown email is not an error: callers always answer with the same
// generic message. When dispatch fails the persisted reset state is rolled
// back so the dead secret does not block a later attempt.
func (a *Auth) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return model.NewValidationError("Please provide an email")
	}

	a.logger.Debug("Auth service: forgot password requested", "email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	raw, digest, expiresAt, err := security.NewResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := a.userStore.SetResetToken(ctx, user.ID, digest, expiresAt); err != nil {
		return fmt.Errorf("failed to persist reset token: %w", err)
	}

	body := fmt.Sprintf(
		"Use this token to reset your password: %s\n\nReset link: %s/%s\n\nThe token expires in %d minutes.",
		raw, a.resetURL, raw, int(security.ResetTokenTTL.Minutes()),
	)
	if err := a.mailer.Send(ctx, user.Email, "Password Reset", body); err != nil {
		a.logger.Error("Auth service: failed to send reset email",
			"user_id", user.ID,
			"error", err.Error())
		if clearErr := a.userStore.ClearResetToken(ctx, user.ID); clearErr != nil {
			a.logger.Error("Auth service: failed to roll back reset token",
				"user_id", user.ID,
				"error", clearErr.Error())
		}
		return model.ErrNotificationFailure
	}

	a.logger.Info("Auth service: reset token dispatched", "user_id", user.ID)

	return nil
}

// ResetPassword redeems a raw reset secret and sets the new password. The
// store consumes the secret atomically, so a second call with the same
// secret fails with ErrInvalidResetToken.
func (a *Auth) ResetPassword(ctx context.Context, rawToken, newPassword string) (model.User, string, error) {
	if rawToken == "" {
		return model.User{}, "", model.ErrInvalidResetToken
	}
	if len(newPassword) < minPasswordLength {
		return model.User{}, "", model.NewValidationError("Password must be at least 8 characters")
	}

	hash, err := a.hasher.Hash(ctx, newPassword)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.userStore.ConsumeResetToken(ctx, security.HashResetToken(rawToken), hash)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, "", model.ErrInvalidResetToken
	}
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to consume reset token: %w", err)
	}

	token, err := a.tokens.Generate(user.ID)
	if err != nil {
		return model.User{}, "", fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: password reset completed", "user_id", user.ID)

	return user, token, nil
}

// UpdatePassword changes an authenticated user's password after verifying
// the current one. Previously issued tokens stay valid until their natural
// expiry; there is no revocation list.
func (a *Auth) UpdatePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) (string, error) {
	if currentPassword == "" || newPassword == "" {
		return "", model.NewValidationError("Please provide current and new password")
	}
	if len(newPassword) < minPasswordLength {
		return "", model.NewValidationError("Password must be at least 8 characters")
	}

	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get user by id: %w", err)
	}

	if !a.hasher.Verify(currentPassword, user.PasswordHash) {
		return "", model.ErrInvalidCredentials
	}

	hash, err := a.hasher.Hash(ctx, newPassword)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.userStore.UpdatePassword(ctx, user.ID, hash); err != nil {
		return "", fmt.Errorf("failed to update password: %w", err)
	}

	token, err := a.tokens.Generate(user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: password updated", "user_id", user.ID)

	return token, nil
}

// UpdateDetails changes an authenticated user's name and email.
func (a *Auth) UpdateDetails(ctx context.Context, userID uuid.UUID, name, email string) (model.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" || email == "" {
		return model.User{}, model.NewValidationError("Please provide name and email")
	}

	user, err := a.userStore.UpdateDetails(ctx, userID, name, email)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			return model.User{}, err
		}
		return model.User{}, fmt.Errorf("failed to update user details: %w", err)
	}

	a.logger.Info("Auth service: user details updated", "user_id", user.ID)

	return user, nil
}
