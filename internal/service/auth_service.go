package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"chathub/internal/auth"
	apperrors "chathub/internal/errors"
	"chathub/internal/model"
	"chathub/internal/repository"
)

// AuthService owns login sessions and the verification / reset token
// lifecycle. Each opaque token is single-use per flow: reissuing overwrites
// the outstanding one, so only the latest token ever validates.
type AuthService interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	VerifyEmail(ctx context.Context, token string) error
	SetPassword(ctx context.Context, token, password string) error
	ResendVerification(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, password string) error
}

type authService struct {
	userRepo   repository.UserRepository
	hasher     *auth.PasswordHasher
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	hasher *auth.PasswordHasher,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		hasher:     hasher,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Login authenticates a user and returns access and refresh tokens. Unknown
// email, missing credential and wrong password all surface the same error so
// callers cannot enumerate accounts.
func (s *authService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", nil, apperrors.ErrInvalidCredentials
		}
		return "", "", nil, fmt.Errorf("find user: %w", err)
	}

	if !user.EmailVerified {
		return "", "", nil, apperrors.ErrEmailNotVerified
	}
	if !user.IsApproved {
		return "", "", nil, apperrors.ErrNotApproved
	}
	if user.Credential == nil {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(ctx, password, user.Credential.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return "", "", nil, apperrors.ErrInvalidCredentials
		}
		return "", "", nil, fmt.Errorf("verify password: %w", err)
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Email, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token against its stored record and
// returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}
	if claims.ID == "" {
		return "", apperrors.ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", apperrors.ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes the session: the refresh token record is deleted and the
// access token is blacklisted for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	refreshID, err := s.jwtService.ExtractTokenID(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, refreshID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	if accessID, err := s.jwtService.ExtractTokenID(accessToken); err == nil {
		if err := s.tokenStore.BlacklistAccessToken(ctx, accessID, auth.AccessTokenExpiry); err != nil {
			return fmt.Errorf("blacklist access token: %w", err)
		}
	}
	return nil
}

// VerifyEmail marks the email verified. The token is deliberately retained:
// the following set-password step is authenticated by the same token, and it
// is cleared only once a password is successfully set.
func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidVerificationToken
		}
		return fmt.Errorf("find user by verification token: %w", err)
	}

	if user.EmailVerified {
		return apperrors.ErrAlreadyVerified
	}

	user.EmailVerified = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	return nil
}

// SetPassword finishes registration: it hashes the password, upserts the
// credential (username defaults to the email) and clears the verification
// token, all in one transaction.
func (s *authService) SetPassword(ctx context.Context, token, password string) error {
	user, err := s.userRepo.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidVerificationToken
		}
		return fmt.Errorf("find user by verification token: %w", err)
	}

	if !user.EmailVerified {
		return apperrors.ErrEmailNotVerified
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.VerificationToken = nil
	return s.upsertCredential(ctx, user, hash)
}

// ResendVerification issues a fresh verification token, invalidating the
// previous one. Returns "" for unknown emails so the handler can answer
// uniformly without revealing whether the email exists.
func (s *authService) ResendVerification(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if user.EmailVerified {
		return "", apperrors.ErrAlreadyVerified
	}

	token, err := auth.GenerateVerificationToken()
	if err != nil {
		return "", err
	}
	user.VerificationToken = &token
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", fmt.Errorf("store verification token: %w", err)
	}
	return token, nil
}

// ForgotPassword issues a reset token. The existing token is cleared with its
// own UPDATE before the new one is written, so at most one valid reset token
// exists even when requests race on the same row. Returns "" for unknown
// emails.
func (s *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !user.EmailVerified {
		return "", apperrors.ErrEmailNotVerified
	}

	if err := s.userRepo.ClearResetToken(ctx, user.ID); err != nil {
		return "", fmt.Errorf("clear reset token: %w", err)
	}

	token, err := auth.GenerateVerificationToken()
	if err != nil {
		return "", err
	}
	user.PasswordResetToken = &token
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", fmt.Errorf("store reset token: %w", err)
	}
	return token, nil
}

// ResetPassword consumes a reset token: hashes the new password, upserts the
// credential and clears the token.
func (s *authService) ResetPassword(ctx context.Context, token, password string) error {
	user, err := s.userRepo.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidResetToken
		}
		return fmt.Errorf("find user by reset token: %w", err)
	}

	if !user.EmailVerified {
		return apperrors.ErrEmailNotVerified
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordResetToken = nil
	return s.upsertCredential(ctx, user, hash)
}

// upsertCredential stores the new hash and the cleared token fields together,
// so a failure leaves both the user row and the credential untouched.
func (s *authService) upsertCredential(ctx context.Context, user *model.User, hash string) error {
	return s.userRepo.WithTransaction(ctx, func(ctx context.Context, users repository.UserRepository, creds repository.CredentialRepository) error {
		if user.Credential != nil {
			user.Credential.PasswordHash = hash
			if err := creds.Update(ctx, user.Credential); err != nil {
				return fmt.Errorf("update credential: %w", err)
			}
		} else {
			cred := &model.Credential{
				UserID:       user.ID,
				Username:     user.Email,
				PasswordHash: hash,
			}
			if err := creds.Create(ctx, cred); err != nil {
				return fmt.Errorf("create credential: %w", err)
			}
			user.Credential = cred
		}
		if err := users.Update(ctx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		return nil
	})
}
