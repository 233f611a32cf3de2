package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Migration-Dashboard/internal/apperrors"
	"github.com/ndewijer/Migration-Dashboard/internal/repository"
)

const githubTokenSetting = "github_token"

// TokenService keeps the access token used for uploads, encrypted at rest with fernet.
type TokenService struct {
	settingRepo *repository.SettingRepository
	key         *fernet.Key
}

// NewTokenService creates a TokenService. An empty key yields a disabled vault
// whose operations return apperrors.ErrTokenVaultDisabled.
func NewTokenService(settingRepo *repository.SettingRepository, key string) (*TokenService, error) {
	s := &TokenService{settingRepo: settingRepo}
	if key == "" {
		return s, nil
	}

	k, err := fernet.DecodeKey(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidTokenKey, err)
	}
	s.key = k
	return s, nil
}

// GenerateTokenKey returns a new random key suitable for MIGDASH_TOKEN_KEY.
func GenerateTokenKey() (string, error) {
	var k fernet.Key
	if err := k.Generate(); err != nil {
		return "", fmt.Errorf("failed to generate key: %w", err)
	}
	return k.Encode(), nil
}

// Enabled reports whether a key is configured.
func (s *TokenService) Enabled() bool {
	return s.key != nil
}

// Save encrypts and stores token, replacing any previous one.
func (s *TokenService) Save(ctx context.Context, token string) error {
	if !s.Enabled() {
		return apperrors.ErrTokenVaultDisabled
	}
	if token == "" {
		return errors.New("token must not be empty")
	}

	sealed, err := fernet.EncryptAndSign([]byte(token), s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}
	return s.settingRepo.PutSetting(ctx, githubTokenSetting, string(sealed))
}

// Token returns the stored token, or apperrors.ErrSettingNotFound when none is saved.
func (s *TokenService) Token(ctx context.Context) (string, error) {
	if !s.Enabled() {
		return "", apperrors.ErrTokenVaultDisabled
	}

	sealed, err := s.settingRepo.GetSetting(ctx, githubTokenSetting)
	if err != nil {
		return "", err
	}

	// Negative ttl: stored tokens do not expire.
	plain := fernet.VerifyAndDecrypt([]byte(sealed), -1, []*fernet.Key{s.key})
	if plain == nil {
		return "", apperrors.ErrTokenDecrypt
	}
	return string(plain), nil
}

// Clear removes the stored token.
func (s *TokenService) Clear(ctx context.Context) error {
	return s.settingRepo.DeleteSetting(ctx, githubTokenSetting)
}
