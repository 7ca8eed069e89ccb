package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/oulia/oulia/gateway/internal/domain/entity"
	"github.com/oulia/oulia/gateway/internal/domain/repository"
	apperrors "github.com/oulia/oulia/gateway/pkg/errors"
)

// MinPasswordLength is the shortest accepted host password.
const MinPasswordLength = 8

const badCredentials = "invalid email or password"

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

// TokenSigner issues host session tokens.
type TokenSigner interface {
	Sign(userID, email string) (string, error)
}

// RegisterInput is a new host account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// AuthResult is a signed-in host.
type AuthResult struct {
	Token string
	Host  *entity.Host
}

// AuthUseCase registers and signs in hosts.
type AuthUseCase struct {
	hosts  repository.HostRepository
	hasher PasswordHasher
	tokens TokenSigner
	newID  IDFunc
	logger *zap.Logger
}

// NewAuthUseCase 创建认证用例
func NewAuthUseCase(hosts repository.HostRepository, hasher PasswordHasher, tokens TokenSigner, newID IDFunc, logger *zap.Logger) *AuthUseCase {
	return &AuthUseCase{hosts: hosts, hasher: hasher, tokens: tokens, newID: defaultID(newID), logger: logger}
}

// Register creates a host account and signs it in.
func (uc *AuthUseCase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if len(in.Password) < MinPasswordLength {
		return nil, invalid(entity.ErrWeakPassword)
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalErrorWithCause("hash password", err)
	}
	host, err := entity.NewHost(uc.newID(), in.Email, hash, in.FirstName, in.LastName, in.Phone)
	if err != nil {
		return nil, invalid(err)
	}
	if err := uc.hosts.Save(ctx, host); err != nil {
		if apperrors.IsAlreadyExists(err) {
			return nil, apperrors.NewAlreadyExistsError("email already registered")
		}
		return nil, err
	}
	uc.logger.Info("Host registered", zap.String("host_id", host.ID))
	return uc.session(host)
}

// Login checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	host, err := uc.hosts.FindByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewUnauthorizedError(badCredentials)
		}
		return nil, err
	}
	ok, err := uc.hasher.Verify(host.PasswordHash, password)
	if err != nil {
		uc.logger.Warn("Stored password hash unreadable", zap.String("host_id", host.ID), zap.Error(err))
		return nil, apperrors.NewUnauthorizedError(badCredentials)
	}
	if !ok {
		return nil, apperrors.NewUnauthorizedError(badCredentials)
	}
	return uc.session(host)
}

// Profile returns the signed-in host.
func (uc *AuthUseCase) Profile(ctx context.Context, hostID string) (*entity.Host, error) {
	return uc.hosts.FindByID(ctx, hostID)
}

func (uc *AuthUseCase) session(host *entity.Host) (*AuthResult, error) {
	token, err := uc.tokens.Sign(host.ID, host.Email)
	if err != nil {
		return nil, apperrors.NewInternalErrorWithCause("sign token", err)
	}
	return &AuthResult{Token: token, Host: host}, nil
}
