package impl

import (
	"context"
	"log/slog"
	"time"

	deliveryContext "lockerbox/internal/delivery/context"
	"lockerbox/internal/domain/entity"
	domainerrors "lockerbox/internal/domain/errors"
	"lockerbox/internal/domain/repository"
	"lockerbox/internal/domain/service"
	"lockerbox/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type adminService struct {
	adminRepo      repository.AdminRepository
	passwordHasher service.PasswordHasher
	tokenService   service.TokenService
	auditSink      service.AuditSink
	logger         *slog.Logger
}

// AdminServiceParams holds dependencies for AdminService, injected by Fx.
type AdminServiceParams struct {
	fx.In

	AdminRepo      repository.AdminRepository
	PasswordHasher service.PasswordHasher
	TokenService   service.TokenService
	AuditSink      service.AuditSink
	Logger         *slog.Logger
}

// NewAdminService creates a new admin service instance
func NewAdminService(params AdminServiceParams) usecase.AdminUsecase {
	return &adminService{
		adminRepo:      params.AdminRepo,
		passwordHasher: params.PasswordHasher,
		tokenService:   params.TokenService,
		auditSink:      params.AuditSink,
		logger:         params.Logger,
	}
}

// Authenticate verifies the credentials and issues a signed access token.
// Unknown usernames and wrong passwords produce the same error so the login
// form cannot be used to enumerate accounts.
func (s *adminService) Authenticate(ctx context.Context, username, password string) (*usecase.AuthResult, error) {
	admin, err := s.adminRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			s.auditLoginFailed(ctx, username, "unknown username")

			return nil, domainerrors.ErrInvalidCredentials
		}

		return nil, errors.Wrap(err, "failed to load admin user")
	}

	if !s.passwordHasher.Check(password, admin.PasswordHash) {
		s.auditLoginFailed(ctx, username, "wrong password")

		return nil, domainerrors.ErrInvalidCredentials
	}

	token, err := s.tokenService.GenerateToken(admin.ID, admin.Username, string(admin.Role))
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	now := time.Now()
	if err := s.adminRepo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		// Login still succeeds; the stale timestamp is only cosmetic.
		s.log(ctx).LogAttrs(ctx, slog.LevelWarn, "failed to update last login",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
	}
	admin.LastLogin = &now

	s.auditSink.Log(ctx, entity.ActionAdminLoginSuccess, entity.AuditAdminAction, entity.SeverityLow, map[string]any{
		"username": username,
	})

	return &usecase.AuthResult{
		Token:     token,
		ExpiresAt: now.Add(s.tokenService.AccessTokenDuration()),
		Admin:     admin,
	}, nil
}

func (s *adminService) auditLoginFailed(ctx context.Context, username, reason string) {
	s.auditSink.Log(ctx, entity.ActionAdminLoginFailed, entity.AuditSecurityEvent, entity.SeverityMedium, map[string]any{
		"username": username,
		"reason":   reason,
	})
}

// log returns the request-scoped logger when present.
func (s *adminService) log(ctx context.Context) *slog.Logger {
	return deliveryContext.GetLoggerOrDefault(ctx, s.logger)
}
