package service

import (
	"context"
	"fmt"

	"sporti/config"
	"sporti/infras/jwt"
	"sporti/infras/otel"
	"sporti/internal/domains/auth/model/dto"
	memberModel "sporti/internal/domains/member/model"
	memberRepo "sporti/internal/domains/member/repository"
	memberService "sporti/internal/domains/member/service"
	"sporti/shared"
	"sporti/shared/constant"
	"sporti/shared/failure"
	"sporti/shared/password"
	"sporti/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.TokenResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.TokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, memberID string) error
}

type serviceImpl struct {
	memberRepo memberRepo.Member
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(memberRepo memberRepo.Member, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		memberRepo: memberRepo,
		cfg:        cfg,
		otel:       otel,
		jwtService: jwt,
	}
}

func identity(m memberModel.Member) jwt.Identity {
	return jwt.Identity{
		UserID:      m.ID,
		Email:       m.Email,
		Role:        m.Role,
		Designation: m.Designation,
	}
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := memberService.ByEmail(req.Email)

	member, err := s.memberRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get member")

		return res, fmt.Errorf("failed to get member: %w", err)
	}

	if member.ID == constant.Empty {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.Unauthorized("invalid email or password")
	}

	if err = password.Verify(req.Password, member.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.Unauthorized("invalid email or password")
	}

	if !member.Active {
		return res, failure.Forbidden("member account is deactivated")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(identity(member))
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	lastLogin := shared.TransformFields(dto.UpdateLastLoginRequest{LastLogin: timezone.Now()}, member.ID)

	if err := s.memberRepo.Update(ctx, lastLogin, filter); err != nil {
		log.Warn().Err(err).Str("member_id", member.ID).Msg("failed to update last login")
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

// RefreshToken rotates the token pair. The member is re-read so deactivation and role or
// designation changes take effect at the next refresh.
func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.TokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	claims, err := s.jwtService.ValidateToken(req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to validate refresh token")

		return res, failure.Unauthorized("invalid refresh token")
	}

	member, err := s.memberRepo.Get(ctx, shared.FilterByID(claims.UserID, memberModel.FieldID, memberModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get member")

		return res, fmt.Errorf("failed to get member: %w", err)
	}

	if member.ID == constant.Empty || !member.Active {
		return res, failure.Unauthorized("invalid refresh token")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(identity(member))
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, memberID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".auth.ChangePassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(memberID, memberModel.FieldID, memberModel.TableName)

	member, err := s.memberRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get member")

		return fmt.Errorf("failed to get member: %w", err)
	}

	if member.ID == constant.Empty {
		return failure.NotFound("member not found")
	}

	if err = password.Verify(req.CurrentPassword, member.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect")
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatedFields := shared.TransformFields(dto.UpdatePasswordRequest{Password: hashedPassword}, memberID)

	if err = s.memberRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
