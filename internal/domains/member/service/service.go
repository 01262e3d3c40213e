package service

import (
	"context"
	"fmt"

	"sporti/config"
	"sporti/infras/otel"
	"sporti/internal/domains/member/model"
	"sporti/internal/domains/member/model/dto"
	"sporti/internal/domains/member/repository"
	"sporti/shared"
	"sporti/shared/cache"
	"sporti/shared/constant"
	gDto "sporti/shared/dto"
	"sporti/shared/failure"
	"sporti/shared/password"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetMember    = "member:get"
	cacheGetAllMember = "member:gets"
	cacheCountMember  = "member:count"
)

type Member interface {
	Create(ctx context.Context, req dto.CreateMemberRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetMembersResponse, error)
	Get(ctx context.Context, id string) (dto.MemberResponse, error)
	Update(ctx context.Context, req dto.UpdateMemberRequest, id string) error
}

type serviceImpl struct {
	repo  repository.Member
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Member, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Member {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func ByEmail(email string) gDto.FilterGroup {
	return shared.FilterByID(email, model.FieldEmail, model.TableName)
}

// Create provisions a member account. Accounts are issued by administrators only.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateMemberRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".member.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	exists, err := s.repo.Exist(ctx, ByEmail(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if member exists")

		return fmt.Errorf("failed to check if member exists: %w", err)
	}

	if exists {
		return failure.Conflict("email already registered")
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err = s.repo.Insert(ctx, req.ToModel(user, hashedPassword)); err != nil {
		log.Error().Err(err).Msg("failed to create member")

		return fmt.Errorf("failed to create member: %w", err)
	}

	go s.invalidate(context.WithoutCancel(ctx), constant.Empty)

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetMembersResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".member.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllMember, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	countKey := shared.BuildCacheKeyWithQuery(cacheCountMember, req, filter)

	var total int
	if err = s.cache.Get(ctx, countKey, &total); err != nil {
		if total, err = s.repo.Count(ctx, filter); err != nil {
			log.Error().Err(err).Msg("failed to count members")

			return res, fmt.Errorf("failed to count members: %w", err)
		}

		go s.save(context.WithoutCancel(ctx), countKey, total)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get members")

		return res, fmt.Errorf("failed to get members: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go s.save(context.WithoutCancel(ctx), cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.MemberResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".member.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetMember, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	member, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(member)

	go s.save(context.WithoutCancel(ctx), cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateMemberRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".member.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Update(ctx, shared.TransformFields(req, user), shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to update member")

		return fmt.Errorf("failed to update member: %w", err)
	}

	go s.invalidate(context.WithoutCancel(ctx), id)

	return nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Member, error) {
	member, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get member")

		return member, fmt.Errorf("failed to get member: %w", err)
	}

	if member.ID == constant.Empty {
		return member, failure.NotFound("member not found")
	}

	return member, nil
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	if err := s.cache.Save(ctx, key, value, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Str("cacheKey", key).Msg("failed to save member cache")
	}
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if id != constant.Empty {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetMember, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete member cache")
		}
	}

	shared.InvalidateCaches(ctx, s.cache, cacheGetAllMember)
	shared.InvalidateCaches(ctx, s.cache, cacheCountMember)
}
