//go:build wireinject
// +build wireinject

package di

import (
	"sporti/config"
	"sporti/infras/jwt"
	"sporti/infras/kafka"
	"sporti/infras/metrics"
	"sporti/infras/otel"
	"sporti/infras/postgres"
	"sporti/infras/redis"
	"sporti/infras/s3"
	"sporti/internal/domains/site"
	"sporti/permissions"
	"sporti/shared/cache"
	"sporti/transport/http"
	"sporti/transport/http/middleware"
	"sporti/transport/http/router"

	"github.com/google/wire"

	authService "sporti/internal/domains/auth/service"
	availabilityService "sporti/internal/domains/availability/service"
	bookingRepository "sporti/internal/domains/booking/repository"
	bookingService "sporti/internal/domains/booking/service"
	bookingValidator "sporti/internal/domains/booking/validator"
	facilityRepository "sporti/internal/domains/facility/repository"
	facilityService "sporti/internal/domains/facility/service"
	memberRepository "sporti/internal/domains/member/repository"
	memberService "sporti/internal/domains/member/service"
	roomRepository "sporti/internal/domains/room/repository"
	roomService "sporti/internal/domains/room/service"

	authHandler "sporti/internal/handlers/auth"
	bookingHandler "sporti/internal/handlers/booking"
	facilityHandler "sporti/internal/handlers/facility"
	memberHandler "sporti/internal/handlers/member"
	roomHandler "sporti/internal/handlers/room"
	siteHandler "sporti/internal/handlers/site"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
	site.New,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
	metrics.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var memberDomain = wire.NewSet(
	memberRepository.New,
	memberService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var facilityDomain = wire.NewSet(
	facilityRepository.New,
	facilityService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingValidator.New,
	bookingService.New,
)

var availabilityDomain = wire.NewSet(
	availabilityService.New,
)

var domains = wire.NewSet(
	memberDomain,
	authDomain,
	roomDomain,
	facilityDomain,
	bookingDomain,
	availabilityDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	memberHandler.New,
	roomHandler.New,
	facilityHandler.New,
	bookingHandler.New,
	siteHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
