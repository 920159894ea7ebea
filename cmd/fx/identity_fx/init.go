package identity_fx

import (
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"redcreativa/internal/config"
	"redcreativa/internal/events"
	"redcreativa/internal/repositories"
	"redcreativa/internal/services"
	mem "redcreativa/pkg/memcache"
	"redcreativa/pkg/utils"
)

var Module = fx.Provide(
	provideIdentityRepo,
	provideProfileRepo,
	provideTokenIssuer,
	provideIdentityService,
	provideProfileService,
	provideAuthRegistry,
)

func provideIdentityRepo(db *gorm.DB) repositories.IdentityRepository {
	return repositories.NewIdentityRepository(db)
}

func provideProfileRepo(db *gorm.DB) repositories.ProfileRepository {
	return repositories.NewProfileRepository(db)
}

func provideTokenIssuer(cfg config.AuthConfig) *utils.TokenIssuer {
	return utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
}

func provideIdentityService(
	repo repositories.IdentityRepository,
	tokens mem.TokenStore,
	revocations mem.RevocationStore,
	issuer *utils.TokenIssuer,
	mail services.IMailService,
	publisher events.Publisher,
	cfg config.AuthConfig,
) services.IdentityService {
	return services.NewIdentityService(repo, tokens, revocations, issuer, mail, publisher, services.IdentityConfig{
		RequireEmailConfirmation: cfg.RequireEmailConfirmation,
		ConfirmationTTL:          cfg.ConfirmationTTL,
	})
}

func provideProfileService(repo repositories.ProfileRepository, publisher events.Publisher) services.ProfileServiceInterface {
	return services.NewProfileService(repo, publisher)
}

func provideAuthRegistry(
	lc fx.Lifecycle,
	identity services.IdentityService,
	profiles services.ProfileServiceInterface,
	storage mem.LocalStorage,
	cfg config.AuthConfig,
) *services.AuthContextRegistry {
	registry := services.NewAuthContextRegistry(func(clientID string) *services.AuthContext {
		return services.NewAuthContext(clientID, services.AuthContextDeps{
			Identity:    identity,
			Profiles:    profiles,
			Storage:     storage,
			DemoEnabled: cfg.DemoEnabled,
		})
	}, cfg.ContextIdleTTL)

	interval := max(cfg.ContextIdleTTL/2, time.Minute)
	lc.Append(fx.StartStopHook(
		func() { registry.Start(interval) },
		registry.Stop,
	))
	return registry
}
