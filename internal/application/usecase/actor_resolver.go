package usecase

import (
	"context"
	"strings"

	"golang.org/x/time/rate"

	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
	"github.com/jhoicas/Proveedores-api/internal/domain/repository"
	"github.com/jhoicas/Proveedores-api/pkg/logger"
)

// ActorResolver resuelve ids de actor a nombres visibles al momento de presentar.
// Nunca falla: si el servicio de identidad no responde, no encuentra al usuario o se supera
// el límite de consultas, el actor queda solo con su id crudo.
type ActorResolver struct {
	users   repository.UserRepository
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewActorResolver construye el resolvedor. limiter nil = sin límite.
func NewActorResolver(users repository.UserRepository, limiter *rate.Limiter, log *logger.Logger) *ActorResolver {
	return &ActorResolver{users: users, limiter: limiter, log: log.Component("actor_resolver")}
}

// Resolve devuelve la referencia del actor con DisplayName cuando se puede resolver.
func (r *ActorResolver) Resolve(ctx context.Context, actorID string) entity.ActorRef {
	ref := entity.ActorRef{ID: actorID}
	if actorID == "" || r == nil || r.users == nil {
		return ref
	}
	if r.limiter != nil && !r.limiter.Allow() {
		r.log.Debug().Str("actor_id", actorID).Msg("límite de consultas de identidad alcanzado")
		return ref
	}
	user, err := r.users.GetByID(ctx, actorID)
	if err != nil {
		r.log.Warn().Err(err).Str("actor_id", actorID).Msg("no se pudo resolver el actor")
		return ref
	}
	if user == nil {
		return ref
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if name == "" {
		name = user.Email
	}
	if name != "" {
		ref.DisplayName = &name
	}
	return ref
}

// DisplayName nombre del actor o, en su defecto, el id crudo.
func (r *ActorResolver) DisplayName(ctx context.Context, actorID string) string {
	ref := r.Resolve(ctx, actorID)
	if ref.DisplayName != nil {
		return *ref.DisplayName
	}
	return actorID
}
