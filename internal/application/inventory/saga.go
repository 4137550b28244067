package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Proveedores-api/pkg/logger"
)

// Compensation deshace el efecto durable de un paso ya confirmado.
type Compensation func(ctx context.Context) error

// Step paso de una saga. Execute devuelve la compensación de lo que dejó confirmado;
// nil si no hizo cambios durables. Si falla a medias puede devolver compensación y error.
type Step struct {
	Name string
	Execute func(ctx context.Context) (Compensation, error)
}

// StepError error de un paso; Unwrap devuelve el error original.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("paso %s: %v", e.Step, e.Err) }

func (e *StepError) Unwrap() error { return e.Err }

// Saga ejecuta pasos en orden estricto y, ante un fallo, compensa los confirmados en orden inverso.
// No reintenta: el llamador decide si vuelve a invocar la saga completa.
type Saga struct {
	name  string
	steps []Step
	log   *logger.Logger
}

// NewSaga construye una saga con nombre (para logs).
func NewSaga(name string, log *logger.Logger, steps ...Step) *Saga {
	return &Saga{name: name, steps: steps, log: log}
}

type committedStep struct {
	name       string
	compensate Compensation
}

// Run ejecuta la saga. Devuelve *StepError envolviendo el error original del paso fallido;
// los errores de compensación solo se registran.
func (s *Saga) Run(ctx context.Context) error {
	committed := make([]committedStep, 0, len(s.steps))
	for _, step := range s.steps {
		s.log.Debug().Str("saga", s.name).Str("step", step.Name).Msg("ejecutando paso")
		comp, err := step.Execute(ctx)
		if comp != nil {
			committed = append(committed, committedStep{name: step.Name, compensate: comp})
		}
		if err != nil {
			s.log.Error().Err(err).Str("saga", s.name).Str("step", step.Name).
				Int("to_compensate", len(committed)).Msg("paso fallido, compensando")
			s.compensate(ctx, committed)
			return &StepError{Step: step.Name, Err: err}
		}
	}
	return nil
}

// compensate ignora la cancelación de ctx: los pasos confirmados siempre se deshacen.
func (s *Saga) compensate(ctx context.Context, committed []committedStep) {
	ctx = context.WithoutCancel(ctx)
	for i := len(committed) - 1; i >= 0; i-- {
		c := committed[i]
		if err := c.compensate(ctx); err != nil {
			s.log.Error().Err(err).Str("saga", s.name).Str("step", c.name).Msg("fallo en compensación")
			continue
		}
		s.log.Info().Str("saga", s.name).Str("step", c.name).Msg("paso compensado")
	}
}
