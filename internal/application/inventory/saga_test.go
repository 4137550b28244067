package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Proveedores-api/internal/application/inventory"
	"github.com/jhoicas/Proveedores-api/pkg/logger"
)

// recorder registra el orden de ejecución y de compensación de los pasos.
type recorder struct {
	calls []string
}

func (r *recorder) step(name string, failWith error, withComp bool) inventory.Step {
	return inventory.Step{
		Name: name,
		Execute: func(ctx context.Context) (inventory.Compensation, error) {
			r.calls = append(r.calls, "exec:"+name)
			if failWith != nil {
				return nil, failWith
			}
			if !withComp {
				return nil, nil
			}
			return func(ctx context.Context) error {
				r.calls = append(r.calls, "comp:"+name)
				return nil
			}, nil
		},
	}
}

func TestSaga_TodosLosPasosOK(t *testing.T) {
	rec := &recorder{}
	saga := inventory.NewSaga("test", logger.Nop(),
		rec.step("a", nil, true),
		rec.step("b", nil, true),
		rec.step("c", nil, false),
	)

	require.NoError(t, saga.Run(context.Background()))
	assert.Equal(t, []string{"exec:a", "exec:b", "exec:c"}, rec.calls)
}

func TestSaga_CompensaEnOrdenInverso(t *testing.T) {
	rec := &recorder{}
	boom := errors.New("boom")
	saga := inventory.NewSaga("test", logger.Nop(),
		rec.step("a", nil, true),
		rec.step("b", nil, false),
		rec.step("c", nil, true),
		rec.step("d", boom, true),
		rec.step("e", nil, true),
	)

	err := saga.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom), "el error original debe poder inspeccionarse")

	var stepErr *inventory.StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, "d", stepErr.Step)

	assert.Equal(t, []string{"exec:a", "exec:b", "exec:c", "exec:d", "comp:c", "comp:a"}, rec.calls,
		"e no se ejecuta; b no tiene compensación")
}

func TestSaga_FalloDeCompensacionNoDetieneLasDemas(t *testing.T) {
	var calls []string
	boom := errors.New("paso falló")
	saga := inventory.NewSaga("test", logger.Nop(),
		inventory.Step{Name: "a", Execute: func(ctx context.Context) (inventory.Compensation, error) {
			return func(ctx context.Context) error {
				calls = append(calls, "comp:a")
				return nil
			}, nil
		}},
		inventory.Step{Name: "b", Execute: func(ctx context.Context) (inventory.Compensation, error) {
			return func(ctx context.Context) error {
				calls = append(calls, "comp:b")
				return errors.New("compensación falló")
			}, nil
		}},
		inventory.Step{Name: "c", Execute: func(ctx context.Context) (inventory.Compensation, error) {
			return nil, boom
		}},
	)

	err := saga.Run(context.Background())
	assert.True(t, errors.Is(err, boom), "se devuelve el error del paso, no el de la compensación")
	assert.Equal(t, []string{"comp:b", "comp:a"}, calls)
}

func TestSaga_PasoParcialSeCompensa(t *testing.T) {
	var compensated bool
	boom := errors.New("fallo a medias")
	saga := inventory.NewSaga("test", logger.Nop(),
		inventory.Step{Name: "parcial", Execute: func(ctx context.Context) (inventory.Compensation, error) {
			return func(ctx context.Context) error {
				compensated = true
				return nil
			}, boom
		}},
	)

	require.Error(t, saga.Run(context.Background()))
	assert.True(t, compensated, "la compensación devuelta junto al error también se ejecuta")
}

func TestSaga_CompensaConContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var compCtxErr error
	compensated := false
	saga := inventory.NewSaga("test", logger.Nop(),
		inventory.Step{Name: "a", Execute: func(ctx context.Context) (inventory.Compensation, error) {
			return func(ctx context.Context) error {
				compensated = true
				compCtxErr = ctx.Err()
				return nil
			}, nil
		}},
		inventory.Step{Name: "b", Execute: func(ctx context.Context) (inventory.Compensation, error) {
			cancel()
			return nil, ctx.Err()
		}},
	)

	err := saga.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, compensated)
	assert.NoError(t, compCtxErr, "la compensación recibe un contexto sin cancelar")
}
