package materialrequest_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/materialrequest"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func item(requested, accepted, rejected int64) entity.MaterialRequestItem {
	return entity.MaterialRequestItem{
		RequestedQuantity: d(requested),
		AcceptedQuantity:  d(accepted),
		RejectedQuantity:  d(rejected),
		ReceivedQuantity:  d(accepted + rejected),
	}
}

func TestRecomputeStage(t *testing.T) {
	cases := []struct {
		name  string
		items []entity.MaterialRequestItem
		want  string
	}{
		{"todo aceptado", []entity.MaterialRequestItem{item(10, 10, 0)}, entity.StageCompleted},
		{"completo con rechazo", []entity.MaterialRequestItem{item(10, 6, 4)}, entity.StageDisputed},
		{"parcial", []entity.MaterialRequestItem{item(10, 6, 0)}, entity.StagePartiallyVerified},
		{"parcial con rechazo", []entity.MaterialRequestItem{item(10, 3, 2)}, entity.StagePartiallyVerified},
		{"una línea completa y otra sin recibir", []entity.MaterialRequestItem{item(5, 5, 0), item(4, 0, 0)}, entity.StagePartiallyVerified},
		{"nada recibido", []entity.MaterialRequestItem{item(5, 0, 0)}, entity.StageVerifying},
		{"sin líneas", nil, entity.StageVerifying},
		{"varias líneas completas", []entity.MaterialRequestItem{item(5, 5, 0), item(2, 2, 0)}, entity.StageCompleted},
		{"varias líneas, una con rechazo", []entity.MaterialRequestItem{item(5, 5, 0), item(2, 1, 1)}, entity.StageDisputed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, materialrequest.RecomputeStage(tc.items))
		})
	}
}

func TestRecomputeStage_Idempotente(t *testing.T) {
	items := []entity.MaterialRequestItem{item(10, 6, 0), item(3, 3, 0)}
	first := materialrequest.RecomputeStage(items)
	second := materialrequest.RecomputeStage(items)
	assert.Equal(t, first, second, "el mismo estado acumulado debe producir la misma etapa")
}

func TestApplyVerification_AcumulaYMantieneInvariante(t *testing.T) {
	it := item(10, 0, 0)

	require.NoError(t, materialrequest.ApplyVerification(&it, d(6), d(0)))
	assert.True(t, it.ReceivedQuantity.Equal(it.AcceptedQuantity.Add(it.RejectedQuantity)))
	assert.True(t, it.PendingQuantity().Equal(d(4)), "deben quedar 4 pendientes")

	require.NoError(t, materialrequest.ApplyVerification(&it, d(0), d(4)))
	assert.True(t, it.ReceivedQuantity.Equal(d(10)))
	assert.True(t, it.AcceptedQuantity.Equal(d(6)))
	assert.True(t, it.RejectedQuantity.Equal(d(4)))
	assert.True(t, it.PendingQuantity().IsZero())
}

func TestApplyVerification_RechazaExcesoSobrePendiente(t *testing.T) {
	it := item(10, 6, 0)

	err := materialrequest.ApplyVerification(&it, d(3), d(2))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, it.AcceptedQuantity.Equal(d(6)), "la línea no debe cambiar si la validación falla")
	assert.True(t, it.ReceivedQuantity.Equal(d(6)))
}

func TestApplyVerification_RechazaNegativosYCero(t *testing.T) {
	it := item(10, 0, 0)
	assert.ErrorIs(t, materialrequest.ApplyVerification(&it, d(-1), d(0)), domain.ErrInvalidInput)
	assert.ErrorIs(t, materialrequest.ApplyVerification(&it, d(0), d(0)), domain.ErrInvalidInput)
}

func TestAccepts(t *testing.T) {
	assert.True(t, materialrequest.Accepts(materialrequest.EventApprove, entity.StageRequested))
	assert.False(t, materialrequest.Accepts(materialrequest.EventApprove, entity.StageApproved),
		"no se puede aprobar dos veces")
	assert.True(t, materialrequest.Accepts(materialrequest.EventDeliver, entity.StagePartiallyVerified))
	assert.False(t, materialrequest.Accepts(materialrequest.EventVerify, entity.StageDisputed),
		"disputed no tiene salida")
	assert.True(t, materialrequest.Accepts(materialrequest.EventReview, entity.StageDisputed))
	assert.False(t, materialrequest.Accepts(materialrequest.EventReview, entity.StageRequested))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, entity.RequestStatusPending, materialrequest.StatusFor(entity.StageRequested))
	assert.Equal(t, entity.RequestStatusRejected, materialrequest.StatusFor(entity.StageCancelled))
	assert.Equal(t, entity.RequestStatusApproved, materialrequest.StatusFor(entity.StageDisputed))
}

func TestDeliveryTarget(t *testing.T) {
	assert.Equal(t, entity.StageVerifying, materialrequest.DeliveryTarget(entity.StageOrdered))
	assert.Equal(t, entity.StagePartiallyVerified, materialrequest.DeliveryTarget(entity.StagePartiallyVerified))
}

func TestValidStage(t *testing.T) {
	assert.True(t, materialrequest.ValidStage(entity.StagePartiallyVerified))
	assert.True(t, materialrequest.ValidStage(entity.StageDisputed))
	assert.False(t, materialrequest.ValidStage("bogus"))
	assert.False(t, materialrequest.ValidStage(""))
}
