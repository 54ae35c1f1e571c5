package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{StatusPendente, StatusConfirmado, true},
		{StatusConfirmado, StatusEmTransito, true},
		{StatusEmTransito, StatusEntregue, true},

		// não pula etapas nem volta atrás
		{StatusPendente, StatusEmTransito, false},
		{StatusPendente, StatusEntregue, false},
		{StatusConfirmado, StatusPendente, false},
		{StatusEmTransito, StatusConfirmado, false},

		// cancelamento vale de qualquer status não entregue
		{StatusPendente, StatusCancelado, true},
		{StatusConfirmado, StatusCancelado, true},
		{StatusEmTransito, StatusCancelado, true},

		// entregue e cancelado são terminais
		{StatusEntregue, StatusCancelado, false},
		{StatusEntregue, StatusConfirmado, false},
		{StatusCancelado, StatusPendente, false},
		{StatusCancelado, StatusCancelado, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestSupplierKindValid(t *testing.T) {
	assert.True(t, KindAgriculturaFamiliar.Valid())
	assert.True(t, KindFornecedorNormal.Valid())
	assert.False(t, SupplierKind("").Valid())
	assert.False(t, SupplierKind("cooperativa").Valid())
}

func TestProducerCountsTowardQuota(t *testing.T) {
	comDAP := Producer{Kind: KindAgriculturaFamiliar, HasDAP: true, DAPNumber: "DAP-12345678"}
	assert.True(t, comDAP.CountsTowardQuota())

	// rotulado como agricultura familiar mas sem DAP válida: fora da meta
	semDAP := Producer{Kind: KindAgriculturaFamiliar, HasDAP: false}
	assert.False(t, semDAP.CountsTowardQuota())

	semNumero := Producer{Kind: KindAgriculturaFamiliar, HasDAP: true, DAPNumber: ""}
	assert.False(t, semNumero.CountsTowardQuota())

	normal := Producer{Kind: KindFornecedorNormal, HasDAP: true, DAPNumber: "DAP-1"}
	assert.False(t, normal.CountsTowardQuota())
}
