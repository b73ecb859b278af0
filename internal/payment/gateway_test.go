package payment

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedGatewayBounds(t *testing.T) {
	ctx := context.Background()
	charge := Charge{BookingID: "b1", Amount: decimal.NewFromInt(50), Method: MethodCard}

	always := NewSimulatedGateway(1, rand.NewSource(1))
	never := NewSimulatedGateway(0, rand.NewSource(1))

	for i := 0; i < 20; i++ {
		res, err := always.Charge(ctx, charge)
		require.NoError(t, err)
		assert.True(t, res.Approved)
		assert.Contains(t, res.TransactionRef, "sim_")

		res, err = never.Charge(ctx, charge)
		require.NoError(t, err)
		assert.False(t, res.Approved)
		assert.Equal(t, DeclinedCode, res.FailureReason)
	}
}

func TestSimulatedGatewayIsDeterministicPerSeed(t *testing.T) {
	ctx := context.Background()
	a := NewSimulatedGateway(0.5, rand.NewSource(42))
	b := NewSimulatedGateway(0.5, rand.NewSource(42))

	for i := 0; i < 50; i++ {
		ra, _ := a.Charge(ctx, Charge{})
		rb, _ := b.Charge(ctx, Charge{})
		assert.Equal(t, ra.Approved, rb.Approved)
	}
}

func TestSimulatedGatewayHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulatedGateway(1, rand.NewSource(1)).Charge(ctx, Charge{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidMethod(t *testing.T) {
	assert.True(t, ValidMethod("PIX"))
	assert.False(t, ValidMethod("bitcoin"))
}
