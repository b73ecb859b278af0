package payment

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MethodCash   = "cash"
	MethodCard   = "card"
	MethodPix    = "pix"
	DeclinedCode = "card_declined"
)

// Charge é o pedido enviado ao gateway.
type Charge struct {
	BookingID string
	Amount    decimal.Decimal
	Method    string
}

type Result struct {
	Approved       bool
	TransactionRef string
	FailureReason  string
}

// Gateway cobra um agendamento. Recusa não é erro: Result.Approved=false.
type Gateway interface {
	Charge(ctx context.Context, c Charge) (Result, error)
}

func ValidMethod(m string) bool {
	switch strings.ToLower(m) {
	case MethodCash, MethodCard, MethodPix:
		return true
	}
	return false
}

// SimulatedGateway aprova com probabilidade SuccessRate.
type SimulatedGateway struct {
	mu          sync.Mutex
	rng         *rand.Rand
	successRate float64
}

func NewSimulatedGateway(successRate float64, src rand.Source) *SimulatedGateway {
	if successRate < 0 {
		successRate = 0
	}
	if successRate > 1 {
		successRate = 1
	}
	return &SimulatedGateway{
		rng:         rand.New(src),
		successRate: successRate,
	}
}

func (g *SimulatedGateway) Charge(ctx context.Context, c Charge) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	g.mu.Lock()
	roll := g.rng.Float64()
	g.mu.Unlock()

	if roll >= g.successRate {
		return Result{FailureReason: DeclinedCode}, nil
	}
	return Result{
		Approved:       true,
		TransactionRef: "sim_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
	}, nil
}
