package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Worker consome a fila de avisos. A entrega em si (e-mail/SMS) fica fora
// deste serviço: aqui o aviso é validado e registrado.
type Worker struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

func NewWorker(opt asynq.RedisClientOpt, log *zap.Logger) *Worker {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{"default": 1},
	})
	return &Worker{srv: srv, mux: NewServeMux(log)}
}

func NewServeMux(log *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingCreated, handleBooking(log))
	mux.HandleFunc(TypeBookingStatus, handleBooking(log))
	mux.HandleFunc(TypeBookingReminder, handleBooking(log))
	mux.HandleFunc(TypePasswordReset, handlePasswordReset(log))
	return mux
}

func (w *Worker) Start() error {
	return w.srv.Start(w.mux)
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}

func handleBooking(log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p BookingPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("%s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
		}
		log.Info("notification delivered",
			zap.String("type", task.Type()),
			zap.String("booking_id", p.BookingID),
			zap.String("customer_id", p.CustomerID),
			zap.String("status", p.Status),
		)
		return nil
	}
}

func handlePasswordReset(log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p PasswordResetPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("%s payload: %v: %w", task.Type(), err, asynq.SkipRetry)
		}
		if p.Email == "" || p.Code == "" {
			return fmt.Errorf("%s: empty payload: %w", task.Type(), asynq.SkipRetry)
		}
		log.Info("password reset code delivered", zap.String("email", p.Email))
		return nil
	}
}
