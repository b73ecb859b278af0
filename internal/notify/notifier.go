package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Notifier entrega avisos fora da requisição. Falhas nunca desfazem a
// operação que as originou.
type Notifier interface {
	BookingCreated(ctx context.Context, b *models.Booking) error
	BookingStatusChanged(ctx context.Context, b *models.Booking, previous string) error
	PasswordReset(ctx context.Context, email, code string) error
}

// ------------------------------------------------------
// Asynq
// ------------------------------------------------------

type AsynqNotifier struct {
	client *asynq.Client
	loc    *time.Location
	now    func() time.Time
}

func NewAsynqNotifier(opt asynq.RedisClientOpt, loc *time.Location) *AsynqNotifier {
	return &AsynqNotifier{
		client: asynq.NewClient(opt),
		loc:    loc,
		now:    time.Now,
	}
}

func (n *AsynqNotifier) enqueue(ctx context.Context, task *asynq.Task, err error) error {
	if err != nil {
		return fmt.Errorf("build task: %w", err)
	}
	if _, err := n.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	return nil
}

func (n *AsynqNotifier) BookingCreated(ctx context.Context, b *models.Booking) error {
	task, err := NewBookingCreatedTask(b)
	if err := n.enqueue(ctx, task, err); err != nil {
		return err
	}

	start, err := time.ParseInLocation("2006-01-02 15:04:05",
		b.Date().Format("2006-01-02")+" "+b.StartTime, n.loc)
	if err != nil {
		return fmt.Errorf("reminder time: %w", err)
	}
	fireAt := start.Add(-ReminderLead)
	if fireAt.Before(n.now()) {
		return nil
	}
	reminder, err := NewReminderTask(b, fireAt)
	err = n.enqueue(ctx, reminder, err)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

func (n *AsynqNotifier) BookingStatusChanged(ctx context.Context, b *models.Booking, previous string) error {
	task, err := NewBookingStatusTask(b, previous)
	return n.enqueue(ctx, task, err)
}

func (n *AsynqNotifier) PasswordReset(ctx context.Context, email, code string) error {
	task, err := NewPasswordResetTask(email, code)
	return n.enqueue(ctx, task, err)
}

func (n *AsynqNotifier) Close() error {
	return n.client.Close()
}

// ------------------------------------------------------
// Log (sem Redis)
// ------------------------------------------------------

// LogNotifier só registra o aviso; usado quando REDIS_ADDR está vazio.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) BookingCreated(_ context.Context, b *models.Booking) error {
	n.log.Info("notify booking created",
		zap.String("booking_id", b.ID),
		zap.String("customer_id", b.CustomerID),
	)
	return nil
}

func (n *LogNotifier) BookingStatusChanged(_ context.Context, b *models.Booking, previous string) error {
	n.log.Info("notify booking status",
		zap.String("booking_id", b.ID),
		zap.String("from", previous),
		zap.String("to", b.Status),
	)
	return nil
}

func (n *LogNotifier) PasswordReset(_ context.Context, email, _ string) error {
	n.log.Info("notify password reset", zap.String("email", email))
	return nil
}
