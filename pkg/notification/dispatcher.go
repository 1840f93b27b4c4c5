package notification

import (
	"SaveByte/entities"
	"SaveByte/internal/metrics"
	"SaveByte/internal/utils/mailing"
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const mailTimeout = 30 * time.Second

type (
	// Dispatcher runs the side effects returned by a committed workflow step.
	Dispatcher interface {
		Dispatch(ctx context.Context, events []Event)
		// Wait blocks until queued emails have been attempted or ctx is done.
		Wait(ctx context.Context) error
	}

	dispatcher struct {
		notificationService NotificationService
		mailer              mailing.Mailer
		workers             int
		logger              zerolog.Logger
		wg                  sync.WaitGroup
	}
)

func NewDispatcher(notificationService NotificationService, mailer mailing.Mailer, workers int, logger zerolog.Logger) Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &dispatcher{
		notificationService: notificationService,
		mailer:              mailer,
		workers:             workers,
		logger:              logger,
	}
}

// Dispatch stores and pushes inbox events before returning. Emails are sent
// in the background and survive cancellation of ctx.
func (d *dispatcher) Dispatch(ctx context.Context, events []Event) {
	if len(events) == 0 {
		return
	}
	start := time.Now()

	var inbox []*entities.Notification
	var mails []mailing.Mail
	for _, event := range events {
		if event.Inbox {
			inbox = append(inbox, &entities.Notification{
				UserID:  event.UserID,
				Message: event.Message,
				Type:    event.Type,
			})
		}
		if event.Mail != nil && event.Mail.To != "" {
			mails = append(mails, *event.Mail)
		}
	}

	if err := d.notificationService.NotifyAll(ctx, inbox); err != nil {
		d.logger.Error().Err(err).Int("count", len(inbox)).Msg("failed to store notifications")
	}
	metrics.DispatchDuration.Observe(time.Since(start).Seconds())

	if len(mails) == 0 || d.mailer == nil {
		return
	}

	detached := context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		var g errgroup.Group
		g.SetLimit(d.workers)
		for _, mail := range mails {
			g.Go(func() error {
				sendCtx, cancel := context.WithTimeout(detached, mailTimeout)
				defer cancel()

				if err := d.mailer.Send(sendCtx, mail); err != nil {
					metrics.NotificationsDelivered.WithLabelValues("email", "error").Inc()
					d.logger.Warn().Err(err).Str("to", mail.To).Str("subject", mail.Subject).Msg("failed to send email")
					return nil
				}
				metrics.NotificationsDelivered.WithLabelValues("email", "ok").Inc()
				return nil
			})
		}
		_ = g.Wait()
	}()
}

func (d *dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
