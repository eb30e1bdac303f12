package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
)

const notifyTimeout = 30 * time.Second

// Fanout delivers every event to each publisher in order.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event entity.Event) {
	for _, p := range f {
		p.Publish(ctx, event)
	}
}

// LogPublisher writes events to the structured log.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, event entity.Event) {
	level := slog.LevelDebug
	if isOperational(event.Type) {
		level = slog.LevelWarn
	}

	slog.Log(ctx, level, "Event",
		"event_type", event.Type,
		"workspace", event.Workspace,
		"subject", event.Subject,
		"message", event.Message,
	)
}

// Notifier forwards operational events to the alert webhook and lockouts to
// the support mailbox. Deliveries run in the background; Wait blocks until
// they are done.
type Notifier struct {
	alerts AlertSender
	mailer Mailer
	wg     sync.WaitGroup
}

// NewNotifier accepts nil for either channel.
func NewNotifier(alerts AlertSender, mailer Mailer) *Notifier {
	return &Notifier{alerts: alerts, mailer: mailer}
}

func (n *Notifier) Publish(ctx context.Context, event entity.Event) {
	if !isOperational(event.Type) {
		return
	}

	ctx = context.WithoutCancel(ctx)

	if n.alerts != nil {
		n.dispatch(ctx, "webhook", event, n.alerts.SendAlert)
	}

	if n.mailer != nil && event.Type == entity.EventAccountLocked {
		n.dispatch(ctx, "mail", event, n.mailer.SendLockoutNotice)
	}
}

func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) dispatch(
	ctx context.Context,
	channel string,
	event entity.Event,
	send func(context.Context, entity.Event) error,
) {
	n.wg.Add(1)

	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()

		err := send(ctx, event)
		if err != nil {
			slog.ErrorContext(ctx, "Notify", "channel", channel, "event_type", event.Type, "error", err)
		}
	}()
}

func isOperational(t entity.EventType) bool {
	switch t {
	case entity.EventAccountLocked,
		entity.EventPersistenceFailed,
		entity.EventSLABreached,
		entity.EventTerminalOffline:
		return true
	default:
		return false
	}
}
