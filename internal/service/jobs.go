package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
)

// EvaluateSLA refreshes the breach flags of open tickets in every workspace
// and raises an alert for each newly breached ticket.
func (w *Workspaces) EvaluateSLA(ctx context.Context) error {
	var errs []error

	for _, ws := range w.All() {
		err := ws.Dashboard.evaluateSLA(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("workspace %s: %w", ws.ID, err))
		}
	}

	return errors.Join(errs...)
}

// MarkStaleTerminals moves online terminals not seen within timeout to
// offline in every workspace.
func (w *Workspaces) MarkStaleTerminals(ctx context.Context, timeout time.Duration) error {
	var errs []error

	for _, ws := range w.All() {
		err := ws.Dashboard.markStaleTerminals(ctx, timeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("workspace %s: %w", ws.ID, err))
		}
	}

	return errors.Join(errs...)
}

func (d *Dashboard) evaluateSLA(ctx context.Context) error {
	now := d.store.Now()

	var breached []entity.SupportTicket

	_, err := d.store.Tickets.MutateAll(ctx, func(t *entity.SupportTicket) bool {
		if t.Status.Done() {
			return false
		}

		wasBreached, wasDuration := t.SLABreach, t.SLABreachDuration

		if t.EvaluateSLA(now) {
			breached = append(breached, *t)
		}

		return t.SLABreach != wasBreached || t.SLABreachDuration != wasDuration
	})
	if err != nil && !entity.IsPersistence(err) {
		return fmt.Errorf("evaluate sla: %w", err)
	}

	for _, t := range breached {
		severity := entity.AlertSeverityWarning
		if t.Priority == entity.TicketPriorityCritical {
			severity = entity.AlertSeverityCritical
		}

		d.raiseAlert(ctx, entity.SystemAlert{
			Type:       entity.AlertTypeSLABreach,
			Message:    fmt.Sprintf("Ticket %s breached its %s SLA target", t.ID, t.Priority),
			Severity:   severity,
			TerminalID: &t.TerminalID,
			TicketID:   &t.ID,
		})

		slog.WarnContext(ctx, "SLA breached", "ticket_id", t.ID, "workspace", d.store.Namespace())
		d.publish(ctx, entity.EventSLABreached, t.ID, t.Title)
	}

	return nil
}

func (d *Dashboard) markStaleTerminals(ctx context.Context, timeout time.Duration) error {
	now := d.store.Now()

	stale, err := d.store.Terminals.MutateAll(ctx, func(t *entity.Terminal) bool {
		if t.Status != entity.TerminalStatusOnline || now.Sub(t.LastSeen) <= timeout {
			return false
		}

		t.Status = entity.TerminalStatusOffline

		return true
	})
	if err != nil && !entity.IsPersistence(err) {
		return fmt.Errorf("mark stale terminals: %w", err)
	}

	for _, t := range stale {
		d.raiseAlert(ctx, entity.SystemAlert{
			Type:       entity.AlertTypeTerminalOffline,
			Message:    fmt.Sprintf("Terminal %s at %s stopped reporting", t.ID, t.Location),
			Severity:   entity.AlertSeverityError,
			TerminalID: &t.ID,
		})

		slog.WarnContext(ctx, "Terminal offline", "terminal_id", t.ID, "workspace", d.store.Namespace())
		d.publish(ctx, entity.EventTerminalOffline, t.ID, "no heartbeat since "+t.LastSeen.Format(time.RFC3339))
	}

	return nil
}

func (d *Dashboard) raiseAlert(ctx context.Context, alert entity.SystemAlert) {
	_, err := d.store.Alerts.Create(ctx, alert)
	if err != nil && !entity.IsPersistence(err) {
		slog.ErrorContext(ctx, "Raise alert", "type", alert.Type, "error", err)
	}
}
