package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/internal/store"
)

type NewTicket struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	TerminalID  string                `json:"terminalId"`
	Priority    entity.TicketPriority `json:"priority"`
	Source      entity.TicketSource   `json:"source,omitempty"`
}

type NewUser struct {
	Username          string      `json:"username"`
	Email             string      `json:"email"`
	FullName          string      `json:"fullName"`
	Password          string      `json:"password"`
	Role              entity.Role `json:"role"`
	AssignedTerminals []string    `json:"assignedTerminals"`
}

// Dashboard implements the workspace operations behind the dashboard views.
// Every call is checked against the session's permissions.
type Dashboard struct {
	store     *store.Store
	session   *Session
	passwords *Passwords
	publisher Publisher
}

func NewDashboard(st *store.Store, session *Session, passwords *Passwords, publisher Publisher) *Dashboard {
	return &Dashboard{
		store:     st,
		session:   session,
		passwords: passwords,
		publisher: publisher,
	}
}

func (d *Dashboard) Terminals(ctx context.Context) ([]entity.Terminal, error) {
	if _, err := d.requireUser(); err != nil {
		return nil, err
	}

	return d.session.AccessibleTerminals(ctx)
}

// Terminal hides terminals outside the caller's scope as not found.
func (d *Dashboard) Terminal(ctx context.Context, id string) (entity.Terminal, error) {
	if _, err := d.requireUser(); err != nil {
		return entity.Terminal{}, err
	}

	if !d.session.CanAccessTerminal(id) {
		return entity.Terminal{}, entity.ErrNotFound
	}

	return d.store.Terminals.Get(ctx, id)
}

func (d *Dashboard) ChangeTerminalStatus(
	ctx context.Context,
	id string,
	status entity.TerminalStatus,
) (entity.Terminal, error) {
	if err := d.require(entity.PermissionManageTerminals); err != nil {
		return entity.Terminal{}, err
	}

	if !status.Valid() {
		return entity.Terminal{}, fmt.Errorf("terminal status %q: %w", status, entity.ErrInvalidStatus)
	}

	terminal, err := d.store.Terminals.Mutate(ctx, id, func(t *entity.Terminal) error {
		t.Status = status

		if status == entity.TerminalStatusOnline {
			t.LastSeen = d.store.Now()
		}

		if status != entity.TerminalStatusMaintenance {
			t.MaintenanceWindow = nil
		}

		return nil
	})
	if err != nil && !entity.IsPersistence(err) {
		return entity.Terminal{}, fmt.Errorf("change terminal status: %w", err)
	}

	d.publish(ctx, entity.EventTerminalUpdated, id, "status "+string(status))

	return terminal, err
}

func (d *Dashboard) Tickets(ctx context.Context) ([]entity.SupportTicket, error) {
	if _, err := d.requireUser(); err != nil {
		return nil, err
	}

	return d.session.AccessibleTickets(ctx)
}

func (d *Dashboard) Ticket(ctx context.Context, id string) (entity.SupportTicket, error) {
	if _, err := d.requireUser(); err != nil {
		return entity.SupportTicket{}, err
	}

	ticket, err := d.store.Tickets.Get(ctx, id)
	if err != nil {
		return entity.SupportTicket{}, err
	}

	if !d.session.CanAccessTerminal(ticket.TerminalID) {
		return entity.SupportTicket{}, entity.ErrNotFound
	}

	return ticket, nil
}

// CreateTicket opens a ticket with an SLA target derived from its priority.
// Merchants may only report on their own terminals.
func (d *Dashboard) CreateTicket(ctx context.Context, req NewTicket) (entity.SupportTicket, error) {
	user, err := d.requireUser()
	if err != nil {
		return entity.SupportTicket{}, err
	}

	if !d.session.HasPermission(entity.PermissionCreateTickets) && !d.session.HasPermission(entity.PermissionManageTickets) {
		return entity.SupportTicket{}, entity.ErrForbidden
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.TerminalID == "" {
		return entity.SupportTicket{}, fmt.Errorf("title and terminalId: %w", entity.ErrEmptyField)
	}

	if !req.Priority.Valid() {
		return entity.SupportTicket{}, fmt.Errorf("priority %q: %w", req.Priority, entity.ErrInvalidPriority)
	}

	if !d.session.CanAccessTerminal(req.TerminalID) {
		return entity.SupportTicket{}, entity.ErrForbidden
	}

	_, err = d.store.Terminals.Get(ctx, req.TerminalID)
	if err != nil {
		return entity.SupportTicket{}, fmt.Errorf("terminal %s: %w", req.TerminalID, err)
	}

	source := req.Source
	if source == "" {
		source = entity.TicketSourceAgent
		if user.Role == entity.RoleMerchant {
			source = entity.TicketSourceMerchant
		}
	}

	now := d.store.Now()

	ticket, err := d.store.Tickets.Create(ctx, entity.SupportTicket{
		Title:       req.Title,
		Description: req.Description,
		TerminalID:  req.TerminalID,
		Priority:    req.Priority,
		Status:      entity.TicketStatusOpen,
		Source:      source,
		ReportedBy:  user.ID,
		SLATarget:   now.Add(req.Priority.SLAWindow()),
	})
	if err != nil && !entity.IsPersistence(err) {
		return entity.SupportTicket{}, fmt.Errorf("create ticket: %w", err)
	}

	d.publish(ctx, entity.EventTicketUpdated, ticket.ID, "created")

	return ticket, err
}

// AssignTicket hands a ticket to a staff user. An open ticket moves to in progress.
func (d *Dashboard) AssignTicket(ctx context.Context, id, userID string) (entity.SupportTicket, error) {
	if err := d.require(entity.PermissionManageTickets); err != nil {
		return entity.SupportTicket{}, err
	}

	assignee, err := d.store.Users.Get(ctx, userID)
	if errors.Is(err, entity.ErrNotFound) {
		return entity.SupportTicket{}, fmt.Errorf("user %s: %w", userID, entity.ErrInvalidAssignee)
	}

	if err != nil {
		return entity.SupportTicket{}, err
	}

	if !assignee.Role.IsStaff() {
		return entity.SupportTicket{}, entity.ErrInvalidAssignee
	}

	ticket, err := d.store.Tickets.Mutate(ctx, id, func(t *entity.SupportTicket) error {
		t.AssignedTo = &assignee.ID

		if t.Status == entity.TicketStatusOpen {
			t.Status = entity.TicketStatusInProgress
		}

		return nil
	})
	if err != nil && !entity.IsPersistence(err) {
		return entity.SupportTicket{}, fmt.Errorf("assign ticket: %w", err)
	}

	d.publish(ctx, entity.EventTicketUpdated, id, "assigned to "+assignee.Username)

	return ticket, err
}

func (d *Dashboard) ChangeTicketStatus(
	ctx context.Context,
	id string,
	status entity.TicketStatus,
) (entity.SupportTicket, error) {
	if err := d.require(entity.PermissionManageTickets); err != nil {
		return entity.SupportTicket{}, err
	}

	if !status.Valid() {
		return entity.SupportTicket{}, fmt.Errorf("ticket status %q: %w", status, entity.ErrInvalidStatus)
	}

	ticket, err := d.store.Tickets.Mutate(ctx, id, func(t *entity.SupportTicket) error {
		t.Status = status
		return nil
	})
	if err != nil && !entity.IsPersistence(err) {
		return entity.SupportTicket{}, fmt.Errorf("change ticket status: %w", err)
	}

	d.publish(ctx, entity.EventTicketUpdated, id, "status "+string(status))

	return ticket, err
}

// Alerts returns alerts on terminals in scope. Merchants do not see alerts
// without a terminal.
func (d *Dashboard) Alerts(ctx context.Context) ([]entity.SystemAlert, error) {
	user, err := d.requireUser()
	if err != nil {
		return nil, err
	}

	if user.Role != entity.RoleMerchant {
		return d.store.Alerts.List(ctx)
	}

	return d.store.Alerts.Filter(ctx, func(a *entity.SystemAlert) bool {
		return a.TerminalID != nil && user.OwnsTerminal(*a.TerminalID)
	})
}

func (d *Dashboard) AcknowledgeAlert(ctx context.Context, id string) (entity.SystemAlert, error) {
	user, err := d.requireUser()
	if err != nil {
		return entity.SystemAlert{}, err
	}

	alert, err := d.store.Alerts.Mutate(ctx, id, func(a *entity.SystemAlert) error {
		if user.Role == entity.RoleMerchant && (a.TerminalID == nil || !user.OwnsTerminal(*a.TerminalID)) {
			return entity.ErrNotFound
		}

		a.Acknowledged = true
		a.AcknowledgedBy = &user.ID

		return nil
	})
	if err != nil && !entity.IsPersistence(err) {
		return entity.SystemAlert{}, fmt.Errorf("acknowledge alert: %w", err)
	}

	return alert, err
}

func (d *Dashboard) Metrics(ctx context.Context) ([]entity.PerformanceMetrics, error) {
	if !d.session.HasPermission(entity.PermissionViewAnalytics) && !d.session.HasPermission(entity.PermissionViewOwnAnalytics) {
		return nil, d.denied()
	}

	return d.store.Metrics(ctx)
}

// Summary aggregates the caller's terminals, tickets and alerts.
func (d *Dashboard) Summary(ctx context.Context) (entity.DashboardSummary, error) {
	terminals, err := d.Terminals(ctx)
	if err != nil {
		return entity.DashboardSummary{}, err
	}

	tickets, err := d.Tickets(ctx)
	if err != nil {
		return entity.DashboardSummary{}, err
	}

	alerts, err := d.Alerts(ctx)
	if err != nil {
		return entity.DashboardSummary{}, err
	}

	return Summarize(terminals, tickets, alerts), nil
}

// Summarize computes the dashboard figures. Averages and percentages are
// rounded to two places.
func Summarize(
	terminals []entity.Terminal,
	tickets []entity.SupportTicket,
	alerts []entity.SystemAlert,
) entity.DashboardSummary {
	summary := entity.DashboardSummary{
		TotalTerminals:    len(terminals),
		TerminalsByStatus: make(map[entity.TerminalStatus]int),
		AverageUptime:     decimal.Zero,
		TotalTickets:      len(tickets),
		OpenByPriority:    make(map[entity.TicketPriority]int),
		SLACompliance:     decimal.NewFromInt(100),
	}

	uptime := decimal.Zero

	for _, t := range terminals {
		summary.TerminalsByStatus[t.Status]++
		summary.TransactionsToday += t.TransactionsToday
		uptime = uptime.Add(decimal.NewFromFloat(t.Uptime))
	}

	if len(terminals) > 0 {
		summary.AverageUptime = uptime.Div(decimal.NewFromInt(int64(len(terminals)))).Round(2)
	}

	for _, t := range tickets {
		if !t.Status.Done() {
			summary.OpenTickets++
			summary.OpenByPriority[t.Priority]++
		}

		if t.SLABreach {
			summary.BreachedTickets++
		}
	}

	if len(tickets) > 0 {
		met := decimal.NewFromInt(int64(len(tickets) - summary.BreachedTickets))
		summary.SLACompliance = met.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(len(tickets)))).Round(2)
	}

	for _, a := range alerts {
		if !a.Acknowledged {
			summary.UnacknowledgedAlerts++
		}
	}

	return summary
}

func (d *Dashboard) ListUsers(ctx context.Context) ([]entity.UserInfo, error) {
	if err := d.require(entity.PermissionManageUsers); err != nil {
		return nil, err
	}

	users, err := d.store.Users.List(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]entity.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, u.Info())
	}

	return infos, nil
}

func (d *Dashboard) CreateUser(ctx context.Context, req NewUser) (entity.User, error) {
	if err := d.require(entity.PermissionManageUsers); err != nil {
		return entity.User{}, err
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return entity.User{}, fmt.Errorf("username and password: %w", entity.ErrEmptyField)
	}

	if !req.Role.Valid() {
		return entity.User{}, fmt.Errorf("role %q: %w", req.Role, entity.ErrInvalidRole)
	}

	hash, err := d.passwords.Hash(req.Password)
	if err != nil {
		return entity.User{}, err
	}

	assigned := req.AssignedTerminals
	if assigned == nil {
		assigned = []string{}
	}

	user, err := d.store.Users.CreateChecked(ctx, entity.User{
		Username:          req.Username,
		Email:             req.Email,
		FullName:          req.FullName,
		Password:          hash,
		Role:              req.Role,
		Status:            entity.UserStatusActive,
		AssignedTerminals: assigned,
	}, func(users []entity.User) error {
		if slices.ContainsFunc(users, func(u entity.User) bool { return u.Username == req.Username }) {
			return fmt.Errorf("username %s: %w", req.Username, entity.ErrAlreadyExists)
		}

		return nil
	})
	if err != nil && !entity.IsPersistence(err) {
		return entity.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", user.ID, "role", user.Role)

	return user, err
}

// UpdateUser patches any user. A "role" field must name a known role and a
// "password" field is hashed.
func (d *Dashboard) UpdateUser(ctx context.Context, id string, fields entity.Fields) (entity.User, error) {
	if err := d.require(entity.PermissionManageUsers); err != nil {
		return entity.User{}, err
	}

	if raw, ok := fields["role"]; ok {
		var role entity.Role

		switch v := raw.(type) {
		case string:
			role = entity.Role(v)
		case entity.Role:
			role = v
		}

		if !role.Valid() {
			return entity.User{}, fmt.Errorf("role %v: %w", raw, entity.ErrInvalidRole)
		}
	}

	fields, err := d.session.hashPasswordField(fields)
	if err != nil {
		return entity.User{}, err
	}

	user, err := d.store.Users.Update(ctx, id, fields)
	if err != nil && !entity.IsPersistence(err) {
		return entity.User{}, fmt.Errorf("update user: %w", err)
	}

	d.session.refresh(ctx, user)

	return user, err
}

// DeleteUser removes another user. The signed in user cannot delete itself.
func (d *Dashboard) DeleteUser(ctx context.Context, id string) error {
	if err := d.require(entity.PermissionManageUsers); err != nil {
		return err
	}

	if current := d.session.Current(); current != nil && current.ID == id {
		return fmt.Errorf("delete signed in user: %w", entity.ErrForbidden)
	}

	deleted, err := d.store.Users.Delete(ctx, id)
	if err != nil && !entity.IsPersistence(err) {
		return fmt.Errorf("delete user: %w", err)
	}

	if !deleted {
		return entity.ErrNotFound
	}

	return err
}

// UnlockUser reactivates a locked account and clears its failure counter.
func (d *Dashboard) UnlockUser(ctx context.Context, id string) (entity.User, error) {
	if err := d.require(entity.PermissionManageUsers); err != nil {
		return entity.User{}, err
	}

	user, err := d.store.Users.Mutate(ctx, id, func(u *entity.User) error {
		u.Status = entity.UserStatusActive
		u.FailedLoginAttempts = 0

		return nil
	})
	if err != nil && !entity.IsPersistence(err) {
		return entity.User{}, fmt.Errorf("unlock user: %w", err)
	}

	slog.InfoContext(ctx, "User unlocked", "user_id", id)

	return user, err
}

// Reset restores the fixtures and signs everyone out of the workspace.
func (d *Dashboard) Reset(ctx context.Context) error {
	if err := d.require(entity.PermissionSystemAdmin); err != nil {
		return err
	}

	err := d.store.ClearAll(ctx)

	d.session.reset()

	return err
}

func (d *Dashboard) requireUser() (*entity.User, error) {
	user := d.session.Current()
	if user == nil {
		return nil, entity.ErrUnauthorized
	}

	return user, nil
}

func (d *Dashboard) require(permission string) error {
	if d.session.HasPermission(permission) {
		return nil
	}

	return d.denied()
}

func (d *Dashboard) denied() error {
	if d.session.Current() == nil {
		return entity.ErrUnauthorized
	}

	return entity.ErrForbidden
}

func (d *Dashboard) publish(ctx context.Context, eventType entity.EventType, subject, message string) {
	if d.publisher == nil {
		return
	}

	d.publisher.Publish(ctx, entity.Event{
		Type:       eventType,
		Workspace:  d.store.Namespace(),
		Subject:    subject,
		Message:    message,
		OccurredAt: d.store.Now(),
	})
}
