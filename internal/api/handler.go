package api

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/internal/service"
)

// @title Terminal Pulse API
// @version 1.0
// @description POS terminal monitoring and support ticket dashboard
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// Fields a signed in user may change on their own record.
var selfEditableFields = []string{"email", "fullName", "password"}

// Fields an administrator may change on any user.
var adminEditableFields = []string{"email", "fullName", "password", "role", "assignedTerminals"}

type TokenIssuer interface {
	Issue(user entity.User, workspace string) (string, time.Time, error)
}

type Handler struct {
	tokens TokenIssuer
}

func NewHandler(tokens TokenIssuer) *Handler {
	return &Handler{tokens: tokens}
}

// HealthHandler - returns service health status.
// @Summary Health check
// @Description Health check
// @Tags health
// @Accept text/plain
// @Produce text/plain
// @Success 200 {string} string "Service is up!"
// @Router /health [get]
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	_, err := w.Write([]byte("Service is up!\n"))
	if err != nil {
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Service is down!")
		return
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Outcome     entity.LoginOutcome `json:"outcome"`
	Message     string              `json:"message"`
	Token       string              `json:"token,omitempty"`
	ExpiresAt   *time.Time          `json:"expiresAt,omitempty"`
	User        *entity.UserInfo    `json:"user,omitempty"`
	Permissions []string            `json:"permissions,omitempty"`
}

// Login signs a user in to the workspace
// @Summary Sign in
// @Description Three consecutive wrong passwords lock the account
// @Tags session
// @Accept json
// @Produce json
// @Param X-Workspace-ID header string false "Workspace id"
// @Param LoginRequest body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} LoginResponse "Unknown user or wrong password"
// @Failure 423 {object} LoginResponse "Account locked"
// @Failure 500 {object} ErrorResponse "Login failed"
// @Router /session/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ws := workspaceFromCtx(ctx)

	var req LoginRequest
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	res, err := ws.Session.Login(ctx, req.Username, req.Password)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Login failed")
		return
	}

	resp := LoginResponse{Outcome: res.Outcome, Message: res.Message}

	switch res.Outcome {
	case entity.LoginSuccess:
	case entity.LoginAccountLocked, entity.LoginLockedOut:
		SendJSON(ctx, w, http.StatusLocked, resp)
		return
	default:
		SendJSON(ctx, w, http.StatusUnauthorized, resp)
		return
	}

	token, expiresAt, err := h.tokens.Issue(*res.User, ws.ID)
	if err != nil {
		SendJSONErr(ctx, w, http.StatusInternalServerError, err, "Failed to issue token")
		return
	}

	info := res.User.Info()

	resp.Token = token
	resp.ExpiresAt = &expiresAt
	resp.User = &info
	resp.Permissions = entity.GetPermissionsByRole(res.User.Role)

	SendJSON(ctx, w, http.StatusOK, resp)
}

// Logout signs the current user out of the workspace
// @Summary Sign out
// @Tags session
// @Success 204
// @Router /session/logout [post]
// @Security BearerAuth
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	workspaceFromCtx(r.Context()).Session.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

type MeResponse struct {
	User        entity.UserInfo `json:"user"`
	Permissions []string        `json:"permissions"`
}

// Me returns the signed in user
// @Summary Current user
// @Tags session
// @Produce json
// @Success 200 {object} MeResponse
// @Failure 401 {object} ErrorResponse "Session has ended"
// @Router /session/me [get]
// @Security BearerAuth
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := workspaceFromCtx(ctx).Session

	user := session.Current()
	if user == nil {
		SendJSONErr(ctx, w, http.StatusUnauthorized, entity.ErrNoActiveSession, "Session has ended")
		return
	}

	SendJSON(ctx, w, http.StatusOK, MeResponse{User: user.Info(), Permissions: session.Permissions()})
}

// UpdateMe changes the signed in user's profile
// @Summary Update current user
// @Description Accepts email, fullName and password
// @Tags session
// @Accept json
// @Produce json
// @Param fields body map[string]string true "Fields to change"
// @Success 200 {object} entity.UserInfo
// @Failure 400 {object} ErrorResponse "Field cannot be changed"
// @Router /session/me [patch]
// @Security BearerAuth
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fields, ok := decodeFields(ctx, w, r, selfEditableFields)
	if !ok {
		return
	}

	user, err := workspaceFromCtx(ctx).Session.UpdateCurrentUser(ctx, fields)
	if failed(ctx, w, err, "Failed to update profile") {
		return
	}

	if user == nil {
		SendJSONErr(ctx, w, http.StatusUnauthorized, entity.ErrNoActiveSession, "Session has ended")
		return
	}

	SendJSON(ctx, w, http.StatusOK, user.Info())
}

// Permissions lists what the signed in user may do
// @Summary Current permissions
// @Tags session
// @Produce json
// @Success 200 {array} string
// @Router /session/permissions [get]
// @Security BearerAuth
func (h *Handler) Permissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	SendJSON(ctx, w, http.StatusOK, workspaceFromCtx(ctx).Session.Permissions())
}

// Terminals lists terminals visible to the user
// @Summary List terminals
// @Description Merchants only see their assigned terminals
// @Tags terminals
// @Produce json
// @Success 200 {array} entity.Terminal
// @Router /terminals [get]
// @Security BearerAuth
func (h *Handler) Terminals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	terminals, err := workspaceFromCtx(ctx).Dashboard.Terminals(ctx)
	if failed(ctx, w, err, "Failed to list terminals") {
		return
	}

	SendJSON(ctx, w, http.StatusOK, terminals)
}

// Terminal returns one terminal
// @Summary Get terminal
// @Tags terminals
// @Produce json
// @Param id path string true "Terminal id"
// @Success 200 {object} entity.Terminal
// @Failure 404 {object} ErrorResponse "Terminal not found"
// @Router /terminals/{id} [get]
// @Security BearerAuth
func (h *Handler) Terminal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	terminal, err := workspaceFromCtx(ctx).Dashboard.Terminal(ctx, chi.URLParam(r, "id"))
	if failed(ctx, w, err, "Failed to get terminal") {
		return
	}

	SendJSON(ctx, w, http.StatusOK, terminal)
}

type TerminalStatusRequest struct {
	Status entity.TerminalStatus `json:"status"`
}

// ChangeTerminalStatus sets a terminal's status
// @Summary Change terminal status
// @Tags terminals
// @Accept json
// @Produce json
// @Param id path string true "Terminal id"
// @Param TerminalStatusRequest body TerminalStatusRequest true "New status"
// @Success 200 {object} entity.Terminal
// @Failure 400 {object} ErrorResponse "Invalid status"
// @Failure 403 {object} ErrorResponse "Not allowed for your role"
// @Failure 404 {object} ErrorResponse "Terminal not found"
// @Router /terminals/{id}/status [patch]
// @Security BearerAuth
func (h *Handler) ChangeTerminalStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req TerminalStatusRequest
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	terminal, err := workspaceFromCtx(ctx).Dashboard.ChangeTerminalStatus(ctx, chi.URLParam(r, "id"), req.Status)
	if failed(ctx, w, err, "Failed to change terminal status") {
		return
	}

	SendJSON(ctx, w, http.StatusOK, terminal)
}

// Tickets lists tickets visible to the user
// @Summary List tickets
// @Description Merchants only see tickets on their assigned terminals
// @Tags tickets
// @Produce json
// @Success 200 {array} entity.SupportTicket
// @Router /tickets [get]
// @Security BearerAuth
func (h *Handler) Tickets(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tickets, err := workspaceFromCtx(ctx).Dashboard.Tickets(ctx)
	if failed(ctx, w, err, "Failed to list tickets") {
		return
	}

	SendJSON(ctx, w, http.StatusOK, tickets)
}

// Ticket returns one ticket
// @Summary Get ticket
// @Tags tickets
// @Produce json
// @Param id path string true "Ticket id"
// @Success 200 {object} entity.SupportTicket
// @Failure 404 {object} ErrorResponse "Ticket not found"
// @Router /tickets/{id} [get]
// @Security BearerAuth
func (h *Handler) Ticket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ticket, err := workspaceFromCtx(ctx).Dashboard.Ticket(ctx, chi.URLParam(r, "id"))
	if failed(ctx, w, err, "Failed to get ticket") {
		return
	}

	SendJSON(ctx, w, http.StatusOK, ticket)
}

// CreateTicket opens a support ticket
// @Summary Create ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param NewTicket body service.NewTicket true "Ticket"
// @Success 201 {object} entity.SupportTicket
// @Failure 400 {object} ErrorResponse "Invalid ticket"
// @Failure 403 {object} ErrorResponse "Terminal outside your scope"
// @Failure 404 {object} ErrorResponse "Terminal not found"
// @Router /tickets [post]
// @Security BearerAuth
func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.NewTicket
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	ticket, err := workspaceFromCtx(ctx).Dashboard.CreateTicket(ctx, req)
	if failed(ctx, w, err, "Failed to create ticket") {
		return
	}

	SendJSON(ctx, w, http.StatusCreated, ticket)
}

type AssignTicketRequest struct {
	UserID string `json:"userId"`
}

// AssignTicket hands a ticket to a staff user
// @Summary Assign ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket id"
// @Param AssignTicketRequest body AssignTicketRequest true "Assignee"
// @Success 200 {object} entity.SupportTicket
// @Failure 400 {object} ErrorResponse "Assignee must be staff"
// @Failure 404 {object} ErrorResponse "Ticket not found"
// @Router /tickets/{id}/assign [post]
// @Security BearerAuth
func (h *Handler) AssignTicket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req AssignTicketRequest
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	ticket, err := workspaceFromCtx(ctx).Dashboard.AssignTicket(ctx, chi.URLParam(r, "id"), req.UserID)
	if failed(ctx, w, err, "Failed to assign ticket") {
		return
	}

	SendJSON(ctx, w, http.StatusOK, ticket)
}

type TicketStatusRequest struct {
	Status entity.TicketStatus `json:"status"`
}

// ChangeTicketStatus moves a ticket through its workflow
// @Summary Change ticket status
// @Tags tickets
// @Accept json
// @Produce json
// @Param id path string true "Ticket id"
// @Param TicketStatusRequest body TicketStatusRequest true "New status"
// @Success 200 {object} entity.SupportTicket
// @Failure 400 {object} ErrorResponse "Invalid status"
// @Failure 404 {object} ErrorResponse "Ticket not found"
// @Router /tickets/{id}/status [patch]
// @Security BearerAuth
func (h *Handler) ChangeTicketStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req TicketStatusRequest
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	ticket, err := workspaceFromCtx(ctx).Dashboard.ChangeTicketStatus(ctx, chi.URLParam(r, "id"), req.Status)
	if failed(ctx, w, err, "Failed to change ticket status") {
		return
	}

	SendJSON(ctx, w, http.StatusOK, ticket)
}

// Alerts lists system alerts
// @Summary List alerts
// @Tags alerts
// @Produce json
// @Success 200 {array} entity.SystemAlert
// @Router /alerts [get]
// @Security BearerAuth
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	alerts, err := workspaceFromCtx(ctx).Dashboard.Alerts(ctx)
	if failed(ctx, w, err, "Failed to list alerts") {
		return
	}

	SendJSON(ctx, w, http.StatusOK, alerts)
}

// AcknowledgeAlert marks an alert as seen
// @Summary Acknowledge alert
// @Tags alerts
// @Produce json
// @Param id path string true "Alert id"
// @Success 200 {object} entity.SystemAlert
// @Failure 404 {object} ErrorResponse "Alert not found"
// @Router /alerts/{id}/acknowledge [post]
// @Security BearerAuth
func (h *Handler) AcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	alert, err := workspaceFromCtx(ctx).Dashboard.AcknowledgeAlert(ctx, chi.URLParam(r, "id"))
	if failed(ctx, w, err, "Failed to acknowledge alert") {
		return
	}

	SendJSON(ctx, w, http.StatusOK, alert)
}

// Metrics returns the daily performance series
// @Summary Performance metrics
// @Tags analytics
// @Produce json
// @Success 200 {array} entity.PerformanceMetrics
// @Failure 403 {object} ErrorResponse "Not allowed for your role"
// @Router /metrics [get]
// @Security BearerAuth
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	metrics, err := workspaceFromCtx(ctx).Dashboard.Metrics(ctx)
	if failed(ctx, w, err, "Failed to load metrics") {
		return
	}

	SendJSON(ctx, w, http.StatusOK, metrics)
}

// Summary aggregates the dashboard figures in the user's scope
// @Summary Dashboard summary
// @Tags analytics
// @Produce json
// @Success 200 {object} entity.DashboardSummary
// @Router /dashboard/summary [get]
// @Security BearerAuth
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := workspaceFromCtx(ctx).Dashboard.Summary(ctx)
	if failed(ctx, w, err, "Failed to build summary") {
		return
	}

	SendJSON(ctx, w, http.StatusOK, summary)
}

// Users lists every user
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} entity.UserInfo
// @Failure 403 {object} ErrorResponse "Not allowed for your role"
// @Router /users [get]
// @Security BearerAuth
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := workspaceFromCtx(ctx).Dashboard.ListUsers(ctx)
	if failed(ctx, w, err, "Failed to list users") {
		return
	}

	SendJSON(ctx, w, http.StatusOK, users)
}

// CreateUser adds a user
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param NewUser body service.NewUser true "User"
// @Success 201 {object} entity.UserInfo
// @Failure 400 {object} ErrorResponse "Invalid user"
// @Failure 409 {object} ErrorResponse "Username taken"
// @Router /users [post]
// @Security BearerAuth
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.NewUser
	if !decodeJSON(ctx, w, r, &req) {
		return
	}

	user, err := workspaceFromCtx(ctx).Dashboard.CreateUser(ctx, req)
	if failed(ctx, w, err, "Failed to create user") {
		return
	}

	SendJSON(ctx, w, http.StatusCreated, user.Info())
}

// UpdateUser changes a user's profile, role or assignments
// @Summary Update user
// @Description Accepts email, fullName, password, role and assignedTerminals
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User id"
// @Param fields body map[string]any true "Fields to change"
// @Success 200 {object} entity.UserInfo
// @Failure 400 {object} ErrorResponse "Field cannot be changed"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /users/{id} [patch]
// @Security BearerAuth
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	fields, ok := decodeFields(ctx, w, r, adminEditableFields)
	if !ok {
		return
	}

	user, err := workspaceFromCtx(ctx).Dashboard.UpdateUser(ctx, chi.URLParam(r, "id"), fields)
	if failed(ctx, w, err, "Failed to update user") {
		return
	}

	SendJSON(ctx, w, http.StatusOK, user.Info())
}

// DeleteUser removes a user
// @Summary Delete user
// @Tags users
// @Param id path string true "User id"
// @Success 204
// @Failure 403 {object} ErrorResponse "Cannot delete yourself"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /users/{id} [delete]
// @Security BearerAuth
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := workspaceFromCtx(ctx).Dashboard.DeleteUser(ctx, chi.URLParam(r, "id"))
	if failed(ctx, w, err, "Failed to delete user") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UnlockUser reactivates a locked account
// @Summary Unlock user
// @Tags users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} entity.UserInfo
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /users/{id}/unlock [post]
// @Security BearerAuth
func (h *Handler) UnlockUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := workspaceFromCtx(ctx).Dashboard.UnlockUser(ctx, chi.URLParam(r, "id"))
	if failed(ctx, w, err, "Failed to unlock user") {
		return
	}

	SendJSON(ctx, w, http.StatusOK, user.Info())
}

// Reset restores the demo data and signs everyone out
// @Summary Reset workspace
// @Tags admin
// @Success 204
// @Failure 403 {object} ErrorResponse "Not allowed for your role"
// @Router /admin/reset [post]
// @Security BearerAuth
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := workspaceFromCtx(ctx).Dashboard.Reset(ctx)
	if failed(ctx, w, err, "Failed to reset workspace") {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeFields(ctx context.Context, w http.ResponseWriter, r *http.Request, allowed []string) (entity.Fields, bool) {
	var fields entity.Fields
	if !decodeJSON(ctx, w, r, &fields) {
		return nil, false
	}

	for k := range fields {
		if !slices.Contains(allowed, k) {
			SendJSONErr(ctx, w, http.StatusBadRequest,
				fmt.Errorf("%s: %w", k, entity.ErrInvalidField), "Field cannot be changed")

			return nil, false
		}
	}

	return fields, true
}
