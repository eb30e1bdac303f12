package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/BMMUGOMBA/terminal-pulse/internal/api"
	"github.com/BMMUGOMBA/terminal-pulse/internal/entity"
	"github.com/BMMUGOMBA/terminal-pulse/internal/repository"
	"github.com/BMMUGOMBA/terminal-pulse/internal/service"
)

type testAPI struct {
	server  *httptest.Server
	backend *repository.MemoryStorage
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	backend := repository.NewMemoryStorage(0)

	workspaces := service.NewWorkspaces(service.WorkspacesConfig{
		Backend:   backend,
		Passwords: service.NewPasswords(bcrypt.MinCost),
	})

	tokens, err := service.NewTokens("", "", time.Hour, "terminal-pulse")
	require.NoError(t, err)

	router := api.NewRouter(api.NewHandler(tokens), api.NewMiddleware(workspaces, tokens))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testAPI{server: server, backend: backend}
}

func (a *testAPI) do(t *testing.T, method, path, workspace, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader

	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)

		reader = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, a.server.URL+path, reader)
	require.NoError(t, err)

	if workspace != "" {
		req.Header.Set(api.HeaderWorkspace, workspace)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func (a *testAPI) login(t *testing.T, workspace, username, password string) string {
	t.Helper()

	resp := a.do(t, http.MethodPost, "/api/session/login", workspace, "", api.LoginRequest{
		Username: username,
		Password: password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[api.LoginResponse](t, resp)
	require.NotEmpty(t, body.Token)

	return body.Token
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))

	return v
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)

	resp := a.do(t, http.MethodGet, "/api/health", "", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestHandler_Login(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)

	resp := a.do(t, http.MethodPost, "/api/session/login", "tab-1", "", api.LoginRequest{Username: "admin", Password: "admin123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[api.LoginResponse](t, resp)
	require.Equal(t, entity.LoginSuccess, body.Outcome)
	require.Equal(t, "Login successful", body.Message)
	require.NotEmpty(t, body.Token)
	require.NotNil(t, body.ExpiresAt)
	require.Equal(t, "admin", body.User.Username)
	require.Contains(t, body.Permissions, entity.PermissionSystemAdmin)

	resp = a.do(t, http.MethodPost, "/api/session/login", "tab-1", "", api.LoginRequest{Username: "ghost", Password: "x"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, entity.LoginUserNotFound, decode[api.LoginResponse](t, resp).Outcome)

	resp = a.do(t, http.MethodPost, "/api/session/login", "tab-1", "", "{not json")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/api/session/login", "bad id!", "", api.LoginRequest{Username: "admin", Password: "admin123"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_LoginLockout(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)

	wrong := api.LoginRequest{Username: "agent", Password: "nope"}

	for range 2 {
		resp := a.do(t, http.MethodPost, "/api/session/login", "", "", wrong)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.Equal(t, entity.LoginInvalidPassword, decode[api.LoginResponse](t, resp).Outcome)
	}

	resp := a.do(t, http.MethodPost, "/api/session/login", "", "", wrong)
	require.Equal(t, http.StatusLocked, resp.StatusCode)
	require.Equal(t, entity.LoginLockedOut, decode[api.LoginResponse](t, resp).Outcome)

	resp = a.do(t, http.MethodPost, "/api/session/login", "", "", api.LoginRequest{Username: "agent", Password: "agent123"})
	require.Equal(t, http.StatusLocked, resp.StatusCode)
	require.Equal(t, entity.LoginAccountLocked, decode[api.LoginResponse](t, resp).Outcome)

	token := a.login(t, "", "admin", "admin123")

	resp = a.do(t, http.MethodPost, "/api/users/3/unlock", "", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, entity.UserStatusActive, decode[entity.UserInfo](t, resp).Status)

	a.login(t, "", "agent", "agent123")
}

func TestHandler_BearerAuth(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)

	resp := a.do(t, http.MethodGet, "/api/terminals", "tab-a", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/terminals", "tab-a", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := a.login(t, "tab-a", "manager", "manager123")

	resp = a.do(t, http.MethodGet, "/api/terminals", "tab-a", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, decode[[]entity.Terminal](t, resp), 5)

	resp = a.do(t, http.MethodGet, "/api/terminals", "tab-b", token, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Signing in as someone else in the same tab retires the old token.
	other := a.login(t, "tab-a", "agent", "agent123")

	resp = a.do(t, http.MethodGet, "/api/terminals", "tab-a", token, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/api/session/logout", "tab-a", other, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/session/me", "tab-a", other, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_MerchantScope(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	token := a.login(t, "shop", "merchant", "merchant123")

	resp := a.do(t, http.MethodGet, "/api/terminals", "shop", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	terminals := decode[[]entity.Terminal](t, resp)
	require.Len(t, terminals, 2)
	require.Equal(t, "T001", terminals[0].ID)
	require.Equal(t, "T002", terminals[1].ID)

	resp = a.do(t, http.MethodGet, "/api/terminals/T004", "shop", token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/tickets", "shop", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, ticket := range decode[[]entity.SupportTicket](t, resp) {
		require.Contains(t, []string{"T001", "T002"}, ticket.TerminalID)
	}

	resp = a.do(t, http.MethodPatch, "/api/terminals/T001/status", "shop", token, api.TerminalStatusRequest{Status: entity.TerminalStatusOffline})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/api/tickets", "shop", token, service.NewTicket{
		Title:      "Till 1 keeps rebooting",
		TerminalID: "T001",
		Priority:   entity.TicketPriorityMedium,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ticket := decode[entity.SupportTicket](t, resp)
	require.Equal(t, entity.TicketSourceMerchant, ticket.Source)
	require.Equal(t, "4", ticket.ReportedBy)

	resp = a.do(t, http.MethodPost, "/api/tickets", "shop", token, service.NewTicket{
		Title:      "Not my till",
		TerminalID: "T005",
		Priority:   entity.TicketPriorityMedium,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/users", "shop", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/dashboard/summary", "shop", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 2, decode[entity.DashboardSummary](t, resp).TotalTerminals)
}

func TestHandler_UpdateMe(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	token := a.login(t, "", "merchant", "merchant123")

	resp := a.do(t, http.MethodPatch, "/api/session/me", "", token, map[string]any{"role": "administrator"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(t, http.MethodPatch, "/api/session/me", "", token, map[string]any{"fullName": "Market Owner"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Market Owner", decode[entity.UserInfo](t, resp).FullName)

	resp = a.do(t, http.MethodGet, "/api/session/me", "", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	me := decode[api.MeResponse](t, resp)
	require.Equal(t, "Market Owner", me.User.FullName)
	require.Equal(t, entity.RoleMerchant, me.User.Role)
	require.Len(t, me.Permissions, 4)

	resp = a.do(t, http.MethodGet, "/api/session/permissions", "", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.ElementsMatch(t, entity.GetPermissionsByRole(entity.RoleMerchant), decode[[]string](t, resp))
}

func TestHandler_Users(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	token := a.login(t, "", "admin", "admin123")

	resp := a.do(t, http.MethodPost, "/api/users", "", token, service.NewUser{
		Username: "ops",
		Email:    "ops@terminalpulse.local",
		FullName: "Operations",
		Password: "ops-pass",
		Role:     entity.RoleSupportAgent,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[entity.UserInfo](t, resp)
	require.Equal(t, "ops", created.Username)

	resp = a.do(t, http.MethodPost, "/api/users", "", token, service.NewUser{Username: "ops", Password: "x", Role: entity.RoleSupportAgent})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = a.do(t, http.MethodPatch, "/api/users/"+created.ID, "", token, map[string]any{
		"role":              "merchant",
		"assignedTerminals": []string{"T005"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"T005"}, decode[entity.UserInfo](t, resp).AssignedTerminals)

	resp = a.do(t, http.MethodPatch, "/api/users/"+created.ID, "", token, map[string]any{"failedLoginAttempts": 0})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/users", "", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "password")
	require.NotContains(t, string(raw), "admin123")

	resp = a.do(t, http.MethodDelete, "/api/users/1", "", token, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = a.do(t, http.MethodDelete, "/api/users/"+created.ID, "", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do(t, http.MethodDelete, "/api/users/"+created.ID, "", token, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/api/admin/reset", "", token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/users", "", token, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_PersistenceWarning(t *testing.T) {
	t.Parallel()

	a := newTestAPI(t)
	token := a.login(t, "full", "agent", "agent123")

	resp := a.do(t, http.MethodGet, "/api/tickets", "full", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	a.backend.SetQuota(a.backend.Usage("full"))

	resp = a.do(t, http.MethodPatch, "/api/tickets/TKT-001/status", "full", token, api.TicketStatusRequest{Status: entity.TicketStatusResolved})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(api.HeaderPersistenceWarning))

	ticket := decode[entity.SupportTicket](t, resp)
	require.Equal(t, entity.TicketStatusResolved, ticket.Status)

	a.backend.SetQuota(0)

	resp = a.do(t, http.MethodGet, "/api/tickets/TKT-001", "full", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, entity.TicketStatusOpen, decode[entity.SupportTicket](t, resp).Status)
}
