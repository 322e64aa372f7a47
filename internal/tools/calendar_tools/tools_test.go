package calendar_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendabot/internal/calendar"
	"agendabot/internal/config"
	"agendabot/internal/googleauth"
	"agendabot/internal/request"
	"agendabot/internal/server"
	"agendabot/internal/timetext"
)

// toolFixture runs a fake Calendar backend and a ServerContext wired to it.
type toolFixture struct {
	sc     *server.ServerContext
	events http.HandlerFunc
}

func newToolFixture(t *testing.T) *toolFixture {
	t.Helper()
	f := &toolFixture{}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"access_token": "fresh-access",
			"token_type": "Bearer",
			"expires_in": 3600,
			"refresh_token": "fresh-refresh",
			"scope": "https://www.googleapis.com/auth/calendar"
		}`)
	})
	mux.HandleFunc("/calendars/primary/events", func(w http.ResponseWriter, r *http.Request) {
		f.events(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	credsPath := filepath.Join(dir, "credentials.json")
	credsJSON := fmt.Sprintf(`{
		"installed": {
			"client_id": "test-client",
			"client_secret": "test-secret",
			"auth_uri": "https://accounts.google.com/o/oauth2/auth",
			"token_uri": %q,
			"redirect_uris": ["urn:ietf:wg:oauth:2.0:oob"]
		}
	}`, srv.URL+"/oauth/token")
	require.NoError(t, os.WriteFile(credsPath, []byte(credsJSON), 0o600))

	tokenPath := filepath.Join(dir, "token.json")
	require.NoError(t, (&googleauth.FileTokenStore{Path: tokenPath}).Save(&googleauth.StoredToken{
		AccessToken:  "stored-access",
		RefreshToken: "stored-refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	}))

	creds := googleauth.NewStore(googleauth.Config{
		TokenPath:       tokenPath,
		CredentialsPath: credsPath,
		Scopes:          []string{googleauth.ScopeReadWrite},
	})

	conf := config.Default()
	conf.TokenPath = tokenPath
	conf.CredentialsPath = credsPath

	f.sc = server.NewServerContext(context.Background(), server.Options{
		Config:   conf,
		Creds:    creds,
		Resolver: timetext.Resolver{},
	})
	t.Cleanup(func() { _ = f.sc.Shutdown() })
	f.sc.SetCalendarClient(calendar.NewClientWithBaseURL(creds, request.New(nil), nil, srv.URL))
	return f
}

func callTool(t *testing.T, f *toolFixture, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "calendar",
			Arguments: args,
		},
	}
	result, err := handleCalendar(context.Background(), req, f.sc)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return tc.Text
}

func TestHandleCalendar_UnknownAction(t *testing.T) {
	f := newToolFixture(t)

	result := callTool(t, f, map[string]interface{}{"action": "tomorrow"})

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "unknown action")
}

func TestHandleToday_Digest(t *testing.T) {
	f := newToolFixture(t)
	f.events = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": [
			{"summary": "Standup", "start": {"dateTime": "2026-02-11T09:30:00Z"}, "end": {"dateTime": "2026-02-11T09:45:00Z"}}
		]}`)
	}

	result := callTool(t, f, map[string]interface{}{"action": "today"})

	require.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "Calendar - ")
	assert.Contains(t, text, "09:30-09:45 Standup")
}

func TestHandleToday_NoEvents(t *testing.T) {
	f := newToolFixture(t)
	f.events = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": []}`)
	}

	result := callTool(t, f, map[string]interface{}{"action": "today"})

	require.False(t, result.IsError)
	assert.Equal(t, "HEARTBEAT_OK - No events today", resultText(t, result))
}

func TestHandleToday_JSONOutput(t *testing.T) {
	f := newToolFixture(t)
	f.events = func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": [
			{"summary": "Standup", "start": {"dateTime": "2026-02-11T09:30:00Z"}, "end": {"dateTime": "2026-02-11T09:45:00Z"}}
		]}`)
	}

	result := callTool(t, f, map[string]interface{}{"action": "today", "json_output": true})

	require.False(t, result.IsError)
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Standup", decoded[0]["summary"])
}

func TestHandleToday_InvalidOptions(t *testing.T) {
	f := newToolFixture(t)

	result := callTool(t, f, map[string]interface{}{"action": "today", "timeout": float64(1200)})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "timeout")

	result = callTool(t, f, map[string]interface{}{"action": "today", "retries": float64(99)})
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "retries")
}

func TestHandleToday_FailureGetsTroubleshootingHints(t *testing.T) {
	f := newToolFixture(t)
	f.events = func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}

	result := callTool(t, f, map[string]interface{}{"action": "today", "retries": float64(0), "timeout": float64(2)})

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Troubleshooting")
}

func TestHandleAuth_ReturnsAuthorizationURL(t *testing.T) {
	f := newToolFixture(t)

	result := callTool(t, f, map[string]interface{}{"action": "auth"})

	require.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "https://accounts.google.com/o/oauth2/auth")
	assert.Contains(t, text, "auth_code")
}

func TestHandleAuth_WithCodeCompletesExchange(t *testing.T) {
	f := newToolFixture(t)

	result := callTool(t, f, map[string]interface{}{"action": "auth", "auth_code": "code-from-browser"})

	require.False(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Authorization successful")
}

func TestHandleCreate_ReturnsConfirmation(t *testing.T) {
	f := newToolFixture(t)
	f.events = func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "evt123",
			"summary": "Dinner",
			"htmlLink": "https://calendar.google.com/event?eid=evt123",
			"start": {"dateTime": "2026-02-11T17:30:00+08:00"},
			"end": {"dateTime": "2026-02-11T19:00:00+08:00"}
		}`)
	}

	result := callTool(t, f, map[string]interface{}{
		"action": "create",
		"title":  "Dinner",
		"start":  "2026-02-11T17:30:00+08:00",
		"end":    "2026-02-11T19:00:00+08:00",
	})

	require.False(t, result.IsError)
	text := resultText(t, result)
	assert.Contains(t, text, "Created calendar event successfully.")
	assert.Contains(t, text, "- title: Dinner")
	assert.Contains(t, text, "- time: 2026-02-11T17:30:00+08:00 -> 2026-02-11T19:00:00+08:00")
	assert.Contains(t, text, "- id: evt123")
	assert.Contains(t, text, "- link: https://calendar.google.com/event?eid=evt123")
}

func TestHandleCreate_RejectedWithoutWriteScope(t *testing.T) {
	f := newToolFixture(t)
	creds := googleauth.NewStore(googleauth.Config{
		TokenPath:       f.sc.Config().TokenPath,
		CredentialsPath: f.sc.Config().CredentialsPath,
		Scopes:          []string{googleauth.ScopeReadOnly},
	})
	sc := server.NewServerContext(context.Background(), server.Options{
		Config: f.sc.Config(),
		Creds:  creds,
	})
	t.Cleanup(func() { _ = sc.Shutdown() })

	result, err := handleCalendar(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "calendar",
			Arguments: map[string]interface{}{"action": "create", "title": "Dinner"},
		},
	}, sc)

	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "read-write")
}

func TestHandleCreate_RejectsNaiveDatetime(t *testing.T) {
	f := newToolFixture(t)

	result := callTool(t, f, map[string]interface{}{
		"action": "create",
		"title":  "Dinner",
		"start":  "2026-02-11T17:30:00",
		"end":    "2026-02-11T19:00:00+08:00",
	})

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "timezone is required")
}

func TestHandleCreate_FreeTextOnly(t *testing.T) {
	f := newToolFixture(t)
	var posted map[string]interface{}
	f.events = func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "evt9", "summary": "跑步", "start": {"dateTime": "x"}, "end": {"dateTime": "y"}}`)
	}

	result := callTool(t, f, map[string]interface{}{
		"action": "create",
		"text":   "17:30-19:00跑步",
	})

	require.False(t, result.IsError)
	assert.Equal(t, "跑步", posted["summary"])
}
