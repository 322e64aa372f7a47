package instrumentation

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToolInvocation_Complete(t *testing.T) {
	ti := NewToolInvocation("calendar").WithAction("today")
	time.Sleep(time.Millisecond)
	ti.Complete(true, nil)

	assert.True(t, ti.Success)
	assert.Empty(t, ti.Error)
	assert.Greater(t, ti.Duration, time.Duration(0))
	assert.Equal(t, StatusSuccess, ti.Status())
}

func TestToolInvocation_CompleteWithError(t *testing.T) {
	ti := NewToolInvocation("calendar").WithAction("create").WithOperation("create_event")
	ti.Complete(false, errors.New("boom"))

	assert.False(t, ti.Success)
	assert.Equal(t, "boom", ti.Error)
	assert.Equal(t, StatusError, ti.Status())
}

func TestAuditLogger_LogsSuccessAndFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	al := NewAuditLogger(logger, AuditLoggingConfig{Enabled: true})

	al.LogToolInvocation(NewToolInvocation("calendar").WithAction("today").Complete(true, nil))
	assert.Contains(t, buf.String(), "tool_executed")
	assert.Contains(t, buf.String(), "action=today")

	buf.Reset()
	al.LogToolInvocation(NewToolInvocation("calendar").WithAction("create").Complete(false, errors.New("bad payload")))
	assert.Contains(t, buf.String(), "tool_failed")
	assert.Contains(t, buf.String(), "bad payload")
}

func TestAuditLogger_DisabledWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	al := NewAuditLogger(logger, AuditLoggingConfig{Enabled: false})

	al.LogToolInvocation(NewToolInvocation("calendar").Complete(true, nil))
	assert.Empty(t, buf.String())
}

func TestMetrics_ZeroValueIsNoOp(t *testing.T) {
	m := &Metrics{}
	// Must not panic when instruments were never registered.
	m.RecordCalendarOperation(t.Context(), "list_day", StatusSuccess, time.Second)
	m.RecordOAuthAuth(t.Context(), OAuthResultSuccess)
	m.RecordOAuthTokenRefresh(t.Context(), OAuthResultFailure)
	m.RecordToolInvocation(t.Context(), "calendar", "today", StatusSuccess, time.Second)
}
