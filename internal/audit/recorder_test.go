package audit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"event_org/internal/auth"
	"event_org/internal/models"
	"event_org/internal/repository"
	"event_org/internal/telemetry"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type captureStore struct {
	logs []models.AuditLog
	err  error
}

func (s *captureStore) RecordAudit(_ context.Context, e *models.AuditLog) error {
	if s.err != nil {
		return s.err
	}
	s.logs = append(s.logs, *e)
	return nil
}

func (s *captureStore) ListAudit(context.Context, repository.AuditQuery) ([]models.AuditLog, error) {
	return s.logs, nil
}

func record(rec *Recorder, claims *auth.Claims, e Entry) int {
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		if claims != nil {
			c.Set(auth.ClaimsKey, claims)
		}
		rec.Record(c, e)
		c.Status(http.StatusNoContent)
	})
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("User-Agent", "probe/1.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRecord_WithActor(t *testing.T) {
	store := &captureStore{}
	rec := NewRecorder(store, zap.NewNop())

	code := record(rec, &auth.Claims{UserID: "u-1", Email: "alice@example.com"}, Entry{
		Action:     "organization.create",
		EntityType: "organization",
		EntityID:   "org-1",
		Metadata:   map[string]any{"name": "Acme"},
	})
	require.Equal(t, http.StatusNoContent, code)
	require.Len(t, store.logs, 1)

	l := store.logs[0]
	require.NotNil(t, l.ActorID)
	assert.Equal(t, "u-1", *l.ActorID)
	assert.Equal(t, "alice@example.com", l.InitiatorName)
	assert.Equal(t, "probe/1.0", l.UserAgent)
	assert.JSONEq(t, `{"name":"Acme"}`, string(l.Metadata))
	assert.False(t, l.CreatedAt.IsZero())
}

func TestRecord_Anonymous(t *testing.T) {
	store := &captureStore{}
	record(NewRecorder(store, zap.NewNop()), nil, Entry{Action: "user.register"})

	require.Len(t, store.logs, 1)
	assert.Nil(t, store.logs[0].ActorID)
	assert.Empty(t, store.logs[0].Metadata)
}

func TestRecord_FailureDoesNotFailRequest(t *testing.T) {
	store := &captureStore{err: errors.New("disk full")}
	before := testutil.ToFloat64(telemetry.AuditWriteFailuresTotal)

	code := record(NewRecorder(store, zap.NewNop()), nil, Entry{Action: "event.delete"})

	assert.Equal(t, http.StatusNoContent, code)
	assert.Equal(t, before+1, testutil.ToFloat64(telemetry.AuditWriteFailuresTotal))
}

func TestRecord_NilRecorder(t *testing.T) {
	var rec *Recorder
	assert.Equal(t, http.StatusNoContent, record(rec, nil, Entry{Action: "noop"}))
}
