package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/onboarding"
	"github.com/aretw0/onboarding/internal/logging"
	"github.com/aretw0/onboarding/pkg/adapters/memory"
	"github.com/aretw0/onboarding/pkg/catalog"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/flows"
	"github.com/aretw0/onboarding/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	f, err := flows.Wellness(catalog.Default())
	require.NoError(t, err)
	eng, err := onboarding.New(f)
	require.NoError(t, err)
	return &Server{
		Engine:   eng,
		Sessions: session.NewManager(memory.NewStore()),
		Streams:  NewStreamManager(logging.NewNop()),
		Logger:   logging.NewNop(),
		Locale:   domain.LocaleFR,
	}
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func createSession(t *testing.T, h http.Handler, id string) SessionResponse {
	t.Helper()
	w := do(t, h, "POST", "/sessions", CreateSessionRequest{SessionID: id, Locale: domain.LocaleUS})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[SessionResponse](t, w)
}

func submit(t *testing.T, h http.Handler, id string, value any) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, h, "POST", "/sessions/"+id+"/responses", SubmitRequest{Value: value})
}

func TestHealthAndInfo(t *testing.T) {
	h := newServer(t).Routes()

	w := do(t, h, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	info := decode[map[string]string](t, do(t, h, "GET", "/info", nil))
	assert.Equal(t, flows.WellnessID, info["flow_id"])
	assert.Equal(t, strings.TrimSpace(onboarding.Version), info["version"])
}

func TestGetFlow(t *testing.T) {
	s := newServer(t)
	resp := decode[FlowResponse](t, do(t, s.Routes(), "GET", "/flow", nil))

	assert.Equal(t, flows.WellnessID, resp.ID)
	assert.Equal(t, "welcome", resp.InitialStep)
	assert.Len(t, resp.Steps, s.Engine.Flow().Len())
	assert.Contains(t, resp.Edges, FlowEdge{From: "module_selection", To: "module_upsell", Dynamic: true})
}

func TestCreateSession(t *testing.T) {
	h := newServer(t).Routes()

	t.Run("with id is idempotent", func(t *testing.T) {
		created := createSession(t, h, "s1")
		assert.Equal(t, "s1", created.State.SessionID)
		assert.Equal(t, domain.LocaleUS, created.State.Locale)
		require.NotNil(t, created.Step)
		assert.Equal(t, "welcome", created.Step.ID)

		w := do(t, h, "POST", "/sessions", CreateSessionRequest{SessionID: "s1"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.LocaleUS, decode[SessionResponse](t, w).State.Locale, "existing session is returned as is")
	})

	t.Run("without body", func(t *testing.T) {
		w := do(t, h, "POST", "/sessions", nil)
		require.Equal(t, http.StatusCreated, w.Code)
		resp := decode[SessionResponse](t, w)
		assert.NotEmpty(t, resp.State.SessionID)
		assert.Equal(t, domain.LocaleFR, resp.State.Locale)
	})

	t.Run("bad locale", func(t *testing.T) {
		w := do(t, h, "POST", "/sessions", CreateSessionRequest{Locale: "de"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("listed", func(t *testing.T) {
		ids := decode[map[string][]string](t, do(t, h, "GET", "/sessions", nil))
		assert.Contains(t, ids["sessions"], "s1")
	})
}

func TestSubmitAndBack(t *testing.T) {
	h := newServer(t).Routes()
	createSession(t, h, "s1")

	w := submit(t, h, "s1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "get_name", decode[SessionResponse](t, w).Step.ID)

	t.Run("validation failure is 422 and changes nothing", func(t *testing.T) {
		w := submit(t, h, "s1", "")
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decode[ErrorResponse](t, w)
		require.NotNil(t, resp.Failure)
		assert.Equal(t, "get_name", resp.Failure.StepID)
		assert.Equal(t, domain.RuleRequired, resp.Failure.Reason)
		assert.Equal(t, "Please enter your name", resp.Failure.Message)

		step := decode[domain.ResolvedStep](t, do(t, h, "GET", "/sessions/s1/step", nil))
		assert.Equal(t, "get_name", step.ID)
	})

	w = submit(t, h, "s1", "Alex")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[SessionResponse](t, w)
	assert.Equal(t, "main_objective", resp.Step.ID)
	assert.Equal(t, "Great Alex! 🌟", resp.Step.Title)
	assert.NotEmpty(t, resp.Step.Options)

	w = submit(t, h, "s1", "performance")
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("choice not offered is 422", func(t *testing.T) {
		w := submit(t, h, "s1", []string{"nutrition", "astrology"})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decode[ErrorResponse](t, w)
		require.NotNil(t, resp.Failure)
		assert.Equal(t, domain.RuleOption, resp.Failure.Reason)
	})

	t.Run("uncoercible value is 400", func(t *testing.T) {
		w := submit(t, h, "s1", 42)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	w = submit(t, h, "s1", []string{"nutrition"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decode[SessionResponse](t, w)
	assert.Equal(t, "module_upsell", resp.Step.ID)
	assert.Equal(t, []string{"nutrition"}, resp.State.SelectedModules)

	w = do(t, h, "POST", "/sessions/s1/back", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "module_selection", decode[SessionResponse](t, w).Step.ID)

	p := decode[map[string]any](t, do(t, h, "GET", "/sessions/s1/profile", nil))
	assert.Equal(t, "Alex", p["first_name"])
}

func TestErrorStatuses(t *testing.T) {
	h := newServer(t).Routes()

	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/sessions/ghost", nil).Code)
	assert.Equal(t, http.StatusNotFound, submit(t, h, "ghost", "x").Code)

	createSession(t, h, "s1")
	assert.Equal(t, http.StatusConflict, do(t, h, "POST", "/sessions/s1/back", nil).Code, "no history")

	w := do(t, h, "POST", "/sessions/s1/responses", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "empty body")

	assert.Equal(t, http.StatusNoContent, do(t, h, "DELETE", "/sessions/s1", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/sessions/s1/step", nil).Code)
}

func TestConcurrentBacksAreSerialized(t *testing.T) {
	h := newServer(t).Routes()
	createSession(t, h, "s1")
	for _, v := range []any{nil, "Alex", "performance"} {
		require.Equal(t, http.StatusOK, submit(t, h, "s1", v).Code)
	}

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := do(t, h, "POST", "/sessions/s1/back", nil)
			assert.Equal(t, http.StatusOK, w.Code)
		}()
	}
	wg.Wait()

	resp := decode[SessionResponse](t, do(t, h, "GET", "/sessions/s1", nil))
	assert.Equal(t, "welcome", resp.State.Progress.CurrentStepID)
	assert.Empty(t, resp.State.Progress.CompletedStepIDs)
}

func TestSubscribeEvents(t *testing.T) {
	s := newServer(t)
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()
	createSession(t, ts.Config.Handler, "s1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", ts.URL+"/sessions/s1/events?watch=progress", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	expectLine := func(prefix string) string {
		t.Helper()
		timeout := time.After(2 * time.Second)
		for {
			select {
			case line, ok := <-lines:
				require.True(t, ok, "stream closed before %q", prefix)
				if strings.HasPrefix(line, prefix) {
					return line
				}
			case <-timeout:
				t.Fatalf("no %q line received", prefix)
			}
		}
	}

	expectLine("event: ping")
	assert.Equal(t, "data: connected", expectLine("data: "))
	require.Equal(t, 1, s.Streams.Subscribers("s1"))

	require.Equal(t, http.StatusOK, submit(t, ts.Config.Handler, "s1", nil).Code)

	data := expectLine("data: {")
	assert.Contains(t, data, `"current_step_id":"get_name"`)

	cancel()
	require.Eventually(t, func() bool { return s.Streams.Subscribers("s1") == 0 }, time.Second, 5*time.Millisecond)
}

func TestSubscribeEvents_PeriodicPing(t *testing.T) {
	s := newServer(t)
	s.PingInterval = 20 * time.Millisecond
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()
	createSession(t, ts.Config.Handler, "s1")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", ts.URL+"/sessions/s1/events", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	pings := 0
	for pings < 3 && scanner.Scan() {
		if scanner.Text() == "event: ping" {
			pings++
		}
	}
	assert.Equal(t, 3, pings)
}

func TestStreamManager_BroadcastDropsWhenFull(t *testing.T) {
	var buf bytes.Buffer
	sm := NewStreamManager(logging.NewWithWriter(&buf, slog.LevelDebug, logging.FormatText))
	ch, unsubscribe := sm.Subscribe("s1")
	defer unsubscribe()

	for i := 0; i < cap(ch)+1; i++ {
		sm.Broadcast("s1", fmt.Sprintf("msg-%d", i))
	}

	assert.Len(t, ch, cap(ch))
	assert.Equal(t, "msg-0", <-ch)
	assert.Contains(t, buf.String(), "client buffer full")
	assert.Contains(t, buf.String(), "session_id=s1")
}

func TestMatchesWatch(t *testing.T) {
	diff := `{"session_id":"s1","answers":{"firstName":{"kind":"text","value":"Alex"}}}`
	tests := []struct {
		watch []string
		want  bool
	}{
		{[]string{"answers"}, true},
		{[]string{"status", "modules"}, false},
		{[]string{"progress"}, false},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.watch, ","), func(t *testing.T) {
			assert.Equal(t, tt.want, matchesWatch(diff, tt.watch))
		})
	}
	assert.True(t, matchesWatch("not json", []string{"status"}))
}
