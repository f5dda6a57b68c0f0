package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/onboarding/internal/config"
	"github.com/aretw0/onboarding/internal/logging"
	"github.com/aretw0/onboarding/pkg/adapters/file"
	"github.com/aretw0/onboarding/pkg/catalog"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/flows"
	"github.com/aretw0/onboarding/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// legacyScript answers every step of the legacy flow in text mode.
const legacyScript = "\nSam\n1,5\ntennis\n2.5\nget fit\n\n"

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Flow = flows.NameLegacy
	cfg.Locale = domain.LocaleUS
	cfg.SessionsDir = t.TempDir()
	return cfg
}

func TestBuildEngine(t *testing.T) {
	logger := logging.NewNop()

	tests := []struct {
		name    string
		flow    string
		wantID  string
		wantErr bool
	}{
		{"Wellness", flows.NameWellness, flows.WellnessID, false},
		{"Legacy", flows.NameLegacy, flows.LegacyID, false},
		{"Unknown flow", "nope", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Flow = tt.flow
			engine, err := BuildEngine(cfg, logger)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, engine.Flow().ID)
		})
	}
}

func TestBuildEngine_RevertOnBack(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.RevertOnBack = true

	engine, err := BuildEngine(cfg, logging.NewNop())
	require.NoError(t, err)

	sess, err := engine.Start(ctx, "s1", domain.LocaleUS)
	require.NoError(t, err)
	require.NoError(t, sess.Submit(ctx, domain.None()))
	require.NoError(t, sess.Submit(ctx, domain.TextValue("Sam")))
	require.NoError(t, sess.GoBack(ctx))

	assert.Equal(t, "get_name", sess.State().Progress.CurrentStepID)
	assert.Equal(t, domain.KindNone, sess.State().Answer("firstName").Kind())
}

func TestOpenPersistence(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewNop()
	mr := miniredis.RunT(t)

	tests := []struct {
		name     string
		redis    string
		wantKind string
	}{
		{"File by default", "", BackendFile},
		{"Redis when configured", mr.Addr(), BackendRedis},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Redis.Addr = tt.redis

			p, err := OpenPersistence(ctx, cfg, logger)
			require.NoError(t, err)
			defer p.Close()
			assert.Equal(t, tt.wantKind, p.Kind)

			engine, err := BuildEngine(cfg, logger)
			require.NoError(t, err)
			sess, err := engine.Start(ctx, "abc", domain.LocaleUS)
			require.NoError(t, err)

			require.NoError(t, p.Sessions.Save(ctx, "abc", sess.State()))
			ids, err := p.Sessions.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"abc"}, ids)
		})
	}
}

func TestOpenPersistence_UnreachableRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.Redis.Addr = addr
	_, err := OpenPersistence(context.Background(), cfg, logging.NewNop())
	assert.ErrorContains(t, err, "failed to connect to redis")
}

func TestExecute_CompletesWithSummary(t *testing.T) {
	var out bytes.Buffer
	err := Execute(context.Background(), RunOptions{
		Config: testConfig(t),
		In:     strings.NewReader(legacyScript),
		Out:    &out,
		Logger: logging.NewNop(),
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Onboarding complete")
	assert.Contains(t, text, "Profile: Sam")
	assert.Contains(t, text, "Modules: sport, hydration")
}

func TestExecute_JSONLines(t *testing.T) {
	in := strings.Join([]string{`null`, `"Sam"`, `["sport"]`, `"tennis"`, `"get fit"`, `{"value": null}`}, "\n")

	var out bytes.Buffer
	err := Execute(context.Background(), RunOptions{
		Config: testConfig(t),
		JSON:   true,
		In:     strings.NewReader(in),
		Out:    &out,
		Logger: logging.NewNop(),
	})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, `"type":"step"`)
	assert.Contains(t, text, `"type":"system"`)
	assert.NotContains(t, text, "Profile:")
}

func TestExecute_ResumesStoredSession(t *testing.T) {
	cfg := testConfig(t)
	run := func(input string, fresh bool) string {
		var out bytes.Buffer
		err := Execute(context.Background(), RunOptions{
			Config:    cfg,
			SessionID: "resume-me",
			Fresh:     fresh,
			In:        strings.NewReader(input),
			Out:       &out,
			Logger:    logging.NewNop(),
		})
		require.NoError(t, err)
		return out.String()
	}

	first := run("\nSam\nquit\n", false)
	assert.NotContains(t, first, "Resuming session")

	second := run("", false)
	assert.Contains(t, second, "Resuming session 'resume-me' at step 'module_selection'.")

	third := run("", true)
	assert.NotContains(t, third, "Resuming session")
}

func TestExecute_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Locale = "de"
	err := Execute(context.Background(), RunOptions{Config: cfg, In: strings.NewReader(""), Out: &bytes.Buffer{}})
	assert.ErrorContains(t, err, "unsupported locale")
}

func TestPrintSummary(t *testing.T) {
	f, err := flows.Legacy(catalog.Default())
	require.NoError(t, err)
	state := domain.NewAnswerState("s1", f, domain.LocaleUS, time.Now())
	state.Answers["firstName"] = domain.TextValue("Alex")
	state.SelectedModules = []string{"nutrition", "sleep"}

	var out bytes.Buffer
	require.NoError(t, PrintSummary(&out, state, catalog.Default()))
	assert.Contains(t, out.String(), "Profile: Alex")
	assert.Contains(t, out.String(), "Modules: nutrition, sleep")
	assert.Contains(t, out.String(), "Recommended pack:")
}

func TestNewServeHandler(t *testing.T) {
	logger := logging.NewNop()
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	cfg := testConfig(t)
	engine, err := BuildEngine(cfg, logger, metrics.Hooks())
	require.NoError(t, err)
	sessions := Ephemeral(logger).Sessions

	t.Run("Metrics enabled", func(t *testing.T) {
		h := NewServeHandler(cfg, engine, sessions, reg, logger)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{}`)))
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `onboarding_step_visits_total{flow_id="onboarding_legacy",step_id="welcome"} 1`)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Metrics disabled", func(t *testing.T) {
		off := cfg
		off.Metrics.Enabled = false
		h := NewServeHandler(off, engine, sessions, reg, logger)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.HTTP.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, cfg, logging.NewNop(), &out)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
	assert.Contains(t, out.String(), "stopped gracefully")
}

func TestOpenPersistence_EncryptsAtRest(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewNop()
	cfg := testConfig(t)
	cfg.Encryption.Key = "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA="

	p, err := OpenPersistence(ctx, cfg, logger)
	require.NoError(t, err)

	engine, err := BuildEngine(cfg, logger)
	require.NoError(t, err)
	sess, err := engine.Start(ctx, "secret", domain.LocaleUS)
	require.NoError(t, err)
	require.NoError(t, sess.Submit(ctx, domain.None()))
	require.NoError(t, sess.Submit(ctx, domain.TextValue("Sam")))
	require.NoError(t, p.Sessions.Save(ctx, "secret", sess.State()))

	raw, err := file.New(cfg.SessionsDir).Load(ctx, "secret")
	require.NoError(t, err)
	assert.Equal(t, domain.KindNone, raw.Answer("firstName").Kind())

	loaded, err := p.Sessions.Load(ctx, "secret")
	require.NoError(t, err)
	assert.Equal(t, "Sam", loaded.Answer("firstName").String())
}
