package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/onboarding"
	"github.com/aretw0/onboarding/internal/config"
	"github.com/aretw0/onboarding/internal/presentation/tui"
	"github.com/aretw0/onboarding/pkg/catalog"
	"github.com/aretw0/onboarding/pkg/domain"
	"github.com/aretw0/onboarding/pkg/profile"
	"github.com/aretw0/onboarding/pkg/runner"
	"github.com/google/uuid"
)

// RunOptions configures an interactive (or headless) run of a flow.
type RunOptions struct {
	Config config.Config
	// SessionID makes the run resumable. Empty runs are kept in memory.
	SessionID string
	// Fresh discards a stored session before starting.
	Fresh bool
	// JSON switches to the JSON Lines protocol and drops the banner.
	JSON  bool
	Debug bool
	// NoBanner drops the banner, e.g. when stdout is not a terminal.
	NoBanner bool

	In  io.Reader
	Out io.Writer
	// Logger overrides the logger built from Config.
	Logger *slog.Logger
}

// ErrInterrupted is returned when a run stops on a signal or a cancelled context.
var ErrInterrupted = errors.New("run interrupted")

// Execute runs one session of the configured flow until it completes, the
// user quits or ctx is cancelled. The state is persisted after every move.
func Execute(ctx context.Context, opts RunOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(opts.Config, opts.Debug)
	}

	if err := opts.Config.Validate(); err != nil {
		return err
	}

	engine, err := BuildEngine(opts.Config, logger)
	if err != nil {
		return err
	}

	var p *Persistence
	if opts.SessionID == "" {
		p = Ephemeral(logger)
	} else {
		p, err = OpenPersistence(ctx, opts.Config, logger)
		if err != nil {
			return err
		}
	}
	defer func() { _ = p.Close() }()

	if opts.Fresh && opts.SessionID != "" {
		if err := p.Sessions.Delete(ctx, opts.SessionID); err != nil {
			return fmt.Errorf("failed to reset session %s: %w", opts.SessionID, err)
		}
	}

	if !opts.JSON && !opts.NoBanner {
		tui.PrintBanner(opts.Out, onboarding.Version)
	}

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	loaded := true
	state, err := p.Sessions.LoadOrStart(ctx, sessionID, func(ctx context.Context, id string) (*domain.AnswerState, error) {
		loaded = false
		sess, err := engine.Start(ctx, id, opts.Config.Locale)
		if err != nil {
			return nil, err
		}
		return sess.State(), nil
	})
	if err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}
	sess, err := engine.Resume(state)
	if err != nil {
		return err
	}
	logger.Debug("session ready", "session_id", sess.ID(), "step_id", state.Progress.CurrentStepID, "resumed", loaded, "backend", p.Kind)
	if loaded && !opts.JSON && !sess.IsComplete() {
		printSystemMessage(opts.Out, "Resuming session '%s' at step '%s'.", sess.ID(), state.Progress.CurrentStepID)
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, opts.Out)
	} else {
		handler = runner.NewTextHandler(opts.In, opts.Out,
			runner.WithTextHandlerRenderer(tui.NewRenderer()),
			runner.WithTextHandlerFormatter(tui.FormatStep),
		)
	}

	r := runner.NewRunner(
		runner.WithInputHandler(handler),
		runner.WithLogger(logger),
		runner.WithStore(p.Sessions),
	)
	final, runErr := r.Run(ctx, sess)

	if runErr == nil && ctx.Err() != nil {
		runErr = ctx.Err()
	}
	if runErr != nil {
		if errors.Is(runErr, context.Canceled) || errors.Is(runErr, context.DeadlineExceeded) {
			if !opts.JSON && opts.SessionID != "" {
				fmt.Fprintln(opts.Out)
				printSystemMessage(opts.Out, "Interrupted. Resume with --session %s.", opts.SessionID)
			}
			return ErrInterrupted
		}
		return runErr
	}

	if final != nil && final.IsComplete() && !opts.JSON {
		if err := PrintSummary(opts.Out, final, catalog.Default()); err != nil {
			logger.Warn("failed to build profile summary", "error", err)
		}
	}
	return nil
}

// PrintSummary writes the profile digest of a completed session: the
// recommended pack and the tips derived from the answers.
func PrintSummary(w io.Writer, state *domain.AnswerState, cat *catalog.Catalog) error {
	p, err := profile.Decode(state)
	if err != nil {
		return err
	}

	name := p.FirstName
	if name == "" {
		name = "-"
	}
	fmt.Fprintf(w, "\nProfile: %s\n", name)
	if p.MainObjective != "" {
		fmt.Fprintf(w, "Objective: %s\n", p.MainObjective)
	}
	if len(p.SelectedModules) > 0 {
		fmt.Fprintf(w, "Modules: %s\n", strings.Join(p.SelectedModules, ", "))
	}
	if pack, ok := profile.RecommendPack(p.SelectedModules, cat); ok {
		fmt.Fprintf(w, "Recommended pack: %s\n", pack.Label().Resolve(state))
	}
	if tips := profile.Tips(p, cat, state.Locale); len(tips) > 0 {
		fmt.Fprintln(w, "Tips:")
		for _, tip := range tips {
			fmt.Fprintf(w, "  - %s\n", tip)
		}
	}
	return nil
}
