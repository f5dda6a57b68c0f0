/*
Package runner drives an onboarding session from a terminal or a pipe.

It renders the current step through a pluggable IOHandler, reads a reply,
submits it, and persists the state after every accepted move. Validation
failures are shown to the user and the same step is asked again.

# Key Components

  - Runner: the render, read, submit loop.
  - IOHandler: decouples how steps are shown and replies are read.
  - TextHandler: interactive usage (numbered options, "back", "quit").
  - JSONHandler: JSON Lines for scripted or embedded usage.

# Usage

	r := runner.NewRunner(
		runner.WithStore(store),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	state, err := r.Run(ctx, sess)
*/
package runner
