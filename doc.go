/*
Package onboarding is a conversational onboarding engine: a branchable
questionnaire where each step's text, options and next step may be computed
from the answers given so far.

A flow is an immutable graph of steps (see pkg/dsl and pkg/flows). The Engine
lints it once, then hands out Sessions that carry one user's answers, selected
modules and progress. Sessions are plain values: persist Session.State()
anywhere and rebuild the session later with Engine.Resume.

# Usage

	flow, err := flows.Wellness(catalog.Default())
	if err != nil {
		log.Fatal(err)
	}
	eng, err := onboarding.New(flow)
	if err != nil {
		log.Fatal(err)
	}

	sess, err := eng.Start(ctx, "", domain.LocaleUS)
	if err != nil {
		log.Fatal(err)
	}
	for !sess.IsComplete() {
		step, err := sess.CurrentResolvedStep()
		if err != nil {
			log.Fatal(err)
		}
		render(step)

		err = sess.Submit(ctx, readAnswer(step))
		if failure, ok := validation.AsFailure(err); ok {
			showInline(failure.Message)
			continue
		}
		if err != nil {
			log.Fatal(err)
		}
	}
*/
package onboarding
