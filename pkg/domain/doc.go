/*
Package domain contains the core models of the onboarding flow engine.

It defines the step graph (Flow, Step, Option, Edge), the response union (Value),
the literal-or-computed content wrapper (Content), and the single mutable aggregate
threaded through a traversal (AnswerState). This package is kept pure and free of
I/O, following Hexagonal Architecture principles.

# Key Entities

  - Flow: an immutable, ordered set of steps with an initial step and declared modules.
  - Step: one unit of interaction (info, question, summary, confirmation).
  - Content: a value that is either literal or computed from the accumulated answers.
  - Edge: the outgoing link of a step, literal or routed (optionally with side-effects).
  - AnswerState: answers, selected modules and traversal progress of one session.
  - ResolvedStep: render-ready output where every computed attribute was evaluated.
*/
package domain
