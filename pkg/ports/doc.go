/*
Package ports defines the driven ports (interfaces) of the onboarding engine.

These interfaces decouple session handling from concrete backends, so the same
flows can run against process memory in tests and Redis in production.

# Key Interfaces

  - StateStore: persists and loads session AnswerState.
  - DistributedLocker: serializes access to one session across replicas.
*/
package ports
