/*
Package observability turns engine lifecycle events into logs and metrics.

Every helper returns a domain.LifecycleHooks value; combine them with
MergeHooks and pass the result to the engine.
*/
package observability
