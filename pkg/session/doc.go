/*
Package session implements session management and persistence orchestration.

A Manager serializes every read-modify-write on one session: locally with a
reference-counted mutex per session ID, and across replicas with an optional
ports.DistributedLocker. Concurrent submissions for the same user therefore
apply one after the other instead of overwriting each other.
*/
package session
