// Package profile exposes the answers collected by a flow as a typed
// Profile, and derives personalized tips and pack recommendations from it.
package profile
