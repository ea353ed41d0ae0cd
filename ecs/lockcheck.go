package ecs

import "github.com/sasha-s/go-deadlock"

// Component lock diagnostics are off unless a host turns them on.
func init() {
	deadlock.Opts.Disable = true
}

// SetLockChecks switches lock-order and recursive-acquisition detection on
// the per-component locks. It must be called before any component is
// accessed concurrently.
func SetLockChecks(enabled bool) {
	deadlock.Opts.Disable = !enabled
}

// LockChecks reports whether component lock diagnostics are enabled.
func LockChecks() bool {
	return !deadlock.Opts.Disable
}
