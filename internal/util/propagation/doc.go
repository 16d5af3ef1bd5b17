// Package propagation waits for eventually consistent cloud state to become
// observable.
//
// A [Waiter] repeatedly runs a cheap read-only check until it succeeds, backing
// off exponentially between attempts and giving up at a deadline. Expiry is not
// an error: the caller decides whether to proceed. All waiting goes through an
// injected [k8s.io/utils/clock.Clock].
package propagation
