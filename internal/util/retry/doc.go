// Package retry provides bounded retry with exponential or fixed backoff.
//
// [WithExponentialBackoff] is used for management-plane writes that may fail
// while authorization changes propagate, such as storing vault secrets.
// The clock is injectable so callers can test retry timing without sleeping.
package retry
