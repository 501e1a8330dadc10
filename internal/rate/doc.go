// Package rate provides the Redis-backed rotation throttle guarding the
// refresh path against brute-force rotation attempts.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. Keys are
// derived from the SHA-256 of the presented refresh credential (prefix "gt:rot:"),
// so raw credentials never appear in Redis.
//
// # What this package must NOT do
//
//   - Store credentials or participate in credential validity — a token's
//     validity remains fully determined by signature and embedded expiry.
//   - Be imported outside the goToken module.
package rate
