// Package goToken provides a stateless authentication-token subsystem: signed
// session credentials (access, refresh, password-reset), verification with
// automatic refresh-driven rotation, and deterministic identity key derivation.
//
// The package is designed for concurrent server workloads: Manager methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. Token validity is fully determined by the credential itself
// (signature + embedded expiry); no server-side token state exists.
//
// # Architecture boundaries
//
// goToken is the public surface. It exposes [Manager], [Builder], [Config],
// and value types (TokenPair, VerifyResult, MetricsSnapshot). Signing and
// parsing live in the jwt subpackage, identity key derivation in identity,
// and internal coordination — audit dispatch, rotation throttling — under
// internal/ and is never exported.
//
// # What this package must NOT do
//
//   - Hold signing secrets: the shared secret is an explicit argument on
//     every issuance and verification call, never part of [Config] or the
//     Manager state.
//   - Persist or revoke credentials, set cookies, or speak HTTP.
//   - Store or verify passwords.
//
// # Performance contract
//
// VerifyAccess is the hot path. A valid access credential completes with two
// HMAC operations and no I/O; only the rotation branch may touch Redis, and
// only when the rotation throttle is enabled.
package goToken
