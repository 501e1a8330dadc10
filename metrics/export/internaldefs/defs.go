package internaldefs

import (
	goToken "github.com/credforge/goToken"
)

// CounterDef defines a public type used by goToken APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goToken.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goToken APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goToken.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the token lifecycle manager.
var CounterDefs = []CounterDef{
	{ID: goToken.MetricIssueAccess, Name: "gotoken_issue_access_total", Help: "Issued access tokens."},
	{ID: goToken.MetricIssueRefresh, Name: "gotoken_issue_refresh_total", Help: "Issued refresh tokens."},
	{ID: goToken.MetricIssueReset, Name: "gotoken_issue_reset_total", Help: "Issued password-reset tokens."},
	{ID: goToken.MetricVerifySuccess, Name: "gotoken_verify_success_total", Help: "Successful access verifications."},
	{ID: goToken.MetricVerifyFailure, Name: "gotoken_verify_failure_total", Help: "Failed access verifications."},
	{ID: goToken.MetricRotationSuccess, Name: "gotoken_rotation_success_total", Help: "Successful refresh-driven rotations."},
	{ID: goToken.MetricRotationFailure, Name: "gotoken_rotation_failure_total", Help: "Failed refresh-driven rotations."},
	{ID: goToken.MetricRotationRateLimited, Name: "gotoken_rotation_rate_limited_total", Help: "Rate-limited rotation attempts."},
	{ID: goToken.MetricWrongTokenType, Name: "gotoken_wrong_token_type_total", Help: "Credentials presented in a slot their type discriminator forbids."},
}

// HistogramDefs is an exported constant or variable used by the token lifecycle manager.
var HistogramDefs = []HistogramDef{
	{ID: goToken.MetricVerifyLatency, Name: "gotoken_verify_latency_seconds", Help: "VerifyAccess latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the token lifecycle manager.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the token lifecycle manager.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
