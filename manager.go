package goToken

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/credforge/goToken/internal/rate"
	"github.com/credforge/goToken/jwt"
	gjwt "github.com/golang-jwt/jwt/v5"
)

// Manager defines a public type used by goToken APIs.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Manager holds no signing secret and no per-token state: every issuance and
// verification call takes the shared secret as an explicit argument, and a
// credential's validity is decided entirely by its signature and embedded
// expiry.
type Manager struct {
	config  Config
	codec   *jwt.Codec
	audit   *auditDispatcher
	metrics *Metrics
	limiter *rate.Limiter

	closed atomic.Bool
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) Close() {
	if m == nil {
		return
	}
	m.closed.Store(true)
	if m.audit != nil {
		m.audit.Close()
	}
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) AuditDropped() uint64 {
	if m == nil || m.audit == nil {
		return 0
	}
	return m.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) MetricsSnapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}

func (m *Manager) metricInc(id MetricID) {
	m.metrics.Inc(id)
}

/*
====================================
ISSUANCE
====================================
*/

// IssueAccessToken describes the issueaccesstoken operation and its observable behavior.
//
// IssueAccessToken may return an error when input validation, dependency calls, or security checks fail.
// IssueAccessToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) IssueAccessToken(ctx context.Context, subject, email, secret string) (string, error) {
	credential, err := m.issue(ctx, TokenAccess, subject, email, secret, m.config.Token.AccessTTL)
	if err != nil {
		return "", err
	}
	m.metricInc(MetricIssueAccess)
	return credential, nil
}

// IssueRefreshToken describes the issuerefreshtoken operation and its observable behavior.
//
// IssueRefreshToken may return an error when input validation, dependency calls, or security checks fail.
// IssueRefreshToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Refresh credentials never carry an email: a leaked refresh token discloses
// no identity beyond its opaque subject.
func (m *Manager) IssueRefreshToken(ctx context.Context, subject, secret string) (string, error) {
	credential, err := m.issue(ctx, TokenRefresh, subject, "", secret, m.config.Token.RefreshTTL)
	if err != nil {
		return "", err
	}
	m.metricInc(MetricIssueRefresh)
	return credential, nil
}

// IssuePasswordResetToken describes the issuepasswordresettoken operation and its observable behavior.
//
// IssuePasswordResetToken may return an error when input validation, dependency calls, or security checks fail.
// IssuePasswordResetToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) IssuePasswordResetToken(ctx context.Context, subject, email, secret string) (string, error) {
	credential, err := m.issue(ctx, TokenPasswordReset, subject, email, secret, m.config.Token.ResetTTL)
	if err != nil {
		return "", err
	}
	m.metricInc(MetricIssueReset)
	return credential, nil
}

// IssuePair describes the issuepair operation and its observable behavior.
//
// IssuePair may return an error when input validation, dependency calls, or security checks fail.
// IssuePair does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) IssuePair(ctx context.Context, subject, email, secret string) (TokenPair, error) {
	access, err := m.IssueAccessToken(ctx, subject, email, secret)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := m.IssueRefreshToken(ctx, subject, secret)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (m *Manager) issue(ctx context.Context, tokenType TokenType, subject, email, secret string, ttl time.Duration) (string, error) {
	if m == nil || m.closed.Load() {
		return "", ErrManagerClosed
	}
	if subject == "" {
		return "", ErrEmptySubject
	}

	now := time.Now().UTC()
	claims := jwt.Claims{
		Email: strings.ToLower(email),
		RegisteredClaims: gjwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  gjwt.NewNumericDate(now),
			ExpiresAt: gjwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if tokenType != TokenAccess {
		claims.Type = string(tokenType)
	}

	credential, err := m.codec.Sign(claims, secret)
	if err != nil {
		m.emitAudit(ctx, auditEventTokenIssued, false, subject, tokenType, err, nil)
		return "", err
	}

	m.emitAudit(ctx, auditEventTokenIssued, true, subject, tokenType, nil, nil)

	return credential, nil
}

/*
====================================
VERIFICATION & ROTATION
====================================
*/

// VerifyAccess describes the verifyaccess operation and its observable behavior.
//
// VerifyAccess may return an error when input validation, dependency calls, or security checks fail.
// VerifyAccess does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// When the access credential verifies, the result carries its claims and no
// new token is issued. When it fails and refreshCredential is non-empty, the
// refresh path recovers the session: the unverified access payload supplies
// only an email hint, the verified refresh credential supplies the subject,
// and a fresh access credential is minted. A failed call has no caller-visible
// side effects beyond audit and metrics.
func (m *Manager) VerifyAccess(ctx context.Context, accessCredential, refreshCredential, secret string) (*VerifyResult, error) {
	if m == nil || m.closed.Load() {
		return nil, ErrManagerClosed
	}

	start := time.Now()
	defer func() {
		m.metrics.Observe(MetricVerifyLatency, time.Since(start))
	}()

	claims, verifyErr := m.codec.Verify(accessCredential, secret)
	if verifyErr == nil {
		if claims.Type != "" {
			m.metricInc(MetricWrongTokenType)
			m.metricInc(MetricVerifyFailure)
			m.emitAudit(ctx, auditEventVerifyFailure, false, claims.Subject, TokenType(claims.Type), ErrWrongTokenType, nil)
			return nil, ErrWrongTokenType
		}

		m.metricInc(MetricVerifySuccess)
		m.emitAudit(ctx, auditEventVerifySuccess, true, claims.Subject, TokenAccess, nil, nil)

		return &VerifyResult{
			Subject: claims.Subject,
			Email:   claims.Email,
		}, nil
	}

	if refreshCredential == "" {
		m.metricInc(MetricVerifyFailure)
		m.emitAudit(ctx, auditEventVerifyFailure, false, "", TokenAccess, verifyErr, nil)
		return nil, verifyErr
	}

	return m.rotate(ctx, accessCredential, refreshCredential, secret)
}

func (m *Manager) rotate(ctx context.Context, accessCredential, refreshCredential, secret string) (*VerifyResult, error) {
	// The expired or forged access payload is decoded without verification.
	// Nothing in it is trusted beyond the email routing hint.
	hint := m.codec.DecodeUnverified(accessCredential)
	if hint == nil || hint.Email == "" {
		m.metricInc(MetricRotationFailure)
		m.emitAudit(ctx, auditEventRotationFailure, false, "", TokenAccess, ErrCannotRecoverIdentity, nil)
		return nil, ErrCannotRecoverIdentity
	}

	if err := m.limiter.CheckRotation(ctx, refreshCredential); err != nil {
		if errors.Is(err, rate.ErrRateLimited) {
			m.metricInc(MetricRotationRateLimited)
			m.emitAudit(ctx, auditEventRotationRateLimited, false, "", TokenRefresh, ErrRotationRateLimited, nil)
			return nil, ErrRotationRateLimited
		}
		m.metricInc(MetricRotationFailure)
		m.emitAudit(ctx, auditEventRotationFailure, false, "", TokenRefresh, err, nil)
		return nil, err
	}

	refreshClaims, err := m.codec.Verify(refreshCredential, secret)
	if err != nil {
		m.recordRotationAttempt(ctx, refreshCredential)
		m.metricInc(MetricRotationFailure)
		m.emitAudit(ctx, auditEventRotationFailure, false, "", TokenRefresh, err, nil)
		return nil, err
	}

	if refreshClaims.Type != jwt.TypeRefresh {
		m.recordRotationAttempt(ctx, refreshCredential)
		m.metricInc(MetricWrongTokenType)
		m.metricInc(MetricRotationFailure)
		m.emitAudit(ctx, auditEventRotationFailure, false, refreshClaims.Subject, TokenType(refreshClaims.Type), ErrWrongTokenType, nil)
		return nil, ErrWrongTokenType
	}

	// Subject comes from the VERIFIED refresh claims, never from the
	// unverified access payload. A forged access token cannot inject a
	// privilege-bearing subject into the rotated credential.
	subject := refreshClaims.Subject
	if subject == "" {
		m.metricInc(MetricRotationFailure)
		m.emitAudit(ctx, auditEventRotationFailure, false, "", TokenRefresh, ErrCannotRecoverIdentity, nil)
		return nil, ErrCannotRecoverIdentity
	}

	rotated, err := m.IssueAccessToken(ctx, subject, hint.Email, secret)
	if err != nil {
		m.metricInc(MetricRotationFailure)
		m.emitAudit(ctx, auditEventRotationFailure, false, subject, TokenAccess, err, nil)
		return nil, err
	}

	if resetErr := m.limiter.Reset(ctx, refreshCredential); resetErr != nil {
		m.emitAudit(ctx, auditEventRotationFailure, false, subject, TokenRefresh, resetErr, func() map[string]string {
			return map[string]string{"stage": "throttle_reset"}
		})
	}

	m.metricInc(MetricRotationSuccess)
	m.emitAudit(ctx, auditEventAccessRotated, true, subject, TokenAccess, nil, nil)

	return &VerifyResult{
		Subject:            subject,
		Email:              strings.ToLower(hint.Email),
		Rotated:            true,
		RotatedAccessToken: rotated,
	}, nil
}

func (m *Manager) recordRotationAttempt(ctx context.Context, refreshCredential string) {
	if err := m.limiter.RecordAttempt(ctx, refreshCredential); err != nil && errors.Is(err, rate.ErrRateLimited) {
		m.metricInc(MetricRotationRateLimited)
	}
}

// IsExpired describes the isexpired operation and its observable behavior.
//
// IsExpired may return an error when input validation, dependency calls, or security checks fail.
// IsExpired does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// A missing exp claim means the credential never expires.
func (m *Manager) IsExpired(claims Claims) bool {
	return claims.Expired(time.Now().UTC())
}
