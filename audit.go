package goToken

import (
	"context"
	"errors"
	"time"

	internalaudit "github.com/credforge/goToken/internal/audit"
	"github.com/google/uuid"
)

type auditDispatcher = internalaudit.Dispatcher

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	return internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, sink)
}

const (
	auditEventTokenIssued         = "token_issued"
	auditEventVerifySuccess       = "verify_success"
	auditEventVerifyFailure       = "verify_failure"
	auditEventAccessRotated       = "access_rotated"
	auditEventRotationFailure     = "rotation_failure"
	auditEventRotationRateLimited = "rotation_rate_limited"
)

// AuditErrorCode defines a public type used by goToken APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrMalformedCredential   AuditErrorCode = "malformed_credential"
	auditErrBadSignature          AuditErrorCode = "bad_signature"
	auditErrExpiredToken          AuditErrorCode = "expired_token"
	auditErrMalformedPayload      AuditErrorCode = "malformed_payload"
	auditErrWrongTokenType        AuditErrorCode = "wrong_token_type"
	auditErrCannotRecoverIdentity AuditErrorCode = "cannot_recover_identity"
	auditErrRateLimited           AuditErrorCode = "rate_limited"
	auditErrEmptySecret           AuditErrorCode = "empty_secret"
	auditErrUnauthorized          AuditErrorCode = "unauthorized"
	auditErrInternal              AuditErrorCode = "internal_error"
)

func (m *Manager) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	subject string,
	tokenType TokenType,
	err error,
	metadataBuilder func() map[string]string,
) {
	if m == nil || m.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Subject:   subject,
		TokenType: string(tokenType),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	m.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrMalformedCredential):
		return auditErrMalformedCredential
	case errors.Is(err, ErrBadSignature):
		return auditErrBadSignature
	case errors.Is(err, ErrExpiredToken):
		return auditErrExpiredToken
	case errors.Is(err, ErrMalformedPayload):
		return auditErrMalformedPayload
	case errors.Is(err, ErrWrongTokenType):
		return auditErrWrongTokenType
	case errors.Is(err, ErrCannotRecoverIdentity):
		return auditErrCannotRecoverIdentity
	case errors.Is(err, ErrRotationRateLimited):
		return auditErrRateLimited
	case errors.Is(err, ErrEmptySecret):
		return auditErrEmptySecret
	case errors.Is(err, ErrUnauthorized):
		return auditErrUnauthorized
	default:
		return auditErrInternal
	}
}
