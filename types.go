package goToken

import (
	"io"

	internalaudit "github.com/credforge/goToken/internal/audit"
	"github.com/credforge/goToken/jwt"
)

// TokenType identifies the kind discriminator carried in a credential's
// payload. Access credentials carry no discriminator.
type TokenType string

const (
	// TokenAccess is an exported constant or variable used by the token lifecycle manager.
	TokenAccess TokenType = "access"
	// TokenRefresh is an exported constant or variable used by the token lifecycle manager.
	TokenRefresh TokenType = TokenType(jwt.TypeRefresh)
	// TokenPasswordReset is an exported constant or variable used by the token lifecycle manager.
	TokenPasswordReset TokenType = TokenType(jwt.TypePasswordReset)
)

// TokenPair holds an access and refresh credential issued together. The two
// strings are correlated only by their shared subject; neither references
// the other.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// VerifyResult is returned by [Manager.VerifyAccess]. When Rotated is true,
// the presented access credential failed verification but a valid refresh
// credential recovered the session, and RotatedAccessToken carries the
// replacement the caller must hand back to the client.
type VerifyResult struct {
	Subject string
	Email   string

	Rotated            bool
	RotatedAccessToken string
}

// Claims is the verified payload of a credential.
type Claims = jwt.Claims

// UnverifiedClaims carries payload hints decoded without signature
// verification. It is a distinct type from [Claims] so unverified data cannot
// flow where verified claims are expected.
type UnverifiedClaims = jwt.UnverifiedClaims

// AuditEvent is a structured audit record emitted by the manager.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the manager's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer], one object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
