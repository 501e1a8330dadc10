package jwt

import "errors"

var (
	// ErrMalformedCredential reports a credential that is not three dot-joined
	// base64url segments or whose segments cannot be decoded.
	ErrMalformedCredential = errors.New("malformed credential")
	// ErrBadSignature reports a signature mismatch for the supplied secret.
	ErrBadSignature = errors.New("bad signature")
	// ErrExpiredToken reports a structurally valid, correctly signed credential
	// whose exp claim has passed.
	ErrExpiredToken = errors.New("expired token")
	// ErrMalformedPayload reports a payload segment that decoded but did not
	// parse into claims.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrEmptySecret reports a sign or verify call with no key material.
	ErrEmptySecret = errors.New("empty secret")
)
