package goToken

import (
	"errors"

	"github.com/credforge/goToken/jwt"
)

var (
	// ErrMalformedCredential is an exported constant or variable used by the token lifecycle manager.
	ErrMalformedCredential = jwt.ErrMalformedCredential
	// ErrBadSignature is an exported constant or variable used by the token lifecycle manager.
	ErrBadSignature = jwt.ErrBadSignature
	// ErrExpiredToken is an exported constant or variable used by the token lifecycle manager.
	ErrExpiredToken = jwt.ErrExpiredToken
	// ErrMalformedPayload is an exported constant or variable used by the token lifecycle manager.
	ErrMalformedPayload = jwt.ErrMalformedPayload
	// ErrEmptySecret is an exported constant or variable used by the token lifecycle manager.
	ErrEmptySecret = jwt.ErrEmptySecret
)

var (
	// ErrUnauthorized is an exported constant or variable used by the token lifecycle manager.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrWrongTokenType is an exported constant or variable used by the token lifecycle manager.
	ErrWrongTokenType = errors.New("wrong token type")
	// ErrCannotRecoverIdentity is an exported constant or variable used by the token lifecycle manager.
	ErrCannotRecoverIdentity = errors.New("cannot recover identity from expired credential")
	// ErrRotationRateLimited is an exported constant or variable used by the token lifecycle manager.
	ErrRotationRateLimited = errors.New("rotation rate limited")
	// ErrEmptySubject is an exported constant or variable used by the token lifecycle manager.
	ErrEmptySubject = errors.New("subject must not be empty")
	// ErrManagerClosed is an exported constant or variable used by the token lifecycle manager.
	ErrManagerClosed = errors.New("manager closed")
)
