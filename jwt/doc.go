// Package jwt implements the credential codec: signing a claims payload into a
// compact three-segment token and verifying a token's signature and structure.
//
// # Wire format
//
// Standard compact JWS: base64url(header).base64url(payload).base64url(signature)
// with header {"alg":"HS256","typ":"JWT"}. The payload is the JSON-serialized
// [Claims]. Signature verification is delegated to golang-jwt, whose HS256
// implementation compares MACs with crypto/hmac.Equal (constant time).
//
// # Architecture boundaries
//
// This package owns encoding, signing, and structural validation. Token
// lifetimes, claim shapes per token kind, and the rotation protocol are
// handled by the root goToken package.
//
// # What this package must NOT do
//
//   - Hold or default the signing secret — it is a per-call parameter.
//   - Accept [UnverifiedClaims] where verified [Claims] are expected.
//   - Import goToken or any sibling package.
package jwt
