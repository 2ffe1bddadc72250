// Package authgate implements a minimal stateless authentication core:
// bcrypt credential hashing, JWT issuance and verification, and the gate
// logic that ties signup, login, and protected access together.
//
// Credential lifecycle:
//   - Signup hashes the plaintext through a cost-tunable bcrypt hasher and
//     hands the opaque hash to a UserStore. The store is the uniqueness
//     authority for emails; racing signups resolve to exactly one record.
//   - Login verifies the plaintext against the stored hash and mints an
//     HS256 JWT carrying the subject id and email. Lookup misses run a
//     dummy bcrypt comparison so response timing does not reveal whether
//     an account exists, and both failure paths surface the same
//     ErrInvalidCredentials.
//
// Tokens are self-contained: validity is re-derived from the signed claims
// plus the clock, no server-side session record exists, and the only way a
// token dies is expiry or secret rotation. The middleware/tokenware package
// composes TokenService.Validate into a Fiber handler chain for protected
// routes.
package authgate
