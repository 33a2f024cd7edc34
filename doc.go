// Package auth implements the session subsystem for the CampusLink
// applications: HS256 token issuance, an in-memory revocable session
// registry, and the policy layer that ties the two together.
//
// Lifecycle:
//   - SessionManager.Issue mints a signed token and registers its jti in the
//     SessionRegistry. The registry, not the signature alone, decides whether
//     a session is still live: a well-signed token whose jti is absent from
//     the registry is rejected as revoked.
//   - SessionManager.Verify decodes the token, cross-checks the registry, and
//     yields an AuthenticatedIdentity that the sessionware middleware attaches
//     to the request context.
//   - SessionManager.Revoke (logout) removes the jti; a periodic sweep evicts
//     sessions whose tokens expired without an explicit logout.
//
// The registry is a per-process map with no persistence. Restarting the
// server logs every user out, and running more than one instance behind a
// load balancer means a token issued on one instance is unknown to the
// others. Both are deliberate constraints of the in-memory design; deploy a
// single instance or add sticky sessions before scaling out.
//
// Credential storage (Users repository, bcrypt hashing) lives at the edge of
// the package: SessionManager only consults it through the IdentityProvider
// interface at login time.
package auth
