// Package mongodb implements the MongoDB-backed storage adapters for
// users, federated accounts, verification tokens, sessions and work notes.
//
// Session tokens never reach the database in plaintext: rows are indexed
// by a keyed digest of the token and carry the token itself only sealed by
// the secrets codec. EnsureIndexes bootstraps every index the adapters
// rely on, including the TTL sweeps for verification tokens and sessions.
package mongodb
