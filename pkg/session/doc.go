// Package session manages bearer-token sessions with a 30-day sliding
// lifetime. The Store contract keeps plaintext tokens out of storage:
// implementations encrypt the token at rest and index rows by a
// deterministic keyed digest of it. The HTTP middleware re-attaches the
// authenticated principal (user id, email) to every request's context.
package session
