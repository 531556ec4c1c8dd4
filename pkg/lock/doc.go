// Package lock arbitrates access to the externally held package
// database lock. The lock is only ever observed and waited on, never
// owned: the arbiter polls until the holder releases it, and on
// timeout escalates to a user-mediated forced release. No holder is
// ever terminated without explicit consent.
package lock
