// Package filesystem provides types.FS implementations: a direct OS
// passthrough for production and an afero-backed one used by the tests.
// It also hosts the atomic rewrite primitive every mutation goes
// through.
package filesystem
