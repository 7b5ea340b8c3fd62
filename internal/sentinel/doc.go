// Package sentinel declares a const-compatible error type.
//
// Errors created with errors.New live in package-level vars that any importer
// could reassign. Error is backed by a plain string, so sentinel values can be
// declared as consts and still compare correctly through errors.Is across
// wrapped chains.
package sentinel
