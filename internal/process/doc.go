// Package process manages the lifecycle of the launcher's child process.
//
// BaseProcess owns the started command, the single cmd.Wait goroutine, and
// the stdout/stderr capture files. Stop performs a graceful shutdown with a
// hard escalation (SIGTERM then SIGKILL on Unix, TerminateProcess on
// Windows), always bounded in time. StopCloseAndNil is the one-call cleanup
// used at application shutdown.
package process
