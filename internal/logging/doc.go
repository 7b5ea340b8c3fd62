// Package logging builds the shell's structured logger.
package logging
