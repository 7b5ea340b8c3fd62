// Package fileutil provides the small filesystem helpers the launcher needs:
// recursive directory creation for the configuration and log directories, and
// best-effort existence checks used while locating the server entry point.
package fileutil
