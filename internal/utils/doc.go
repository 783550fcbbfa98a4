// Package utils provides small helpers shared by the CLI: branch name
// sanitization, terminal detection and opening URLs.
package utils
