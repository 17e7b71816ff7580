// Package buildinfo contains build information.
package buildinfo

// Version identifies the version of esc.
const Version = "0.1.0"

// ProgramName is the name esc identifies itself with on the terminal.
const ProgramName = "esc " + Version
