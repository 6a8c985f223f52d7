package lattice

import _ "embed"

// Version is the engine version, embedded from the VERSION file at the
// repository root. It may carry a trailing newline; trim before display.
//
//go:embed VERSION
var Version string
