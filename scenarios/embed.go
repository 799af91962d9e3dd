// Package scenarios holds the sample scenarios shipped with the binary.
package scenarios

import "embed"

// FS contains every bundled scenario file.
//
//go:embed *.yaml
var FS embed.FS
