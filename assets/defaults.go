// Package assets embeds the files shipped inside the aish binary.
package assets

import _ "embed"

// DefaultConfigYAML holds ~/.aish/config.yaml as written by `aish config reset`.
// The loader layers stored values over it, so every key must be present.
//
//go:embed defaults/config.yaml
var DefaultConfigYAML []byte
