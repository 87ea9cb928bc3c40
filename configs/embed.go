// Package configs provides the embedded configuration template for lawsage.
//
// The template is embedded at build time with go:embed so it ships in
// every distribution. `lawsage config init` writes it out as a starting
// point; internal/config applies the same defaults when no file exists.
package configs

import _ "embed"

// ConfigTemplate is the annotated example configuration written by
// `lawsage config init`.
//
//go:embed config.example.yaml
var ConfigTemplate string
