// Package static holds the assets served by the service itself.
package static

import _ "embed"

// IndexHTML is the home page served at the service root.
//
//go:embed index.html
var IndexHTML []byte
