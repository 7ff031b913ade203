package edenred

import (
	"github.com/gomexpay/edenred/provider"
)

// Automatically register the provider when the package is imported
func init() {
	provider.Register("edenred", NewProvider)
}
