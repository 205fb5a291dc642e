// Package providers aggregates the infrastructure-layer implementations
// of the core ports into a single Wire provider set.
package providers

import (
	"github.com/google/wire"

	"github.com/azhar-beg/backstage/internal/dashboard"
	"github.com/azhar-beg/backstage/internal/providers/clusters"
)

// ProviderSet is the Wire provider set for all external adapters.
var ProviderSet = wire.NewSet(
	clusters.ProviderSet,
	dashboard.ProviderSet,
)
