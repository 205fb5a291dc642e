package dashboard

import (
	"github.com/google/wire"

	"github.com/azhar-beg/backstage/internal/core"
)

// ProviderSet is the Wire provider set for dashboard link formatting.
var ProviderSet = wire.NewSet(
	NewRegistry,
	wire.Bind(new(core.LinkFormatter), new(*Registry)),
)
