package clusters

import (
	"github.com/google/wire"

	"github.com/azhar-beg/backstage/internal/core"
)

// ProviderSet is the Wire provider set for the cluster catalogue.
var ProviderSet = wire.NewSet(
	New,
	wire.Bind(new(core.ClusterRepo), new(*Repo)),
)
