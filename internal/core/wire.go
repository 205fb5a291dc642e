package core

import (
	"github.com/google/wire"
)

// ProviderSet is the Wire provider set for the domain use-cases and
// their in-memory stores.
var ProviderSet = wire.NewSet(
	NewObjectViewUseCase,
	NewViewCache,
	NewDrawerSessionStore,
)
