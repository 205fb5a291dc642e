// Package cmd defines the Cobra subcommands (server, render) and their
// Wire provider sets. It bridges configuration, dependency injection,
// and the transport/application layers.
package cmd

import (
	"github.com/google/wire"

	"github.com/azhar-beg/backstage/internal/cmd/server"
)

// ProviderSet is the Wire provider set for the CLI layer. It exposes
// the Server constructor plus its handler and background listeners.
var ProviderSet = wire.NewSet(
	server.NewServer,
	server.NewHandler,
	server.ProvideBackgroundListeners,
)
