//go:build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/spf13/cobra"

	"github.com/azhar-beg/backstage/internal/cmd"
	"github.com/azhar-beg/backstage/internal/cmd/server"
	"github.com/azhar-beg/backstage/internal/config"
	"github.com/azhar-beg/backstage/internal/core"
	"github.com/azhar-beg/backstage/internal/handler"
	"github.com/azhar-beg/backstage/internal/providers"
)

func wireCmd() (*cobra.Command, func(), error) {
	panic(wire.Build(
		newCmd,
		provideConfig,
	))
}

func wireServer(core.Version, *config.Config) (*server.Server, func(), error) {
	panic(wire.Build(
		cmd.ProviderSet,
		handler.ProviderSet,
		core.ProviderSet,
		providers.ProviderSet,
		config.ProviderSet,
	))
}

func wireRender(*config.Config) (*core.ObjectViewUseCase, func(), error) {
	panic(wire.Build(
		core.ProviderSet,
		providers.ProviderSet,
		config.ProviderSet,
	))
}
