package server

import (
	"context"
	"time"

	"github.com/azhar-beg/backstage/internal/config"
	"github.com/azhar-beg/backstage/internal/core"
	"github.com/azhar-beg/backstage/internal/transport"
)

// defaultSweepInterval is used when the configured interval is not
// positive.
const defaultSweepInterval = time.Minute

// BackgroundListeners are the non-HTTP listeners that share the
// server's managed lifecycle.
type BackgroundListeners []transport.Listener

// ProvideBackgroundListeners constructs the drawer session sweeper.
func ProvideBackgroundListeners(sessions *core.DrawerSessionStore, conf *config.Config) BackgroundListeners {
	interval := conf.ServerSweepInterval()
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return BackgroundListeners{
		transport.Background("drawer-session-sweeper", func(ctx context.Context) {
			sessions.StartEvictionLoop(ctx, interval)
		}),
	}
}
