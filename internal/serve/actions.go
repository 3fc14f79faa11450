package serve

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/chartbuddy/internal/common"
	"github.com/dtnitsch/chartbuddy/pkg/background"
)

// ServeAction runs the background handler over HTTP until interrupted.
func ServeAction(c *cli.Context) error {
	rt, err := common.Open(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	h, err := rt.Handler()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := rt.Config.Server.Addr
	rt.Logger.Info("background listening", "addr", addr, "model", rt.Config.AI.Model, "ai", rt.Config.AI.BaseURL)
	if err := background.Serve(ctx, addr, h); err != nil {
		return fmt.Errorf("failed to run background: %w", err)
	}
	rt.Logger.Info("background stopped")
	return nil
}
