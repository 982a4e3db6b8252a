// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"go.uber.org/zap"
)

// Shutdown cleanly tears down the scheduler, the Discord session, and
// the MongoDB connection, in that order: no trigger may fire after its
// delivery path is gone.
func (a *App) Shutdown(ctx context.Context) error {
	a.Scheduler.Stop()

	if err := a.Bot.Stop(); err != nil {
		a.log.Error("discord session close failed", zap.Error(err))
	}

	if a.deps.MongoClient != nil {
		a.log.Info("disconnecting MongoDB client")
		if err := a.deps.MongoClient.Disconnect(ctx); err != nil {
			a.log.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
