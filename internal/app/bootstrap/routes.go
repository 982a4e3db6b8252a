// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/wonyeong0810/studyBot/internal/app/features/health"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for the ops surface.
//
// The bot itself speaks the Discord gateway, not HTTP; the only routes
// here are for load balancers and orchestrators.
func BuildHandler(app *App, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	healthHandler := healthfeature.NewHandler(app.deps.MongoClient, app.Backend, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	return r
}
