package app

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/metinatakli/showtime-booking/api"
)

var openAPIDocument = sync.OnceValues(api.GetSwagger)

const healthCheckTimeout = 2 * time.Second

func (app *Application) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		Status:      app.dependencyStatus(r.Context()),
		Version:     version,
		Environment: app.config.Env,
	}

	err := app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetOpenAPIDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := openAPIDocument()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, doc, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// dependencyStatus pings the configured stores. In-memory mode has nothing
// to ping and is always UP.
func (app *Application) dependencyStatus(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	if app.db != nil {
		if err := app.db.Ping(ctx); err != nil {
			app.logger.WarnContext(ctx, "database ping failed", "error", err)
			return "DEGRADED"
		}
	}

	if app.redis != nil {
		if err := app.redis.Ping(ctx).Err(); err != nil {
			app.logger.WarnContext(ctx, "redis ping failed", "error", err)
			return "DEGRADED"
		}
	}

	return "UP"
}
