package internal

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/gymprogress/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	healthOK       = "ok"
	healthDisabled = "disabled"
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type HealthResponse struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
	Version  string `json:"version,omitempty"`
}

type HealthHandler struct {
	db          dbPinger
	redis       redisPinger
	versionInfo string
	timeout     time.Duration
}

// NewHealthHandler creates the health handler. A nil db means the service
// runs with the in-memory session store.
func NewHealthHandler(db dbPinger, redis redisPinger, versionInfo string) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redis:       redis,
		versionInfo: versionInfo,
		timeout:     2 * time.Second,
	}
}

func (handler *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), handler.timeout)
	defer cancel()

	resp := HealthResponse{
		Status:   healthOK,
		Postgres: healthDisabled,
		Redis:    healthOK,
		Version:  handler.versionInfo,
	}

	if handler.db != nil {
		resp.Postgres = healthOK
		if err := handler.db.Ping(ctx); err != nil {
			log.Warnf("health: postgres ping: %s", err)
			resp.Postgres = err.Error()
			resp.Status = "degraded"
		}
	}

	if err := handler.redis.Ping(ctx).Err(); err != nil {
		log.Warnf("health: redis ping: %s", err)
		resp.Redis = err.Error()
		resp.Status = "degraded"
	}

	statusCode := http.StatusOK
	if resp.Status != healthOK {
		statusCode = http.StatusServiceUnavailable
	}
	pkg.WriteJSON(w, resp, statusCode)
}

func (handler *HealthHandler) HandleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, handler.versionInfo)
}
