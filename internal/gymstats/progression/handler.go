package progression

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/2beens/gymprogress/internal/middleware"
	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=progression_test

type progressionService interface {
	All(ctx context.Context, query Query) ([]MetricsWindow, error)
	First(ctx context.Context, query Query) (*MetricsWindow, error)
	Containing(ctx context.Context, query Query, at time.Time) (*MetricsWindow, error)
	Summary(ctx context.Context, query Query) (map[string]ExerciseSummary, error)
}

type sessionWriter interface {
	Add(ctx context.Context, session Session) error
}

const (
	ModeAll        = "all"
	ModeFirst      = "first"
	ModeContaining = "containing"
)

type WindowsResponse struct {
	From    time.Time       `json:"from"`
	To      time.Time       `json:"to"`
	Mode    string          `json:"mode"`
	Windows []MetricsWindow `json:"windows"`
}

type SummaryResponse struct {
	From      time.Time                  `json:"from"`
	To        time.Time                  `json:"to"`
	Exercises map[string]ExerciseSummary `json:"exercises"`
}

type AddSessionResponse struct {
	PerformedAt time.Time `json:"performed_at"`
	Exercises   int       `json:"exercises"`
}

type Handler struct {
	service        progressionService
	writer         sessionWriter
	cache          *freecache.Cache
	cacheTTL       time.Duration
	metricsManager *metrics.Manager
}

// NewHandler creates the progression HTTP handler. Responses of the read
// endpoints are cached for cacheTTL, every stored session clears the cache.
func NewHandler(
	service progressionService,
	writer sessionWriter,
	cacheSizeBytes int,
	cacheTTL time.Duration,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		service:        service,
		writer:         writer,
		cache:          freecache.NewCache(cacheSizeBytes),
		cacheTTL:       cacheTTL,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	r *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	gymRouter := r.PathPrefix("/gymstats").Subrouter()
	gymRouter.HandleFunc("/progression", handler.HandleWindows).Methods("GET", "OPTIONS").Name("progression-windows")
	gymRouter.HandleFunc("/progression/summary", handler.HandleSummary).Methods("GET", "OPTIONS").Name("progression-summary")
	gymRouter.HandleFunc("/sessions", handler.HandleAddSession).Methods("POST", "OPTIONS").Name("new-session")
	gymRouter.Use(middleware.RateLimit(rateLimiter, handler.metricsManager, "gymstats", allowedPerMin))
}

func (handler *Handler) HandleWindows(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.windows")
	defer span.End()

	query, err := parseQuery(r.URL.Query())
	if err != nil {
		pkg.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = ModeAll
	}
	span.SetAttributes(attribute.String("mode", mode))

	var at time.Time
	switch mode {
	case ModeAll, ModeFirst:
	case ModeContaining:
		at, err = pkg.ParseDate(r.URL.Query().Get("at"), false)
		if err != nil {
			pkg.WriteError(w, fmt.Sprintf("invalid at: %s", err), http.StatusBadRequest)
			return
		}
	default:
		pkg.WriteError(w, fmt.Sprintf("unknown mode: %s", mode), http.StatusBadRequest)
		return
	}

	cacheKey := cacheKeyFor(r.URL.Path, query, mode, at)
	if handler.writeCached(w, cacheKey) {
		span.SetAttributes(attribute.Bool("cached", true))
		return
	}

	windows := make([]MetricsWindow, 0)
	switch mode {
	case ModeAll:
		windows, err = handler.service.All(ctx, query)
	case ModeFirst:
		var first *MetricsWindow
		first, err = handler.service.First(ctx, query)
		if first != nil {
			windows = append(windows, *first)
		}
	case ModeContaining:
		var containing *MetricsWindow
		containing, err = handler.service.Containing(ctx, query, at)
		if containing != nil {
			windows = append(windows, *containing)
		}
	}
	if err != nil {
		span.RecordError(err)
		writeServiceError(w, err)
		return
	}
	if windows == nil {
		windows = make([]MetricsWindow, 0)
	}

	body := pkg.WriteJSON(w, WindowsResponse{
		From:    query.SessionStart,
		To:      query.SessionEnd,
		Mode:    mode,
		Windows: windows,
	}, http.StatusOK)
	handler.store(cacheKey, body)
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.summary")
	defer span.End()

	query, err := parseQuery(r.URL.Query())
	if err != nil {
		pkg.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	cacheKey := cacheKeyFor(r.URL.Path, query, "summary", time.Time{})
	if handler.writeCached(w, cacheKey) {
		span.SetAttributes(attribute.Bool("cached", true))
		return
	}

	summary, err := handler.service.Summary(ctx, query)
	if err != nil {
		span.RecordError(err)
		writeServiceError(w, err)
		return
	}

	body := pkg.WriteJSON(w, SummaryResponse{
		From:      query.SessionStart,
		To:        query.SessionEnd,
		Exercises: summary,
	}, http.StatusOK)
	handler.store(cacheKey, body)
}

func (handler *Handler) HandleAddSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progression.addsession")
	defer span.End()

	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		pkg.WriteError(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var session Session
	if err := json.NewDecoder(r.Body).Decode(&session); err != nil {
		log.Tracef("new session, unmarshal json: %s", err)
		pkg.WriteError(w, "invalid session json", http.StatusBadRequest)
		return
	}
	if err := session.Validate(); err != nil {
		pkg.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := handler.writer.Add(ctx, session); err != nil {
		span.RecordError(err)
		if pkg.IsCheckViolationError(err) {
			pkg.WriteError(w, "invalid session values", http.StatusBadRequest)
			return
		}
		log.Errorf("failed to add session [%s]: %s", session.PerformedAt, err)
		pkg.WriteError(w, "failed to add session", http.StatusInternalServerError)
		return
	}

	// stored windows may have changed
	handler.cache.Clear()
	if handler.metricsManager != nil {
		handler.metricsManager.CounterSessionsAdded.Inc()
	}

	log.Debugf("new session added: %s, exercises: %d", session.PerformedAt, len(session.Exercises))
	pkg.WriteJSON(w, AddSessionResponse{
		PerformedAt: session.PerformedAt,
		Exercises:   len(session.Exercises),
	}, http.StatusCreated)
}

func (handler *Handler) writeCached(w http.ResponseWriter, key string) bool {
	if handler.cacheTTL <= 0 {
		return false
	}
	cached, err := handler.cache.Get([]byte(key))
	if err != nil {
		return false
	}
	log.Tracef("progression cache hit: %s", key)
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, cached)
	return true
}

func (handler *Handler) store(key string, body []byte) {
	if handler.cacheTTL <= 0 || body == nil {
		return
	}
	if err := handler.cache.Set([]byte(key), body, int(handler.cacheTTL.Seconds())); err != nil {
		log.Warnf("progression cache set [%s]: %s", key, err)
	}
}

// parseQuery reads from, to and exercise params. The exercise param can be
// repeated or hold a comma separated list.
func parseQuery(values url.Values) (Query, error) {
	from, err := pkg.ParseDate(values.Get("from"), false)
	if err != nil {
		return Query{}, fmt.Errorf("invalid from: %w", err)
	}
	to, err := pkg.ParseDate(values.Get("to"), true)
	if err != nil {
		return Query{}, fmt.Errorf("invalid to: %w", err)
	}

	var names []string
	for _, value := range values["exercise"] {
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" && !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
	}

	query := Query{
		SessionStart:  from,
		SessionEnd:    to,
		ExerciseNames: names,
	}
	if err := query.Validate(); err != nil {
		return Query{}, err
	}
	return query, nil
}

func cacheKeyFor(path string, query Query, mode string, at time.Time) string {
	names := slices.Clone(query.ExerciseNames)
	slices.Sort(names)
	return strings.Join([]string{
		path,
		mode,
		query.SessionStart.UTC().Format(time.RFC3339Nano),
		query.SessionEnd.UTC().Format(time.RFC3339Nano),
		strings.Join(names, ","),
		at.UTC().Format(time.RFC3339Nano),
	}, "|")
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRange):
		pkg.WriteError(w, err.Error(), http.StatusBadRequest)
	case IsSourceError(err):
		log.Errorf("progression query: %s", err)
		pkg.WriteError(w, "session source unavailable", http.StatusServiceUnavailable)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Warnf("progression query aborted: %s", err)
		pkg.WriteError(w, "request aborted", http.StatusServiceUnavailable)
	default:
		log.Errorf("progression query: %s", err)
		pkg.WriteError(w, "internal error", http.StatusInternalServerError)
	}
}
