package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vuongmanhnghia/playlist-bot/pkg/logger"
)

// Playlist storage metrics
var (
	PlaylistOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playlist_bot_playlist_operations_total",
			Help: "Total number of playlist load, save and delete operations",
		},
		[]string{"operation", "result"},
	)

	PlaylistListCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playlist_bot_list_cache_total",
			Help: "Playlist listing cache lookups",
		},
		[]string{"result"}, // "hit", "miss"
	)

	PlaylistListCacheStats = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "playlist_bot_list_cache_stats",
			Help: "Playlist listing cache counters and current size",
		},
		[]string{"stat"}, // "hits", "misses", "evictions", "size"
	)
)

// Navigation metrics
var (
	NavigationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playlist_bot_navigation_total",
			Help: "Queue navigation steps",
		},
		[]string{"direction", "trigger"}, // trigger: "manual", "auto"
	)

	QueueEndedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "playlist_bot_queue_ended_total",
			Help: "Automatic advances that stopped at the end of the queue",
		},
	)

	ActiveGuilds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "playlist_bot_active_guilds",
			Help: "Number of guilds with a playlist manager",
		},
	)
)

// Discord metrics
var (
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "playlist_bot_commands_total",
			Help: "Slash commands handled",
		},
		[]string{"command", "status"},
	)

	CommandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "playlist_bot_command_duration_seconds",
			Help:    "Slash command handling duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
)

// Result returns the label value for an operation outcome
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// Serve exposes /metrics on addr until ctx is done
func Serve(ctx context.Context, addr string, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", addr).Info("Serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("Metrics server stopped")
	}
}
