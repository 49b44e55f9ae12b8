// Package promhook counts snapcache hook events as Prometheus metrics.
//
// Metrics are registered once on the default registerer and shared by all
// instances; each instance contributes under its own "cache" label. Counters
// only - the hot paths stay allocation-free.
package promhook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/unkn0wn-root/snapcache"
)

var staleEvicted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "snapcache_stale_evictions_total",
	Help: "Stale entries cleared on read or by the background sweeper",
}, []string{"cache"})

var producerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "snapcache_producer_errors_total",
	Help: "Producer callbacks that returned an error; the cache was left untouched",
}, []string{"cache"})

var producerRaces = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "snapcache_producer_races_total",
	Help: "Produced values published over a concurrently inserted fresh value",
}, []string{"cache"})

var flightsShared = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "snapcache_flights_shared_total",
	Help: "Callers that attached to another caller's in-flight production",
}, []string{"cache"})

var storeSetRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "snapcache_store_set_rejected_total",
	Help: "Backing store writes rejected by admission policy",
}, []string{"cache"})

var selfHeals = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "snapcache_self_heals_total",
	Help: "Backing store entries deleted after failing validation on read",
}, []string{"cache", "reason"})

type Hooks[K comparable] struct {
	name string

	stale    prometheus.Counter
	prodErr  prometheus.Counter
	prodRace prometheus.Counter
	shared   prometheus.Counter
	rejected prometheus.Counter
}

var _ snapcache.Hooks[string] = (*Hooks[string])(nil)

// New binds the shared counters to one cache label. Pass the same name the
// cache is known by in dashboards, typically its namespace.
func New[K comparable](cacheName string) *Hooks[K] {
	return &Hooks[K]{
		name:     cacheName,
		stale:    staleEvicted.WithLabelValues(cacheName),
		prodErr:  producerErrors.WithLabelValues(cacheName),
		prodRace: producerRaces.WithLabelValues(cacheName),
		shared:   flightsShared.WithLabelValues(cacheName),
		rejected: storeSetRejected.WithLabelValues(cacheName),
	}
}

func (h *Hooks[K]) StaleEvicted(K)          { h.stale.Inc() }
func (h *Hooks[K]) ProducerError(K, error)  { h.prodErr.Inc() }
func (h *Hooks[K]) ProducerRace(K)          { h.prodRace.Inc() }
func (h *Hooks[K]) FlightShared(K)          { h.shared.Inc() }
func (h *Hooks[K]) StoreSetRejected(string) { h.rejected.Inc() }

func (h *Hooks[K]) SelfHeal(_, reason string) {
	selfHeals.WithLabelValues(h.name, reason).Inc()
}
