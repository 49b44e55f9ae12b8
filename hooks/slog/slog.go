// Package sloghook emits snapcache hook events through log/slog.
//
// Keys are redacted before logging (SHA-256 prefix by default) so cache
// keys that embed user identifiers never reach the log stream verbatim.
// High-frequency events can be sampled to avoid floods.
package sloghook

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/snapcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	StaleEvictedEvery uint64
	FlightSharedEvery uint64
	SelfHealEvery     uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks[K comparable] struct {
	l    *slog.Logger
	opts Options

	staleCtr  atomic.Uint64
	flightCtr atomic.Uint64
	healCtr   atomic.Uint64
}

var _ snapcache.Hooks[string] = (*Hooks[string])(nil)

func New[K comparable](l *slog.Logger, opts Options) *Hooks[K] {
	return &Hooks[K]{l: l, opts: opts}
}

func (h *Hooks[K]) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func (h *Hooks[K]) redactKey(k K) string { return h.redact(fmt.Sprint(k)) }

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks[K]) StaleEvicted(key K) {
	if h.l == nil || !sample(h.opts.StaleEvictedEvery, &h.staleCtr) {
		return
	}
	h.l.Debug("snapcache.stale_evicted",
		"key", h.redactKey(key))
}

func (h *Hooks[K]) ProducerError(key K, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("snapcache.producer_error",
		"key", h.redactKey(key),
		"err", err)
}

func (h *Hooks[K]) ProducerRace(key K) {
	if h.l == nil {
		return
	}
	h.l.Debug("snapcache.producer_race",
		"key", h.redactKey(key))
}

func (h *Hooks[K]) FlightShared(key K) {
	if h.l == nil || !sample(h.opts.FlightSharedEvery, &h.flightCtr) {
		return
	}
	h.l.Debug("snapcache.flight_shared",
		"key", h.redactKey(key))
}

func (h *Hooks[K]) StoreSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("snapcache.store_set_rejected",
		"key", h.redact(storageKey))
}

func (h *Hooks[K]) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.healCtr) {
		return
	}
	h.l.Debug("snapcache.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}
