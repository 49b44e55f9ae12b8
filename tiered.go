package snapcache

import (
	"context"
	"fmt"
	"time"

	"github.com/unkn0wn-root/snapcache/codec"
	"github.com/unkn0wn-root/snapcache/internal/util"
	"github.com/unkn0wn-root/snapcache/internal/wire"
	"github.com/unkn0wn-root/snapcache/store"
)

const defaultTieredTTL = 10 * time.Minute

type tiered[K comparable, V any] struct {
	prefix         string
	st             store.Store
	codec          codec.Codec[V]
	l1             *Cache[K, V]
	ownsL1         bool
	keyfn          func(K) string
	log            Logger
	hooks          Hooks[K]
	enabled        bool
	defaultTTL     time.Duration
	computeSetCost SetCostFunc
}

var _ Tiered[string, int] = (*tiered[string, int])(nil)

func newTiered[K comparable, V any](opts TieredOptions[K, V]) (*tiered[K, V], error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("snapcache: store is required")
	}
	if opts.Codec == nil {
		return nil, fmt.Errorf("snapcache: codec is required")
	}
	if opts.Namespace == "" {
		return nil, fmt.Errorf("snapcache: namespace is required")
	}

	t := &tiered[K, V]{
		prefix:  "entry:" + opts.Namespace,
		st:      opts.Store,
		codec:   opts.Codec,
		enabled: !opts.Disabled,
	}

	// defaults
	t.log = coalesce[Logger](opts.Logger, NopLogger{})
	if opts.Hooks != nil {
		t.hooks = opts.Hooks
	} else {
		t.hooks = NopHooks[K]{}
	}
	t.defaultTTL = coalesce[time.Duration](opts.DefaultTTL, defaultTieredTTL)

	if opts.KeyFunc != nil {
		t.keyfn = opts.KeyFunc
	} else {
		t.keyfn = func(k K) string { return fmt.Sprint(k) }
	}
	if opts.ComputeSetCost != nil {
		t.computeSetCost = opts.ComputeSetCost
	} else {
		t.computeSetCost = func(string, []byte) int64 { return 1 }
	}

	if opts.L1 != nil {
		t.l1 = opts.L1
	} else {
		t.l1 = New(Options[K, V]{
			Strategy: TTL[K](t.defaultTTL),
			Logger:   t.log,
			Hooks:    t.hooks,
		})
		t.ownsL1 = true
	}
	return t, nil
}

func (t *tiered[K, V]) Enabled() bool { return t.enabled }

func (t *tiered[K, V]) Close(ctx context.Context) error {
	var cerr CloseError
	if t.ownsL1 {
		cerr.L1Err = t.l1.Close()
	}
	cerr.StoreErr = t.st.Close(ctx)
	if cerr.L1Err != nil || cerr.StoreErr != nil {
		return &cerr
	}
	return nil
}

func (t *tiered[K, V]) storageKey(key K) string {
	return util.EntryKey(t.prefix, t.keyfn(key))
}

func (t *tiered[K, V]) Get(ctx context.Context, key K) (V, bool, error) {
	var zero V
	if !t.enabled {
		return zero, false, nil
	}
	if v, ok := t.l1.Get(key); ok {
		return v, true, nil
	}
	return t.fromStore(ctx, key)
}

// fromStore reads, validates and promotes one entry from the second level.
// Invalid entries are deleted in place so the next reader goes straight to
// its source.
func (t *tiered[K, V]) fromStore(ctx context.Context, key K) (V, bool, error) {
	var zero V
	sk := t.storageKey(key)
	raw, ok, err := t.st.Get(ctx, sk)
	if err != nil || !ok {
		return zero, false, err
	}
	e, err := wire.Decode(raw)
	if err != nil {
		t.selfHeal(ctx, sk, "corrupt")
		return zero, false, nil
	}
	if e.Deadline != 0 && time.Now().UnixNano() >= e.Deadline {
		t.selfHeal(ctx, sk, "expired")
		return zero, false, nil
	}
	v, err := t.codec.Decode(e.Payload)
	if err != nil {
		t.selfHeal(ctx, sk, "decode")
		return zero, false, nil
	}
	t.l1.Insert(key, v) // promote with a fresh first-level tag
	return v, true, nil
}

func (t *tiered[K, V]) selfHeal(ctx context.Context, storageKey, reason string) {
	_ = t.st.Del(ctx, storageKey)
	t.hooks.SelfHeal(storageKey, reason)
	t.log.Debug("store entry dropped on read", Fields{"key": storageKey, "reason": reason})
}

func (t *tiered[K, V]) Set(ctx context.Context, key K, value V, ttl time.Duration) error {
	if !t.enabled {
		return nil
	}
	t.l1.Insert(key, value)
	return t.writeThrough(ctx, key, value, ttl)
}

// writeThrough frames value with its authoritative deadline and hands it to
// the store. ttl == 0 means DefaultTTL; ttl < 0 means no expiry.
func (t *tiered[K, V]) writeThrough(ctx context.Context, key K, value V, ttl time.Duration) error {
	if ttl == 0 {
		ttl = t.defaultTTL
	}
	payload, err := t.codec.Encode(value)
	if err != nil {
		return err
	}
	var deadline int64
	if ttl > 0 {
		deadline = time.Now().Add(ttl).UnixNano()
	}
	sk := t.storageKey(key)
	raw := wire.Encode(wire.Entry{Deadline: deadline, Payload: payload})
	ok, err := t.st.Set(ctx, sk, raw, t.computeSetCost(sk, raw), ttl)
	if err != nil {
		return err
	}
	if !ok {
		t.hooks.StoreSetRejected(sk)
		t.log.Debug("store rejected set (pressure)", Fields{"key": sk})
	}
	return nil
}

func (t *tiered[K, V]) GetOrLoad(ctx context.Context, key K, load func(context.Context) (V, error)) (V, error) {
	if !t.enabled {
		return load(ctx)
	}
	// the first level's shared flight dedupes concurrent loads per key
	return t.l1.GetOrInsertShared(ctx, key, func(ctx context.Context) (V, error) {
		if v, ok, err := t.fromStore(ctx, key); ok {
			return v, nil
		} else if err != nil {
			// a flaky store must not take the loader down with it
			t.log.Warn("store read failed; falling through to loader", Fields{"key": t.storageKey(key), "err": err})
		}
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		if werr := t.writeThrough(ctx, key, v, 0); werr != nil {
			// the loaded value is good; a failed write-through only costs reuse
			t.log.Warn("write-through failed after load", Fields{"key": t.storageKey(key), "err": werr})
		}
		return v, nil
	})
}

func (t *tiered[K, V]) Invalidate(ctx context.Context, key K) error {
	if !t.enabled {
		return nil
	}
	t.l1.Remove(key)
	sk := t.storageKey(key)
	if err := t.st.Del(ctx, sk); err != nil {
		return fmt.Errorf("snapcache: invalidate %q: %w", sk, err)
	}
	t.log.Debug("invalidated key (cleared both levels)", Fields{"key": sk})
	return nil
}

func (t *tiered[K, V]) Warm(ctx context.Context, items map[K]V, ttl time.Duration) error {
	if !t.enabled || len(items) == 0 {
		return nil
	}
	var errs []error
	for k, v := range items {
		t.l1.Insert(k, v)
		if err := t.writeThrough(ctx, k, v, ttl); err != nil {
			errs = append(errs, fmt.Errorf("warm %v: %w", t.storageKey(k), err))
		}
	}
	if len(errs) > 0 {
		return &WarmError{Failed: len(errs), Total: len(items), Errs: errs}
	}
	return nil
}
