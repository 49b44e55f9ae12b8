package snapcache_test

import (
	"context"
	"fmt"
	"time"

	"github.com/unkn0wn-root/snapcache"
	"github.com/unkn0wn-root/snapcache/codec"
	"github.com/unkn0wn-root/snapcache/ordset"
	"github.com/unkn0wn-root/snapcache/store/lru"
)

type profile struct {
	Name string `json:"name"`
}

func Example() {
	cache := snapcache.New(snapcache.Options[string, int]{
		Strategy: snapcache.Null[string](),
	})
	defer cache.Close()

	cache.Insert("visits", 41)
	if v, ok := cache.Get("visits"); ok {
		fmt.Println("visits:", v)
	}

	cache.Insert("visits", 42)
	v, _ := cache.Get("visits")
	fmt.Println("updated:", v)
	// Output:
	// visits: 41
	// updated: 42
}

func ExampleCache_Update() {
	counters := snapcache.New(snapcache.Options[string, int]{
		Strategy: snapcache.Null[string](),
	})
	defer counters.Close()

	bump := func(prev int, _ bool) (int, bool) { return prev + 1, true }
	for i := 0; i < 3; i++ {
		counters.Update("requests", bump)
	}

	ch := counters.Update("requests", bump)
	fmt.Println(ch.Before, "->", ch.After)
	// Output:
	// 3 -> 4
}

func ExampleCache_GetOrInsertShared() {
	cache := snapcache.New(snapcache.Options[string, string]{
		Strategy: snapcache.TTL[string](time.Minute),
	})
	defer cache.Close()

	produced := 0
	fetch := func(context.Context) (string, error) {
		produced++
		return "fetched-from-origin", nil
	}

	ctx := context.Background()
	v1, _ := cache.GetOrInsertShared(ctx, "profile:1", fetch)
	v2, _ := cache.GetOrInsertShared(ctx, "profile:1", fetch)
	fmt.Println(v1)
	fmt.Println(v2)
	fmt.Println("produced:", produced)
	// Output:
	// fetched-from-origin
	// fetched-from-origin
	// produced: 1
}

func ExampleGenerations() {
	gens := snapcache.Generations[string]()
	cache := snapcache.New(snapcache.Options[string, string]{
		Strategy: gens,
	})
	defer cache.Close()

	cache.Insert("config", "v1")
	v, _ := cache.Get("config")
	fmt.Println(v)

	// invalidate without touching the cache
	gens.Bump("config")
	_, ok := cache.Get("config")
	fmt.Println("after bump:", ok)

	cache.Insert("config", "v2")
	v, _ = cache.Get("config")
	fmt.Println(v)
	// Output:
	// v1
	// after bump: false
	// v2
}

func ExampleNewTiered() {
	users, err := snapcache.NewTiered[string, profile](snapcache.TieredOptions[string, profile]{
		Namespace: "profile",
		Store:     lru.New(lru.Config{Capacity: 1024, TTL: time.Hour}),
		Codec:     codec.JSON[profile]{},
	})
	if err != nil {
		panic(err)
	}
	ctx := context.Background()
	defer users.Close(ctx)

	_ = users.Set(ctx, "u:1", profile{Name: "Ada"}, 0)
	p, ok, _ := users.Get(ctx, "u:1")
	fmt.Println(p.Name, ok)

	_ = users.Invalidate(ctx, "u:1")
	_, ok, _ = users.Get(ctx, "u:1")
	fmt.Println("after invalidate:", ok)
	// Output:
	// Ada true
	// after invalidate: false
}

// Caching one bounded sorted set per key: each room keeps its top three
// scores, and the sets themselves are safe for concurrent use.
func Example_cachedLeaderboards() {
	boards := snapcache.New(snapcache.Options[string, *ordset.Set[int]]{
		Strategy: snapcache.Null[string](),
	})
	defer boards.Close()

	board := func(room string) *ordset.Set[int] {
		s, _ := boards.GetOrInsertWith(context.Background(), room, func(context.Context) (*ordset.Set[int], error) {
			return ordset.MustOrdered(ordset.Options[int]{Bound: 3}), nil
		})
		return s
	}

	for _, score := range []int{50, 90, 10, 70} {
		board("quake").Insert(score)
	}
	board("chess").Insert(1200)

	fmt.Println(board("quake").Items())
	fmt.Println(board("chess").Items())
	// Output:
	// [50 70 90]
	// [1200]
}

func ExampleTiered_GetOrLoad() {
	cache, err := snapcache.NewTiered[int, profile](snapcache.TieredOptions[int, profile]{
		Namespace: "profile",
		Store:     lru.New(lru.Config{Capacity: 1024, TTL: time.Hour}),
		Codec:     codec.JSON[profile]{},
	})
	if err != nil {
		panic(err)
	}
	ctx := context.Background()
	defer cache.Close(ctx)

	loads := 0
	var p profile
	for i := 0; i < 3; i++ {
		p, _ = cache.GetOrLoad(ctx, 7, func(context.Context) (profile, error) {
			loads++
			return profile{Name: "Grace"}, nil
		})
	}
	fmt.Println(p.Name)
	fmt.Println("loads:", loads)
	// Output:
	// Grace
	// loads: 1
}
