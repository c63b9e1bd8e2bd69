// Command bench runs a synthetic Zipf workload against the cache and exposes
// optional pprof/Prometheus endpoints. The cache itself is single-threaded,
// so workers share it behind one mutex; the numbers measure the cache plus
// that lock, which is how callers would actually deploy it.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	hlru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/tierlru/cache"
	pmet "github.com/IvanBrykalov/tierlru/metrics/prom"
)

// bencher is the minimal surface the workload needs, so the hashicorp cache
// can stand in for ours without adapters everywhere.
type bencher interface {
	Get(k string) (string, bool)
	Put(k, v string)
	Len() int
}

type lockedLRU struct {
	mu sync.Mutex
	c  *cache.Cache[string, string]
}

func (l *lockedLRU) Get(k string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.Get(k)
}

func (l *lockedLRU) Put(k, v string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.c.Put(k, v)
}

func (l *lockedLRU) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.Len()
}

type locked2Q struct {
	mu sync.Mutex
	c  *cache.TwoQueueCache[string, string]
}

func (l *locked2Q) Get(k string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.Get(k)
}

func (l *locked2Q) Put(k, v string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.c.Put(k, v)
}

func (l *locked2Q) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c.Len()
}

// hashicorp2Q is already internally locked.
type hashicorp2Q struct {
	c *hlru.TwoQueueCache[string, string]
}

func (h hashicorp2Q) Get(k string) (string, bool) { return h.c.Get(k) }
func (h hashicorp2Q) Put(k, v string)             { h.c.Add(k, v) }
func (h hashicorp2Q) Len() int                    { return h.c.Len() }

func main() {
	// ---- Flags ----
	var (
		capacity = flag.Int("cap", 100_000, "cache capacity (entries)")
		policy   = flag.String("policy", "lru", "eviction policy: lru | 2q | hashicorp-2q")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 0, "preload entries (0 = cap/2)")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", "", "serve Prometheus metrics at addr; empty = disabled")
	)
	flag.Parse()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	var metrics cache.Metrics = cache.NoopMetrics{}
	if *metricsAddr != "" {
		metrics = pmet.New(nil, "tierlru", "bench", nil)
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Printf("metrics: serving at %s", *metricsAddr)
			log.Println(http.ListenAndServe(*metricsAddr, nil))
		}()
	}

	// ---- Build cache ----
	var c bencher
	switch *policy {
	case "lru":
		inner, err := cache.New[string, string](*capacity, cache.WithMetrics[string, string](metrics))
		if err != nil {
			log.Fatalf("build lru: %v", err)
		}
		c = &lockedLRU{c: inner}
	case "2q":
		inner, err := cache.New2Q[string, string](*capacity, cache.With2QMetrics[string](metrics))
		if err != nil {
			log.Fatalf("build 2q: %v", err)
		}
		c = &locked2Q{c: inner}
	case "hashicorp-2q":
		inner, err := hlru.New2Q[string, string](*capacity)
		if err != nil {
			log.Fatalf("build hashicorp-2q: %v", err)
		}
		c = hashicorp2Q{c: inner}
	default:
		log.Fatalf("unknown policy: %q (use lru, 2q or hashicorp-2q)", *policy)
	}

	// ---- Preload half capacity to get a realistic hit-rate ----
	pl := *preload
	if pl == 0 {
		pl = *capacity / 2
	}
	for i := 0; i < pl; i++ {
		k := "k:" + strconv.Itoa(i)
		c.Put(k, "v"+strconv.Itoa(i))
	}

	// ---- Snapshot flags for goroutines ----
	readPctVal := *readPct
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var reads, writes, hits, misses, total uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workersN; w++ {
		id := w
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)

			keyByZipf := func() string {
				return "k:" + strconv.FormatUint(localZipf.Uint64(), 10)
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}

				atomic.AddUint64(&total, 1)
				if int(localR.Int31n(100)) < readPctVal {
					atomic.AddUint64(&reads, 1)
					if _, ok := c.Get(keyByZipf()); ok {
						atomic.AddUint64(&hits, 1)
					} else {
						atomic.AddUint64(&misses, 1)
					}
				} else {
					atomic.AddUint64(&writes, 1)
					c.Put(keyByZipf(), "v"+strconv.Itoa(localR.Int()))
				}
			}
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	ops := atomic.LoadUint64(&total)
	readsN := atomic.LoadUint64(&reads)
	writesN := atomic.LoadUint64(&writes)
	hitsN := atomic.LoadUint64(&hits)
	missesN := atomic.LoadUint64(&misses)

	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	fmt.Printf("policy=%s cap=%d workers=%d keys=%d dur=%v seed=%d\n",
		*policy, *capacity, workersN, *keys, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		ops, float64(ops)/elapsed.Seconds(), readsN, writesN)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hitsN, missesN, hitRate)
	fmt.Printf("Len()=%d\n", c.Len())
}
