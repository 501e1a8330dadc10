package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goToken "github.com/credforge/goToken"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type seededPair struct {
	subject      string
	email        string
	accessToken  string
	refreshToken string
	expiredToken string
}

func main() {
	var (
		pairs       = flag.Int("pairs", 100000, "number of token pairs to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (verify + rotate)")
		secret      = flag.String("secret", "loadtest-secret-0123456789abcdef", "shared signing secret")
		throttle    = flag.Bool("throttle", false, "enable the redis-backed rotation throttle")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
	)
	flag.Parse()

	if *pairs <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "pairs, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	builder := goToken.New()

	cfg := goToken.DefaultConfig()
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true

	var cleanup func()
	if *throttle {
		cfg.Security.EnableRotationThrottle = true
		cfg.Security.MaxRotationAttempts = 1 << 30
		cfg.Security.RotationCooldown = time.Minute

		addr := *redisAddr
		if addr == "" {
			addr = os.Getenv("REDIS_ADDR")
		}

		var client *redis.Client
		if addr == "" {
			mr, err := miniredis.Run()
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
				os.Exit(1)
			}
			client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
			cleanup = func() {
				_ = client.Close()
				mr.Close()
			}
			fmt.Printf("using miniredis at %s\n", mr.Addr())
		} else {
			client = redis.NewClient(&redis.Options{Addr: addr})
			cleanup = func() { _ = client.Close() }
			fmt.Printf("using redis at %s\n", addr)
		}
		builder = builder.WithRedis(client)
	}

	manager, err := builder.WithConfig(cfg).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}
	defer manager.Close()
	if cleanup != nil {
		defer cleanup()
	}

	// Expired access credentials for the rotation phase come from a second
	// manager with a near-zero access TTL.
	shortCfg := cfg
	shortCfg.Security.EnableRotationThrottle = false
	shortCfg.Token.AccessTTL = time.Millisecond
	shortManager, err := goToken.New().WithConfig(shortCfg).Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}
	defer shortManager.Close()

	fmt.Printf("seeding %d token pairs...\n", *pairs)
	startSeed := time.Now()
	seeded := make([]seededPair, *pairs)
	for i := range seeded {
		subject := uuid.NewString()
		email := subject[:8] + "@loadtest.example"

		pair, err := manager.IssuePair(ctx, subject, email, *secret)
		if err != nil {
			fmt.Fprintf(os.Stderr, "issue pair failed: %v\n", err)
			os.Exit(1)
		}
		expired, err := shortManager.IssueAccessToken(ctx, subject, email, *secret)
		if err != nil {
			fmt.Fprintf(os.Stderr, "issue short-lived access failed: %v\n", err)
			os.Exit(1)
		}

		seeded[i] = seededPair{
			subject:      subject,
			email:        email,
			accessToken:  pair.AccessToken,
			refreshToken: pair.RefreshToken,
			expiredToken: expired,
		}
	}
	time.Sleep(10 * time.Millisecond) // let the short-lived credentials expire
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	verifyStats := runPhase(*ops, *concurrency, func(r *rand.Rand) error {
		p := seeded[r.Intn(len(seeded))]
		_, err := manager.VerifyAccess(ctx, p.accessToken, "", *secret)
		return err
	})

	rotateStats := runPhase(*ops, *concurrency, func(r *rand.Rand) error {
		p := seeded[r.Intn(len(seeded))]
		result, err := manager.VerifyAccess(ctx, p.expiredToken, p.refreshToken, *secret)
		if err != nil {
			return err
		}
		if !result.Rotated {
			return fmt.Errorf("expected rotation for %s", p.subject)
		}
		return nil
	})

	fmt.Println("---- results ----")
	printStats("verify", verifyStats)
	printStats("rotate", rotateStats)

	snap := manager.MetricsSnapshot()
	fmt.Printf("metrics: verify_success=%d rotation_success=%d rotation_failure=%d audit_dropped=%d\n",
		snap.Counters[goToken.MetricVerifySuccess],
		snap.Counters[goToken.MetricRotationSuccess],
		snap.Counters[goToken.MetricRotationFailure],
		manager.AuditDropped(),
	)
}

func runPhase(ops, concurrency int, op func(r *rand.Rand) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(r)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
