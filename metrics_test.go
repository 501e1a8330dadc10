package goToken

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestMetricsCountIssuanceAndVerification(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()

	credential, err := m.IssueAccessToken(ctx, "u1", "demo@example.com", testSecret)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := m.IssueRefreshToken(ctx, "u1", testSecret); err != nil {
		t.Fatalf("issue refresh failed: %v", err)
	}
	if _, err := m.VerifyAccess(ctx, credential, "", testSecret); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if _, err := m.VerifyAccess(ctx, "garbage", "", testSecret); !errors.Is(err, ErrMalformedCredential) {
		t.Fatalf("expected ErrMalformedCredential, got %v", err)
	}

	snap := m.MetricsSnapshot()
	if snap.Counters[MetricIssueAccess] != 1 {
		t.Fatalf("expected 1 access issue, got %d", snap.Counters[MetricIssueAccess])
	}
	if snap.Counters[MetricIssueRefresh] != 1 {
		t.Fatalf("expected 1 refresh issue, got %d", snap.Counters[MetricIssueRefresh])
	}
	if snap.Counters[MetricVerifySuccess] != 1 {
		t.Fatalf("expected 1 verify success, got %d", snap.Counters[MetricVerifySuccess])
	}
	if snap.Counters[MetricVerifyFailure] != 1 {
		t.Fatalf("expected 1 verify failure, got %d", snap.Counters[MetricVerifyFailure])
	}
}

func TestMetricsCountRotation(t *testing.T) {
	m := newTestManager(t, nil)
	ctx := context.Background()

	expired := expiredAccessToken(t, m, "u1", "demo@example.com", testSecret)
	refresh, err := m.IssueRefreshToken(ctx, "u1", testSecret)
	if err != nil {
		t.Fatalf("issue refresh failed: %v", err)
	}
	if _, err := m.VerifyAccess(ctx, expired, refresh, testSecret); err != nil {
		t.Fatalf("rotation failed: %v", err)
	}

	snap := m.MetricsSnapshot()
	if snap.Counters[MetricRotationSuccess] != 1 {
		t.Fatalf("expected 1 rotation success, got %d", snap.Counters[MetricRotationSuccess])
	}
	// The rotated access token counts as an issuance too.
	if snap.Counters[MetricIssueAccess] != 1 {
		t.Fatalf("expected 1 access issue from rotation, got %d", snap.Counters[MetricIssueAccess])
	}
}

func TestMetricsDisabledSnapshotEmpty(t *testing.T) {
	m := newTestManager(t, func(cfg *Config) {
		cfg.Metrics.Enabled = false
	})

	if _, err := m.IssueAccessToken(context.Background(), "u1", "demo@example.com", testSecret); err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	snap := m.MetricsSnapshot()
	if len(snap.Counters) != 0 {
		t.Fatalf("disabled metrics must snapshot empty, got %v", snap.Counters)
	}
}

func TestMetricsLatencyHistogram(t *testing.T) {
	m := newTestManager(t, func(cfg *Config) {
		cfg.Metrics.EnableLatencyHistograms = true
	})
	ctx := context.Background()

	credential, err := m.IssueAccessToken(ctx, "u1", "demo@example.com", testSecret)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := m.VerifyAccess(ctx, credential, "", testSecret); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	snap := m.MetricsSnapshot()
	buckets, ok := snap.Histograms[MetricVerifyLatency]
	if !ok {
		t.Fatal("expected verify latency histogram in snapshot")
	}
	if len(buckets) != histBucketCount {
		t.Fatalf("expected %d buckets, got %d", histBucketCount, len(buckets))
	}

	var total uint64
	for _, b := range buckets {
		total += b
	}
	if total != 1 {
		t.Fatalf("expected exactly one observation, got %d", total)
	}
}

func TestMetricsConcurrentIncrements(t *testing.T) {
	metrics := NewMetrics(MetricsConfig{Enabled: true})

	const goroutines = 8
	const perGoroutine = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				metrics.Inc(MetricVerifySuccess)
			}
		}()
	}
	wg.Wait()

	if got := metrics.Value(MetricVerifySuccess); got != goroutines*perGoroutine {
		t.Fatalf("expected %d, got %d", goroutines*perGoroutine, got)
	}
}

func TestMetricsBucketBoundaries(t *testing.T) {
	cases := []struct {
		d      time.Duration
		bucket int
	}{
		{1 * time.Millisecond, 0},
		{5 * time.Millisecond, 0},
		{10 * time.Millisecond, 1},
		{25 * time.Millisecond, 2},
		{50 * time.Millisecond, 3},
		{100 * time.Millisecond, 4},
		{250 * time.Millisecond, 5},
		{500 * time.Millisecond, 6},
		{2 * time.Second, 7},
	}

	for _, tc := range cases {
		if got := bucketIndex(tc.d); got != tc.bucket {
			t.Fatalf("bucketIndex(%v) = %d, want %d", tc.d, got, tc.bucket)
		}
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics

	metrics.Inc(MetricVerifySuccess)
	metrics.Observe(MetricVerifyLatency, time.Millisecond)

	if metrics.Enabled() {
		t.Fatal("nil metrics must report disabled")
	}
	if got := metrics.Value(MetricVerifySuccess); got != 0 {
		t.Fatalf("nil metrics value must be 0, got %d", got)
	}

	snap := metrics.Snapshot()
	if len(snap.Counters) != 0 {
		t.Fatal("nil metrics snapshot must be empty")
	}
}
