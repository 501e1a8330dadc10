package goToken

import (
	"context"
	"testing"
	"time"

	"github.com/credforge/goToken/jwt"
	gjwt "github.com/golang-jwt/jwt/v5"
)

func expiredBenchClaims() jwt.Claims {
	now := time.Now().UTC()
	return jwt.Claims{
		Email: "demo@example.com",
		RegisteredClaims: gjwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: gjwt.NewNumericDate(now.Add(-time.Minute)),
		},
	}
}

func newBenchManager(b *testing.B) *Manager {
	b.Helper()

	manager, err := New().WithConfig(DefaultConfig()).Build()
	if err != nil {
		b.Fatalf("build failed: %v", err)
	}
	b.Cleanup(manager.Close)

	return manager
}

func BenchmarkIssueAccessToken(b *testing.B) {
	m := newBenchManager(b)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.IssueAccessToken(ctx, "u1", "demo@example.com", testSecret); err != nil {
			b.Fatalf("issue failed: %v", err)
		}
	}
}

func BenchmarkVerifyAccess(b *testing.B) {
	m := newBenchManager(b)
	ctx := context.Background()

	credential, err := m.IssueAccessToken(ctx, "u1", "demo@example.com", testSecret)
	if err != nil {
		b.Fatalf("issue failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.VerifyAccess(ctx, credential, "", testSecret); err != nil {
			b.Fatalf("verify failed: %v", err)
		}
	}
}

func BenchmarkVerifyAccessWithRotation(b *testing.B) {
	m := newBenchManager(b)
	ctx := context.Background()

	expired, err := m.codec.Sign(expiredBenchClaims(), testSecret)
	if err != nil {
		b.Fatalf("sign failed: %v", err)
	}
	refresh, err := m.IssueRefreshToken(ctx, "u1", testSecret)
	if err != nil {
		b.Fatalf("issue refresh failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := m.VerifyAccess(ctx, expired, refresh, testSecret)
		if err != nil {
			b.Fatalf("rotation failed: %v", err)
		}
		if !result.Rotated {
			b.Fatal("expected rotation")
		}
	}
}

func BenchmarkVerifyAccessParallel(b *testing.B) {
	m := newBenchManager(b)
	ctx := context.Background()

	credential, err := m.IssueAccessToken(ctx, "u1", "demo@example.com", testSecret)
	if err != nil {
		b.Fatalf("issue failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := m.VerifyAccess(ctx, credential, "", testSecret); err != nil {
				b.Fatalf("verify failed: %v", err)
			}
		}
	})
}
