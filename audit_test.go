package goToken

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func newAuditedManager(t *testing.T, sink AuditSink) *Manager {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 64
	cfg.Audit.DropIfFull = true

	manager, err := New().WithConfig(cfg).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	return manager
}

func collectEvents(t *testing.T, sink *ChannelSink, want int) []AuditEvent {
	t.Helper()

	events := make([]AuditEvent, 0, want)
	timeout := time.After(2 * time.Second)
	for len(events) < want {
		select {
		case event := <-sink.Events():
			events = append(events, event)
		case <-timeout:
			t.Fatalf("timed out waiting for audit events, got %d of %d", len(events), want)
		}
	}
	return events
}

func TestAuditEmitsIssueAndVerifyEvents(t *testing.T) {
	sink := NewChannelSink(64)
	m := newAuditedManager(t, sink)
	defer m.Close()
	ctx := context.Background()

	credential, err := m.IssueAccessToken(ctx, "u1", "demo@example.com", testSecret)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := m.VerifyAccess(ctx, credential, "", testSecret); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	events := collectEvents(t, sink, 2)

	issued := events[0]
	if issued.EventType != "token_issued" || !issued.Success {
		t.Fatalf("unexpected first event: %+v", issued)
	}
	if issued.Subject != "u1" || issued.TokenType != "access" {
		t.Fatalf("unexpected issue event fields: %+v", issued)
	}
	if issued.ID == "" {
		t.Fatal("audit events must carry a correlation ID")
	}
	if issued.Timestamp.IsZero() {
		t.Fatal("audit events must carry a timestamp")
	}

	verified := events[1]
	if verified.EventType != "verify_success" || !verified.Success {
		t.Fatalf("unexpected second event: %+v", verified)
	}
}

func TestAuditRecordsFailureCodes(t *testing.T) {
	sink := NewChannelSink(64)
	m := newAuditedManager(t, sink)
	defer m.Close()

	if _, err := m.VerifyAccess(context.Background(), "not-a-token", "", testSecret); !errors.Is(err, ErrMalformedCredential) {
		t.Fatalf("expected ErrMalformedCredential, got %v", err)
	}

	events := collectEvents(t, sink, 1)
	failure := events[0]
	if failure.EventType != "verify_failure" || failure.Success {
		t.Fatalf("unexpected event: %+v", failure)
	}
	if failure.Error != "malformed_credential" {
		t.Fatalf("expected malformed_credential error code, got %q", failure.Error)
	}
}

func TestAuditRotationEventSequence(t *testing.T) {
	sink := NewChannelSink(64)
	m := newAuditedManager(t, sink)
	defer m.Close()
	ctx := context.Background()

	expired := expiredAccessToken(t, m, "u1", "demo@example.com", testSecret)
	refresh, err := m.IssueRefreshToken(ctx, "u1", testSecret)
	if err != nil {
		t.Fatalf("issue refresh failed: %v", err)
	}
	if _, err := m.VerifyAccess(ctx, expired, refresh, testSecret); err != nil {
		t.Fatalf("rotation failed: %v", err)
	}

	// refresh issue, rotated access issue, access_rotated.
	events := collectEvents(t, sink, 3)
	last := events[2]
	if last.EventType != "access_rotated" || !last.Success {
		t.Fatalf("expected access_rotated, got %+v", last)
	}
	if last.Subject != "u1" {
		t.Fatalf("unexpected subject %q", last.Subject)
	}
}

func TestAuditJSONWriterSinkWritesLines(t *testing.T) {
	var buf bytes.Buffer
	m := newAuditedManager(t, NewJSONWriterSink(&buf))

	if _, err := m.IssueAccessToken(context.Background(), "u1", "demo@example.com", testSecret); err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	m.Close() // drains the dispatcher

	scanner := bufio.NewScanner(&buf)
	if !scanner.Scan() {
		t.Fatal("expected at least one JSON line")
	}

	var event AuditEvent
	if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
		t.Fatalf("line is not valid JSON: %v", err)
	}
	if event.EventType != "token_issued" {
		t.Fatalf("unexpected event type %q", event.EventType)
	}
}

func TestAuditDisabledEmitsNothing(t *testing.T) {
	m := newTestManager(t, nil)

	if _, err := m.IssueAccessToken(context.Background(), "u1", "demo@example.com", testSecret); err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if m.AuditDropped() != 0 {
		t.Fatalf("disabled audit must not drop events, got %d", m.AuditDropped())
	}
}

type blockingSink struct {
	gate chan struct{}
}

func (s *blockingSink) Emit(ctx context.Context, event AuditEvent) {
	<-s.gate
}

func TestAuditDropIfFullCountsDrops(t *testing.T) {
	sink := &blockingSink{gate: make(chan struct{})}

	cfg := DefaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.BufferSize = 1
	cfg.Audit.DropIfFull = true

	m, err := New().WithConfig(cfg).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	// With a one-slot buffer and a stalled sink, a burst of issuance events
	// must overflow and drop rather than block the caller.
	for i := 0; i < 10; i++ {
		if _, err := m.IssueAccessToken(context.Background(), "u1", "demo@example.com", testSecret); err != nil {
			t.Fatalf("issue %d failed: %v", i+1, err)
		}
	}

	if m.AuditDropped() == 0 {
		t.Fatal("expected dropped events under backpressure")
	}

	close(sink.gate)
	m.Close()
}
