package services_test

import (
	"context"
	"testing"

	"encodeflow/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithJobPath(ctx, "/in/a.mov")
	ctx = services.WithAttempt(ctx, 1)
	ctx = services.WithLane(ctx, "retry")
	ctx = services.WithRequestID(ctx, "req-123")

	if path, ok := services.JobPathFromContext(ctx); !ok || path != "/in/a.mov" {
		t.Fatalf("unexpected job path: %v %v", path, ok)
	}
	if attempt, ok := services.AttemptFromContext(ctx); !ok || attempt != 1 {
		t.Fatalf("unexpected attempt: %v %v", attempt, ok)
	}
	if lane, ok := services.LaneFromContext(ctx); !ok || lane != "retry" {
		t.Fatalf("unexpected lane: %v %v", lane, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithLane(ctx, "")
	ctx = services.WithJobPath(ctx, "")
	if _, ok := services.LaneFromContext(ctx); ok {
		t.Fatal("expected no lane value")
	}
	if _, ok := services.JobPathFromContext(ctx); ok {
		t.Fatal("expected no job path value")
	}
	if _, ok := services.AttemptFromContext(ctx); ok {
		t.Fatal("expected no attempt value")
	}
}
