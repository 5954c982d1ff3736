package userctx

import (
	"context"
	"testing"
)

func TestOwnerID(t *testing.T) {
	ctx := context.Background()
	if got := OwnerID(ctx); got != DefaultUserID {
		t.Fatalf("expected %q, got %q", DefaultUserID, got)
	}
	if got := OwnerID(WithUserID(ctx, "  ")); got != DefaultUserID {
		t.Fatalf("blank user should fall back, got %q", got)
	}
	if got := OwnerID(WithUserID(ctx, "runner-1")); got != "runner-1" {
		t.Fatalf("expected runner-1, got %q", got)
	}
}
