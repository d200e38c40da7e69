package auth

import (
	"context"
	"testing"

	"github.com/dukerupert/homebase/internal/model"
)

func TestWithSessionAndFromContext(t *testing.T) {
	ctx := WithSession(context.Background(), Session{ID: "abc", Member: model.MemberB})

	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected Session in context")
	}
	if got.ID != "abc" {
		t.Errorf("ID = %q, want %q", got.ID, "abc")
	}
	if got.Member != model.MemberB {
		t.Errorf("Member = %q, want %q", got.Member, model.MemberB)
	}
	if Member(ctx) != model.MemberB {
		t.Errorf("Member(ctx) = %q, want %q", Member(ctx), model.MemberB)
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected ok=false for empty context")
	}
	if m := Member(context.Background()); m != "" {
		t.Errorf("Member = %q, want empty", m)
	}
}
