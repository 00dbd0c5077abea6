package memory

import (
	"context"
	"testing"
)

func TestKVRepository_SetGetDelete(t *testing.T) {
	t.Parallel()

	repo := NewKVRepository()
	ctx := context.Background()

	if _, ok, err := repo.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected missing key, got ok=%t err=%v", ok, err)
	}

	value := []byte("v1")
	if err := repo.Set(ctx, "k", value); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	value[0] = 'x'

	got, ok, err := repo.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get returned ok=%t err=%v", ok, err)
	}
	if string(got) != "v1" {
		t.Fatalf("expected stored copy v1, got %s", got)
	}

	if err := repo.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "k"); ok {
		t.Fatalf("expected key removed")
	}
}
