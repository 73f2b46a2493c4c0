package store

import (
	"context"
	"testing"
)

func TestCHAdapter_NilPing(t *testing.T) {
	t.Parallel()

	var a *clickhouseAdapter
	if err := a.Ping(context.Background()); err == nil {
		t.Fatalf("nil adapter must fail ping")
	}
	if err := (&clickhouseAdapter{}).Ping(context.Background()); err == nil {
		t.Fatalf("empty adapter must fail ping")
	}
}
