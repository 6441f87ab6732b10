package fs

import (
	"bytes"
	"context"
	"io"
	"testing"

	"jobdeck/internal/infra/archive"
)

func TestPutGetDeleteRoundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if store.Driver() != archive.DriverFilesystem {
		t.Fatalf("unexpected driver %s", store.Driver())
	}
	ctx := context.Background()

	payload := []byte(`{"version":2}`)
	info, err := store.Put(ctx, "exports/board.json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Key != "exports/board.json" || info.Size != int64(len(payload)) {
		t.Fatalf("unexpected info: %+v", info)
	}

	got, body, err := store.Get(ctx, "exports/board.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	data, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Fatalf("payload mismatch: %q", data)
	}
	if got.Size != info.Size {
		t.Fatalf("size mismatch")
	}

	// Put overwrites.
	bigger := []byte(`{"version":2,"jobs":[]}`)
	if _, err := store.Put(ctx, "exports/board.json", bytes.NewReader(bigger)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	again, body, err := store.Get(ctx, "exports/board.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body.Close()
	if again.Size != int64(len(bigger)) {
		t.Fatalf("overwrite did not replace payload")
	}

	existed, err := store.Delete(ctx, "exports/board.json")
	if err != nil || !existed {
		t.Fatalf("delete: %v existed=%v", err, existed)
	}
	existed, err = store.Delete(ctx, "exports/board.json")
	if err != nil || existed {
		t.Fatalf("second delete should report missing, got %v existed=%v", err, existed)
	}
}

func TestListFiltersByPrefix(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"exports/a.json", "exports/b.json", "misc/c.json"} {
		if _, err := store.Put(ctx, key, bytes.NewReader([]byte("{}"))); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "exports/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 exports, got %d", len(infos))
	}
	if infos[0].Key != "exports/a.json" || infos[1].Key != "exports/b.json" {
		t.Fatalf("list must sort by key: %+v", infos)
	}
	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 objects, got %d", len(all))
	}
}

func TestRejectsEscapingKeys(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx := context.Background()
	for _, key := range []string{"", "../escape.json", "/abs.json"} {
		if _, err := store.Put(ctx, key, bytes.NewReader([]byte("{}"))); err == nil {
			t.Fatalf("expected rejection for key %q", key)
		}
	}
}
