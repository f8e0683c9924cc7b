package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/hyperjump/pagewise/internal/models"
)

var sessionIDPattern = regexp.MustCompile(`^doc_\d+_[0-9a-f]{8}$`)

func TestMemoryStore_CRUD(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	record := &models.DocumentRecord{Filename: "deck.pptx", TotalPages: 2}
	id, err := store.Create(ctx, record)
	if err != nil {
		t.Fatal(err)
	}
	if !sessionIDPattern.MatchString(id) {
		t.Errorf("unexpected id format %q", id)
	}
	if record.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if n := store.Count(ctx); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Filename != "deck.pptx" {
		t.Errorf("got %+v", got)
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, id); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}
	if err := store.Delete(ctx, id); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second Delete: err = %v, want ErrNotFound", err)
	}
	if n := store.Count(ctx); n != 0 {
		t.Errorf("Count = %d, want 0", n)
	}
}

func TestMemoryStore_NilRecord(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Create(context.Background(), nil); !errors.Is(err, models.ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestMemoryStore_IDsNeverReused(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id, err := store.Create(ctx, &models.DocumentRecord{})
		if err != nil {
			t.Fatal(err)
		}
		if seen[id] {
			t.Fatalf("id %s reused", id)
		}
		seen[id] = true
		if i%2 == 0 {
			_ = store.Delete(ctx, id)
		}
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make(chan string, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := store.Create(ctx, &models.DocumentRecord{Filename: fmt.Sprintf("f%d.pdf", i)})
			if err != nil {
				t.Error(err)
				return
			}
			if _, err := store.Get(ctx, id); err != nil {
				t.Error(err)
			}
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	unique := make(map[string]bool)
	for id := range ids {
		unique[id] = true
	}
	if len(unique) != 100 {
		t.Errorf("got %d unique ids, want 100", len(unique))
	}
	if n := store.Count(ctx); n != 100 {
		t.Errorf("Count = %d, want 100", n)
	}
}
