package engine

import (
	"sync"
	"testing"

	"github.com/youtubingest/ingest/internal/domain"
)

func TestDedupeMapSecondJoinerSubscribes(t *testing.T) {
	d := newDedupeMap()

	f1, owner1 := d.join("fp")
	if !owner1 {
		t.Fatalf("expected first joiner to become owner")
	}
	f2, owner2 := d.join("fp")
	if owner2 {
		t.Fatalf("expected second joiner to subscribe, not own")
	}
	if f1 != f2 {
		t.Fatalf("expected the same in-flight future for both joiners")
	}

	var wg sync.WaitGroup
	var got domain.IngestResult
	var gotErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, gotErr = f2.wait()
	}()

	want := domain.IngestResult{SourceName: "done"}
	d.finish("fp", f1, want, nil)
	wg.Wait()

	if gotErr != nil || got.SourceName != "done" {
		t.Fatalf("expected subscriber to observe published result, got %+v %v", got, gotErr)
	}
}

func TestDedupeMapFreshRequestAfterFinish(t *testing.T) {
	d := newDedupeMap()

	f1, _ := d.join("fp")
	d.finish("fp", f1, domain.IngestResult{}, nil)

	f2, owner := d.join("fp")
	if !owner {
		t.Fatalf("expected a fresh request for the same fingerprint to become owner again")
	}
	if f2 == f1 {
		t.Fatalf("expected a new in-flight future after finish removed the old entry")
	}
}
