package storage

import (
	"testing"
	"time"

	"github.com/samvad-hq/restkit/internal/domain"
)

func TestBoltStoreRecordsNewestFirst(t *testing.T) {
	storeRaw, err := openBolt(t.TempDir()+"/history.db", normalizeOptions(Options{}))
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	base := time.Now().UTC()
	for i, u := range []string{"http://a.test/1", "http://a.test/2", "http://a.test/3"} {
		ex := domain.NewExchange("api", "GET", u)
		ex.At = base.Add(time.Duration(i) * time.Millisecond)
		ex.StatusCode = 200
		if err := store.Record(ex); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	recent, err := store.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 exchanges, got %d", len(recent))
	}
	if recent[0].URL != "http://a.test/3" || recent[1].URL != "http://a.test/2" {
		t.Fatalf("unexpected order: %s, %s", recent[0].URL, recent[1].URL)
	}
	if recent[0].StatusCode != 200 || recent[0].Profile != "api" {
		t.Fatalf("exchange not round-tripped: %+v", recent[0])
	}

	all, err := store.Recent(0)
	if err != nil || len(all) != 3 {
		t.Fatalf("Recent(0) = %d entries, err=%v", len(all), err)
	}
}

func TestBoltStoreExpiresExchanges(t *testing.T) {
	storeRaw, err := openBolt(t.TempDir()+"/history.db", Options{
		TTL:             1 * time.Second,
		CleanupInterval: 1 * time.Second,
	})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	if err := store.Record(domain.NewExchange("", "GET", "http://a.test")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if recent, _ := store.Recent(10); len(recent) != 1 {
		t.Fatalf("expected 1 exchange before expiry, got %d", len(recent))
	}

	// Fast-forward cleanup cadence and trigger expiry.
	store.lastCleanup.Store(time.Now().Add(-2 * time.Second).Unix())
	time.Sleep(1100 * time.Millisecond)

	recent, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent after expiry: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("expected exchange to expire, got %d", len(recent))
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.Record(domain.Exchange{}); err != nil {
		t.Fatalf("noop store Record: %v", err)
	}
	if recent, err := store.Recent(5); err != nil || recent != nil {
		t.Fatalf("noop Recent = %v, %v", recent, err)
	}
}

func TestNewStoreRejectsUnknownType(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected unsupported type error")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected missing path error")
	}
}
