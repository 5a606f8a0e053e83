// lru_test.go: tests for the recency store
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package atlas

import (
	"errors"
	"testing"
)

// TestRecencyStore_InsertAndOrder tests that eviction follows strict LRU order
func TestRecencyStore_InsertAndOrder(t *testing.T) {
	s := newRecencyStore[int, string]()

	s.insert(1, "one")
	s.insert(2, "two")
	s.insert(3, "three")

	if s.lenLive() != 3 {
		t.Fatalf("Expected 3 live entries, got %d", s.lenLive())
	}

	key, value, ok := s.evictLRU()
	if !ok || key != 1 || value != "one" {
		t.Errorf("Expected to evict (1, one), got (%v, %v, %v)", key, value, ok)
	}

	// The key must remain known as a hollow placeholder.
	if s.len() != 3 {
		t.Errorf("Expected 3 keys after evict, got %d", s.len())
	}
	if s.lenLive() != 2 {
		t.Errorf("Expected 2 live entries after evict, got %d", s.lenLive())
	}
}

// TestRecencyStore_TouchMovesToFront tests recency bumps
func TestRecencyStore_TouchMovesToFront(t *testing.T) {
	s := newRecencyStore[int, string]()
	s.insert(1, "one")
	s.insert(2, "two")
	s.insert(3, "three")

	// Touch the LRU entry; the victim should now be key 2.
	if _, ok := s.touch(1); !ok {
		t.Fatal("Expected touch of live key to succeed")
	}

	key, _, ok := s.evictLRU()
	if !ok || key != 2 {
		t.Errorf("Expected to evict key 2 after touching 1, got %v", key)
	}
}

// TestRecencyStore_TouchRefusesHollowAndAbsent tests that touch never materializes
func TestRecencyStore_TouchRefusesHollowAndAbsent(t *testing.T) {
	s := newRecencyStore[int, string]()
	s.insert(1, "one")
	s.evictLRU()

	if _, ok := s.touch(1); ok {
		t.Error("Expected touch of hollow key to fail")
	}
	if _, ok := s.touch(42); ok {
		t.Error("Expected touch of absent key to fail")
	}
}

// TestRecencyStore_InsertOverHollow tests hollow-to-live promotion via insert
func TestRecencyStore_InsertOverHollow(t *testing.T) {
	s := newRecencyStore[int, string]()
	s.insert(1, "one")
	s.evictLRU()

	prev, existed := s.insert(1, "uno")
	if !existed {
		t.Fatal("Expected insert over hollow entry to report existing key")
	}
	if prev.kind != entryHollow {
		t.Errorf("Expected previous state hollow, got %v", prev.kind)
	}
	if s.lenLive() != 1 {
		t.Errorf("Expected 1 live entry, got %d", s.lenLive())
	}
}

// TestRecencyStore_MarkHollowReturnsValue tests demotion
func TestRecencyStore_MarkHollowReturnsValue(t *testing.T) {
	s := newRecencyStore[int, string]()
	s.insert(1, "one")

	old, wasLive := s.markHollow(1)
	if !wasLive || old != "one" {
		t.Errorf("Expected (one, true), got (%v, %v)", old, wasLive)
	}

	// Marking an already hollow entry is a no-op.
	if _, wasLive := s.markHollow(1); wasLive {
		t.Error("Expected second markHollow to report no live value")
	}

	// Marking an absent key seeds a hollow placeholder.
	if _, wasLive := s.markHollow(2); wasLive {
		t.Error("Expected markHollow of absent key to report no live value")
	}
	if s.len() != 2 || s.lenLive() != 0 {
		t.Errorf("Expected 2 keys, 0 live, got %d keys, %d live", s.len(), s.lenLive())
	}
}

// TestRecencyStore_RemoveLRULeavesNoPlaceholder tests permanent removal
func TestRecencyStore_RemoveLRULeavesNoPlaceholder(t *testing.T) {
	s := newRecencyStore[int, string]()
	s.insert(1, "one")
	s.insert(2, "two")

	key, value, ok := s.removeLRU()
	if !ok || key != 1 || value != "one" {
		t.Fatalf("Expected to remove (1, one), got (%v, %v, %v)", key, value, ok)
	}
	if s.len() != 1 {
		t.Errorf("Expected 1 key after removeLRU, got %d", s.len())
	}
}

// TestRecencyStore_EvictSkipsHollow tests that hollow entries are never victims
func TestRecencyStore_EvictSkipsHollow(t *testing.T) {
	s := newRecencyStore[int, string]()
	s.insert(1, "one")
	s.evictLRU()

	if _, _, ok := s.evictLRU(); ok {
		t.Error("Expected evictLRU with only hollow entries to be a no-op")
	}
	if _, _, ok := s.removeLRU(); ok {
		t.Error("Expected removeLRU with only hollow entries to be a no-op")
	}
}

// TestRecencyStore_GetOrRepopulate tests hollow materialization
func TestRecencyStore_GetOrRepopulate(t *testing.T) {
	s := newRecencyStore[int, string]()
	s.insert(1, "one")
	s.evictLRU()

	value, wasLive, err := s.getOrRepopulate(1, func() (string, error) { return "restored", nil })
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if wasLive {
		t.Error("Expected wasLive=false for a hollow entry")
	}
	if value == nil || *value != "restored" {
		t.Fatalf("Expected restored value, got %v", value)
	}
	if s.lenLive() != 1 {
		t.Errorf("Expected 1 live entry after repopulate, got %d", s.lenLive())
	}

	// A live entry does not call the materializer.
	value, wasLive, err = s.getOrRepopulate(1, func() (string, error) {
		t.Fatal("Materializer must not run for a live entry")
		return "", nil
	})
	if err != nil || !wasLive || *value != "restored" {
		t.Errorf("Expected live hit, got (%v, %v, %v)", value, wasLive, err)
	}

	// Absent keys return nothing.
	value, _, err = s.getOrRepopulate(42, func() (string, error) { return "", nil })
	if err != nil || value != nil {
		t.Errorf("Expected (nil, nil) for absent key, got (%v, %v)", value, err)
	}
}

// TestRecencyStore_GetOrRepopulateError tests that a failed materializer leaves the entry hollow
func TestRecencyStore_GetOrRepopulateError(t *testing.T) {
	s := newRecencyStore[int, string]()
	s.insert(1, "one")
	s.evictLRU()

	boom := errors.New("boom")
	_, _, err := s.getOrRepopulate(1, func() (string, error) { return "", boom })
	if !errors.Is(err, boom) {
		t.Fatalf("Expected materializer error, got %v", err)
	}

	if _, kind, ok := s.peek(1); !ok || kind != entryHollow {
		t.Error("Expected entry to stay hollow after failed materialization")
	}
	if s.lenLive() != 0 {
		t.Errorf("Expected 0 live entries, got %d", s.lenLive())
	}
}

// TestRecencyStore_GetOrInsert tests the absent-key materializer
func TestRecencyStore_GetOrInsert(t *testing.T) {
	s := newRecencyStore[int, string]()

	value, err := s.getOrInsert(1,
		func() (string, error) {
			t.Fatal("onHollow must not run for an absent key")
			return "", nil
		},
		func() (string, error) { return "fresh", nil })
	if err != nil || *value != "fresh" {
		t.Fatalf("Expected fresh value, got (%v, %v)", value, err)
	}
	if s.lenLive() != 1 {
		t.Errorf("Expected 1 live entry, got %d", s.lenLive())
	}
}

// TestRecencyStore_PeekDoesNotTouch tests that read-only lookups keep recency order
func TestRecencyStore_PeekDoesNotTouch(t *testing.T) {
	s := newRecencyStore[int, string]()
	s.insert(1, "one")
	s.insert(2, "two")

	// Peeking the LRU entry must not save it from eviction.
	if value, kind, ok := s.peek(1); !ok || kind != entryLive || *value != "one" {
		t.Fatalf("Expected live view of key 1, got (%v, %v, %v)", value, kind, ok)
	}

	key, _, _ := s.evictLRU()
	if key != 1 {
		t.Errorf("Expected key 1 to still be the LRU victim, got %v", key)
	}
}

// TestRecencyStore_Remove tests removal in both states
func TestRecencyStore_Remove(t *testing.T) {
	s := newRecencyStore[int, string]()
	s.insert(1, "one")
	s.insert(2, "two")
	s.evictLRU() // key 1 hollow

	st, ok := s.remove(1)
	if !ok || st.kind != entryHollow {
		t.Errorf("Expected hollow state for key 1, got (%v, %v)", st.kind, ok)
	}

	st, ok = s.remove(2)
	if !ok || st.kind != entryLive || st.value != "two" {
		t.Errorf("Expected live state with value two, got (%+v, %v)", st, ok)
	}

	if _, ok := s.remove(3); ok {
		t.Error("Expected remove of absent key to fail")
	}
	if s.len() != 0 {
		t.Errorf("Expected empty store, got %d keys", s.len())
	}
}

// TestRecencyStore_EachLiveOrder tests most-to-least-recent iteration
func TestRecencyStore_EachLiveOrder(t *testing.T) {
	s := newRecencyStore[int, string]()
	s.insert(1, "one")
	s.insert(2, "two")
	s.insert(3, "three")
	s.touch(1)
	s.evictLRU() // key 2 becomes hollow

	var order []int
	s.eachLive(func(key int, value *string) bool {
		order = append(order, key)
		return true
	})

	if len(order) != 2 || order[0] != 1 || order[1] != 3 {
		t.Errorf("Expected live order [1 3], got %v", order)
	}
}

// TestRecencyStore_Clear tests reset
func TestRecencyStore_Clear(t *testing.T) {
	s := newRecencyStore[int, string]()
	s.insert(1, "one")
	s.insert(2, "two")
	s.evictLRU()

	s.clear()
	if s.len() != 0 || s.lenLive() != 0 {
		t.Errorf("Expected empty store after clear, got %d keys, %d live", s.len(), s.lenLive())
	}
	if _, _, ok := s.evictLRU(); ok {
		t.Error("Expected evictLRU on cleared store to be a no-op")
	}
}
