// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache

import "testing"

func smallConfig() Config {
	return Config{
		VirtualMemSize: 4 * 1024 * 1024 * 1024, // 4 GiB guest space: covers 0xDEAD0000, 8 MiB directory
		L1Size:         4096,
		CodeSize:       3 * l2PageRegion, // room for exactly two touched pages (offset 0 is never allocated)
	}
}

// TestInsertThenLookupRoundTrips is Scenario C (§8).
func TestInsertThenLookupRoundTrips(t *testing.T) {
	c, err := NewLookupCache(smallConfig())
	if err != nil {
		t.Fatalf("NewLookupCache: %v", err)
	}
	defer c.Close()

	if err := c.Insert(0xDEAD0000, 4, 0xAA, 4); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := c.Insert(0xDEAD1000, 4, 0xBB, 4); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if got, ok := c.Lookup(0xDEAD0000); !ok || got != 0xAA {
		t.Fatalf("Lookup(0xDEAD0000) = (%x, %v), want (0xAA, true)", got, ok)
	}
	if got, ok := c.Lookup(0xDEAD1000); !ok || got != 0xBB {
		t.Fatalf("Lookup(0xDEAD1000) = (%x, %v), want (0xBB, true)", got, ok)
	}
	if _, ok := c.Lookup(0xCAFE); ok {
		t.Fatal("Lookup(0xCAFE) should miss")
	}
}

// TestClearCacheThenReinsert is Scenario D.
func TestClearCacheThenReinsert(t *testing.T) {
	c, err := NewLookupCache(smallConfig())
	if err != nil {
		t.Fatalf("NewLookupCache: %v", err)
	}
	defer c.Close()

	if err := c.Insert(0xDEAD0000, 4, 0xAA, 4); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := c.ClearCache(); err != nil {
		t.Fatalf("ClearCache: %v", err)
	}
	if _, ok := c.Lookup(0xDEAD0000); ok {
		t.Fatal("Lookup should miss right after ClearCache")
	}

	if err := c.Insert(0xDEAD0000, 4, 0xCC, 4); err != nil {
		t.Fatalf("re-Insert: %v", err)
	}
	if got, ok := c.Lookup(0xDEAD0000); !ok || got != 0xCC {
		t.Fatalf("Lookup after re-Insert = (%x, %v), want (0xCC, true)", got, ok)
	}
}

// TestClearCacheIsIdempotent is testable property 6 (§8).
func TestClearCacheIsIdempotent(t *testing.T) {
	c, err := NewLookupCache(smallConfig())
	if err != nil {
		t.Fatalf("NewLookupCache: %v", err)
	}
	defer c.Close()

	if err := c.Insert(0x1000, 1, 0x10, 1); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := c.ClearCache(); err != nil {
		t.Fatalf("first ClearCache: %v", err)
	}
	if err := c.ClearCache(); err != nil {
		t.Fatalf("second ClearCache: %v", err)
	}
	if _, ok := c.Lookup(0x1000); ok {
		t.Fatal("Lookup should still miss after a second ClearCache")
	}
	if len(c.BlockList()) != 0 {
		t.Fatal("BlockList should be empty after ClearCache")
	}
}

// TestInsertRetriesOnceWhenBlockStoreExhausted exercises the §4.3
// "Numeric semantics" retry path: a third distinct page should force a
// ClearCache + retry since smallConfig only has room for two.
func TestInsertRetriesOnceWhenBlockStoreExhausted(t *testing.T) {
	c, err := NewLookupCache(smallConfig())
	if err != nil {
		t.Fatalf("NewLookupCache: %v", err)
	}
	defer c.Close()

	if err := c.Insert(0x1000, 1, 0x10, 1); err != nil {
		t.Fatalf("Insert page 1: %v", err)
	}
	if err := c.Insert(0x2000, 1, 0x20, 1); err != nil {
		t.Fatalf("Insert page 2: %v", err)
	}
	// A third distinct page doesn't fit; Insert must recover via
	// ClearCache + retry rather than returning CacheFullError.
	if err := c.Insert(0x3000, 1, 0x30, 1); err != nil {
		t.Fatalf("Insert page 3 should recover via retry, got: %v", err)
	}
	if got, ok := c.Lookup(0x3000); !ok || got != 0x30 {
		t.Fatalf("Lookup(0x3000) = (%x, %v), want (0x30, true)", got, ok)
	}
	// The retry's ClearCache evicted the earlier pages.
	if _, ok := c.Lookup(0x1000); ok {
		t.Fatal("page 1 should have been evicted by the retry's ClearCache")
	}
}

func TestBlockLinksRoundTrip(t *testing.T) {
	c, err := NewLookupCache(smallConfig())
	if err != nil {
		t.Fatalf("NewLookupCache: %v", err)
	}
	defer c.Close()

	site := BlockLinkSite{HostAddr: 0x1234, OrigBytes: []byte{0x90, 0x90}}
	if err := c.AddBlockLink(0xDEAD0000, site); err != nil {
		t.Fatalf("AddBlockLink: %v", err)
	}

	sites, err := c.EraseBlockLinks(0xDEAD0000)
	if err != nil {
		t.Fatalf("EraseBlockLinks: %v", err)
	}
	if len(sites) != 1 || sites[0].HostAddr != 0x1234 {
		t.Fatalf("EraseBlockLinks = %+v, want one site at 0x1234", sites)
	}
	if sites, err := c.EraseBlockLinks(0xDEAD0000); err != nil || len(sites) != 0 {
		t.Fatalf("EraseBlockLinks should be empty after the first erase, got %+v, err %v", sites, err)
	}
}

func TestInvalidateDropsOverlappingBlocks(t *testing.T) {
	c, err := NewLookupCache(smallConfig())
	if err != nil {
		t.Fatalf("NewLookupCache: %v", err)
	}
	defer c.Close()

	if err := c.Insert(0x1000, 4, 0x10, 4); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := c.Insert(0x5000, 4, 0x50, 4); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	c.Invalidate(0x1000, 0x1000)

	if _, ok := c.Lookup(0x1000); ok {
		t.Fatal("0x1000 should have been invalidated")
	}
	if got, ok := c.Lookup(0x5000); !ok || got != 0x50 {
		t.Fatalf("0x5000 should survive an unrelated invalidation, got (%x, %v)", got, ok)
	}
}

func TestHandleMunmapInvalidatesOnlyOnSuccess(t *testing.T) {
	c, err := NewLookupCache(smallConfig())
	if err != nil {
		t.Fatalf("NewLookupCache: %v", err)
	}
	defer c.Close()

	if err := c.Insert(0x1000, 4, 0x10, 4); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	failing := func(raw int64) int64 { return -1 }
	if ret := c.HandleMunmap(0x1000, 0x1000, -1, failing); ret != -1 {
		t.Fatalf("HandleMunmap = %d, want -1", ret)
	}
	if _, ok := c.Lookup(0x1000); !ok {
		t.Fatal("a failing munmap must not invalidate the cache")
	}

	succeeding := func(raw int64) int64 { return 0 }
	if ret := c.HandleMunmap(0x1000, 0x1000, 0, succeeding); ret != 0 {
		t.Fatalf("HandleMunmap = %d, want 0", ret)
	}
	if _, ok := c.Lookup(0x1000); ok {
		t.Fatal("a successful munmap must invalidate the range")
	}
}
