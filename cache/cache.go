// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cache implements the two-level guest-RIP -> host-code-pointer
// lookup cache (§4.3): an L1 direct-mapped hash hint table backed by an
// exact, page-indexed L2 structure, all three regions reserved as
// anonymous mmap mappings so MADV_DONTNEED can release physical pages on
// clear without giving up the reserved address space.
package cache

import (
	"encoding/binary"
	"sync"

	mmap "github.com/edsrzf/mmap-go"
	"golang.org/x/sys/unix"

	"github.com/deep-gaurav/fexcore/sigmask"
)

const (
	pageSize       = 4096
	l2PageRegion   = 32 * 1024 // one host-pointer slot per guest byte on a 4 KiB page: 4096*8
	l1BucketStride = 16        // (guest_rip uint64, host_ptr uint64)
)

// Config holds the sizing inputs named in §6 "Configuration inputs".
// Zero values are not valid; NewLookupCache fills in the defaults below
// when a field is left at zero, mirroring the teacher's plain-struct
// configuration idiom (no flag/env parsing, §ambient stack).
type Config struct {
	// VirtualMemSize bounds the guest address space the page directory
	// must cover; default 64 GiB.
	VirtualMemSize uint64
	// L1Size is the byte size of the L1 hash table; must be a multiple
	// of l1BucketStride. Default 4 MiB.
	L1Size uint64
	// CodeSize is the L2 block store's total byte size ("CODE_SIZE"),
	// default 128 MiB.
	CodeSize uint64
}

const (
	defaultVirtualMemSize = 64 * 1024 * 1024 * 1024
	defaultL1Size         = 4 * 1024 * 1024
	defaultCodeSize       = 128 * 1024 * 1024
)

func (c Config) withDefaults() Config {
	if c.VirtualMemSize == 0 {
		c.VirtualMemSize = defaultVirtualMemSize
	}
	if c.L1Size == 0 {
		c.L1Size = defaultL1Size
	}
	if c.CodeSize == 0 {
		c.CodeSize = defaultCodeSize
	}
	return c
}

// BlockListEntry is one installed translation, used for bulk
// invalidation and perf-symbol export (§3 "Block list").
type BlockListEntry struct {
	GuestRIP uint64
	GuestLen uint32
	HostPtr  uint64
	HostLen  uint32
}

// BlockLinkSite is a direct-branch patch site inside some other
// translation that jumps straight to a target RIP without going through
// the lookup cache (§3 "Block links").
type BlockLinkSite struct {
	HostAddr  uint64
	OrigBytes []byte
}

// LookupCache is the process-wide, thread-shared cache described in
// §4.3. One instance is constructed per translator process and shared
// by every guest thread's OpDispatchBuilder.
type LookupCache struct {
	cfg Config

	// mu serializes every writer; readers (Lookup) never take it, per
	// the coherence rule in §4.3. Insert, ClearL2, ClearCache,
	// AddBlockLink and EraseBlockLinks enter through
	// sigmask.ScopedSignalMask instead of locking mu directly, since the
	// cache is mutated from contexts a signal handler can also touch
	// (§5 "Signal interaction"). Invalidate (and so HandleMunmap) locks
	// mu directly and does not mask signals.
	mu sync.Mutex

	directory  mmap.MMap // page directory: virtualMemSize/4096 * 8 bytes
	blockStore mmap.MMap // L2 block store: CodeSize bytes
	l1         mmap.MMap // L1 hash table: L1Size bytes

	allocateOffset uint32

	blockList  []BlockListEntry
	blockLinks map[uint64][]BlockLinkSite
}

// NewLookupCache reserves the three mmap regions described in §4.3
// "Construction". A failure here is fatal per §7 "MappingFailed" — the
// process cannot proceed without its lookup cache.
func NewLookupCache(cfg Config) (*LookupCache, error) {
	cfg = cfg.withDefaults()

	dirSize := cfg.VirtualMemSize / pageSize * 8
	directory, err := mmap.MapRegion(nil, int(dirSize), mmap.COPY, mmap.ANON, 0)
	if err != nil {
		return nil, MappingFailedError{Region: "page directory", Err: err}
	}

	blockStore, err := mmap.MapRegion(nil, int(cfg.CodeSize), mmap.COPY, mmap.ANON, 0)
	if err != nil {
		directory.Unmap()
		return nil, MappingFailedError{Region: "block store", Err: err}
	}

	l1, err := mmap.MapRegion(nil, int(cfg.L1Size), mmap.COPY, mmap.ANON, 0)
	if err != nil {
		directory.Unmap()
		blockStore.Unmap()
		return nil, MappingFailedError{Region: "L1 table", Err: err}
	}

	return &LookupCache{
		cfg:        cfg,
		directory:  directory,
		blockStore: blockStore,
		l1:         l1,
		blockLinks: make(map[uint64][]BlockLinkSite),
	}, nil
}

// Close releases all three mmap regions (§5 "Resource release": the
// cache regions are released in the cache destructor via explicit
// unmap).
func (c *LookupCache) Close() error {
	var firstErr error
	if err := c.l1.Unmap(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.blockStore.Unmap(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.directory.Unmap(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (c *LookupCache) l1BucketIndex(rip uint64) uint64 {
	numBuckets := uint64(len(c.l1)) / l1BucketStride
	return (rip >> 1) & (numBuckets - 1)
}

func (c *LookupCache) l1BucketOffset(rip uint64) int {
	return int(c.l1BucketIndex(rip)) * l1BucketStride
}

// Lookup resolves a guest RIP to its host entry point. The L1 probe is
// lock-free (§4.3 "This walk is lock-free on the read side"); a stale or
// empty bucket falls through to the exact L2 structure, which refreshes
// L1 on a hit.
func (c *LookupCache) Lookup(rip uint64) (uint64, bool) {
	off := c.l1BucketOffset(rip)
	bucketRIP := binary.LittleEndian.Uint64(c.l1[off : off+8])
	if bucketRIP == rip {
		if hostPtr := binary.LittleEndian.Uint64(c.l1[off+8 : off+16]); hostPtr != 0 {
			return hostPtr, true
		}
	}

	page := rip >> 12
	dirOff := page * 8
	if dirOff+8 > uint64(len(c.directory)) {
		return 0, false
	}
	regionBase := binary.LittleEndian.Uint64(c.directory[dirOff : dirOff+8])
	if regionBase == 0 {
		return 0, false
	}

	slotOff := regionBase + (rip&0xFFF)*8
	if slotOff+8 > uint64(len(c.blockStore)) {
		return 0, false
	}
	hostPtr := binary.LittleEndian.Uint64(c.blockStore[slotOff : slotOff+8])
	if hostPtr == 0 {
		return 0, false
	}

	binary.LittleEndian.PutUint64(c.l1[off:off+8], rip)
	binary.LittleEndian.PutUint64(c.l1[off+8:off+16], hostPtr)
	return hostPtr, true
}

// Insert installs a new translation, bump-allocating an L2 page region
// on first touch of that guest page (§4.3 "Insert"). If the block store
// is exhausted, the cache is cleared and the insert retried exactly
// once, per §4.3 "Numeric semantics" / §7 "CacheFull".
func (c *LookupCache) Insert(guestRIP uint64, guestLen uint32, hostPtr uint64, hostLen uint32) error {
	scope, err := sigmask.NewScopedSignalMask(&c.mu)
	if err != nil {
		return err
	}
	defer scope.Release()
	return c.insertLocked(guestRIP, guestLen, hostPtr, hostLen, true)
}

func (c *LookupCache) insertLocked(guestRIP uint64, guestLen uint32, hostPtr uint64, hostLen uint32, allowRetry bool) error {
	page := guestRIP >> 12
	dirOff := page * 8
	if dirOff+8 > uint64(len(c.directory)) {
		return CacheFullError{Requested: l2PageRegion}
	}

	regionBase := binary.LittleEndian.Uint64(c.directory[dirOff : dirOff+8])
	if regionBase == 0 {
		// Block-store offset 0 is never handed out: a zero directory
		// slot means the page has no region yet.
		if c.allocateOffset == 0 {
			c.allocateOffset = l2PageRegion
		}
		if uint64(c.allocateOffset)+l2PageRegion > c.cfg.CodeSize {
			if !allowRetry {
				return CacheFullError{Requested: l2PageRegion}
			}
			c.clearCacheLocked()
			return c.insertLocked(guestRIP, guestLen, hostPtr, hostLen, false)
		}
		regionBase = uint64(c.allocateOffset)
		c.allocateOffset += l2PageRegion
		binary.LittleEndian.PutUint64(c.directory[dirOff:dirOff+8], regionBase)
	}

	slotOff := regionBase + (guestRIP&0xFFF)*8
	binary.LittleEndian.PutUint64(c.blockStore[slotOff:slotOff+8], hostPtr)

	l1Off := c.l1BucketOffset(guestRIP)
	binary.LittleEndian.PutUint64(c.l1[l1Off:l1Off+8], guestRIP)
	binary.LittleEndian.PutUint64(c.l1[l1Off+8:l1Off+16], hostPtr)

	c.blockList = append(c.blockList, BlockListEntry{
		GuestRIP: guestRIP,
		GuestLen: guestLen,
		HostPtr:  hostPtr,
		HostLen:  hostLen,
	})
	return nil
}

// HintUsedRange advises the kernel that the directory slice covering
// [rip, rip+size) will be needed soon (§4.3 "HintUsedRange").
func (c *LookupCache) HintUsedRange(rip, size uint64) error {
	startPage := rip >> 12
	endPage := (rip + size + pageSize - 1) >> 12
	start := startPage * 8
	end := endPage * 8
	if end > uint64(len(c.directory)) {
		end = uint64(len(c.directory))
	}
	if start >= end {
		return nil
	}
	return unix.Madvise(c.directory[start:end], unix.MADV_WILLNEED)
}

// ClearL2 acquires the write lock and clears the L2 structures, per the
// public half of the redesign suggested in §9 ("split into a private
// ClearL2Locked() callable under the held lock and a public ClearL2()
// acquiring it, eliminating recursion").
func (c *LookupCache) ClearL2() error {
	scope, err := sigmask.NewScopedSignalMask(&c.mu)
	if err != nil {
		return err
	}
	defer scope.Release()
	return c.clearL2Locked()
}

// clearL2Locked assumes mu is already held; ClearCache calls this
// directly instead of recursing through ClearL2's own lock acquisition.
func (c *LookupCache) clearL2Locked() error {
	if err := unix.Madvise(c.directory, unix.MADV_DONTNEED); err != nil {
		return err
	}
	if err := unix.Madvise(c.blockStore, unix.MADV_DONTNEED); err != nil {
		return err
	}
	c.allocateOffset = 0
	return nil
}

// ClearCache clears both L1 and L2 and drops the block-link and
// block-list bookkeeping (§4.3 "ClearCache").
func (c *LookupCache) ClearCache() error {
	scope, err := sigmask.NewScopedSignalMask(&c.mu)
	if err != nil {
		return err
	}
	defer scope.Release()
	return c.clearCacheLocked()
}

func (c *LookupCache) clearCacheLocked() error {
	if err := unix.Madvise(c.l1, unix.MADV_DONTNEED); err != nil {
		return err
	}
	if err := c.clearL2Locked(); err != nil {
		return err
	}
	c.blockList = c.blockList[:0]
	for k := range c.blockLinks {
		delete(c.blockLinks, k)
	}
	return nil
}

// AddBlockLink registers a direct-branch patch site that jumps straight
// to targetRIP, so EraseBlockLinks can find and undo it if targetRIP is
// later invalidated.
func (c *LookupCache) AddBlockLink(targetRIP uint64, site BlockLinkSite) error {
	scope, err := sigmask.NewScopedSignalMask(&c.mu)
	if err != nil {
		return err
	}
	defer scope.Release()
	c.blockLinks[targetRIP] = append(c.blockLinks[targetRIP], site)
	return nil
}

// EraseBlockLinks removes and returns every patch site registered
// against targetRIP, for the caller (backend) to rewrite back to a
// cold-lookup stub.
func (c *LookupCache) EraseBlockLinks(targetRIP uint64) ([]BlockLinkSite, error) {
	scope, err := sigmask.NewScopedSignalMask(&c.mu)
	if err != nil {
		return nil, err
	}
	defer scope.Release()
	sites := c.blockLinks[targetRIP]
	delete(c.blockLinks, targetRIP)
	return sites, nil
}

// BlockList returns the ordered sequence of installed translations,
// used by perf-symbol export and bulk invalidation scans.
func (c *LookupCache) BlockList() []BlockListEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]BlockListEntry, len(c.blockList))
	copy(out, c.blockList)
	return out
}
