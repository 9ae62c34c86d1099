// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache

import "encoding/binary"

// MemoryTracker is the narrow external-collaborator interface consumed
// from the guest-memory tracker (§6): each callback may trigger
// Invalidate on the range it affects. This package only declares the
// shape the tracker calls into; the tracker itself (syscall interception,
// VMA bookkeeping) is out of scope (§1).
type MemoryTracker interface {
	TrackMmap(ctx interface{}, addr, length uint64, prot, flags, fd int, off int64) error
	TrackMunmap(ctx interface{}, addr, length uint64) error
	TrackMremap(ctx interface{}, oldAddr, oldLen, newLen uint64, flags int) error
	TrackMprotect(ctx interface{}, addr, length uint64, prot int) error
	TrackShmat(ctx interface{}, addr, length uint64) error
	TrackShmdt(ctx interface{}, addr uint64) error
}

// Invalidate drops every installed translation whose guest range
// overlaps [addr, addr+length), clearing their L1 bucket, their L2
// slot, and any block links that target them. Used by the guest-memory
// tracker callbacks (TrackMunmap, TrackMprotect, ...) — none of which
// live in this package — to keep the cache coherent with guest address
// space changes.
func (c *LookupCache) Invalidate(addr, length uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	end := addr + length
	kept := c.blockList[:0]
	for _, entry := range c.blockList {
		if entry.GuestRIP >= addr && entry.GuestRIP < end {
			c.invalidateEntryLocked(entry.GuestRIP)
			delete(c.blockLinks, entry.GuestRIP)
			continue
		}
		kept = append(kept, entry)
	}
	c.blockList = kept
}

func (c *LookupCache) invalidateEntryLocked(rip uint64) {
	l1Off := c.l1BucketOffset(rip)
	if binary.LittleEndian.Uint64(c.l1[l1Off:l1Off+8]) == rip {
		binary.LittleEndian.PutUint64(c.l1[l1Off:l1Off+8], 0)
		binary.LittleEndian.PutUint64(c.l1[l1Off+8:l1Off+16], 0)
	}

	page := rip >> 12
	dirOff := page * 8
	if dirOff+8 > uint64(len(c.directory)) {
		return
	}
	regionBase := binary.LittleEndian.Uint64(c.directory[dirOff : dirOff+8])
	if regionBase == 0 {
		return
	}
	slotOff := regionBase + (rip&0xFFF)*8
	binary.LittleEndian.PutUint64(c.blockStore[slotOff:slotOff+8], 0)
}

// HandleMunmap implements the corrected x64 munmap handler ordering
// recovered from original_source (§9 "Open question"): the source's
// handler returned before reaching its own error-translation and
// TrackMunmap call, which is unreachable dead code and almost certainly
// a defect — sibling handlers (mmap, mprotect) all translate the
// syscall result first and only report success to the tracker once the
// host call actually succeeded. This reproduces the sibling ordering:
// translate the raw return value, invalidate only on success, then
// return the translated value.
func (c *LookupCache) HandleMunmap(addr, length uint64, rawReturn int64, translate func(int64) int64) int64 {
	ret := translate(rawReturn)
	if ret == 0 {
		c.Invalidate(addr, length)
	}
	return ret
}
