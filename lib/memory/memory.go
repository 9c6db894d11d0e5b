package memory

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// DefaultLimit is the quota used when none is configured: 2048 KiB.
const DefaultLimit = 2048 * 1024

// warnPercent is the usage level at which every allocation logs a warning.
const warnPercent = 90.0

var (
	ErrZeroSize      = errors.New("zero-size allocation")
	ErrUntracked     = errors.New("block is not tracked by this allocator")
	ErrQuotaExceeded = errors.New("memory quota exceeded")
)

// Block is a handle to tracked storage. The zero Block is never tracked.
type Block struct {
	ID   uint64
	Size int
}

type Stats struct {
	Allocated int
	Peak      int
	Limit     int
	Allocs    int
	Frees     int
}

// Percent is current usage relative to the limit.
func (s Stats) Percent() float64 {
	if s.Limit == 0 {
		return 0
	}
	return float64(s.Allocated) / float64(s.Limit) * 100
}

// Allocator accounts for storage against a fixed byte quota. Exceeding
// the quota is reported as an error and leaves the allocator unchanged.
type Allocator struct {
	Log zerolog.Logger

	limit  int
	nextID uint64
	blocks map[uint64]int
	stats  Stats
}

func New(limit int) *Allocator {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Allocator{
		Log:    zerolog.Nop(),
		limit:  limit,
		blocks: make(map[uint64]int),
		stats:  Stats{Limit: limit},
	}
}

func (a *Allocator) Alloc(size int) (Block, error) {
	if size <= 0 {
		return Block{}, errors.Wrapf(ErrZeroSize, "alloc(%d)", size)
	}
	if a.stats.Allocated+size > a.limit {
		return Block{}, errors.Wrapf(ErrQuotaExceeded, "allocating %d bytes with %d of %d available",
			size, a.limit-a.stats.Allocated, a.limit)
	}

	a.nextID++
	b := Block{ID: a.nextID, Size: size}
	a.blocks[b.ID] = size
	a.stats.Allocs++
	a.grow(size)
	return b, nil
}

func (a *Allocator) Free(b Block) error {
	size, ok := a.blocks[b.ID]
	if !ok {
		return errors.Wrapf(ErrUntracked, "free(block %d)", b.ID)
	}
	delete(a.blocks, b.ID)
	a.stats.Allocated -= size
	a.stats.Frees++
	return nil
}

// Realloc resizes b. A zero Block is allocated fresh and a size of 0
// frees b. On failure b stays valid and unchanged.
func (a *Allocator) Realloc(b Block, size int) (Block, error) {
	if b.ID == 0 {
		return a.Alloc(size)
	}
	old, ok := a.blocks[b.ID]
	if !ok {
		return Block{}, errors.Wrapf(ErrUntracked, "realloc(block %d)", b.ID)
	}
	if size <= 0 {
		return Block{}, a.Free(b)
	}
	if size > old && a.stats.Allocated+size-old > a.limit {
		return b, errors.Wrapf(ErrQuotaExceeded, "growing block %d from %d to %d bytes with %d of %d available",
			b.ID, old, size, a.limit-a.stats.Allocated, a.limit)
	}

	a.blocks[b.ID] = size
	a.stats.Allocated -= old
	a.grow(size)
	return Block{ID: b.ID, Size: size}, nil
}

func (a *Allocator) grow(size int) {
	a.stats.Allocated += size
	if a.stats.Allocated > a.stats.Peak {
		a.stats.Peak = a.stats.Allocated
	}
	if pct := a.stats.Percent(); pct >= warnPercent {
		a.Log.Warn().
			Int("allocated", a.stats.Allocated).
			Int("limit", a.limit).
			Msgf("memory usage high: %.1f%%", pct)
	}
}

func (a *Allocator) Stats() Stats {
	return a.stats
}

// Leaks lists the blocks still allocated, oldest first.
func (a *Allocator) Leaks() []Block {
	out := make([]Block, 0, len(a.blocks))
	for id, size := range a.blocks {
		out = append(out, Block{ID: id, Size: size})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (a *Allocator) Report(w io.Writer) {
	s := a.stats
	fmt.Fprintln(w, "=== memory report ===")
	fmt.Fprintf(w, "allocated:   %d bytes (%.2f KB)\n", s.Allocated, float64(s.Allocated)/1024)
	fmt.Fprintf(w, "peak:        %d bytes (%.2f KB)\n", s.Peak, float64(s.Peak)/1024)
	fmt.Fprintf(w, "limit:       %d bytes (%.2f KB)\n", s.Limit, float64(s.Limit)/1024)
	fmt.Fprintf(w, "usage:       %.1f%%\n", s.Percent())
	fmt.Fprintf(w, "allocations: %d\n", s.Allocs)
	fmt.Fprintf(w, "frees:       %d\n", s.Frees)

	leaks := a.Leaks()
	if len(leaks) == 0 {
		fmt.Fprintln(w, "no leaks detected")
		return
	}
	total := 0
	for _, b := range leaks {
		total += b.Size
	}
	fmt.Fprintf(w, "leaks:       %d blocks, %d bytes\n", len(leaks), total)
}
