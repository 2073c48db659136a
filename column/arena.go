package column

import (
	"fmt"

	"github.com/arloliu/strcol/internal/pool"
)

// Arena is the append-only byte store holding values longer than InlineSize.
//
// Records refer to arena bytes by offset, so growing the arena never invalidates them.
type Arena struct {
	buf    *pool.ByteBuffer
	pooled bool
}

// newArena takes the arena from the shared pool when capacity is the pool default.
func newArena(capacity int) *Arena {
	if capacity != pool.ArenaBufferDefaultSize {
		return &Arena{buf: pool.NewByteBuffer(capacity)}
	}

	buf := pool.GetArenaBuffer()
	buf.Grow(capacity)

	return &Arena{buf: buf, pooled: true}
}

// Len returns the number of used bytes, the arena watermark.
func (a *Arena) Len() int {
	return a.buf.Len()
}

// Cap returns the arena capacity.
func (a *Arena) Cap() int {
	return a.buf.Cap()
}

// Bytes returns the n bytes stored at off.
func (a *Arena) Bytes(off, n int) []byte {
	return a.buf.B[off : off+n]
}

func (a *Arena) reset() {
	a.buf.Reset()
}

// append copies value into the arena, growing it if needed, and returns its offset.
func (a *Arena) append(value []byte) int {
	off := a.buf.Len()
	a.buf.MustWrite(value)

	return off
}

// spare returns the writable region past the watermark. Bytes written there are not
// part of the arena until commit.
func (a *Arena) spare() []byte {
	return a.buf.Spare()
}

func (a *Arena) commit(n int) {
	if !a.buf.Extend(n) {
		invariant(fmt.Sprintf("arena commit of %d bytes exceeds %d available", n, a.buf.Available()))
	}
}

func (a *Arena) release() {
	if a.buf != nil && a.pooled {
		pool.PutArenaBuffer(a.buf)
	}
	a.buf = nil
}

// invariant aborts on a broken internal invariant. Such a failure is a defect, never bad input.
func invariant(msg string) {
	panic("strcol: invariant violated: " + msg)
}
