package powercom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFrameQueue_PeekAdvance(t *testing.T) {
	q := NewFrameQueue([]Frame{0xAA}, 8) // 0b10101010
	var bits []int
	for !q.Empty() {
		bits = append(bits, q.PeekBit())
		q.AdvanceBit()
	}
	assert.Equal(t, []int{1, 0, 1, 0, 1, 0, 1, 0}, bits)
}

func TestFrameQueue_AdvanceRollsToNextFrame(t *testing.T) {
	q := NewFrameQueue([]Frame{0x00, 0xFF}, 8)
	for i := 0; i < 8; i++ {
		require.False(t, q.Empty())
		q.AdvanceBit()
	}
	require.False(t, q.Empty())
	assert.Equal(t, 1, q.PeekBit())
	assert.Equal(t, 1, q.Remaining())
}

func TestFrameQueue_PullBitsZeroFillsAtEnd(t *testing.T) {
	q := NewFrameQueue([]Frame{0x1}, 8) // 0b00000001
	// consume 7 zero bits first
	bits := q.PullBits(7)
	assert.Equal(t, uint(0), bits)
	// the 8th bit is the lone '1'; pulling 4 more runs past the end
	bits = q.PullBits(4)
	assert.Equal(t, uint(0b1000), bits)
	assert.True(t, q.Empty())
}

func TestFrameQueue_PullBits_PropertyMatchesSequentialPeekAdvance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 64).Draw(t, "n")
		frames := rapid.SliceOfN(rapid.Uint32Range(0, 0xFF), 0, 16).Draw(t, "frames")
		width := uint(8)

		raw := make([]Frame, len(frames))
		for i, f := range frames {
			raw[i] = Frame(f)
		}

		q1 := NewFrameQueue(raw, width)
		q2 := NewFrameQueue(raw, width)

		var want uint
		for i := 0; i < n; i++ {
			want <<= 1
			if !q1.Empty() {
				want |= uint(q1.PeekBit())
				q1.AdvanceBit()
			}
		}

		got := q2.PullBits(n)
		assert.Equal(t, want, got)
	})
}
