package physics

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Digest hashes the position, velocity and static flag of every body in sweep
// order. Two worlds fed the same inputs produce the same digest on the same
// platform.
func (w *World) Digest() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 33)
	w.Each(func(_ Handle, b *Body) bool {
		buf = buf[:0]
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(b.position.X))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(b.position.Y))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(b.velocity.X))
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(b.velocity.Y))
		if b.static {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		_, _ = d.Write(buf)
		return true
	})
	return d.Sum64()
}
