package physics

// AABB is an axis-aligned box in world space.
type AABB struct {
	Min, Max Vec2
}

func NewAABB(min, max Vec2) AABB {
	return AABB{Min: min, Max: max}
}

// Rect builds an AABB from its top-left corner and size.
func Rect(x, y, width, height float64) AABB {
	return AABB{Min: Vec2{X: x, Y: y}, Max: Vec2{X: x + width, Y: y + height}}
}

func (b AABB) Width() float64 { return b.Max.X - b.Min.X }

func (b AABB) Height() float64 { return b.Max.Y - b.Min.Y }

func (b AABB) IsZero() bool { return b.Min.IsZero() && b.Max.IsZero() }

func (b AABB) Overlaps(other AABB) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y
}

func (b AABB) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

func (b AABB) Center() Vec2 {
	return Vec2{X: (b.Min.X + b.Max.X) * 0.5, Y: (b.Min.Y + b.Max.Y) * 0.5}
}

// Translate returns the box moved by d.
func (b AABB) Translate(d Vec2) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}
