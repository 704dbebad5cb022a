package geom

import "math"

// Matrix2D represents a 2D affine transformation matrix.
// Layout: [a, b, c, d, e, f] representing:
// | a  c  e |
// | b  d  f |
// | 0  0  1 |
//
// Where:
// - a, d = scale
// - b, c = skew/rotation
// - e, f = translation
type Matrix2D [6]float64

// Identity returns the identity matrix.
func Identity() Matrix2D {
	return Matrix2D{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix2D {
	return Matrix2D{1, 0, 0, 1, tx, ty}
}

// Scale returns a scale matrix.
func Scale(sx, sy float64) Matrix2D {
	return Matrix2D{sx, 0, 0, sy, 0, 0}
}

// Rotate returns a rotation matrix (angle in radians).
func Rotate(radians float64) Matrix2D {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return Matrix2D{cos, sin, -sin, cos, 0, 0}
}

// RotateDegrees returns a rotation matrix (angle in degrees).
func RotateDegrees(degrees float64) Matrix2D {
	return Rotate(DegreesToRadians(degrees))
}

// SkewX returns a horizontal shear matrix (angle in degrees).
func SkewX(degrees float64) Matrix2D {
	return Matrix2D{1, 0, math.Tan(DegreesToRadians(degrees)), 1, 0, 0}
}

// SkewY returns a vertical shear matrix (angle in degrees).
func SkewY(degrees float64) Matrix2D {
	return Matrix2D{1, math.Tan(DegreesToRadians(degrees)), 0, 1, 0, 0}
}

// Multiply multiplies this matrix by another: result = m * other
// This applies 'other' first, then 'm'.
func (m Matrix2D) Multiply(other Matrix2D) Matrix2D {
	return Matrix2D{
		m[0]*other[0] + m[2]*other[1],        // a
		m[1]*other[0] + m[3]*other[1],        // b
		m[0]*other[2] + m[2]*other[3],        // c
		m[1]*other[2] + m[3]*other[3],        // d
		m[0]*other[4] + m[2]*other[5] + m[4], // e
		m[1]*other[4] + m[3]*other[5] + m[5], // f
	}
}

// TransformPoint applies the matrix to a point.
func (m Matrix2D) TransformPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// TransformPoint applies m to p. With ignoreTranslation set, e and f are
// dropped, which is what size-only transforms want.
func TransformPoint(p Point, m Matrix2D, ignoreTranslation bool) Point {
	if ignoreTranslation {
		return Point{
			X: m[0]*p.X + m[2]*p.Y,
			Y: m[1]*p.X + m[3]*p.Y,
		}
	}
	x, y := m.TransformPoint(p.X, p.Y)
	return Point{X: x, Y: y}
}

// Determinant returns the determinant of the matrix.
func (m Matrix2D) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert returns the inverse of the matrix, or Identity if not invertible.
func (m Matrix2D) Invert() Matrix2D {
	det := m.Determinant()
	if det == 0 {
		return Identity()
	}

	invDet := 1.0 / det
	return Matrix2D{
		m[3] * invDet,
		-m[1] * invDet,
		-m[2] * invDet,
		m[0] * invDet,
		(m[2]*m[5] - m[3]*m[4]) * invDet,
		(m[1]*m[4] - m[0]*m[5]) * invDet,
	}
}

// ToSlice returns the matrix as a float64 slice for JSON serialization.
func (m Matrix2D) ToSlice() []float64 {
	return []float64{m[0], m[1], m[2], m[3], m[4], m[5]}
}

// IsIdentity checks if this is the identity matrix (within epsilon).
func (m Matrix2D) IsIdentity() bool {
	const eps = 1e-10
	return math.Abs(m[0]-1) < eps &&
		math.Abs(m[1]) < eps &&
		math.Abs(m[2]) < eps &&
		math.Abs(m[3]-1) < eps &&
		math.Abs(m[4]) < eps &&
		math.Abs(m[5]) < eps
}

// DimensionsOptions are the size-only parts of a shape's transform.
type DimensionsOptions struct {
	ScaleX float64
	ScaleY float64
	FlipX  bool
	FlipY  bool
	SkewX  float64 // degrees
	SkewY  float64 // degrees
}

// ComposeDimensionsMatrix builds the matrix that sizes (never positions) a
// shape: a scale matrix, negated on flipped axes, combined with a shear for
// each skewed axis. Translation terms are always zero.
func ComposeDimensionsMatrix(opts DimensionsOptions) Matrix2D {
	sx, sy := opts.ScaleX, opts.ScaleY
	if opts.FlipX {
		sx = -sx
	}
	if opts.FlipY {
		sy = -sy
	}

	m := Scale(sx, sy)
	if opts.SkewX != 0 {
		m = m.Multiply(SkewX(opts.SkewX))
	}
	if opts.SkewY != 0 {
		m = m.Multiply(SkewY(opts.SkewY))
	}
	return m
}

// SizeAfterTransform returns the width and height of the axis-aligned
// envelope of a w×h box, centered on the origin, after it is run through the
// dimensions matrix.
func SizeAfterTransform(w, h float64, opts DimensionsOptions) Point {
	dimX, dimY := w/2, h/2
	m := ComposeDimensionsMatrix(opts)
	bbox := BoundingBoxFromPoints([]Point{
		{X: -dimX, Y: -dimY},
		{X: dimX, Y: -dimY},
		{X: -dimX, Y: dimY},
		{X: dimX, Y: dimY},
	}, &m)
	return Point{X: bbox.Width, Y: bbox.Height}
}
