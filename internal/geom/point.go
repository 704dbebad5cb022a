// Package geom holds the stateless 2D math shared by the scene engine:
// angle conversion, point rotation, affine matrices and bounding boxes.
package geom

import "math"

// PiBy180 converts degrees to radians.
const PiBy180 = math.Pi / 180

// Point is a position in 2D space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Len returns the distance of p from the origin.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(degrees float64) float64 {
	return degrees * PiBy180
}

// RadiansToDegrees converts an angle in radians to degrees.
func RadiansToDegrees(radians float64) float64 {
	return radians / PiBy180
}

// RotatePoint rotates point about pivot by the given angle in radians.
func RotatePoint(point, pivot Point, radians float64) Point {
	sin, cos := math.Sincos(radians)

	p := point.Sub(pivot)
	rx := p.X*cos - p.Y*sin
	ry := p.X*sin + p.Y*cos

	return Point{X: rx, Y: ry}.Add(pivot)
}
