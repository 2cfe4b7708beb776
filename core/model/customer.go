package model

import "math"

// Point is a location in the plane.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Dist returns the euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Customer is a delivery request. Release is the instant the request becomes
// known to the dispatcher: 0 for static customers, >0 for dynamic ones.
type Customer struct {
	ID       int     `json:"id" yaml:"id"`
	Location Point   `json:"location" yaml:"location"`
	Demand   float64 `json:"demand" yaml:"demand"`
	Earliest float64 `json:"earliest" yaml:"earliest"`
	Latest   float64 `json:"latest" yaml:"latest"`
	Service  float64 `json:"service" yaml:"service"`
	Release  float64 `json:"release" yaml:"release"`
}

// Dynamic reports whether the customer is revealed after the start.
func (c Customer) Dynamic() bool { return c.Release > 0 }
