// Package types holds small value objects shared across modules.
package types

// ID is a numeric database identifier.
type ID int64

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
