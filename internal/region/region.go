// Package region represents the geographic area of interest. A region wraps
// an orb geometry and offers the two capabilities the rest of the system
// needs from it: bounding-box extraction and a stable fingerprint for cache
// keys.
package region

import (
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/geovale/cmip6-index-engine/internal/domain"
)

// Region is an immutable area of interest.
type Region struct {
	geometry orb.Geometry
}

// FromBounds builds a rectangular region from WGS-84 bounds. Longitude must
// lie in [-180,180], latitude in [-90,90], and min must be strictly below
// max on both axes.
func FromBounds(minLon, minLat, maxLon, maxLat float64) (Region, error) {
	if minLon < -180 || minLon > 180 || maxLon < -180 || maxLon > 180 {
		return Region{}, &domain.ValidationError{Msg: "longitude must be between -180 and 180"}
	}
	if minLat < -90 || minLat > 90 || maxLat < -90 || maxLat > 90 {
		return Region{}, &domain.ValidationError{Msg: "latitude must be between -90 and 90"}
	}
	if minLon >= maxLon || minLat >= maxLat {
		return Region{}, &domain.ValidationError{Msg: "min bounds must be less than max bounds"}
	}
	bound := orb.Bound{Min: orb.Point{minLon, minLat}, Max: orb.Point{maxLon, maxLat}}
	return Region{geometry: bound.ToPolygon()}, nil
}

// FromGeometry wraps an existing orb geometry.
func FromGeometry(g orb.Geometry) (Region, error) {
	if g == nil {
		return Region{}, &domain.ValidationError{Msg: "nil geometry"}
	}
	return Region{geometry: g}, nil
}

// LoadGeoJSON reads the first feature geometry from a GeoJSON file.
func LoadGeoJSON(path string) (Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Region{}, fmt.Errorf("reading geojson: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return Region{}, fmt.Errorf("parsing geojson: %w", err)
	}
	if len(fc.Features) == 0 {
		return Region{}, &domain.ValidationError{Msg: "geojson has no features"}
	}
	return FromGeometry(fc.Features[0].Geometry)
}

// Geometry returns the wrapped orb geometry.
func (r Region) Geometry() orb.Geometry { return r.geometry }

// Bound returns the region's bounding box.
func (r Region) Bound() orb.Bound { return r.geometry.Bound() }

// Center returns the bounding-box center as (lon, lat).
func (r Region) Center() orb.Point {
	b := r.geometry.Bound()
	return orb.Point{(b.Min[0] + b.Max[0]) / 2, (b.Min[1] + b.Max[1]) / 2}
}

// Area returns the planar area of the geometry in square degrees.
func (r Region) Area() float64 {
	return planar.Area(r.geometry)
}

// Fingerprint hashes the serialized geometry into a stable cache-key
// component. Two regions with equal geometry share a fingerprint regardless
// of object identity; WKB gives a canonical byte form to hash.
func (r Region) Fingerprint() (string, error) {
	data, err := wkb.Marshal(r.geometry)
	if err != nil {
		return "", fmt.Errorf("serializing region: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}
