// Package scenery indexes the airports found in installed scenery
// packages. Every direct child folder of the scenery root is a package;
// all BGL files below it are decoded and their airports tagged with the
// package id and file path.
package scenery

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/golang/geo/s2"
)

const earthRadiusKm = 6371.0088

// AirportScenery is an airport together with the file that provides it
type AirportScenery struct {
	PackageID   string    `json:"package_id"`
	BGLPath     string    `json:"bgl_path"`
	ICAO        string    `json:"icao"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Altitude    float64   `json:"altitude"`
	RunwayCount uint8     `json:"runway_count"`
	Modified    time.Time `json:"modified"`
}

// Cache is the persisted airport index
type Cache struct {
	path string

	BuildID  string           `json:"build_id,omitempty"`
	Built    time.Time        `json:"built"`
	Root     string           `json:"root,omitempty"`
	Airports []AirportScenery `json:"airports"`
}

// New creates an empty cache persisted at path
func New(path string) *Cache {
	return &Cache{path: path, Airports: make([]AirportScenery, 0)}
}

// Load reads the cache at path. A missing file yields an empty cache.
// Files ending in .zst, .lz4 or .xz are decompressed.
func Load(path string) (*Cache, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(path), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer f.Close()

	r, err := newDecompressor(path, bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	defer r.Close()

	cache := New(path)
	if err := json.NewDecoder(r).Decode(cache); err != nil {
		return nil, fmt.Errorf("decode cache %s: %w", path, err)
	}
	cache.path = path
	if cache.Airports == nil {
		cache.Airports = make([]AirportScenery, 0)
	}

	return cache, nil
}

// Save writes the cache to its path, compressed according to the file
// extension
func (c *Cache) Save() (err error) {
	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close cache: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	w, err := newCompressor(c.path, bw)
	if err != nil {
		return fmt.Errorf("create cache %s: %w", c.path, err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		w.Close()
		return fmt.Errorf("encode cache: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("compress cache: %w", err)
	}
	return bw.Flush()
}

// Path returns the file the cache is persisted to
func (c *Cache) Path() string { return c.path }

// All returns every cached airport
func (c *Cache) All() []AirportScenery { return c.Airports }

// IsEmpty reports whether the cache holds no airports
func (c *Cache) IsEmpty() bool { return len(c.Airports) == 0 }

// Lookup returns the airports with the given identifier, ignoring case
// and surrounding blanks
func (c *Cache) Lookup(icao string) []AirportScenery {
	icao = strings.TrimSpace(icao)
	var out []AirportScenery
	for _, a := range c.Airports {
		if strings.EqualFold(strings.TrimSpace(a.ICAO), icao) {
			out = append(out, a)
		}
	}
	return out
}

// Match is an airport with its great-circle distance from a query point
type Match struct {
	AirportScenery
	DistanceKm float64 `json:"distance_km"`
}

// Nearest returns up to n airports ordered by distance from lat/lon
func (c *Cache) Nearest(lat, lon float64, n int) []Match {
	if n <= 0 {
		return nil
	}

	from := s2.LatLngFromDegrees(lat, lon)
	matches := make([]Match, 0, len(c.Airports))
	for _, a := range c.Airports {
		to := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
		matches = append(matches, Match{
			AirportScenery: a,
			DistanceKm:     from.Distance(to).Radians() * earthRadiusKm,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DistanceKm < matches[j].DistanceKm
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	return matches
}
