package scenery

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/djherbis/times"
	"github.com/dyuri/bglconv/internal/model"
	"github.com/dyuri/bglconv/pkg/bglconv"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// BuildOptions controls how a cache is built
type BuildOptions struct {
	// Jobs limits concurrent file decodes. Zero means GOMAXPROCS.
	Jobs int

	// Decode is passed to the decoder for every file
	Decode *bglconv.Options

	// Logger receives per-file progress and failures
	Logger logrus.FieldLogger
}

type bglFile struct {
	packageID string
	path      string
}

// Build replaces the cache contents with the airports found below root.
// Files that fail to decode are logged and skipped.
func (c *Cache) Build(ctx context.Context, root string, opts BuildOptions) error {
	log := opts.Logger
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	files, err := findBGLFiles(root, log)
	if err != nil {
		return err
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([][]AirportScenery, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = decodeFile(file, opts.Decode, log)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	airports := make([]AirportScenery, 0)
	for _, r := range results {
		airports = append(airports, r...)
	}
	sort.SliceStable(airports, func(i, j int) bool {
		a, b := airports[i], airports[j]
		if a.PackageID != b.PackageID {
			return a.PackageID < b.PackageID
		}
		if a.BGLPath != b.BGLPath {
			return a.BGLPath < b.BGLPath
		}
		return a.ICAO < b.ICAO
	})

	c.Airports = airports
	c.Root = root
	c.Built = time.Now().UTC()
	c.BuildID = uuid.NewString()

	log.WithFields(logrus.Fields{
		"files":    len(files),
		"airports": len(airports),
		"build_id": c.BuildID,
	}).Info("scenery cache built")
	return nil
}

func decodeFile(file bglFile, opts *bglconv.Options, log logrus.FieldLogger) []AirportScenery {
	flog := log.WithFields(logrus.Fields{"package": file.packageID, "file": file.path})

	objs, err := bglconv.DecodeFile(file.path, opts)
	if err != nil {
		flog.WithError(err).Warn("skipping unreadable BGL file")
		return nil
	}

	var modified time.Time
	if ts, err := times.Stat(file.path); err == nil {
		modified = ts.ModTime().UTC()
	}

	var out []AirportScenery
	for _, obj := range objs {
		switch o := obj.(type) {
		case *model.Airport:
			if !o.InRange() {
				flog.WithField("icao", o.ICAO).Warn("airport coordinates out of range")
			}
			out = append(out, AirportScenery{
				PackageID:   file.packageID,
				BGLPath:     file.path,
				ICAO:        o.ICAO,
				Latitude:    o.Latitude,
				Longitude:   o.Longitude,
				Altitude:    o.Altitude,
				RunwayCount: o.RunwayCount,
				Modified:    modified,
			})
		}
	}

	flog.WithField("airports", len(out)).Debug("decoded")
	return out
}

// findBGLFiles lists the BGL files of every package folder under root
func findBGLFiles(root string, log logrus.FieldLogger) ([]bglFile, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read scenery root: %w", err)
	}

	var files []bglFile
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		packageID := entry.Name()
		dir := filepath.Join(root, packageID)

		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.WithError(err).WithField("path", path).Warn("skipping unreadable path")
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".bgl") {
				files = append(files, bglFile{packageID: packageID, path: path})
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, err)
		}
	}

	return files, nil
}
