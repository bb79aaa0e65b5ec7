package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/djherbis/times"
	"github.com/dyuri/bglconv/internal/codec"
	"github.com/dyuri/bglconv/internal/model"
	"github.com/dyuri/bglconv/internal/scenery"
	"github.com/dyuri/bglconv/internal/text"
	"github.com/dyuri/bglconv/pkg/bglconv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	logger        = logrus.New()
	verbose       bool
	noVerifyMagic bool
)

func decodeOptions() *bglconv.Options {
	return &bglconv.Options{
		SkipMagicCheck: noVerifyMagic,
		Logger:         logger,
	}
}

var rootCmd = &cobra.Command{
	Use:   "bglconv",
	Short: "Read airports from BGL scenery files",
	Long: `bglconv is a tool for working with BGL scenery files.

It decodes the airport records of a BGL container, lists the section
layout of a file, and builds a searchable airport index from a folder
of installed scenery packages.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetOutput(cmd.ErrOrStderr())
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}
	},
}

func init() {
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log container structure while decoding")
	rootCmd.PersistentFlags().BoolVar(&noVerifyMagic, "no-verify-magic", false, "Accept files with an unknown header magic")

	rootCmd.AddCommand(airportsCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(nearestCmd)
	rootCmd.AddCommand(versionCmd)
}

// airports command
var airportsCmd = &cobra.Command{
	Use:   "airports <input.bgl>",
	Short: "List the airports of a BGL file",
	Args:  cobra.ExactArgs(1),
	RunE:  runAirports,
}

func init() {
	airportsCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	airportsCmd.Flags().Bool("json", false, "Output as JSON")
	airportsCmd.Flags().String("icao", "", "Only list the airport with this identifier")
}

func runAirports(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	icao, _ := cmd.Flags().GetString("icao")

	icao = strings.ToUpper(strings.TrimSpace(icao))
	if icao != "" && !codec.ValidIdent(icao) {
		return fmt.Errorf("invalid identifier %q: use letters, digits and spaces", icao)
	}

	bgl, err := bglconv.ParseFile(inputPath, decodeOptions())
	if err != nil {
		return fmt.Errorf("parse BGL file: %w", err)
	}

	var airports []*model.Airport
	for _, ap := range bgl.Airports() {
		if icao != "" && strings.TrimSpace(ap.ICAO) != icao {
			continue
		}
		if !ap.InRange() {
			logger.WithFields(logrus.Fields{
				"icao":      ap.ICAO,
				"latitude":  ap.Latitude,
				"longitude": ap.Longitude,
			}).Warn("airport coordinates out of range")
		}
		airports = append(airports, ap)
	}

	out, closeOut, err := openOutput(cmd, outputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	if jsonOutput {
		if airports == nil {
			airports = []*model.Airport{}
		}
		return writeJSON(out, airports)
	}
	return text.NewWriter(out).WriteAirports(airports)
}

// info command
var infoCmd = &cobra.Command{
	Use:   "info <input.bgl>",
	Short: "Show BGL header and section layout",
	Long: `Show the header and section directory of a BGL file.

Every section is listed with its kind, subsection stride and counts,
including kinds that bglconv does not decode, and the type of the first
record stored in it.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().Bool("json", false, "Output as JSON")
	infoCmd.Flags().Bool("brief", false, "Show only summary")
}

func runInfo(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")
	brief, _ := cmd.Flags().GetBool("brief")

	ts, err := times.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("stat input file: %w", err)
	}
	stat, err := os.Stat(inputPath)
	if err != nil {
		return fmt.Errorf("stat input file: %w", err)
	}

	bgl, err := bglconv.InspectFile(inputPath, decodeOptions())
	if err != nil {
		return fmt.Errorf("inspect BGL file: %w", err)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, layoutJSON(inputPath, bgl, stat.Size(), ts))
	}

	if brief {
		var decodable int
		for _, sec := range bgl.Sections {
			if sec.Kind == model.SectionAirport {
				decodable++
			}
		}
		_, err := fmt.Fprintf(out, "%s: sections=%d airport-sections=%d size=%d\n",
			inputPath, len(bgl.Sections), decodable, stat.Size())
		return err
	}

	fmt.Fprintf(out, "BGL File: %s\n", inputPath)
	fmt.Fprintln(out, strings.Repeat("=", 50))
	fmt.Fprintf(out, "Modified: %s\n", ts.ModTime().Format(time.RFC3339))
	if ts.HasBirthTime() {
		fmt.Fprintf(out, "Created:  %s\n", ts.BirthTime().Format(time.RFC3339))
	}
	fmt.Fprintln(out)

	return text.NewWriter(out).WriteLayout(bgl, stat.Size())
}

func layoutJSON(path string, bgl *model.BGLFile, size int64, ts times.Timespec) map[string]interface{} {
	sections := make([]map[string]interface{}, len(bgl.Sections))
	for i, sec := range bgl.Sections {
		subs := make([]map[string]interface{}, len(sec.Subsections))
		for j, sub := range sec.Subsections {
			subs[j] = map[string]interface{}{
				"records":    sub.RecordCount,
				"dataOffset": sub.DataOffset,
				"dataSize":   sub.DataSize,
				"recordTag":  fmt.Sprintf("0x%x", sub.RecordTag),
				"recordKind": sub.RecordKind.String(),
			}
		}
		sections[i] = map[string]interface{}{
			"tag":         fmt.Sprintf("0x%x", sec.Tag),
			"kind":        sec.Kind.String(),
			"strideRaw":   sec.StrideRaw,
			"stride":      sec.Stride,
			"tableOffset": sec.TableOffset,
			"totalSize":   sec.TotalSize,
			"subsections": subs,
		}
	}

	return map[string]interface{}{
		"file":     path,
		"size":     size,
		"modified": ts.ModTime().UTC(),
		"header": map[string]interface{}{
			"magic":        fmt.Sprintf("0x%08x", bgl.Header.Magic),
			"headerSize":   bgl.Header.HeaderSize,
			"sectionCount": bgl.Header.SectionCount,
		},
		"sections": sections,
	}
}

// scan command
var scanCmd = &cobra.Command{
	Use:   "scan <scenery-root>",
	Short: "Build an airport index from installed scenery packages",
	Long: `Build an airport index from a folder of scenery packages.

Every direct subfolder of the root is a package. All .bgl files inside
a package are decoded; files that cannot be read are reported and
skipped. The index is written as JSON, compressed when the output name
ends in .zst, .lz4 or .xz.`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringP("output", "o", "scenery-cache.json", "Cache file")
	scanCmd.Flags().IntP("jobs", "j", 0, "Files decoded in parallel (default: number of CPUs)")
}

func runScan(cmd *cobra.Command, args []string) error {
	root := args[0]
	outputPath, _ := cmd.Flags().GetString("output")
	jobs, _ := cmd.Flags().GetInt("jobs")

	cache := scenery.New(outputPath)
	err := cache.Build(cmd.Context(), root, scenery.BuildOptions{
		Jobs:   jobs,
		Decode: decodeOptions(),
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("build scenery cache: %w", err)
	}

	if err := cache.Save(); err != nil {
		return fmt.Errorf("save scenery cache: %w", err)
	}

	packages := make(map[string]struct{})
	for _, ap := range cache.All() {
		packages[ap.PackageID] = struct{}{}
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d airports from %d packages into %s\n",
		len(cache.All()), len(packages), outputPath)
	return err
}

// nearest command
var nearestCmd = &cobra.Command{
	Use:   "nearest <cache>",
	Short: "Find the indexed airports closest to a position",
	Args:  cobra.ExactArgs(1),
	RunE:  runNearest,
}

func init() {
	nearestCmd.Flags().Float64("lat", 0, "Latitude in degrees")
	nearestCmd.Flags().Float64("lon", 0, "Longitude in degrees")
	nearestCmd.Flags().IntP("count", "n", 5, "Number of airports to show")
	nearestCmd.Flags().Bool("json", false, "Output as JSON")
	_ = nearestCmd.MarkFlagRequired("lat")
	_ = nearestCmd.MarkFlagRequired("lon")
}

func runNearest(cmd *cobra.Command, args []string) error {
	cachePath := args[0]
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")
	count, _ := cmd.Flags().GetInt("count")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("position %g,%g is not on the globe", lat, lon)
	}

	cache, err := scenery.Load(cachePath)
	if err != nil {
		return fmt.Errorf("load scenery cache: %w", err)
	}
	if cache.IsEmpty() {
		return fmt.Errorf("scenery cache %s is empty, run scan first", cachePath)
	}

	matches := cache.Nearest(lat, lon, count)
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, matches)
	}

	for _, m := range matches {
		if _, err := fmt.Fprintf(out, "%-4s  %8.1f km  %-24s %s\n",
			strings.TrimSpace(m.ICAO), m.DistanceKm, m.PackageID, m.BGLPath); err != nil {
			return err
		}
	}
	return nil
}

// version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "bglconv version %s\n", version)
		fmt.Fprintf(out, "commit: %s\n", commit)
		fmt.Fprintf(out, "built: %s\n", date)
	},
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
