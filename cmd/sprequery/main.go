/*
Sprequery matches a Spatial Regular Expression pattern against one or more
perception-stream JSON files (or standard input) and prints the matching
frame intervals.

Usage:

	sprequery [flags] PATTERN [STREAM_FILE ...]

The flags are:

	-v, --version
		Give the current version of sprequery and then exit.

	-n, --max-count N
		Cap the number of matches emitted per stream.

	-c, --channel NAME
		Select a sample by channel name. Defaults to the first sample of
		each frame.

	--export DIR
		Copy matched frames' images into DIR, one subdirectory per run.

	--config FILE
		Load a TOML configuration file. Flags always override its values.

	--cache DIR
		Cache compiled patterns under DIR, keyed by pattern source text.

With no STREAM_FILE arguments, sprequery reads a single stream from
standard input.
*/
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/pflag"

	"github.com/silvaine/sprestream/internal/annot"
	"github.com/silvaine/sprestream/internal/cache"
	"github.com/silvaine/sprestream/internal/config"
	"github.com/silvaine/sprestream/internal/export"
	"github.com/silvaine/sprestream/internal/match"
	"github.com/silvaine/sprestream/internal/spre"
	"github.com/silvaine/sprestream/internal/streamio"
	"github.com/silvaine/sprestream/internal/version"
)

const (
	// ExitMatch indicates at least one match was found.
	ExitMatch = iota

	// ExitNoMatch indicates the pattern matched nothing.
	ExitNoMatch

	// ExitUsage indicates a usage, pattern-compilation, or configuration
	// error; no matching was attempted.
	ExitUsage
)

var (
	returnCode     int
	flagVersion    = pflag.BoolP("version", "v", false, "Gives the version info")
	flagMaxCount   = pflag.IntP("max-count", "n", 0, "Cap the number of matches emitted per stream (0 = unlimited)")
	flagChannel    = pflag.StringP("channel", "c", "", "Select a sample by channel name (default: first sample)")
	flagExportDir  = pflag.String("export", "", "Copy matched frames' images into this directory")
	flagConfigFile = pflag.String("config", "", "Load a TOML configuration file")
	flagCacheDir   = pflag.String("cache", "", "Cache compiled patterns under this directory")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	args := pflag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "ERROR: missing PATTERN argument")
		returnCode = ExitUsage
		return
	}
	patternText := args[0]
	streamArgs := args[1:]
	if len(streamArgs) == 0 {
		streamArgs = []string{"-"}
	}

	cfg := config.Default()
	if *flagConfigFile != "" {
		loaded, err := config.Load(*flagConfigFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			returnCode = ExitUsage
			return
		}
		cfg = loaded
	}

	channel := cfg.Channel
	if *flagChannel != "" {
		channel = *flagChannel
	}
	cacheDir := cfg.CacheDir
	if *flagCacheDir != "" {
		cacheDir = *flagCacheDir
	}
	exportDir := cfg.ExportDir
	if *flagExportDir != "" {
		exportDir = *flagExportDir
	}

	compileOpts := spre.CompileOptions{DeterminizationThreshold: cfg.DeterminizationThreshold}

	pattern, err := loadPattern(patternText, compileOpts, cacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = ExitUsage
		return
	}

	var exporter *export.Exporter
	if exportDir != "" {
		exporter, err = export.New(exportDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			returnCode = ExitUsage
			return
		}
	}

	type hit struct {
		stream   string
		interval match.Interval
	}
	var hits []hit

	for _, streamArg := range streamArgs {
		name, r, baseDir, closeFn, err := openStream(streamArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s: %s\n", streamArg, err)
			continue
		}

		source, err := streamio.Open(name, r, baseDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			closeFn()
			continue
		}

		var rec *recordingSource
		var frames match.FrameSource = source
		if exporter != nil {
			rec = &recordingSource{inner: source}
			frames = rec
		}

		intervals, err := match.All(pattern, frames, match.Options{
			Channel:  channel,
			MaxCount: *flagMaxCount,
		})
		closeFn()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			continue
		}

		for _, iv := range intervals {
			hits = append(hits, hit{stream: name, interval: iv})
		}

		if exporter != nil {
			exportMatches(exporter, name, channel, rec.frames, intervals)
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].stream != hits[j].stream {
			return hits[i].stream < hits[j].stream
		}
		return hits[i].interval.Start < hits[j].interval.Start
	})

	for _, h := range hits {
		fmt.Printf("%s:%d-%d\n", h.stream, h.interval.Start, h.interval.End)
	}

	if len(hits) > 0 {
		returnCode = ExitMatch
	} else {
		returnCode = ExitNoMatch
	}
}

func loadPattern(text string, opts spre.CompileOptions, cacheDir string) (*spre.Pattern, error) {
	var pc *cache.Cache
	if cacheDir != "" {
		pc = cache.New(cacheDir)
		if cached, ok := pc.Load(text, opts); ok {
			return cached, nil
		}
	}

	pattern, err := spre.CompilePattern(text, opts)
	if err != nil {
		return nil, err
	}

	if pc != nil {
		if err := pc.Store(pattern); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: caching pattern: %s\n", err)
		}
	}

	return pattern, nil
}

// openStream resolves a CLI stream argument into a readable source, its
// display name, and the directory relative image paths resolve against.
func openStream(arg string) (name string, r io.Reader, baseDir string, closeFn func(), err error) {
	if arg == "-" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", nil, "", nil, err
		}
		return "stdin", os.Stdin, cwd, func() {}, nil
	}

	f, err := os.Open(arg)
	if err != nil {
		return "", nil, "", nil, err
	}
	return arg, f, filepath.Dir(arg), func() { f.Close() }, nil
}

// recordingSource wraps a match.FrameSource and retains every frame it has
// yielded, so that a completed run can go back and export the images of
// whichever frames ended up inside a match. Only built when --export is
// requested.
type recordingSource struct {
	inner  match.FrameSource
	frames []annot.Frame
}

func (r *recordingSource) Next() (annot.Frame, bool, error) {
	f, ok, err := r.inner.Next()
	if ok {
		r.frames = append(r.frames, f)
	}
	return f, ok, err
}

func exportMatches(e *export.Exporter, streamName, channel string, frames []annot.Frame, intervals []match.Interval) {
	for _, iv := range intervals {
		for pos := iv.Start; pos < iv.End && pos < len(frames); pos++ {
			frame := frames[pos]
			sample, ok := frame.Select(channel)
			if !ok {
				continue
			}
			if err := e.CopyFrame(streamName, frame, sample); err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
			}
		}
	}
}
