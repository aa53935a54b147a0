package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	flag "github.com/spf13/pflag"

	"dumpcarve/internal/carve"
	"dumpcarve/internal/convert"
	"dumpcarve/internal/dump"
	"dumpcarve/internal/format"
	"dumpcarve/internal/report"
)

const Version = "0.3.0"

var (
	versionFlag = flag.Bool("version", false, "Print version information")
	outFlag     = flag.StringP("out", "o", "carved", "Output directory root")
	configFlag  = flag.StringP("config", "c", "", "YAML options profile")
	formatsFlag = flag.String("formats", "", "Comma-separated format id globs to carve (empty = all)")
	workersFlag = flag.IntP("workers", "w", 0, "Scan workers (0 = one per physical core)")
	capFlag     = flag.Int("cap", 0, "Max extracted entries per format (0 = unlimited)")
	convertFlag = flag.Bool("convert", false, "Write PC-converted copies next to carved entries")
	verboseFlag = flag.BoolP("verbose", "v", false, "Log every extracted entry")
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = printUsage
	flag.Parse()

	if *versionFlag {
		fmt.Printf("dumpcarve version %s\n", Version)
		return 0
	}
	if flag.NArg() != 1 {
		printUsage()
		return 1
	}
	inputFile := flag.Arg(0)

	opts, err := loadOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading options: %v\n", err)
		return 1
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	buf, err := dump.Read(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading dump: %v\n", err)
		return 1
	}

	ledgerPath := filepath.Join(opts.OutputRoot, report.LedgerName)
	ledger, err := report.LoadLedger(ledgerPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ledger: %v\n", err)
		return 1
	}

	var converters map[format.Category]convert.Converter
	if opts.Convert {
		converters = convert.Default()
	}
	o, err := carve.New(format.Default(), opts, log, converters)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Carving %s (%s) into %s\n", inputFile, humanize.IBytes(uint64(len(buf))), opts.OutputRoot)
	if ledger.Len() > 0 {
		fmt.Printf("Resuming against ledger with %d known entries\n", ledger.Len())
	}

	startTime := time.Now()
	summary, _, runErr := o.Run(ctx, buf, ledger)
	elapsed := time.Since(startTime)

	if summary != nil {
		report.Print(os.Stdout, summary)
		if err := ledger.Save(ledgerPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving ledger: %v\n", err)
		}
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Carving aborted: %v\n", runErr)
		return 1
	}

	fmt.Printf("\nCompleted in %s\n", elapsed.Round(time.Millisecond))
	return 0
}

// loadOptions merges the optional YAML profile with the command line;
// flags given explicitly win over the profile.
func loadOptions() (*carve.Options, error) {
	opts := &carve.Options{}
	if *configFlag != "" {
		loaded, err := carve.LoadOptions(*configFlag)
		if err != nil {
			return nil, err
		}
		opts = loaded
	}

	if flag.CommandLine.Changed("out") || opts.OutputRoot == "" {
		opts.OutputRoot = *outFlag
	}
	if flag.CommandLine.Changed("workers") {
		opts.Workers = *workersFlag
	}
	if flag.CommandLine.Changed("cap") {
		opts.PerTypeCap = *capFlag
	}
	if flag.CommandLine.Changed("formats") {
		opts.Formats = nil
		for _, pattern := range strings.Split(*formatsFlag, ",") {
			if pattern = strings.TrimSpace(pattern); pattern != "" {
				opts.Formats = append(opts.Formats, pattern)
			}
		}
	}
	if *convertFlag {
		opts.Convert = true
	}
	if *verboseFlag {
		opts.Verbose = true
	}
	return opts, nil
}

func printUsage() {
	fmt.Println(`dumpcarve - carves game assets out of console memory dumps.
Version:`, Version, `
Usage: dumpcarve [flags] <dump_file>

Flags:`)
	flag.PrintDefaults()
}
