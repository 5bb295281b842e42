package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"chardump/internal/config"
	"chardump/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	count      int
	start      int64
	limit      int64
	ignore     bool
	reverse    bool
	encoding   string
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "chardump [flags] [FILENAME ...]",
	Short: "Unicode-aware hexdump and its reverse",
	Long: `chardump prints the contents of the given files as character codepoints,
similar to xxd but Unicode-aware. With multiple arguments the files'
contents are concatenated. With no arguments, or when FILENAME is -,
standard input is read. Files ending in .gz are decompressed on the fly.

With --reverse, previously dumped output is converted back into the
exact original bytes, including raw bytes that never decoded.`,
	Version:       "1.1",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}

		cfg, err := resolveSettings(cmd, args)
		if err != nil {
			return err
		}

		p, err := pipeline.New(cfg)
		if err != nil {
			return err
		}
		return p.Run()
	},
}

// resolveSettings layers the defaults file under the flags and
// validates the result before any I/O happens.
func resolveSettings(cmd *cobra.Command, args []string) (config.Settings, error) {
	cfg := config.Default()

	path := configPath
	if path == "" {
		if p := config.DefaultFilePath(); p != "" {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path != "" {
		f, err := config.LoadFile(path)
		if err != nil {
			return cfg, err
		}
		cfg.Apply(f)
	}

	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.LineWidth = count
	}
	if flags.Changed("ignore") {
		cfg.Tolerant = ignore
	}
	if flags.Changed("encoding") {
		cfg.Encoding = encoding
	}
	cfg.StartOffset = start
	if flags.Changed("limit") {
		cfg.MaxChars = limit
	}
	cfg.Reverse = reverse
	if len(args) > 0 {
		cfg.Sources = args
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	cfg.ResolveLineWidth(int(os.Stdout.Fd()))
	return cfg, nil
}

func init() {
	flags := rootCmd.Flags()
	flags.IntVarP(&count, "count", "c", 8, "Characters per line of dump output (0 sizes to the terminal)")
	flags.Int64VarP(&start, "start", "s", 0, "Start N characters after the beginning of the input")
	flags.Int64VarP(&limit, "limit", "l", 0, "Stop after N characters of input")
	flags.BoolVarP(&ignore, "ignore", "i", false, "Treat invalid byte sequences as individual raw bytes")
	flags.BoolVarP(&reverse, "reverse", "r", false, "Reverse operation: convert dump output back to characters")
	flags.StringVar(&encoding, "encoding", "", "Text encoding by IANA name (default UTF-8)")
	flags.StringVar(&configPath, "config", "", "Defaults file (default: the user config directory)")
	flags.BoolVar(&verbose, "verbose", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// per-source failures were already reported line by line
		if !errors.Is(err, pipeline.ErrSourceFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
