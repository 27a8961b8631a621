package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/hints"
)

// runCacheCmd handles "cache clear" and "cache dir".
func runCacheCmd(args []string, env *Environment) error {
	if len(args) == 0 {
		printCacheUsage(env.Stdout)
		return nil
	}

	sub := args[0]
	if sub == "-h" || sub == "--help" {
		printCacheUsage(env.Stdout)
		return nil
	}
	fs := flag.NewFlagSet("cache", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() { printCacheUsage(env.Stdout) }
	var cacheDir string
	var quiet bool
	fs.StringVar(&cacheDir, "cache-dir", "", "diagram cache directory")
	fs.BoolVarP(&quiet, "quiet", "q", false, "only show errors")
	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if cacheDir == "" {
		cacheDir = loadEnvConfig().CacheDir
	}

	conv, err := md2docx.NewConverter(append([]md2docx.Option{md2docx.WithCacheDir(cacheDir)}, env.Options...)...)
	if err != nil {
		return err
	}

	switch sub {
	case "clear":
		n, err := conv.ClearCache()
		if err != nil {
			return withHint(err, hints.ForCacheDirectory(envCacheDir))
		}
		if !quiet {
			fmt.Fprintf(env.Stdout, "Removed %d cached diagram(s) from %s\n", n, conv.CacheDir())
		}
	case "dir":
		fmt.Fprintln(env.Stdout, conv.CacheDir())
	default:
		printCacheUsage(env.Stderr)
		return fmt.Errorf("%w: unknown cache subcommand %q", ErrUsage, sub)
	}
	return nil
}
