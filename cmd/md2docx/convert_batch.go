package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/fileutil"
)

// DocumentConverter is the subset of the library the CLI drives.
type DocumentConverter interface {
	ConvertFile(ctx context.Context, inputPath, outputPath string, opts md2docx.ConversionOptions) (*md2docx.ConvertResult, error)
	ConvertDirectory(ctx context.Context, inputDir, outputPath string, opts md2docx.ConversionOptions) (*md2docx.ConvertResult, error)
	ConvertFiles(ctx context.Context, paths []string, outputPath string, opts md2docx.ConversionOptions) (*md2docx.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ DocumentConverter = (*md2docx.Converter)(nil)

// ConversionResult holds the outcome of a single document.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Warnings   []md2docx.Warning
	Err        error
	Duration   time.Duration
}

// convertBatch converts files concurrently, at most workers at a time.
// Results keep the order of files. A cancelled context marks the files not
// yet started as failed.
func convertBatch(ctx context.Context, conv DocumentConverter, files []FileToConvert, opts md2docx.ConversionOptions, workers int) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	results := make([]ConversionResult, len(files))
	var g errgroup.Group
	g.SetLimit(min(max(workers, 1), len(files)))

	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = ConversionResult{InputPath: f.InputPath, OutputPath: f.OutputPath, Err: err}
				return nil
			}
			results[i] = convertFile(ctx, conv, f, opts)
			return nil
		})
	}

	// Workers never return errors; failures live in results.
	_ = g.Wait()
	return results
}

// convertFile converts a single file and returns the result.
func convertFile(ctx context.Context, conv DocumentConverter, f FileToConvert, opts md2docx.ConversionOptions) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}

	res, err := conv.ConvertFile(ctx, f.InputPath, f.OutputPath, opts)
	result.Duration = time.Since(start)
	if err != nil {
		result.Err = err
		return result
	}
	result.Warnings = res.Warnings
	return result
}

// convertMerged produces one document from all inputs. A single directory
// goes through ConvertDirectory; anything else is expanded and handed to
// ConvertFiles in the given order.
func convertMerged(ctx context.Context, conv DocumentConverter, inputs []string, output string, opts md2docx.ConversionOptions) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  inputs[0],
		OutputPath: output,
	}

	var res *md2docx.ConvertResult
	var err error
	if len(inputs) == 1 && fileutil.DirExists(inputs[0]) {
		res, err = conv.ConvertDirectory(ctx, inputs[0], output, opts)
	} else {
		var paths []string
		paths, err = expandInputs(inputs, opts.Compare)
		if err == nil {
			res, err = conv.ConvertFiles(ctx, paths, output, opts)
		}
	}

	result.Duration = time.Since(start)
	if err != nil {
		result.Err = err
		return result
	}
	result.Warnings = res.Warnings
	return result
}

// expandInputs flattens files and directories into one ordered path list.
func expandInputs(inputs []string, cmp md2docx.CompareFunc) ([]string, error) {
	var paths []string
	for _, input := range inputs {
		p, err := expandInput(input, cmp)
		if err != nil {
			return nil, err
		}
		paths = append(paths, p...)
	}
	return paths, nil
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Warnings  int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
		summary.Warnings += len(r.Warnings)
	}
	return summary
}

// printResults outputs conversion results. Failures and warnings go to
// stderr and are shown even in quiet mode.
func printResults(results []ConversionResult, quiet, verbose bool, env *Environment) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		for _, w := range r.Warnings {
			source := w.Source
			if source == "" {
				source = r.InputPath
			}
			fmt.Fprintf(env.Stderr, "WARN %s: %v\n", source, w)
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary
}
