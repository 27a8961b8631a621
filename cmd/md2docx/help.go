package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2docx <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert markdown files to DOCX")
	fmt.Fprintln(w, "  cache       Manage the diagram cache")
	fmt.Fprintln(w, "  doctor      Check the diagram renderer and environment")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2docx help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2docx convert <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown files to DOCX. Mermaid code blocks become images.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown files or directories (optional if config has input.defaultDir)")
	fmt.Fprintln(w, "           A directory yields one document per .md file, or one merged")
	fmt.Fprintln(w, "           document with --merge.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-document timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --html                Write an HTML preview instead of .docx")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Diagrams:")
	fmt.Fprintln(w, "      --diagrams            Render mermaid diagrams (default)")
	fmt.Fprintln(w, "      --no-diagrams         Keep diagram code blocks as code")
	fmt.Fprintln(w, "      --renderer <path>     Renderer executable (default: mmdc)")
	fmt.Fprintln(w, "      --cache-dir <path>    Diagram cache directory")
	fmt.Fprintln(w, "      --diagram-lang <s>    Fence tag of diagram blocks (default: mermaid)")
	fmt.Fprintln(w, "      --diagram-scale <n>   Renderer scale factor (1-10)")
	fmt.Fprintln(w, "      --diagram-bg <s>      Renderer background colour")
	fmt.Fprintln(w, "      --strict-diagrams     Fail when a diagram cannot be rendered")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Merge:")
	fmt.Fprintln(w, "      --merge               Merge all inputs into one document")
	fmt.Fprintln(w, "      --separator <s>       Between files: pagebreak, rule, none")
	fmt.Fprintln(w, "      --sort <s>            Directory order: natural, lexical")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name|path>   Style set name or styles.xml path")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom style directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors and warnings")
	fmt.Fprintln(w, "  -v, --verbose             Show timing and cache statistics")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  MD2DOCX_CONFIG, MD2DOCX_RENDERER_BIN, MD2DOCX_CACHE_DIR, MD2DOCX_WORKERS,")
	fmt.Fprintln(w, "  MD2DOCX_SEPARATOR, MD2DOCX_INPUT_DIR, MD2DOCX_OUTPUT_DIR, MD2DOCX_STYLE,")
	fmt.Fprintln(w, "  MD2DOCX_TIMEOUT")
}

// printCacheUsage prints usage for the cache command.
func printCacheUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2docx cache <subcommand> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Manage rendered diagrams.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Subcommands:")
	fmt.Fprintln(w, "  clear    Delete every cached diagram")
	fmt.Fprintln(w, "  dir      Print the cache directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --cache-dir <path>    Diagram cache directory")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2docx doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the diagram renderer, cache directory and environment.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "cache":
		printCacheUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2docx version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2docx help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
