package main

import (
	"fmt"
	"io"
	"strings"
)

const programName = "md2docx"

// commandNames returns the registry's command names in order.
func commandNames(cmds []commandDef) []string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// flagWords returns every spelling of every flag ("--output", "-o").
func flagWords(flags []flagDef) []string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// globs splits a comma-separated glob list.
func globs(pattern string) []string {
	var out []string
	for _, g := range strings.Split(pattern, ",") {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func generateBash(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	fmt.Fprintf(&b, "# bash completion for %s\n", programName)
	b.WriteString("shopt -s extglob\n\n")
	fmt.Fprintf(&b, "_%s() {\n", programName)
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"${cur}\") $(compgen -f -X '!*.md' -- \"${cur}\") )\n", strings.Join(commandNames(cmds), " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		writeBashFlagValues(&b, c.Flags)
		if len(c.Flags) > 0 {
			b.WriteString("        if [[ ${cur} == -* ]]; then\n")
			fmt.Fprintf(&b, "            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(flagWords(c.Flags), " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n", strings.Join(c.Args, " "))
		case c.TakesFiles:
			fmt.Fprintf(&b, "        COMPREPLY=( $(compgen -f -X %s -- \"${cur}\") $(compgen -d -- \"${cur}\") )\n", bashExclude(c.FilePattern))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "complete -o filenames -F _%s %s\n", programName, programName)

	_, err := io.WriteString(w, b.String())
	return err
}

// writeBashFlagValues completes the value after a flag that takes one.
func writeBashFlagValues(b *strings.Builder, flags []flagDef) {
	var cases []string
	for _, f := range flags {
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern += "|-" + f.Short
		}
		var action string
		switch f.Type {
		case flagEnum:
			action = fmt.Sprintf("COMPREPLY=( $(compgen -W %q -- \"${cur}\") )", strings.Join(f.Values, " "))
		case flagDir:
			action = "COMPREPLY=( $(compgen -d -- \"${cur}\") )"
		case flagFile:
			action = fmt.Sprintf("COMPREPLY=( $(compgen -f -X %s -- \"${cur}\") $(compgen -d -- \"${cur}\") )", bashExclude(f.FileGlob))
		case flagString, flagInt, flagFloat:
			action = "COMPREPLY=()"
		default:
			continue
		}
		cases = append(cases, fmt.Sprintf("            %s) %s; return ;;\n", pattern, action))
	}
	if len(cases) == 0 {
		return
	}
	b.WriteString("        case \"${prev}\" in\n")
	for _, c := range cases {
		b.WriteString(c)
	}
	b.WriteString("        esac\n")
}

// bashExclude builds a compgen -X filter keeping only files matching pattern.
func bashExclude(pattern string) string {
	g := globs(pattern)
	switch len(g) {
	case 0:
		return "''"
	case 1:
		if g[0] == "*" {
			return "''"
		}
		return "'!" + g[0] + "'"
	}
	return "'!@(" + strings.Join(g, "|") + ")'"
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

func generateZsh(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	fmt.Fprintf(&b, "#compdef %s\n\n", programName)
	fmt.Fprintf(&b, "_%s() {\n", programName)
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        _files -g '*.md'\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    local cmd=${words[2]}\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")
	b.WriteString("    case ${cmd} in\n")

	for _, c := range cmds {
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        _arguments")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, " \\\n            %s", zshFlagSpec(f))
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, " \\\n            '1:argument:(%s)'", strings.Join(c.Args, " "))
		case c.TakesFiles:
			fmt.Fprintf(&b, " \\\n            '*:file:_files -g \"%s\"'", zshGlob(c.FilePattern))
		}
		b.WriteString("\n        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	fmt.Fprintf(&b, "compdef _%s %s\n", programName, programName)

	_, err := io.WriteString(w, b.String())
	return err
}

// zshFlagSpec renders one _arguments spec.
func zshFlagSpec(f flagDef) string {
	desc := zshEscape(f.Desc)

	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagDir:
		action = fmt.Sprintf(":%s:_files -/", f.Long)
	case flagFile:
		action = fmt.Sprintf(":%s:_files -g \"%s\"", f.Long, zshGlob(f.FileGlob))
	default:
		action = fmt.Sprintf(":%s: ", f.Long)
	}

	if f.Short == "" {
		return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

// zshGlob converts "*.yaml,*.yml" to "*.(yaml|yml)"-style alternation.
func zshGlob(pattern string) string {
	g := globs(pattern)
	if len(g) <= 1 {
		return strings.Join(g, "")
	}
	return "(" + strings.Join(g, "|") + ")"
}

// zshEscape escapes characters special inside a single-quoted _arguments spec.
func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func generateFish(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	fmt.Fprintf(&b, "# fish completion for %s\n", programName)
	fmt.Fprintf(&b, "complete -c %s -f\n\n", programName)

	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c %s -n __fish_use_subcommand -a %s -d %s\n", programName, c.Name, fishQuote(c.Desc))
	}
	fmt.Fprintf(&b, "complete -c %s -n __fish_use_subcommand -k -a '(__fish_complete_suffix .md)'\n", programName)

	for _, c := range cmds {
		cond := fishQuote("__fish_seen_subcommand_from " + c.Name)
		b.WriteString("\n")
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c %s -n %s", programName, cond)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			fmt.Fprintf(&b, " -l %s", f.Long)
			switch f.Type {
			case flagBool:
			case flagEnum:
				fmt.Fprintf(&b, " -x -a %s", fishQuote(strings.Join(f.Values, " ")))
			case flagDir:
				b.WriteString(" -x -a '(__fish_complete_directories)'")
			case flagFile:
				b.WriteString(" -r -F")
			default:
				b.WriteString(" -x")
			}
			fmt.Fprintf(&b, " -d %s\n", fishQuote(f.Desc))
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(&b, "complete -c %s -n %s -a %s\n", programName, cond, fishQuote(strings.Join(c.Args, " ")))
		case c.TakesFiles:
			for _, g := range globs(c.FilePattern) {
				fmt.Fprintf(&b, "complete -c %s -n %s -k -a '(__fish_complete_suffix %s)'\n", programName, cond, strings.TrimPrefix(g, "*"))
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// fishQuote single-quotes s for fish.
func fishQuote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, "'", `\'`).Replace(s) + "'"
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func generatePowerShell(w io.Writer) error {
	cmds := getCommands()
	var b strings.Builder

	fmt.Fprintf(&b, "# PowerShell completion for %s\n", programName)
	b.WriteString("$md2docxCommands = @{\n")
	for _, c := range cmds {
		words := append(flagWords(c.Flags), c.Args...)
		fmt.Fprintf(&b, "    '%s' = @(%s)\n", c.Name, psList(words))
	}
	b.WriteString("}\n")
	b.WriteString("$md2docxValues = @{\n")
	for _, c := range cmds {
		for _, f := range c.Flags {
			if f.Type != flagEnum {
				continue
			}
			fmt.Fprintf(&b, "    '--%s' = @(%s)\n", f.Long, psList(f.Values))
			if f.Short != "" {
				fmt.Fprintf(&b, "    '-%s' = @(%s)\n", f.Short, psList(f.Values))
			}
		}
	}
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "Register-ArgumentCompleter -Native -CommandName %s -ScriptBlock {\n", programName)
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n")
	b.WriteString("    $tokens = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	b.WriteString("    if ($wordToComplete) { $tokens = $tokens[0..($tokens.Count - 2)] }\n")
	b.WriteString("    if ($tokens.Count -le 1) {\n")
	b.WriteString("        $candidates = $md2docxCommands.Keys\n")
	b.WriteString("    } else {\n")
	b.WriteString("        $prev = $tokens[-1]\n")
	b.WriteString("        if ($md2docxValues.ContainsKey($prev)) {\n")
	b.WriteString("            $candidates = $md2docxValues[$prev]\n")
	b.WriteString("        } else {\n")
	b.WriteString("            $candidates = $md2docxCommands[$tokens[1]]\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | Sort-Object | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// psList renders a PowerShell array body of single-quoted strings.
func psList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + strings.ReplaceAll(s, "'", "''") + "'"
	}
	return strings.Join(quoted, ", ")
}
