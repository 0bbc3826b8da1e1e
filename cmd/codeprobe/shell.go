// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"codeprobe/internal/theme"
)

// shellCommand represents a slash command of the interactive shell.
type shellCommand struct {
	Name        string
	Description string
}

var shellCommands = []shellCommand{
	{Name: "help", Description: "Show available commands"},
	{Name: "tools", Description: "List the tools and their arguments"},
	{Name: "workdir", Description: "Show the work directory"},
	{Name: "quit", Description: "Exit the shell"},
	{Name: "exit", Description: "Exit the shell"},
}

// primaryArgs names the argument a bare word after a tool name fills in.
var primaryArgs = map[string]string{
	"ls":   "path",
	"glob": "pattern",
	"grep": "pattern",
	"read": "file_path",
}

type shell struct {
	app    *app
	out    io.Writer
	colors *theme.ColorScheme
}

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run tools interactively",
		Long: "Start an interactive shell. Each line names a tool followed by either a JSON\n" +
			"object of arguments or a single bare argument, for example:\n\n" +
			"  glob **/*.go\n" +
			"  grep {\"pattern\": \"func main\", \"include\": \"*.go\"}\n" +
			"  read /etc/hosts",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd.Context(), a)
		},
	}
}

func runShell(ctx context.Context, a *app) error {
	a.logger.Debug().Msg("Running interactive shell")

	out := os.Stdout
	sh := &shell{app: a, out: out, colors: theme.ForOutput(isTerminal(out))}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          sh.colors.Prompt.Sprint("codeprobe❯ "),
		HistoryFile:     a.cfg.CommandHistoryFile,
		AutoComplete:    shellCompleter(a.registry.GetToolNames()),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(out, sh.colors.Header.Sprint("codeprobe shell"))
	fmt.Fprintf(out, "Work directory: %s\n", sh.colors.Path.Sprint(a.registry.WorkDir()))
	fmt.Fprintln(out, sh.colors.Muted.Sprint("Type /help for commands, Ctrl+D or /quit to exit"))
	fmt.Fprintln(out)

	for {
		line, err := rl.Readline()
		if err != nil {
			switch classifyReadlineError(line, err) {
			case readlineContinue:
				continue
			case readlineExit:
				a.logger.Debug().Msg("Shell closed")
				return nil
			default:
				return err
			}
		}
		if sh.handle(ctx, line) {
			return nil
		}
	}
}

// handle processes one input line and reports whether the shell should exit.
func (s *shell) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, "/") {
		return s.handleCommand(strings.TrimPrefix(line, "/"))
	}

	name, rest := splitShellLine(line)
	args, err := s.shellArgs(name, rest)
	if err != nil {
		fmt.Fprintln(s.out, s.colors.Error.Sprintf("✗ %v", err))
		return false
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	s.app.logger.Info().Str("tool", name).Msg("Shell tool call")
	result := s.app.registry.Execute(ctx, name, args)
	if result.Error != nil {
		fmt.Fprintln(s.out, s.colors.Error.Sprintf("✗ %v", result.Error))
		return false
	}
	if err := writeResult(s.out, result.Result); err != nil {
		s.app.logger.Warn().Err(err).Msg("Failed to write result")
	}
	return false
}

func (s *shell) handleCommand(input string) bool {
	cmdName := strings.ToLower(strings.TrimSpace(input))
	s.app.logger.Debug().Str("command", cmdName).Msg("Executing command")

	switch cmdName {
	case "help":
		s.showHelp()
	case "tools":
		s.showTools()
	case "workdir":
		fmt.Fprintln(s.out, s.colors.Path.Sprint(s.app.registry.WorkDir()))
	case "quit", "exit":
		return true
	default:
		fmt.Fprintln(s.out, s.colors.Error.Sprintf("✗ Unknown command: /%s (type /help for available commands)", cmdName))
	}
	return false
}

func (s *shell) showHelp() {
	fmt.Fprintln(s.out, s.colors.Header.Sprint("Available Commands:"))
	seen := make(map[string]bool)
	for _, cmd := range shellCommands {
		if seen[cmd.Name] {
			continue
		}
		seen[cmd.Name] = true
		fmt.Fprintf(s.out, "  /%-12s - %s\n", cmd.Name, cmd.Description)
	}
	fmt.Fprintln(s.out, "\nTool calls:")
	fmt.Fprintln(s.out, "  <tool> {json arguments}")
	fmt.Fprintln(s.out, "  <tool> <argument>   fills ls path, glob/grep pattern or read file_path")
	fmt.Fprintln(s.out)
}

func (s *shell) showTools() {
	fmt.Fprintln(s.out, s.colors.Header.Sprint("Tools:"))
	for _, tool := range s.app.registry.GetTools() {
		var params []string
		if props, ok := tool.Parameters()["properties"].(map[string]interface{}); ok {
			for name := range props {
				params = append(params, name)
			}
		}
		sort.Strings(params)
		fmt.Fprintf(s.out, "  %-6s %s\n", tool.Name(), s.colors.Muted.Sprint(strings.Join(params, ", ")))
	}
	fmt.Fprintln(s.out)
}

// splitShellLine separates the tool name from the rest of the line.
func splitShellLine(line string) (string, string) {
	name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	return name, strings.TrimSpace(rest)
}

// shellArgs builds the argument map for a tool from the text after its name.
func (s *shell) shellArgs(name, rest string) (map[string]interface{}, error) {
	args := map[string]interface{}{}
	if rest == "" {
		if name == "ls" {
			args["path"] = s.app.registry.WorkDir()
		}
		return args, nil
	}
	if strings.HasPrefix(rest, "{") {
		if err := json.Unmarshal([]byte(rest), &args); err != nil {
			return nil, fmt.Errorf("invalid JSON arguments: %w", err)
		}
		return args, nil
	}
	key, ok := primaryArgs[name]
	if !ok {
		return nil, fmt.Errorf("tool %q takes JSON arguments", name)
	}
	if key == "path" || key == "file_path" {
		rest = s.app.absPath(rest)
	}
	args[key] = rest
	return args, nil
}
