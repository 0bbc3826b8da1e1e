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

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	apperrors "codeprobe/internal/errors"
)

func newTestRegistry(t *testing.T, opts Options) *Registry {
	t.Helper()
	if opts.WorkDir == "" {
		opts.WorkDir = t.TempDir()
	}
	registry, err := NewRegistry(opts)
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	return registry
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func decodeStrings(t *testing.T, out string) []string {
	t.Helper()
	var values []string
	if err := json.Unmarshal([]byte(out), &values); err != nil {
		t.Fatalf("expected JSON string array, got %q: %v", out, err)
	}
	return values
}

func TestExecuteListDirectory(t *testing.T) {
	registry := newTestRegistry(t, Options{})
	tempDir := t.TempDir()
	writeTestFile(t, filepath.Join(tempDir, "example.txt"), "data")
	if err := os.Mkdir(filepath.Join(tempDir, "sub"), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}

	result := registry.Execute(context.Background(), "ls", map[string]interface{}{
		"path": tempDir,
	})
	if result.Error != nil {
		t.Fatalf("expected no error, got: %v", result.Error)
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal([]byte(result.Result), &entries); err != nil {
		t.Fatalf("expected JSON entries, got %q: %v", result.Result, err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0]["name"] != "sub" || entries[0]["is_dir"] != true {
		t.Fatalf("expected directory first, got %v", entries[0])
	}
	if entries[1]["name"] != "example.txt" || entries[1]["size"] != float64(4) {
		t.Fatalf("unexpected file entry: %v", entries[1])
	}
}

func TestExecuteListIgnore(t *testing.T) {
	registry := newTestRegistry(t, Options{})
	tempDir := t.TempDir()
	writeTestFile(t, filepath.Join(tempDir, "keep.go"), "package keep")
	writeTestFile(t, filepath.Join(tempDir, "drop.log"), "noise")

	result := registry.Execute(context.Background(), "ls", map[string]interface{}{
		"path":   tempDir,
		"ignore": []interface{}{"*.log"},
	})
	if result.Error != nil {
		t.Fatalf("expected no error, got: %v", result.Error)
	}
	if strings.Contains(result.Result, "drop.log") {
		t.Fatalf("ignored entry present in %s", result.Result)
	}
	if !strings.Contains(result.Result, "keep.go") {
		t.Fatalf("expected keep.go in %s", result.Result)
	}
}

func TestExecuteListRejectsRelativePath(t *testing.T) {
	registry := newTestRegistry(t, Options{})
	result := registry.Execute(context.Background(), "ls", map[string]interface{}{
		"path": "relative/dir",
	})
	if !errors.Is(result.Error, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", result.Error)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	registry := newTestRegistry(t, Options{})
	result := registry.Execute(context.Background(), "does_not_exist", nil)
	if !errors.Is(result.Error, ErrToolNotFound) {
		t.Fatalf("expected tool not found, got %v", result.Error)
	}
	if !strings.HasPrefix(result.Content(), "Error: ") {
		t.Fatalf("expected error content, got %q", result.Content())
	}
}

func TestExecuteDeniedTool(t *testing.T) {
	registry := newTestRegistry(t, Options{Policy: PolicyFromLists(nil, []string{"grep"})})

	result := registry.Execute(context.Background(), "grep", map[string]interface{}{
		"pattern": "x",
	})
	if !errors.Is(result.Error, ErrToolNotAllowed) {
		t.Fatalf("expected policy error, got %v", result.Error)
	}
	for _, name := range registry.GetToolNames() {
		if name == "grep" {
			t.Fatal("denied tool should not be advertised")
		}
	}

	registry.SetAllowed("grep", true)
	if !registry.IsAllowed("grep") {
		t.Fatal("expected grep to be allowed again")
	}
}

func TestAllowListRestrictsTools(t *testing.T) {
	registry := newTestRegistry(t, Options{Policy: PolicyFromLists([]string{"read", "ls"}, nil)})
	names := registry.GetToolNames()
	if strings.Join(names, ",") != "ls,read" {
		t.Fatalf("expected ls,read got %v", names)
	}
}

func TestExecuteInvalidArguments(t *testing.T) {
	registry := newTestRegistry(t, Options{})
	result := registry.Execute(context.Background(), "read", map[string]interface{}{
		"offset": float64(2),
	})
	if !errors.Is(result.Error, ErrInvalidArguments) {
		t.Fatalf("expected invalid arguments, got %v", result.Error)
	}
	if !strings.Contains(result.Error.Error(), "'file_path'") {
		t.Fatalf("expected file_path in error, got %v", result.Error)
	}
}

func TestExecuteRejectsMalformedPath(t *testing.T) {
	registry := newTestRegistry(t, Options{})
	result := registry.Execute(context.Background(), "glob", map[string]interface{}{
		"path":    "bad\x00dir",
		"pattern": "*",
	})
	if !errors.Is(result.Error, ErrInvalidArguments) {
		t.Fatalf("expected invalid arguments, got %v", result.Error)
	}
}

func TestGlobDefaultsToWorkDir(t *testing.T) {
	workDir := t.TempDir()
	writeTestFile(t, filepath.Join(workDir, "b.txt"), "b")
	writeTestFile(t, filepath.Join(workDir, "a.txt"), "a")
	writeTestFile(t, filepath.Join(workDir, "nested", "c.txt"), "c")
	registry := newTestRegistry(t, Options{WorkDir: workDir})

	result := registry.Execute(context.Background(), "glob", map[string]interface{}{
		"pattern": "*.txt",
	})
	if result.Error != nil {
		t.Fatalf("expected no error, got: %v", result.Error)
	}
	got := decodeStrings(t, result.Result)
	if strings.Join(got, ",") != "a.txt,b.txt" {
		t.Fatalf("unexpected matches: %v", got)
	}
}

func TestGlobNoMatchesIsEmptyArray(t *testing.T) {
	registry := newTestRegistry(t, Options{})
	result := registry.Execute(context.Background(), "glob", map[string]interface{}{
		"pattern": "*.nothing",
	})
	if result.Error != nil {
		t.Fatalf("expected no error, got: %v", result.Error)
	}
	if result.Result != "[]" {
		t.Fatalf("expected empty JSON array, got %q", result.Result)
	}
}

func TestGrepResolvesRelativePath(t *testing.T) {
	workDir := t.TempDir()
	writeTestFile(t, filepath.Join(workDir, "src", "main.py"), "def main():\n    pass\n")
	writeTestFile(t, filepath.Join(workDir, "src", "util.js"), "function main() {}\n")
	registry := newTestRegistry(t, Options{WorkDir: workDir, GrepChunkSize: 16})

	result := registry.Execute(context.Background(), "grep", map[string]interface{}{
		"path":    "src",
		"include": "*.py",
		"pattern": `def\s+main`,
	})
	if result.Error != nil {
		t.Fatalf("expected no error, got: %v", result.Error)
	}
	got := decodeStrings(t, result.Result)
	if len(got) != 1 || got[0] != "main.py" {
		t.Fatalf("expected [main.py], got %v", got)
	}
}

func TestGrepInvalidPattern(t *testing.T) {
	registry := newTestRegistry(t, Options{})
	result := registry.Execute(context.Background(), "grep", map[string]interface{}{
		"include": "*",
		"pattern": "(",
	})
	if !errors.Is(result.Error, apperrors.ErrInvalidPattern) {
		t.Fatalf("expected invalid pattern, got %v", result.Error)
	}
	var execErr *ToolExecutionError
	if !errors.As(result.Error, &execErr) || execErr.ToolName != "grep" {
		t.Fatalf("expected tool execution error for grep, got %v", result.Error)
	}
}

func TestReadUsesConfiguredLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "five.txt")
	writeTestFile(t, path, "1\n2\n3\n4\n5\n")
	registry := newTestRegistry(t, Options{ReadLimit: 2})

	result := registry.Execute(context.Background(), "read", map[string]interface{}{
		"file_path": path,
	})
	if result.Error != nil {
		t.Fatalf("expected no error, got: %v", result.Error)
	}
	lines := strings.Split(result.Result, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 lines, got %q", result.Result)
	}
	if lines[2] != "     2\t2" {
		t.Fatalf("unexpected last line %q", lines[2])
	}

	result = registry.Execute(context.Background(), "read", map[string]interface{}{
		"file_path": path,
		"offset":    float64(4),
		"limit":     float64(10),
	})
	if result.Error != nil {
		t.Fatalf("expected no error, got: %v", result.Error)
	}
	if !strings.HasSuffix(result.Result, "     4\t4\n     5\t5") {
		t.Fatalf("unexpected window %q", result.Result)
	}
}

func TestReadMissingFileKeepsKind(t *testing.T) {
	registry := newTestRegistry(t, Options{})
	result := registry.Execute(context.Background(), "read", map[string]interface{}{
		"file_path": filepath.Join(t.TempDir(), "missing.txt"),
	})
	if !errors.Is(result.Error, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", result.Error)
	}
	if apperrors.KindOf(result.Error) != apperrors.KindNotFound {
		t.Fatalf("expected not_found kind, got %q", apperrors.KindOf(result.Error))
	}
}

func TestAllowedRoots(t *testing.T) {
	base := t.TempDir()
	allowed := filepath.Join(base, "allowed")
	writeTestFile(t, filepath.Join(allowed, "in.txt"), "inside\n")
	writeTestFile(t, filepath.Join(base, "out.txt"), "outside\n")
	registry := newTestRegistry(t, Options{WorkDir: base, AllowedRoots: []string{"allowed"}})

	result := registry.Execute(context.Background(), "read", map[string]interface{}{
		"file_path": filepath.Join(base, "out.txt"),
	})
	if !errors.Is(result.Error, ErrPathOutsideRoots) {
		t.Fatalf("expected outside roots error, got %v", result.Error)
	}
	if !errors.Is(result.Error, apperrors.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument kind, got %v", result.Error)
	}

	result = registry.Execute(context.Background(), "read", map[string]interface{}{
		"file_path": filepath.Join(allowed, "in.txt"),
	})
	if result.Error != nil {
		t.Fatalf("expected read inside roots to succeed, got %v", result.Error)
	}

	result = registry.Execute(context.Background(), "glob", map[string]interface{}{
		"pattern": "*.txt",
	})
	if !errors.Is(result.Error, ErrPathOutsideRoots) {
		t.Fatalf("expected work dir outside roots to be rejected, got %v", result.Error)
	}
}

func TestNewRegistryMakesWorkDirAbsolute(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "project", "main.go"), "package main\n")
	t.Chdir(dir)

	registry, err := NewRegistry(Options{WorkDir: "project"})
	if err != nil {
		t.Fatalf("failed to create registry: %v", err)
	}
	if !filepath.IsAbs(registry.WorkDir()) {
		t.Fatalf("expected absolute work dir, got %q", registry.WorkDir())
	}

	result := registry.Execute(context.Background(), "ls", map[string]interface{}{"path": registry.WorkDir()})
	if result.Error != nil {
		t.Fatalf("expected ls on the work dir to succeed, got %v", result.Error)
	}
	if !strings.Contains(result.Result, `"name":"main.go"`) {
		t.Fatalf("unexpected listing %q", result.Result)
	}
}

func TestReadDecomposedFileName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cafe\u0301.txt")
	writeTestFile(t, path, "bonjour\n")
	registry := newTestRegistry(t, Options{WorkDir: dir})

	result := registry.Execute(context.Background(), "read", map[string]interface{}{"file_path": path})
	if result.Error != nil {
		t.Fatalf("expected read to succeed, got %v", result.Error)
	}
	if !strings.Contains(result.Result, "     1\tbonjour") {
		t.Fatalf("unexpected read output %q", result.Result)
	}

	result = registry.Execute(context.Background(), "glob", map[string]interface{}{"pattern": "*.txt"})
	if result.Error != nil {
		t.Fatalf("expected glob to succeed, got %v", result.Error)
	}
	if got := decodeStrings(t, result.Result); len(got) != 1 || got[0] != "cafe\u0301.txt" {
		t.Fatalf("unexpected matches %q", got)
	}
}

func TestGlobPatternStaysInsideAllowedRoots(t *testing.T) {
	base := t.TempDir()
	allowed := filepath.Join(base, "allowed")
	outside := filepath.Join(base, "outside")
	writeTestFile(t, filepath.Join(allowed, "in.txt"), "inside\n")
	writeTestFile(t, filepath.Join(outside, "secret.txt"), "secret\n")
	registry := newTestRegistry(t, Options{WorkDir: allowed, AllowedRoots: []string{allowed}})

	patterns := map[string]string{
		"absolute": filepath.Join(outside, "*"),
		"parent":   "../outside/*",
		"cleaned":  "sub/../../outside/*",
	}
	for name, pattern := range patterns {
		t.Run(name, func(t *testing.T) {
			result := registry.Execute(context.Background(), "glob", map[string]interface{}{
				"path":    allowed,
				"pattern": pattern,
			})
			if !errors.Is(result.Error, ErrPathOutsideRoots) {
				t.Fatalf("expected outside roots error for %q, got %v (result %q)", pattern, result.Error, result.Result)
			}
		})
	}

	result := registry.Execute(context.Background(), "glob", map[string]interface{}{
		"pattern": filepath.Join(allowed, "*.txt"),
	})
	if result.Error != nil {
		t.Fatalf("expected absolute pattern inside roots to succeed, got %v", result.Error)
	}
	if got := decodeStrings(t, result.Result); len(got) != 1 || got[0] != "in.txt" {
		t.Fatalf("unexpected matches %v", got)
	}
}

func TestExecuteAppliesTimeout(t *testing.T) {
	registry := newTestRegistry(t, Options{
		Timeouts: TimeoutConfig{PerTool: map[string]time.Duration{"wait": 10 * time.Millisecond}},
	})
	err := registry.RegisterTool(&ToolDefinition{
		NameValue: "wait",
		ExecuteFunc: func(ctx context.Context, args map[string]interface{}) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	})
	if err != nil {
		t.Fatalf("failed to register tool: %v", err)
	}

	result := registry.Execute(context.Background(), "wait", nil)
	if !errors.Is(result.Error, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", result.Error)
	}
}

func TestRegisterToolRejectsDuplicates(t *testing.T) {
	registry := newTestRegistry(t, Options{})
	if err := registry.RegisterTool(&ToolDefinition{NameValue: "ls"}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if err := registry.RegisterTool(&ToolDefinition{}); err == nil {
		t.Fatal("expected unnamed tool to be rejected")
	}
}

func TestOpenAITools(t *testing.T) {
	registry := newTestRegistry(t, Options{})
	defs := registry.OpenAITools()
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		if def.Type != openai.ToolTypeFunction {
			t.Fatalf("unexpected tool type %q", def.Type)
		}
		if def.Function.Description == "" {
			t.Fatalf("tool %s has no description", def.Function.Name)
		}
		names = append(names, def.Function.Name)
	}
	if strings.Join(names, ",") != "glob,grep,ls,read" {
		t.Fatalf("unexpected tool names %v", names)
	}
}

func TestExecuteOpenAIToolCall(t *testing.T) {
	registry := newTestRegistry(t, Options{})
	tempDir := t.TempDir()
	writeTestFile(t, filepath.Join(tempDir, "example.txt"), "data")

	args, _ := json.Marshal(map[string]string{"path": tempDir})
	call := openai.ToolCall{
		ID:   "call-1",
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      "ls",
			Arguments: string(args),
		},
	}

	result := registry.ExecuteOpenAIToolCall(context.Background(), call)
	if result.Error != nil {
		t.Fatalf("expected no error, got: %v", result.Error)
	}
	msg := OpenAIToolMessage(call, result)
	if msg.Role != openai.ChatMessageRoleTool || msg.ToolCallID != "call-1" {
		t.Fatalf("unexpected tool message %+v", msg)
	}
	if !strings.Contains(msg.Content, "example.txt") {
		t.Fatalf("expected listing in message, got %q", msg.Content)
	}
}

func TestExecuteOpenAIToolCallInvalidArgs(t *testing.T) {
	registry := newTestRegistry(t, Options{})
	call := openai.ToolCall{
		ID:   "call-1",
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      "ls",
			Arguments: `{"path": `,
		},
	}
	result := registry.ExecuteOpenAIToolCall(context.Background(), call)
	if !errors.Is(result.Error, ErrInvalidArguments) {
		t.Fatalf("expected invalid arguments, got %v", result.Error)
	}
}

func TestExecuteOpenAIToolCallMissingName(t *testing.T) {
	registry := newTestRegistry(t, Options{})
	call := openai.ToolCall{
		ID:   "call-1",
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Arguments: `{"path": "."}`,
		},
	}
	result := registry.ExecuteOpenAIToolCall(context.Background(), call)
	if result.Error == nil {
		t.Fatal("expected error for missing function name")
	}
	if result.Function != "unknown_tool" {
		t.Fatalf("expected function to default to unknown_tool, got %s", result.Function)
	}
}

func TestValidateToolCall(t *testing.T) {
	registry := newTestRegistry(t, Options{})
	if res := registry.ValidateToolCall("glob", `{"pattern": "*.go"}`); res != nil {
		t.Fatalf("expected valid call, got %v", res.Error)
	}
	if res := registry.ValidateToolCall("glob", `{}`); res == nil || !errors.Is(res.Error, ErrInvalidArguments) {
		t.Fatal("expected missing pattern to be rejected")
	}
	if res := registry.ValidateToolCall("nope", `{}`); res == nil || !errors.Is(res.Error, ErrToolNotFound) {
		t.Fatal("expected unknown tool to be rejected")
	}
}

func TestTimeoutsFromSeconds(t *testing.T) {
	cfg := TimeoutsFromSeconds(30, map[string]int{"grep": 120, "read": 0})
	if cfg.TimeoutForTool("ls") != 30*time.Second {
		t.Fatalf("unexpected default %v", cfg.TimeoutForTool("ls"))
	}
	if cfg.TimeoutForTool("grep") != 2*time.Minute {
		t.Fatalf("unexpected grep timeout %v", cfg.TimeoutForTool("grep"))
	}
	if cfg.TimeoutForTool("read") != 0 {
		t.Fatalf("expected read timeout disabled, got %v", cfg.TimeoutForTool("read"))
	}
	if cfg.TimeoutForTool("glob") != 30*time.Second {
		t.Fatal("expected default timeout for unconfigured tool")
	}
}
