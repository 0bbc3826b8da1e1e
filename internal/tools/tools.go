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

// Package tools exposes the filesystem queries as model-callable tools and
// dispatches OpenAI and Anthropic tool calls against them.
package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

// Policy configures which tools may run. A nil Allowed map permits every
// registered tool that is not denied.
type Policy struct {
	Allowed map[string]bool
	Denied  map[string]bool
}

// PolicyFromLists builds a policy from allow/deny lists. An empty allow list
// leaves every tool allowed.
func PolicyFromLists(allow, deny []string) Policy {
	policy := Policy{}
	if len(allow) > 0 {
		policy.Allowed = make(map[string]bool, len(allow))
		for _, name := range allow {
			policy.Allowed[name] = true
		}
	}
	if len(deny) > 0 {
		policy.Denied = make(map[string]bool, len(deny))
		for _, name := range deny {
			policy.Denied[name] = true
		}
	}
	return policy
}

func (p Policy) permits(name string) bool {
	if p.Denied[name] {
		return false
	}
	if p.Allowed == nil {
		return true
	}
	return p.Allowed[name]
}

// Options configures a Registry.
type Options struct {
	// WorkDir resolves relative paths and stands in for omitted search roots.
	// Defaults to the process working directory; a relative value is made
	// absolute against it.
	WorkDir      string
	AllowedRoots []string
	Policy       Policy
	Timeouts     TimeoutConfig
	// GrepChunkSize overrides the grep scan chunk size when positive.
	GrepChunkSize int
	// ReadLimit is the line limit used when a read call omits one.
	ReadLimit int
	Logger    *zerolog.Logger
}

// Registry holds all available tools with their implementations.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]Tool
	policy   Policy
	timeouts TimeoutConfig
	rules    pathRules
	workDir  string
	grepSize int
	readMax  int
	logger   zerolog.Logger
}

// NewRegistry creates a registry with the built-in filesystem tools.
func NewRegistry(opts Options) (*Registry, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		workDir = wd
	}
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve working directory: %w", err)
	}
	rules, err := newPathRules(opts.AllowedRoots, workDir)
	if err != nil {
		return nil, err
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	r := &Registry{
		tools:    make(map[string]Tool),
		policy:   opts.Policy,
		timeouts: opts.Timeouts,
		rules:    rules,
		workDir:  workDir,
		grepSize: opts.GrepChunkSize,
		readMax:  opts.ReadLimit,
		logger:   logger.With().Str("component", "tools").Logger(),
	}
	if err := registerBuiltInTools(r); err != nil {
		return nil, err
	}
	return r, nil
}

// WorkDir returns the directory relative paths are resolved against.
func (r *Registry) WorkDir() string {
	return r.workDir
}

// RegisterTool adds a tool to the registry. Names must be unique.
func (r *Registry) RegisterTool(tool Tool) error {
	if tool == nil || tool.Name() == "" {
		return fmt.Errorf("tool must have a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; exists {
		return fmt.Errorf("tool %q already registered", tool.Name())
	}
	r.tools[tool.Name()] = tool
	return nil
}

// SetAllowed toggles whether a tool may run.
func (r *Registry) SetAllowed(name string, allowed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if allowed {
		delete(r.policy.Denied, name)
		if r.policy.Allowed != nil {
			r.policy.Allowed[name] = true
		}
		return
	}
	if r.policy.Denied == nil {
		r.policy.Denied = make(map[string]bool)
	}
	r.policy.Denied[name] = true
}

// HasTool reports whether a tool with the given name is registered,
// regardless of policy.
func (r *Registry) HasTool(name string) bool {
	_, ok := r.getTool(name)
	return ok
}

// IsAllowed reports whether the policy lets the named tool run.
func (r *Registry) IsAllowed(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.policy.permits(name)
}

// GetToolNames returns the sorted names of the tools the policy permits.
func (r *Registry) GetToolNames() []string {
	tools := r.GetTools()
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name())
	}
	return names
}

// GetTools returns the permitted tools sorted by name.
func (r *Registry) GetTools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tools := make([]Tool, 0, len(r.tools))
	for name, tool := range r.tools {
		if r.policy.permits(name) {
			tools = append(tools, tool)
		}
	}
	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name() < tools[j].Name()
	})
	return tools
}

// OpenAITools returns the permitted tools as OpenAI tool definitions.
func (r *Registry) OpenAITools() []openai.Tool {
	tools := r.GetTools()
	defs := make([]openai.Tool, 0, len(tools))
	for _, tool := range tools {
		defs = append(defs, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Name(),
				Description: tool.Description(),
				Parameters:  tool.Parameters(),
			},
		})
	}
	return defs
}

// Execute runs the named tool with the given arguments. Failures are
// reported on the result, never returned.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) *ToolResult {
	result := &ToolResult{Function: name}

	tool, exists := r.getTool(name)
	if !exists {
		result.Error = fmt.Errorf("%w: %q (available: %v)", ErrToolNotFound, name, r.GetToolNames())
		return result
	}
	if !r.IsAllowed(name) {
		result.Error = &PermissionError{ToolName: name, Reason: "tool denied by configuration"}
		return result
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	if err := tool.Validate(args); err != nil {
		result.Error = fmt.Errorf("%w: %v", ErrInvalidArguments, err)
		return result
	}

	if timeout := r.timeouts.TimeoutForTool(name); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	r.logger.Debug().Str("tool", name).Interface("args", args).Msg("tool call")
	start := time.Now()
	out, err := tool.Execute(ctx, args)
	elapsed := time.Since(start)
	if err != nil {
		r.logger.Warn().Err(err).Str("tool", name).Dur("elapsed", elapsed).Msg("tool call failed")
		result.Error = &ToolExecutionError{ToolName: name, Err: err}
		return result
	}
	r.logger.Debug().Str("tool", name).Dur("elapsed", elapsed).Int("bytes", len(out)).Msg("tool call completed")
	result.Result = out
	return result
}

// ExecuteOpenAIToolCall executes an OpenAI tool call payload.
func (r *Registry) ExecuteOpenAIToolCall(ctx context.Context, call openai.ToolCall) *ToolResult {
	name := call.Function.Name
	if name == "" {
		return invalidToolResult("unknown_tool", fmt.Errorf("%w: tool call missing function name", ErrInvalidArguments))
	}
	args, err := parseToolArgs(call.Function.Arguments)
	if err != nil {
		return invalidToolResult(name, fmt.Errorf("%w: %v", ErrInvalidArguments, err))
	}
	return r.Execute(ctx, name, args)
}

// OpenAIToolMessage wraps a result as the tool message answering call.
func OpenAIToolMessage(call openai.ToolCall, result *ToolResult) openai.ChatCompletionMessage {
	return openai.ChatCompletionMessage{
		Role:       openai.ChatMessageRoleTool,
		Content:    result.Content(),
		Name:       call.Function.Name,
		ToolCallID: call.ID,
	}
}

func (r *Registry) getTool(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}
