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
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"
)

// AnthropicTools returns the permitted tools as Anthropic tool definitions.
func (r *Registry) AnthropicTools() []anthropic.ToolUnionParam {
	tools := r.GetTools()
	defs := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, tool := range tools {
		params := tool.Parameters()
		def := anthropic.ToolParam{
			Name:        tool.Name(),
			Description: anthropic.String(tool.Description()),
			InputSchema: anthropic.ToolInputSchemaParam{
				Type:       constant.ValueOf[constant.Object](),
				Properties: params["properties"],
				Required:   requiredFields(params),
			},
		}
		defs = append(defs, anthropic.ToolUnionParam{OfTool: &def})
	}
	return defs
}

// ExecuteAnthropicToolUse runs a tool_use block and returns the matching
// tool_result block, flagged as an error when the call failed.
func (r *Registry) ExecuteAnthropicToolUse(ctx context.Context, block anthropic.ToolUseBlock) anthropic.ContentBlockParamUnion {
	result := r.executeAnthropic(ctx, block)
	return anthropic.NewToolResultBlock(block.ID, result.Content(), result.Error != nil)
}

func (r *Registry) executeAnthropic(ctx context.Context, block anthropic.ToolUseBlock) *ToolResult {
	if block.Name == "" {
		return invalidToolResult("unknown_tool", fmt.Errorf("%w: tool use missing name", ErrInvalidArguments))
	}
	input := string(block.Input)
	if input == "" {
		input = block.JSON.Input.Raw()
	}
	args, err := parseToolArgs(input)
	if err != nil {
		return invalidToolResult(block.Name, fmt.Errorf("%w: %v", ErrInvalidArguments, err))
	}
	return r.Execute(ctx, block.Name, args)
}
