package augment

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/mcpui-go/internal/uiresource"
)

const (
	methodCallTool  = "tools/call"
	methodListTools = "tools/list"
)

// Middleware returns MCP receiving middleware that augments tools/call results
// using their structured content as render data, and advertises each mapped
// tool's UI in tools/list under _meta.ui.resourceUri.
//
// toolUI maps MCP tool names to UI tool names; tools missing from it use
// their own name.
func (a *Augmenter) Middleware(toolUI map[string]string) mcp.Middleware {
	uiName := func(tool string) string {
		if name, ok := toolUI[tool]; ok {
			return name
		}

		return tool
	}

	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			result, err := next(ctx, method, req)
			if err != nil {
				return result, err
			}

			switch method {
			case methodCallTool:
				return a.augmentCall(req, result, uiName), nil
			case methodListTools:
				return a.advertise(result, uiName), nil
			default:
				return result, nil
			}
		}
	}
}

func (a *Augmenter) augmentCall(req mcp.Request, result mcp.Result, uiName func(string) string) mcp.Result {
	callReq, ok := req.(*mcp.CallToolRequest)
	if !ok || callReq.Params == nil {
		return result
	}

	callResult, ok := result.(*mcp.CallToolResult)
	if !ok || callResult == nil || callResult.IsError {
		return result
	}

	tool := uiName(callReq.Params.Name)
	if !a.HasTarget(tool) {
		return result
	}

	renderData, ok := structuredRenderData(callResult.StructuredContent)
	if !ok {
		return a.AugmentResult(callResult, tool)
	}

	return a.Augment(callResult, tool, renderData)
}

func (a *Augmenter) advertise(result mcp.Result, uiName func(string) string) mcp.Result {
	list, ok := result.(*mcp.ListToolsResult)
	if !ok || list == nil {
		return result
	}

	for _, tool := range list.Tools {
		name := uiName(tool.Name)
		if !a.HasTarget(name) {
			continue
		}

		if tool.Meta == nil {
			tool.Meta = make(mcp.Meta)
		}

		tool.Meta["ui"] = map[string]any{
			"resourceUri": uiresource.ToolURIPrefix(name),
		}
	}

	return list
}

// structuredRenderData turns structured content into a render data map.
func structuredRenderData(v any) (map[string]any, bool) {
	switch data := v.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return data, true
	case json.RawMessage:
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, false
		}

		return m, true
	default:
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, false
		}

		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, false
		}

		return m, true
	}
}
