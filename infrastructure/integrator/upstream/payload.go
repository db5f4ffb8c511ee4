package upstream

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/vfg2006/ads-bridge/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ExtractPayload transforma o resultado bruto de uma tool em um mapa plano.
// A primeira parte de conteúdo é desembrulhada: texto que parseia como objeto
// JSON vira o payload; valor JSON não-objeto vira {"data": valor}; texto que
// não é JSON vira {"raw_text": texto}; conteúdo vazio vira {}. Nunca falha —
// degrada para qualquer formato que a plataforma devolver.
func ExtractPayload(result *mcp.CallToolResult) map[string]any {
	if result == nil || len(result.Content) == 0 {
		return map[string]any{}
	}

	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		return map[string]any{"raw_content": fmt.Sprintf("%v", result.Content[0])}
	}

	var parsed any
	if err := json.UnmarshalFromString(text.Text, &parsed); err != nil {
		return map[string]any{"raw_text": text.Text}
	}

	if object, ok := parsed.(map[string]any); ok {
		return object
	}

	return map[string]any{"data": parsed}
}

// resultErrorMessage extrai a mensagem de um resultado marcado com IsError.
func resultErrorMessage(result *mcp.CallToolResult, platform domain.Platform) string {
	if result != nil && len(result.Content) > 0 {
		if text, ok := result.Content[0].(*mcp.TextContent); ok && text.Text != "" {
			return text.Text
		}
	}
	return fmt.Sprintf("Unknown %s MCP error", platform)
}
