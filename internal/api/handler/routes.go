package handler

import (
	"net/http"

	"github.com/vfg2006/ads-bridge/internal/api/handler/router"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/health",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

// MCP registra o endpoint streamable do protocolo em todos os métodos que o
// transporte usa: POST para mensagens, GET para o stream e DELETE para
// encerrar a sessão.
func MCP(mcpHandler http.Handler) []router.Route {
	return []router.Route{
		{
			Path:    "/mcp",
			Method:  http.MethodPost,
			Handler: mcpHandler,
		},
		{
			Path:    "/mcp",
			Method:  http.MethodGet,
			Handler: mcpHandler,
		},
		{
			Path:    "/mcp",
			Method:  http.MethodDelete,
			Handler: mcpHandler,
		},
	}
}
