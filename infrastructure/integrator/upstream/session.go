package upstream

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pkg/errors"
)

// Session é uma conexão estabelecida com o servidor MCP de uma plataforma.
// *mcp.ClientSession satisfaz a interface; fakes a substituem em testes.
type Session interface {
	CallTool(ctx context.Context, params *mcp.CallToolParams) (*mcp.CallToolResult, error)
	Close() error
}

// Connector abre novas sessões sob demanda. Separado do Manager para que a
// política de retry possa ser testada sem rede.
type Connector interface {
	Connect(ctx context.Context) (Session, error)
}

// MCPConnector conecta ao endpoint MCP de uma plataforma via streamable HTTP.
type MCPConnector struct {
	endpoint string
}

func NewMCPConnector(endpoint string) *MCPConnector {
	return &MCPConnector{endpoint: endpoint}
}

func (c *MCPConnector) Connect(ctx context.Context) (Session, error) {
	client := mcp.NewClient(
		&mcp.Implementation{Name: "ads-bridge", Version: "v1.0.0"},
		nil,
	)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: c.endpoint}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "falha ao conectar em %s", c.endpoint)
	}

	return session, nil
}
