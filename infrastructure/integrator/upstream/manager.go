package upstream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-bridge/internal/domain"
	"github.com/vfg2006/ads-bridge/pkg/utils"
)

// Caller é a interface consumida pelo engine de agregação: invoca uma tool
// remota e devolve o payload extraído. Um erro só é retornado quando o
// transporte esgotou as tentativas ou quando o contexto foi cancelado; erros
// de aplicação voltam dentro do payload, sob a chave "error".
type Caller interface {
	Platform() domain.Platform
	Call(ctx context.Context, toolName string, args map[string]any) (map[string]any, error)
}

// PlatformError é o erro estruturado retornado quando o orçamento de retry se
// esgota, carregando a plataforma e a última mensagem de falha.
type PlatformError struct {
	Platform domain.Platform
	Message  string
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("%s: %s", e.Platform, e.Message)
}

// Manager mantém uma única sessão compartilhada por plataforma, criada de
// forma lazy sob mutex e substituída de forma transparente após falhas de
// transporte. É o dono exclusivo do handle: chamadores nunca retêm a sessão
// além de uma chamada.
type Manager struct {
	platform   domain.Platform
	connector  Connector
	maxRetries int
	baseDelay  time.Duration

	// sleep é substituível em testes para verificar a política de backoff.
	sleep func(ctx context.Context, d time.Duration) error

	mu      sync.RWMutex
	session Session
}

func NewManager(platform domain.Platform, connector Connector, maxRetries int, baseDelay time.Duration) *Manager {
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &Manager{
		platform:   platform,
		connector:  connector,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		sleep:      sleepContext,
	}
}

func (m *Manager) Platform() domain.Platform {
	return m.platform
}

// acquire devolve a sessão publicada, criando uma nova sob o mutex da
// plataforma quando necessário. A sessão só é publicada depois que a conexão
// abre com sucesso; uma falha não deixa handle parcialmente inicializado.
func (m *Manager) acquire(ctx context.Context) (Session, error) {
	m.mu.RLock()
	session := m.session
	m.mu.RUnlock()

	if session != nil {
		return session, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Re-checagem: outra goroutine pode ter publicado enquanto esperávamos.
	if m.session != nil {
		return m.session, nil
	}

	session, err := m.connector.Connect(ctx)
	if err != nil {
		return nil, err
	}

	m.session = session
	return session, nil
}

// invalidate fecha e remove a sessão publicada, mas somente se ela ainda for
// a mesma que o chamador usou — um chamador atrasado não pode fechar um
// handle que já foi substituído. Falhas no close são engolidas (best effort);
// cancelamento do contexto durante o close ainda é reportado.
func (m *Manager) invalidate(ctx context.Context, stale Session) error {
	m.mu.Lock()
	if stale != nil && m.session == stale {
		m.session = nil
		if err := stale.Close(); err != nil {
			logrus.WithError(err).WithField("platform", m.platform).
				Warn("upstream: erro ao fechar sessão invalidada")
		}
	}
	m.mu.Unlock()

	return ctx.Err()
}

// Shutdown derruba a sessão publicada, best effort. Usado no desligamento da
// aplicação.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		if err := m.session.Close(); err != nil {
			logrus.WithError(err).WithField("platform", m.platform).
				Warn("upstream: erro ao fechar sessão no desligamento")
		}
		m.session = nil
	}
}

// Call invoca uma tool remota com retry transparente. Falhas de transporte
// invalidam a sessão usada e são retentadas com backoff exponencial
// (baseDelay × 2^tentativa); esgotado o orçamento, retorna *PlatformError.
// Erros de aplicação reportados pela plataforma não são retentados: voltam
// como payload com a chave "error". Cancelamento propaga imediatamente.
func (m *Manager) Call(ctx context.Context, toolName string, args map[string]any) (map[string]any, error) {
	callID := utils.GenerateCallID()

	var lastErr error
	for attempt := 0; attempt < m.maxRetries; attempt++ {
		session, err := m.acquire(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			if err := m.backoff(ctx, attempt, toolName, callID, lastErr); err != nil {
				return nil, err
			}
			continue
		}

		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name:      toolName,
			Arguments: args,
		})
		if err != nil {
			// O teardown roda mesmo sob cancelamento, para não deixar uma
			// conexão meio fechada; o cancelamento ainda chega ao chamador.
			if cancelErr := m.invalidate(ctx, session); cancelErr != nil {
				return nil, cancelErr
			}
			lastErr = err
			if err := m.backoff(ctx, attempt, toolName, callID, lastErr); err != nil {
				return nil, err
			}
			continue
		}

		if result.IsError {
			return map[string]any{
				"error":    resultErrorMessage(result, m.platform),
				"platform": string(m.platform),
			}, nil
		}

		return ExtractPayload(result), nil
	}

	return nil, &PlatformError{Platform: m.platform, Message: lastErr.Error()}
}

// backoff registra a falha e dorme baseDelay × 2^attempt antes da próxima
// tentativa. Depois da última tentativa não há espera. Retorna erro apenas
// quando o contexto é cancelado durante a espera.
func (m *Manager) backoff(ctx context.Context, attempt int, toolName, callID string, cause error) error {
	logrus.WithError(cause).WithFields(logrus.Fields{
		"platform": m.platform,
		"tool":     toolName,
		"call_id":  callID,
		"attempt":  attempt + 1,
		"retries":  m.maxRetries,
	}).Warn("upstream: tentativa de chamada falhou")

	if attempt >= m.maxRetries-1 {
		return nil
	}

	return m.sleep(ctx, m.baseDelay*(1<<attempt))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
