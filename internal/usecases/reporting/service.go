// Package reporting contém o engine de fan-out/fan-in e todas as operações de
// relatório da bridge. Cada operação é uma função pura dos parâmetros de
// entrada: nada é persistido ou cacheado entre invocações.
package reporting

import (
	"time"

	"github.com/vfg2006/ads-bridge/infrastructure/integrator/upstream"
	"github.com/vfg2006/ads-bridge/internal/domain"
)

// NormalizedUnit documenta a unidade monetária usada em todos os relatórios.
const NormalizedUnit = "micros (1,000,000 = 1 currency unit)"

// Service orquestra chamadas concorrentes às duas plataformas e monta os
// relatórios unificados.
type Service struct {
	meta   upstream.Caller
	google upstream.Caller

	// now é substituível em testes do pacing mensal.
	now func() time.Time
}

func NewService(meta, google upstream.Caller) *Service {
	return &Service{
		meta:   meta,
		google: google,
		now:    time.Now,
	}
}

func (s *Service) callerFor(platform domain.Platform) upstream.Caller {
	if platform == domain.PlatformGoogle {
		return s.google
	}
	return s.meta
}
