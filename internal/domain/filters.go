package domain

import (
	"time"

	"github.com/pkg/errors"
)

// DateRange é o intervalo de datas (inclusivo) usado pelas operações de
// relatório, no formato YYYY-MM-DD.
type DateRange struct {
	Start string `json:"date_start"`
	End   string `json:"date_end"`
}

// Validate verifica o formato das datas e a ordem do intervalo antes de
// qualquer chamada às plataformas.
func (r DateRange) Validate() error {
	start, err := time.Parse(time.DateOnly, r.Start)
	if err != nil {
		return errors.Errorf("data inválida %q: esperado formato YYYY-MM-DD", r.Start)
	}

	end, err := time.Parse(time.DateOnly, r.End)
	if err != nil {
		return errors.Errorf("data inválida %q: esperado formato YYYY-MM-DD", r.End)
	}

	if start.After(end) {
		return errors.Errorf("date_start %q é posterior a date_end %q", r.Start, r.End)
	}

	return nil
}
