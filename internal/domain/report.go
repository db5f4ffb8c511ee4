package domain

// Status resume o resultado agregado de uma operação de relatório.
type Status string

const (
	StatusOK      Status = "ok"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
)

// StatusFor deriva o status da lei de agregação: ok quando não há erros,
// error quando todas as chamadas falharam, partial no meio do caminho.
func StatusFor(hasRows, hasErrors bool) Status {
	switch {
	case !hasErrors:
		return StatusOK
	case !hasRows:
		return StatusError
	default:
		return StatusPartial
	}
}

// ReportError é uma falha atribuída a (plataforma, conta), carregada dentro do
// relatório — nunca propagada como exceção ao chamador.
type ReportError struct {
	Platform  Platform `json:"platform,omitempty"`
	Source    string   `json:"source,omitempty"`
	AccountID string   `json:"account_id,omitempty"`
	Message   string   `json:"error"`
}

// ValidationError marca parâmetros inválidos detectados antes de qualquer
// chamada de rede.
func ValidationError(message string) ReportError {
	return ReportError{Source: "validation", Message: message}
}
