package domain

// ChangeEvent é um evento de alteração de conta normalizado entre plataformas.
type ChangeEvent struct {
	Platform   Platform `json:"platform"`
	Timestamp  string   `json:"timestamp"`
	Actor      string   `json:"actor"`
	Action     string   `json:"action"`
	ObjectType string   `json:"object_type"`
	ObjectName string   `json:"object_name"`
	Details    any      `json:"details,omitempty"`
	AccountID  string   `json:"account_id"`
}

// Account é uma conta de anúncios listada por uma das plataformas.
type Account struct {
	Platform   Platform `json:"platform"`
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Status     string   `json:"status,omitempty"`
	Currency   string   `json:"currency,omitempty"`
	IsManager  bool     `json:"is_manager,omitempty"`
	AccessType string   `json:"access_type,omitempty"`
	Level      int64    `json:"level,omitempty"`
}
