package persona

import (
	"errors"
	"strings"
)

// ErrIncomplete reports a generated payload that parsed but is missing one or
// more of the required fields.
var ErrIncomplete = errors.New("persona payload is missing required fields")

// Persona is the secret identity the model impersonates for one round.
// JSON tags follow the generation schema the model is asked to fill.
type Persona struct {
	Name      string `json:"personagem"`
	Biography string `json:"descricao"`
	Style     string `json:"estilo"`
	Greeting  string `json:"saudacao"`
}

// Validate checks that all four schema fields carry non-empty text. The
// biography and greeting are not inspected for identity leaks; that contract
// is asked of the generating model, not enforced here.
func (p Persona) Validate() error {
	fields := []string{p.Name, p.Biography, p.Style, p.Greeting}
	for _, field := range fields {
		if strings.TrimSpace(field) == "" {
			return ErrIncomplete
		}
	}
	return nil
}
