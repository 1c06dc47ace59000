package game

import (
	"fmt"

	"github.com/mvcastro/quemsoueu/internal/model/persona"
)

// systemInstruction builds the hidden instruction that seeds a round's
// conversation context. The identity and biography are for the model's own
// reference; the rules forbid disclosing them.
func systemInstruction(p persona.Persona) string {
	return fmt.Sprintf(`### Contexto do Jogo
Você está interpretando uma persona em um jogo de adivinhação.
Sua identidade secreta é: %s.
Sua biografia para consulta (não para recitar) é: %s.
Seu estilo de comunicação é: %s.

### Regras Cruciais
1. NUNCA REVELE SUA IDENTIDADE.
2. Dê pistas indiretas com base na sua persona.
3. Incorpore a personalidade e o estilo definidos.
4. Se o usuário acertar, confirme e parabenize-o. Se errar, negue sutilmente.
Comece o jogo com a saudação definida. NADA MAIS.`,
		p.Name,
		p.Biography,
		p.Style,
	)
}
