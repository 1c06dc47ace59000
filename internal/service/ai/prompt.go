package ai

import (
	"fmt"
	"strings"
)

// generationPrompt asks the model to pick a well-known figure outside the
// exclusion list and answer strictly under the persona schema.
func generationPrompt(exclude []string) string {
	avoid := "Nenhum"
	if len(exclude) > 0 {
		avoid = strings.Join(exclude, ", ")
	}

	return fmt.Sprintf(`# Papel e Objetivo
Você é um roteirista de um jogo de adivinhação. Selecione uma figura conhecida (real ou fictícia) que não esteja na lista: %s.
Sua resposta deve ser um JSON com os campos: "personagem", "descricao", "estilo", "saudacao".
A descrição e a saudação não devem conter o nome da persona.`, avoid)
}
