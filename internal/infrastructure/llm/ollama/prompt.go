package ollama

import (
	"fmt"

	"github.com/kirillkom/eduassist/internal/core/domain"
)

const maxPromptRunes = 12000

func buildSummaryPrompt(text string, mode domain.SummaryMode) string {
	runes := []rune(text)
	if len(runes) > maxPromptRunes {
		text = string(runes[:maxPromptRunes])
	}

	length := "en un párrafo de no más de cinco oraciones"
	if mode == domain.ModeFull {
		length = "de forma completa, cubriendo cada idea principal"
	}

	return fmt.Sprintf(`Eres un asistente educativo.
Resume el siguiente texto %s.
Responde solo con el resumen, en el mismo idioma del texto, sin viñetas ni títulos.

Texto:
%s
`, length, text)
}
