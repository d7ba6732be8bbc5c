package advisory

import "fmt"

const promptTemplate = `
Atue como especialista em manutenção predial e engenharia.

Local/Contexto: %s
Descrição do Problema: %s

Tarefa:
Analise o problema descrito e forneça:
1. Diagnóstico provável (Causa raiz)
2. Ferramentas sugeridas para o reparo
3. EPIs (Equipamentos de Proteção Individual) recomendados

Formato: Resposta concisa em português do Brasil, em texto corrido ou tópicos breves, máximo de 60 palavras.
`

// BuildPrompt renders the request sent to the text model.
func BuildPrompt(description, contextLabel string) string {
	return fmt.Sprintf(promptTemplate, contextLabel, description)
}
