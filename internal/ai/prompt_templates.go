package ai

import (
	"fmt"
	"strings"
)

// PromptTemplates contains the prompts sent to the editorial assistant
var PromptTemplates = struct {
	RefineSuggestion string
	SummarizeIssue   string
}{
	RefineSuggestion: `L'utilisateur souhaite proposer un article pour la gazette de l'agence.
Sujet : %s
Description : %s

En tant que rédacteur en chef, analyse cette proposition. Donne des conseils pour rendre l'article plus percutant, suggère 3 sous-titres intéressants et évalue l'intérêt pour les collaborateurs de l'agence. Réponds de manière constructive et encourageante en français.`,

	SummarizeIssue: `Résume le contenu suivant de notre gazette interne en 3 points clés percutants pour un affichage rapide.
Contenu : %s`,
}

// BuildRefinePrompt creates the prompt reviewing an article proposal
func BuildRefinePrompt(topic, description string) string {
	return fmt.Sprintf(PromptTemplates.RefineSuggestion, escapeForPrompt(topic), escapeForPrompt(description))
}

// BuildSummaryPrompt creates the prompt condensing an issue
func BuildSummaryPrompt(content string) string {
	return fmt.Sprintf(PromptTemplates.SummarizeIssue, escapeForPrompt(content))
}

// escapeForPrompt flattens user text onto one line so it cannot break out
// of its prompt field
func escapeForPrompt(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}
