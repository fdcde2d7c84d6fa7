package gazette

import "github.com/bilgisen/gazette/internal/models"

// seedIssues returns the canonical example issues stored on first start
func seedIssues() []models.GazetteIssue {
	return []models.GazetteIssue{
		{
			ID:       "1",
			Title:    "L'IA Générative : Notre nouveau collègue ?",
			Number:   45,
			Date:     "20 Fév 2025",
			Summary:  "Analyse de l'intégration des outils Gemini dans nos processus créatifs et techniques.",
			ImageURL: "https://images.unsplash.com/photo-1677442136019-21780ecad995?auto=format&fit=crop&q=80&w=800",
			Content:  "L'intelligence artificielle transforme nos métiers. Dans ce numéro, nous rencontrons l'équipe tech qui a mis en place les nouveaux workflows...",
			IsNew:    true,
		},
		{
			ID:       "2",
			Title:    "Succès Client : Le projet Helios est lancé",
			Number:   44,
			Date:     "05 Fév 2025",
			Summary:  "Retour sur 6 mois de travail acharné pour livrer la plateforme Helios à notre plus gros client.",
			ImageURL: "https://images.unsplash.com/photo-1460925895917-afdab827c52f?auto=format&fit=crop&q=80&w=800",
			Content:  "Après des semaines de tests intensifs, Helios est enfin en ligne. Les premiers retours sont excellents...",
			IsNew:    false,
		},
	}
}
