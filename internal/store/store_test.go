package store

import (
	"time"

	"character-workers/internal/models"
)

func sampleCompany(id string) *models.GenerationResult {
	return models.NewCompanyResult(models.CompanyResult{
		ID:          id,
		CompanyName: "ShoeCo",
		CompanyURL:  "https://www.ycombinator.com/companies/shoeco",
		LogoRef:     "https://cdn.test/shoeco.png",
		Characters: []models.CharacterAssignment{{
			FounderName:       "Ana",
			CharacterName:     "Genie",
			CharacterImageRef: "img/genie.png",
			Commentary:        "Grants wishes to investors",
		}},
	}, models.ModeYCCompany, time.Date(2026, 10, 31, 9, 0, 0, 0, time.UTC))
}

func sampleVibes(id string) *models.GenerationResult {
	return models.NewVibesResult(models.VibesResult{
		ID:                id,
		CompanyName:       "Acme",
		CharacterName:     "Ursula",
		CharacterImageRef: "img/ursula.png",
		Commentary:        "Every contract has fine print",
	}, models.ModeAnyURL, time.Date(2026, 10, 30, 18, 15, 0, 0, time.UTC))
}
