package getgeneration

import "character-workers/internal/models"

type Input struct {
	GenerationID string `json:"generationId"`
}

type Output struct {
	Generation *models.GenerationResult `json:"generation"`
}
