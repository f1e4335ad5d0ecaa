package generatecharacters

import "character-workers/internal/models"

type Input struct {
	CompanyURL string `json:"companyUrl"`
	Mode       string `json:"mode,omitempty"` // yc_company (default) or any_url
}

type Output struct {
	GenerationID string                   `json:"generationId"`
	Generation   *models.GenerationResult `json:"generation"`
}
