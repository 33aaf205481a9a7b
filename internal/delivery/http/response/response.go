package response

import "github.com/user/leadgen-service/internal/entity"

type StartScrapeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	RunID   string `json:"run_id"`
}

type BusinessListResponse struct {
	Count      int                `json:"count"`
	Businesses []*entity.Business `json:"businesses"`
}

type KeywordsResponse struct {
	Keywords []entity.KeywordCount `json:"keywords"`
}
