package request

type StartScrapeRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type MarkContactedRequest struct {
	Contacted bool `json:"contacted"`
}
