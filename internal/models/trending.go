package models

// TrendingRepository is one row of the github.com/trending page
type TrendingRepository struct {
	FullName    string `json:"full_name"`
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	StarsTotal  int    `json:"stars_total"`
	ForksTotal  int    `json:"forks_total"`
	StarsSince  int    `json:"stars_since"`
	URL         string `json:"url"`
}
