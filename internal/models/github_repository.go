package models

// RawRepository is a repository object as returned by the GitHub REST API.
// Only the fields that are normalized are decoded.
type RawRepository struct {
	ID              *int64   `json:"id"`
	Name            *string  `json:"name"`
	FullName        *string  `json:"full_name"`
	Description     *string  `json:"description"`
	HTMLURL         *string  `json:"html_url"`
	CloneURL        *string  `json:"clone_url"`
	Language        *string  `json:"language"`
	StargazersCount *int     `json:"stargazers_count"`
	ForksCount      *int     `json:"forks_count"`
	WatchersCount   *int     `json:"watchers_count"`
	OpenIssuesCount *int     `json:"open_issues_count"`
	Private         *bool    `json:"private"`
	Fork            *bool    `json:"fork"`
	CreatedAt       *string  `json:"created_at"`
	UpdatedAt       *string  `json:"updated_at"`
	PushedAt        *string  `json:"pushed_at"`
	DefaultBranch   *string  `json:"default_branch"`
	Topics          []string `json:"topics"`
}

// Repository is the normalized form of a GitHub repository
type Repository struct {
	ID            *int64   `json:"id"`
	Name          *string  `json:"name"`
	FullName      *string  `json:"full_name"`
	Description   string   `json:"description"`
	URL           *string  `json:"url"`
	CloneURL      *string  `json:"clone_url"`
	Language      *string  `json:"language"`
	Stars         int      `json:"stars"`
	Forks         int      `json:"forks"`
	Watchers      int      `json:"watchers"`
	OpenIssues    int      `json:"open_issues"`
	IsPrivate     bool     `json:"is_private"`
	IsFork        bool     `json:"is_fork"`
	CreatedAt     *string  `json:"created_at"`
	UpdatedAt     *string  `json:"updated_at"`
	PushedAt      *string  `json:"pushed_at"`
	DefaultBranch string   `json:"default_branch"`
	Topics        []string `json:"topics"`
}
