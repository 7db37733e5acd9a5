package models

// RawUser is a user profile as returned by GET /users/{username}
type RawUser struct {
	ID          *int64  `json:"id"`
	Login       *string `json:"login"`
	Name        *string `json:"name"`
	Bio         *string `json:"bio"`
	Company     *string `json:"company"`
	Blog        *string `json:"blog"`
	Location    *string `json:"location"`
	Email       *string `json:"email"`
	Hireable    *bool   `json:"hireable"`
	PublicRepos *int    `json:"public_repos"`
	PublicGists *int    `json:"public_gists"`
	Followers   *int    `json:"followers"`
	Following   *int    `json:"following"`
	CreatedAt   *string `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
	HTMLURL     *string `json:"html_url"`
}

// Profile is the normalized form of a GitHub user
type Profile struct {
	ID          *int64  `json:"id"`
	Login       *string `json:"login"`
	Name        *string `json:"name"`
	Bio         string  `json:"bio"`
	Company     *string `json:"company"`
	Blog        *string `json:"blog"`
	Location    *string `json:"location"`
	Email       *string `json:"email"`
	Hireable    *bool   `json:"hireable"`
	PublicRepos int     `json:"public_repos"`
	PublicGists int     `json:"public_gists"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
	CreatedAt   *string `json:"created_at"`
	UpdatedAt   *string `json:"updated_at"`
	URL         *string `json:"url"`
}
