package models

// RawBranchRef is the head or base branch of a pull request
type RawBranchRef struct {
	Ref *string `json:"ref"`
}

// RawPullRequest is a pull request object as returned by the GitHub REST API.
// The list endpoint omits the size counters, so they stay nil there.
type RawPullRequest struct {
	ID                 *int64        `json:"id"`
	Number             *int          `json:"number"`
	Title              *string       `json:"title"`
	Body               *string       `json:"body"`
	State              *string       `json:"state"`
	HTMLURL            *string       `json:"html_url"`
	User               *RawUserRef   `json:"user"`
	Head               *RawBranchRef `json:"head"`
	Base               *RawBranchRef `json:"base"`
	Labels             []RawLabel    `json:"labels"`
	Assignees          []RawUserRef  `json:"assignees"`
	RequestedReviewers []RawUserRef  `json:"requested_reviewers"`
	Comments           *int          `json:"comments"`
	ReviewComments     *int          `json:"review_comments"`
	Commits            *int          `json:"commits"`
	Additions          *int          `json:"additions"`
	Deletions          *int          `json:"deletions"`
	ChangedFiles       *int          `json:"changed_files"`
	Merged             *bool         `json:"merged"`
	Mergeable          *bool         `json:"mergeable"`
	CreatedAt          *string       `json:"created_at"`
	UpdatedAt          *string       `json:"updated_at"`
	ClosedAt           *string       `json:"closed_at"`
	MergedAt           *string       `json:"merged_at"`
}

// PullRequest is the normalized form of a GitHub pull request
type PullRequest struct {
	ID             *int64   `json:"id"`
	Number         *int     `json:"number"`
	Title          *string  `json:"title"`
	Body           string   `json:"body"`
	State          *string  `json:"state"`
	URL            *string  `json:"url"`
	User           *string  `json:"user"`
	HeadBranch     *string  `json:"head_branch"`
	BaseBranch     *string  `json:"base_branch"`
	Labels         []string `json:"labels"`
	Assignees      []string `json:"assignees"`
	Reviewers      []string `json:"reviewers"`
	Comments       int      `json:"comments"`
	ReviewComments int      `json:"review_comments"`
	Commits        int      `json:"commits"`
	Additions      *int     `json:"additions"`
	Deletions      *int     `json:"deletions"`
	ChangedFiles   *int     `json:"changed_files"`
	Merged         bool     `json:"merged"`
	Mergeable      *bool    `json:"mergeable"`
	CreatedAt      *string  `json:"created_at"`
	UpdatedAt      *string  `json:"updated_at"`
	ClosedAt       *string  `json:"closed_at"`
	MergedAt       *string  `json:"merged_at"`
}
