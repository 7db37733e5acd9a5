package models

import (
	"encoding/json"
	"strings"
)

// RawUserRef is the compact user object embedded in issues and pull requests
type RawUserRef struct {
	Login *string `json:"login"`
}

// RawLabel is a label attached to an issue or pull request
type RawLabel struct {
	Name *string `json:"name"`
}

// RawIssue is an issue object as returned by the GitHub REST API.
// PullRequest is kept raw: GitHub lists pull requests as issues and marks
// them with a non-empty pull_request object.
type RawIssue struct {
	ID          *int64          `json:"id"`
	Number      *int            `json:"number"`
	Title       *string         `json:"title"`
	Body        *string         `json:"body"`
	State       *string         `json:"state"`
	HTMLURL     *string         `json:"html_url"`
	User        *RawUserRef     `json:"user"`
	Labels      []RawLabel      `json:"labels"`
	Assignees   []RawUserRef    `json:"assignees"`
	Comments    *int            `json:"comments"`
	CreatedAt   *string         `json:"created_at"`
	UpdatedAt   *string         `json:"updated_at"`
	ClosedAt    *string         `json:"closed_at"`
	PullRequest json.RawMessage `json:"pull_request"`
}

// IsPullRequest reports whether the issue is a pull request in disguise,
// that is whether pull_request holds anything but an empty or false value.
func (i RawIssue) IsPullRequest() bool {
	switch strings.Join(strings.Fields(string(i.PullRequest)), "") {
	case "", "null", "{}", "[]", "false", "0", `""`:
		return false
	}
	return true
}

// Issue is the normalized form of a GitHub issue
type Issue struct {
	ID        *int64   `json:"id"`
	Number    *int     `json:"number"`
	Title     *string  `json:"title"`
	Body      string   `json:"body"`
	State     *string  `json:"state"`
	URL       *string  `json:"url"`
	User      *string  `json:"user"`
	Labels    []string `json:"labels"`
	Assignees []string `json:"assignees"`
	Comments  int      `json:"comments"`
	CreatedAt *string  `json:"created_at"`
	UpdatedAt *string  `json:"updated_at"`
	ClosedAt  *string  `json:"closed_at"`
}
