package models

import "fmt"

// Kind identifies the type of records a payload holds
type Kind string

const (
	KindUnknown      Kind = "unknown"
	KindRepos        Kind = "repos"
	KindIssues       Kind = "issues"
	KindPullRequests Kind = "prs"
	KindProfile      Kind = "profile"
	KindTrending     Kind = "trending"
)

// Kinds lists every known kind except unknown.
func Kinds() []Kind {
	return []Kind{KindRepos, KindIssues, KindPullRequests, KindProfile, KindTrending}
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a name such as "prs" to a Kind.
func ParseKind(s string) (Kind, error) {
	if s == string(KindUnknown) {
		return KindUnknown, nil
	}
	for _, k := range Kinds() {
		if s == string(k) {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown record type %q", s)
}
