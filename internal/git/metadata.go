// Package git reads best-effort metadata about the repository a baseline
// lives in.
package git

import (
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// Metadata identifies a checkout. Fields are empty when unknown.
type Metadata struct {
	Repo   string
	Commit string
	Branch string
}

// RepoMetadata returns metadata for the repository containing root. A
// directory outside any repository yields the zero value.
func RepoMetadata(root string) Metadata {
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Metadata{}
	}
	var md Metadata
	if remote, err := repo.Remote("origin"); err == nil && len(remote.Config().URLs) > 0 {
		md.Repo = shortRepo(remote.Config().URLs[0])
	}
	if head, err := repo.Head(); err == nil {
		md.Commit = head.Hash().String()
		if head.Name().IsBranch() {
			md.Branch = head.Name().Short()
		}
	}
	return md
}

// shortRepo trims a remote URL to owner/name when it can.
func shortRepo(url string) string {
	s := strings.TrimSuffix(url, ".git")
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
		if j := strings.Index(s, "/"); j >= 0 {
			s = s[j+1:]
		}
	} else if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[i+1:]
	}
	return s
}
