package engine

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
)

// trackedFiles lists the index entries of the work tree containing root,
// relative to root. ok is false when root is not inside a repository.
func trackedFiles(root string, cfg Config) ([]string, bool) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, false
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, false
	}
	idx, err := repo.Storer.Index()
	if err != nil {
		cfg.Logger.Debug().Err(err).Str("root", root).Msg("reading git index")
		return nil, false
	}
	prefix, err := relToWorktree(wt.Filesystem.Root(), root)
	if err != nil {
		return nil, false
	}
	var out []string
	for _, e := range idx.Entries {
		name := e.Name
		if prefix != "" {
			if !strings.HasPrefix(name, prefix+"/") {
				continue
			}
			name = strings.TrimPrefix(name, prefix+"/")
		}
		out = append(out, name)
	}
	sort.Strings(out)
	cfg.Logger.Debug().Str("root", root).Int("files", len(out)).Msg("using git tracked files")
	return out, true
}

func relToWorktree(wtRoot, root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if r, err := filepath.EvalSymlinks(absRoot); err == nil {
		absRoot = r
	}
	if r, err := filepath.EvalSymlinks(wtRoot); err == nil {
		wtRoot = r
	}
	rel, err := filepath.Rel(wtRoot, absRoot)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "", nil
	}
	return rel, nil
}
