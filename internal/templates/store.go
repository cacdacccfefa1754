package templates

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/go-github/v80/github"
	gocache "github.com/patrickmn/go-cache"

	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
	"github.com/childrens-bti/ticket-tracker-app/internal/logger"
	"github.com/childrens-bti/ticket-tracker-app/internal/regex"
)

// Store fetches raw template documents by identifier.
type Store interface {
	Fetch(ctx context.Context, id string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

var templateExtensions = []string{".yml", ".yaml"}

func validID(id string) error {
	if !regex.TemplateID.MatchString(id) {
		return domainErrors.ErrTemplateNotFound.
			WithContext("template", id).
			WithContext("detail", "invalid template identifier")
	}
	return nil
}

func idFromFileName(name string) (string, bool) {
	for _, ext := range templateExtensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext), true
		}
	}
	return "", false
}

// DirStore reads templates from a local directory as <id>.yml or <id>.yaml.
type DirStore struct {
	dir string
}

func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

func (s *DirStore) Dir() string {
	return s.dir
}

func (s *DirStore) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := validID(id); err != nil {
		return nil, err
	}

	for _, ext := range templateExtensions {
		filePath := filepath.Join(s.dir, id+ext)
		content, err := os.ReadFile(filePath)
		if err == nil {
			logger.Debug(ctx, "read template file", "template", id, "path", filePath)
			return content, nil
		}
		if !os.IsNotExist(err) {
			logger.Error(ctx, "failed to read template file", err, "path", filePath)
			return nil, domainErrors.NewAppError(domainErrors.TypeTemplate, fmt.Sprintf("failed to read template file: %s", filePath), err)
		}
	}

	logger.Warn(ctx, "template not found in directory", "template", id, "dir", s.dir)
	return nil, domainErrors.ErrTemplateNotFound.WithContext("template", id)
}

func (s *DirStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug(ctx, "templates directory does not exist, returning empty list", "path", s.dir)
			return []string{}, nil
		}
		logger.Error(ctx, "failed to read templates directory", err, "path", s.dir)
		return nil, domainErrors.NewAppError(domainErrors.TypeTemplate, "failed to read templates directory", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, ok := idFromFileName(entry.Name()); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// ContentsService is the subset of the GitHub repositories API used to read
// templates stored in a repository.
type ContentsService interface {
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
}

// GitHubStore reads templates from a directory of a GitHub repository.
type GitHubStore struct {
	contents ContentsService
	owner    string
	repo     string
	dir      string
	ref      string
}

func NewGitHubStore(contents ContentsService, owner, repo, dir, ref string) *GitHubStore {
	return &GitHubStore{
		contents: contents,
		owner:    owner,
		repo:     repo,
		dir:      dir,
		ref:      ref,
	}
}

func (s *GitHubStore) options() *github.RepositoryContentGetOptions {
	if s.ref == "" {
		return nil
	}
	return &github.RepositoryContentGetOptions{Ref: s.ref}
}

func (s *GitHubStore) Fetch(ctx context.Context, id string) ([]byte, error) {
	if err := validID(id); err != nil {
		return nil, err
	}

	for _, ext := range templateExtensions {
		p := path.Join(s.dir, id+ext)
		file, _, resp, err := s.contents.GetContents(ctx, s.owner, s.repo, p, s.options())
		if err != nil {
			if resp != nil && resp.StatusCode == http.StatusNotFound {
				continue
			}
			logger.Error(ctx, "failed to fetch template from repository", err,
				"owner", s.owner,
				"repo", s.repo,
				"path", p)
			return nil, domainErrors.NewAppError(domainErrors.TypeTemplate, fmt.Sprintf("failed to fetch template: %s", p), err)
		}
		if file == nil {
			continue
		}

		content, err := file.GetContent()
		if err != nil {
			return nil, domainErrors.NewAppError(domainErrors.TypeTemplate, fmt.Sprintf("failed to decode template: %s", p), err)
		}
		logger.Debug(ctx, "fetched template from repository", "template", id, "path", p, "size", len(content))
		return []byte(content), nil
	}

	logger.Warn(ctx, "template not found in repository", "template", id, "repo", fmt.Sprintf("%s/%s", s.owner, s.repo))
	return nil, domainErrors.ErrTemplateNotFound.
		WithContext("template", id).
		WithContext("repo", fmt.Sprintf("%s/%s", s.owner, s.repo))
}

func (s *GitHubStore) List(ctx context.Context) ([]string, error) {
	_, entries, resp, err := s.contents.GetContents(ctx, s.owner, s.repo, s.dir, s.options())
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return []string{}, nil
		}
		return nil, domainErrors.NewAppError(domainErrors.TypeTemplate, "failed to list templates in repository", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.GetType() != "file" {
			continue
		}
		if id, ok := idFromFileName(entry.GetName()); ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

const listCacheKey = "\x00list"

// CachedStore keeps fetched documents for a while so that repeated form runs
// do not hit the underlying store every time.
type CachedStore struct {
	inner Store
	cache *gocache.Cache
}

func NewCachedStore(inner Store, ttl time.Duration) *CachedStore {
	return &CachedStore{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (s *CachedStore) Fetch(ctx context.Context, id string) ([]byte, error) {
	if v, ok := s.cache.Get(id); ok {
		if raw, ok := v.([]byte); ok {
			logger.Debug(ctx, "template cache hit", "template", id)
			return raw, nil
		}
	}

	raw, err := s.inner.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(id, raw, gocache.DefaultExpiration)
	return raw, nil
}

func (s *CachedStore) List(ctx context.Context) ([]string, error) {
	if v, ok := s.cache.Get(listCacheKey); ok {
		if ids, ok := v.([]string); ok {
			return append([]string(nil), ids...), nil
		}
	}

	ids, err := s.inner.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(listCacheKey, ids, gocache.DefaultExpiration)
	return append([]string(nil), ids...), nil
}

// Invalidate drops every cached document.
func (s *CachedStore) Invalidate() {
	s.cache.Flush()
}
