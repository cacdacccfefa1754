package templates

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
	"github.com/childrens-bti/ticket-tracker-app/internal/logger"
	"github.com/childrens-bti/ticket-tracker-app/internal/models"
)

// maxConcurrentFetches bounds parallel fetches while listing templates.
const maxConcurrentFetches = 4

type Service struct {
	store Store
	dir   string
}

type Option func(*Service)

// WithStore sets the store templates are loaded from.
func WithStore(store Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithDir sets the directory InitializeTemplates writes to. When no store is
// configured, templates are also read from it.
func WithDir(dir string) Option {
	return func(s *Service) {
		s.dir = dir
	}
}

func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil && s.dir != "" {
		s.store = NewDirStore(s.dir)
	}
	return s
}

// Load fetches and parses the template with the given identifier.
func (s *Service) Load(ctx context.Context, id string) (*models.Template, error) {
	if s.store == nil {
		return nil, domainErrors.ErrConfigMissing.WithContext("detail", "no template source configured")
	}

	raw, err := s.store.Fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	tpl, err := Parse(raw)
	if err != nil {
		logger.Error(ctx, "failed to parse template", err, "template", id)
		return nil, err
	}

	tpl.ID = id
	if tpl.IssueType == "" {
		tpl.IssueType = IssueTypeFor(id)
	}
	if tpl.Name == "" {
		tpl.Name = id
	}

	logger.Debug(ctx, "loaded template", "template", id, "blocks", len(tpl.Body))
	return tpl, nil
}

// ListTemplates loads every template of the store. Templates that fail to
// load are skipped with a warning.
func (s *Service) ListTemplates(ctx context.Context) ([]models.TemplateMetadata, error) {
	if s.store == nil {
		return nil, domainErrors.ErrConfigMissing.WithContext("detail", "no template source configured")
	}

	ids, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu        sync.Mutex
		templates = make([]models.TemplateMetadata, 0, len(ids))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for _, id := range ids {
		g.Go(func() error {
			tpl, err := s.Load(gctx, id)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn(ctx, "skipping invalid template", "template", id, "error", err)
				return nil
			}

			mu.Lock()
			templates = append(templates, models.TemplateMetadata{
				ID:          id,
				Name:        tpl.Name,
				Description: tpl.Description,
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(templates, func(i, j int) bool { return templates[i].ID < templates[j].ID })

	logger.Debug(ctx, "listed templates", "count", len(templates))
	return templates, nil
}

// InitializeTemplates writes the built-in templates to the configured
// directory. Existing files are kept unless force is set.
func (s *Service) InitializeTemplates(ctx context.Context, force bool) error {
	if s.dir == "" {
		return domainErrors.ErrConfigMissing.WithContext("detail", "no templates directory configured")
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		logger.Error(ctx, "failed to create templates directory", err, "path", s.dir)
		return domainErrors.NewAppError(domainErrors.TypeInternal, "failed to create templates directory", err)
	}

	builtins := builtinTemplates()
	ids := make([]string, 0, len(builtins))
	for id := range builtins {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	created := 0
	skipped := 0

	for _, id := range ids {
		filePath := filepath.Join(s.dir, id+".yml")

		if _, err := os.Stat(filePath); err == nil && !force {
			logger.Debug(ctx, "template already exists, skipping", "path", filePath)
			skipped++
			continue
		}

		content, err := renderDocument(builtins[id])
		if err != nil {
			return domainErrors.NewAppError(domainErrors.TypeInternal, fmt.Sprintf("failed to render template: %s", id), err)
		}

		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			logger.Error(ctx, "failed to write template file during initialization", err, "path", filePath)
			return domainErrors.NewAppError(domainErrors.TypeInternal, fmt.Sprintf("failed to write template: %s", filePath), err)
		}
		logger.Info(ctx, "created template", "path", filePath)
		created++
	}

	if invalidator, ok := s.store.(interface{ Invalidate() }); ok {
		invalidator.Invalidate()
	}

	logger.Info(ctx, "template initialization complete", "created", created, "skipped", skipped)
	if created == 0 && skipped > 0 {
		return domainErrors.ErrTemplatesExist.WithContext("dir", s.dir)
	}
	return nil
}

// Dir returns the directory InitializeTemplates writes to.
func (s *Service) Dir() string {
	return s.dir
}
