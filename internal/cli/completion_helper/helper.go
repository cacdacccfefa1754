package completion_helper

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/childrens-bti/ticket-tracker-app/internal/models"
	"github.com/urfave/cli/v3"
)

// TemplateLister lists the templates offered for completion.
type TemplateLister interface {
	ListTemplates(ctx context.Context) ([]models.TemplateMetadata, error)
}

func writer(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	return os.Stdout
}

// DefaultFlagComplete prints every flag of the current command.
func DefaultFlagComplete(_ context.Context, cmd *cli.Command) {
	w := writer(cmd)
	for _, f := range cmd.Flags {
		for _, name := range f.Names() {
			if len(name) == 1 {
				_, _ = fmt.Fprintln(w, "-"+name)
			} else {
				_, _ = fmt.Fprintln(w, "--"+name)
			}
		}
	}
}

// TemplateComplete completes the template id argument, then falls back to flags.
// Listing errors are ignored so completion never prints noise.
func TemplateComplete(lister func(ctx context.Context) (TemplateLister, error)) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		if cmd.Args().Len() > 0 {
			DefaultFlagComplete(ctx, cmd)
			return
		}
		l, err := lister(ctx)
		if err == nil {
			if tpls, err := l.ListTemplates(ctx); err == nil {
				w := writer(cmd)
				for _, tpl := range tpls {
					_, _ = fmt.Fprintln(w, tpl.ID)
				}
			}
		}
		DefaultFlagComplete(ctx, cmd)
	}
}
