package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/ruslan-rv-ua/py2winapp/internal/paths"
)

// Represents the 'py2winapp clean' command.
type CleanCmd struct {
	Project string `short:"p" help:"Project root. Defaults to the current directory." placeholder:"DIR" type:"existingdir"`
	Cache   bool   `help:"Also remove the persistent download cache."`
}

// Executes the clean command.
//
// Removes the project's build and dist directories. The shared download
// cache is kept unless --cache is given.
func (c *CleanCmd) Run(ctx context.Context, log hclog.Logger) error {
	project := c.Project
	if project == "" {
		project = "."
	}

	for _, dir := range []string{"build", "dist"} {
		p := filepath.Join(project, dir)
		log.Info("removing", "path", p)
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}

	if c.Cache {
		log.Info("removing download cache", "path", paths.Cache())
		return os.RemoveAll(paths.Cache())
	}
	return nil
}
