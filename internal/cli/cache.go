package cli

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/ruslan-rv-ua/py2winapp/internal/fetch"
	"github.com/ruslan-rv-ua/py2winapp/internal/paths"
)

// Represents the 'py2winapp cache' command.
type CacheCmd struct {
	Prune bool `help:"Remove leftover partial downloads."`
}

// Executes the cache command.
//
// Prints the cache location; with --prune, removes interrupted download
// temporaries. Completed cache entries are never touched.
func (c *CacheCmd) Run(ctx context.Context, log hclog.Logger) error {
	fmt.Println(paths.Cache())

	if c.Prune {
		n, err := fetch.PruneCache(paths.Cache())
		if err != nil {
			return err
		}
		log.Info("pruned partial downloads", "count", n)
	}
	return nil
}
