package cli

import (
	"context"
	"fmt"

	"github.com/ruslan-rv-ua/py2winapp/internal"
)

// Represents the 'py2winapp version' command.
type VersionCmd struct{}

// Executes the version command.
func (c *VersionCmd) Run(ctx context.Context) error {
	fmt.Println(internal.VersionString())
	return nil
}
