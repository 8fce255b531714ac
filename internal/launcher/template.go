package launcher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ruslan-rv-ua/py2winapp/internal/paths"
)

const (

	// Template file name for a console-attached launcher.
	ConsoleTemplate = "py2launch-console.exe"

	// Template file name for a windowless launcher.
	WindowTemplate = "py2launch-window.exe"
)

// Resolves the stub template to patch.
//
// An explicitly configured path wins and must exist. Otherwise the
// console-visibility flag selects the template name, which is looked up in
// the template search directories: beside the running executable first,
// then under the XDG data directories.
func FindTemplate(explicit string, showConsole bool) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("%w: template %s: %w", ErrGenerate, explicit, err)
		}
		return explicit, nil
	}

	name := WindowTemplate
	if showConsole {
		name = ConsoleTemplate
	}

	dirs := paths.TemplateDirs()
	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: template %s not found in %v", ErrGenerate, name, dirs)
}
