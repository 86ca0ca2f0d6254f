package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// resolvePath turns a configured path into an absolute one. $VAR and
// ${VAR} are expanded, a leading ~ is the user's home directory, and a
// relative path is taken from the working directory. Empty stays empty,
// which the memory backend relies on.
func resolvePath(p string) (string, error) {
	if p == "" {
		return "", nil
	}

	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %q: %w", p, err)
		}
		p = filepath.Join(home, p[1:])
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", p, err)
	}
	return abs, nil
}
