package upgrade

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

var lockfiles = []struct {
	name string
	pm   string
}{
	{"pnpm-lock.yaml", "pnpm"},
	{"yarn.lock", "yarn"},
	{"bun.lockb", "bun"},
	{"bun.lock", "bun"},
	{"package-lock.json", "npm"},
}

// DetectPackageManager returns the configured package manager, or the one
// whose lockfile is present in dir. pnpm is the fallback.
func DetectPackageManager(dir, configured string) string {
	if configured != "" {
		return configured
	}
	for _, lf := range lockfiles {
		if _, err := os.Stat(filepath.Join(dir, lf.name)); err == nil {
			return lf.pm
		}
	}
	return "pnpm"
}

// runInstall runs '<pm> install' in dir
func runInstall(ctx context.Context, dir, pm string) error {
	cmd := exec.CommandContext(ctx, pm, "install")
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
