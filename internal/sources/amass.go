package sources

import (
	"context"

	"subtrace/internal/runner"
)

// Amass enumera subdominios en modo pasivo, capturando la salida en outPath.
func Amass(ctx context.Context, target, outPath string) error {
	return runner.RunToFile(ctx, outPath, "amass", "enum", "-passive", "-d", target)
}
