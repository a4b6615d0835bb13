package sources

import (
	"context"
	"os"

	"subtrace/internal/runner"
)

// Gowitness captura screenshots de los hosts vivos bajo shotsDir. La salida
// de consola de la herramienta se conserva como artefacto propio.
func Gowitness(ctx context.Context, listPath, shotsDir, outPath string) error {
	if err := os.MkdirAll(shotsDir, 0o755); err != nil {
		return err
	}
	return runner.RunToFile(ctx, outPath, "gowitness", "file", "-f", listPath, "--destination", shotsDir)
}
