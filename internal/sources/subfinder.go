package sources

import (
	"context"

	"subtrace/internal/runner"
)

// Subfinder descubre subdominios adicionales; -silent deja un hostname por
// línea, listo para el agregador.
func Subfinder(ctx context.Context, target, outPath string) error {
	return runner.RunToFile(ctx, outPath, "subfinder", "-d", target, "-silent")
}
