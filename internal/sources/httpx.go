package sources

import (
	"context"

	"subtrace/internal/platform/errors"
	"subtrace/internal/runner"
)

// HTTPX sondea los subdominios combinados y deja los vivos en outPath.
// Algunas distros empaquetan el binario de ProjectDiscovery como
// httpx-toolkit para no chocar con el CLI de Python del mismo nombre.
func HTTPX(ctx context.Context, listPath, outPath string) error {
	bin, ok := runner.FindBin("httpx", "httpx-toolkit")
	if !ok {
		return errors.NewMissingBinaryError("httpx")
	}
	return runner.RunToFile(ctx, outPath, bin, "-l", listPath, "-sc", "-title", "-silent")
}
