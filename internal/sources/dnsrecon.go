package sources

import (
	"context"

	"subtrace/internal/runner"
)

// DNSRecon recolecta registros DNS del dominio; el volcado crudo va al
// bloque de hallazgos del informe, no se parsea.
func DNSRecon(ctx context.Context, target, outPath string) error {
	return runner.RunToFile(ctx, outPath, "dnsrecon", "-d", target)
}
