package sources

import (
	"context"
	"fmt"
	"os"
	"strings"

	nmap "github.com/Ullaakut/nmap/v3"

	"subtrace/internal/platform/errors"
	"subtrace/internal/platform/logx"
	"subtrace/internal/runner"
)

// Nmap escanea los hosts vivos mediante la librería de Ullaakut, que ejecuta
// el binario nmap del sistema. El run estructurado se vuelca como resumen de
// texto en outPath para mantener el contrato de artefactos por herramienta.
func Nmap(ctx context.Context, hosts []string, ports, outPath string) error {
	if !runner.HasBin("nmap") {
		return errors.NewMissingBinaryError("nmap")
	}

	if len(hosts) == 0 {
		return os.WriteFile(outPath, []byte("sin hosts vivos que escanear\n"), 0o644)
	}

	opts := []nmap.Option{
		nmap.WithTargets(hosts...),
	}
	if ports != "" {
		opts = append(opts, nmap.WithPorts(ports))
	}

	scanner, err := nmap.NewScanner(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create nmap scanner: %w", err)
	}

	result, warnings, err := scanner.Run()
	if err != nil {
		return fmt.Errorf("run nmap: %w", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		logx.Warn("Nmap reportó warnings", logx.Fields{"warnings": strings.Join(*warnings, "; ")})
	}

	return os.WriteFile(outPath, []byte(formatRun(result)), 0o644)
}

func formatRun(result *nmap.Run) string {
	var sb strings.Builder

	for _, host := range result.Hosts {
		name := hostLabel(host)
		fmt.Fprintf(&sb, "Host: %s (%s)\n", name, host.Status.State)
		for _, port := range host.Ports {
			service := port.Service.Name
			if port.Service.Product != "" {
				service = strings.TrimSpace(service + " " + port.Service.Product + " " + port.Service.Version)
			}
			fmt.Fprintf(&sb, "  %d/%s %s %s\n", port.ID, port.Protocol, port.State.State, service)
		}
		sb.WriteString("\n")
	}

	if summary := result.Stats.Finished.Summary; summary != "" {
		sb.WriteString(summary)
		sb.WriteString("\n")
	}
	return sb.String()
}

func hostLabel(host nmap.Host) string {
	for _, hn := range host.Hostnames {
		if hn.Name != "" {
			return hn.Name
		}
	}
	for _, addr := range host.Addresses {
		if addr.Addr != "" {
			return addr.Addr
		}
	}
	return "desconocido"
}
