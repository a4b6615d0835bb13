package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	flag "github.com/spf13/pflag"

	"subtrace/internal/aggregate"
	"subtrace/internal/config"
	"subtrace/internal/netutil"
	"subtrace/internal/platform/logx"
	"subtrace/internal/recon"
	"subtrace/internal/report"
	"subtrace/internal/ui"
)

func main() {
	cfg := config.ParseFlags()

	logx.SetVerbosity(cfg.Verbosity)

	if cfg.Target == "" {
		fmt.Fprintln(os.Stderr, "uso: subtrace [flags] <dominio>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Ctrl-C cancela el pipeline; la herramienta en curso se mata y lo ya
	// escrito en disco se conserva.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	presenter := ui.NewPresenter()
	if err := run(ctx, cfg, presenter); err != nil {
		presenter.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, presenter *ui.Presenter) error {
	normalized, reason := netutil.ValidateTarget(cfg.Target)
	if reason != "" {
		return fmt.Errorf("dominio %q inválido: %s", cfg.Target, reason)
	}

	presenter.Start(ui.ScanInfo{
		Target:   normalized,
		WorkDir:  filepath.Join(cfg.OutDir, normalized+"-recon"),
		Tools:    cfg.Tools,
		TimeoutS: cfg.TimeoutS,
	})

	pipeline := recon.New(cfg, presenter.Hooks())
	job, err := pipeline.Run(ctx)
	if err != nil {
		if ctx.Err() != nil && job != nil {
			presenter.Warning("Escaneo interrumpido; los resultados parciales quedan en " + job.WorkDir)
			return nil
		}
		return err
	}

	records, err := aggregate.Build(job.WorkDir)
	if err != nil {
		return fmt.Errorf("agregando resultados: %w", err)
	}

	var whois *report.WhoisSummary
	if cfg.Whois {
		whois, err = report.Whois(job.Domain)
		if err != nil {
			logx.Warn("Consulta WHOIS fallida", logx.Fields{"error": err.Error()})
		}
	}

	data := report.BuildData(job, records, whois)
	htmlPath, err := report.GenerateHTML(data, job.WorkDir)
	if err != nil {
		return fmt.Errorf("generando informe HTML: %w", err)
	}
	presenter.Info("Informe HTML: " + htmlPath)

	if cfg.PDF {
		pdfPath := report.PDFPath(job.WorkDir, job.Domain)
		if err := report.GeneratePDF(htmlPath, pdfPath, cfg.PDFEngine); err != nil {
			// El PDF es best-effort; el HTML ya está en disco.
			presenter.Warning("PDF no generado: " + err.Error())
		} else {
			presenter.Info("Informe PDF: " + pdfPath)
		}
	}

	presenter.Finish(job, len(records))
	return nil
}
