// Package ui renderiza el avance del escaneo en terminal usando pterm:
// header con la configuración, un spinner por herramienta y el resumen
// final. Toda la salida de presentación va por stdout; el logging
// estructurado sigue yendo a stderr.
package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"subtrace/internal/recon"
)

// Presenter sigue el avance del pipeline. Una instancia por escaneo.
type Presenter struct {
	mu sync.Mutex

	startedAt time.Time
	spinner   *pterm.SpinnerPrinter

	done   int
	failed int
	total  int
}

// ScanInfo es lo que el header muestra antes de arrancar.
type ScanInfo struct {
	Target   string
	WorkDir  string
	Tools    []string
	TimeoutS int
}

func NewPresenter() *Presenter {
	return &Presenter{}
}

// Start muestra el header del escaneo.
func (p *Presenter) Start(info ScanInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.startedAt = time.Now()
	p.total = len(info.Tools)

	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("SubTrace - Reconocimiento de subdominios")

	pterm.Println()

	box := pterm.DefaultBox.
		WithTitle("Objetivo").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan))

	body := fmt.Sprintf("Dominio: %s\n", pterm.Cyan(info.Target))
	body += fmt.Sprintf("Directorio: %s\n", info.WorkDir)
	body += fmt.Sprintf("Herramientas: %d\n", len(info.Tools))
	body += fmt.Sprintf("Timeout por herramienta: %ds", info.TimeoutS)

	box.Println(body)
	pterm.Println()
}

// Hooks adapta el presenter al pipeline. El pipeline es secuencial, así
// que hay a lo sumo un spinner activo.
func (p *Presenter) Hooks() recon.Hooks {
	return recon.Hooks{
		OnToolStart: p.onToolStart,
		OnToolDone:  p.onToolDone,
	}
}

func (p *Presenter) onToolStart(tool recon.Tool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Con Writer nil el spinner sigue la salida por defecto de pterm
	// (stdout), igual que el resto de la presentación; el default de la
	// librería es stderr.
	spinner, _ := pterm.DefaultSpinner.
		WithWriter(nil).
		WithStyle(pterm.NewStyle(pterm.FgCyan)).
		Start(fmt.Sprintf("Ejecutando %s...", pterm.Cyan(string(tool))))
	p.spinner = spinner
}

func (p *Presenter) onToolDone(tool recon.Tool, status recon.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	if p.spinner != nil {
		switch status {
		case recon.StatusSuccess:
			p.spinner.Success(fmt.Sprintf("%s completado (%d/%d)", tool, p.done, p.total))
		default:
			p.spinner.Warning(fmt.Sprintf("%s falló, se continúa con el resto (%d/%d)", tool, p.done, p.total))
		}
		p.spinner = nil
	}
	if status != recon.StatusSuccess {
		p.failed++
	}
}

// Finish cierra cualquier spinner pendiente y muestra el resumen.
func (p *Presenter) Finish(job *recon.Job, records int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}

	elapsed := time.Since(p.startedAt).Round(time.Second)

	pterm.Println()
	pterm.DefaultSection.Println("Resumen")
	pterm.Info.Printf("Subdominios únicos: %d\n", records)
	pterm.Info.Printf("Herramientas: %d ok, %d con fallos\n", p.done-p.failed, p.failed)
	pterm.Info.Printf("Duración: %s\n", elapsed)
	pterm.Info.Printf("Resultados en: %s\n", job.WorkDir)
}

// Info muestra un mensaje informativo fuera del ciclo de spinners.
func (p *Presenter) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pterm.Info.Println(msg)
}

// Warning muestra una advertencia sin abortar.
func (p *Presenter) Warning(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pterm.Warning.Println(msg)
}

// Error muestra un error fatal antes de salir.
func (p *Presenter) Error(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pterm.Error.Println(msg)
}
