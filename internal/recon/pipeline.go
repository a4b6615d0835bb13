package recon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"subtrace/internal/aggregate"
	"subtrace/internal/config"
	"subtrace/internal/netutil"
	apperrors "subtrace/internal/platform/errors"
	"subtrace/internal/platform/logx"
	"subtrace/internal/runner"
	"subtrace/internal/sources"
)

// Hooks permite a la capa de presentación seguir el avance del pipeline.
// OnToolDone se invoca exactamente una vez por adapter completado.
type Hooks struct {
	OnToolStart func(tool Tool)
	OnToolDone  func(tool Tool, status Status)
}

// Pipeline ejecuta la secuencia ordenada de adapters para un dominio.
// Secuencial a propósito: escanear en paralelo castiga al objetivo y hace
// el progreso impredecible para la capa de presentación.
type Pipeline struct {
	cfg   *config.Config
	hooks Hooks
}

// New construye un Pipeline con la configuración y hooks dados.
func New(cfg *config.Config, hooks Hooks) *Pipeline {
	return &Pipeline{cfg: cfg, hooks: hooks}
}

type state struct {
	alive []string
}

type stepFunc func(ctx context.Context, p *Pipeline, job *Job, st *state) error

// toolStep es una entrada de la secuencia fija. Los pasos sin Tool son
// derivaciones locales (combinar, cruzar vivos) que alimentan a las
// herramientas siguientes y no producen ToolResult ni callbacks.
type toolStep struct {
	Tool Tool
	Name string
	Run  stepFunc
}

var pipelineSteps = []toolStep{
	{Tool: ToolAmass, Run: stepAmass},
	{Tool: ToolDNSRecon, Run: stepDNSRecon},
	{Tool: ToolSubfinder, Run: stepSubfinder},
	{Name: "combinar", Run: stepCombine},
	{Tool: ToolHTTPX, Run: stepHTTPX},
	{Name: "vivos", Run: stepAlive},
	{Tool: ToolGowitness, Run: stepGowitness},
	{Tool: ToolNmap, Run: stepNmap},
}

// Run valida el target, crea el directorio de trabajo y ejecuta los pasos
// en orden. Solo InvalidDomain y el fallo creando el directorio abortan el
// job; cada fallo de herramienta queda registrado y el pipeline continúa.
// Ante cancelación devuelve el Job con los resultados acumulados y el error
// del contexto.
func (p *Pipeline) Run(ctx context.Context) (*Job, error) {
	normalized, reason := netutil.ValidateTarget(p.cfg.Target)
	if normalized == "" {
		return nil, apperrors.NewInvalidDomainError(p.cfg.Target, reason)
	}

	workdir := filepath.Join(p.cfg.OutDir, normalized+"-recon")
	if err := os.MkdirAll(workdir, 0o755); err != nil {
		return nil, apperrors.NewDirectoryError(workdir, err)
	}

	job := &Job{
		Domain:    normalized,
		WorkDir:   workdir,
		StartedAt: time.Now(),
	}

	requested := make(map[Tool]bool, len(p.cfg.Tools))
	for _, name := range p.cfg.Tools {
		requested[Tool(strings.ToLower(strings.TrimSpace(name)))] = true
	}

	logx.Info("Iniciando reconocimiento", logx.Fields{
		"domain":  job.Domain,
		"workdir": job.WorkDir,
		"tools":   strings.Join(p.cfg.Tools, ","),
	})

	st := &state{}
	for _, step := range pipelineSteps {
		// La cancelación se comprueba antes de arrancar cada paso: un job
		// abortado no lanza más procesos.
		if err := ctx.Err(); err != nil {
			logx.Warn("Job cancelado", logx.Fields{"domain": job.Domain, "results": len(job.Results)})
			return job, err
		}

		if step.Tool == "" {
			if err := step.Run(ctx, p, job, st); err != nil {
				logx.Warn("Paso interno con problemas", logx.Fields{"step": step.Name, "error": err.Error()})
			}
			continue
		}

		if !requested[step.Tool] {
			logx.Debug("Herramienta no solicitada, omitida", logx.Fields{"tool": string(step.Tool)})
			continue
		}

		p.runTool(ctx, step, job, st)
	}

	return job, nil
}

func (p *Pipeline) runTool(ctx context.Context, step toolStep, job *Job, st *state) {
	if p.hooks.OnToolStart != nil {
		p.hooks.OnToolStart(step.Tool)
	}

	timeout := p.cfg.TimeoutS
	tctx, cancel := runner.WithTimeout(ctx, timeout)
	start := time.Now()
	err := step.Run(tctx, p, job, st)
	cancel()
	duration := time.Since(start)

	status := StatusSuccess
	if err != nil {
		status = StatusFailure
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = apperrors.NewTimeoutError(string(step.Tool), timeout)
		}
		logx.Warn("Herramienta falló", logx.Fields{
			"tool":  string(step.Tool),
			"error": err.Error(),
		})
	} else {
		logx.Debug("Herramienta completada", logx.Fields{
			"tool":        string(step.Tool),
			"duration_ms": duration.Milliseconds(),
		})
	}

	job.Results = append(job.Results, ToolResult{
		Tool:       step.Tool,
		Status:     status,
		OutputPath: artifact(job, step.Tool),
		Duration:   duration,
		Err:        err,
	})

	if p.hooks.OnToolDone != nil {
		p.hooks.OnToolDone(step.Tool, status)
	}
}

// artifact devuelve la ruta del archivo de captura de una herramienta.
func artifact(job *Job, tool Tool) string {
	return filepath.Join(job.WorkDir, string(tool)+".txt")
}

func stepAmass(ctx context.Context, _ *Pipeline, job *Job, _ *state) error {
	return sources.Amass(ctx, job.Domain, artifact(job, ToolAmass))
}

func stepDNSRecon(ctx context.Context, _ *Pipeline, job *Job, _ *state) error {
	return sources.DNSRecon(ctx, job.Domain, artifact(job, ToolDNSRecon))
}

func stepSubfinder(ctx context.Context, _ *Pipeline, job *Job, _ *state) error {
	return sources.Subfinder(ctx, job.Domain, artifact(job, ToolSubfinder))
}

func stepCombine(_ context.Context, _ *Pipeline, job *Job, _ *state) error {
	hosts, err := aggregate.CombineSubdomains(job.WorkDir)
	if err != nil {
		return err
	}
	logx.Info("Subdominios combinados", logx.Fields{"count": len(hosts)})
	return nil
}

func stepHTTPX(ctx context.Context, _ *Pipeline, job *Job, _ *state) error {
	listPath := filepath.Join(job.WorkDir, aggregate.SubdomainsFile)
	return sources.HTTPX(ctx, listPath, artifact(job, ToolHTTPX))
}

func stepAlive(_ context.Context, _ *Pipeline, job *Job, st *state) error {
	hosts, err := aggregate.AliveHosts(job.WorkDir)
	if err != nil {
		return err
	}
	st.alive = hosts
	logx.Info("Hosts vivos", logx.Fields{"count": len(hosts)})
	return nil
}

func stepGowitness(ctx context.Context, _ *Pipeline, job *Job, _ *state) error {
	listPath := filepath.Join(job.WorkDir, aggregate.AliveFile)
	shotsDir := filepath.Join(job.WorkDir, "gowitness", "shots")
	return sources.Gowitness(ctx, listPath, shotsDir, artifact(job, ToolGowitness))
}

func stepNmap(ctx context.Context, p *Pipeline, job *Job, st *state) error {
	return sources.Nmap(ctx, st.alive, p.cfg.Ports, artifact(job, ToolNmap))
}
