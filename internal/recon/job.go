// Package recon modela un trabajo de reconocimiento y ejecuta la secuencia
// fija de herramientas contra un dominio objetivo.
package recon

import "time"

// Tool identifica una de las herramientas externas del pipeline.
type Tool string

const (
	ToolAmass     Tool = "amass"
	ToolDNSRecon  Tool = "dnsrecon"
	ToolSubfinder Tool = "subfinder"
	ToolHTTPX     Tool = "httpx"
	ToolGowitness Tool = "gowitness"
	ToolNmap      Tool = "nmap"
)

// Status es el resultado de una invocación de herramienta.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// ToolResult registra una invocación. OutputPath se escribe una sola vez y
// no se muta después de que el adapter devuelve el control.
type ToolResult struct {
	Tool       Tool
	Status     Status
	OutputPath string
	Duration   time.Duration
	Err        error
}

// Job es el valor que el Pipeline construye y devuelve: los artefactos
// persisten en disco, el Job en sí se descarta tras generar el informe.
type Job struct {
	Domain    string
	WorkDir   string
	StartedAt time.Time
	Results   []ToolResult
}

// Result devuelve el ToolResult de la herramienta dada, si la herramienta
// llegó a ejecutarse en este job.
func (j *Job) Result(tool Tool) (ToolResult, bool) {
	for _, r := range j.Results {
		if r.Tool == tool {
			return r, true
		}
	}
	return ToolResult{}, false
}
