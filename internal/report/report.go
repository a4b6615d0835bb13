// Package report construye el informe final del escaneo: un HTML
// autocontenido y, si hay motor disponible, su hermano PDF.
package report

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"subtrace/internal/aggregate"
	"subtrace/internal/platform/logx"
	"subtrace/internal/recon"
)

// Data es el valor inmutable que se renderiza. Se construye una vez por job.
type Data struct {
	Domain      string
	GeneratedAt time.Time
	Records     []aggregate.Record
	Screenshots map[string]string
	Findings    map[string]string
	ToolStatus  []ToolStatus
	Whois       *WhoisSummary
}

// ToolStatus indica, por herramienta, si sus datos están presentes. El
// informe lo muestra explícitamente en vez de omitir secciones en silencio.
type ToolStatus struct {
	Tool     string
	Ran      bool
	OK       bool
	Duration time.Duration
}

// findingsTools son las herramientas cuyo volcado crudo se incluye para
// revisión manual.
var findingsTools = []recon.Tool{recon.ToolNmap, recon.ToolDNSRecon}

// BuildData junta los registros agregados, los bloques de hallazgos crudos y
// los screenshots en el valor del informe. Los artefactos ausentes quedan
// marcados, nunca hacen fallar la generación.
func BuildData(job *recon.Job, records []aggregate.Record, whois *WhoisSummary) *Data {
	data := &Data{
		Domain:      job.Domain,
		GeneratedAt: time.Now(),
		Records:     records,
		Screenshots: collectScreenshots(job.WorkDir, records),
		Findings:    make(map[string]string, len(findingsTools)),
		Whois:       whois,
	}

	for _, tool := range []recon.Tool{
		recon.ToolAmass, recon.ToolDNSRecon, recon.ToolSubfinder,
		recon.ToolHTTPX, recon.ToolGowitness, recon.ToolNmap,
	} {
		status := ToolStatus{Tool: string(tool)}
		if res, ok := job.Result(tool); ok {
			status.Ran = true
			status.OK = res.Status == recon.StatusSuccess
			status.Duration = res.Duration
		}
		data.ToolStatus = append(data.ToolStatus, status)
	}

	for _, tool := range findingsTools {
		raw, err := os.ReadFile(filepath.Join(job.WorkDir, string(tool)+".txt"))
		if err != nil {
			logx.Debug("Hallazgos ausentes", logx.Fields{"tool": string(tool)})
			data.Findings[string(tool)] = ""
			continue
		}
		data.Findings[string(tool)] = string(raw)
	}

	return data
}

// collectScreenshots asocia cada hostname con su captura bajo
// gowitness/shots, si existe. gowitness deriva el nombre del archivo de la
// URL, así que el match es por contención del hostname.
func collectScreenshots(workdir string, records []aggregate.Record) map[string]string {
	shotsDir := filepath.Join(workdir, "gowitness", "shots")
	entries, err := os.ReadDir(shotsDir)
	if err != nil {
		return nil
	}

	var shots []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case ".png", ".jpg", ".jpeg":
			shots = append(shots, name)
		}
	}
	sort.Strings(shots)
	if len(shots) == 0 {
		return nil
	}

	found := make(map[string]string)
	for _, rec := range records {
		for _, shot := range shots {
			if shotMatches(shot, rec.Hostname) {
				found[rec.Hostname] = filepath.Join("gowitness", "shots", shot)
				break
			}
		}
	}
	return found
}

// shotMatches decide si un archivo de captura corresponde al hostname. El
// nombre (o su forma con puntos reemplazados por guiones) debe aparecer al
// inicio o tras el separador de esquema "---", y terminar en un límite de
// token: "a-example-com" no puede reclamar la captura de "aa-example-com".
func shotMatches(shot, hostname string) bool {
	dashed := strings.ReplaceAll(hostname, ".", "-")
	for _, name := range []string{hostname, dashed} {
		var end int
		switch {
		case strings.HasPrefix(shot, name):
			end = len(name)
		default:
			i := strings.Index(shot, "---"+name)
			if i < 0 {
				continue
			}
			end = i + 3 + len(name)
		}
		if end == len(shot) || !isAlnum(shot[end]) {
			return true
		}
	}
	return false
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// HTMLPath devuelve la ruta del informe HTML para un dominio.
func HTMLPath(workdir, domain string) string {
	return filepath.Join(workdir, domain+"_reporte.html")
}

// PDFPath devuelve la ruta del informe PDF para un dominio.
func PDFPath(workdir, domain string) string {
	return filepath.Join(workdir, domain+"_reporte.pdf")
}
