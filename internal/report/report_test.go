package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"subtrace/internal/aggregate"
	"subtrace/internal/recon"
)

func testJob(t *testing.T) *recon.Job {
	t.Helper()
	return &recon.Job{
		Domain:    "example.com",
		WorkDir:   t.TempDir(),
		StartedAt: time.Now(),
		Results: []recon.ToolResult{
			{Tool: recon.ToolAmass, Status: recon.StatusSuccess, Duration: time.Second},
			{Tool: recon.ToolDNSRecon, Status: recon.StatusFailure, Duration: time.Second},
			{Tool: recon.ToolSubfinder, Status: recon.StatusSuccess, Duration: time.Second},
			{Tool: recon.ToolHTTPX, Status: recon.StatusSuccess, Duration: time.Second},
			{Tool: recon.ToolGowitness, Status: recon.StatusSuccess, Duration: time.Second},
			{Tool: recon.ToolNmap, Status: recon.StatusSuccess, Duration: time.Second},
		},
	}
}

func testRecords() []aggregate.Record {
	return []aggregate.Record{
		{Hostname: "a.example.com", DiscoveredBy: []string{"amass", "subfinder"}, Alive: true},
		{Hostname: "b.example.com", DiscoveredBy: []string{"subfinder"}, Alive: false},
	}
}

func TestGenerateHTMLWithMissingFindings(t *testing.T) {
	job := testJob(t)
	// nmap.txt y dnsrecon.txt ausentes a propósito.

	data := BuildData(job, testRecords(), nil)
	htmlPath, err := GenerateHTML(data, job.WorkDir)
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}

	raw, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	content := string(raw)

	if !strings.Contains(content, "a.example.com") || !strings.Contains(content, "b.example.com") {
		t.Error("report should list every subdomain record")
	}
	if !strings.Contains(content, "Sin datos de nmap") {
		t.Error("missing nmap findings should be explicitly marked")
	}
	if !strings.Contains(content, "Sin datos de dnsrecon") {
		t.Error("missing dnsrecon findings should be explicitly marked")
	}
	if !strings.HasPrefix(content, "<!DOCTYPE html>") || !strings.Contains(content, "</html>") {
		t.Error("report should be a well-formed standalone document")
	}
}

func TestGenerateHTMLIncludesRawFindings(t *testing.T) {
	job := testJob(t)
	if err := os.WriteFile(filepath.Join(job.WorkDir, "nmap.txt"), []byte("Host: a.example.com (up)\n  80/tcp open http\n"), 0o644); err != nil {
		t.Fatalf("seeding nmap.txt: %v", err)
	}

	data := BuildData(job, testRecords(), nil)
	htmlPath, err := GenerateHTML(data, job.WorkDir)
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}

	raw, _ := os.ReadFile(htmlPath)
	if !strings.Contains(string(raw), "80/tcp open http") {
		t.Error("raw nmap findings should be embedded for manual review")
	}
}

func TestGenerateHTMLEscapesHostnames(t *testing.T) {
	job := testJob(t)
	records := []aggregate.Record{
		{Hostname: "a.example.com", DiscoveredBy: []string{"<script>"}, Alive: true},
	}

	data := BuildData(job, records, nil)
	htmlPath, err := GenerateHTML(data, job.WorkDir)
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}

	raw, _ := os.ReadFile(htmlPath)
	if strings.Contains(string(raw), "<script>") {
		t.Error("tool attribution must be HTML-escaped")
	}
}

func TestBuildDataToolStatus(t *testing.T) {
	job := testJob(t)
	job.Results = job.Results[:2] // solo amass y dnsrecon corrieron

	data := BuildData(job, nil, nil)
	if len(data.ToolStatus) != 6 {
		t.Fatalf("expected status for all 6 tools, got %d", len(data.ToolStatus))
	}

	byTool := map[string]ToolStatus{}
	for _, ts := range data.ToolStatus {
		byTool[ts.Tool] = ts
	}
	if !byTool["amass"].Ran || !byTool["amass"].OK {
		t.Error("amass should be present and ok")
	}
	if !byTool["dnsrecon"].Ran || byTool["dnsrecon"].OK {
		t.Error("dnsrecon should be present and failed")
	}
	if byTool["nmap"].Ran {
		t.Error("nmap never ran, its data should be marked absent")
	}
}

func TestCollectScreenshots(t *testing.T) {
	job := testJob(t)
	shotsDir := filepath.Join(job.WorkDir, "gowitness", "shots")
	if err := os.MkdirAll(shotsDir, 0o755); err != nil {
		t.Fatalf("mkdir shots: %v", err)
	}
	if err := os.WriteFile(filepath.Join(shotsDir, "https---a-example-com.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("seeding shot: %v", err)
	}

	data := BuildData(job, testRecords(), nil)
	path, ok := data.Screenshots["a.example.com"]
	if !ok {
		t.Fatal("expected screenshot mapped to a.example.com")
	}
	if !strings.HasSuffix(path, ".png") {
		t.Fatalf("unexpected screenshot path %q", path)
	}
	if _, ok := data.Screenshots["b.example.com"]; ok {
		t.Error("b.example.com has no screenshot, none should be mapped")
	}
}

func TestCollectScreenshotsDoesNotCrossHostBoundaries(t *testing.T) {
	job := testJob(t)
	shotsDir := filepath.Join(job.WorkDir, "gowitness", "shots")
	if err := os.MkdirAll(shotsDir, 0o755); err != nil {
		t.Fatalf("mkdir shots: %v", err)
	}
	// Solo existe la captura del host más largo: el corto no puede
	// reclamarla por coincidencia de substring.
	if err := os.WriteFile(filepath.Join(shotsDir, "https---aa-example-com.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("seeding shot: %v", err)
	}

	records := []aggregate.Record{
		{Hostname: "a.example.com", Alive: true},
		{Hostname: "aa.example.com", Alive: true},
	}

	data := BuildData(job, records, nil)
	if _, ok := data.Screenshots["a.example.com"]; ok {
		t.Error("a.example.com must not claim aa.example.com's screenshot")
	}
	if path, ok := data.Screenshots["aa.example.com"]; !ok || !strings.Contains(path, "aa-example-com") {
		t.Errorf("aa.example.com should map to its own screenshot, got %q (%v)", path, ok)
	}
}

func TestGeneratePDFEngineFailureKeepsHTML(t *testing.T) {
	binDir := t.TempDir()
	engine := filepath.Join(binDir, "broken-engine")
	if err := os.WriteFile(engine, []byte("#!/bin/sh\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("creating fake engine: %v", err)
	}
	t.Setenv("PATH", binDir)

	job := testJob(t)
	data := BuildData(job, testRecords(), nil)
	htmlPath, err := GenerateHTML(data, job.WorkDir)
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}

	pdfPath := PDFPath(job.WorkDir, job.Domain)
	if err := GeneratePDF(htmlPath, pdfPath, "broken-engine"); err == nil {
		t.Fatal("expected engine failure")
	}

	// El HTML sobrevive al fallo del motor.
	if _, err := os.Stat(htmlPath); err != nil {
		t.Fatalf("html report should survive pdf failure: %v", err)
	}
	if _, err := os.Stat(pdfPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("no pdf should be left behind by a failed engine")
	}
}

func TestGeneratePDFRejectsInvalidOutput(t *testing.T) {
	binDir := t.TempDir()
	// El motor "funciona" pero copia HTML al destino: no es un PDF.
	engine := filepath.Join(binDir, "liar-engine")
	if err := os.WriteFile(engine, []byte("#!/bin/sh\ncp \"$1\" \"$2\"\n"), 0o755); err != nil {
		t.Fatalf("creating fake engine: %v", err)
	}
	t.Setenv("PATH", binDir)

	job := testJob(t)
	data := BuildData(job, testRecords(), nil)
	htmlPath, err := GenerateHTML(data, job.WorkDir)
	if err != nil {
		t.Fatalf("GenerateHTML: %v", err)
	}

	pdfPath := PDFPath(job.WorkDir, job.Domain)
	if err := GeneratePDF(htmlPath, pdfPath, "liar-engine"); err == nil {
		t.Fatal("expected validation failure for a non-PDF output")
	}
	if _, err := os.Stat(pdfPath); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("invalid pdf should have been discarded")
	}
	if _, err := os.Stat(htmlPath); err != nil {
		t.Fatalf("html report should survive: %v", err)
	}
}

func TestGeneratePDFMissingHTML(t *testing.T) {
	if err := GeneratePDF(filepath.Join(t.TempDir(), "nope.html"), "out.pdf", ""); err == nil {
		t.Fatal("expected error when html report does not exist")
	}
}
