package aggregate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestCombineSubdomainsDeduplicatesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, SubfinderFile, "a.example.com\nB.example.com\n")
	writeArtifact(t, dir, AmassFile, "a.example.com\nc.example.com\n")

	hosts, err := CombineSubdomains(dir)
	if err != nil {
		t.Fatalf("CombineSubdomains: %v", err)
	}

	want := []string{"a.example.com", "b.example.com", "c.example.com"}
	if diff := cmp.Diff(want, hosts); diff != "" {
		t.Fatalf("combined set mismatch (-want +got):\n%s", diff)
	}

	// El artefacto combinado queda escrito para las herramientas siguientes.
	data, err := os.ReadFile(filepath.Join(dir, SubdomainsFile))
	if err != nil {
		t.Fatalf("reading %s: %v", SubdomainsFile, err)
	}
	if string(data) != "a.example.com\nb.example.com\nc.example.com\n" {
		t.Fatalf("unexpected %s content: %q", SubdomainsFile, string(data))
	}
}

func TestCombineSubdomainsToleratesBlankLinesAndMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, SubfinderFile, "\n  \na.example.com\n# comentario\n\n")
	// amass.txt ausente: la herramienta falló y eso ya está en su ToolResult.

	hosts, err := CombineSubdomains(dir)
	if err != nil {
		t.Fatalf("CombineSubdomains: %v", err)
	}
	if diff := cmp.Diff([]string{"a.example.com"}, hosts); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCombineSubdomainsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, SubfinderFile, "b.example.com\na.example.com\n")
	writeArtifact(t, dir, AmassFile, "a.example.com\n")

	first, err := CombineSubdomains(dir)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := CombineSubdomains(dir)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("aggregation is not idempotent (-first +second):\n%s", diff)
	}
}

func TestAliveHostsNormalizesURLs(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, HTTPXFile, "https://a.example.com [200] [Home]\nhttp://b.example.com:8080\n")

	hosts, err := AliveHosts(dir)
	if err != nil {
		t.Fatalf("AliveHosts: %v", err)
	}
	want := []string{"a.example.com", "b.example.com"}
	if diff := cmp.Diff(want, hosts); diff != "" {
		t.Fatalf("alive set mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(filepath.Join(dir, AliveFile))
	if err != nil {
		t.Fatalf("reading %s: %v", AliveFile, err)
	}
	if string(data) != "a.example.com\nb.example.com\n" {
		t.Fatalf("unexpected %s content: %q", AliveFile, string(data))
	}
}

func TestBuildCrossReferencesAlive(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, SubfinderFile, "a.example.com\nB.example.com\n")
	writeArtifact(t, dir, AmassFile, "a.example.com\nc.example.com\n")
	writeArtifact(t, dir, HTTPXFile, "https://a.example.com\n")

	records, err := Build(dir)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []Record{
		{Hostname: "a.example.com", DiscoveredBy: []string{"amass", "subfinder"}, Alive: true},
		{Hostname: "b.example.com", DiscoveredBy: []string{"subfinder"}, Alive: false},
		{Hostname: "c.example.com", DiscoveredBy: []string{"amass"}, Alive: false},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildWithNoInputs(t *testing.T) {
	records, err := Build(t.TempDir())
	if err != nil {
		t.Fatalf("Build on empty dir: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}
