// Package aggregate funde los artefactos crudos de las herramientas en el
// conjunto deduplicado de subdominios y su cruce con los hosts vivos.
package aggregate

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"subtrace/internal/netutil"
	"subtrace/internal/platform/logx"
)

// Nombres de artefacto dentro del directorio de trabajo.
const (
	AmassFile      = "amass.txt"
	SubfinderFile  = "subfinder.txt"
	HTTPXFile      = "httpx.txt"
	SubdomainsFile = "subdominios.txt"
	AliveFile      = "vivos.txt"
)

// Record es un subdominio normalizado con su atribución y estado.
type Record struct {
	Hostname     string
	DiscoveredBy []string
	Alive        bool
}

// readHostnames lee un artefacto de hostnames línea a línea, normalizando y
// deduplicando. Un archivo ausente cuenta como entrada vacía: el fallo de la
// herramienta ya quedó registrado en su ToolResult.
func readHostnames(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logx.Debug("Artefacto ausente, tratado como vacío", logx.Fields{"path": path})
			return map[string]struct{}{}, nil
		}
		return nil, err
	}
	defer f.Close()

	seen := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 2*1024*1024)
	for sc.Scan() {
		normalized := netutil.NormalizeDomain(sc.Text())
		if normalized == "" {
			continue
		}
		seen[normalized] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return seen, nil
}

// CombineSubdomains une amass.txt y subfinder.txt en subdominios.txt y
// devuelve la lista ordenada resultante.
func CombineSubdomains(workdir string) ([]string, error) {
	var amass, subfinder map[string]struct{}

	var g errgroup.Group
	g.Go(func() (err error) {
		amass, err = readHostnames(filepath.Join(workdir, AmassFile))
		return err
	})
	g.Go(func() (err error) {
		subfinder, err = readHostnames(filepath.Join(workdir, SubfinderFile))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	union := make(map[string]struct{}, len(amass)+len(subfinder))
	for host := range amass {
		union[host] = struct{}{}
	}
	for host := range subfinder {
		union[host] = struct{}{}
	}

	hosts := sortedKeys(union)
	if err := writeLines(filepath.Join(workdir, SubdomainsFile), hosts); err != nil {
		return nil, err
	}
	return hosts, nil
}

// AliveHosts extrae los hostnames confirmados vivos de httpx.txt, los
// persiste en vivos.txt y devuelve la lista ordenada.
func AliveHosts(workdir string) ([]string, error) {
	alive, err := readHostnames(filepath.Join(workdir, HTTPXFile))
	if err != nil {
		return nil, err
	}

	hosts := sortedKeys(alive)
	if err := writeLines(filepath.Join(workdir, AliveFile), hosts); err != nil {
		return nil, err
	}
	return hosts, nil
}

// Build lee los tres artefactos de entrada y construye los Records finales:
// un registro por hostname normalizado, con qué herramientas lo descubrieron
// y si respondió al probe HTTP. Un host ausente de la lista de vivos queda
// en Alive=false, no es un error.
func Build(workdir string) ([]Record, error) {
	var amass, subfinder, alive map[string]struct{}

	var g errgroup.Group
	g.Go(func() (err error) {
		amass, err = readHostnames(filepath.Join(workdir, AmassFile))
		return err
	})
	g.Go(func() (err error) {
		subfinder, err = readHostnames(filepath.Join(workdir, SubfinderFile))
		return err
	})
	g.Go(func() (err error) {
		alive, err = readHostnames(filepath.Join(workdir, HTTPXFile))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	union := make(map[string]struct{}, len(amass)+len(subfinder))
	for host := range amass {
		union[host] = struct{}{}
	}
	for host := range subfinder {
		union[host] = struct{}{}
	}

	records := make([]Record, 0, len(union))
	for host := range union {
		var discoveredBy []string
		if _, ok := amass[host]; ok {
			discoveredBy = append(discoveredBy, "amass")
		}
		if _, ok := subfinder[host]; ok {
			discoveredBy = append(discoveredBy, "subfinder")
		}
		_, isAlive := alive[host]
		records = append(records, Record{
			Hostname:     host,
			DiscoveredBy: discoveredBy,
			Alive:        isAlive,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Hostname < records[j].Hostname
	})
	return records, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeLines(path string, lines []string) error {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}
