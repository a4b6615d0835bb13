// Package config une flags de línea de comandos con un archivo opcional
// de configuración YAML o JSON. Un flag pasado explícitamente siempre gana
// sobre el valor del archivo.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// DefaultTools es la secuencia fija de adapters del pipeline.
var DefaultTools = []string{"amass", "dnsrecon", "subfinder", "httpx", "gowitness", "nmap"}

type Config struct {
	Target    string
	OutDir    string
	Tools     []string
	TimeoutS  int
	Verbosity int
	PDF       bool
	PDFEngine string
	Ports     string
	Whois     bool
}

type fileConfig struct {
	OutDir    *string     `json:"outdir" yaml:"outdir"`
	Tools     *stringList `json:"tools" yaml:"tools"`
	TimeoutS  *int        `json:"timeout" yaml:"timeout"`
	Verbosity *int        `json:"verbosity" yaml:"verbosity"`
	PDF       *bool       `json:"pdf" yaml:"pdf"`
	PDFEngine *string     `json:"pdf_engine" yaml:"pdf_engine"`
	Ports     *string     `json:"ports" yaml:"ports"`
	Whois     *bool       `json:"whois" yaml:"whois"`
}

type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		var aux []string
		if err := json.Unmarshal(trimmed, &aux); err != nil {
			return err
		}
		*s = cleanStringSlice(aux)
		return nil
	case '"':
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*s = cleanStringSlice(strings.Split(single, ","))
		return nil
	default:
		return errors.New("tools debe ser un string o una lista")
	}
}

func (s *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		aux := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			aux = append(aux, node.Value)
		}
		*s = cleanStringSlice(aux)
		return nil
	case yaml.ScalarNode:
		*s = cleanStringSlice(strings.Split(value.Value, ","))
		return nil
	case yaml.MappingNode, yaml.DocumentNode:
		return errors.New("tools debe ser un string o una lista")
	default:
		*s = nil
		return nil
	}
}

// ParseFlags procesa flags y archivo de configuración. El dominio objetivo
// es el primer argumento posicional; queda vacío si no se pasó.
func ParseFlags() *Config {
	configPath := flag.String("config", "", "Ruta a un archivo de configuración (YAML o JSON)")
	outdir := flag.String("outdir", ".", "Directorio base donde crear <dominio>-recon/")
	tools := flag.String("tools", strings.Join(DefaultTools, ","), "Herramientas a ejecutar, CSV (el orden del pipeline es fijo)")
	timeout := flag.Int("timeout", 120, "Timeout por herramienta (segundos)")
	verbosity := flag.IntP("verbosity", "v", 0, "Verbosity (0=info,2=debug,3=trace)")
	pdf := flag.Bool("pdf", true, "Convertir el informe HTML a PDF")
	pdfEngine := flag.String("pdf-engine", "", "Motor HTML→PDF (default: autodetectar wkhtmltopdf/chromium)")
	ports := flag.String("ports", "", "Puertos para nmap (default: top ports de nmap)")
	whois := flag.Bool("whois", true, "Incluir sección WHOIS en el informe")

	flag.Parse()

	setFlags := map[string]bool{}
	flag.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	cfg := &Config{
		Target:    strings.TrimSpace(flag.Arg(0)),
		OutDir:    strings.TrimSpace(*outdir),
		Tools:     cleanStringSlice(strings.Split(*tools, ",")),
		TimeoutS:  *timeout,
		Verbosity: *verbosity,
		PDF:       *pdf,
		PDFEngine: strings.TrimSpace(*pdfEngine),
		Ports:     strings.TrimSpace(*ports),
		Whois:     *whois,
	}

	var fileCfg *fileConfig
	if *configPath != "" {
		info, err := os.Stat(*configPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				log.Fatalf("no se pudo acceder al archivo de configuración %q: %v", *configPath, err)
			}
		} else if info.IsDir() {
			log.Fatalf("la ruta de configuración %q apunta a un directorio", *configPath)
		} else {
			fc, err := loadConfigFile(*configPath)
			if err != nil {
				log.Fatalf("no se pudo leer la configuración desde %q: %v", *configPath, err)
			}
			fileCfg = fc
		}
	}

	if fileCfg != nil {
		cfg.applyFile(fileCfg, setFlags)
	}

	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if len(cfg.Tools) == 0 {
		cfg.Tools = append([]string(nil), DefaultTools...)
	}

	return cfg
}

func (cfg *Config) applyFile(fileCfg *fileConfig, setFlags map[string]bool) {
	if fileCfg.OutDir != nil && !setFlags["outdir"] {
		cfg.OutDir = strings.TrimSpace(*fileCfg.OutDir)
	}
	if fileCfg.Tools != nil && !setFlags["tools"] {
		cfg.Tools = cleanStringSlice([]string(*fileCfg.Tools))
	}
	if fileCfg.TimeoutS != nil && !setFlags["timeout"] {
		cfg.TimeoutS = *fileCfg.TimeoutS
	}
	if fileCfg.Verbosity != nil && !setFlags["verbosity"] {
		cfg.Verbosity = *fileCfg.Verbosity
	}
	if fileCfg.PDF != nil && !setFlags["pdf"] {
		cfg.PDF = *fileCfg.PDF
	}
	if fileCfg.PDFEngine != nil && !setFlags["pdf-engine"] {
		cfg.PDFEngine = strings.TrimSpace(*fileCfg.PDFEngine)
	}
	if fileCfg.Ports != nil && !setFlags["ports"] {
		cfg.Ports = strings.TrimSpace(*fileCfg.Ports)
	}
	if fileCfg.Whois != nil && !setFlags["whois"] {
		cfg.Whois = *fileCfg.Whois
	}
}

func loadConfigFile(path string) (*fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg fileConfig
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			if err := json.Unmarshal(raw, &cfg); err != nil {
				return nil, err
			}
		}
	}

	return &cfg, nil
}

func cleanStringSlice(values []string) []string {
	list := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			list = append(list, v)
		}
	}
	return list
}
