package report

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"subtrace/internal/platform/logx"
)

// GeneratePDF convierte el informe HTML a PDF invocando un motor externo.
// Con engine vacío prueba wkhtmltopdf y luego chromium/chrome headless. El
// PDF es best-effort: cualquier fallo aquí deja el HTML intacto.
func GeneratePDF(htmlPath, pdfPath, engine string) error {
	if _, err := os.Stat(htmlPath); err != nil {
		return fmt.Errorf("html report not found: %w", err)
	}

	var err error
	switch {
	case engine != "":
		err = runEngine(engine, htmlPath, pdfPath)
	default:
		err = tryWkhtmltopdf(htmlPath, pdfPath)
		if err != nil {
			err = tryChromium(htmlPath, pdfPath)
		}
	}
	if err != nil {
		if engine != "" {
			return err
		}
		return fmt.Errorf("la generación de PDF requiere wkhtmltopdf o chromium/chrome:\n" +
			"  - wkhtmltopdf: apt install wkhtmltopdf\n" +
			"  - chromium: apt install chromium-browser")
	}

	// Motores rotos pueden dejar un archivo truncado con exit 0; un PDF
	// inválido se descarta en vez de entregarse.
	if err := api.ValidateFile(pdfPath, nil); err != nil {
		os.Remove(pdfPath)
		return fmt.Errorf("el motor produjo un PDF inválido: %w", err)
	}
	return nil
}

// runEngine invoca el motor configurado con el contrato
// `<engine> input.html output.pdf`.
func runEngine(engine, htmlPath, pdfPath string) error {
	if _, err := exec.LookPath(engine); err != nil {
		return fmt.Errorf("motor de PDF %q no encontrado: %w", engine, err)
	}

	logx.Debug("Generando PDF", logx.Fields{"engine": engine})
	cmd := exec.Command(engine, htmlPath, pdfPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w\nOutput: %s", engine, err, string(output))
	}
	return nil
}

// tryWkhtmltopdf intenta generar el PDF usando wkhtmltopdf.
func tryWkhtmltopdf(htmlPath, pdfPath string) error {
	if _, err := exec.LookPath("wkhtmltopdf"); err != nil {
		return fmt.Errorf("wkhtmltopdf not found")
	}

	logx.Debugf("Generando PDF con wkhtmltopdf...")

	cmd := exec.Command("wkhtmltopdf",
		"--enable-local-file-access",
		"--margin-top", "10mm",
		"--margin-bottom", "10mm",
		"--margin-left", "10mm",
		"--margin-right", "10mm",
		htmlPath,
		pdfPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("wkhtmltopdf failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// tryChromium intenta generar el PDF usando Chromium o Chrome headless.
func tryChromium(htmlPath, pdfPath string) error {
	var binary string
	for _, bin := range []string{"chromium", "chromium-browser", "google-chrome", "chrome"} {
		if path, err := exec.LookPath(bin); err == nil {
			binary = path
			break
		}
	}
	if binary == "" {
		return fmt.Errorf("chromium/chrome not found")
	}

	logx.Debug("Generando PDF", logx.Fields{"engine": binary})

	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("abs path: %w", err)
	}
	fileURL := "file://" + absPath

	cmd := exec.Command(binary,
		"--headless",
		"--disable-gpu",
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--print-to-pdf="+pdfPath,
		fileURL,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("chromium/chrome failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}
