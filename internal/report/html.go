package report

import (
	"fmt"
	"html"
	"os"
	"sort"
	"strings"
	"time"
)

// GenerateHTML renderiza el informe y lo escribe en el directorio de
// trabajo. El HTML siempre existe si el job llegó a la etapa de informe.
func GenerateHTML(data *Data, workdir string) (string, error) {
	htmlPath := HTMLPath(workdir, data.Domain)
	content := buildHTMLReport(data)
	if err := os.WriteFile(htmlPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write html: %w", err)
	}
	return htmlPath, nil
}

func buildHTMLReport(data *Data) string {
	var sb strings.Builder

	sb.WriteString(`<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>SubTrace - Reconocimiento de `)
	sb.WriteString(html.EscapeString(data.Domain))
	sb.WriteString(`</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            background: #f5f7fa;
        }
        .container { max-width: 1100px; margin: 0 auto; padding: 20px; }
        header {
            background: linear-gradient(135deg, #1a2980 0%, #26d0ce 100%);
            color: white;
            padding: 40px 20px;
            border-radius: 10px;
            margin-bottom: 30px;
        }
        header h1 { font-size: 2.2em; margin-bottom: 10px; }
        header p { opacity: 0.9; }
        .card {
            background: white;
            border-radius: 10px;
            padding: 25px;
            margin-bottom: 20px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .card h2 {
            color: #1a2980;
            margin-bottom: 20px;
            border-bottom: 2px solid #26d0ce;
            padding-bottom: 10px;
        }
        .stats-grid {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(180px, 1fr));
            gap: 15px;
            margin: 10px 0;
        }
        .stat-box {
            background: linear-gradient(135deg, #1a2980 0%, #26d0ce 100%);
            color: white;
            padding: 20px;
            border-radius: 8px;
            text-align: center;
        }
        .stat-box .number { font-size: 2.4em; font-weight: bold; display: block; }
        .stat-box .label { font-size: 0.9em; opacity: 0.9; }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 10px 12px; border-bottom: 1px solid #e2e8f0; }
        th { background: #f7fafc; color: #1a2980; }
        .badge {
            display: inline-block;
            padding: 3px 12px;
            border-radius: 20px;
            font-size: 0.85em;
            font-weight: 600;
        }
        .badge-alive { background: #38a169; color: white; }
        .badge-dead { background: #a0aec0; color: white; }
        .badge-ok { background: #4299e1; color: white; }
        .badge-fail { background: #e53e3e; color: white; }
        .badge-missing { background: #d69e2e; color: white; }
        pre {
            background: #1a202c;
            color: #e2e8f0;
            padding: 15px;
            border-radius: 8px;
            overflow-x: auto;
            font-size: 0.85em;
            white-space: pre-wrap;
        }
        .missing-note { color: #718096; font-style: italic; }
        .gallery {
            display: grid;
            grid-template-columns: repeat(auto-fill, minmax(260px, 1fr));
            gap: 15px;
        }
        .gallery figure { margin: 0; }
        .gallery img { width: 100%; border-radius: 8px; border: 1px solid #e2e8f0; }
        .gallery figcaption { font-size: 0.85em; color: #4a5568; padding-top: 4px; word-break: break-all; }
        footer { text-align: center; color: #718096; font-size: 0.85em; padding: 20px 0; }
    </style>
</head>
<body>
<div class="container">
`)

	writeHeader(&sb, data)
	writeOverview(&sb, data)
	writeToolStatus(&sb, data)
	writeSubdomains(&sb, data)
	writeScreenshots(&sb, data)
	writeFindings(&sb, data)
	writeWhois(&sb, data)

	sb.WriteString(`<footer>Generado por SubTrace</footer>
</div>
</body>
</html>
`)
	return sb.String()
}

func writeHeader(sb *strings.Builder, data *Data) {
	fmt.Fprintf(sb, `<header>
<h1>Reconocimiento para %s</h1>
<p>Generado el %s</p>
</header>
`, html.EscapeString(data.Domain), data.GeneratedAt.Format(time.RFC1123))
}

func writeOverview(sb *strings.Builder, data *Data) {
	alive := 0
	for _, rec := range data.Records {
		if rec.Alive {
			alive++
		}
	}
	toolsOK := 0
	for _, ts := range data.ToolStatus {
		if ts.OK {
			toolsOK++
		}
	}

	sb.WriteString(`<div class="card"><h2>Resumen</h2><div class="stats-grid">`)
	fmt.Fprintf(sb, `<div class="stat-box"><span class="number">%d</span><span class="label">Subdominios</span></div>`, len(data.Records))
	fmt.Fprintf(sb, `<div class="stat-box"><span class="number">%d</span><span class="label">Hosts vivos</span></div>`, alive)
	fmt.Fprintf(sb, `<div class="stat-box"><span class="number">%d</span><span class="label">Capturas</span></div>`, len(data.Screenshots))
	fmt.Fprintf(sb, `<div class="stat-box"><span class="number">%d/%d</span><span class="label">Herramientas OK</span></div>`, toolsOK, len(data.ToolStatus))
	sb.WriteString(`</div></div>
`)
}

func writeToolStatus(sb *strings.Builder, data *Data) {
	sb.WriteString(`<div class="card"><h2>Estado por herramienta</h2>
<table><tr><th>Herramienta</th><th>Estado</th><th>Duración</th></tr>
`)
	for _, ts := range data.ToolStatus {
		badge := `<span class="badge badge-missing">sin datos</span>`
		duration := "-"
		switch {
		case ts.Ran && ts.OK:
			badge = `<span class="badge badge-ok">ok</span>`
			duration = ts.Duration.Round(time.Millisecond).String()
		case ts.Ran:
			badge = `<span class="badge badge-fail">falló</span>`
			duration = ts.Duration.Round(time.Millisecond).String()
		}
		fmt.Fprintf(sb, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(ts.Tool), badge, html.EscapeString(duration))
	}
	sb.WriteString("</table></div>\n")
}

func writeSubdomains(sb *strings.Builder, data *Data) {
	sb.WriteString(`<div class="card"><h2>Subdominios</h2>
`)
	if len(data.Records) == 0 {
		sb.WriteString(`<p class="missing-note">No se descubrieron subdominios.</p></div>
`)
		return
	}

	sb.WriteString("<table><tr><th>Hostname</th><th>Vivo</th><th>Descubierto por</th></tr>\n")
	for _, rec := range data.Records {
		badge := `<span class="badge badge-dead">no</span>`
		if rec.Alive {
			badge = `<span class="badge badge-alive">sí</span>`
		}
		fmt.Fprintf(sb, "<tr><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			html.EscapeString(rec.Hostname), badge,
			html.EscapeString(strings.Join(rec.DiscoveredBy, ", ")))
	}
	sb.WriteString("</table></div>\n")
}

func writeScreenshots(sb *strings.Builder, data *Data) {
	sb.WriteString(`<div class="card"><h2>Capturas</h2>
`)
	if len(data.Screenshots) == 0 {
		sb.WriteString(`<p class="missing-note">Sin capturas de gowitness.</p></div>
`)
		return
	}

	hosts := make([]string, 0, len(data.Screenshots))
	for host := range data.Screenshots {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	sb.WriteString(`<div class="gallery">`)
	for _, host := range hosts {
		fmt.Fprintf(sb, `<figure><img src="%s" alt="%s" loading="lazy"><figcaption>%s</figcaption></figure>`,
			html.EscapeString(data.Screenshots[host]),
			html.EscapeString(host),
			html.EscapeString(host))
	}
	sb.WriteString("</div></div>\n")
}

func writeFindings(sb *strings.Builder, data *Data) {
	for _, tool := range findingsTools {
		name := string(tool)
		fmt.Fprintf(sb, `<div class="card"><h2>Hallazgos de %s</h2>
`, html.EscapeString(name))
		raw := data.Findings[name]
		if strings.TrimSpace(raw) == "" {
			fmt.Fprintf(sb, `<p class="missing-note">Sin datos de %s en esta corrida.</p>`, html.EscapeString(name))
		} else {
			fmt.Fprintf(sb, "<pre>%s</pre>", html.EscapeString(raw))
		}
		sb.WriteString("</div>\n")
	}
}

func writeWhois(sb *strings.Builder, data *Data) {
	sb.WriteString(`<div class="card"><h2>WHOIS</h2>
`)
	if data.Whois == nil {
		sb.WriteString(`<p class="missing-note">Consulta WHOIS no disponible.</p></div>
`)
		return
	}

	w := data.Whois
	sb.WriteString("<table>\n")
	rows := []struct{ label, value string }{
		{"Dominio registrable", w.Apex},
		{"Registrar", w.Registrar},
		{"Creado", w.CreatedDate},
		{"Expira", w.ExpirationDate},
		{"Name servers", strings.Join(w.NameServers, ", ")},
	}
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		fmt.Fprintf(sb, "<tr><th>%s</th><td>%s</td></tr>\n",
			html.EscapeString(row.label), html.EscapeString(row.value))
	}
	sb.WriteString("</table></div>\n")
}
