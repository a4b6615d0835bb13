// Package netutil normaliza y valida hostnames en las fronteras del pipeline.
package netutil

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// shellMeta agrupa los caracteres que jamás deben llegar a un argv de
// subproceso ni a un nombre de directorio derivado del target.
const shellMeta = "/\\;|&$><`\"' \t\n*?(){}[]!#~"

// NormalizeDomain extrae un nombre de dominio canónico desde una línea dada.
// Tolera URLs con o sin esquema, credenciales, puertos y literales IPv6,
// ignora comentarios (#...) y metadata tras el primer espacio. Devuelve el
// dominio en minúsculas sin punto final, o "" si la línea no contiene uno.
func NormalizeDomain(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return ""
	}

	// Solo el primer token; httpx y similares anexan metadata tras espacios.
	if i := strings.IndexAny(trimmed, " \t"); i >= 0 {
		trimmed = trimmed[:i]
	}
	if trimmed == "" {
		return ""
	}

	candidate := trimmed
	if strings.Contains(candidate, "://") {
		if parsed, err := url.Parse(candidate); err == nil && parsed.Hostname() != "" {
			candidate = parsed.Hostname()
		}
	}

	// Credenciales y path/query/fragment en input crudo sin esquema.
	if at := strings.LastIndexByte(candidate, '@'); at >= 0 {
		candidate = candidate[at+1:]
	}
	if i := strings.IndexAny(candidate, "/?#"); i >= 0 {
		candidate = candidate[:i]
	}
	if candidate == "" {
		return ""
	}

	if host, _, err := net.SplitHostPort(candidate); err == nil {
		candidate = host
	}
	candidate = strings.Trim(candidate, "[]")

	lowered := strings.ToLower(strings.TrimSuffix(candidate, "."))
	if lowered == "" || strings.Contains(lowered, "*") {
		return ""
	}

	if ip := net.ParseIP(lowered); ip != nil {
		return lowered
	}

	// Hostnames de una sola etiqueta no identifican un dominio.
	if !strings.Contains(lowered, ".") {
		return ""
	}

	return lowered
}

// ValidateTarget valida que el target sea un hostname plano y seguro para
// usarse como argumento de subprocesos y como prefijo del directorio de
// trabajo. Devuelve la forma normalizada.
func ValidateTarget(target string) (string, string) {
	trimmed := strings.TrimSpace(target)
	if trimmed == "" {
		return "", "dominio vacío"
	}
	if i := strings.IndexAny(trimmed, shellMeta); i >= 0 {
		return "", "contiene separadores de ruta o metacaracteres de shell"
	}
	if strings.Contains(trimmed, "://") {
		return "", "debe ser un hostname, no una URL"
	}

	normalized := NormalizeDomain(trimmed)
	if normalized == "" {
		return "", "no es un hostname plausible"
	}
	if net.ParseIP(normalized) != nil {
		return "", "se esperaba un dominio, no una dirección IP"
	}
	return normalized, ""
}

// Apex devuelve el dominio registrable (eTLD+1) del hostname dado, o el
// hostname tal cual si la suffix list no lo resuelve.
func Apex(hostname string) string {
	normalized := NormalizeDomain(hostname)
	if normalized == "" {
		return hostname
	}
	if effective, err := publicsuffix.EffectiveTLDPlusOne(normalized); err == nil && effective != "" {
		return strings.ToLower(effective)
	}
	return normalized
}
