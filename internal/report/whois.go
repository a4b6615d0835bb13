package report

import (
	"fmt"
	"strings"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"subtrace/internal/netutil"
	"subtrace/internal/platform/logx"
)

// WhoisSummary es la sección WHOIS del informe, consultada sobre el dominio
// registrable del target.
type WhoisSummary struct {
	Apex           string
	Registrar      string
	CreatedDate    string
	ExpirationDate string
	NameServers    []string
}

// Whois consulta y parsea el WHOIS del apex. Es un enriquecimiento
// best-effort del informe: un fallo aquí solo deja la sección ausente.
func Whois(domain string) (*WhoisSummary, error) {
	apex := netutil.Apex(domain)

	raw, err := whois.Whois(apex)
	if err != nil {
		return nil, fmt.Errorf("whois %s: %w", apex, err)
	}

	parsed, err := whoisparser.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse whois %s: %w", apex, err)
	}

	summary := &WhoisSummary{Apex: apex}
	if parsed.Registrar != nil {
		summary.Registrar = strings.TrimSpace(parsed.Registrar.Name)
	}
	if parsed.Domain != nil {
		summary.CreatedDate = parsed.Domain.CreatedDate
		summary.ExpirationDate = parsed.Domain.ExpirationDate
		summary.NameServers = parsed.Domain.NameServers
	}

	logx.Debug("WHOIS resuelto", logx.Fields{"apex": apex, "registrar": summary.Registrar})
	return summary, nil
}
