// Package errors proporciona tipos de error con contexto y sugerencias
// para facilitar el debugging y mejorar la experiencia del usuario.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorWithSuggestion es un error que incluye una sugerencia para el usuario.
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
	Context    map[string]string
}

func (e *ErrorWithSuggestion) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Suggestion != "" {
		b.WriteString("\n\n💡 Sugerencia: ")
		b.WriteString(e.Suggestion)
	}
	if len(e.Context) > 0 {
		b.WriteString("\n\nContexto:")
		for k, v := range e.Context {
			fmt.Fprintf(&b, "\n  • %s: %s", k, v)
		}
	}
	return b.String()
}

func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// WithSuggestion envuelve un error con una sugerencia para el usuario.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
		Context:    make(map[string]string),
	}
}

// WithContext añade contexto adicional a un error.
func WithContext(err error, key, value string) error {
	if err == nil {
		return nil
	}

	var suggErr *ErrorWithSuggestion
	if errors.As(err, &suggErr) {
		if suggErr.Context == nil {
			suggErr.Context = make(map[string]string)
		}
		suggErr.Context[key] = value
		return suggErr
	}

	return &ErrorWithSuggestion{
		Err:     err,
		Context: map[string]string{key: value},
	}
}

// InvalidDomainError representa un dominio objetivo que no puede usarse
// como argumento de subprocesos ni como nombre de directorio.
type InvalidDomainError struct {
	Domain string
	Reason string
}

func (e *InvalidDomainError) Error() string {
	return fmt.Sprintf("dominio inválido %q: %s", e.Domain, e.Reason)
}

// NewInvalidDomainError crea un error para dominios rechazados en la
// frontera de entrada.
func NewInvalidDomainError(domain, reason string) error {
	baseErr := &InvalidDomainError{Domain: domain, Reason: reason}

	err := WithSuggestion(baseErr, "Usa un hostname plano, ej: subtrace example.com")
	err = WithContext(err, "domain", truncate(domain, 100))
	return err
}

// DirectoryError representa un fallo fatal creando el directorio de trabajo.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("no se pudo crear el directorio de trabajo %q: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// NewDirectoryError crea un error fatal de creación de directorio.
func NewDirectoryError(path string, cause error) error {
	baseErr := &DirectoryError{Path: path, Err: cause}

	suggestion := fmt.Sprintf("Verifica permisos de escritura en el directorio padre\n"+
		"O elige otra base con: --outdir\nRuta: %s", path)
	err := WithSuggestion(baseErr, suggestion)
	err = WithContext(err, "path", path)
	return err
}

// MissingBinaryError representa el error cuando un binario no está disponible.
type MissingBinaryError struct {
	Binary      string
	SearchPaths []string
}

func (e *MissingBinaryError) Error() string {
	return fmt.Sprintf("'%s' no encontrado en PATH", e.Binary)
}

// NewMissingBinaryError crea un error mejorado para binarios faltantes.
func NewMissingBinaryError(binary string, searchPaths ...string) error {
	baseErr := &MissingBinaryError{
		Binary:      binary,
		SearchPaths: searchPaths,
	}

	suggestion := fmt.Sprintf("Instala la herramienta y verifica que esté en tu PATH: which %s", binary)

	err := WithSuggestion(baseErr, suggestion)
	err = WithContext(err, "binary", binary)

	if len(searchPaths) > 0 {
		err = WithContext(err, "searched_paths", strings.Join(searchPaths, ", "))
	}

	return err
}

// TimeoutError representa un error de timeout con información adicional.
type TimeoutError struct {
	Tool     string
	Duration int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout después de %ds", e.Duration)
}

// NewTimeoutError crea un error mejorado para timeouts.
func NewTimeoutError(tool string, duration int) error {
	baseErr := &TimeoutError{Tool: tool, Duration: duration}

	suggestion := fmt.Sprintf("Intenta aumentar el timeout con: --timeout=%d", duration+60)

	err := WithSuggestion(baseErr, suggestion)
	err = WithContext(err, "tool", tool)
	err = WithContext(err, "timeout_seconds", fmt.Sprintf("%d", duration))

	return err
}

// truncate limita una cadena a n caracteres, añadiendo "..." si es necesario.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// GetSuggestion extrae la sugerencia de un error si existe.
func GetSuggestion(err error) string {
	var suggErr *ErrorWithSuggestion
	if errors.As(err, &suggErr) {
		return suggErr.Suggestion
	}
	return ""
}

// GetContext extrae el contexto de un error si existe.
func GetContext(err error) map[string]string {
	var suggErr *ErrorWithSuggestion
	if errors.As(err, &suggErr) {
		return suggErr.Context
	}
	return nil
}

// IsInvalidDomain verifica si un error es por dominio inválido.
func IsInvalidDomain(err error) bool {
	var invalidErr *InvalidDomainError
	return errors.As(err, &invalidErr)
}

// IsDirectory verifica si un error es por fallo creando el workdir.
func IsDirectory(err error) bool {
	var dirErr *DirectoryError
	return errors.As(err, &dirErr)
}

// IsMissingBinary verifica si un error es por un binario faltante.
func IsMissingBinary(err error) bool {
	var missingErr *MissingBinaryError
	return errors.As(err, &missingErr)
}

// IsTimeout verifica si un error es por timeout.
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutError
	return errors.As(err, &timeoutErr)
}
