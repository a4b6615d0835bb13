// Package runner ejecuta binarios externos capturando su salida combinada
// en artefactos de texto bajo el directorio de trabajo del escaneo.
package runner

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	apperrors "subtrace/internal/platform/errors"
	"subtrace/internal/platform/logx"
)

// HasBin checks if a binary with the given name is available in the system PATH.
func HasBin(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// FindBin searches for the first available binary from the provided list of
// names. It returns the name found in PATH and true, or "" and false if none
// of the binaries are available.
func FindBin(names ...string) (string, bool) {
	for _, name := range names {
		if HasBin(name) {
			return name, true
		}
	}
	return "", false
}

// RunToFile executes an external command writing its combined stdout+stderr
// into outPath. The file is always truncated first so artifacts from a prior
// run of the same domain can never leak into a newer one. The command is
// killed when the context is cancelled or its deadline expires; in that case
// the context error is returned. A non-zero exit is returned as the *exec.ExitError
// so callers can record the failure without aborting anything.
func RunToFile(ctx context.Context, outPath, name string, args ...string) error {
	resolved, err := exec.LookPath(name)
	if err != nil {
		searchPaths := os.Getenv("PATH")
		return apperrors.NewMissingBinaryError(name, strings.Split(searchPaths, ":")...)
	}

	f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	cmd := exec.CommandContext(ctx, resolved, args...)
	cmd.Stdout = f
	cmd.Stderr = f

	argsJoined := strings.Join(args, " ")
	if argsJoined == "" {
		argsJoined = "<none>"
	}
	logx.Debug("Ejecutando comando", logx.Fields{"name": name, "args": argsJoined, "out": outPath})

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			searchPaths := os.Getenv("PATH")
			return apperrors.NewMissingBinaryError(name, strings.Split(searchPaths, ":")...)
		}
		logx.Error("Error iniciar comando", logx.Fields{"command": name, "error": err.Error()})
		return err
	}

	waitErr := cmd.Wait()

	// Si el contexto se canceló, su error manda sobre el exit status del
	// proceso matado.
	if ctxErr := ctx.Err(); ctxErr != nil {
		logx.Warn("Context cancelado", logx.Fields{"command": name})
		return ctxErr
	}
	if waitErr != nil {
		logx.Debug("Comando terminó con error", logx.Fields{"command": name, "error": waitErr.Error()})
		return waitErr
	}

	duration := time.Since(start)
	exitCode := 0
	if state := cmd.ProcessState; state != nil {
		exitCode = state.ExitCode()
	}
	logx.Debug("Comando completado", logx.Fields{
		"command":     name,
		"exit_code":   exitCode,
		"duration_ms": duration.Milliseconds(),
	})
	return nil
}

// WithTimeout creates a new context with a timeout derived from the parent
// context. If seconds is less than or equal to 0, a default of 120 seconds
// is used.
func WithTimeout(parent context.Context, seconds int) (context.Context, context.CancelFunc) {
	if seconds <= 0 {
		seconds = 120
	}
	return context.WithTimeout(parent, time.Duration(seconds)*time.Second)
}
