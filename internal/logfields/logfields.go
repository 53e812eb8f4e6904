package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyProduct    = "product"
	KeyVersion    = "version"
	KeyControl    = "control"
	KeySRG        = "srg"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyWorker     = "worker"
	KeyCount      = "count"
	KeyName       = "name"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Product(slug string) slog.Attr   { return slog.String(KeyProduct, slug) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Control(id string) slog.Attr     { return slog.String(KeyControl, id) }
func SRG(id string) slog.Attr         { return slog.String(KeySRG, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Worker(n int) slog.Attr          { return slog.Int(KeyWorker, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
