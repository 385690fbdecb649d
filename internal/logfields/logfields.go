package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRepo     = "repository"
	KeyRemote   = "remote"
	KeyPath     = "path"
	KeyWC       = "working_copy"
	KeyName     = "name"
	KeyVersion  = "version"
	KeySession  = "session_id"
	KeyRevision = "revision"
	KeyBackend  = "backend"
	KeyError    = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Repository(r string) slog.Attr  { return slog.String(KeyRepo, r) }
func Remote(u string) slog.Attr      { return slog.String(KeyRemote, u) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func WorkingCopy(p string) slog.Attr { return slog.String(KeyWC, p) }
func Name(n string) slog.Attr        { return slog.String(KeyName, n) }
func Version(v string) slog.Attr     { return slog.String(KeyVersion, v) }
func Session(id string) slog.Attr    { return slog.String(KeySession, id) }
func Revision(r int) slog.Attr       { return slog.Int(KeyRevision, r) }
func Backend(b string) slog.Attr     { return slog.String(KeyBackend, b) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
