package tagstudio

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// EngineOptions are process-wide tunables for the storage engine. None
// of them change query or schema semantics; they only affect resource
// usage and operational behavior (how long to wait on a busy SQLite
// file, how many backups to retain, the default page size callers get
// when they don't specify one).
type EngineOptions struct {
	// BusyTimeoutMS is passed to SQLite's busy_timeout pragma on every
	// connection opened against a file-backed library.
	BusyTimeoutMS int `toml:"busy_timeout_ms"`
	// BackupRetention caps how many timestamped backups SaveBackup
	// keeps in .TagStudio/backups before pruning the oldest.
	BackupRetention int `toml:"backup_retention"`
	// DefaultPageSize is a page size for callers to pass to
	// SearchLibrary. SearchLibrary itself does not read it: a zero
	// page size there returns every match.
	DefaultPageSize int `toml:"default_page_size"`
}

// DefaultEngineOptions returns the options used when no config file is
// present.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		BusyTimeoutMS:   5000,
		BackupRetention: 10,
		DefaultPageSize: 500,
	}
}

// LoadConfigFile reads an EngineOptions TOML file, filling in defaults
// for any field the file omits.
func LoadConfigFile(path string) (EngineOptions, error) {
	opts := DefaultEngineOptions()
	if _, err := toml.DecodeFile(path, &opts); err != nil {
		return EngineOptions{}, fmt.Errorf("loading engine config %q: %w", path, err)
	}
	return opts, nil
}
