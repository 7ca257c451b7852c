package tagstudio

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Library is the open handle to a TagStudio catalog: a SQLite
// connection plus the on-disk layout (the ".TagStudio" folder beside
// the content root) and the advisory lock that keeps a second writer
// from opening the same storage file concurrently.
type Library struct {
	db       *sql.DB
	opts     EngineOptions
	root     string
	tsFolder string
	readOnly bool
	lock     *writerLock

	folderID int64
}

// OpenLibrary opens (or creates, if absent) the TagStudio catalog
// rooted at root. A writer acquires the folder's advisory lock for the
// lifetime of the handle; a read-only open skips locking entirely,
// mirroring spec.md §5's single-writer/many-readers concurrency model.
func OpenLibrary(root string, opts EngineOptions, readOnly bool) (*Library, error) {
	inMemory := root == ":memory:"

	var tsFolder, sqlPath string
	fresh := inMemory
	var lock *writerLock

	if !inMemory {
		tsFolder = filepath.Join(root, TSFolderName)
		sqlPath = filepath.Join(tsFolder, SQLFileName)
		jsonPath := filepath.Join(tsFolder, JSONFileName)

		if _, err := os.Stat(sqlPath); os.IsNotExist(err) {
			if _, jerr := os.Stat(jsonPath); jerr == nil {
				return nil, &JSONMigrationRequiredError{LibraryDir: tsFolder}
			}
			fresh = true
			if !readOnly {
				if err := os.MkdirAll(tsFolder, 0o755); err != nil {
					return nil, fmt.Errorf("creating %s: %w", tsFolder, err)
				}
			}
		} else if err != nil {
			return nil, fmt.Errorf("statting %s: %w", sqlPath, err)
		}

		if !readOnly {
			lock = newWriterLock(tsFolder)
			if err := lock.acquire(); err != nil {
				return nil, err
			}
		}
	}

	storagePath := sqlPath
	if inMemory {
		storagePath = ":memory:"
	}

	db, err := openConnection(storagePath, opts, readOnly)
	if err != nil {
		if lock != nil {
			lock.release()
		}
		return nil, err
	}

	l := &Library{db: db, opts: opts, root: root, tsFolder: tsFolder, readOnly: readOnly, lock: lock}

	if fresh {
		if err := initSchema(db); err != nil {
			l.Close()
			return nil, err
		}
		if err := l.seedDefaults(); err != nil {
			l.Close()
			return nil, err
		}
	} else {
		if err := l.checkAndMigrate(); err != nil {
			l.Close()
			return nil, err
		}
	}

	id, ferr := l.ensureRootFolder(root)
	if ferr != nil {
		l.Close()
		return nil, ferr
	}
	l.folderID = id

	logger.Info().Str("root", root).Bool("fresh", fresh).Bool("read_only", readOnly).Msg("library opened")
	return l, nil
}

func (l *Library) ensureRootFolder(root string) (int64, error) {
	var id int64
	err := l.db.QueryRow(`SELECT id FROM folders WHERE path = ?`, root).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("looking up root folder: %w", err)
	}
	res, err := l.db.Exec(`INSERT INTO folders (path, uuid) VALUES (?, ?)`, root, NewUUID())
	if err != nil {
		return 0, fmt.Errorf("creating root folder row: %w", err)
	}
	return res.LastInsertId()
}

// Close releases the writer lock (if held) and closes the underlying
// connection. A second call is a no-op: database/sql's Close returns
// nil on an already closed handle.
func (l *Library) Close() error {
	if l.lock != nil {
		l.lock.release()
	}
	return l.db.Close()
}

// RootFolderID returns the id of the `folders` row for the library's
// content root.
func (l *Library) RootFolderID() int64 {
	return l.folderID
}

// Prefs returns the stored value for key, or "" if unset. Retained for
// JSON-era compatibility; new code should prefer typed accessors once
// SPEC_FULL.md grows them, same as the original library.py keeps this
// as a thin deprecated pass-through over a generic `preferences` table.
func (l *Library) Prefs(key string) (string, error) {
	var value string
	err := l.db.QueryRow(`SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading preference %q: %w", key, err)
	}
	return value, nil
}

// SetPrefs upserts a preference value.
func (l *Library) SetPrefs(key, value string) error {
	_, err := l.db.Exec(
		`INSERT INTO preferences (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing preference %q: %w", key, err)
	}
	return nil
}

// VerifyTagStudioFolder reports whether root contains a ".TagStudio"
// folder with either a SQLite or legacy JSON library file inside it.
func VerifyTagStudioFolder(root string) bool {
	tsFolder := filepath.Join(root, TSFolderName)
	if _, err := os.Stat(filepath.Join(tsFolder, SQLFileName)); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(tsFolder, JSONFileName)); err == nil {
		return true
	}
	return false
}

// GetVersion returns the integer stored under key in the `versions`
// table, or 0 if absent. Pre-DB101 databases may lack the table
// entirely; callers that need to distinguish "table missing" from
// "key missing" should call tableExists directly.
func (l *Library) GetVersion(key string) (int, error) {
	var v int
	err := l.db.QueryRow(`SELECT value FROM versions WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading version %q: %w", key, err)
	}
	return v, nil
}

// SetVersion upserts an integer into the `versions` table.
func (l *Library) SetVersion(key string, value int) error {
	_, err := l.db.Exec(
		`INSERT INTO versions (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing version %q: %w", key, err)
	}
	return nil
}

// SaveBackup copies the current SQLite file into the library's
// backups folder, timestamped, and prunes old backups beyond
// EngineOptions.BackupRetention. It is a no-op for in-memory
// libraries, which have nothing on disk to copy.
func (l *Library) SaveBackup(now time.Time) (string, error) {
	if l.root == ":memory:" {
		return "", nil
	}
	backupDir := filepath.Join(l.tsFolder, BackupFolderName)
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return "", fmt.Errorf("creating backup folder: %w", err)
	}

	src := filepath.Join(l.tsFolder, SQLFileName)
	dstName := fmt.Sprintf("%s.%s.bak", SQLFileName, now.UTC().Format("20060102T150405Z"))
	dst := filepath.Join(backupDir, dstName)

	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("reading library file for backup: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("writing backup %s: %w", dst, err)
	}

	if err := l.pruneBackups(backupDir); err != nil {
		return dst, err
	}
	return dst, nil
}

func (l *Library) pruneBackups(backupDir string) error {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return fmt.Errorf("listing backups: %w", err)
	}
	if len(entries) <= l.opts.BackupRetention {
		return nil
	}
	// entries from os.ReadDir are already sorted by filename, and the
	// timestamp-suffixed naming makes filename order equal to age order.
	excess := len(entries) - l.opts.BackupRetention
	for _, e := range entries[:excess] {
		if err := os.Remove(filepath.Join(backupDir, e.Name())); err != nil {
			return fmt.Errorf("pruning backup %s: %w", e.Name(), err)
		}
	}
	return nil
}
