package tagstudio

import (
	"database/sql"
	"fmt"
	"path"
	"time"
)

// checkAndMigrate is run against every library opened from an existing
// storage file. It refuses databases older than DB6 outright, refuses
// databases whose major version (version / 100) is newer than
// DBVersion's with VersionMismatchError, backs
// the file up before applying any patch, and then walks the schema and
// data patches for every version between what's stored and DBVersion.
func (l *Library) checkAndMigrate() error {
	if l.readOnly {
		return nil
	}

	has, err := tableExists(l.db, "versions")
	if err != nil {
		return err
	}
	var loaded int
	if has {
		loaded, err = l.GetVersion(DBVersionCurrentKey)
		if err != nil {
			return err
		}
	} else {
		loaded, err = l.legacyVersion()
		if err != nil {
			return err
		}
	}

	if loaded != 0 && loaded < 6 {
		return &VersionMismatchError{Found: loaded, Expected: DBVersion}
	}
	if loaded/100 > DBVersion/100 {
		return &VersionMismatchError{Found: loaded, Expected: DBVersion}
	}
	if loaded >= DBVersion {
		return nil
	}

	if _, err := l.SaveBackup(time.Now()); err != nil {
		logger.Warn().Err(err).Msg("pre-migration backup failed, continuing")
	}

	if loaded < 8 {
		if err := l.patchDB8(); err != nil {
			return fmt.Errorf("applying DB8 patch: %w", err)
		}
	}
	if loaded < 9 {
		if err := l.patchDB9(); err != nil {
			return fmt.Errorf("applying DB9 patch: %w", err)
		}
	}
	if loaded < 100 {
		if err := l.patchDB100(); err != nil {
			return fmt.Errorf("applying DB100 patch: %w", err)
		}
	}

	return l.SetVersion(DBVersionCurrentKey, DBVersion)
}

// legacyVersion reads DBVersionLegacyKey from `preferences`, the only
// place pre-DB101 databases (which lack the `versions` table) recorded
// their schema version.
func (l *Library) legacyVersion() (int, error) {
	raw, err := l.Prefs(DBVersionLegacyKey)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return 0, nil
	}
	var v int
	if _, err := fmt.Sscanf(raw, "%d", &v); err != nil {
		return 0, fmt.Errorf("parsing legacy version %q: %w", raw, err)
	}
	return v, nil
}

// patchDB8 adds the color_border column that distinguishes the neon
// palette's outlined swatches from every other palette's filled ones,
// then backfills it true for the neon namespace and seeds any default
// colors that a database created before DB8 is missing.
func (l *Library) patchDB8() error {
	if err := addColumnIfMissing(l.db, "tag_colors", "color_border", "BOOLEAN NOT NULL DEFAULT FALSE"); err != nil {
		return err
	}
	if _, err := l.db.Exec(`UPDATE tag_colors SET color_border = TRUE WHERE namespace = ?`, "tagstudio-neon"); err != nil {
		return fmt.Errorf("backfilling color_border: %w", err)
	}

	for _, ns := range defaultNamespaces() {
		if _, err := l.db.Exec(`INSERT OR IGNORE INTO namespaces (namespace, name) VALUES (?, ?)`, ns.Namespace, ns.Name); err != nil {
			return fmt.Errorf("seeding missing namespace %q: %w", ns.Namespace, err)
		}
	}
	for _, c := range defaultColorGroups() {
		if _, err := l.db.Exec(
			`INSERT OR IGNORE INTO tag_colors (slug, namespace, name, primary_color, secondary_color, color_border) VALUES (?, ?, ?, ?, ?, ?)`,
			c.Slug, c.Namespace, c.Name, c.Primary, c.Secondary, c.ColorBorder,
		); err != nil {
			return fmt.Errorf("seeding missing color %s/%s: %w", c.Namespace, c.Slug, err)
		}
	}
	return nil
}

// patchDB9 adds the `filename` column to `entries` and backfills it
// from each row's existing path (the trailing path segment), since
// earlier databases derived the filename on the fly instead of storing
// it.
func (l *Library) patchDB9() error {
	if err := addColumnIfMissing(l.db, "entries", "filename", "TEXT NOT NULL DEFAULT ''"); err != nil {
		return err
	}

	rows, err := l.db.Query(`SELECT id, path FROM entries`)
	if err != nil {
		return fmt.Errorf("reading entries for filename backfill: %w", err)
	}
	type idPath struct {
		id   int64
		path string
	}
	var all []idPath
	for rows.Next() {
		var ip idPath
		if err := rows.Scan(&ip.id, &ip.path); err != nil {
			rows.Close()
			return err
		}
		all = append(all, ip)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, ip := range all {
		if _, err := l.db.Exec(`UPDATE entries SET filename = ? WHERE id = ?`, path.Base(ip.path), ip.id); err != nil {
			return fmt.Errorf("backfilling filename for entry %d: %w", ip.id, err)
		}
	}
	return nil
}

// patchDB100 corrects the historically reversed tag_parents columns:
// pre-DB100 databases stored (child_id, parent_id) in that column
// order under the names (parent_id, child_id). This swaps every row so
// parent_id always names the ancestor from here on, matching
// tagChildrenQuery's assumption.
func (l *Library) patchDB100() error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning DB100 patch: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`CREATE TABLE tag_parents_db100 (parent_id INTEGER NOT NULL, child_id INTEGER NOT NULL, PRIMARY KEY (parent_id, child_id))`); err != nil {
		return fmt.Errorf("creating swap table: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO tag_parents_db100 (parent_id, child_id) SELECT child_id, parent_id FROM tag_parents`); err != nil {
		return fmt.Errorf("swapping tag_parents columns: %w", err)
	}
	if _, err := tx.Exec(`DROP TABLE tag_parents`); err != nil {
		return fmt.Errorf("dropping old tag_parents: %w", err)
	}
	if _, err := tx.Exec(`ALTER TABLE tag_parents_db100 RENAME TO tag_parents`); err != nil {
		return fmt.Errorf("renaming swap table: %w", err)
	}
	if _, err := tx.Exec(`CREATE INDEX idx_tag_parents_child ON tag_parents(child_id)`); err != nil {
		return fmt.Errorf("recreating tag_parents index: %w", err)
	}
	return tx.Commit()
}

func addColumnIfMissing(db *sql.DB, table, column, ddl string) error {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("scanning column info for %s: %w", table, err)
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if _, err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, ddl)); err != nil {
		return fmt.Errorf("adding column %s.%s: %w", table, column, err)
	}
	return nil
}
