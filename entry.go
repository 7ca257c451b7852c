package tagstudio

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Entry is a single cataloged file: its location, its tag set, and
// (loaded separately by GetEntryFull) its field values.
type Entry struct {
	ID           int64
	FolderID     int64
	Path         LibraryPath
	Filename     string
	Suffix       string
	DateCreated  *time.Time
	DateModified *time.Time
	DateAdded    *time.Time
}

// EntryFull is an Entry with its tags and fields gathered alongside
// it, assembled by GetEntryFull's gather-then-stitch query sequence.
type EntryFull struct {
	Entry
	TagIDs []int64
	Fields []EntryField
}

func scanEntry(row interface{ Scan(dest ...any) error }) (*Entry, error) {
	var e Entry
	var p string
	var created, modified, added sql.NullTime
	if err := row.Scan(&e.ID, &e.FolderID, &p, &e.Filename, &e.Suffix, &created, &modified, &added); err != nil {
		return nil, err
	}
	e.Path = NewLibraryPath(p)
	if created.Valid {
		e.DateCreated = &created.Time
	}
	if modified.Valid {
		e.DateModified = &modified.Time
	}
	if added.Valid {
		e.DateAdded = &added.Time
	}
	return &e, nil
}

const entrySelectColumns = `id, folder_id, path, filename, suffix, date_created, date_modified, date_added`

// AddEntries inserts entries in batches sized to stay under
// MaxSQLVariables, returning the ids assigned (in input order). Any
// entry whose path already exists is skipped, not overwritten — use
// UpdateEntryPath to relocate an existing row.
func (l *Library) AddEntries(folderID int64, entries []Entry, now time.Time) ([]int64, error) {
	const colsPerRow = 7
	batchSize := MaxSQLVariables / colsPerRow

	ids := make([]int64, 0, len(entries))
	for start := 0; start < len(entries); start += batchSize {
		end := start + batchSize
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[start:end]

		tx, err := l.db.Begin()
		if err != nil {
			return nil, fmt.Errorf("beginning entry batch insert: %w", err)
		}

		for _, e := range batch {
			res, err := tx.Exec(
				`INSERT OR IGNORE INTO entries (folder_id, path, filename, suffix, date_created, date_modified, date_added)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				folderID, e.Path.String(), e.Path.Filename(), e.Path.Suffix(), e.DateCreated, e.DateModified, now,
			)
			if err != nil {
				tx.Rollback()
				return nil, fmt.Errorf("inserting entry %q: %w", e.Path, err)
			}
			// An ignored duplicate changes no rows, and LastInsertId then
			// still reports the previous insert's id, so check the count.
			n, err := res.RowsAffected()
			if err != nil {
				tx.Rollback()
				return nil, err
			}
			if n == 0 {
				continue
			}
			id, err := res.LastInsertId()
			if err != nil {
				tx.Rollback()
				return nil, err
			}
			ids = append(ids, id)
		}

		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("committing entry batch: %w", err)
		}
	}

	return ids, nil
}

// RemoveEntries deletes entries (and their tag/field associations) by
// id, batched under MaxSQLVariables.
func (l *Library) RemoveEntries(ids []int64) error {
	for start := 0; start < len(ids); start += MaxSQLVariables {
		end := start + MaxSQLVariables
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}

		tx, err := l.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning entry removal: %w", err)
		}

		for _, table := range []string{"tag_entries", "text_fields", "datetime_fields", "boolean_fields"} {
			if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE entry_id IN (%s)`, table, placeholders), args...); err != nil {
				tx.Rollback()
				return fmt.Errorf("clearing %s for removed entries: %w", table, err)
			}
		}
		if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM entries WHERE id IN (%s)`, placeholders), args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("deleting entries: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing entry removal: %w", err)
		}
	}
	return nil
}

// GetEntry returns the bare Entry row for id, or nil if it doesn't
// exist.
func (l *Library) GetEntry(id int64) (*Entry, error) {
	row := l.db.QueryRow(`SELECT `+entrySelectColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting entry %d: %w", id, err)
	}
	return e, nil
}

// GetEntryFull assembles an EntryFull for id via three independent
// queries (entry row, tag ids, field rows across all three field
// tables) stitched together in Go, mirroring the original's
// gather-then-stitch approach rather than one large join.
func (l *Library) GetEntryFull(id int64) (*EntryFull, error) {
	e, err := l.GetEntry(id)
	if err != nil || e == nil {
		return nil, err
	}
	full := &EntryFull{Entry: *e}

	tagRows, err := l.db.Query(`SELECT tag_id FROM tag_entries WHERE entry_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("loading tags for entry %d: %w", id, err)
	}
	for tagRows.Next() {
		var tid int64
		if err := tagRows.Scan(&tid); err != nil {
			tagRows.Close()
			return nil, err
		}
		full.TagIDs = append(full.TagIDs, tid)
	}
	tagRows.Close()
	if err := tagRows.Err(); err != nil {
		return nil, err
	}

	for _, spec := range []struct {
		table string
		kind  string
	}{
		{"text_fields", fieldKindText},
		{"datetime_fields", fieldKindDatetime},
		{"boolean_fields", fieldKindBoolean},
	} {
		rows, err := l.db.Query(
			fmt.Sprintf(`SELECT id, type_key, entry_id, value, position FROM %s WHERE entry_id = ? ORDER BY position`, spec.table),
			id,
		)
		if err != nil {
			return nil, fmt.Errorf("loading %s for entry %d: %w", spec.table, id, err)
		}
		for rows.Next() {
			f := EntryField{Kind: spec.kind}
			if spec.kind == fieldKindBoolean {
				var b sql.NullBool
				if err := rows.Scan(&f.ID, &f.TypeKey, &f.EntryID, &b, &f.Position); err != nil {
					rows.Close()
					return nil, err
				}
				f.Boolean = b.Bool
			} else {
				var v sql.NullString
				if err := rows.Scan(&f.ID, &f.TypeKey, &f.EntryID, &v, &f.Position); err != nil {
					rows.Close()
					return nil, err
				}
				if v.Valid {
					f.Text = &v.String
				}
			}
			full.Fields = append(full.Fields, f)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	return full, nil
}

// UpdateEntryPath relocates an entry's path, recomputing its filename
// and suffix.
func (l *Library) UpdateEntryPath(id int64, newPath LibraryPath) error {
	_, err := l.db.Exec(
		`UPDATE entries SET path = ?, filename = ?, suffix = ? WHERE id = ?`,
		newPath.String(), newPath.Filename(), newPath.Suffix(), id,
	)
	if err != nil {
		return fmt.Errorf("updating path for entry %d: %w", id, err)
	}
	return nil
}

// HasPathEntry reports whether any entry currently has the given
// path.
func (l *Library) HasPathEntry(p LibraryPath) (bool, error) {
	var exists bool
	err := l.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM entries WHERE path = ?)`, p.String()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking path %q: %w", p, err)
	}
	return exists, nil
}

// GetEntryFullByPath looks an entry up by its exact path string and
// returns its full record, or nil if no entry has that path.
func (l *Library) GetEntryFullByPath(p LibraryPath) (*EntryFull, error) {
	var id int64
	err := l.db.QueryRow(`SELECT id FROM entries WHERE path = ?`, p.String()).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up entry by path %q: %w", p, err)
	}
	return l.GetEntryFull(id)
}

// GetPaths returns cataloged paths, unsorted, for callers doing their
// own disk-vs-catalog reconciliation. limit <= 0 returns every path;
// a positive limit caps the result, mirroring the original's
// paginated variant for very large libraries.
func (l *Library) GetPaths(limit int) ([]LibraryPath, error) {
	query := `SELECT path FROM entries`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := l.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entry paths: %w", err)
	}
	defer rows.Close()

	var out []LibraryPath
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, NewLibraryPath(p))
	}
	return out, rows.Err()
}

// GetTagEntries returns the ids of every entry tagged with tagID
// directly (no descendant expansion — callers wanting the full
// subtree should combine this with expandWithDescendants).
func (l *Library) GetTagEntries(tagID int64) ([]int64, error) {
	rows, err := l.db.Query(`SELECT entry_id FROM tag_entries WHERE tag_id = ?`, tagID)
	if err != nil {
		return nil, fmt.Errorf("listing entries for tag %d: %w", tagID, err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// MergeEntries moves every tag and field from srcID onto dstID (skipping
// tags dstID already carries and mirroring non-duplicate fields via
// MirrorEntryFields), then deletes srcID.
func (l *Library) MergeEntries(srcID, dstID int64) error {
	if err := l.MirrorEntryFields(srcID, dstID); err != nil {
		return err
	}

	rows, err := l.db.Query(`SELECT tag_id FROM tag_entries WHERE entry_id = ?`, srcID)
	if err != nil {
		return fmt.Errorf("loading tags of entry %d: %w", srcID, err)
	}
	var tagIDs []int64
	for rows.Next() {
		var tid int64
		if err := rows.Scan(&tid); err != nil {
			rows.Close()
			return err
		}
		tagIDs = append(tagIDs, tid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, tid := range tagIDs {
		if _, err := l.db.Exec(`INSERT OR IGNORE INTO tag_entries (tag_id, entry_id) VALUES (?, ?)`, tid, dstID); err != nil {
			return fmt.Errorf("moving tag %d from entry %d to %d: %w", tid, srcID, dstID, err)
		}
	}

	return l.RemoveEntries([]int64{srcID})
}
