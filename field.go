package tagstudio

import (
	"database/sql"
	"fmt"
	"time"
)

// ValueType describes one entry in the field catalog: its storage
// kind (which of the three field tables backs it), its display name,
// whether new entries get it by default, and its position in field
// lists.
type ValueType struct {
	Key       string
	Name      string
	Kind      string
	IsDefault bool
	Position  int
}

const (
	fieldKindText     = "text"
	fieldKindDatetime = "datetime"
	fieldKindBoolean  = "boolean"
)

func fieldTableFor(kind string) (string, error) {
	switch kind {
	case fieldKindText:
		return "text_fields", nil
	case fieldKindDatetime:
		return "datetime_fields", nil
	case fieldKindBoolean:
		return "boolean_fields", nil
	default:
		return "", fmt.Errorf("unknown field kind %q", kind)
	}
}

// GetValueType returns the catalog entry for key, or nil if unknown.
func (l *Library) GetValueType(key string) (*ValueType, error) {
	var vt ValueType
	err := l.db.QueryRow(`SELECT key, name, type, is_default, position FROM value_type WHERE key = ?`, key).
		Scan(&vt.Key, &vt.Name, &vt.Kind, &vt.IsDefault, &vt.Position)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up field type %q: %w", key, err)
	}
	return &vt, nil
}

// ValueTypes returns the whole field catalog ordered by position.
func (l *Library) ValueTypes() ([]ValueType, error) {
	rows, err := l.db.Query(`SELECT key, name, type, is_default, position FROM value_type ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing field types: %w", err)
	}
	defer rows.Close()

	var out []ValueType
	for rows.Next() {
		var vt ValueType
		if err := rows.Scan(&vt.Key, &vt.Name, &vt.Kind, &vt.IsDefault, &vt.Position); err != nil {
			return nil, err
		}
		out = append(out, vt)
	}
	return out, rows.Err()
}

// DefaultFields returns the keys of every field marked is_default in
// the catalog, in catalog position order. AddEntries does not attach
// them; new entries start with no fields.
func (l *Library) DefaultFields() ([]string, error) {
	rows, err := l.db.Query(`SELECT key FROM value_type WHERE is_default = TRUE ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing default fields: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// EntryField is one concrete field value attached to an entry: the
// id is scoped to whichever backing table Kind selects.
type EntryField struct {
	ID       int64
	EntryID  int64
	TypeKey  string
	Kind     string
	Position int
	Text     *string
	Datetime *time.Time
	Boolean  bool
}

// AddFieldToEntry appends a new field row to entry using the next
// available position for that field type on the entry (each field
// type keeps its own position sequence, starting at 0).
func (l *Library) AddFieldToEntry(entryID int64, typeKey string, value any) (*EntryField, error) {
	vt, err := l.GetValueType(typeKey)
	if err != nil {
		return nil, err
	}
	if vt == nil {
		return nil, fmt.Errorf("unknown field type %q", typeKey)
	}
	table, err := fieldTableFor(vt.Kind)
	if err != nil {
		return nil, err
	}

	var nextPos int
	if err := l.db.QueryRow(
		fmt.Sprintf(`SELECT COALESCE(MAX(position) + 1, 0) FROM %s WHERE entry_id = ? AND type_key = ?`, table), entryID, typeKey,
	).Scan(&nextPos); err != nil {
		return nil, fmt.Errorf("computing next position in %s: %w", table, err)
	}

	res, err := l.db.Exec(
		fmt.Sprintf(`INSERT INTO %s (type_key, entry_id, value, position) VALUES (?, ?, ?, ?)`, table),
		typeKey, entryID, value, nextPos,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting field %q on entry %d: %w", typeKey, entryID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return l.getEntryField(table, id, vt.Kind)
}

func (l *Library) getEntryField(table string, id int64, kind string) (*EntryField, error) {
	var f EntryField
	var raw sql.NullString
	var boolRaw sql.NullBool
	f.Kind = kind
	switch kind {
	case fieldKindBoolean:
		err := l.db.QueryRow(fmt.Sprintf(`SELECT id, type_key, entry_id, value, position FROM %s WHERE id = ?`, table), id).
			Scan(&f.ID, &f.TypeKey, &f.EntryID, &boolRaw, &f.Position)
		if err != nil {
			return nil, fmt.Errorf("reloading field %d from %s: %w", id, table, err)
		}
		f.Boolean = boolRaw.Bool
	default:
		err := l.db.QueryRow(fmt.Sprintf(`SELECT id, type_key, entry_id, value, position FROM %s WHERE id = ?`, table), id).
			Scan(&f.ID, &f.TypeKey, &f.EntryID, &raw, &f.Position)
		if err != nil {
			return nil, fmt.Errorf("reloading field %d from %s: %w", id, table, err)
		}
		if raw.Valid {
			f.Text = &raw.String
		}
	}
	return &f, nil
}

// UpdateEntryField overwrites the value of an existing field row.
func (l *Library) UpdateEntryField(kind string, fieldID int64, value any) error {
	table, err := fieldTableFor(kind)
	if err != nil {
		return err
	}
	_, err = l.db.Exec(fmt.Sprintf(`UPDATE %s SET value = ? WHERE id = ?`, table), value, fieldID)
	if err != nil {
		return fmt.Errorf("updating field %d in %s: %w", fieldID, table, err)
	}
	return nil
}

// RemoveEntryField deletes a field row. Remaining rows keep their
// existing position values — positions are not renumbered after a
// removal, matching the original's behavior (a gap in position order
// is harmless since ordering only needs to be relative).
func (l *Library) RemoveEntryField(kind string, fieldID int64) error {
	table, err := fieldTableFor(kind)
	if err != nil {
		return err
	}
	_, err = l.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), fieldID)
	if err != nil {
		return fmt.Errorf("removing field %d from %s: %w", fieldID, table, err)
	}
	return nil
}

// UpdateFieldPosition moves a field row to a new position among the
// entry's fields of the same type, shifting every row between the old
// and new position by one to keep the sequence dense.
func (l *Library) UpdateFieldPosition(kind string, fieldID int64, newPosition int) error {
	table, err := fieldTableFor(kind)
	if err != nil {
		return err
	}

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning field reposition: %w", err)
	}
	defer tx.Rollback()

	var entryID int64
	var typeKey string
	var oldPosition int
	if err := tx.QueryRow(fmt.Sprintf(`SELECT entry_id, type_key, position FROM %s WHERE id = ?`, table), fieldID).
		Scan(&entryID, &typeKey, &oldPosition); err != nil {
		return fmt.Errorf("reading current position of field %d: %w", fieldID, err)
	}
	if oldPosition == newPosition {
		return tx.Commit()
	}

	if newPosition < oldPosition {
		if _, err := tx.Exec(
			fmt.Sprintf(`UPDATE %s SET position = position + 1 WHERE entry_id = ? AND type_key = ? AND position >= ? AND position < ?`, table),
			entryID, typeKey, newPosition, oldPosition,
		); err != nil {
			return fmt.Errorf("shifting fields down: %w", err)
		}
	} else {
		if _, err := tx.Exec(
			fmt.Sprintf(`UPDATE %s SET position = position - 1 WHERE entry_id = ? AND type_key = ? AND position > ? AND position <= ?`, table),
			entryID, typeKey, oldPosition, newPosition,
		); err != nil {
			return fmt.Errorf("shifting fields up: %w", err)
		}
	}

	if _, err := tx.Exec(fmt.Sprintf(`UPDATE %s SET position = ? WHERE id = ?`, table), newPosition, fieldID); err != nil {
		return fmt.Errorf("setting new position: %w", err)
	}
	return tx.Commit()
}

// MirrorEntryFields copies every field from srcEntryID onto
// dstEntryID, skipping any field key dstEntryID already has.
func (l *Library) MirrorEntryFields(srcEntryID, dstEntryID int64) error {
	for _, table := range []string{"text_fields", "datetime_fields", "boolean_fields"} {
		rows, err := l.db.Query(fmt.Sprintf(`SELECT type_key, value FROM %s WHERE entry_id = ? ORDER BY position`, table), srcEntryID)
		if err != nil {
			return fmt.Errorf("reading source fields from %s: %w", table, err)
		}
		type kv struct {
			key   string
			value any
		}
		var toCopy []kv
		for rows.Next() {
			var k string
			var v any
			if err := rows.Scan(&k, &v); err != nil {
				rows.Close()
				return err
			}
			var exists bool
			if err := l.db.QueryRow(
				fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE entry_id = ? AND type_key = ?)`, table), dstEntryID, k,
			).Scan(&exists); err != nil {
				rows.Close()
				return fmt.Errorf("checking existing field %q on entry %d: %w", k, dstEntryID, err)
			}
			if !exists {
				toCopy = append(toCopy, kv{k, v})
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		for _, c := range toCopy {
			if _, err := l.AddFieldToEntry(dstEntryID, c.key, c.value); err != nil {
				return fmt.Errorf("mirroring field %q onto entry %d: %w", c.key, dstEntryID, err)
			}
		}
	}
	return nil
}
