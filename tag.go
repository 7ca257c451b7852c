package tagstudio

import (
	"database/sql"
	"fmt"
	"strings"
)

// Tag is a user-defined label attachable to entries. Tags form a DAG
// via parent links (TagParent rows) and carry zero or more aliases, an
// optional shorthand, an optional color reference, and an optional
// disambiguation pointer to another tag.
type Tag struct {
	ID               int64
	Name             string
	Shorthand        *string
	ColorNamespace   *string
	ColorSlug        *string
	IsCategory       bool
	Icon             *string
	DisambiguationID *int64

	Aliases    []string
	ParentIDs  []int64
}

// TagAlias is an alternative name for a tag, matched case-insensitively.
type TagAlias struct {
	ID    int64
	Name  string
	TagID int64
}

func scanTag(row interface {
	Scan(dest ...any) error
}) (*Tag, error) {
	var t Tag
	var shorthand, colorNS, colorSlug, icon sql.NullString
	var disam sql.NullInt64
	if err := row.Scan(&t.ID, &t.Name, &shorthand, &colorNS, &colorSlug, &t.IsCategory, &icon, &disam); err != nil {
		return nil, err
	}
	if shorthand.Valid {
		t.Shorthand = &shorthand.String
	}
	if colorNS.Valid {
		t.ColorNamespace = &colorNS.String
	}
	if colorSlug.Valid {
		t.ColorSlug = &colorSlug.String
	}
	if icon.Valid {
		t.Icon = &icon.String
	}
	if disam.Valid {
		t.DisambiguationID = &disam.Int64
	}
	return &t, nil
}

const tagSelectColumns = `id, name, shorthand, color_namespace, color_slug, is_category, icon, disambiguation_id`

// GetTag fetches a tag by id, with its aliases and parent ids
// populated, or nil if it does not exist.
func (l *Library) GetTag(id int64) (*Tag, error) {
	row := l.db.QueryRow(`SELECT `+tagSelectColumns+` FROM tags WHERE id = ?`, id)
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting tag %d: %w", id, err)
	}
	if err := l.hydrateTag(t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagByName returns the first tag whose name or alias matches name
// case-insensitively, or nil if none matches.
func (l *Library) GetTagByName(name string) (*Tag, error) {
	row := l.db.QueryRow(
		`SELECT `+tagSelectColumns+` FROM tags t
		 WHERE lower(t.name) = lower(?)
		 OR t.id IN (SELECT tag_id FROM tag_aliases WHERE lower(name) = lower(?))
		 LIMIT 1`, name, name)
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting tag by name %q: %w", name, err)
	}
	if err := l.hydrateTag(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (l *Library) hydrateTag(t *Tag) error {
	aliasRows, err := l.db.Query(`SELECT name FROM tag_aliases WHERE tag_id = ?`, t.ID)
	if err != nil {
		return fmt.Errorf("loading aliases for tag %d: %w", t.ID, err)
	}
	defer aliasRows.Close()
	for aliasRows.Next() {
		var name string
		if err := aliasRows.Scan(&name); err != nil {
			return err
		}
		t.Aliases = append(t.Aliases, name)
	}
	if err := aliasRows.Err(); err != nil {
		return err
	}

	parentRows, err := l.db.Query(`SELECT parent_id FROM tag_parents WHERE child_id = ?`, t.ID)
	if err != nil {
		return fmt.Errorf("loading parents for tag %d: %w", t.ID, err)
	}
	defer parentRows.Close()
	for parentRows.Next() {
		var pid int64
		if err := parentRows.Scan(&pid); err != nil {
			return err
		}
		t.ParentIDs = append(t.ParentIDs, pid)
	}
	return parentRows.Err()
}

// AddTag inserts tag, then syncs its parent set and alias set if
// either is supplied. Referencing a built-in color (one of the six
// palettes seeded into the reserved namespaces) is expected and
// allowed — only creating a new namespace under a reserved prefix is
// refused, by AddNamespace. AddTag rolls back (returning nil, nil) on
// any constraint violation, matching spec.md §4.3's add_tag contract.
func (l *Library) AddTag(tag Tag, parentIDs []int64, aliasNames []string) (*Tag, error) {
	tx, err := l.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("beginning add tag: %w", err)
	}
	defer tx.Rollback()

	var res sql.Result
	if tag.ID != 0 {
		res, err = tx.Exec(
			`INSERT INTO tags (id, name, shorthand, color_namespace, color_slug, is_category, icon, disambiguation_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			tag.ID, tag.Name, tag.Shorthand, tag.ColorNamespace, tag.ColorSlug, tag.IsCategory, tag.Icon, tag.DisambiguationID,
		)
	} else {
		res, err = tx.Exec(
			`INSERT INTO tags (name, shorthand, color_namespace, color_slug, is_category, icon, disambiguation_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			tag.Name, tag.Shorthand, tag.ColorNamespace, tag.ColorSlug, tag.IsCategory, tag.Icon, tag.DisambiguationID,
		)
	}
	if err != nil {
		return nil, nil // IntegrityError -> null, per spec.md §4.3/§7
	}

	id := tag.ID
	if id == 0 {
		id, err = res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("reading inserted tag id: %w", err)
		}
	}
	tag.ID = id

	for _, alias := range tag.Aliases {
		if _, err := tx.Exec(`INSERT INTO tag_aliases (name, tag_id) VALUES (?, ?)`, alias, id); err != nil {
			return nil, nil
		}
	}
	for _, pid := range tag.ParentIDs {
		if pid == id {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO tag_parents (parent_id, child_id) VALUES (?, ?)`, pid, id); err != nil {
			return nil, nil
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing add tag: %w", err)
	}

	if parentIDs != nil {
		if err := l.UpdateParentTags(id, parentIDs); err != nil {
			return nil, err
		}
	}
	if aliasNames != nil {
		if err := l.UpdateAliases(id, aliasNames); err != nil {
			return nil, err
		}
	}

	return l.GetTag(id)
}

// UpdateTag is add_tag applied to an existing id: rename, recolor,
// re-parent, or realias a tag in place.
func (l *Library) UpdateTag(tag Tag, parentIDs []int64, aliasNames []string) (*Tag, error) {
	_, err := l.db.Exec(
		`UPDATE tags SET name = ?, shorthand = ?, color_namespace = ?, color_slug = ?, is_category = ?, icon = ?, disambiguation_id = ?
		 WHERE id = ?`,
		tag.Name, tag.Shorthand, tag.ColorNamespace, tag.ColorSlug, tag.IsCategory, tag.Icon, tag.DisambiguationID, tag.ID,
	)
	if err != nil {
		return nil, nil
	}
	if parentIDs != nil {
		if err := l.UpdateParentTags(tag.ID, parentIDs); err != nil {
			return nil, err
		}
	}
	if aliasNames != nil {
		if err := l.UpdateAliases(tag.ID, aliasNames); err != nil {
			return nil, err
		}
	}
	return l.GetTag(tag.ID)
}

// UpdateParentTags syncs tag.id's parent set to exactly parentIDs:
// removes rows not in the new set, inserts new ones. A self-reference
// is silently dropped (no self-parenting), and any disambiguation_id
// no longer present in the new parent set is cleared, matching the
// original's update_parent_tags.
func (l *Library) UpdateParentTags(tagID int64, parentIDs []int64) error {
	filtered := make([]int64, 0, len(parentIDs))
	for _, pid := range parentIDs {
		if pid != tagID {
			filtered = append(filtered, pid)
		}
	}

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning parent tag sync: %w", err)
	}
	defer tx.Rollback()

	wanted := make(map[int64]bool, len(filtered))
	for _, pid := range filtered {
		wanted[pid] = true
	}

	rows, err := tx.Query(`SELECT parent_id FROM tag_parents WHERE child_id = ?`, tagID)
	if err != nil {
		return fmt.Errorf("loading existing parents of tag %d: %w", tagID, err)
	}
	var existing []int64
	for rows.Next() {
		var pid int64
		if err := rows.Scan(&pid); err != nil {
			rows.Close()
			return err
		}
		existing = append(existing, pid)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	var disam sql.NullInt64
	if err := tx.QueryRow(`SELECT disambiguation_id FROM tags WHERE id = ?`, tagID).Scan(&disam); err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("reading disambiguation id for tag %d: %w", tagID, err)
	}
	if disam.Valid && !wanted[disam.Int64] {
		if _, err := tx.Exec(`UPDATE tags SET disambiguation_id = NULL WHERE id = ?`, tagID); err != nil {
			return fmt.Errorf("clearing stale disambiguation id for tag %d: %w", tagID, err)
		}
	}

	for _, pid := range existing {
		if !wanted[pid] {
			if _, err := tx.Exec(`DELETE FROM tag_parents WHERE parent_id = ? AND child_id = ?`, pid, tagID); err != nil {
				return fmt.Errorf("removing stale parent %d of tag %d: %w", pid, tagID, err)
			}
		}
	}
	existingSet := make(map[int64]bool, len(existing))
	for _, pid := range existing {
		existingSet[pid] = true
	}
	for pid := range wanted {
		if !existingSet[pid] {
			if _, err := tx.Exec(`INSERT INTO tag_parents (parent_id, child_id) VALUES (?, ?)`, pid, tagID); err != nil {
				return fmt.Errorf("adding parent %d to tag %d: %w", pid, tagID, err)
			}
		}
	}

	return tx.Commit()
}

// UpdateAliases syncs tag.id's alias set to exactly names: removes
// aliases not in the new set, inserts any missing ones.
func (l *Library) UpdateAliases(tagID int64, names []string) error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning alias sync: %w", err)
	}
	defer tx.Rollback()

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	rows, err := tx.Query(`SELECT id, name FROM tag_aliases WHERE tag_id = ?`, tagID)
	if err != nil {
		return fmt.Errorf("loading existing aliases of tag %d: %w", tagID, err)
	}
	type existingAlias struct {
		id   int64
		name string
	}
	var existing []existingAlias
	for rows.Next() {
		var a existingAlias
		if err := rows.Scan(&a.id, &a.name); err != nil {
			rows.Close()
			return err
		}
		existing = append(existing, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	existingNames := make(map[string]bool, len(existing))
	for _, a := range existing {
		existingNames[a.name] = true
		if !wanted[a.name] {
			if _, err := tx.Exec(`DELETE FROM tag_aliases WHERE id = ?`, a.id); err != nil {
				return fmt.Errorf("removing stale alias %q from tag %d: %w", a.name, tagID, err)
			}
		}
	}
	for name := range wanted {
		if !existingNames[name] {
			if _, err := tx.Exec(`INSERT INTO tag_aliases (name, tag_id) VALUES (?, ?)`, name, tagID); err != nil {
				return fmt.Errorf("adding alias %q to tag %d: %w", name, tagID, err)
			}
		}
	}

	return tx.Commit()
}

// RemoveTag deletes every alias of tag, every parent row where it
// appears as parent or child, clears any disambiguation_id pointing at
// it, then deletes the tag row. Tag-entry associations cascade via the
// tag_entries foreign key semantics enforced here manually (SQLite
// doesn't cascade unless configured, and spec.md doesn't require
// PRAGMA foreign_keys to be on for this engine).
func (l *Library) RemoveTag(tagID int64) error {
	if tagID >= ReservedTagStart && tagID <= ReservedTagEnd {
		return fmt.Errorf("tag %d is reserved and cannot be removed", tagID)
	}

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning remove tag: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tag_aliases WHERE tag_id = ?`, tagID); err != nil {
		return fmt.Errorf("deleting aliases of tag %d: %w", tagID, err)
	}
	if _, err := tx.Exec(`DELETE FROM tag_parents WHERE parent_id = ? OR child_id = ?`, tagID, tagID); err != nil {
		return fmt.Errorf("deleting parent links of tag %d: %w", tagID, err)
	}
	if _, err := tx.Exec(`UPDATE tags SET disambiguation_id = NULL WHERE disambiguation_id = ?`, tagID); err != nil {
		return fmt.Errorf("clearing disambiguation references to tag %d: %w", tagID, err)
	}
	if _, err := tx.Exec(`DELETE FROM tag_entries WHERE tag_id = ?`, tagID); err != nil {
		return fmt.Errorf("deleting entry associations of tag %d: %w", tagID, err)
	}
	if _, err := tx.Exec(`DELETE FROM tags WHERE id = ?`, tagID); err != nil {
		return fmt.Errorf("deleting tag %d: %w", tagID, err)
	}
	return tx.Commit()
}

// AddParentTag inserts a single TagParent row, rejecting a self-edge.
func (l *Library) AddParentTag(parentID, childID int64) (bool, error) {
	if parentID == childID {
		return false, nil
	}
	_, err := l.db.Exec(`INSERT INTO tag_parents (parent_id, child_id) VALUES (?, ?)`, parentID, childID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// RemoveParentTag deletes a single TagParent row.
func (l *Library) RemoveParentTag(parentID, childID int64) error {
	_, err := l.db.Exec(`DELETE FROM tag_parents WHERE parent_id = ? AND child_id = ?`, parentID, childID)
	if err != nil {
		return fmt.Errorf("removing parent tag %d -> %d: %w", parentID, childID, err)
	}
	return nil
}

// AddAlias inserts a single alias row, rejecting an empty name.
func (l *Library) AddAlias(name string, tagID int64) (bool, error) {
	if name == "" {
		return false, nil
	}
	_, err := l.db.Exec(`INSERT INTO tag_aliases (name, tag_id) VALUES (?, ?)`, name, tagID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// GetTagHierarchy returns seedIDs plus every transitive ancestor,
// keyed by id, with each tag's ParentIDs populated. Traversal is an
// iterative breadth-first walk with a visited set so it terminates
// even if the (nominally acyclic) parent graph contains a cycle.
func (l *Library) GetTagHierarchy(seedIDs []int64) (map[int64]*Tag, error) {
	visited := make(map[int64]bool)
	current := make(map[int64]bool, len(seedIDs))
	for _, id := range seedIDs {
		current[id] = true
	}

	for len(current) > 0 {
		next := make(map[int64]bool)
		for id := range current {
			if visited[id] {
				continue
			}
			visited[id] = true

			rows, err := l.db.Query(`SELECT parent_id FROM tag_parents WHERE child_id = ?`, id)
			if err != nil {
				return nil, fmt.Errorf("walking ancestors of tag %d: %w", id, err)
			}
			for rows.Next() {
				var pid int64
				if err := rows.Scan(&pid); err != nil {
					rows.Close()
					return nil, err
				}
				if !visited[pid] {
					next[pid] = true
				}
			}
			rows.Close()
			if err := rows.Err(); err != nil {
				return nil, err
			}
		}
		current = next
	}

	out := make(map[int64]*Tag, len(visited))
	for id := range visited {
		t, err := l.GetTag(id)
		if err != nil {
			return nil, err
		}
		if t != nil {
			out[id] = t
		}
	}
	return out, nil
}

// SearchTags returns tags whose name, shorthand, or alias contains
// name (case-insensitive substring; all tags if name is ""), up to
// limit direct matches, plus the union of their transitive ancestors
// that aren't already in the direct set.
func (l *Library) SearchTags(name string, limit int) (direct []*Tag, ancestors []*Tag, err error) {
	query := `SELECT DISTINCT ` + tagSelectColumnsPrefixed("t") + `
		FROM tags t LEFT JOIN tag_aliases a ON a.tag_id = t.id
		WHERE (? = '' OR lower(t.name) LIKE '%' || lower(?) || '%'
			OR lower(COALESCE(t.shorthand, '')) LIKE '%' || lower(?) || '%'
			OR lower(COALESCE(a.name, '')) LIKE '%' || lower(?) || '%')
		ORDER BY lower(t.name)`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := l.db.Query(query, name, name, name, name)
	if err != nil {
		return nil, nil, fmt.Errorf("searching tags for %q: %w", name, err)
	}
	var directIDs []int64
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			rows.Close()
			return nil, nil, err
		}
		if err := l.hydrateTag(t); err != nil {
			rows.Close()
			return nil, nil, err
		}
		direct = append(direct, t)
		directIDs = append(directIDs, t.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	hierarchy, err := l.GetTagHierarchy(directIDs)
	if err != nil {
		return nil, nil, err
	}
	directSet := make(map[int64]bool, len(directIDs))
	for _, id := range directIDs {
		directSet[id] = true
	}
	for id, t := range hierarchy {
		if !directSet[id] {
			ancestors = append(ancestors, t)
		}
	}
	return direct, ancestors, nil
}

func tagSelectColumnsPrefixed(alias string) string {
	cols := strings.Split(tagSelectColumns, ", ")
	for i, c := range cols {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

// resolveTagIDs returns the ids of every tag whose name, shorthand, or
// an alias equals value case-insensitively (exact match, not
// substring — see spec.md §9's note that the engine does no synonym
// resolution beyond exact case-insensitive match).
func (l *Library) resolveTagIDs(value string) ([]int64, error) {
	rows, err := l.db.Query(
		`SELECT id FROM tags WHERE lower(name) = lower(?) OR lower(COALESCE(shorthand, '')) = lower(?)
		 UNION
		 SELECT tag_id FROM tag_aliases WHERE lower(name) = lower(?)`,
		value, value, value,
	)
	if err != nil {
		return nil, fmt.Errorf("resolving tag ids for %q: %w", value, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// expandWithDescendants returns seed plus every tag that is a
// descendant of seed in the (corrected) TagParent DAG.
func (l *Library) expandWithDescendants(seed int64) ([]int64, error) {
	rows, err := l.db.Query(tagChildrenQuery, seed)
	if err != nil {
		return nil, fmt.Errorf("expanding descendants of tag %d: %w", seed, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// TagDisplayName renders a tag's display string: if its
// disambiguation_id is set and resolves, "<name> (<shorthand-or-name>)";
// otherwise just "<name>". Mirrors the original's tag_display_name,
// including its "<NO TAG>"/"<NO DISAM TAG>" sentinels for dangling
// references.
func (l *Library) TagDisplayName(tag *Tag) (string, error) {
	if tag == nil {
		return "<NO TAG>", nil
	}
	if tag.DisambiguationID == nil {
		return tag.Name, nil
	}
	disam, err := l.GetTag(*tag.DisambiguationID)
	if err != nil {
		return "", err
	}
	if disam == nil {
		return "<NO DISAM TAG>", nil
	}
	label := disam.Name
	if disam.Shorthand != nil && *disam.Shorthand != "" {
		label = *disam.Shorthand
	}
	return fmt.Sprintf("%s (%s)", tag.Name, label), nil
}
