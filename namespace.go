package tagstudio

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// Namespace groups TagColorGroup rows under a human-readable name. The
// prefix "tagstudio" is reserved for the engine's own built-in
// namespaces (see ReservedNamespacePrefix).
type Namespace struct {
	Namespace string
	Name      string
}

func isReservedNamespace(slug string) bool {
	return strings.HasPrefix(slug, ReservedNamespacePrefix)
}

// AddNamespace inserts a namespace. It refuses reserved slugs with
// ReservedNamespaceError — unlike the original implementation, which
// only logged a warning and let the insert through; SPEC_FULL.md §12
// documents this as a deliberate correction to match the stated
// contract in spec.md §4.3.
func (l *Library) AddNamespace(ns Namespace) error {
	if isReservedNamespace(ns.Namespace) {
		return &ReservedNamespaceError{Namespace: ns.Namespace}
	}
	_, err := l.db.Exec(`INSERT INTO namespaces (namespace, name) VALUES (?, ?)`, ns.Namespace, ns.Name)
	if err != nil {
		return fmt.Errorf("adding namespace %q: %w", ns.Namespace, err)
	}
	return nil
}

// DeleteNamespace removes a namespace and cascades to its color
// groups. Reserved namespaces are refused.
func (l *Library) DeleteNamespace(slug string) error {
	if isReservedNamespace(slug) {
		return &ReservedNamespaceError{Namespace: slug}
	}
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning namespace delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM tag_colors WHERE namespace = ?`, slug); err != nil {
		return fmt.Errorf("deleting color groups for namespace %q: %w", slug, err)
	}
	if _, err := tx.Exec(`DELETE FROM namespaces WHERE namespace = ?`, slug); err != nil {
		return fmt.Errorf("deleting namespace %q: %w", slug, err)
	}
	return tx.Commit()
}

// Namespaces returns every namespace, sorted by name.
func (l *Library) Namespaces() ([]Namespace, error) {
	rows, err := l.db.Query(`SELECT namespace, name FROM namespaces ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing namespaces: %w", err)
	}
	defer rows.Close()

	var out []Namespace
	for rows.Next() {
		var n Namespace
		if err := rows.Scan(&n.Namespace, &n.Name); err != nil {
			return nil, fmt.Errorf("scanning namespace: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// NamespaceName returns the human-readable name for a namespace slug,
// or "" if it does not exist.
func (l *Library) NamespaceName(slug string) (string, error) {
	var name string
	err := l.db.QueryRow(`SELECT name FROM namespaces WHERE namespace = ?`, slug).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("looking up namespace %q: %w", slug, err)
	}
	return name, nil
}

// TagColorGroups returns every color group grouped by namespace,
// including namespaces that have no colors defined yet. The map's keys
// are namespace slugs; each namespace's colors are sorted by color
// name.
func (l *Library) TagColorGroups() (map[string][]TagColorGroup, error) {
	namespaces, err := l.Namespaces()
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]TagColorGroup, len(namespaces))
	for _, ns := range namespaces {
		grouped[ns.Namespace] = nil
	}

	rows, err := l.db.Query(`SELECT slug, namespace, name, primary_color, secondary_color, color_border FROM tag_colors`)
	if err != nil {
		return nil, fmt.Errorf("listing tag colors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c TagColorGroup
		var secondary sql.NullString
		if err := rows.Scan(&c.Slug, &c.Namespace, &c.Name, &c.Primary, &secondary, &c.ColorBorder); err != nil {
			return nil, fmt.Errorf("scanning tag color: %w", err)
		}
		if secondary.Valid {
			c.Secondary = &secondary.String
		}
		grouped[c.Namespace] = append(grouped[c.Namespace], c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for ns := range grouped {
		sort.Slice(grouped[ns], func(i, j int) bool { return grouped[ns][i].Name < grouped[ns][j].Name })
	}
	return grouped, nil
}
