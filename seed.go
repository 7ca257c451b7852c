package tagstudio

import "fmt"

// defaultFieldCatalog is the built-in set of field keys every fresh
// library is seeded with, in the order the original defines them.
// Order sets each type's catalog position, which ValueTypes and
// DefaultFields sort by.
var defaultFieldCatalog = []struct {
	key      string
	name     string
	kind     string
	isDefault bool
}{
	{"title", "Title", "text", true},
	{"author", "Author", "text", false},
	{"artist", "Artist", "text", false},
	{"url", "URL", "text", false},
	{"description", "Description", "text", true},
	{"notes", "Notes", "text", true},
	{"collation", "Collation", "text", false},
	{"date", "Date", "datetime", false},
	{"date_created", "Date Created", "datetime", false},
	{"date_modified", "Date Modified", "datetime", false},
	{"date_taken", "Date Taken", "datetime", false},
	{"date_published", "Date Published", "datetime", false},
	{"book", "Book", "text", false},
	{"comic", "Comic", "text", false},
	{"series", "Series", "text", false},
	{"manga", "Manga", "text", false},
	{"source", "Source", "text", false},
	{"date_uploaded", "Date Uploaded", "datetime", false},
	{"date_released", "Date Released", "datetime", false},
	{"volume", "Volume", "text", false},
	{"anthology", "Anthology", "text", false},
	{"magazine", "Magazine", "text", false},
	{"publisher", "Publisher", "text", false},
	{"guest_artist", "Guest Artist", "text", false},
	{"composer", "Composer", "text", false},
	{"comments", "Comments", "text", true},
}

// seedDefaults populates a freshly created library with its built-in
// namespaces, color palettes, reserved tags, field catalog, and
// initial version stamps. Every row is inserted under its own
// savepoint so that one unexpected constraint failure (e.g. a
// duplicate seed re-run against a partially seeded database) rolls
// back just that row instead of aborting the whole seed.
func (l *Library) seedDefaults() error {
	for _, ns := range defaultNamespaces() {
		if err := l.seedRow(`INSERT INTO namespaces (namespace, name) VALUES (?, ?)`, ns.Namespace, ns.Name); err != nil {
			return fmt.Errorf("seeding namespace %q: %w", ns.Namespace, err)
		}
	}

	for _, c := range defaultColorGroups() {
		if err := l.seedRow(
			`INSERT INTO tag_colors (slug, namespace, name, primary_color, secondary_color, color_border) VALUES (?, ?, ?, ?, ?, ?)`,
			c.Slug, c.Namespace, c.Name, c.Primary, c.Secondary, c.ColorBorder,
		); err != nil {
			return fmt.Errorf("seeding color %s/%s: %w", c.Namespace, c.Slug, err)
		}
	}

	for _, rt := range []struct {
		id        int64
		name      string
		namespace string
		slug      string
	}{
		{TagArchived, "Archived", "tagstudio-grayscale", "black"},
		{TagFavorite, "Favorite", "tagstudio-standard", "yellow"},
		{TagMeta, "Meta", "tagstudio-grayscale", "gray"},
	} {
		if err := l.seedRow(
			`INSERT INTO tags (id, name, color_namespace, color_slug, is_category) VALUES (?, ?, ?, ?, ?)`,
			rt.id, rt.name, rt.namespace, rt.slug, true,
		); err != nil {
			return fmt.Errorf("seeding reserved tag %q: %w", rt.name, err)
		}
	}

	// Move the tags autoincrement past the reserved range so the first
	// tag created through the public API gets UserTagIDStart.
	if _, err := l.db.Exec(
		`UPDATE sqlite_sequence SET seq = ? WHERE name = 'tags' AND seq < ?`,
		UserTagIDStart-1, UserTagIDStart-1,
	); err != nil {
		return fmt.Errorf("setting user tag id start: %w", err)
	}

	for i, f := range defaultFieldCatalog {
		if err := l.seedRow(
			`INSERT INTO value_type (key, name, type, is_default, position) VALUES (?, ?, ?, ?, ?)`,
			f.key, f.name, f.kind, f.isDefault, i,
		); err != nil {
			return fmt.Errorf("seeding field %q: %w", f.key, err)
		}
	}

	if err := l.SetVersion(DBVersionCurrentKey, DBVersion); err != nil {
		return err
	}
	if err := l.SetVersion(DBVersionInitialKey, DBVersion); err != nil {
		return err
	}
	return nil
}

// seedRow executes stmt inside its own savepoint, rolling back (and
// swallowing the error) if it fails so that a single bad seed row
// never aborts the rest of seeding.
func (l *Library) seedRow(stmt string, args ...any) error {
	if _, err := l.db.Exec("SAVEPOINT seed_row"); err != nil {
		return fmt.Errorf("opening seed savepoint: %w", err)
	}
	if _, err := l.db.Exec(stmt, args...); err != nil {
		l.db.Exec("ROLLBACK TO seed_row")
		l.db.Exec("RELEASE seed_row")
		return nil
	}
	_, err := l.db.Exec("RELEASE seed_row")
	return err
}
