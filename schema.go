package tagstudio

// schemaSQL holds the full set of CREATE TABLE / CREATE INDEX
// statements for a freshly created library, applied in order inside a
// single transaction by initSchema. Column shapes follow spec.md §6
// exactly; nothing here encodes seed data, which is handled by
// seedDefaults.
var schemaSQL = []string{
	`CREATE TABLE folders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL UNIQUE,
		uuid TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		folder_id INTEGER NOT NULL REFERENCES folders(id),
		path TEXT NOT NULL UNIQUE,
		filename TEXT NOT NULL,
		suffix TEXT NOT NULL,
		date_created DATETIME,
		date_modified DATETIME,
		date_added DATETIME
	)`,
	`CREATE TABLE namespaces (
		namespace TEXT PRIMARY KEY NOT NULL,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE tag_colors (
		slug TEXT NOT NULL,
		namespace TEXT NOT NULL REFERENCES namespaces(namespace),
		name TEXT NOT NULL,
		primary_color TEXT NOT NULL,
		secondary_color TEXT,
		color_border BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (slug, namespace)
	)`,
	`CREATE TABLE tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		shorthand TEXT,
		color_namespace TEXT,
		color_slug TEXT,
		is_category BOOLEAN NOT NULL DEFAULT FALSE,
		icon TEXT,
		disambiguation_id INTEGER REFERENCES tags(id),
		FOREIGN KEY (color_namespace, color_slug) REFERENCES tag_colors(namespace, slug)
	)`,
	`CREATE TABLE tag_aliases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		tag_id INTEGER NOT NULL REFERENCES tags(id)
	)`,
	`CREATE TABLE tag_parents (
		parent_id INTEGER NOT NULL REFERENCES tags(id),
		child_id INTEGER NOT NULL REFERENCES tags(id),
		PRIMARY KEY (parent_id, child_id)
	)`,
	`CREATE TABLE tag_entries (
		tag_id INTEGER NOT NULL REFERENCES tags(id),
		entry_id INTEGER NOT NULL REFERENCES entries(id),
		PRIMARY KEY (tag_id, entry_id)
	)`,
	`CREATE TABLE value_type (
		key TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'Text Line',
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		position INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE text_fields (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type_key TEXT NOT NULL REFERENCES value_type(key),
		entry_id INTEGER NOT NULL REFERENCES entries(id),
		value TEXT,
		position INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE datetime_fields (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type_key TEXT NOT NULL REFERENCES value_type(key),
		entry_id INTEGER NOT NULL REFERENCES entries(id),
		value TEXT,
		position INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE boolean_fields (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type_key TEXT NOT NULL REFERENCES value_type(key),
		entry_id INTEGER NOT NULL REFERENCES entries(id),
		value BOOLEAN NOT NULL DEFAULT FALSE,
		position INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE versions (
		key TEXT PRIMARY KEY,
		value INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`CREATE INDEX idx_entries_folder_id ON entries(folder_id)`,
	`CREATE INDEX idx_entries_suffix ON entries(suffix)`,
	`CREATE INDEX idx_tag_aliases_tag_id ON tag_aliases(tag_id)`,
	`CREATE INDEX idx_tag_aliases_name ON tag_aliases(name)`,
	`CREATE INDEX idx_tag_parents_child ON tag_parents(child_id)`,
	`CREATE INDEX idx_tag_entries_entry ON tag_entries(entry_id)`,
	`CREATE INDEX idx_text_fields_entry ON text_fields(entry_id)`,
	`CREATE INDEX idx_datetime_fields_entry ON datetime_fields(entry_id)`,
	`CREATE INDEX idx_boolean_fields_entry ON boolean_fields(entry_id)`,
}

// tagChildrenQuery is the recursive CTE used to expand a tag id into
// itself plus every descendant (a tag whose ancestry chain, followed
// via parent_id -> child_id, reaches back to the seed). Historical
// column naming is already corrected by the DB100 migration patch by
// the time this query runs, so parent_id is always the ancestor here.
const tagChildrenQuery = `
WITH RECURSIVE descendants(id) AS (
	SELECT ? AS id
	UNION
	SELECT tp.child_id AS id
	FROM tag_parents tp
	JOIN descendants d ON tp.parent_id = d.id
)
SELECT id FROM descendants
`
