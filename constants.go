package tagstudio

// On-disk layout, fixed for backward compatibility.
const (
	TSFolderName     = ".TagStudio"
	SQLFileName      = "ts_library.sqlite"
	JSONFileName     = "ts_library.json"
	IgnoreFileName   = ".ts_ignore"
	BackupFolderName = "backups"
	LockFileName     = ".lock"
)

// DBVersion is the current schema version. Values >= 100 encode a
// compound major.minor: major = DBVersion / 100. Versions below 100
// are the pre-compound legacy numbering (6, 8, 9).
const DBVersion = 100

// Version table keys.
const (
	DBVersionInitialKey = "initial_db_version"
	DBVersionCurrentKey = "current_db_version"
	DBVersionLegacyKey  = "DB_VERSION" // deprecated Preferences key
)

// RESERVED_NAMESPACE_PREFIX: any namespace slug starting with this
// literal is a built-in namespace and cannot be created or deleted
// through the public API.
const ReservedNamespacePrefix = "tagstudio"

// Reserved tag ID range. See SPEC_FULL.md §12 ("Open questions —
// resolved") for why these three fixed values are preserved in this
// order: the legacy JSON format fixed Archived=0 and Favorite=1 before
// the Meta tag existed, so Meta takes the next free value, 2, and that
// numbering was never renumbered afterward.
const (
	TagArchived = 0
	TagFavorite = 1
	TagMeta     = 2

	ReservedTagStart = 0
	ReservedTagEnd   = 999

	// UserTagIDStart is where the `tags` table's autoincrement begins
	// for tags created through the public API.
	UserTagIDStart = 1000
)

// LEGACY_TAG_FIELD_IDS: field-type keys that, in the legacy JSON
// format, held tag references directly instead of through tag_entries.
// The JSON migrator converts these into ordinary tag attachments.
var LegacyTagFieldIDs = []string{"tags", "content_tags", "meta_tags"}

// MaxSQLVariables mirrors SQLite's default compiled-in bound
// parameter limit; RemoveEntries batches deletes under this ceiling.
const MaxSQLVariables = 32766
