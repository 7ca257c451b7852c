package tagstudio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// legacyLibrary mirrors the shape of a pre-SQLite ts_library.json file
// closely enough to read it back; fields the new engine has no use for
// are decoded and discarded.
type legacyLibrary struct {
	Tags []struct {
		ID        int64    `json:"id"`
		Name      string   `json:"name"`
		Shorthand string   `json:"shorthand"`
		Aliases   []string `json:"aliases"`
		Parents   []int64  `json:"subtag_ids"`
		Color     string   `json:"color"`
	} `json:"tags"`
	Entries []struct {
		Path   string           `json:"path"`
		Fields []map[string]any `json:"fields"`
		TagIDs []int64          `json:"tags"`
	} `json:"entries"`
	Prefs map[string]string `json:"preferences"`
}

// MigrateJSONToSQLite reads the legacy ts_library.json file under
// libraryDir and populates a freshly opened (and already schema-
// initialized) SQLite library from it. Legacy tag and entry ids never
// survive the import: tags get an explicit id remap (tagIDRemap) and
// entries are re-associated by path lookup, since the new tables'
// AUTOINCREMENT ids have no fixed relationship to the legacy ones.
func (l *Library) MigrateJSONToSQLite(libraryDir string) error {
	data, err := os.ReadFile(filepath.Join(libraryDir, JSONFileName))
	if err != nil {
		return fmt.Errorf("reading legacy library json: %w", err)
	}

	var legacy legacyLibrary
	if err := json.Unmarshal(data, &legacy); err != nil {
		return fmt.Errorf("parsing legacy library json: %w", err)
	}

	tagIDRemap := make(map[int64]int64, len(legacy.Tags))
	for _, lt := range legacy.Tags {
		var shorthand *string
		if lt.Shorthand != "" {
			shorthand = &lt.Shorthand
		}
		tag := Tag{Name: lt.Name, Shorthand: shorthand, Aliases: lt.Aliases}
		created, err := l.AddTag(tag, nil, lt.Aliases)
		if err != nil {
			return fmt.Errorf("importing legacy tag %q: %w", lt.Name, err)
		}
		if created == nil {
			return fmt.Errorf("importing legacy tag %q: rejected by storage layer", lt.Name)
		}
		tagIDRemap[lt.ID] = created.ID
	}

	for _, lt := range legacy.Tags {
		if len(lt.Parents) == 0 {
			continue
		}
		newChild, ok := tagIDRemap[lt.ID]
		if !ok {
			continue
		}
		var newParents []int64
		for _, pid := range lt.Parents {
			if np, ok := tagIDRemap[pid]; ok {
				newParents = append(newParents, np)
			}
		}
		if err := l.UpdateParentTags(newChild, newParents); err != nil {
			return fmt.Errorf("importing legacy tag parents for %q: %w", lt.Name, err)
		}
	}

	now := time.Now()
	entries := make([]Entry, 0, len(legacy.Entries))
	for _, le := range legacy.Entries {
		entries = append(entries, Entry{Path: NewLibraryPath(le.Path)})
	}
	ids, err := l.AddEntries(l.RootFolderID(), entries, now)
	if err != nil {
		return fmt.Errorf("importing legacy entries: %w", err)
	}
	if len(ids) != len(legacy.Entries) {
		logger.Warn().
			Int("expected", len(legacy.Entries)).
			Int("imported", len(ids)).
			Msg("legacy entry import produced a different count than the source file; duplicate paths were likely skipped")
	}

	// AddEntries only reports ids for rows it actually inserted, so a
	// skipped duplicate in the middle of the file would desync a
	// positional walk over legacy.Entries. Look each entry's id up by
	// its own path instead.
	for _, le := range legacy.Entries {
		var newEntryID int64
		err := l.db.QueryRow(`SELECT id FROM entries WHERE path = ?`, NewLibraryPath(le.Path).String()).Scan(&newEntryID)
		if err != nil {
			continue
		}
		for _, tagID := range le.TagIDs {
			newTagID, ok := tagIDRemap[tagID]
			if !ok {
				continue
			}
			if _, err := l.db.Exec(`INSERT OR IGNORE INTO tag_entries (tag_id, entry_id) VALUES (?, ?)`, newTagID, newEntryID); err != nil {
				return fmt.Errorf("tagging imported entry %q: %w", le.Path, err)
			}
		}
		for _, field := range le.Fields {
			for key, value := range field {
				if value == nil {
					continue
				}
				if isLegacyTagField(key) {
					for _, tagID := range legacyTagRefs(value) {
						newTagID, ok := tagIDRemap[tagID]
						if !ok {
							continue
						}
						if _, err := l.db.Exec(`INSERT OR IGNORE INTO tag_entries (tag_id, entry_id) VALUES (?, ?)`, newTagID, newEntryID); err != nil {
							return fmt.Errorf("attaching legacy field tag on entry %q: %w", le.Path, err)
						}
					}
					continue
				}
				vt, err := l.GetValueType(key)
				if err != nil || vt == nil {
					continue
				}
				if _, err := l.AddFieldToEntry(newEntryID, key, value); err != nil {
					return fmt.Errorf("importing field %q on entry %q: %w", key, le.Path, err)
				}
			}
		}
	}

	for key, value := range legacy.Prefs {
		if err := l.SetPrefs(key, value); err != nil {
			return fmt.Errorf("importing legacy preference %q: %w", key, err)
		}
	}

	return nil
}

func isLegacyTagField(key string) bool {
	for _, k := range LegacyTagFieldIDs {
		if k == key {
			return true
		}
	}
	return false
}

// legacyTagRefs decodes a legacy tag-field value, which json.Unmarshal
// hands back as []any with each element a float64 (JSON has no integer
// type), into legacy tag ids.
func legacyTagRefs(value any) []int64 {
	list, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]int64, 0, len(list))
	for _, v := range list {
		if f, ok := v.(float64); ok {
			out = append(out, int64(f))
		}
	}
	return out
}
