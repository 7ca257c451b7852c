package tagstudio

// MediaCategory is a fixed, named grouping of file extensions used by
// `mediatype:` query constraints. The set of categories and their
// extension memberships are part of the external interface (spec.md
// §6): changing them changes the meaning of existing queries, so they
// are data, not configuration.
type MediaCategory struct {
	Name       string
	Extensions map[string]struct{}
}

func extSet(exts ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		m[e] = struct{}{}
	}
	return m
}

// AllMediaCategories is the fixed category list named in spec.md §6.
var AllMediaCategories = []MediaCategory{
	{Name: "image", Extensions: extSet("jpg", "jpeg", "jfif", "png", "gif", "bmp", "webp", "heic", "heif", "tiff", "tif")},
	{Name: "image_raw", Extensions: extSet("arw", "cr2", "cr3", "crw", "dng", "nef", "orf", "raf", "rw2")},
	{Name: "image_vector", Extensions: extSet("svg", "eps", "ai")},
	{Name: "image_animated", Extensions: extSet("gif", "webp", "apng")},
	{Name: "video", Extensions: extSet("mp4", "mov", "mkv", "avi", "webm", "flv", "wmv", "m4v", "mpg", "mpeg")},
	{Name: "audio", Extensions: extSet("mp3", "wav", "flac", "ogg", "oga", "m4a", "aac", "wma", "opus")},
	{Name: "audio_midi", Extensions: extSet("mid", "midi")},
	{Name: "document", Extensions: extSet("doc", "docx", "odt", "rtf")},
	{Name: "plaintext", Extensions: extSet("txt", "md", "log", "csv", "json", "xml", "yaml", "yml")},
	{Name: "pdf", Extensions: extSet("pdf")},
	{Name: "font", Extensions: extSet("ttf", "otf", "woff", "woff2")},
	{Name: "archive", Extensions: extSet("zip", "rar", "7z", "tar", "gz", "bz2", "xz")},
	{Name: "database", Extensions: extSet("db", "sqlite", "sqlite3", "mdb")},
	{Name: "disk_image", Extensions: extSet("iso", "img", "dmg", "vhd")},
	{Name: "package", Extensions: extSet("deb", "rpm", "pkg", "apk")},
	{Name: "installer", Extensions: extSet("msi", "exe", "appimage")},
	{Name: "program", Extensions: extSet("exe", "bin", "app", "sh", "bat")},
	{Name: "shortcut", Extensions: extSet("lnk", "url", "desktop")},
	{Name: "spreadsheet", Extensions: extSet("xls", "xlsx", "ods", "csv")},
	{Name: "presentation", Extensions: extSet("ppt", "pptx", "odp")},
	{Name: "model", Extensions: extSet("obj", "fbx", "stl", "gltf", "glb", "dae")},
	{Name: "material", Extensions: extSet("mtl", "mat")},
	{Name: "blender", Extensions: extSet("blend", "blend1")},
	{Name: "adobe_photoshop", Extensions: extSet("psd", "psb")},
	{Name: "affinity_photo", Extensions: extSet("afphoto")},
	{Name: "source_engine", Extensions: extSet("vmt", "vtf", "bsp", "mdl")},
}

// FiletypeEquivalents groups extensions that `filetype:` constraints
// should treat as interchangeable, e.g. jpg/jpeg/jfif.
var FiletypeEquivalents = []map[string]struct{}{
	extSet("jpg", "jpeg", "jfif"),
	extSet("tif", "tiff"),
	extSet("mid", "midi"),
	extSet("yaml", "yml"),
	extSet("htm", "html"),
}

// getFiletypeEquivalencyList returns the equivalence class containing
// item, or {item} alone if it belongs to no defined class.
func getFiletypeEquivalencyList(item string) map[string]struct{} {
	for _, class := range FiletypeEquivalents {
		if _, ok := class[item]; ok {
			return class
		}
	}
	return extSet(item)
}

// mediaCategoryByName returns the category with the given name, or
// nil if there is none.
func mediaCategoryByName(name string) *MediaCategory {
	for i := range AllMediaCategories {
		if AllMediaCategories[i].Name == name {
			return &AllMediaCategories[i]
		}
	}
	return nil
}
