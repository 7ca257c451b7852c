package tagstudio

import "fmt"

// TagColorGroup is a named color inside a Namespace: a primary hex
// value, an optional secondary hex value, and a border flag. Tags
// reference one by (Namespace, Slug).
type TagColorGroup struct {
	Slug        string
	Namespace   string
	Name        string
	Primary     string
	Secondary   *string
	ColorBorder bool
}

// AddColor inserts a new color group. Reserved namespaces are exempt
// from the reservation check here: the engine itself seeds its six
// built-in palettes into reserved namespaces on library creation.
func (l *Library) AddColor(c TagColorGroup) error {
	_, err := l.db.Exec(
		`INSERT INTO tag_colors (slug, namespace, name, primary_color, secondary_color, color_border)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.Slug, c.Namespace, c.Name, c.Primary, c.Secondary, c.ColorBorder,
	)
	if err != nil {
		return fmt.Errorf("adding color %s/%s: %w", c.Namespace, c.Slug, err)
	}
	return nil
}

// DeleteColor removes a single color group by (namespace, slug).
func (l *Library) DeleteColor(namespace, slug string) error {
	_, err := l.db.Exec(`DELETE FROM tag_colors WHERE namespace = ? AND slug = ?`, namespace, slug)
	if err != nil {
		return fmt.Errorf("deleting color %s/%s: %w", namespace, slug, err)
	}
	return nil
}

// GetTagColor returns the color group at (namespace, slug), or nil if
// none exists.
func (l *Library) GetTagColor(namespace, slug string) (*TagColorGroup, error) {
	groups, err := l.TagColorGroups()
	if err != nil {
		return nil, err
	}
	for _, c := range groups[namespace] {
		if c.Slug == slug {
			cc := c
			return &cc, nil
		}
	}
	return nil, nil
}

// UpdateColor updates an existing color group in place and rewrites
// every tag reference that pointed at its old (namespace, slug) pair;
// if no color group exists at old's coordinates, it inserts newColor
// as a brand new row instead. This mirrors the original's
// update-or-insert behavior for `update_color`.
func (l *Library) UpdateColor(old, newColor TagColorGroup) error {
	existing, err := l.GetTagColor(old.Namespace, old.Slug)
	if err != nil {
		return err
	}
	if existing == nil {
		return l.AddColor(newColor)
	}

	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning color update: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`UPDATE tag_colors SET slug = ?, namespace = ?, name = ?, primary_color = ?, secondary_color = ?, color_border = ?
		 WHERE namespace = ? AND slug = ?`,
		newColor.Slug, newColor.Namespace, newColor.Name, newColor.Primary, newColor.Secondary, newColor.ColorBorder,
		old.Namespace, old.Slug,
	); err != nil {
		return fmt.Errorf("updating color %s/%s: %w", old.Namespace, old.Slug, err)
	}

	if _, err := tx.Exec(
		`UPDATE tags SET color_namespace = ?, color_slug = ? WHERE color_namespace = ? AND color_slug = ?`,
		newColor.Namespace, newColor.Slug, old.Namespace, old.Slug,
	); err != nil {
		return fmt.Errorf("rewriting tag references for color %s/%s: %w", old.Namespace, old.Slug, err)
	}

	return tx.Commit()
}

// defaultNamespaces is the set of built-in namespaces seeded on
// library creation, one per curated color palette.
func defaultNamespaces() []Namespace {
	return []Namespace{
		{Namespace: "tagstudio-standard", Name: "TagStudio Standard"},
		{Namespace: "tagstudio-pastels", Name: "TagStudio Pastels"},
		{Namespace: "tagstudio-shades", Name: "TagStudio Shades"},
		{Namespace: "tagstudio-earth-tones", Name: "TagStudio Earth Tones"},
		{Namespace: "tagstudio-grayscale", Name: "TagStudio Grayscale"},
		{Namespace: "tagstudio-neon", Name: "TagStudio Neon"},
	}
}

func colorGroup(namespace, slug, name, primary string, secondary *string, border bool) TagColorGroup {
	return TagColorGroup{Slug: slug, Namespace: namespace, Name: name, Primary: primary, Secondary: secondary, ColorBorder: border}
}

// defaultStandardColors is the "tagstudio-standard" palette: one
// fully saturated color per hue, ported from the original's
// default_color_groups.py standard() set.
func defaultStandardColors() []TagColorGroup {
	ns := "tagstudio-standard"
	return []TagColorGroup{
		colorGroup(ns, "red", "Red", "#E22C3C", nil, false),
		colorGroup(ns, "red-orange", "Red Orange", "#E83726", nil, false),
		colorGroup(ns, "orange", "Orange", "#ED6022", nil, false),
		colorGroup(ns, "amber", "Amber", "#FA9A2C", nil, false),
		colorGroup(ns, "yellow", "Yellow", "#FFD63D", nil, false),
		colorGroup(ns, "lime", "Lime", "#92E649", nil, false),
		colorGroup(ns, "green", "Green", "#45D649", nil, false),
		colorGroup(ns, "teal", "Teal", "#22D589", nil, false),
		colorGroup(ns, "cyan", "Cyan", "#3DDBDB", nil, false),
		colorGroup(ns, "blue", "Blue", "#3B87F0", nil, false),
		colorGroup(ns, "indigo", "Indigo", "#874FF5", nil, false),
		colorGroup(ns, "purple", "Purple", "#BB4FF0", nil, false),
		colorGroup(ns, "magenta", "Magenta", "#F64680", nil, false),
		colorGroup(ns, "pink", "Pink", "#FF62AF", nil, false),
	}
}

// defaultPastelColors is "tagstudio-pastels", ported from pastels().
func defaultPastelColors() []TagColorGroup {
	ns := "tagstudio-pastels"
	return []TagColorGroup{
		colorGroup(ns, "coral", "Coral", "#F2525F", nil, false),
		colorGroup(ns, "salmon", "Salmon", "#F66348", nil, false),
		colorGroup(ns, "light-orange", "Light Orange", "#FF9450", nil, false),
		colorGroup(ns, "light-amber", "Light Amber", "#FFBA57", nil, false),
		colorGroup(ns, "light-yellow", "Light Yellow", "#FFE173", nil, false),
		colorGroup(ns, "light-lime", "Light Lime", "#C9FF7A", nil, false),
		colorGroup(ns, "light-green", "Light Green", "#81FF76", nil, false),
		colorGroup(ns, "mint", "Mint", "#68FFB4", nil, false),
		colorGroup(ns, "sky-blue", "Sky Blue", "#8EFFF4", nil, false),
		colorGroup(ns, "light-blue", "Light Blue", "#64C6FF", nil, false),
		colorGroup(ns, "lavender", "Lavender", "#908AF6", nil, false),
		colorGroup(ns, "lilac", "Lilac", "#DF95FF", nil, false),
		colorGroup(ns, "light-pink", "Light Pink", "#FF87BA", nil, false),
	}
}

// defaultShadeColors is "tagstudio-shades", ported from shades(). The
// dark_lavender slug keeps its source underscore rather than the
// hyphenation used elsewhere in this palette set.
func defaultShadeColors() []TagColorGroup {
	ns := "tagstudio-shades"
	return []TagColorGroup{
		colorGroup(ns, "burgundy", "Burgundy", "#6E1C24", nil, false),
		colorGroup(ns, "auburn", "Auburn", "#A13220", nil, false),
		colorGroup(ns, "olive", "Olive", "#4C652E", nil, false),
		colorGroup(ns, "dark-teal", "Dark Teal", "#1F5E47", nil, false),
		colorGroup(ns, "navy", "Navy", "#104B98", nil, false),
		colorGroup(ns, "dark_lavender", "Dark Lavender", "#3D3B6C", nil, false),
		colorGroup(ns, "berry", "Berry", "#9F2AA7", nil, false),
	}
}

// defaultEarthToneColors is "tagstudio-earth-tones", ported from
// earth_tones().
func defaultEarthToneColors() []TagColorGroup {
	ns := "tagstudio-earth-tones"
	return []TagColorGroup{
		colorGroup(ns, "dark-brown", "Dark Brown", "#4C2315", nil, false),
		colorGroup(ns, "brown", "Brown", "#823216", nil, false),
		colorGroup(ns, "light-brown", "Light Brown", "#BE5B2D", nil, false),
		colorGroup(ns, "blonde", "Blonde", "#EFC664", nil, false),
		colorGroup(ns, "peach", "Peach", "#F1C69C", nil, false),
		colorGroup(ns, "warm-gray", "Warm Gray", "#625550", nil, false),
		colorGroup(ns, "cool-gray", "Cool Gray", "#515768", nil, false),
	}
}

// defaultGrayscaleColors is "tagstudio-grayscale", ported from
// grayscale(). The reserved Archived/Meta tags point here (black,
// gray) rather than into the standard palette.
func defaultGrayscaleColors() []TagColorGroup {
	ns := "tagstudio-grayscale"
	return []TagColorGroup{
		colorGroup(ns, "black", "Black", "#111018", nil, false),
		colorGroup(ns, "dark-gray", "Dark Gray", "#242424", nil, false),
		colorGroup(ns, "gray", "Gray", "#53525A", nil, false),
		colorGroup(ns, "light-gray", "Light Gray", "#AAAAAA", nil, false),
		colorGroup(ns, "white", "White", "#F2F1F8", nil, false),
	}
}

// neonColor builds a neon entry: primary holds the dark background
// hex and secondary the bright foreground hex, per
// default_color_groups.py's neon() (border is always on for this
// palette).
func neonColor(slug, name, primary, secondary string) TagColorGroup {
	return colorGroup("tagstudio-neon", slug, name, primary, &secondary, true)
}

// defaultNeonColors is "tagstudio-neon", ported from neon().
func defaultNeonColors() []TagColorGroup {
	return []TagColorGroup{
		neonColor("neon-red", "Neon Red", "#180607", "#E22C3C"),
		neonColor("neon-red-orange", "Neon Red Orange", "#220905", "#E83726"),
		neonColor("neon-orange", "Neon Orange", "#1F0D05", "#ED6022"),
		neonColor("neon-amber", "Neon Amber", "#251507", "#FA9A2C"),
		neonColor("neon-yellow", "Neon Yellow", "#2B1C0B", "#FFD63D"),
		neonColor("neon-lime", "Neon Lime", "#1B220C", "#92E649"),
		neonColor("neon-green", "Neon Green", "#091610", "#45D649"),
		neonColor("neon-teal", "Neon Teal", "#09191D", "#22D589"),
		neonColor("neon-cyan", "Neon Cyan", "#0B191C", "#3DDBDB"),
		neonColor("neon-blue", "Neon Blue", "#09101C", "#3B87F0"),
		neonColor("neon-indigo", "Neon Indigo", "#150B24", "#874FF5"),
		neonColor("neon-purple", "Neon Purple", "#1E0B26", "#BB4FF0"),
		neonColor("neon-magenta", "Neon Magenta", "#220A13", "#F64680"),
		neonColor("neon-pink", "Neon Pink", "#210E15", "#FF62AF"),
		neonColor("neon-white", "Neon White", "#131315", "#F2F1F8"),
	}
}

// defaultColorGroups returns every built-in palette in seed order.
func defaultColorGroups() []TagColorGroup {
	var all []TagColorGroup
	all = append(all, defaultStandardColors()...)
	all = append(all, defaultPastelColors()...)
	all = append(all, defaultShadeColors()...)
	all = append(all, defaultGrayscaleColors()...)
	all = append(all, defaultEarthToneColors()...)
	all = append(all, defaultNeonColors()...)
	return all
}
