package domain

const DefaultPalette = "Default"

// PaletteNames lists palettes in the order the dashboard offers them.
var PaletteNames = []string{DefaultPalette, "G10", "T10", "Pastel", "Dark2"}

var palettes = map[string][]string{
	DefaultPalette: {"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A", "#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52"},
	"G10":          {"#3366CC", "#DC3912", "#FF9900", "#109618", "#990099", "#0099C6", "#DD4477", "#66AA00", "#B82E2E", "#316395"},
	"T10":          {"#4C78A8", "#F58518", "#E45756", "#72B7B2", "#54A24B", "#EECA3B", "#B279A2", "#FF9DA6", "#9D755D", "#BAB0AC"},
	"Pastel":       {"#66C5CC", "#F6CF71", "#F89C74", "#DCB0F2", "#87C55F", "#9EB9F3", "#FE88B1", "#C9DB74", "#8BE0A4", "#B497E7", "#B3B3B3"},
	"Dark2":        {"#1B9E77", "#D95F02", "#7570B3", "#E7298A", "#66A61E", "#E6AB02", "#A6761D", "#666666"},
}

// Palette returns the colors of a named palette, matching the name case-insensitively.
// An empty name selects the default palette.
func Palette(name string) ([]string, bool) {
	if name == "" {
		return palettes[DefaultPalette], true
	}
	k := Key(name)
	for n, colors := range palettes {
		if Key(n) == k {
			return colors, true
		}
	}
	return nil, false
}

// PaletteColor picks the color for the i-th series, cycling through the palette.
func PaletteColor(colors []string, i int) string {
	return colors[i%len(colors)]
}
