package session

// Palette is the fixed color grid offered by the picker popup. Values are
// already in canonical uppercase hex form; selecting a cell commits the color
// immediately with no confirm step.
var Palette = []string{
	"#FFFFFF", "#FF4500", "#00BFFF", "#00FF88",
	"#FFD700", "#FF69B4", "#9370DB", "#FF6347",
	"#40E0D0", "#ADFF2F", "#FFA500", "#DC143C",
	"#1E90FF", "#32CD32", "#FF1493", "#000000",
}

// Grid dimensions: PaletteSize cells laid out PaletteColumns wide, so the
// picker is always PaletteSize/PaletteColumns complete rows.
const (
	PaletteSize    = 16
	PaletteColumns = 4
)
