package banner

// BackgroundKind distinguishes how a background option is painted.
type BackgroundKind string

// Background kinds.
const (
	BackgroundColor    BackgroundKind = "color"
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundImage    BackgroundKind = "image"
)

// Background is a preset banner background. Value holds a hex color, a
// "from,to" hex pair for gradients, or an image path.
type Background struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Kind  BackgroundKind `json:"kind"`
	Value string         `json:"value"`
}

// BackgroundCustomID selects the user-supplied CustomBackground instead of
// a preset.
const BackgroundCustomID = "custom"

// backgroundOptions is the fixed preset list.
var backgroundOptions = []Background{
	{ID: "color-black", Name: "Black", Kind: BackgroundColor, Value: "#000000"},
	{ID: "color-dark-gray", Name: "Dark Gray", Kind: BackgroundColor, Value: "#1a1a1a"},
	{ID: "color-white", Name: "White", Kind: BackgroundColor, Value: "#ffffff"},
	{ID: "color-navy", Name: "Navy", Kind: BackgroundColor, Value: "#1e3a8a"},
	{ID: "gradient-charcoal", Name: "Charcoal", Kind: BackgroundGradient, Value: "#1a1a1a,#2d2d2d"},
	{ID: "image-road-1", Name: "Desert Road", Kind: BackgroundImage, Value: "backgrounds/road-1.jpg"},
	{ID: "image-road-2", Name: "Autumn Road", Kind: BackgroundImage, Value: "backgrounds/road-2.jpg"},
	{ID: "image-road-3", Name: "Highway Road", Kind: BackgroundImage, Value: "backgrounds/road-3.jpg"},
}

// Backgrounds returns a copy of the preset list.
func Backgrounds() []Background {
	out := make([]Background, len(backgroundOptions))
	copy(out, backgroundOptions)
	return out
}

// LookupBackground finds a preset by ID. The custom ID is not a preset and
// returns false.
func LookupBackground(id string) (Background, bool) {
	for _, bg := range backgroundOptions {
		if bg.ID == id {
			return bg, true
		}
	}
	return Background{}, false
}

// DefaultBackground returns the dark gray preset.
func DefaultBackground() Background {
	return backgroundOptions[1]
}
