package banner

// DimensionLabel names one of the fixed output aspect ratios.
type DimensionLabel string

// The three supported output shapes.
const (
	LabelWide   DimensionLabel = "wide"   // landscape, link previews
	LabelSquare DimensionLabel = "square" // image-only posts
	LabelTall   DimensionLabel = "tall"   // portrait, image-only posts
)

// Dimension is a named target output pixel size. Immutable; looked up by
// label from the fixed registry.
type Dimension struct {
	Width       int            `json:"width" toml:"width"`
	Height      int            `json:"height" toml:"height"`
	Label       DimensionLabel `json:"label" toml:"label"`
	Description string         `json:"description,omitempty" toml:"description,omitempty"`
}

// AspectRatio returns width/height. Zero-height dimensions return 0.
func (d Dimension) AspectRatio() float64 {
	if d.Height == 0 {
		return 0
	}
	return float64(d.Width) / float64(d.Height)
}

// Valid reports whether the dimension has positive extents and a label
// present in the registry.
func (d Dimension) Valid() bool {
	if d.Width <= 0 || d.Height <= 0 {
		return false
	}
	ref, ok := LookupDimension(d.Label)
	return ok && ref.Width == d.Width && ref.Height == d.Height
}

// dimensionRegistry is the fixed table of named output sizes.
var dimensionRegistry = []Dimension{
	{Width: 1200, Height: 627, Label: LabelWide, Description: "Ideal for shared link previews"},
	{Width: 1080, Height: 1080, Label: LabelSquare, Description: "Works best for image-only posts"},
	{Width: 1080, Height: 1350, Label: LabelTall, Description: "Works best for image-only posts"},
}

// labelAliases maps legacy label spellings onto registry labels.
var labelAliases = map[string]DimensionLabel{
	"landscape": LabelWide,
	"portrait":  LabelTall,
	"square":    LabelSquare,
}

// Dimensions returns a copy of the registry in declaration order.
func Dimensions() []Dimension {
	out := make([]Dimension, len(dimensionRegistry))
	copy(out, dimensionRegistry)
	return out
}

// LookupDimension finds a dimension by label. Legacy aliases ("landscape",
// "portrait") are accepted. The second result reports whether the label is
// known.
func LookupDimension(label DimensionLabel) (Dimension, bool) {
	if alias, ok := labelAliases[string(label)]; ok {
		label = alias
	}
	for _, d := range dimensionRegistry {
		if d.Label == label {
			return d, true
		}
	}
	return Dimension{}, false
}

// DefaultDimension returns the wide/landscape dimension.
func DefaultDimension() Dimension {
	return dimensionRegistry[0]
}
