package legend

const (
	// DefaultLang is used when no language is persisted.
	DefaultLang = "en"
	// SettingsKeyLang is the settings key holding the language code.
	SettingsKeyLang = "EmbedLegend/Lang"

	DefaultFontFamily = "Segoe UI"
	DefaultFontSize   = 9.0

	// MinPanelWidth is the narrowest panel width in pixels.
	MinPanelWidth = 125
	// PanelWidthPadding is added to the widest row.
	PanelWidthPadding = 55
	// SeparatorWidthPadding is added to a separator's layer name width.
	SeparatorWidthPadding = 30
	// PanelBaseHeight is the header and margin height.
	PanelBaseHeight = 60
	// RowHeight is the height of one row.
	RowHeight = 22
	// MaxPanelHeight caps the panel height.
	MaxPanelHeight = 700

	// SeparatorPrefix marks a layer separator row.
	SeparatorPrefix = "◆ "
)

var (
	// MutedColor is the foreground of unchecked rows.
	MutedColor = MustHex("#808080")

	separatorBackground           = MustHex("#dfe6e9")
	separatorForeground           = MustHex("#2d3436")
	separatorMinimalistForeground = MustHex("#000000")
)
