package view

// Level-of-detail thresholds, gated by the viewport scale. The two
// thresholds are independent: node cards drop to a compact label first,
// then groups collapse into capsules as the view zooms further out.
const (
	CompactThreshold  = 0.55
	CollapseThreshold = 0.30
)

// MemberScale shrinks nodes while they sit inside an expanded, visible
// group so more members fit inside the drawn boundary. Collapsed groups
// hide their members entirely, so the scale never applies to them.
const MemberScale = 0.6

// Font sizing for compact node labels.
const (
	MaxFontSize = 14.0
	MinFontSize = 6.0
	// glyphAspect approximates glyph width as a fraction of font size.
	glyphAspect = 0.6
)

// CompactNodes reports whether node cards should render as a single
// centered identifier at this scale.
func CompactNodes(scale float64) bool {
	return scale < CompactThreshold
}

// CollapseGroups reports whether groups should render as one capsule
// label, hiding their member nodes, at this scale.
func CollapseGroups(scale float64) bool {
	return scale < CollapseThreshold
}

// FitFontSize solves the font size at which label fits the given box
// width, clamped to [MinFontSize, MaxFontSize].
func FitFontSize(label string, boxWidth float64) float64 {
	if len(label) == 0 {
		return MaxFontSize
	}
	size := boxWidth / (glyphAspect * float64(len(label)))
	return clamp(size, MinFontSize, MaxFontSize)
}
