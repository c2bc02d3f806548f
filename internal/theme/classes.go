package theme

// Classes bundles every resolved class string for one mode. It is the
// payload of the theme classes endpoint.
type Classes struct {
	Mode        string            `json:"mode"`
	Backgrounds map[string]string `json:"backgrounds"`
	Text        map[string]string `json:"text"`
	Border      string            `json:"border"`
	Card        string            `json:"card"`
	Buttons     map[string]string `json:"buttons"`
	Shadows     map[string]string `json:"shadows"`
}

// ClassesForMode resolves the full table set for one mode.
func ClassesForMode(dark bool) Classes {
	mode := "light"
	if dark {
		mode = "dark"
	}

	out := Classes{
		Mode:        mode,
		Backgrounds: make(map[string]string, len(backgrounds)),
		Text:        make(map[string]string, len(texts)),
		Border:      Border(dark),
		Card:        Card(dark),
		Buttons:     make(map[string]string, len(buttons)),
		Shadows:     make(map[string]string, len(shadowSizes)),
	}
	for category := range backgrounds {
		out.Backgrounds[category] = Background(dark, category)
	}
	for category := range texts {
		out.Text[category] = Text(dark, category)
	}
	for variant := range buttons {
		out.Buttons[variant] = Button(dark, variant)
	}
	for size := range shadowSizes {
		out.Shadows[size] = Shadow(dark, size)
	}
	return out
}
