package config

// Palette defines the colors of human-readable CLI output
type Palette struct {
	// Preset name (e.g., "default", "monochrome")
	Preset string `yaml:"preset"`

	Accent   string `yaml:"accent"`   // Headers and status names
	Subtle   string `yaml:"subtle"`   // Positions, counts, muted text
	Reserved string `yaml:"reserved"` // Reserved status marker
	Category string `yaml:"category"` // Mapped category labels
	Success  string `yaml:"success"`
	Error    string `yaml:"error"`
}

// DefaultPalette returns the default palette (purple theme)
func DefaultPalette() Palette {
	return Palette{
		Preset:   "default",
		Accent:   "#874BFD",
		Subtle:   "#585858",
		Reserved: "#D75FD7",
		Category: "#5F87D7",
		Success:  "#5FD75F",
		Error:    "#FF0000",
	}
}

// MonochromePalette returns a black and white palette
func MonochromePalette() Palette {
	return Palette{
		Preset:   "monochrome",
		Accent:   "#FFFFFF",
		Subtle:   "#585858",
		Reserved: "#FFFFFF",
		Category: "#D0D0D0",
		Success:  "#FFFFFF",
		Error:    "#FFFFFF",
	}
}

// GetPreset returns a preset palette by name
func GetPreset(name string) Palette {
	switch name {
	case "monochrome":
		return MonochromePalette()
	default:
		return DefaultPalette()
	}
}

// ApplyDefaults fills in missing colors from the preset, keeping custom values
func (p *Palette) ApplyDefaults() {
	preset := GetPreset(p.Preset)

	if p.Preset == "" {
		p.Preset = preset.Preset
	}
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&p.Accent, preset.Accent},
		{&p.Subtle, preset.Subtle},
		{&p.Reserved, preset.Reserved},
		{&p.Category, preset.Category},
		{&p.Success, preset.Success},
		{&p.Error, preset.Error},
	} {
		if *f.dst == "" {
			*f.dst = f.src
		}
	}
}
