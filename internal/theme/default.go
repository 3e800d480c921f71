package theme

// Default returns the manifest used when no theme file is configured. It mirrors
// the categories of the bundled default theme.
func Default() *Manifest {
	m, err := New("default",
		Category{
			ID:          "upcoming",
			Label:       "Upcoming",
			Description: "Features we are working on.",
			Order:       1,
			Multiple:    true,
		},
		Category{
			ID:          "released",
			Label:       "Latest release",
			Description: "What shipped in the **most recent** release.",
			Order:       2,
			Multiple:    false,
		},
		Category{
			ID:          "changelog",
			Label:       "Changelog",
			Description: "Everything released so far.",
			Order:       3,
			Multiple:    true,
		},
	)
	if err != nil {
		panic("theme: invalid default manifest: " + err.Error())
	}
	return m
}
