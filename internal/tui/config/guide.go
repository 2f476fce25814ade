package config

// guideEntry explains one field of the active section in the sidebar.
type guideEntry struct {
	name        string
	description string
	example     string
}

func buildGuide(section Section) []guideEntry {
	switch section {
	case SectionLibraries:
		return []guideEntry{
			{
				name:        "Movie Roots",
				description: "Comma separated directories scanned for movie folders.",
				example:     "/media/movies, /mnt/nas/films",
			},
			{
				name:        "Show Roots",
				description: "Comma separated directories scanned for TV show folders.",
				example:     "/media/tv",
			},
			{
				name:        "SMB Mount",
				description: "Re-roots every library path onto a local mount point. Useful when the config stores server paths.",
				example:     "/mnt/nas",
			},
			{
				name:        "Navigation",
				description: "↑/↓ move between fields. Space or Enter flips the SMB toggle.",
			},
		}
	case SectionScanning:
		return []guideEntry{
			{
				name:        "Season Prefix",
				description: "Directory prefix that marks season folders inside a show.",
				example:     "season",
			},
			{
				name:        "Extensions",
				description: "Video file extensions counted when looking for main files and trailers.",
				example:     ".mp4, .mkv",
			},
			{
				name:        "Sample Size",
				description: "Caps how many missing items a run processes. 0 removes the cap.",
				example:     "3",
			},
			{
				name:        "Cache TTL",
				description: "Seconds a TMDB lookup stays cached before hitting the API again.",
				example:     "86400",
			},
			{
				name:        "Navigation",
				description: "↑/↓ move between fields. Numeric fields accept digits only.",
			},
		}
	case SectionProvider:
		return []guideEntry{
			{
				name:        "API Key",
				description: "TMDB v3 key used for trailer lookups.",
				example:     "32 hex characters",
			},
			{
				name:        "Languages",
				description: "Lookup order for trailers. Each language is tried until one returns results.",
				example:     "fr-FR, en-US",
			},
			{
				name:        "Validation",
				description: "Keys are checked against the live API a moment after you stop typing.",
			},
			{
				name:        "Navigation",
				description: "↑/↓ move between fields.",
			},
		}
	case SectionLogging:
		return []guideEntry{
			{
				name:        "Session Journals",
				description: "Records every download into a session journal. Space or Enter flips the toggle.",
			},
			{
				name:        "Retention",
				description: "Days a journal is kept before cleanup removes it.",
				example:     "30",
			},
			{
				name:        "Undo",
				description: "The undo command replays journals in reverse, so disabling them disables undo too.",
			},
		}
	}
	return nil
}
