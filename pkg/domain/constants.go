package domain

// FormatVersion is the version tag written into serialized layouts. The
// codec carries unknown versions through as long as the document passes
// structural validation; there is no schema branching on this value.
const FormatVersion = "1.0"

// DefaultAutosaveKey is the store key used for autosave when the caller
// does not choose one.
const DefaultAutosaveKey = "lattice-autosave"

// MetadataKeyTheme is the document metadata key under which the active
// theme is stored.
const MetadataKeyTheme = "theme"
