package java

// Version represents a JDK installation
type Version struct {
	Version  string // Version string (e.g., "17.0.1", "1.8.0_322")
	Path     string // Full path to the JDK home
	IsCustom bool   // Whether this came from a configured search path
}
