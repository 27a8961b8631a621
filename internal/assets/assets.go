package assets

// DefaultStyleName is the name of the built-in style set.
const DefaultStyleName = "default"

// styleExt is the file extension of a style set.
const styleExt = ".xml"

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in style set by name.
// The name should not include the .xml extension or path components.
// Returns ErrStyleNotFound if the style does not exist.
// Returns ErrInvalidAssetName if the name contains path separators or traversal.
func LoadStyle(name string) ([]byte, error) {
	return defaultLoader.LoadStyle(name)
}

// StyleNames lists the built-in style sets.
func StyleNames() []string {
	return defaultLoader.Names()
}
