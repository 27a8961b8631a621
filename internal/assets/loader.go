package assets

// AssetLoader defines the contract for loading style sets.
type AssetLoader interface {
	// LoadStyle loads a styles.xml part by name (without .xml extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) ([]byte, error)
}
