package assets

import (
	"bytes"
	"fmt"
	"strings"
)

// stylesRoot is the opening of a WordprocessingML styles part.
var stylesRoot = []byte("<w:styles")

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty or contains path separators,
// dots (which could allow extension manipulation), or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// ValidateStyleContent rejects content that cannot be a styles.xml part.
func ValidateStyleContent(name string, content []byte) error {
	if !bytes.Contains(content, stylesRoot) {
		return fmt.Errorf("%w: %q has no <w:styles> root", ErrInvalidStyle, name)
	}
	return nil
}
