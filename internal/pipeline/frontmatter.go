package pipeline

import (
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/alnah/go-md2docx/internal/yamlutil"
)

// FrontMatter holds the metadata fields read from a YAML front matter block.
type FrontMatter struct {
	Title    string   `yaml:"title"`
	Author   string   `yaml:"author"`
	Subject  string   `yaml:"subject"`
	Keywords []string `yaml:"keywords"`
}

// IsZero reports whether no field was set.
func (f FrontMatter) IsZero() bool {
	return f.Title == "" && f.Author == "" && f.Subject == "" && len(f.Keywords) == 0
}

// SplitFrontMatter separates a leading "---" YAML block from the body.
// Content without front matter, or whose block does not parse, is returned
// unchanged with a zero FrontMatter: a document that opens with a thematic
// break must not lose its text.
func SplitFrontMatter(content string) (FrontMatter, string) {
	if !strings.HasPrefix(strings.TrimPrefix(content, byteOrderMark), "---") {
		return FrontMatter{}, content
	}

	var meta FrontMatter
	body, err := frontmatter.Parse(strings.NewReader(content), &meta, yamlFormats...)
	if err != nil {
		return FrontMatter{}, content
	}
	return meta, string(body)
}

// yamlFormats restricts detection to YAML; "+++" TOML blocks are left as text.
var yamlFormats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", yamlutil.UnmarshalOptional),
}
