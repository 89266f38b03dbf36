package scrape

// DefaultTag is selected when a request leaves the tag blank.
const DefaultTag = "p"

// CommonTags is the list offered to users. Extraction itself accepts any
// element name; this list is for front ends only.
var CommonTags = []string{"p", "h1", "h2", "a", "div", "span"}

// IsCommonTag reports whether tag is one of CommonTags.
func IsCommonTag(tag string) bool {
	for _, t := range CommonTags {
		if t == tag {
			return true
		}
	}
	return false
}
