package extract

// Extractor turns a fetched body into the texts of the elements it selects.
// Implementations must be deterministic and free of side effects.
type Extractor interface {
	Extract(input []byte, contentType string, tag string) ([]string, error)
}

// TagExtractor selects elements by name using TagText.
type TagExtractor struct{}

func (TagExtractor) Extract(input []byte, contentType string, tag string) ([]string, error) {
	return TagText(input, contentType, tag)
}
