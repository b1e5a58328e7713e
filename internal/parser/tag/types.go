package tag

import "fmt"

const (
	// Name is the element name that introduces an inline template
	Name = "template"
	// OpenPrefix is the literal start of an opening template tag
	OpenPrefix = "<" + Name
	// Close is the literal closing template tag
	Close = "</" + Name + ">"
)

// Region is one <template>...</template> block found in script source.
// All offsets are byte offsets into the scanned source.
type Region struct {
	// Open is the opening tag as written, including any attributes
	Open string
	// Content is the text between the opening and closing tags, verbatim
	Content string
	// Start is the offset of the '<' of the opening tag
	Start int
	// ContentStart is the offset just past the opening tag
	ContentStart int
	// ContentEnd is the offset of the '<' of the closing tag
	ContentEnd int
	// End is the offset just past the closing tag
	End int
}

// SyntaxError reports source that cannot be tokenized as a script
type SyntaxError struct {
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Reason, e.Offset)
}
