package topics

// Renderer turns raw topic content into terminal output. format is the
// topic file extension, ".md" or ".txt".
type Renderer interface {
	Render(content string, format string) string
}

// PlainRenderer returns content as-is
type PlainRenderer struct{}

func (r *PlainRenderer) Render(content string, format string) string {
	return content
}
