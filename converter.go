package leadscout

// Converter renders HTML as Markdown. Summaries are prompted with Markdown
// rather than raw markup.
type Converter interface {
	Convert(html string) (string, error)
}
