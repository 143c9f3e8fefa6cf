package mock

import "github.com/kmathews/zalert"

var _ zalert.Converter = (*Converter)(nil)

// Converter is a mock implementation of zalert.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
