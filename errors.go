package texfill

import (
	"fmt"
	"unicode/utf8"
)

// LoadError reports a texture URL that could not be fetched or decoded.
// It is delivered through Texture.OnError and never returned by Request.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("texfill: load %s: %v", shortURL(e.URL), e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func shortURL(u string) string {
	const limit = 80
	if len(u) <= limit {
		return u
	}
	i := limit
	for i > 0 && !utf8.RuneStart(u[i]) {
		i--
	}
	return u[:i] + "..."
}
