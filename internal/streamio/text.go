// Package streamio bridges byte producers and one-shot completion signals
// into plain blocking Go calls.
package streamio

import (
	"io"
	"strings"
)

// textSource hides strings.Reader's Seek so consumers cannot rewind it.
type textSource struct {
	r *strings.Reader
}

func (s *textSource) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

// SourceFromText returns a reader that yields the UTF-8 bytes of text once,
// then io.EOF.
func SourceFromText(text string) io.Reader {
	return &textSource{r: strings.NewReader(text)}
}
