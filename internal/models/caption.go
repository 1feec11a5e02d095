package models

// Caption is a single timed subtitle cue.
//
// Captions produced by the parser carry the index found in the source file.
// Captions produced by the combiner carry their 1-based position in the output.
type Caption struct {
	Index   int    `json:"index"`
	Content string `json:"content"` // Text with embedded line breaks
	Start   int64  `json:"start"`   // Milliseconds from the start of the media
	End     int64  `json:"end"`     // Milliseconds from the start of the media, >= Start
}

// Duration returns the length of the caption in milliseconds.
func (c Caption) Duration() int64 {
	return c.End - c.Start
}
