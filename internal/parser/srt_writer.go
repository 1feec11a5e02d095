package parser

import (
	"bufio"
	"fmt"
	"io"

	"github.com/monasticacademy/srt-to-json-microservice/internal/models"
)

// Write renders captions as SRT text. Output parses back to the same captions.
func Write(w io.Writer, captions []models.Caption) error {
	bw := bufio.NewWriter(w)
	for i, c := range captions {
		if i > 0 {
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n",
			c.Index, FormatTimestamp(c.Start), FormatTimestamp(c.End), c.Content); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write SRT output: %w", err)
	}
	return nil
}
