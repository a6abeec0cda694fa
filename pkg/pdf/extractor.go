// pkg/pdf/extractor.go

package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText indicates the document parsed but yielded no text at all,
// which is what scanned image-only pages look like.
var ErrNoText = errors.New("pdf contains no extractable text")

// ExtractText returns the plain text of every page, joined with newlines.
// Pages that fail to decode are skipped; an error is returned only when the
// document itself cannot be read.
func ExtractText(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty pdf document")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("error opening PDF: %w", err)
	}

	var pages []string
	totalPages := reader.NumPage()

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		p := reader.Page(pageNum)
		if p.V.IsNull() {
			continue
		}

		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return "", ErrNoText
	}

	return strings.Join(pages, "\n"), nil
}
