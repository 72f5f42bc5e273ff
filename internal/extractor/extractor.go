// Package extractor turns a stored PDF into plain text.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrCorruptDocument is returned when the bytes cannot be parsed as a PDF.
var ErrCorruptDocument = errors.New("document cannot be parsed as pdf")

func init() {
	// pdfcpu would otherwise create a config dir under the user's home.
	api.DisableConfigDir()
}

// Extract returns the text of every page in page order, concatenated with
// no separator. Pages without content contribute nothing.
func Extract(ctx context.Context, r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrCorruptDocument, p)
		}
	}()

	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	var b strings.Builder
	n := doc.NumPage()
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		s, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrCorruptDocument, i, err)
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// PageCount validates the document in relaxed mode and returns its page count.
func PageCount(ctx context.Context, rs io.ReadSeeker) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	n, err := api.PageCount(rs, conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	return n, nil
}
