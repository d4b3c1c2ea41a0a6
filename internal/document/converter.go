package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// Converter produces the portable pdf artifact from a rendered docx by
// shelling out to a headless soffice. The converter exits zero even
// when it produces nothing, so the presence of the output file is the
// real success signal; the produced pdf is then opened to confirm it
// has at least one page.
type Converter struct {
	binPath string
	timeout time.Duration
	logger  *zap.Logger
}

// NewConverter creates a converter using the given soffice binary.
func NewConverter(binPath string, timeout time.Duration, logger *zap.Logger) *Converter {
	return &Converter{binPath: binPath, timeout: timeout, logger: logger}
}

// Convert converts docxPath to a pdf in the same directory and returns
// the pdf path.
func (c *Converter) Convert(ctx context.Context, docxPath string) (string, error) {
	dir := filepath.Dir(docxPath)
	base := strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))
	pdfPath := filepath.Join(dir, base+".pdf")

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := c.command(ctx, dir, docxPath)
	output, err := cmd.CombinedOutput()
	if err != nil {
		c.logger.Error("Converter process failed",
			zap.String("docx_path", docxPath),
			zap.ByteString("output", output),
			zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}

	if _, err := os.Stat(pdfPath); err != nil {
		c.logger.Error("Converter produced no output file",
			zap.String("pdf_path", pdfPath),
			zap.ByteString("output", output))
		return "", fmt.Errorf("%w: output file missing", ErrConversionFailed)
	}

	if err := c.validatePDF(pdfPath); err != nil {
		return "", err
	}

	c.logger.Info("Converted document to pdf", zap.String("pdf_path", pdfPath))
	return pdfPath, nil
}

// validatePDF opens the produced file and checks it actually renders as
// a pdf with content.
func (c *Converter) validatePDF(pdfPath string) error {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return fmt.Errorf("%w: unreadable output: %v", ErrConversionFailed, err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return ErrEmptyOutput
	}
	return nil
}
