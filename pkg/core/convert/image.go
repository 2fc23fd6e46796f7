package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/QueryType/bharattrader/pkg/core/llm"
	"github.com/QueryType/bharattrader/pkg/core/prompt"
)

// ImageConverter OCRs images through the external tesseract binary and,
// when a vision provider is available, appends a model-generated
// description of charts and figures. Vision failures degrade to OCR-only
// output rather than failing the file.
type ImageConverter struct {
	binary string
	vision llm.VisionProvider
}

func NewImageConverter(binary string, vision llm.VisionProvider) *ImageConverter {
	if binary == "" {
		binary = "tesseract"
	}
	return &ImageConverter{binary: binary, vision: vision}
}

func (c *ImageConverter) Extensions() []string {
	return []string{"jpg", "jpeg", "png", "gif", "bmp"}
}

func (c *ImageConverter) Convert(ctx context.Context, path string) (string, error) {
	ocrText, err := c.runOCR(ctx, path)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## OCR Text:\n\n%s", ocrText)

	if c.vision != nil {
		description, err := c.describe(ctx, path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("vision description failed, keeping OCR only")
		} else if description != "" {
			fmt.Fprintf(&b, "\n\n## Image Analysis:\n\n%s", description)
		}
	}

	return b.String(), nil
}

func (c *ImageConverter) runOCR(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, c.binary, path, "stdout")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (c *ImageConverter) describe(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	tmpl, err := prompt.Get().GetTemplate(prompt.IDImageAnalysis)
	if err != nil {
		return "", err
	}

	return c.vision.DescribeImage(ctx, data, imageMIME(path), tmpl.UserPrompt, map[string]interface{}{
		"temperature": 0.3,
	})
}

func imageMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".bmp":
		return "image/bmp"
	default:
		return "image/jpeg"
	}
}
