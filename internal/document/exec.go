package document

import (
	"context"
	"os/exec"
)

// command builds the headless conversion invocation. Split out so tests
// can inspect the argument shape without a soffice install.
func (c *Converter) command(ctx context.Context, outDir, docxPath string) *exec.Cmd {
	return exec.CommandContext(ctx, c.binPath,
		"--headless",
		"--convert-to", "pdf",
		"--outdir", outDir,
		docxPath,
	)
}
