package controller

import (
	"fmt"
	"math"
	"path/filepath"
)

const previewDPI = 144

// preview renders the first page of the invoice PDF next to it. A failed
// preview does not fail the command.
func (ctrl *controller) preview(pdfPath string) {
	sizes, pngs, err := renderPDFToPNGs(pdfPath, filepath.Dir(pdfPath), previewDPI, 1)
	if err != nil {
		ctrl.logger.Warn("preview failed", "pdf", pdfPath, "error", err)
		fmt.Fprintf(ctrl.out, "Preview not available: %v\n", err)
		return
	}
	if len(pngs) == 0 {
		fmt.Fprintln(ctrl.out, "Preview not available: the PDF has no pages")
		return
	}
	fmt.Fprintf(ctrl.out, "Preview saved to: %s (%.2f × %.2f cm)\n", pngs[0], round2(sizes[0][0]), round2(sizes[0][1]))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
