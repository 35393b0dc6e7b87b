//go:build cgo
// +build cgo

package controller

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
)

const pointsPerCM = 72 / 2.54

// renderPDFToPNGs renders up to maxPages pages of the PDF at dpi into outDir
// and returns the page sizes in cm together with the PNG paths.
func renderPDFToPNGs(pdfPath, outDir string, dpi, maxPages int) (sizes [][2]float64, pngPaths []string, err error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open %s: %w", pdfPath, err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if maxPages > 0 && n > maxPages {
		n = maxPages
	}
	base := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	for i := 0; i < n; i++ {
		bounds, err := doc.Bound(i)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot read page %d: %w", i+1, err)
		}
		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return nil, nil, fmt.Errorf("cannot render page %d: %w", i+1, err)
		}
		p := filepath.Join(outDir, fmt.Sprintf("%s-%d.png", base, i+1))
		if err = savePNG(p, img); err != nil {
			return nil, nil, err
		}
		sizes = append(sizes, [2]float64{
			float64(bounds.Dx()) / pointsPerCM,
			float64(bounds.Dy()) / pointsPerCM,
		})
		pngPaths = append(pngPaths, p)
	}
	return sizes, pngPaths, nil
}

func savePNG(path string, m image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = png.Encode(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
