//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"

	"gocv.io/x/gocv"

	"lensinspect/internal/domain/entity"
)

// Annotate строит картинку с разметкой поверх выровненного изображения:
// зелёный контур линзы, цветные круги вокруг дефектов с их номерами.
// Разметка чисто накладная и на результат анализа не влияет.
func (p *Pipeline) Annotate(imageData []byte, params entity.InspectionParams, result *entity.InspectionResult) ([]byte, error) {
	gray, err := decodeGray(imageData)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	params = params.Normalized()

	mask := p.Segment(gray)
	defer mask.Close()

	corrected := p.Correct(gray, mask, params.BlurSize)
	defer corrected.Close()

	display := gocv.NewMat()
	defer display.Close()
	gocv.CvtColor(corrected, &display, gocv.ColorGrayToBGR)

	maskContours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer maskContours.Close()

	green := color.RGBA{G: 255}
	for i := 0; i < maskContours.Size(); i++ {
		gocv.DrawContours(&display, maskContours, i, green, 3)
	}

	for i, d := range result.Defects {
		c := markerColor(d.Type)
		center := image.Pt(int(d.CenterX), int(d.CenterY))

		radius := int(math.Sqrt(d.Area)) + 4
		if radius < 8 {
			radius = 8
		}

		gocv.Circle(&display, center, radius, c, 2)
		gocv.PutText(&display, fmt.Sprintf("%d", i+1),
			image.Pt(center.X+radius+2, center.Y+4),
			gocv.FontHersheySimplex, 0.4, c, 1)
	}

	img, err := display.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// markerColor возвращает цвет маркера для типа дефекта.
func markerColor(t entity.DefectType) color.RGBA {
	switch t {
	case entity.DefectScratch:
		return color.RGBA{R: 255}
	case entity.DefectCluster:
		return color.RGBA{R: 255, G: 165}
	default:
		return color.RGBA{R: 255, B: 255}
	}
}
