//go:build gocv
// +build gocv

package vision

import (
	"context"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"lensinspect/internal/domain/entity"
)

// Pipeline пятиступенчатый конвейер анализа линзы:
// сегментация активной зоны, выравнивание подсветки, выделение кандидатов,
// классификация по геометрии контура, вердикт.
type Pipeline struct {
	MaskThreshold    int     // порог бинаризации активной зоны
	MaskKernelSize   int     // ядро морфологической чистки маски
	TophatKernelSize int     // ядро top-hat для выделения мелких ярких деталей
	NoiseKernelSize  int     // ядро удаления одиночных пикселей
	ClaheClipLimit   float64 // ограничение усиления локального контраста
	ClaheTileSize    int     // размер тайла CLAHE
}

// NewPipeline создаёт конвейер со стандартными размерами структурных элементов.
func NewPipeline() *Pipeline {
	return &Pipeline{
		MaskThreshold:    8,
		MaskKernelSize:   15,
		TophatKernelSize: 7,
		NoiseKernelSize:  3,
		ClaheClipLimit:   3.0,
		ClaheTileSize:    8,
	}
}

// Inspect прогоняет изображение через конвейер и возвращает результат.
func (p *Pipeline) Inspect(ctx context.Context, imageData []byte, params entity.InspectionParams) (*entity.InspectionResult, error) {
	_ = ctx
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

	candidates := p.Extract(corrected, mask, params.Threshold)
	defer candidates.Close()

	defects := p.Classify(candidates)

	return &entity.InspectionResult{
		ImageWidth:  gray.Cols(),
		ImageHeight: gray.Rows(),
		LensFound:   gocv.CountNonZero(mask) > 0,
		Defects:     defects,
		Verdict:     p.Evaluate(mask, candidates, len(defects)),
	}, nil
}

// Evaluate выносит вердикт по маске линзы и маске кандидатов. Число дефектов
// приходит от вызывающего: здесь оно не пересчитывается.
func (p *Pipeline) Evaluate(mask, candidates gocv.Mat, defectCount int) entity.Verdict {
	return entity.Evaluate(gocv.CountNonZero(mask), gocv.CountNonZero(candidates), defectCount)
}

// Segment строит бинарную маску активной зоны линзы. Низкий порог отделяет
// подсвеченную область от фона, закрытие и открытие сшивают разрывы и убирают
// крап на границе, из внешних контуров остаётся залитым только наибольший.
// Если контуров нет, возвращается нулевая маска тех же размеров.
func (p *Pipeline) Segment(gray gocv.Mat) gocv.Mat {
	mask := gocv.NewMat()
	gocv.Threshold(gray, &mask, float32(p.MaskThreshold), 255, gocv.ThresholdBinary)
	defer mask.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(p.MaskKernelSize, p.MaskKernelSize))
	defer kernel.Close()
	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	clean := gocv.NewMatWithSize(gray.Rows(), gray.Cols(), gocv.MatTypeCV8UC1)
	if contours.Size() == 0 {
		return clean
	}

	// При равных площадях остаётся первый встреченный контур.
	largest := 0
	maxArea := 0.0
	for i := 0; i < contours.Size(); i++ {
		if a := gocv.ContourArea(contours.At(i)); a > maxArea {
			maxArea = a
			largest = i
		}
	}

	white := color.RGBA{R: 255, G: 255, B: 255}
	gocv.DrawContours(&clean, contours, largest, white, -1)
	return clean
}

// Correct выравнивает неравномерную подсветку. Фон оценивается гауссовым
// размытием большим ядром, исходник делится на фон (деление, а не вычитание:
// на тёмных пикселях оно численно устойчиво), результат растягивается на
// полный диапазон 0–255 по статистике только внутри маски.
func (p *Pipeline) Correct(gray, mask gocv.Mat, blurSize int) gocv.Mat {
	if blurSize%2 == 0 {
		blurSize++
	}

	floatGray := gocv.NewMat()
	defer floatGray.Close()
	gray.ConvertTo(&floatGray, gocv.MatTypeCV32F)

	background := gocv.NewMat()
	defer background.Close()
	gocv.GaussianBlur(floatGray, &background, image.Pt(blurSize, blurSize), 0, 0, gocv.BorderDefault)

	floatGray.AddFloat(1)
	background.AddFloat(1)

	corrected := gocv.NewMat()
	defer corrected.Close()
	gocv.Divide(floatGray, background, &corrected)

	// Min-max нормализация по пикселям маски: фон вне линзы не должен
	// влиять на растяжку диапазона.
	minVal, maxVal := maskedMinMax(corrected, mask)
	corrected.SubtractFloat(minVal)
	if maxVal > minVal {
		corrected.MultiplyFloat(255 / (maxVal - minVal))
	}

	out := gocv.NewMat()
	corrected.ConvertTo(&out, gocv.MatTypeCV8UC1)
	return out
}

// Extract выделяет кандидатов в дефекты. CLAHE поднимает слабый локальный
// контраст, белый top-hat оставляет яркие детали уже структурного элемента,
// порог бинаризует отклик, открытие убирает одиночные пиксели, пересечение
// с маской отбрасывает всё вне активной зоны.
func (p *Pipeline) Extract(corrected, mask gocv.Mat, threshold int) gocv.Mat {
	clahe := gocv.NewCLAHEWithParams(p.ClaheClipLimit, image.Pt(p.ClaheTileSize, p.ClaheTileSize))
	defer clahe.Close()

	enhanced := gocv.NewMat()
	defer enhanced.Close()
	clahe.Apply(corrected, &enhanced)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(p.TophatKernelSize, p.TophatKernelSize))
	defer kernel.Close()

	tophat := gocv.NewMat()
	defer tophat.Close()
	gocv.MorphologyEx(enhanced, &tophat, gocv.MorphTophat, kernel)

	candidates := gocv.NewMat()
	gocv.Threshold(tophat, &candidates, float32(threshold), 255, gocv.ThresholdBinary)

	noiseKernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(p.NoiseKernelSize, p.NoiseKernelSize))
	defer noiseKernel.Close()
	gocv.MorphologyEx(candidates, &candidates, gocv.MorphOpen, noiseKernel)

	gocv.BitwiseAnd(candidates, mask, &candidates)
	return candidates
}

// Classify извлекает внешние контуры маски кандидатов и строит список
// дефектов в порядке обхода. Контуры мельче entity.MinDefectArea
// отбрасываются как субпиксельный шум.
func (p *Pipeline) Classify(candidates gocv.Mat) []entity.Defect {
	contours := gocv.FindContours(candidates, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	defects := make([]entity.Defect, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		c := entity.Contour(contours.At(i).ToPoints())

		area := c.Area()
		if area < entity.MinDefectArea {
			continue
		}

		rect := c.BoundingRect()
		height := rect.Dy()
		if height < 1 {
			height = 1
		}
		aspect := float64(rect.Dx()) / float64(height)

		centerX, centerY := c.Centroid()

		defects = append(defects, entity.Defect{
			CenterX:     centerX,
			CenterY:     centerY,
			X:           rect.Min.X,
			Y:           rect.Min.Y,
			Width:       rect.Dx(),
			Height:      rect.Dy(),
			Area:        area,
			AspectRatio: aspect,
			Type:        entity.ClassifyShape(area, aspect),
		})
	}

	return defects
}

// maskedMinMax возвращает минимум и максимум float-изображения по пикселям,
// где маска ненулевая. Для пустой маски возвращает (0, 0).
func maskedMinMax(src, mask gocv.Mat) (minVal, maxVal float32) {
	found := false
	for y := 0; y < src.Rows(); y++ {
		for x := 0; x < src.Cols(); x++ {
			if mask.GetUCharAt(y, x) == 0 {
				continue
			}
			v := src.GetFloatAt(y, x)
			if !found {
				minVal, maxVal = v, v
				found = true
				continue
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return minVal, maxVal
}

// decodeGray превращает байты изображения в одноканальный gocv.Mat.
func decodeGray(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadGrayScale)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), ErrInvalidImage
}
