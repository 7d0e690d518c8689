//go:build gocv
// +build gocv

package vision

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"lensinspect/internal/domain/entity"
)

// testParams — порог 60 оставляет запас над откликом top-hat на плавной
// кромке синтетического диска.
var testParams = entity.InspectionParams{BlurSize: 101, Threshold: 60}

// newDisc рисует равномерно подсвеченный диск (значение 200) на чёрном фоне
// и сглаживает кромку, как у реального снимка линзы.
func newDisc(t *testing.T) gocv.Mat {
	t.Helper()

	img := gocv.NewMatWithSize(400, 400, gocv.MatTypeCV8UC1)
	gray := color.RGBA{R: 200, G: 200, B: 200}
	gocv.Circle(&img, image.Pt(200, 200), 150, gray, -1)
	gocv.GaussianBlur(img, &img, image.Pt(31, 31), 0, 0, gocv.BorderDefault)
	return img
}

func drawBright(img *gocv.Mat, r image.Rectangle) {
	white := color.RGBA{R: 255, G: 255, B: 255}
	gocv.Rectangle(img, r, white, -1)
}

func encodePNG(t *testing.T, img gocv.Mat) []byte {
	t.Helper()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, img)
	require.NoError(t, err)
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data
}

func TestSegmentAllZeroImage(t *testing.T) {
	img := gocv.NewMatWithSize(200, 200, gocv.MatTypeCV8UC1)
	defer img.Close()

	mask := NewPipeline().Segment(img)
	defer mask.Close()

	require.Equal(t, 200, mask.Rows())
	require.Equal(t, 200, mask.Cols())
	require.Zero(t, gocv.CountNonZero(mask))
}

func TestSegmentDisc(t *testing.T) {
	img := newDisc(t)
	defer img.Close()

	mask := NewPipeline().Segment(img)
	defer mask.Close()

	// Маска примерно равна диску радиуса 150 (кромка сглажена).
	count := gocv.CountNonZero(mask)
	require.Greater(t, count, 60000)
	require.Less(t, count, 95000)
	require.EqualValues(t, 255, mask.GetUCharAt(200, 200))
	require.EqualValues(t, 0, mask.GetUCharAt(10, 10))
}

func TestSegmentKeepsLargestRegion(t *testing.T) {
	img := gocv.NewMatWithSize(400, 400, gocv.MatTypeCV8UC1)
	defer img.Close()
	gray := color.RGBA{R: 200, G: 200, B: 200}
	gocv.Circle(&img, image.Pt(150, 150), 100, gray, -1)
	gocv.Circle(&img, image.Pt(330, 330), 30, gray, -1)

	mask := NewPipeline().Segment(img)
	defer mask.Close()

	// Остаётся только больший диск.
	require.EqualValues(t, 255, mask.GetUCharAt(150, 150))
	require.EqualValues(t, 0, mask.GetUCharAt(330, 330))
}

func TestCorrectEvenBlurMatchesOdd(t *testing.T) {
	img := newDisc(t)
	defer img.Close()

	p := NewPipeline()
	mask := p.Segment(img)
	defer mask.Close()

	even := p.Correct(img, mask, 100)
	defer even.Close()
	odd := p.Correct(img, mask, 101)
	defer odd.Close()

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(even, odd, &diff)
	require.Zero(t, gocv.CountNonZero(diff))
}

func TestCorrectStretchesFullRange(t *testing.T) {
	img := newDisc(t)
	defer img.Close()

	p := NewPipeline()
	mask := p.Segment(img)
	defer mask.Close()

	corrected := p.Correct(img, mask, testParams.BlurSize)
	defer corrected.Close()

	require.Equal(t, gocv.MatTypeCV8UC1, corrected.Type())
	_, maxVal, _, _ := gocv.MinMaxLoc(corrected)
	require.GreaterOrEqual(t, maxVal, float32(250))
}

func TestExtractCleanDiscIsEmpty(t *testing.T) {
	img := newDisc(t)
	defer img.Close()

	p := NewPipeline()
	mask := p.Segment(img)
	defer mask.Close()
	corrected := p.Correct(img, mask, testParams.BlurSize)
	defer corrected.Close()

	candidates := p.Extract(corrected, mask, testParams.Threshold)
	defer candidates.Close()

	require.Zero(t, gocv.CountNonZero(candidates))
}

func TestExtractStaysInsideMask(t *testing.T) {
	img := newDisc(t)
	defer img.Close()
	drawBright(&img, image.Rect(150, 150, 155, 155))

	p := NewPipeline()
	mask := p.Segment(img)
	defer mask.Close()
	corrected := p.Correct(img, mask, testParams.BlurSize)
	defer corrected.Close()

	candidates := p.Extract(corrected, mask, testParams.Threshold)
	defer candidates.Close()

	notMask := gocv.NewMat()
	defer notMask.Close()
	gocv.BitwiseNot(mask, &notMask)

	outside := gocv.NewMat()
	defer outside.Close()
	gocv.BitwiseAnd(candidates, notMask, &outside)
	require.Zero(t, gocv.CountNonZero(outside))
}

func TestExtractThresholdMonotonic(t *testing.T) {
	img := newDisc(t)
	defer img.Close()
	drawBright(&img, image.Rect(150, 150, 155, 155))

	p := NewPipeline()
	mask := p.Segment(img)
	defer mask.Close()
	corrected := p.Correct(img, mask, testParams.BlurSize)
	defer corrected.Close()

	low := p.Extract(corrected, mask, 30)
	defer low.Close()
	high := p.Extract(corrected, mask, 90)
	defer high.Close()

	require.LessOrEqual(t, gocv.CountNonZero(high), gocv.CountNonZero(low))
}

func TestInspectAllZeroImage(t *testing.T) {
	img := gocv.NewMatWithSize(200, 200, gocv.MatTypeCV8UC1)
	defer img.Close()

	result, err := NewPipeline().Inspect(context.Background(), encodePNG(t, img), testParams)
	require.NoError(t, err)

	require.False(t, result.LensFound)
	require.Empty(t, result.Defects)
	require.True(t, result.Verdict.Pass)
	require.Zero(t, result.Verdict.DefectAreaRatio)
	require.Zero(t, result.Verdict.DefectCount)
}

func TestInspectCleanDiscPasses(t *testing.T) {
	img := newDisc(t)
	defer img.Close()

	result, err := NewPipeline().Inspect(context.Background(), encodePNG(t, img), testParams)
	require.NoError(t, err)

	require.True(t, result.LensFound)
	require.Empty(t, result.Defects)
	require.True(t, result.Verdict.Pass)
}

func TestInspectSpeck(t *testing.T) {
	img := newDisc(t)
	defer img.Close()
	// Яркий квадрат 6x6 в стороне от центра.
	drawBright(&img, image.Rect(150, 150, 155, 155))

	result, err := NewPipeline().Inspect(context.Background(), encodePNG(t, img), testParams)
	require.NoError(t, err)

	require.True(t, result.LensFound)
	require.Len(t, result.Defects, 1)

	d := result.Defects[0]
	require.Equal(t, entity.DefectSpeck, d.Type)
	require.GreaterOrEqual(t, d.Area, entity.MinDefectArea)
	require.Less(t, d.Area, 150.0)
	require.InDelta(t, 1.0, d.AspectRatio, 0.6)
	require.InDelta(t, 152.5, d.CenterX, 4)
	require.InDelta(t, 152.5, d.CenterY, 4)

	require.False(t, result.Verdict.Pass)
	require.Equal(t, 1, result.Verdict.DefectCount)
}

func TestInspectScratch(t *testing.T) {
	img := newDisc(t)
	defer img.Close()
	// Яркая полоса 4x30: вытянутая, AR около 0.13.
	drawBright(&img, image.Rect(150, 100, 153, 129))

	result, err := NewPipeline().Inspect(context.Background(), encodePNG(t, img), testParams)
	require.NoError(t, err)

	require.Len(t, result.Defects, 1)

	d := result.Defects[0]
	require.Equal(t, entity.DefectScratch, d.Type)
	require.Greater(t, d.Area, 5.0)
	require.LessOrEqual(t, d.AspectRatio, 0.70)
	require.False(t, result.Verdict.Pass)
}

func TestClassifyCluster(t *testing.T) {
	candidates := gocv.NewMatWithSize(400, 400, gocv.MatTypeCV8UC1)
	defer candidates.Close()
	// Пятно 20x20: крупное, но не вытянутое.
	drawBright(&candidates, image.Rect(100, 100, 119, 119))

	defects := NewPipeline().Classify(candidates)
	require.Len(t, defects, 1)

	d := defects[0]
	require.Equal(t, entity.DefectCluster, d.Type)
	require.Greater(t, d.Area, 150.0)
	require.InDelta(t, 1.0, d.AspectRatio, 0.1)
	require.InDelta(t, 109.5, d.CenterX, 1)
	require.InDelta(t, 109.5, d.CenterY, 1)
}

func TestClassifyDropsSubpixelNoise(t *testing.T) {
	candidates := gocv.NewMatWithSize(100, 100, gocv.MatTypeCV8UC1)
	defer candidates.Close()
	candidates.SetUCharAt(50, 50, 255)

	defects := NewPipeline().Classify(candidates)
	require.Empty(t, defects)
}

func TestInspectDeterminism(t *testing.T) {
	img := newDisc(t)
	defer img.Close()
	drawBright(&img, image.Rect(150, 150, 155, 155))
	data := encodePNG(t, img)

	p := NewPipeline()
	first, err := p.Inspect(context.Background(), data, testParams)
	require.NoError(t, err)
	second, err := p.Inspect(context.Background(), data, testParams)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestInspectInvalidImage(t *testing.T) {
	_, err := NewPipeline().Inspect(context.Background(), []byte("not an image"), testParams)
	require.ErrorIs(t, err, ErrInvalidImage)
}

func TestAnnotateProducesImage(t *testing.T) {
	img := newDisc(t)
	defer img.Close()
	drawBright(&img, image.Rect(150, 150, 155, 155))
	data := encodePNG(t, img)

	p := NewPipeline()
	result, err := p.Inspect(context.Background(), data, testParams)
	require.NoError(t, err)

	annotated, err := p.Annotate(data, testParams, result)
	require.NoError(t, err)
	require.NotEmpty(t, annotated)
}
