//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"lensinspect/internal/domain/entity"
)

// Pipeline заглушка конвейера для сборки без OpenCV.
type Pipeline struct {
	MaskThreshold    int
	MaskKernelSize   int
	TophatKernelSize int
	NoiseKernelSize  int
	ClaheClipLimit   float64
	ClaheTileSize    int
}

// NewPipeline создаёт конвейер-заглушку (без OpenCV).
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

// Inspect возвращает ошибку, если сборка без тега gocv.
func (p *Pipeline) Inspect(ctx context.Context, imageData []byte, params entity.InspectionParams) (*entity.InspectionResult, error) {
	_ = ctx
	_ = imageData
	_ = params
	return nil, errors.New("gocv build tag is not enabled")
}

// Annotate возвращает ошибку, если сборка без тега gocv.
func (p *Pipeline) Annotate(imageData []byte, params entity.InspectionParams, result *entity.InspectionResult) ([]byte, error) {
	_ = imageData
	_ = params
	_ = result
	return nil, errors.New("gocv build tag is not enabled")
}
