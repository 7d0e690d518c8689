package port

import (
	"context"

	"lensinspect/internal/domain/entity"
)

// LensInspector интерфейс конвейера анализа линзы
type LensInspector interface {
	// Inspect прогоняет изображение через конвейер и возвращает результат
	Inspect(ctx context.Context, imageData []byte, params entity.InspectionParams) (*entity.InspectionResult, error)

	// Annotate создаёт изображение с контуром линзы и маркерами дефектов
	Annotate(imageData []byte, params entity.InspectionParams, result *entity.InspectionResult) ([]byte, error)
}
