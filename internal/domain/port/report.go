package port

import (
	"lensinspect/internal/domain/entity"
)

// ReportBuilder интерфейс построителя текстового отчёта по инспекции
type ReportBuilder interface {
	// Summary формирует человекочитаемую сводку результата
	Summary(result *entity.InspectionResult) string
}
