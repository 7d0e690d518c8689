package report

import (
	"fmt"
	"strings"

	"lensinspect/internal/domain/entity"
	"lensinspect/internal/domain/port"
)

// TextBuilder собирает текстовую сводку результата инспекции.
type TextBuilder struct{}

// NewTextBuilder создаёт построитель текстовых отчётов.
func NewTextBuilder() *TextBuilder {
	return &TextBuilder{}
}

// Summary формирует сводку: вердикт, доля дефектной площади и карточка
// на каждый дефект (номер, тип, площадь, соотношение сторон, координаты).
func (b *TextBuilder) Summary(result *entity.InspectionResult) string {
	var sb strings.Builder

	if !result.LensFound {
		sb.WriteString("Активная зона линзы не найдена.\n")
		return sb.String()
	}

	verdict := result.Verdict
	if verdict.Pass {
		sb.WriteString("PASS")
	} else {
		sb.WriteString("FAIL")
	}
	fmt.Fprintf(&sb, "  |  Defects: %d  |  Area: %.4f%%\n",
		verdict.DefectCount, verdict.DefectAreaRatio*100)

	for i, d := range result.Defects {
		fmt.Fprintf(&sb, "#%d  %s\n", i+1, d.Type)
		fmt.Fprintf(&sb, "  Area: %.1f px  AR: %.1f  (%.0f, %.0f)\n",
			d.Area, d.AspectRatio, d.CenterX, d.CenterY)
	}

	return sb.String()
}

// Проверка реализации интерфейса
var _ port.ReportBuilder = (*TextBuilder)(nil)
