package entity

// Значения по умолчанию для настраиваемых параметров конвейера.
const (
	DefaultBlurSize  = 101 // ядро оценки фона подсветки
	DefaultThreshold = 40  // порог бинаризации отклика top-hat
)

// InspectionParams настраиваемые параметры анализа изображения.
type InspectionParams struct {
	BlurSize  int // размер ядра гауссова размытия для оценки фона
	Threshold int // порог выделения кандидатов в дефекты
}

// DefaultParams возвращает параметры по умолчанию.
func DefaultParams() InspectionParams {
	return InspectionParams{
		BlurSize:  DefaultBlurSize,
		Threshold: DefaultThreshold,
	}
}

// Normalized возвращает параметры с исправленным чётным размером ядра:
// гауссово размытие требует нечётного размера, чётный молча увеличивается.
func (p InspectionParams) Normalized() InspectionParams {
	if p.BlurSize%2 == 0 {
		p.BlurSize++
	}
	return p
}

// InspectionResult хранит итог анализа изображения линзы.
type InspectionResult struct {
	ImageWidth  int      // ширина изображения
	ImageHeight int      // высота изображения
	LensFound   bool     // найдена ли активная зона линзы
	Defects     []Defect // список дефектов в порядке обхода контуров
	Verdict     Verdict  // вердикт контроля качества
}

// HasDefects сообщает, найден ли хотя бы один дефект.
func (r *InspectionResult) HasDefects() bool {
	return len(r.Defects) > 0
}
