package entity

// DefectType тип дефекта поверхности линзы
type DefectType int

const (
	DefectSpeck   DefectType = iota // точечное вкрапление
	DefectScratch                   // царапина (вытянутая форма)
	DefectCluster                   // скопление дефектов
)

// String возвращает текстовую метку типа дефекта.
func (t DefectType) String() string {
	switch t {
	case DefectScratch:
		return "scratch"
	case DefectCluster:
		return "cluster"
	default:
		return "speck"
	}
}

// Пороги классификации. Канонический вариант правила:
// вытянутость AR > 2.5 или AR <= 0.70, минимальная площадь царапины 5 px².
const (
	scratchMaxAspect = 2.5
	scratchMinAspect = 0.70
	scratchMinArea   = 5.0
	clusterMinArea   = 150.0
	// MinDefectArea — порог отсечения субпиксельного шума.
	MinDefectArea = 2.0
)

// ClassifyShape относит контур к одному из типов дефектов по площади
// и соотношению сторон. Правила проверяются по порядку, каждый контур
// получает ровно один тип.
func ClassifyShape(area, aspectRatio float64) DefectType {
	elongated := aspectRatio > scratchMaxAspect || aspectRatio <= scratchMinAspect
	if elongated && area > scratchMinArea {
		return DefectScratch
	}
	if area > clusterMinArea {
		return DefectCluster
	}
	return DefectSpeck
}

// Defect представляет один найденный дефект на линзе
type Defect struct {
	CenterX     float64    // X центра масс контура
	CenterY     float64    // Y центра масс контура
	X           int        // координата X левого верхнего угла рамки
	Y           int        // координата Y левого верхнего угла рамки
	Width       int        // ширина рамки в пикселях
	Height      int        // высота рамки в пикселях
	Area        float64    // площадь контура в px²
	AspectRatio float64    // ширина / max(высота, 1)
	Type        DefectType // классифицированный тип
}
