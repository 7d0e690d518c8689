package entity

// passRatioThreshold — доля дефектных пикселей, ниже которой линза годная
// (пять миллионных площади активной зоны). Политика контроля качества,
// пользователем не настраивается.
const passRatioThreshold = 0.000005

// Verdict итог контроля качества линзы
type Verdict struct {
	Pass            bool    // годная / брак
	DefectAreaRatio float64 // доля дефектных пикселей от площади линзы
	DefectCount     int     // число классифицированных дефектов
}

// Evaluate выносит вердикт по числу пикселей маски линзы и маски дефектов.
// Знаменатель ограничен снизу единицей, чтобы пустая маска не делила на ноль.
func Evaluate(lensPixels, defectPixels, defectCount int) Verdict {
	if lensPixels < 1 {
		lensPixels = 1
	}

	ratio := float64(defectPixels) / float64(lensPixels)
	return Verdict{
		Pass:            ratio < passRatioThreshold,
		DefectAreaRatio: ratio,
		DefectCount:     defectCount,
	}
}
