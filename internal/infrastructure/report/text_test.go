package report

import (
	"testing"

	"github.com/stretchr/testify/require"

	"lensinspect/internal/domain/entity"
)

func TestSummaryPass(t *testing.T) {
	result := &entity.InspectionResult{
		LensFound: true,
		Verdict:   entity.Verdict{Pass: true, DefectAreaRatio: 0, DefectCount: 0},
	}

	s := NewTextBuilder().Summary(result)
	require.Contains(t, s, "PASS")
	require.Contains(t, s, "Defects: 0")
}

func TestSummaryFailListsDefects(t *testing.T) {
	result := &entity.InspectionResult{
		LensFound: true,
		Defects: []entity.Defect{
			{Type: entity.DefectScratch, Area: 58, AspectRatio: 0.1, CenterX: 150, CenterY: 114},
			{Type: entity.DefectSpeck, Area: 9, AspectRatio: 1.0, CenterX: 40, CenterY: 40},
		},
		Verdict: entity.Verdict{Pass: false, DefectAreaRatio: 0.0012, DefectCount: 2},
	}

	s := NewTextBuilder().Summary(result)
	require.Contains(t, s, "FAIL")
	require.Contains(t, s, "Defects: 2")
	require.Contains(t, s, "#1  scratch")
	require.Contains(t, s, "#2  speck")
	require.Contains(t, s, "(150, 114)")
}

func TestSummaryNoLens(t *testing.T) {
	result := &entity.InspectionResult{LensFound: false}

	s := NewTextBuilder().Summary(result)
	require.Contains(t, s, "не найдена")
	require.NotContains(t, s, "PASS")
}
