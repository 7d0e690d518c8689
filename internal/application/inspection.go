package app

import (
	"context"
	"errors"
	"sync"

	"lensinspect/internal/domain/entity"
	"lensinspect/internal/domain/port"
)

type InspectionService struct {
	users     *UserService
	inspector port.LensInspector
	reporter  port.ReportBuilder
	defaults  entity.InspectionParams
	params    map[int64]entity.InspectionParams
	mu        sync.RWMutex
}

// InspectionOutput содержит результат анализа, сводку и картинку с разметкой.
type InspectionOutput struct {
	Result    *entity.InspectionResult
	Summary   string
	Annotated []byte
}

// NewInspectionService создаёт сервис, который управляет проверкой линз.
func NewInspectionService(users *UserService, inspector port.LensInspector, reporter port.ReportBuilder, defaults entity.InspectionParams) *InspectionService {
	return &InspectionService{
		users:     users,
		inspector: inspector,
		reporter:  reporter,
		defaults:  defaults,
		params:    make(map[int64]entity.InspectionParams),
	}
}

// Params возвращает параметры конвейера для пользователя.
func (s *InspectionService) Params(userID int64) entity.InspectionParams {
	s.mu.RLock()
	p, ok := s.params[userID]
	s.mu.RUnlock()
	if !ok {
		return s.defaults
	}
	return p
}

// SetBlurSize запоминает размер ядра оценки фона для пользователя.
func (s *InspectionService) SetBlurSize(userID int64, blurSize int) entity.InspectionParams {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.params[userID]
	if !ok {
		p = s.defaults
	}
	p.BlurSize = blurSize
	s.params[userID] = p
	return p
}

// SetThreshold запоминает порог выделения дефектов для пользователя.
func (s *InspectionService) SetThreshold(userID int64, threshold int) entity.InspectionParams {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.params[userID]
	if !ok {
		p = s.defaults
	}
	p.Threshold = threshold
	s.params[userID] = p
	return p
}

// ProcessLensPhoto запускает конвейер и возвращает результат с разметкой.
func (s *InspectionService) ProcessLensPhoto(ctx context.Context, userID int64, photo []byte) (*InspectionOutput, error) {
	if s.inspector == nil {
		return nil, errors.New("inspector is not configured")
	}

	params := s.Params(userID)

	result, err := s.inspector.Inspect(ctx, photo, params)
	if err != nil {
		return nil, err
	}

	var summary string
	if s.reporter != nil {
		summary = s.reporter.Summary(result)
	}

	// Разметка вторична: её ошибка не отменяет сам результат анализа.
	annotated, _ := s.inspector.Annotate(photo, params, result)

	return &InspectionOutput{Result: result, Summary: summary, Annotated: annotated}, nil
}
