package vision

import (
	"errors"

	"lensinspect/internal/domain/port"
)

// ErrInvalidImage возвращается, когда входные байты не декодируются
// в непустое одноканальное изображение.
var ErrInvalidImage = errors.New("invalid input image")

// Проверка реализации интерфейса
var _ port.LensInspector = (*Pipeline)(nil)
