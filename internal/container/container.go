package container

import (
	app "lensinspect/internal/application"
	"lensinspect/internal/domain/entity"
	"lensinspect/internal/domain/port"
)

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
}

func New(userRepo port.UserRepository, inspector port.LensInspector, reporter port.ReportBuilder, defaults entity.InspectionParams) *Container {
	userService := app.NewUserService(userRepo)
	inspectionService := app.NewInspectionService(userService, inspector, reporter, defaults)

	return &Container{
		UserService:       userService,
		InspectionService: inspectionService,
	}
}
