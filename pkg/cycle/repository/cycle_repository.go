package repository

import "canecycle/entities"

type CycleRepository interface {
	Save(c *entities.CropCycle) error
	FindByID(id uint) (*entities.CropCycle, error)
	FindByBloc(blocID uint) ([]entities.CropCycle, error)
	FindActive(blocID uint) (*entities.CropCycle, error) // nil, nil when none
	FindAllActive() ([]entities.CropCycle, error)
	Latest(blocID uint) (*entities.CropCycle, error) // nil, nil when none
}
