package repository

import "canecycle/entities"

type ActivityRepository interface {
	Save(a *entities.Activity) error
	FindByID(id uint) (*entities.Activity, error)
	FindByCycle(cycleID uint) ([]entities.Activity, error)
}
