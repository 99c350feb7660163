package repository

import "canecycle/entities"

type ObservationRepository interface {
	Save(o *entities.Observation) error
	FindByID(id uint) (*entities.Observation, error)
	FindByCycle(cycleID uint) ([]entities.Observation, error)
	Delete(id uint) error
}
