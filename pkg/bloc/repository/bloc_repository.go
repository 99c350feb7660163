package repository

import "canecycle/entities"

type BlocRepository interface {
	Create(b *entities.Bloc) error
	FindByID(id uint, uid string) (*entities.Bloc, error)
	Get(id uint) (*entities.Bloc, error) // no owner scoping, for engine internals
	List(uid string) ([]entities.Bloc, error)
}
