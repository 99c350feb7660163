package repositoryImp

import (
	"errors"

	"gorm.io/gorm"

	"canecycle/entities"
	"canecycle/pkg/bloc/repository"
	"canecycle/pkg/cycle/types"
)

type blocRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.BlocRepository { return &blocRepo{db} }

func (r *blocRepo) Create(b *entities.Bloc) error { return r.db.Create(b).Error }

func (r *blocRepo) FindByID(id uint, uid string) (*entities.Bloc, error) {
	var b entities.Bloc
	if err := r.db.Where("bloc_id = ? AND user_id = ?", id, uid).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *blocRepo) Get(id uint) (*entities.Bloc, error) {
	var b entities.Bloc
	if err := r.db.First(&b, "bloc_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrBlocNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *blocRepo) List(uid string) ([]entities.Bloc, error) {
	var out []entities.Bloc
	if err := r.db.Where("user_id = ?", uid).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
