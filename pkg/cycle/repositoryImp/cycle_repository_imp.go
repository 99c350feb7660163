package repositoryImp

import (
	"errors"

	"gorm.io/gorm"

	"canecycle/entities"
	"canecycle/pkg/cycle/repository"
	"canecycle/pkg/cycle/types"
)

type cycleRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.CycleRepository { return &cycleRepo{db} }

func (r *cycleRepo) Save(c *entities.CropCycle) error { return r.db.Save(c).Error }

func (r *cycleRepo) FindByID(id uint) (*entities.CropCycle, error) {
	var c entities.CropCycle
	if err := r.db.First(&c, "cycle_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrCycleNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *cycleRepo) FindByBloc(blocID uint) ([]entities.CropCycle, error) {
	var out []entities.CropCycle
	if err := r.db.Where("bloc_id = ?", blocID).Order("cycle_number asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cycleRepo) FindActive(blocID uint) (*entities.CropCycle, error) {
	var c entities.CropCycle
	err := r.db.Where("bloc_id = ? AND status = ?", blocID, entities.CycleStatusActive).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cycleRepo) FindAllActive() ([]entities.CropCycle, error) {
	var out []entities.CropCycle
	if err := r.db.Where("status = ?", entities.CycleStatusActive).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *cycleRepo) Latest(blocID uint) (*entities.CropCycle, error) {
	var c entities.CropCycle
	err := r.db.Where("bloc_id = ?", blocID).Order("cycle_number desc").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
