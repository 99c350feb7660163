package repositoryImp

import (
	"gorm.io/gorm"

	"canecycle/entities"
	"canecycle/pkg/observation/repository"
)

type obsRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ObservationRepository { return &obsRepo{db} }

func (r *obsRepo) Save(o *entities.Observation) error { return r.db.Save(o).Error }

func (r *obsRepo) FindByID(id uint) (*entities.Observation, error) {
	var o entities.Observation
	if err := r.db.First(&o, "observation_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *obsRepo) FindByCycle(cycleID uint) ([]entities.Observation, error) {
	var out []entities.Observation
	if err := r.db.Where("cycle_id = ?", cycleID).Order("date asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an observation. Only explicit user action reaches here;
// the engine itself never deletes observations.
func (r *obsRepo) Delete(id uint) error {
	return r.db.Delete(&entities.Observation{}, "observation_id = ?", id).Error
}
