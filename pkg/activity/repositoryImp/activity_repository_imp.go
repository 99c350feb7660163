package repositoryImp

import (
	"gorm.io/gorm"

	"canecycle/entities"
	"canecycle/pkg/activity/repository"
)

type activityRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ActivityRepository { return &activityRepo{db} }

func (r *activityRepo) Save(a *entities.Activity) error { return r.db.Save(a).Error }

func (r *activityRepo) FindByID(id uint) (*entities.Activity, error) {
	var a entities.Activity
	if err := r.db.First(&a, "activity_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *activityRepo) FindByCycle(cycleID uint) ([]entities.Activity, error) {
	var out []entities.Activity
	if err := r.db.Where("cycle_id = ?", cycleID).Order("date asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
