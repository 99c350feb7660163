package service

import (
	"time"

	"canecycle/entities"
	"canecycle/pkg/cycle/types"
)

// CycleService is the crop-cycle state machine. Mutations are serialized
// per bloc so "at most one active cycle per bloc" survives concurrent
// callers.
type CycleService interface {
	CreatePlantation(req types.CreatePlantationRequest) (*entities.CropCycle, error)
	CreateRatoon(req types.CreateRatoonRequest) (*entities.CropCycle, error)
	Update(cycleID uint, req types.UpdateCycleRequest) (*entities.CropCycle, error)
	Close(cycleID uint, actualHarvest time.Time) (*entities.CropCycle, error)
	ValidateForClosure(cycleID uint, candidateHarvest time.Time) (*types.ClosureValidation, error)
	Active(blocID uint) (*entities.CropCycle, error)
	History(blocID uint) ([]entities.CropCycle, error)
	RefreshGrowthStages() error
}
