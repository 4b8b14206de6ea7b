package services

import (
	"math/rand"

	"github.com/mroth/weightedrand/v2"
)

type ServiceGacha[T any] struct {
	chooser *weightedrand.Chooser[T, int]
}

func NewServiceGacha[T any](choices []weightedrand.Choice[T, int]) (*ServiceGacha[T], error) {
	chooser, err := weightedrand.NewChooser(choices...)
	if err != nil {
		return nil, err
	}

	return &ServiceGacha[T]{chooser}, nil
}

func (service *ServiceGacha[T]) Pick() T {
	return service.chooser.Pick()
}

// PickSource draws from an explicit source. Deterministic selection for
// a seeded source; the caller owns source synchronization.
func (service *ServiceGacha[T]) PickSource(r *rand.Rand) T {
	return service.chooser.PickSource(r)
}
