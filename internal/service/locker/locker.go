package locker

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ucampus/refectory/internal/apperrors"
	"github.com/ucampus/refectory/internal/models"
	"github.com/ucampus/refectory/internal/repository"
)

// LockerService drives the per-locker occupancy state machine:
// available <-> occupied, with maintenance reachable only through the
// administrative update. Transitions run under a row lock on the locker
// (check-in) or its open usage (check-out), so concurrent attempts on
// the same locker serialize and exactly one wins.
type LockerService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *LockerService {
	return &LockerService{
		storage: storage,
	}
}

func (s *LockerService) CheckIn(ctx context.Context, lockerID, accountID uuid.UUID) (models.LockerUsage, error) {
	var usage models.LockerUsage

	err := s.storage.InTx(ctx, func(store repository.Storage) error {
		locker, err := store.Locker().Get(ctx, lockerID, true)
		if err != nil {
			return err
		}

		if locker.Status != models.LockerStatusAvailable {
			return apperrors.ErrLockerNotAvailable
		}

		usage, err = store.LockerUsage().CreateOpen(ctx, lockerID, accountID)
		if err != nil {
			return err
		}

		if err := store.Locker().SetStatus(ctx, lockerID, models.LockerStatusOccupied); err != nil {
			return fmt.Errorf("can't mark locker occupied: %w", err)
		}

		return nil
	})
	if err != nil {
		return models.LockerUsage{}, err
	}

	return usage, nil
}

func (s *LockerService) CheckOut(ctx context.Context, lockerID uuid.UUID) (models.LockerUsage, error) {
	var usage models.LockerUsage

	err := s.storage.InTx(ctx, func(store repository.Storage) error {
		open, err := store.LockerUsage().GetOpenForLocker(ctx, lockerID, true)
		if err != nil {
			return err
		}

		usage, err = store.LockerUsage().Close(ctx, open.ID, time.Now())
		if err != nil {
			return fmt.Errorf("can't close usage record: %w", err)
		}

		if err := store.Locker().SetStatus(ctx, lockerID, models.LockerStatusAvailable); err != nil {
			return fmt.Errorf("can't mark locker available: %w", err)
		}

		return nil
	})
	if err != nil {
		return models.LockerUsage{}, err
	}

	return usage, nil
}

func (s *LockerService) UsageHistory(ctx context.Context, filter repository.UsageFilter) ([]models.LockerUsage, error) {
	return s.storage.LockerUsage().List(ctx, filter)
}
