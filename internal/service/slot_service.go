package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/apperr"
	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SlotService struct {
	store  storage.Store
	logger *zap.Logger
}

func NewSlotService(store storage.Store, logger *zap.Logger) *SlotService {
	return &SlotService{
		store:  store,
		logger: logger,
	}
}

// ReplaceAvailability заменяет расписание учителя целиком: удаляет все его
// свободные слоты и вставляет прошедшие проверку предложения. Занятые слоты
// замена не трогает. Вызывающему возвращаются и созданные слоты, и отклонённые
// предложения с причинами.
//
// Слот, занятый конкурентно до шага удаления, исключается из удаления фильтром
// is_booked = FALSE; слот, занятый после удаления, уже не существует, и попытка
// его бронирования корректно завершится "slot not found".
func (s *SlotService) ReplaceAvailability(ctx context.Context, principal model.Principal, proposed []model.ProposedSlot) ([]*model.AvailabilitySlot, []model.RejectedSlot, error) {
	now := time.Now().UTC()

	var (
		valid    []model.ProposedSlot
		validIdx []int
		rejected []model.RejectedSlot
	)

	for i, p := range proposed {
		if reason, ok := validateProposedSlot(p, now); !ok {
			rejected = append(rejected, model.RejectedSlot{Index: i, Slot: p, Reason: reason})
			continue
		}
		valid = append(valid, p)
		validIdx = append(validIdx, i)
	}

	// Непустая пачка, в которой не прошло ни одно предложение, отклоняется целиком
	if len(proposed) > 0 && len(valid) == 0 {
		return nil, rejected, apperr.Validation("no valid slots in the proposed batch")
	}

	var created []*model.AvailabilitySlot

	// Транзакция может быть повторена при конфликте, поэтому накопленные
	// внутри неё отклонения каждый раз отбрасываются до исходного среза
	preTxRejected := len(rejected)

	err := s.store.InTx(ctx, func(tx storage.Repos) error {
		rejected = rejected[:preTxRejected]

		profile, err := tx.TutorProfiles().GetByUserID(ctx, principal.ID)
		if err != nil {
			return apperr.Internal("get tutor profile", err)
		}
		if profile == nil {
			return apperr.NotFound("tutor profile not found")
		}

		booked, err := tx.Slots().GetBookedByProfile(ctx, profile.ID)
		if err != nil {
			return apperr.Internal("get booked slots", err)
		}

		var survivors []*model.AvailabilitySlot
		for i, p := range valid {
			if overlapsBooked(p, booked) {
				rejected = append(rejected, model.RejectedSlot{
					Index:  validIdx[i],
					Slot:   p,
					Reason: "overlaps an existing booked slot",
				})
				continue
			}
			survivors = append(survivors, &model.AvailabilitySlot{
				ID:             uuid.New(),
				TutorProfileID: profile.ID,
				StartTime:      p.StartTime,
				EndTime:        p.EndTime,
			})
		}

		if _, err := tx.Slots().DeleteUnbookedByProfile(ctx, profile.ID); err != nil {
			return apperr.Internal("delete unbooked slots", err)
		}

		if len(survivors) > 0 {
			if err := tx.Slots().CreateBatch(ctx, survivors); err != nil {
				return apperr.Internal("create slots", err)
			}
		}

		created = survivors
		return nil
	})

	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Availability replaced",
		zap.String("tutor_id", principal.ID.String()),
		zap.Int("created", len(created)),
		zap.Int("rejected", len(rejected)),
	)

	return created, rejected, nil
}

func validateProposedSlot(p model.ProposedSlot, now time.Time) (string, bool) {
	if !p.StartTime.After(now) {
		return "start time must be in the future", false
	}
	if !p.StartTime.Before(p.EndTime) {
		return "start time must be before end time", false
	}
	return "", true
}

// overlapsBooked проверяет пересечение предложения с занятыми слотами
// по полуоткрытым интервалам [start, end)
func overlapsBooked(p model.ProposedSlot, booked []*model.AvailabilitySlot) bool {
	for _, slot := range booked {
		if p.Overlaps(slot) {
			return true
		}
	}
	return false
}
