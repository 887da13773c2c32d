package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/apperr"
	"github.com/Freeeeeet/tutor_market/internal/repository/base"
	"github.com/Freeeeeet/tutor_market/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// maxTxRetries сколько раз повторяем транзакцию при конфликте сериализации
const maxTxRetries = 3

// Store реализация storage.Store поверх PostgreSQL
type Store struct {
	pool *pgxpool.Pool
	repos
}

type repos struct {
	users    *UserRepository
	profiles *TutorProfileRepository
	slots    *SlotRepository
	bookings *BookingRepository
	reviews  *ReviewRepository
}

func newRepos(db base.DB) repos {
	return repos{
		users:    NewUserRepository(db),
		profiles: NewTutorProfileRepository(db),
		slots:    NewSlotRepository(db),
		bookings: NewBookingRepository(db),
		reviews:  NewReviewRepository(db),
	}
}

func (r repos) Users() storage.UserRepository                 { return r.users }
func (r repos) TutorProfiles() storage.TutorProfileRepository { return r.profiles }
func (r repos) Slots() storage.SlotRepository                 { return r.slots }
func (r repos) Bookings() storage.BookingRepository           { return r.bookings }
func (r repos) Reviews() storage.ReviewRepository             { return r.reviews }

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:  pool,
		repos: newRepos(pool),
	}
}

// InTx выполняет fn в одной транзакции: коммит целиком при успехе, полный
// откат при любой ошибке. Конфликты сериализации (40001/40P01) повторяются
// ограниченное число раз; бизнес-ошибки не повторяются никогда.
func (s *Store) InTx(ctx context.Context, fn func(tx storage.Repos) error) error {
	return withTxRetry(ctx, func(ctx context.Context) error {
		return s.runTx(ctx, fn)
	})
}

// withTxRetry запускает run с повторами при конфликте сериализации.
// Исчерпанные повторы и нарушения уникальности переводятся в Conflict,
// остальные ошибки возвращаются как есть без повторов.
func withTxRetry(ctx context.Context, run func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(maxTxRetries, retry.NewConstant(25*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := run(ctx)
		if base.IsSerializationFailure(err) {
			return retry.RetryableError(err)
		}
		return err
	})

	if err == nil {
		return nil
	}

	switch {
	case base.IsSerializationFailure(err):
		// Повторы исчерпаны
		return apperr.Conflict("operation conflicted with a concurrent request, please retry")
	case base.IsUniqueViolation(err):
		// Страховочный уникальный индекс сработал раньше условной записи
		return apperr.Conflict("conflicting record already exists")
	default:
		return err
	}
}

func (s *Store) runTx(ctx context.Context, fn func(tx storage.Repos) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(newRepos(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
