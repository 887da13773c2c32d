package service

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/tutor_market/internal/model"
	"github.com/Freeeeeet/tutor_market/internal/storage"
	"github.com/google/uuid"
)

// memStore реализация storage.Store в памяти для тестов сервисов.
// Один мьютекс на всё хранилище: транзакции выполняются строго по очереди,
// то есть с сериализуемой изоляцией. При ошибке внутри InTx состояние
// восстанавливается из снимка, как при откате транзакции.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]model.User
	profiles map[uuid.UUID]model.TutorProfile
	slots    map[uuid.UUID]model.AvailabilitySlot
	bookings map[uuid.UUID]model.Booking
	reviews  map[uuid.UUID]model.Review
	clock    time.Time
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[uuid.UUID]model.User),
		profiles: make(map[uuid.UUID]model.TutorProfile),
		slots:    make(map[uuid.UUID]model.AvailabilitySlot),
		bookings: make(map[uuid.UUID]model.Booking),
		reviews:  make(map[uuid.UUID]model.Review),
		clock:    time.Now().UTC(),
	}
}

// tick выдаёт монотонно растущие метки created_at для детерминированной сортировки
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

type memSnapshot struct {
	users    map[uuid.UUID]model.User
	profiles map[uuid.UUID]model.TutorProfile
	slots    map[uuid.UUID]model.AvailabilitySlot
	bookings map[uuid.UUID]model.Booking
	reviews  map[uuid.UUID]model.Review
}

func copyMap[V any](src map[uuid.UUID]V) map[uuid.UUID]V {
	dst := make(map[uuid.UUID]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		users:    copyMap(s.users),
		profiles: copyMap(s.profiles),
		slots:    copyMap(s.slots),
		bookings: copyMap(s.bookings),
		reviews:  copyMap(s.reviews),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.users = snap.users
	s.profiles = snap.profiles
	s.slots = snap.slots
	s.bookings = snap.bookings
	s.reviews = snap.reviews
}

func (s *memStore) InTx(ctx context.Context, fn func(tx storage.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(rawRepos{s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// Доступы вне транзакции берут мьютекс на каждый вызов
func (s *memStore) Users() storage.UserRepository                 { return lockedUsers{s} }
func (s *memStore) TutorProfiles() storage.TutorProfileRepository { return lockedProfiles{s} }
func (s *memStore) Slots() storage.SlotRepository                 { return lockedSlots{s} }
func (s *memStore) Bookings() storage.BookingRepository           { return lockedBookings{s} }
func (s *memStore) Reviews() storage.ReviewRepository             { return lockedReviews{s} }

// rawRepos репозитории внутри открытой транзакции (мьютекс уже взят)
type rawRepos struct{ s *memStore }

func (r rawRepos) Users() storage.UserRepository                 { return memUsers{r.s} }
func (r rawRepos) TutorProfiles() storage.TutorProfileRepository { return memProfiles{r.s} }
func (r rawRepos) Slots() storage.SlotRepository                 { return memSlots{r.s} }
func (r rawRepos) Bookings() storage.BookingRepository           { return memBookings{r.s} }
func (r rawRepos) Reviews() storage.ReviewRepository             { return memReviews{r.s} }

type memUsers struct{ s *memStore }

func (m memUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := m.s.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

type memProfiles struct{ s *memStore }

func (m memProfiles) GetByUserID(_ context.Context, userID uuid.UUID) (*model.TutorProfile, error) {
	for _, p := range m.s.profiles {
		if p.UserID == userID {
			return &p, nil
		}
	}
	return nil, nil
}

func (m memProfiles) UpdateRating(_ context.Context, profileID uuid.UUID, avgRating float64, totalReviews int) error {
	p, ok := m.s.profiles[profileID]
	if !ok {
		return nil
	}
	p.AvgRating = avgRating
	p.TotalReviews = totalReviews
	m.s.profiles[profileID] = p
	return nil
}

type memSlots struct{ s *memStore }

func (m memSlots) GetByID(_ context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	if slot, ok := m.s.slots[id]; ok {
		return &slot, nil
	}
	return nil, nil
}

func (m memSlots) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	// Мьютекс хранилища уже сериализует транзакции
	return m.GetByID(ctx, id)
}

func (m memSlots) MarkBooked(_ context.Context, id uuid.UUID) (bool, error) {
	slot, ok := m.s.slots[id]
	if !ok || slot.IsBooked {
		return false, nil
	}
	slot.IsBooked = true
	m.s.slots[id] = slot
	return true, nil
}

func (m memSlots) MarkFree(_ context.Context, id uuid.UUID) error {
	slot, ok := m.s.slots[id]
	if !ok {
		return nil
	}
	slot.IsBooked = false
	m.s.slots[id] = slot
	return nil
}

func (m memSlots) GetBookedByProfile(_ context.Context, profileID uuid.UUID) ([]*model.AvailabilitySlot, error) {
	var out []*model.AvailabilitySlot
	for _, slot := range m.s.slots {
		if slot.TutorProfileID == profileID && slot.IsBooked {
			s := slot
			out = append(out, &s)
		}
	}
	return out, nil
}

func (m memSlots) DeleteUnbookedByProfile(_ context.Context, profileID uuid.UUID) (int64, error) {
	var deleted int64
	for id, slot := range m.s.slots {
		if slot.TutorProfileID == profileID && !slot.IsBooked {
			delete(m.s.slots, id)
			deleted++
		}
	}
	return deleted, nil
}

func (m memSlots) CreateBatch(_ context.Context, slots []*model.AvailabilitySlot) error {
	for _, slot := range slots {
		slot.CreatedAt = m.s.tick()
		m.s.slots[slot.ID] = *slot
	}
	return nil
}

type memBookings struct{ s *memStore }

func (m memBookings) Create(_ context.Context, booking *model.Booking) error {
	booking.CreatedAt = m.s.tick()
	stored := *booking
	stored.Slot = nil
	stored.Tutor = nil
	m.s.bookings[booking.ID] = stored
	return nil
}

func (m memBookings) GetByID(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	if b, ok := m.s.bookings[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (m memBookings) Complete(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	b, ok := m.s.bookings[id]
	if !ok || b.Status != model.BookingStatusConfirmed {
		return false, nil
	}
	b.Status = model.BookingStatusCompleted
	b.CompletedAt = &at
	m.s.bookings[id] = b
	return true, nil
}

func (m memBookings) Cancel(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	b, ok := m.s.bookings[id]
	if !ok || b.Status != model.BookingStatusConfirmed {
		return false, nil
	}
	b.Status = model.BookingStatusCancelled
	b.CancelledAt = &at
	m.s.bookings[id] = b
	return true, nil
}

func (m memBookings) GetByStudentID(_ context.Context, studentID uuid.UUID) ([]*model.Booking, error) {
	return m.list(func(b model.Booking) bool { return b.StudentID == studentID }), nil
}

func (m memBookings) GetByTutorID(_ context.Context, tutorID uuid.UUID) ([]*model.Booking, error) {
	return m.list(func(b model.Booking) bool { return b.TutorID == tutorID }), nil
}

func (m memBookings) GetAll(_ context.Context) ([]*model.Booking, error) {
	return m.list(func(model.Booking) bool { return true }), nil
}

// list отдаёт бронирования по убыванию created_at, как и SQL-реализация
func (m memBookings) list(match func(model.Booking) bool) []*model.Booking {
	var out []*model.Booking
	for _, b := range m.s.bookings {
		if match(b) {
			bc := b
			out = append(out, &bc)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].CreatedAt.After(out[j-1].CreatedAt); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

type memReviews struct{ s *memStore }

func (m memReviews) Create(_ context.Context, review *model.Review) error {
	review.CreatedAt = m.s.tick()
	m.s.reviews[review.ID] = *review
	return nil
}

func (m memReviews) ExistsForBooking(_ context.Context, bookingID uuid.UUID) (bool, error) {
	for _, r := range m.s.reviews {
		if r.BookingID == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (m memReviews) StatsByProfile(_ context.Context, profileID uuid.UUID) (model.RatingStats, error) {
	var stats model.RatingStats
	var sum int
	for _, r := range m.s.reviews {
		if r.TutorProfileID == profileID {
			sum += r.Rating
			stats.Count++
		}
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	return stats, nil
}

// Обёртки с мьютексом для вызовов вне транзакции

type lockedUsers struct{ s *memStore }

func (l lockedUsers) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memUsers{l.s}.GetByID(ctx, id)
}

type lockedProfiles struct{ s *memStore }

func (l lockedProfiles) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.TutorProfile, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memProfiles{l.s}.GetByUserID(ctx, userID)
}

func (l lockedProfiles) UpdateRating(ctx context.Context, profileID uuid.UUID, avgRating float64, totalReviews int) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memProfiles{l.s}.UpdateRating(ctx, profileID, avgRating, totalReviews)
}

type lockedSlots struct{ s *memStore }

func (l lockedSlots) GetByID(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memSlots{l.s}.GetByID(ctx, id)
}

func (l lockedSlots) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.AvailabilitySlot, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memSlots{l.s}.GetByIDForUpdate(ctx, id)
}

func (l lockedSlots) MarkBooked(ctx context.Context, id uuid.UUID) (bool, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memSlots{l.s}.MarkBooked(ctx, id)
}

func (l lockedSlots) MarkFree(ctx context.Context, id uuid.UUID) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memSlots{l.s}.MarkFree(ctx, id)
}

func (l lockedSlots) GetBookedByProfile(ctx context.Context, profileID uuid.UUID) ([]*model.AvailabilitySlot, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memSlots{l.s}.GetBookedByProfile(ctx, profileID)
}

func (l lockedSlots) DeleteUnbookedByProfile(ctx context.Context, profileID uuid.UUID) (int64, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memSlots{l.s}.DeleteUnbookedByProfile(ctx, profileID)
}

func (l lockedSlots) CreateBatch(ctx context.Context, slots []*model.AvailabilitySlot) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memSlots{l.s}.CreateBatch(ctx, slots)
}

type lockedBookings struct{ s *memStore }

func (l lockedBookings) Create(ctx context.Context, booking *model.Booking) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memBookings{l.s}.Create(ctx, booking)
}

func (l lockedBookings) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memBookings{l.s}.GetByID(ctx, id)
}

func (l lockedBookings) Complete(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memBookings{l.s}.Complete(ctx, id, at)
}

func (l lockedBookings) Cancel(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memBookings{l.s}.Cancel(ctx, id, at)
}

func (l lockedBookings) GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*model.Booking, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memBookings{l.s}.GetByStudentID(ctx, studentID)
}

func (l lockedBookings) GetByTutorID(ctx context.Context, tutorID uuid.UUID) ([]*model.Booking, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memBookings{l.s}.GetByTutorID(ctx, tutorID)
}

func (l lockedBookings) GetAll(ctx context.Context) ([]*model.Booking, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memBookings{l.s}.GetAll(ctx)
}

type lockedReviews struct{ s *memStore }

func (l lockedReviews) Create(ctx context.Context, review *model.Review) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memReviews{l.s}.Create(ctx, review)
}

func (l lockedReviews) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memReviews{l.s}.ExistsForBooking(ctx, bookingID)
}

func (l lockedReviews) StatsByProfile(ctx context.Context, profileID uuid.UUID) (model.RatingStats, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	return memReviews{l.s}.StatsByProfile(ctx, profileID)
}
