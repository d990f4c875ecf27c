package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/sankofa/internal/models"
)

// NewMemoryStore returns a store backed by process memory. It mirrors the
// Postgres implementation's uniqueness and not-found semantics and is
// used by tests and local development.
func NewMemoryStore() *Store {
	return &Store{
		Users:     &memUserStore{users: map[uuid.UUID]models.User{}},
		Otps:      &memOtpStore{otps: map[uuid.UUID]models.Otp{}},
		Sessions:  &memSessionStore{sessions: map[uuid.UUID]models.RefreshSession{}},
		Employees: &memEmployeeStore{employees: map[uuid.UUID]models.Employee{}},
	}
}

func stamp(b *models.BaseModel) {
	if b.ID == uuid.Nil {
		b.ID = uuid.Must(uuid.NewV7())
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

type memUserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]models.User
}

func (s *memUserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if contactTaken(&existing, user) {
			return ErrDuplicate
		}
	}
	stamp(&user.BaseModel)
	s.users[user.ID] = *user
	return nil
}

func contactTaken(existing, candidate *models.User) bool {
	if existing.EmailAddress != nil && candidate.EmailAddress != nil &&
		*existing.EmailAddress == *candidate.EmailAddress {
		return true
	}
	if existing.PhoneNumber != nil && candidate.PhoneNumber != nil &&
		*existing.PhoneNumber == *candidate.PhoneNumber {
		return true
	}
	return false
}

func (s *memUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &user, nil
}

func (s *memUserStore) GetByContact(ctx context.Context, contact string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if (user.EmailAddress != nil && *user.EmailAddress == contact) ||
			(user.PhoneNumber != nil && *user.PhoneNumber == contact) {
			u := user
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memUserStore) List(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].ID.String() < users[j].ID.String()
	})
	return page(users, offset, limit), int64(len(s.users)), nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func (s *memUserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return ErrNotFound
	}
	user.UpdatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (s *memUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

type memOtpStore struct {
	mu   sync.RWMutex
	otps map[uuid.UUID]models.Otp // keyed by user id
}

func (s *memOtpStore) Upsert(ctx context.Context, otp *models.Otp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.otps[otp.UserID]; ok {
		otp.ID = existing.ID
		otp.CreatedAt = existing.CreatedAt
	}
	stamp(&otp.BaseModel)
	s.otps[otp.UserID] = *otp
	return nil
}

func (s *memOtpStore) GetByUser(ctx context.Context, userID uuid.UUID) (*models.Otp, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	otp, ok := s.otps[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &otp, nil
}

func (s *memOtpStore) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.otps, userID)
	return nil
}

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]models.RefreshSession
}

func (s *memSessionStore) Create(ctx context.Context, session *models.RefreshSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp(&session.BaseModel)
	s.sessions[session.ID] = *session
	return nil
}

func (s *memSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*models.RefreshSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &session, nil
}

func (s *memSessionStore) Replace(ctx context.Context, oldID uuid.UUID, next *models.RefreshSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[oldID]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, oldID)
	stamp(&next.BaseModel)
	s.sessions[next.ID] = *next
	return nil
}

func (s *memSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

type memEmployeeStore struct {
	mu        sync.RWMutex
	employees map[uuid.UUID]models.Employee
}

func (s *memEmployeeStore) Create(ctx context.Context, employee *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.employees {
		if existing.Email == employee.Email {
			return ErrDuplicate
		}
	}
	stamp(&employee.BaseModel)
	s.employees[employee.ID] = *employee
	return nil
}

func (s *memEmployeeStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employee, ok := s.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &employee, nil
}

func (s *memEmployeeStore) List(ctx context.Context, offset, limit int) ([]models.Employee, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	employees := make([]models.Employee, 0, len(s.employees))
	for _, employee := range s.employees {
		employees = append(employees, employee)
	}
	sort.Slice(employees, func(i, j int) bool {
		return employees[i].ID.String() < employees[j].ID.String()
	})
	return page(employees, offset, limit), int64(len(s.employees)), nil
}

func (s *memEmployeeStore) Update(ctx context.Context, employee *models.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[employee.ID]; !ok {
		return ErrNotFound
	}
	employee.UpdatedAt = time.Now()
	s.employees[employee.ID] = *employee
	return nil
}

func (s *memEmployeeStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.employees[id]; !ok {
		return ErrNotFound
	}
	delete(s.employees, id)
	return nil
}
