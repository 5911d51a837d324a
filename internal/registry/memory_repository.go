package registry

import (
	"context"
	"sync"
)

type memoryRepository struct {
	mu    sync.RWMutex
	order []string
	users map[string]User
}

// NewMemoryRepository builds an in-memory user store. Primary backend in
// development mode and for tests; state resets on restart.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: make(map[string]User)}
}

func (r *memoryRepository) Create(_ context.Context, user User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[user.ID]; exists {
		return ErrDuplicateIdentifier
	}
	user.Email = NormalizeEmail(user.Email)
	user.PhonePrimary = NormalizePhone(user.PhonePrimary)
	r.users[user.ID] = user
	r.order = append(r.order, user.ID)
	return nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	email = NormalizeEmail(email)
	return r.findFirst(func(u User) bool { return u.Email == email })
}

func (r *memoryRepository) FindByPhone(_ context.Context, phone string) (User, error) {
	phone = NormalizePhone(phone)
	return r.findFirst(func(u User) bool { return u.PhonePrimary == phone })
}

// findFirst prefers a PENDING/APPROVED match over a REJECTED one, since
// rejected identifiers may be re-registered by a fresh user.
func (r *memoryRepository) findFirst(match func(User) bool) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var rejected *User
	for _, id := range r.order {
		user := r.users[id]
		if !match(user) {
			continue
		}
		if user.RegistrationStatus != StatusRejected {
			return user, nil
		}
		if rejected == nil {
			u := user
			rejected = &u
		}
	}
	if rejected != nil {
		return *rejected, nil
	}
	return User{}, ErrNotFound
}

func (r *memoryRepository) List(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.users[id])
	}
	return users, nil
}

func (r *memoryRepository) UpdateStatus(_ context.Context, id string, status RegistrationStatus) error {
	return r.mutate(id, func(u *User) {
		u.RegistrationStatus = status
	})
}

func (r *memoryRepository) UpdateStats(_ context.Context, id string, totalBottles int, totalXRP float64) error {
	return r.mutate(id, func(u *User) {
		u.TotalBottles = totalBottles
		u.TotalXRP = totalXRP
	})
}

func (r *memoryRepository) ApplyCollection(_ context.Context, id string, rec CollectionRecord) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	records := make([]CollectionRecord, 0, len(user.Records)+1)
	records = append(records, rec)
	records = append(records, user.Records...)
	user.Records = records
	user.TotalBottles += rec.Amount
	user.BottlesThisMonth += rec.Amount
	r.users[id] = user
	return user, nil
}

func (r *memoryRepository) UpdateTokenVersion(_ context.Context, id string, version int) error {
	return r.mutate(id, func(u *User) {
		u.TokenVersion = version
	})
}

func (r *memoryRepository) ResetMonth(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := 0
	for _, id := range r.order {
		user := r.users[id]
		if user.Role != RoleParticipant {
			continue
		}
		if user.BottlesThisMonth != 0 {
			changed++
		}
		user.BottlesThisMonth = 0
		r.users[id] = user
	}
	return changed, nil
}

func (r *memoryRepository) mutate(id string, fn func(*User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	fn(&user)
	r.users[id] = user
	return nil
}
