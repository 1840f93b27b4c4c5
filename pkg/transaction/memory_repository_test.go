package transaction

import (
	"SaveByte/domain"
	"SaveByte/entities"
	"context"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

// memoryStore is an in-memory TransactionRepository. RunInTx serialises
// callers and restores a snapshot when fn fails.
type memoryStore struct {
	mu           sync.Mutex
	foods        map[string]entities.Food
	donations    map[string]entities.Donation
	users        map[string]entities.User
	transactions map[string]entities.Transaction
	// locks records row locks in the order they were taken.
	locks []string
}

type memoryRepository struct {
	store *memoryStore
	inTx  bool
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{store: &memoryStore{
		foods:        map[string]entities.Food{},
		donations:    map[string]entities.Donation{},
		users:        map[string]entities.User{},
		transactions: map[string]entities.Transaction{},
	}}
}

func (r *memoryRepository) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (r *memoryRepository) RunInTx(ctx context.Context, fn func(repo TransactionRepository) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	foods := cloneMap(r.store.foods)
	donations := cloneMap(r.store.donations)
	transactions := cloneMap(r.store.transactions)

	if err := fn(&memoryRepository{store: r.store, inTx: true}); err != nil {
		r.store.foods = foods
		r.store.donations = donations
		r.store.transactions = transactions
		return err
	}
	return nil
}

func (r *memoryRepository) LockFood(ctx context.Context, foodID string) error {
	defer r.lock()()
	if _, ok := r.store.foods[foodID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.store.locks = append(r.store.locks, "food")
	return nil
}

func (r *memoryRepository) ClaimFood(ctx context.Context, foodID string) (bool, error) {
	defer r.lock()()
	f, ok := r.store.foods[foodID]
	if !ok || !f.Available {
		return false, nil
	}
	f.Available = false
	r.store.foods[foodID] = f
	return true, nil
}

func (r *memoryRepository) ReleaseFood(ctx context.Context, foodID string) error {
	defer r.lock()()
	f := r.store.foods[foodID]
	f.Available = true
	r.store.foods[foodID] = f
	return nil
}

func (r *memoryRepository) GetFoodByID(ctx context.Context, foodID string) (*entities.Food, error) {
	defer r.lock()()
	f, ok := r.store.foods[foodID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &f, nil
}

func (r *memoryRepository) GetDonationByFood(ctx context.Context, foodID string) (*entities.Donation, error) {
	defer r.lock()()
	d, ok := r.store.donations[foodID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &d, nil
}

func (r *memoryRepository) GetUserByID(ctx context.Context, userID string) (*entities.User, error) {
	defer r.lock()()
	u, ok := r.store.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *memoryRepository) CreateTransaction(ctx context.Context, t *entities.Transaction) error {
	defer r.lock()()
	r.store.transactions[t.ID.String()] = *t
	return nil
}

func (r *memoryRepository) GetActiveByFoodForUpdate(ctx context.Context, foodID string) (*entities.Transaction, error) {
	defer r.lock()()
	r.store.locks = append(r.store.locks, "transaction")
	for _, t := range r.store.transactions {
		if t.FoodID.String() == foodID && t.Status == domain.TransactionStarted {
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memoryRepository) GetByIDForUpdate(ctx context.Context, id string) (*entities.Transaction, error) {
	defer r.lock()()
	t, ok := r.store.transactions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (r *memoryRepository) FailTransaction(ctx context.Context, id string, at time.Time) error {
	defer r.lock()()
	t := r.store.transactions[id]
	t.Status = domain.TransactionFailed
	t.OTP = nil
	t.OTPExpiresAt = nil
	t.FailedDateTime = &at
	r.store.transactions[id] = t
	return nil
}

func (r *memoryRepository) CompleteTransaction(ctx context.Context, id string, at time.Time) error {
	defer r.lock()()
	t := r.store.transactions[id]
	t.Status = domain.TransactionCompleted
	t.OTP = nil
	t.OTPExpiresAt = nil
	t.CompletedDateTime = &at
	r.store.transactions[id] = t
	return nil
}

func (r *memoryRepository) IncrementOTPAttempts(ctx context.Context, id string) error {
	defer r.lock()()
	t := r.store.transactions[id]
	t.OTPAttempts++
	r.store.transactions[id] = t
	return nil
}

func (r *memoryRepository) hydrate(t entities.Transaction) *entities.Transaction {
	if u, ok := r.store.users[t.DonorID.String()]; ok {
		t.Donor = &u
	}
	if u, ok := r.store.users[t.ReceiverID.String()]; ok {
		t.Receiver = &u
	}
	if f, ok := r.store.foods[t.FoodID.String()]; ok {
		t.Food = &f
	}
	return &t
}

func (r *memoryRepository) GetTransactionByID(ctx context.Context, id string) (*entities.Transaction, error) {
	defer r.lock()()
	t, ok := r.store.transactions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.hydrate(t), nil
}

func (r *memoryRepository) list(match func(entities.Transaction) bool) []*entities.Transaction {
	var out []*entities.Transaction
	for _, t := range r.store.transactions {
		if match(t) {
			out = append(out, r.hydrate(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDateTime.After(out[j].StartDateTime) })
	return out
}

func (r *memoryRepository) GetTransactionsByDonor(ctx context.Context, donorID string) ([]*entities.Transaction, error) {
	defer r.lock()()
	return r.list(func(t entities.Transaction) bool { return t.DonorID.String() == donorID }), nil
}

func (r *memoryRepository) GetTransactionsByReceiver(ctx context.Context, receiverID string) ([]*entities.Transaction, error) {
	defer r.lock()()
	return r.list(func(t entities.Transaction) bool { return t.ReceiverID.String() == receiverID }), nil
}

// helpers for tests

func (r *memoryRepository) addUser(u entities.User) {
	r.store.users[u.ID.String()] = u
}

func (r *memoryRepository) addListing(f entities.Food, hostel entities.User) {
	r.store.foods[f.ID.String()] = f
	r.store.donations[f.ID.String()] = entities.Donation{HostelID: hostel.ID, FoodID: f.ID}
}

func (r *memoryRepository) food(id string) entities.Food {
	return r.store.foods[id]
}

func (r *memoryRepository) transaction(id string) entities.Transaction {
	return r.store.transactions[id]
}

func (r *memoryRepository) transactionsForFood(foodID string) []entities.Transaction {
	var out []entities.Transaction
	for _, t := range r.store.transactions {
		if t.FoodID.String() == foodID {
			out = append(out, t)
		}
	}
	return out
}
