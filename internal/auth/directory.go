package auth

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AlphaC137/sneakerverse-bazaar/internal/domain/user"
	"github.com/AlphaC137/sneakerverse-bazaar/internal/storage"
)

// DirectoryKey is the record holding every registered account.
const DirectoryKey = "sneakverse-users"

type DirectoryRepository = storage.Repository[map[string]user.Account]

func EmptyAccounts() map[string]user.Account { return map[string]user.Account{} }

// Directory is the emulated user database shared by all visitors. Every call
// reads the persisted record, so several processes over one shared kv store
// see each other's registrations.
type Directory struct {
	mu   sync.Mutex
	repo *DirectoryRepository
	now  func() time.Time
}

func NewDirectory(repo *DirectoryRepository) *Directory {
	return &Directory{repo: repo, now: time.Now}
}

// NewAccountID is time-ordered (UUIDv7), so ids sort by registration.
func NewAccountID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return "user_" + id.String(), nil
}

// Create assigns an id and creation time. Email uniqueness is checked
// case-insensitively, here and nowhere else.
func (d *Directory) Create(ctx context.Context, acc user.Account) (user.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	accounts, err := d.load(ctx)
	if err != nil {
		return user.Account{}, err
	}
	if _, ok := findByEmail(accounts, acc.Email); ok {
		return user.Account{}, ErrDuplicateAccount
	}

	acc.ID, err = NewAccountID()
	if err != nil {
		return user.Account{}, fmt.Errorf("generate account id: %w", err)
	}
	acc.CreatedAt = d.now().UTC()
	accounts[acc.ID] = acc

	if err := d.repo.Save(ctx, accounts); err != nil {
		return user.Account{}, err
	}
	return acc, nil
}

func (d *Directory) ByEmail(ctx context.Context, email string) (user.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	accounts, err := d.load(ctx)
	if err != nil {
		return user.Account{}, err
	}
	acc, ok := findByEmail(accounts, email)
	if !ok {
		return user.Account{}, ErrAccountNotFound
	}
	return acc, nil
}

func (d *Directory) ByID(ctx context.Context, id string) (user.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	accounts, err := d.load(ctx)
	if err != nil {
		return user.Account{}, err
	}
	acc, ok := accounts[id]
	if !ok {
		return user.Account{}, ErrAccountNotFound
	}
	return acc, nil
}

// Update replaces the account with fn's result. The id is kept whatever fn
// returns.
func (d *Directory) Update(ctx context.Context, id string, fn func(user.Account) user.Account) (user.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	accounts, err := d.load(ctx)
	if err != nil {
		return user.Account{}, err
	}
	acc, ok := accounts[id]
	if !ok {
		return user.Account{}, ErrAccountNotFound
	}

	updated := fn(acc)
	updated.ID = id
	accounts[id] = updated

	if err := d.repo.Save(ctx, accounts); err != nil {
		return user.Account{}, err
	}
	return updated, nil
}

// List returns accounts ordered by registration.
func (d *Directory) List(ctx context.Context) ([]user.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	accounts, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]user.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func findByEmail(accounts map[string]user.Account, email string) (user.Account, bool) {
	want := user.NormalizeEmail(email)
	for _, a := range accounts {
		if user.NormalizeEmail(a.Email) == want {
			return a, true
		}
	}
	return user.Account{}, false
}

func (d *Directory) load(ctx context.Context) (map[string]user.Account, error) {
	accounts, err := d.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = EmptyAccounts()
	}
	return accounts, nil
}
