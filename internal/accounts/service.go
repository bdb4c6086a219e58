package accounts

import (
	"fmt"
	"os"
	"strings"

	"github.com/cleared-dev/tally/internal/model"
)

// Service provides in-memory lookup over the chart of accounts. Splits point at
// the *model.Account values it owns.
type Service struct {
	accounts []*model.Account
	byName   map[string]*model.Account
	byID     map[int]*model.Account
}

// NewService creates a Service from a slice of accounts. Names are matched
// case-insensitively; the first account with a given name wins.
func NewService(accounts []model.Account) *Service {
	s := &Service{
		byName: make(map[string]*model.Account, len(accounts)),
		byID:   make(map[int]*model.Account, len(accounts)),
	}
	for i := range accounts {
		a := &accounts[i]
		key := strings.ToLower(a.Name)
		if _, dup := s.byName[key]; dup {
			continue
		}
		s.accounts = append(s.accounts, a)
		s.byName[key] = a
		if a.ID != 0 {
			s.byID[a.ID] = a
		}
	}
	return s
}

// Load reads a chart-of-accounts CSV file and returns a Service.
func Load(path string) (*Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return NewService(accts), nil
}

// All returns all accounts.
func (s *Service) All() []*model.Account {
	return s.accounts
}

// Get returns an account by ID.
func (s *Service) Get(id int) (*model.Account, bool) {
	a, ok := s.byID[id]
	return a, ok
}

// ByName returns the account called name, ignoring case.
func (s *Service) ByName(name string) (*model.Account, bool) {
	a, ok := s.byName[strings.ToLower(name)]
	return a, ok
}

// Exists reports whether an account name exists.
func (s *Service) Exists(name string) bool {
	_, ok := s.ByName(name)
	return ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []*model.Account {
	var result []*model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the chart of accounts to a CSV file.
func (s *Service) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	accts := make([]model.Account, len(s.accounts))
	for i, a := range s.accounts {
		accts[i] = *a
	}
	if err := WriteAccounts(f, accts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}
