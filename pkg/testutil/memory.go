// Package testutil holds in-memory stand-ins for the GORM repositories.
package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	apperr "startup-directory/pkg/common/errors"
	startupmodel "startup-directory/pkg/core/startup/model"
	startupdao "startup-directory/pkg/core/startup/repository/dao"
	usermodel "startup-directory/pkg/core/user/model"
	userdao "startup-directory/pkg/core/user/repository/dao"
)

// UserStore implements userdao.UserRepository in memory.
type UserStore struct {
	mu    sync.Mutex
	users map[string]usermodel.User
	Err   error // returned by every call when set
}

var _ userdao.UserRepository = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]usermodel.User)}
}

func (s *UserStore) QueryByID(_ context.Context, id string) (usermodel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return usermodel.User{}, s.Err
	}
	user, ok := s.users[id]
	if !ok {
		return usermodel.User{}, apperr.NotFound("user not found")
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *UserStore) QueryByUsername(_ context.Context, username string) (usermodel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return usermodel.User{}, s.Err
	}
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return usermodel.User{}, apperr.NotFound("user not found")
}

func (s *UserStore) IsUsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := s.QueryByUsername(ctx, username)
	switch {
	case err == nil:
		return true, nil
	case apperr.KindOf(err) == apperr.KindNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (s *UserStore) CreateUser(_ context.Context, user *usermodel.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return apperr.Conflict("username")
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[user.ID] = *user
	return nil
}

// StartupStore implements startupdao.StartupRepository in memory.
type StartupStore struct {
	mu       sync.Mutex
	order    []string
	startups map[string]startupmodel.Startup
	Writes   int   // successful Create/Save/Delete calls
	Err      error // returned by every call when set
}

var _ startupdao.StartupRepository = (*StartupStore)(nil)

func NewStartupStore() *StartupStore {
	return &StartupStore{startups: make(map[string]startupmodel.Startup)}
}

func (s *StartupStore) nameTaken(name, exceptID string) bool {
	for id, existing := range s.startups {
		if id != exceptID && existing.Name == name {
			return true
		}
	}
	return false
}

func (s *StartupStore) Create(_ context.Context, startup *startupmodel.Startup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.nameTaken(startup.Name, "") {
		return apperr.Conflict("name")
	}
	if startup.ID == "" {
		startup.ID = uuid.NewString()
	}
	now := time.Now()
	startup.CreatedAt, startup.UpdatedAt = now, now
	s.startups[startup.ID] = clone(*startup)
	s.order = append(s.order, startup.ID)
	s.Writes++
	return nil
}

func (s *StartupStore) QueryByID(_ context.Context, id string) (startupmodel.Startup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return startupmodel.Startup{}, s.Err
	}
	startup, ok := s.startups[id]
	if !ok {
		return startupmodel.Startup{}, apperr.NotFound("no startup of this id")
	}
	return clone(startup), nil
}

func (s *StartupStore) Save(_ context.Context, startup *startupmodel.Startup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	prev, ok := s.startups[startup.ID]
	if !ok {
		return apperr.NotFound("no startup of this id")
	}
	if s.nameTaken(startup.Name, startup.ID) {
		return apperr.Conflict("name")
	}
	startup.CreatedAt = prev.CreatedAt
	startup.UpdatedAt = time.Now()
	s.startups[startup.ID] = clone(*startup)
	s.Writes++
	return nil
}

func (s *StartupStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.startups[id]; !ok {
		return apperr.NotFound("no startup of this id")
	}
	delete(s.startups, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	s.Writes++
	return nil
}

func (s *StartupStore) ListByOwner(_ context.Context, ownerID string) ([]startupmodel.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []startupmodel.Summary{}
	for _, id := range s.order {
		st := s.startups[id]
		if st.OwnerID != ownerID {
			continue
		}
		out = append(out, startupmodel.Summary{
			ID:            st.ID,
			Name:          st.Name,
			Industry:      st.Industry,
			Stage:         st.Stage,
			BusinessModel: st.BusinessModel,
			FoundedDate:   st.FoundedDate,
		})
	}
	return out, nil
}

func (s *StartupStore) ListDashboard(_ context.Context) ([]startupmodel.DashboardCard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []startupmodel.DashboardCard{}
	for _, id := range s.order {
		st := clone(s.startups[id])
		out = append(out, startupmodel.DashboardCard{
			ID:          st.ID,
			Name:        st.Name,
			FoundedDate: st.FoundedDate,
			CoverImage:  st.CoverImage,
		})
	}
	return out, nil
}

// Len reports how many startups are stored.
func (s *StartupStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.startups)
}

func clone(st startupmodel.Startup) startupmodel.Startup {
	st.CoverImage.Data = slices.Clone(st.CoverImage.Data)
	st.PitchDeck.Data = slices.Clone(st.PitchDeck.Data)
	st.PreferredContactMethod = slices.Clone(st.PreferredContactMethod)
	return st
}
