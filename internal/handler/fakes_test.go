package handler

// In-memory fakes for the storage interfaces. They implement the same
// {find, insert, update} capability set as the MySQL repositories,
// including the sentinel errors, so handler tests run without a database.

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/livescore-api-links/internal/model"
	"github.com/iliyamo/livescore-api-links/internal/repository"
	"github.com/iliyamo/livescore-api-links/internal/utils"
)

type fakeDirectory struct {
	links  map[string]model.Link // keyed by token
	nextID uint64

	alwaysCollide bool  // force every TokenExists check to report taken
	recordErr     error // injected RecordAccess failure
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{links: map[string]model.Link{}}
}

func (f *fakeDirectory) Create(_ context.Context, l *model.Link) error {
	if _, ok := f.links[l.Token]; ok {
		return repository.ErrTokenExists
	}
	f.nextID++
	l.ID = f.nextID
	l.MatchID = strings.TrimSpace(l.MatchID)
	l.CreatedAt = time.Now().UTC()
	l.UpdatedAt = l.CreatedAt
	f.links[l.Token] = *l
	return nil
}

func (f *fakeDirectory) TokenExists(_ context.Context, token string) (bool, error) {
	if f.alwaysCollide {
		return true, nil
	}
	_, ok := f.links[token]
	return ok, nil
}

func (f *fakeDirectory) ListByOwner(_ context.Context, ownerID uint64) ([]*model.Link, error) {
	out := []*model.Link{}
	for _, l := range f.links {
		if l.OwnerID == ownerID {
			cp := l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeDirectory) FindActiveByToken(_ context.Context, token string) (*model.Link, error) {
	l, ok := f.links[token]
	if !ok || !l.Enabled {
		return nil, repository.ErrLinkNotFound
	}
	cp := l
	return &cp, nil
}

// mutate applies fn to the caller's link like the MySQL repo's owner-scoped
// UPDATEs do: foreign and missing tokens fail identically.
func (f *fakeDirectory) mutate(token string, ownerID uint64, fn func(*model.Link)) (*model.Link, error) {
	l, ok := f.links[token]
	if !ok || l.OwnerID != ownerID {
		return nil, repository.ErrLinkNotFound
	}
	fn(&l)
	f.links[token] = l
	cp := l
	return &cp, nil
}

func (f *fakeDirectory) Update(_ context.Context, token string, ownerID uint64, matchID, viewType string) (*model.Link, error) {
	return f.mutate(token, ownerID, func(l *model.Link) {
		l.MatchID = strings.TrimSpace(matchID)
		l.ViewType = viewType
	})
}

func (f *fakeDirectory) Toggle(_ context.Context, token string, ownerID uint64) (*model.Link, error) {
	return f.mutate(token, ownerID, func(l *model.Link) { l.Enabled = !l.Enabled })
}

func (f *fakeDirectory) SetEnabled(_ context.Context, token string, ownerID uint64, enabled bool) (*model.Link, error) {
	return f.mutate(token, ownerID, func(l *model.Link) { l.Enabled = enabled })
}

func (f *fakeDirectory) Delete(_ context.Context, token string, ownerID uint64) error {
	l, ok := f.links[token]
	if !ok || l.OwnerID != ownerID {
		return repository.ErrLinkNotFound
	}
	delete(f.links, token)
	return nil
}

func (f *fakeDirectory) RecordAccess(_ context.Context, id uint64, at time.Time) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	for token, l := range f.links {
		if l.ID == id {
			l.AccessCount++
			t := at
			l.LastAccessedAt = &t
			f.links[token] = l
			break
		}
	}
	return nil
}

type fakeSnapshots struct {
	containers map[string]bool
	latest     map[string]*model.MatchSnapshot
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{containers: map[string]bool{}, latest: map[string]*model.MatchSnapshot{}}
}

// add registers a container for matchID and, when doc is non-nil, a
// newest snapshot in it.
func (f *fakeSnapshots) add(matchID string, doc map[string]interface{}, at time.Time) {
	container := repository.ContainerForMatch(matchID)
	f.containers[container] = true
	if doc != nil {
		f.latest[container] = &model.MatchSnapshot{
			Container:  container,
			MatchID:    strings.TrimSpace(matchID),
			Doc:        doc,
			RecordedAt: at,
		}
	}
}

func (f *fakeSnapshots) ContainerExists(_ context.Context, container string) (bool, error) {
	return f.containers[container], nil
}

func (f *fakeSnapshots) Latest(_ context.Context, container string) (*model.MatchSnapshot, error) {
	s, ok := f.latest[container]
	if !ok {
		return nil, repository.ErrNoSnapshot
	}
	return s, nil
}

type fakeUsers struct {
	users  map[uint64]model.User
	nextID uint64
}

func newFakeUsers() *fakeUsers { return &fakeUsers{users: map[uint64]model.User{}} }

func (f *fakeUsers) Create(_ context.Context, firstName, lastName, email, password string, cost int) (uint64, error) {
	for _, u := range f.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	f.nextID++
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	f.users[f.nextID] = model.User{
		ID: f.nextID, FirstName: firstName, LastName: lastName,
		Email: email, PasswordHash: hash, CreatedAt: time.Now().UTC(),
	}
	return f.nextID, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) Delete(_ context.Context, id uint64) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeTokens struct {
	stored  map[string]uint64 // hash -> user id
	revoked map[string]bool
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{stored: map[string]uint64{}, revoked: map[string]bool{}}
}

func (f *fakeTokens) StoreRefresh(_ context.Context, userID uint64, tokenHash string, _ time.Time) error {
	f.stored[tokenHash] = userID
	return nil
}

func (f *fakeTokens) ValidateRefresh(_ context.Context, tokenHash string) (uint64, error) {
	if f.revoked[tokenHash] {
		return 0, repository.ErrUserNotFound
	}
	id, ok := f.stored[tokenHash]
	if !ok {
		return 0, repository.ErrUserNotFound
	}
	return id, nil
}

func (f *fakeTokens) RevokeByHash(_ context.Context, tokenHash string) error {
	f.revoked[tokenHash] = true
	return nil
}
