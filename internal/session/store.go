// Package session holds the signed-in user and the operations that change it.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/shopapi"
	"github.com/angelmondragon/storefront/pkg/types"
	"github.com/angelmondragon/storefront/pkg/validation"
)

const checkFailedMessage = "Failed to check authentication status"

// API is the slice of the backend client the session needs.
type API interface {
	Me(ctx context.Context) (*shopapi.User, error)
	Login(ctx context.Context, req shopapi.LoginRequest) (*shopapi.User, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, req shopapi.RegisterRequest) (*shopapi.User, error)
	UpdateUser(ctx context.Context, id int, req shopapi.UpdateUserRequest) (*shopapi.User, error)
}

type Params struct {
	API    API
	Logger *logger.Logger
}

// Store owns the current user. Other stores read it through User and ShippingAddress.
type Store struct {
	mu       sync.Mutex
	user     *shopapi.User
	loading  bool
	checkErr string
	onLogout []func(context.Context)
	api      API
	logg     *logger.Logger
}

func NewStore(p Params) (*Store, error) {
	if p.API == nil {
		return nil, fmt.Errorf("session api required")
	}
	logg := p.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Store{api: p.API, logg: logg, loading: true}, nil
}

// Init checks the session cookie against the backend. An invalid session leaves the user unset;
// a transport failure is recorded in Error.
func (s *Store) Init(ctx context.Context) {
	user, err := s.api.Me(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.checkErr = ""
	switch {
	case err == nil:
		s.user = user
	case pkgerrors.IsCode(err, pkgerrors.CodeNetwork):
		s.user = nil
		s.checkErr = checkFailedMessage
		s.logg.Warn(s.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "session check failed")
	default:
		s.user = nil
		s.logg.Debug(ctx, "no active session")
	}
}

// Loading is true until Init has finished.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Error returns the last session check failure, or "".
func (s *Store) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkErr
}

// User returns a copy of the current user.
func (s *Store) User() (shopapi.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return shopapi.User{}, false
	}
	return *s.user, true
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.User()
	return ok
}

// ShippingAddress is the current user's address, or "" when signed out.
func (s *Store) ShippingAddress() string {
	user, ok := s.User()
	if !ok {
		return ""
	}
	return user.Address
}

// OnLogout registers fn to run after every logout, once the local user is cleared.
func (s *Store) OnLogout(fn func(context.Context)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

func (s *Store) Login(ctx context.Context, username, password string) types.Result[*shopapi.User] {
	req := shopapi.LoginRequest{Username: strings.TrimSpace(username), Password: password}
	if err := validation.Struct(req); err != nil {
		return types.Fail[*shopapi.User](err)
	}
	user, err := s.api.Login(ctx, req)
	if err != nil {
		return s.fail(ctx, "login failed", err)
	}
	s.setUser(user)
	s.logg.Info(s.logg.WithUserID(ctx, user.ID), "signed in")
	return types.OK(user)
}

// Register creates an account and signs it in.
func (s *Store) Register(ctx context.Context, req shopapi.RegisterRequest) types.Result[*shopapi.User] {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Address = strings.TrimSpace(req.Address)
	if err := validation.Struct(req); err != nil {
		return types.Fail[*shopapi.User](err)
	}
	user, err := s.api.Register(ctx, req)
	if err != nil {
		return s.fail(ctx, "registration failed", err)
	}
	s.setUser(user)
	s.logg.Info(s.logg.WithUserID(ctx, user.ID), "registered")
	return types.OK(user)
}

// UpdateProfile sends a partial update and replaces the local user with the server's copy.
func (s *Store) UpdateProfile(ctx context.Context, req shopapi.UpdateUserRequest) types.Result[*shopapi.User] {
	current, ok := s.User()
	if !ok {
		return types.Fail[*shopapi.User](pkgerrors.New(pkgerrors.CodeNotAuthenticated, "Not logged in"))
	}
	if err := validation.Struct(req); err != nil {
		return types.Fail[*shopapi.User](err)
	}
	user, err := s.api.UpdateUser(ctx, current.ID, req)
	if err != nil {
		return s.fail(ctx, "profile update failed", err)
	}
	s.setUser(user)
	return types.OK(user)
}

// Logout always signs out locally. A failed backend call is logged and does not fail the result.
func (s *Store) Logout(ctx context.Context) types.Result[types.Empty] {
	if err := s.api.Logout(ctx); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), "backend logout failed, signing out locally")
	}

	s.mu.Lock()
	s.user = nil
	hooks := append([]func(context.Context){}, s.onLogout...)
	s.mu.Unlock()

	for _, hook := range hooks {
		hook(ctx)
	}
	return types.OK(types.Empty{})
}

func (s *Store) setUser(user *shopapi.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *Store) fail(ctx context.Context, msg string, err error) types.Result[*shopapi.User] {
	s.logg.Debug(s.logg.WithFields(ctx, pkgerrors.Dump(err).Fields()), msg)
	return types.Fail[*shopapi.User](err)
}
