package user

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/apperror"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/user/repo"
)

// Repository is the user store the service depends on. Lookups return
// userrepo.ErrNotFound for a missing user; Add and Update return
// userrepo.ErrDuplicateUsername when the username is taken.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	List(ctx context.Context) ([]entity.User, error)
	Add(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
	Remove(ctx context.Context, u *entity.User) error
}

const passwordTooLong = "password must be at most 72 bytes"

// TokenIssuer mints the bearer token returned by SignIn.
type TokenIssuer interface {
	Issue(u *entity.User) (string, error)
}

// UserService orchestrates sign-in, sign-up and user administration.
type UserService struct {
	repo   Repository
	tokens TokenIssuer
	hasher PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(r Repository, tokens TokenIssuer, hasher PasswordHasher) *UserService {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 12}
	}
	return &UserService{repo: r, tokens: tokens, hasher: hasher}
}

// SignInRequest login payload.
type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignUpRequest registration payload.
type SignUpRequest struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Username  string `json:"username" validate:"required,max=50"`
	Password  string `json:"password" validate:"required,maxbytes=72"`
}

// UpdateRequest carries the fields to change; empty fields keep their value.
type UpdateRequest struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Username  string `json:"username" validate:"max=50"`
	Password  string `json:"password" validate:"maxbytes=72"`
}

// SignIn verifies the credentials and returns a fresh token with the user's
// public fields. An unknown username and a wrong password fail identically.
func (s *UserService) SignIn(ctx context.Context, username, password string) (*entity.AuthenticateResponse, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			// same bcrypt cost as the wrong-password path
			s.hasher.Verify(s.dummy(), password)
			return nil, apperror.NewAuthenticationFailed()
		}
		return nil, apperror.NewInternal(err)
	}
	if !s.hasher.Verify(u.PasswordHash, password) {
		return nil, apperror.NewAuthenticationFailed()
	}
	token, err := s.tokens.Issue(u)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return &entity.AuthenticateResponse{PublicView: u.Public(), Token: token}, nil
}

// SignUp registers a new user. ExistsByUsername only rejects early; the
// store's unique constraint decides races between concurrent sign-ups.
func (s *UserService) SignUp(ctx context.Context, req SignUpRequest) error {
	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return apperror.NewOperationFailed("saving the user", err)
	}
	if exists {
		return usernameTaken(req.Username)
	}
	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return err
	}
	u := &entity.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := s.repo.Add(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrDuplicateUsername) {
			return usernameTaken(req.Username)
		}
		return apperror.NewOperationFailed("saving the user", err)
	}
	return nil
}

func (s *UserService) List(ctx context.Context) ([]entity.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return users, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, apperror.NewNotFound("User not found.")
		}
		return nil, apperror.NewInternal(err)
	}
	return u, nil
}

// Update applies req to the user. Changing the username to one held by
// another user is a conflict; keeping the current username is not.
func (s *UserService) Update(ctx context.Context, id int64, req UpdateRequest) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req.Username != "" && req.Username != u.Username {
		exists, err := s.repo.ExistsByUsername(ctx, req.Username)
		if err != nil {
			return apperror.NewOperationFailed("updating the user", err)
		}
		if exists {
			return usernameTaken(req.Username)
		}
		u.Username = req.Username
	}
	if req.Password != "" {
		hash, err := s.hashPassword(req.Password)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	}
	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if err := s.repo.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, userrepo.ErrDuplicateUsername):
			return usernameTaken(u.Username)
		case errors.Is(err, userrepo.ErrNotFound):
			return apperror.NewNotFound("User not found.")
		}
		return apperror.NewOperationFailed("updating the user", err)
	}
	return nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return apperror.NewNotFound("User not found.")
		}
		return apperror.NewOperationFailed("deleting the user", err)
	}
	return nil
}

func (s *UserService) hashPassword(pw string) (string, error) {
	hash, err := s.hasher.Hash(pw)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperror.NewBadRequest(passwordTooLong, err)
		}
		return "", apperror.NewInternal(fmt.Errorf("hash password: %w", err))
	}
	return hash, nil
}

func (s *UserService) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("not-a-real-password")
	})
	return s.dummyHash
}

func usernameTaken(username string) error {
	return apperror.NewConflict("Username " + username + " is already taken")
}
