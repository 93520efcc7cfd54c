// Package dao provides data access objects for use in the combigram job
// server.
package dao

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dekarrin/combigram/ptree"
	"github.com/google/uuid"
)

var (
	ErrConstraintViolation = errors.New("a uniqueness constraint was violated")
	ErrNotFound            = errors.New("the requested resource was not found")
	ErrDecodingFailure     = errors.New("field could not be decoded from DB storage format to model format")
)

// Store holds all the repositories needed to run the job server.
type Store interface {
	Users() UserRepository
	Jobs() JobRepository
	Close() error
}

// UserRepository persists the accounts allowed to submit parse jobs.
type UserRepository interface {
	// Create creates a new User. All attributes except for auto-generated
	// fields are taken from the provided User.
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uuid.UUID, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (User, error)

	// Close closes the connection.
	Close() error
}

type Role int

const (
	Guest Role = iota
	Normal

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Guest:
		return "guest"
	case Normal:
		return "normal"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "guest":
		return Guest, nil
	case "normal":
		return Normal, nil
	case "admin":
		return Admin, nil
	default:
		return Guest, fmt.Errorf("must be one of 'guest', 'normal', or 'admin'")
	}
}

type User struct {
	ID             uuid.UUID     // PK, NOT NULL
	Username       string        // UNIQUE, NOT NULL
	Password       string        // NOT NULL
	Email          *mail.Address // NOT NULL
	Role           Role          // NOT NULL
	Created        time.Time     // NOT NULL
	Modified       time.Time
	LastLogoutTime time.Time // NOT NULL DEFAULT NOW()
	LastLoginTime  time.Time // NOT NULL
}

// JobRepository persists submitted parse jobs and their results.
type JobRepository interface {
	Create(ctx context.Context, job Job) (Job, error)
	GetByID(ctx context.Context, id uuid.UUID) (Job, error)
	GetAllByUser(ctx context.Context, userID uuid.UUID) ([]Job, error)
	GetAll(ctx context.Context) ([]Job, error)
	Delete(ctx context.Context, id uuid.UUID) (Job, error)
	Close() error
}

// Job is the result of running one submitted token stream against a
// registered grammar.
type Job struct {
	ID uuid.UUID
	// UserID is the submitter. The zero UUID means the job was submitted
	// without authentication.
	UserID uuid.UUID

	// GrammarName is the registered name of the grammar the input was run
	// against, e.g. "calculator" or "binary".
	GrammarName string

	// Input is the raw text that was tokenized and parsed.
	Input string

	Created time.Time

	// Accepted is whether the grammar accepted Input.
	Accepted bool

	// FinalCursor is the index into the token stream the engine stopped at.
	FinalCursor int

	// Result is the grammar's computed output attribute, formatted with
	// fmt.Sprint, or empty if parsing was rejected.
	Result string

	// Tree is the parse tree, or nil if a tree was not requested or parsing
	// was rejected.
	Tree *ptree.Tree
}
