// Package store holds the authoritative member and department collections.
// Three backends implement the same contract: an in-memory store, a SQLite
// snapshot file and Postgres. Callers must not depend on which one is wired.
package store

import (
	"context"
	"errors"

	"churchdirectory/internal/model"
)

var (
	ErrMemberNotFound = errors.New("member not found")
)

// DeptOutcome reports what SaveDepartment actually did, so callers can tell
// "already existed" apart from a failure. DeptUnknown is the zero value and
// the only outcome returned alongside a non-nil error.
type DeptOutcome int

const (
	DeptUnknown DeptOutcome = iota
	DeptCreated
	DeptDuplicate
	DeptEmptyName
)

func (o DeptOutcome) String() string {
	switch o {
	case DeptCreated:
		return "created"
	case DeptDuplicate:
		return "duplicate"
	case DeptEmptyName:
		return "empty name"
	default:
		return "unknown"
	}
}

// Store is the directory's durable CRUD contract.
//
// ListMembers and ListDepartments return collections in insertion order on
// every backend. SaveMember inserts when the id is empty (assigning the id
// and stamping CreatedAt == UpdatedAt) and updates in place otherwise,
// failing with ErrMemberNotFound when no such record exists. Deletes are
// idempotent. SaveDepartment trims the name and is a reported no-op on a
// case-insensitive duplicate or an empty result.
type Store interface {
	ListMembers(ctx context.Context) ([]model.Member, error)
	GetMemberByID(ctx context.Context, id string) (model.Member, error)
	SaveMember(ctx context.Context, member model.Member) (model.Member, error)
	DeleteMember(ctx context.Context, id string) error

	ListDepartments(ctx context.Context) ([]model.Department, error)
	SaveDepartment(ctx context.Context, name string) (model.Department, DeptOutcome, error)
	UpdateDepartment(ctx context.Context, id, newName string) error
	DeleteDepartment(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close() error
}
