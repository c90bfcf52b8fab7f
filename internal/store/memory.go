package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"churchdirectory/internal/identifier"
	"churchdirectory/internal/model"
)

// MemoryStore keeps both collections in process memory. It backs tests and
// development runs; nothing survives a restart.
type MemoryStore struct {
	mu          sync.RWMutex
	members     []model.Member
	departments []model.Department
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ListMembers(ctx context.Context) ([]model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMembers(s.members), nil
}

func (s *MemoryStore) GetMemberByID(ctx context.Context, id string) (model.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.ID == id {
			return cloneMember(m), nil
		}
	}
	return model.Member{}, ErrMemberNotFound
}

func (s *MemoryStore) SaveMember(ctx context.Context, member model.Member) (model.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	if member.ID != "" {
		for i, m := range s.members {
			if m.ID == member.ID {
				updated := cloneMember(member)
				updated.CreatedAt = m.CreatedAt
				updated.UpdatedAt = now
				updated.Normalize()
				s.members[i] = updated
				return cloneMember(updated), nil
			}
		}
		return model.Member{}, ErrMemberNotFound
	}

	created := cloneMember(member)
	created.ID = identifier.NextMemberID(s.members, member.ChurchDetails.MemberType)
	created.CreatedAt = now
	created.UpdatedAt = now
	created.Normalize()
	s.members = append(s.members, created)
	return cloneMember(created), nil
}

func (s *MemoryStore) DeleteMember(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.members {
		if m.ID == id {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) ListDepartments(ctx context.Context) ([]model.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDepartments(s.departments), nil
}

func (s *MemoryStore) SaveDepartment(ctx context.Context, name string) (model.Department, DeptOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := strings.TrimSpace(name)
	if normalized == "" {
		return model.Department{}, DeptEmptyName, nil
	}
	for _, d := range s.departments {
		if strings.EqualFold(d.Name, normalized) {
			return d, DeptDuplicate, nil
		}
	}

	dept := model.Department{
		ID:        identifier.NextDepartmentID(s.departments),
		Name:      normalized,
		CreatedAt: time.Now().UTC(),
	}
	s.departments = append(s.departments, dept)
	return dept, DeptCreated, nil
}

func (s *MemoryStore) UpdateDepartment(ctx context.Context, id, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.departments {
		if d.ID == id {
			s.departments[i].Name = strings.TrimSpace(newName)
			return nil
		}
	}
	// Unknown id is a silent no-op, matching member references that may
	// dangle after a department delete.
	return nil
}

func (s *MemoryStore) DeleteDepartment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.departments {
		if d.ID == id {
			s.departments = append(s.departments[:i], s.departments[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func cloneMember(m model.Member) model.Member {
	out := m
	if m.ChurchDetails.Departments != nil {
		out.ChurchDetails.Departments = make([]model.DepartmentRef, len(m.ChurchDetails.Departments))
		copy(out.ChurchDetails.Departments, m.ChurchDetails.Departments)
	}
	return out
}

func cloneMembers(members []model.Member) []model.Member {
	out := make([]model.Member, len(members))
	for i, m := range members {
		out[i] = cloneMember(m)
	}
	return out
}

func cloneDepartments(departments []model.Department) []model.Department {
	out := make([]model.Department, len(departments))
	copy(out, departments)
	return out
}
