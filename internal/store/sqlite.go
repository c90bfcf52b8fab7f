package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"churchdirectory/internal/model"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const (
	bucketMembers     = "members"
	bucketDepartments = "departments"
)

// SQLiteStore is the local persistent backend. It keeps the collections in
// memory and snapshots each one into a single-table SQLite file as a JSON
// array after every successful mutation, mirroring the two fixed keys of
// the browser-storage layout it replaces.
type SQLiteStore struct {
	mem *MemoryStore
	db  *sql.DB
	mu  sync.Mutex // serializes mutation + snapshot pairs
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		path = "directory.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}

	s := &SQLiteStore{mem: NewMemoryStore(), db: db}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan state: %w", err)
		}
		switch bucket {
		case bucketMembers:
			if err := json.Unmarshal(payload, &s.mem.members); err != nil {
				return fmt.Errorf("decode members: %w", err)
			}
		case bucketDepartments:
			if err := json.Unmarshal(payload, &s.mem.departments); err != nil {
				return fmt.Errorf("decode departments: %w", err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read state: %w", err)
	}

	// Older snapshots may predate optional fields.
	for i := range s.mem.members {
		s.mem.members[i].Normalize()
	}
	return nil
}

func (s *SQLiteStore) snapshot(ctx context.Context, bucket string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", bucket, err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO state (bucket, payload) VALUES (?, ?)
		 ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`,
		bucket, payload); err != nil {
		return fmt.Errorf("snapshot %s: %w", bucket, err)
	}
	return nil
}

func (s *SQLiteStore) ListMembers(ctx context.Context) ([]model.Member, error) {
	return s.mem.ListMembers(ctx)
}

func (s *SQLiteStore) GetMemberByID(ctx context.Context, id string) (model.Member, error) {
	return s.mem.GetMemberByID(ctx, id)
}

func (s *SQLiteStore) SaveMember(ctx context.Context, member model.Member) (model.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := cloneMembers(s.mem.members)
	saved, err := s.mem.SaveMember(ctx, member)
	if err != nil {
		return model.Member{}, err
	}
	if err := s.snapshot(ctx, bucketMembers, s.mem.members); err != nil {
		// The write never reached the file; drop it from memory too.
		s.restoreMembers(prior)
		return model.Member{}, err
	}
	return saved, nil
}

func (s *SQLiteStore) DeleteMember(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := cloneMembers(s.mem.members)
	if err := s.mem.DeleteMember(ctx, id); err != nil {
		return err
	}
	if err := s.snapshot(ctx, bucketMembers, s.mem.members); err != nil {
		s.restoreMembers(prior)
		return err
	}
	return nil
}

func (s *SQLiteStore) ListDepartments(ctx context.Context) ([]model.Department, error) {
	return s.mem.ListDepartments(ctx)
}

func (s *SQLiteStore) SaveDepartment(ctx context.Context, name string) (model.Department, DeptOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := cloneDepartments(s.mem.departments)
	dept, outcome, err := s.mem.SaveDepartment(ctx, name)
	if err != nil || outcome != DeptCreated {
		return dept, outcome, err
	}
	if err := s.snapshot(ctx, bucketDepartments, s.mem.departments); err != nil {
		s.restoreDepartments(prior)
		return model.Department{}, DeptUnknown, err
	}
	return dept, outcome, nil
}

func (s *SQLiteStore) UpdateDepartment(ctx context.Context, id, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := cloneDepartments(s.mem.departments)
	if err := s.mem.UpdateDepartment(ctx, id, newName); err != nil {
		return err
	}
	if err := s.snapshot(ctx, bucketDepartments, s.mem.departments); err != nil {
		s.restoreDepartments(prior)
		return err
	}
	return nil
}

func (s *SQLiteStore) DeleteDepartment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := cloneDepartments(s.mem.departments)
	if err := s.mem.DeleteDepartment(ctx, id); err != nil {
		return err
	}
	if err := s.snapshot(ctx, bucketDepartments, s.mem.departments); err != nil {
		s.restoreDepartments(prior)
		return err
	}
	return nil
}

// restoreMembers and restoreDepartments roll the in-memory collection back
// to its pre-mutation state after a failed snapshot, so memory never shows a
// write the file does not hold.
func (s *SQLiteStore) restoreMembers(members []model.Member) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	s.mem.members = members
}

func (s *SQLiteStore) restoreDepartments(departments []model.Department) {
	s.mem.mu.Lock()
	defer s.mem.mu.Unlock()
	s.mem.departments = departments
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
