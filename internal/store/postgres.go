package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"churchdirectory/internal/config"
	"churchdirectory/internal/identifier"
	"churchdirectory/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the hosted table-store backend. Rows carry the two detail
// objects as jsonb columns under snake_case names; a serial seq column keeps
// listing in insertion order, the ordering every backend agrees on.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) ListMembers(ctx context.Context) ([]model.Member, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, personal_details, church_details, created_at, updated_at
		 FROM members ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func (s *PostgresStore) GetMemberByID(ctx context.Context, id string) (model.Member, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, personal_details, church_details, created_at, updated_at
		 FROM members WHERE id = $1`, id)
	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Member{}, ErrMemberNotFound
		}
		return model.Member{}, err
	}
	return m, nil
}

func (s *PostgresStore) SaveMember(ctx context.Context, member model.Member) (model.Member, error) {
	now := time.Now().UTC()

	if member.ID != "" {
		personal, church, err := encodeDetails(member)
		if err != nil {
			return model.Member{}, err
		}
		row := s.pool.QueryRow(ctx,
			`UPDATE members
			 SET personal_details = $2, church_details = $3, updated_at = $4
			 WHERE id = $1
			 RETURNING id, personal_details, church_details, created_at, updated_at`,
			member.ID, personal, church, now)
		updated, err := scanMember(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return model.Member{}, ErrMemberNotFound
			}
			return model.Member{}, fmt.Errorf("update member: %w", err)
		}
		return updated, nil
	}

	existing, err := s.ListMembers(ctx)
	if err != nil {
		return model.Member{}, err
	}
	member.ID = identifier.NextMemberID(existing, member.ChurchDetails.MemberType)
	member.CreatedAt = now
	member.UpdatedAt = now
	member.Normalize()

	personal, church, err := encodeDetails(member)
	if err != nil {
		return model.Member{}, err
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO members (id, personal_details, church_details, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		member.ID, personal, church, member.CreatedAt, member.UpdatedAt); err != nil {
		return model.Member{}, fmt.Errorf("insert member: %w", err)
	}
	return member, nil
}

func (s *PostgresStore) DeleteMember(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListDepartments(ctx context.Context) ([]model.Department, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, created_at FROM departments ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var departments []model.Department
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}

func (s *PostgresStore) SaveDepartment(ctx context.Context, name string) (model.Department, DeptOutcome, error) {
	normalized := strings.TrimSpace(name)
	if normalized == "" {
		return model.Department{}, DeptEmptyName, nil
	}

	existing, err := s.ListDepartments(ctx)
	if err != nil {
		return model.Department{}, DeptUnknown, err
	}
	for _, d := range existing {
		if strings.EqualFold(d.Name, normalized) {
			return d, DeptDuplicate, nil
		}
	}

	dept := model.Department{
		ID:        identifier.NextDepartmentID(existing),
		Name:      normalized,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO departments (id, name, created_at) VALUES ($1, $2, $3)`,
		dept.ID, dept.Name, dept.CreatedAt); err != nil {
		return model.Department{}, DeptUnknown, fmt.Errorf("insert department: %w", err)
	}
	return dept, DeptCreated, nil
}

func (s *PostgresStore) UpdateDepartment(ctx context.Context, id, newName string) error {
	if _, err := s.pool.Exec(ctx,
		`UPDATE departments SET name = $2 WHERE id = $1`, id, strings.TrimSpace(newName)); err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteDepartment(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func encodeDetails(m model.Member) ([]byte, []byte, error) {
	personal, err := json.Marshal(m.PersonalDetails)
	if err != nil {
		return nil, nil, fmt.Errorf("encode personal details: %w", err)
	}
	church, err := json.Marshal(m.ChurchDetails)
	if err != nil {
		return nil, nil, fmt.Errorf("encode church details: %w", err)
	}
	return personal, church, nil
}

func scanMember(row pgx.Row) (model.Member, error) {
	var m model.Member
	var personal, church []byte
	if err := row.Scan(&m.ID, &personal, &church, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return model.Member{}, err
	}
	if err := json.Unmarshal(personal, &m.PersonalDetails); err != nil {
		return model.Member{}, fmt.Errorf("decode personal details: %w", err)
	}
	if err := json.Unmarshal(church, &m.ChurchDetails); err != nil {
		return model.Member{}, fmt.Errorf("decode church details: %w", err)
	}
	m.Normalize()
	return m, nil
}
