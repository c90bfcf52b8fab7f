// Package cache holds the session-local mirror of the directory store. User
// intents are applied to the mirror immediately and written to the store in
// the background; a failed write discards the guess and reloads both
// collections from the store wholesale.
package cache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"churchdirectory/internal/identifier"
	"churchdirectory/internal/metrics"
	"churchdirectory/internal/model"
	"churchdirectory/internal/store"
)

const writeTimeout = 10 * time.Second

// Directory is the optimistic view cache over a store.Store. It is exclusively
// owned by the local process and never persists anything itself; the store may
// replace its contents at any time via a resync.
type Directory struct {
	mu          sync.RWMutex
	store       store.Store
	members     []model.Member
	departments []model.Department

	writes chan writeJob
	wg     sync.WaitGroup

	// OnWriteFailure, when set, is invoked after a failed background write
	// has been reconciled. The UI layer uses it to surface a generic notice.
	OnWriteFailure func(op string, err error)
}

type writeJob struct {
	op    string
	write func(ctx context.Context) error
}

func New(s store.Store) *Directory {
	d := &Directory{
		store:  s,
		writes: make(chan writeJob, 256),
	}
	go d.writer()
	return d
}

// Load performs the blocking initial read of both collections. Rendering must
// be gated on it.
func (d *Directory) Load(ctx context.Context) error {
	members, err := d.store.ListMembers(ctx)
	if err != nil {
		return err
	}
	departments, err := d.store.ListDepartments(ctx)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.members = members
	d.departments = departments
	d.mu.Unlock()
	return nil
}

// Members returns a copy of the cached member collection.
func (d *Directory) Members() []model.Member {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.Member, len(d.members))
	copy(out, d.members)
	return out
}

// MemberByID looks a member up in the cache.
func (d *Directory) MemberByID(id string) (model.Member, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, m := range d.members {
		if m.ID == id {
			return m, true
		}
	}
	return model.Member{}, false
}

// Departments returns a copy of the cached department collection.
func (d *Directory) Departments() []model.Department {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]model.Department, len(d.departments))
	copy(out, d.departments)
	return out
}

// AddMember synthesizes a provisional record against the cached collection,
// applies it, and dispatches the durable insert. The provisional id can
// diverge from the id the store assigns if the store's view differed; the
// success path never reconciles the two.
func (d *Directory) AddMember(member model.Member) model.Member {
	now := time.Now().UTC()

	d.mu.Lock()
	member.ID = identifier.NextMemberID(d.members, member.ChurchDetails.MemberType)
	member.CreatedAt = now
	member.UpdatedAt = now
	member.Normalize()
	d.members = append(d.members, member)
	d.mu.Unlock()

	toSave := member
	toSave.ID = "" // the store assigns its own id from its own collection
	d.dispatch("add member", func(ctx context.Context) error {
		_, err := d.store.SaveMember(ctx, toSave)
		return err
	})
	return member
}

// UpdateMember splices the updated fields into the cached record, preserving
// the original CreatedAt, and dispatches the durable update.
func (d *Directory) UpdateMember(member model.Member) (model.Member, bool) {
	now := time.Now().UTC()

	d.mu.Lock()
	found := false
	for i, m := range d.members {
		if m.ID == member.ID {
			member.CreatedAt = m.CreatedAt
			member.UpdatedAt = now
			member.Normalize()
			d.members[i] = member
			found = true
			break
		}
	}
	d.mu.Unlock()

	if !found {
		return model.Member{}, false
	}
	d.dispatch("update member", func(ctx context.Context) error {
		_, err := d.store.SaveMember(ctx, member)
		return err
	})
	return member, true
}

// DeleteMember removes the record from the cache and dispatches the durable
// delete. Deleting an unknown id is not an error.
func (d *Directory) DeleteMember(id string) {
	d.mu.Lock()
	for i, m := range d.members {
		if m.ID == id {
			d.members = append(d.members[:i], d.members[i+1:]...)
			break
		}
	}
	d.mu.Unlock()

	d.dispatch("delete member", func(ctx context.Context) error {
		return d.store.DeleteMember(ctx, id)
	})
}

// AddDepartment applies the same trim/duplicate rules as the store against
// the cached collection and dispatches the durable insert when it creates.
func (d *Directory) AddDepartment(name string) (model.Department, store.DeptOutcome) {
	normalized := strings.TrimSpace(name)
	if normalized == "" {
		return model.Department{}, store.DeptEmptyName
	}

	d.mu.Lock()
	for _, dept := range d.departments {
		if strings.EqualFold(dept.Name, normalized) {
			d.mu.Unlock()
			return dept, store.DeptDuplicate
		}
	}
	dept := model.Department{
		ID:        identifier.NextDepartmentID(d.departments),
		Name:      normalized,
		CreatedAt: time.Now().UTC(),
	}
	d.departments = append(d.departments, dept)
	d.mu.Unlock()

	d.dispatch("add department", func(ctx context.Context) error {
		_, _, err := d.store.SaveDepartment(ctx, name)
		return err
	})
	return dept, store.DeptCreated
}

// UpdateDepartment renames the cached record if present and dispatches the
// durable update. Member references keep their denormalized old name.
func (d *Directory) UpdateDepartment(id, newName string) {
	d.mu.Lock()
	for i, dept := range d.departments {
		if dept.ID == id {
			d.departments[i].Name = strings.TrimSpace(newName)
			break
		}
	}
	d.mu.Unlock()

	d.dispatch("update department", func(ctx context.Context) error {
		return d.store.UpdateDepartment(ctx, id, newName)
	})
}

// DeleteDepartment removes the record from the cache and dispatches the
// durable delete.
func (d *Directory) DeleteDepartment(id string) {
	d.mu.Lock()
	for i, dept := range d.departments {
		if dept.ID == id {
			d.departments = append(d.departments[:i], d.departments[i+1:]...)
			break
		}
	}
	d.mu.Unlock()

	d.dispatch("delete department", func(ctx context.Context) error {
		return d.store.DeleteDepartment(ctx, id)
	})
}

// Flush waits for all in-flight background writes. Call on shutdown; tests
// use it to observe post-write state.
func (d *Directory) Flush() {
	d.wg.Wait()
}

// dispatch hands a durable write to the single background writer. Writes are
// applied in dispatch order; request contexts are not reused, since the write
// must outlive the handler that triggered it.
func (d *Directory) dispatch(op string, write func(ctx context.Context) error) {
	d.wg.Add(1)
	d.writes <- writeJob{op: op, write: write}
}

func (d *Directory) writer() {
	for job := range d.writes {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := job.write(ctx)
		metrics.ObserveStoreOp(job.op, err)
		if err != nil {
			slog.Error("background write failed, resyncing cache", "op", job.op, "error", err)
			d.resync(ctx)
			metrics.CacheResyncs.Inc()
			if d.OnWriteFailure != nil {
				d.OnWriteFailure(job.op, err)
			}
		}
		cancel()
		d.wg.Done()
	}
}

// resync discards the optimistic state and replaces the cache with the
// store's authoritative collections. No patching or merging.
func (d *Directory) resync(ctx context.Context) {
	members, err := d.store.ListMembers(ctx)
	if err != nil {
		slog.Error("cache resync failed reading members", "error", err)
		return
	}
	departments, err := d.store.ListDepartments(ctx)
	if err != nil {
		slog.Error("cache resync failed reading departments", "error", err)
		return
	}

	d.mu.Lock()
	d.members = members
	d.departments = departments
	d.mu.Unlock()
}
