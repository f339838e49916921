package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/repository"
	"alcyxob/workout-tracker/internal/session"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repositories. They follow the mongo implementations closely
// enough for service tests: ownership filters, sort orders and the session
// pre-persist hook.

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, level domain.Level, profile domain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.FitnessLevel = level
	u.Profile = profile
	return nil
}

func (r *memUserRepo) AddProgress(_ context.Context, id primitive.ObjectID, entry domain.ProgressEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ProgressHistory = append(append([]domain.ProgressEntry(nil), u.ProgressHistory...), entry)
	return nil
}

type memExerciseRepo struct {
	mu        sync.Mutex
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newMemExerciseRepo() *memExerciseRepo {
	return &memExerciseRepo{exercises: map[primitive.ObjectID]*domain.Exercise{}}
}

func (r *memExerciseRepo) nameTaken(name string, except primitive.ObjectID) bool {
	for id, ex := range r.exercises {
		if ex.Name == name && id != except {
			return true
		}
	}
	return false
}

func (r *memExerciseRepo) Create(_ context.Context, ex *domain.Exercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTaken(ex.Name, primitive.NilObjectID) {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	ex.ID = primitive.NewObjectID()
	cp := *ex
	r.exercises[ex.ID] = &cp
	return ex.ID, nil
}

func (r *memExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ex, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *ex
	return &cp, nil
}

func (r *memExerciseRepo) List(_ context.Context, f domain.ExerciseFilter) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Exercise{}
	for _, ex := range r.exercises {
		if f.Category != "" && ex.Category != f.Category {
			continue
		}
		if f.Difficulty != "" && ex.Difficulty != f.Difficulty {
			continue
		}
		if f.MuscleGroup != "" && !contains(ex.MuscleGroups, f.MuscleGroup) {
			continue
		}
		out = append(out, *ex)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memExerciseRepo) Update(_ context.Context, ex *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[ex.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.nameTaken(ex.Name, ex.ID) {
		return repository.ErrDuplicate
	}
	cp := *ex
	r.exercises[ex.ID] = &cp
	return nil
}

func (r *memExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type memRoutineRepo struct {
	mu       sync.Mutex
	routines map[primitive.ObjectID]*domain.RoutinePlan
	clock    time.Time
	updates  int
}

func newMemRoutineRepo() *memRoutineRepo {
	return &memRoutineRepo{
		routines: map[primitive.ObjectID]*domain.RoutinePlan{},
		clock:    time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick gives each write a distinct, increasing timestamp.
func (r *memRoutineRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Minute)
	return r.clock
}

func clonePlan(p *domain.RoutinePlan) *domain.RoutinePlan {
	cp := *p
	cp.Tags = append([]string(nil), p.Tags...)
	cp.Days = make([]domain.RoutineDay, len(p.Days))
	for i, d := range p.Days {
		cp.Days[i] = d.Clone()
	}
	return &cp
}

func (r *memRoutineRepo) Create(_ context.Context, plan *domain.RoutinePlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan.ID = primitive.NewObjectID()
	now := r.tick()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.ModifiedAt = now
	r.routines[plan.ID] = clonePlan(plan)
	return plan.ID, nil
}

func (r *memRoutineRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.RoutinePlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.routines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clonePlan(p), nil
}

func (r *memRoutineRepo) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]domain.RoutinePlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.RoutinePlan{}
	for _, p := range r.routines {
		if p.Owner == owner {
			out = append(out, *clonePlan(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModifiedAt.After(out[j].ModifiedAt) })
	return out, nil
}

func (r *memRoutineRepo) ListTemplates(_ context.Context, f repository.TemplateFilter, page repository.Page) ([]domain.RoutinePlan, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := []domain.RoutinePlan{}
	for _, p := range r.routines {
		if !p.IsTemplate || !p.IsPublic {
			continue
		}
		if f.Goal != "" && p.Goal != f.Goal {
			continue
		}
		if f.Level != "" && p.Level != f.Level {
			continue
		}
		all = append(all, *clonePlan(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := int(page.Skip())
	if start > len(all) {
		start = len(all)
	}
	end := len(all)
	if page.Limit > 0 && start+page.Limit < end {
		end = start + page.Limit
	}
	return all[start:end], total, nil
}

func (r *memRoutineRepo) Update(_ context.Context, plan *domain.RoutinePlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.routines[plan.ID]
	if !ok || existing.Owner != plan.Owner {
		return repository.ErrNotFound
	}
	plan.ModifiedAt = r.tick()
	r.routines[plan.ID] = clonePlan(plan)
	r.updates++
	return nil
}

func (r *memRoutineRepo) Delete(_ context.Context, id, owner primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.routines[id]
	if !ok || p.Owner != owner {
		return repository.ErrNotFound
	}
	delete(r.routines, id)
	return nil
}

type memSessionRepo struct {
	mu      sync.Mutex
	records map[primitive.ObjectID]*domain.SessionRecord
	failing error
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{records: map[primitive.ObjectID]*domain.SessionRecord{}}
}

func cloneRecord(r *domain.SessionRecord) *domain.SessionRecord {
	cp := *r
	cp.Exercises = domain.CloneExercises(r.Exercises)
	return &cp
}

func (r *memSessionRepo) Save(_ context.Context, rec *domain.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing != nil {
		return r.failing
	}

	var previous *domain.SessionRecord
	if !rec.IsDraft() {
		prev, ok := r.records[rec.ID]
		if !ok || prev.User != rec.User {
			return repository.ErrNotFound
		}
		previous = prev
	}
	if _, err := session.PrepareForSave(rec, previous); err != nil {
		return err
	}

	now := time.Now().UTC()
	if previous == nil {
		rec.ID = primitive.NewObjectID()
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	r.records[rec.ID] = cloneRecord(rec)
	return nil
}

func (r *memSessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneRecord(rec), nil
}

func (r *memSessionRepo) ListByUser(_ context.Context, user primitive.ObjectID, page repository.Page) ([]domain.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.SessionRecord{}
	for _, rec := range r.records {
		if rec.User == user {
			out = append(out, *cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	start := int(page.Skip())
	if start > len(out) {
		start = len(out)
	}
	end := len(out)
	if page.Limit > 0 && start+page.Limit < end {
		end = start + page.Limit
	}
	return out[start:end], nil
}

func (r *memSessionRepo) UpdateNotes(_ context.Context, id, user primitive.ObjectID, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.User != user {
		return repository.ErrNotFound
	}
	rec.Notes = notes
	rec.UpdatedAt = time.Now().UTC()
	return nil
}

type memStorage struct {
	fail error
}

func (m *memStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	if m.fail != nil {
		return "", m.fail
	}
	return "https://media.test/" + key + "?sig=x", nil
}
