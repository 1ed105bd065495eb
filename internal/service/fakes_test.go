package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/specforge/specforge/internal/model"
)

// In-memory store fakes backing the service tests.

var errFakeNotFound = errors.New("not found")

type fakeMemberStore struct {
	mu         sync.Mutex
	members    map[string]*model.Member
	lastLogins map[string]int
	createErr  error
}

func newFakeMemberStore() *fakeMemberStore {
	return &fakeMemberStore{
		members:    make(map[string]*model.Member),
		lastLogins: make(map[string]int),
	}
}

func (f *fakeMemberStore) put(m *model.Member) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *m
	f.members[m.ID] = &cp
}

func (f *fakeMemberStore) CreateMember(_ context.Context, m *model.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.members {
		if existing.Email == m.Email {
			return errors.New("duplicate email")
		}
	}
	cp := *m
	f.members[m.ID] = &cp
	return nil
}

func (f *fakeMemberStore) GetMemberByID(_ context.Context, id string) (*model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return nil, errFakeNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeMemberStore) GetMemberByEmail(_ context.Context, email string) (*model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errFakeNotFound
}

func (f *fakeMemberStore) GetMemberByResetToken(_ context.Context, token string) (*model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.members {
		if m.ResetToken != "" && m.ResetToken == token {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errFakeNotFound
}

func (f *fakeMemberStore) UpdateMemberProfile(_ context.Context, m *model.Member) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.members[m.ID]
	if !ok {
		return errFakeNotFound
	}
	existing.Name = m.Name
	existing.Phone = m.Phone
	existing.Gender = m.Gender
	existing.Birthday = m.Birthday
	return nil
}

func (f *fakeMemberStore) UpdateMemberPassword(_ context.Context, id, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return errFakeNotFound
	}
	m.PasswordHash = passwordHash
	m.ResetToken = ""
	m.ResetTokenExpiresAt = nil
	return nil
}

func (f *fakeMemberStore) SetResetToken(_ context.Context, id, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return errFakeNotFound
	}
	m.ResetToken = token
	m.ResetTokenExpiresAt = &expiresAt
	return nil
}

func (f *fakeMemberStore) TouchLastLogin(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLogins[id]++
	return nil
}

type fakeProjectStore struct {
	mu       sync.Mutex
	projects map[string]*model.Project
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[string]*model.Project)}
}

func (f *fakeProjectStore) put(p *model.Project) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.projects[p.ID] = &cp
}

func (f *fakeProjectStore) CreateProject(_ context.Context, p *model.Project) error {
	f.put(p)
	return nil
}

func (f *fakeProjectStore) GetProjectByID(_ context.Context, id string) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, errFakeNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectStore) ListProjectsByMember(_ context.Context, memberID string) ([]*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Project
	for _, p := range f.projects {
		if p.MemberID == memberID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProjectStore) UpdateProject(_ context.Context, p *model.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[p.ID]; !ok {
		return errFakeNotFound
	}
	cp := *p
	f.projects[p.ID] = &cp
	return nil
}

func (f *fakeProjectStore) DeleteProject(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[id]; !ok {
		return errFakeNotFound
	}
	delete(f.projects, id)
	return nil
}

type fakeSpecStore struct {
	mu    sync.Mutex
	specs map[string]*model.GeneratedSpec
	order []string
}

func newFakeSpecStore() *fakeSpecStore {
	return &fakeSpecStore{specs: make(map[string]*model.GeneratedSpec)}
}

func (f *fakeSpecStore) CreateSpec(_ context.Context, s *model.GeneratedSpec) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.specs[s.ID] = &cp
	f.order = append(f.order, s.ID)
	return nil
}

func (f *fakeSpecStore) GetSpecByID(_ context.Context, id string) (*model.GeneratedSpec, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.specs[id]
	if !ok {
		return nil, errFakeNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSpecStore) ListSpecsByProject(_ context.Context, projectID string) ([]*model.GeneratedSpec, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.GeneratedSpec
	for _, id := range f.order {
		s := f.specs[id]
		if s != nil && s.ProjectID == projectID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSpecStore) UpdateSpecContent(_ context.Context, id string, content model.SpecContent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.specs[id]
	if !ok {
		return errFakeNotFound
	}
	s.APISpec = content.APISpec
	s.DBSchema = content.DBSchema
	s.SequenceDiagram = content.SequenceDiagram
	s.MockData = content.MockData
	return nil
}

func (f *fakeSpecStore) DeleteSpec(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.specs[id]; !ok {
		return errFakeNotFound
	}
	delete(f.specs, id)
	return nil
}

// fakeProvider returns canned output and records the prompts it was
// handed, one entry per call.
type fakeProvider struct {
	mu      sync.Mutex
	output  string
	err     error
	prompts []string
}

func (f *fakeProvider) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.output, f.err
}

func (f *fakeProvider) Refine(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.output, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
