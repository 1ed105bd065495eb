package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/specforge/specforge/internal/auth"
	"github.com/specforge/specforge/internal/mailer"
	"github.com/specforge/specforge/internal/metrics"
	"github.com/specforge/specforge/internal/middleware"
	"github.com/specforge/specforge/internal/model"
	"github.com/specforge/specforge/internal/service"
)

const testJWTSecret = "handler-test-secret-0123456789ab"

var errStoreNotFound = errors.New("not found")

// memStore is a single in-memory backing store implementing the
// service store interfaces, enough for exercising handlers end to end
// without Postgres.
type memStore struct {
	members   map[string]*model.Member
	projects  map[string]*model.Project
	specs     map[string]*model.GeneratedSpec
	specOrder []string
}

func newMemStore() *memStore {
	return &memStore{
		members:  make(map[string]*model.Member),
		projects: make(map[string]*model.Project),
		specs:    make(map[string]*model.GeneratedSpec),
	}
}

func (s *memStore) CreateMember(_ context.Context, m *model.Member) error {
	for _, existing := range s.members {
		if existing.Email == m.Email {
			return errors.New("duplicate email")
		}
	}
	cp := *m
	s.members[m.ID] = &cp
	return nil
}

func (s *memStore) GetMemberByID(_ context.Context, id string) (*model.Member, error) {
	m, ok := s.members[id]
	if !ok {
		return nil, errStoreNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *memStore) GetMemberByEmail(_ context.Context, email string) (*model.Member, error) {
	for _, m := range s.members {
		if m.Email == email {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errStoreNotFound
}

func (s *memStore) GetMemberByResetToken(_ context.Context, token string) (*model.Member, error) {
	for _, m := range s.members {
		if m.ResetToken != "" && m.ResetToken == token {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errStoreNotFound
}

func (s *memStore) UpdateMemberProfile(_ context.Context, m *model.Member) error {
	existing, ok := s.members[m.ID]
	if !ok {
		return errStoreNotFound
	}
	existing.Name = m.Name
	existing.Phone = m.Phone
	existing.Gender = m.Gender
	existing.Birthday = m.Birthday
	return nil
}

func (s *memStore) UpdateMemberPassword(_ context.Context, id, passwordHash string) error {
	m, ok := s.members[id]
	if !ok {
		return errStoreNotFound
	}
	m.PasswordHash = passwordHash
	m.ResetToken = ""
	m.ResetTokenExpiresAt = nil
	return nil
}

func (s *memStore) SetResetToken(_ context.Context, id, token string, expiresAt time.Time) error {
	m, ok := s.members[id]
	if !ok {
		return errStoreNotFound
	}
	m.ResetToken = token
	m.ResetTokenExpiresAt = &expiresAt
	return nil
}

func (s *memStore) TouchLastLogin(_ context.Context, id string) error {
	m, ok := s.members[id]
	if !ok {
		return errStoreNotFound
	}
	now := time.Now().UTC()
	m.LastLoginAt = &now
	return nil
}

func (s *memStore) CreateProject(_ context.Context, p *model.Project) error {
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

func (s *memStore) GetProjectByID(_ context.Context, id string) (*model.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, errStoreNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *memStore) ListProjectsByMember(_ context.Context, memberID string) ([]*model.Project, error) {
	var out []*model.Project
	for _, p := range s.projects {
		if p.MemberID == memberID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) UpdateProject(_ context.Context, p *model.Project) error {
	if _, ok := s.projects[p.ID]; !ok {
		return errStoreNotFound
	}
	cp := *p
	s.projects[p.ID] = &cp
	return nil
}

func (s *memStore) DeleteProject(_ context.Context, id string) error {
	if _, ok := s.projects[id]; !ok {
		return errStoreNotFound
	}
	delete(s.projects, id)
	return nil
}

func (s *memStore) CreateSpec(_ context.Context, spec *model.GeneratedSpec) error {
	cp := *spec
	s.specs[spec.ID] = &cp
	s.specOrder = append(s.specOrder, spec.ID)
	return nil
}

func (s *memStore) GetSpecByID(_ context.Context, id string) (*model.GeneratedSpec, error) {
	spec, ok := s.specs[id]
	if !ok {
		return nil, errStoreNotFound
	}
	cp := *spec
	return &cp, nil
}

func (s *memStore) ListSpecsByProject(_ context.Context, projectID string) ([]*model.GeneratedSpec, error) {
	var out []*model.GeneratedSpec
	for _, id := range s.specOrder {
		spec := s.specs[id]
		if spec != nil && spec.ProjectID == projectID {
			cp := *spec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *memStore) UpdateSpecContent(_ context.Context, id string, content model.SpecContent) error {
	spec, ok := s.specs[id]
	if !ok {
		return errStoreNotFound
	}
	spec.APISpec = content.APISpec
	spec.DBSchema = content.DBSchema
	spec.SequenceDiagram = content.SequenceDiagram
	spec.MockData = content.MockData
	return nil
}

func (s *memStore) DeleteSpec(_ context.Context, id string) error {
	if _, ok := s.specs[id]; !ok {
		return errStoreNotFound
	}
	delete(s.specs, id)
	return nil
}

// stubProvider returns fixed output or an error.
type stubProvider struct {
	output string
	err    error
}

func (p *stubProvider) Generate(context.Context, string) (string, error) { return p.output, p.err }
func (p *stubProvider) Refine(context.Context, string) (string, error)  { return p.output, p.err }
func (p *stubProvider) Name() string                                    { return "stub" }

// testEnv wires the full handler stack over in-memory stores.
type testEnv struct {
	router *chi.Mux
	store  *memStore
}

func newTestEnv(t *testing.T, ai *stubProvider) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := newMemStore()

	authSvc := service.NewAuthService(store, mailer.NewLogMailer(logger), logger, testJWTSecret, time.Hour)
	memberSvc := service.NewMemberService(store, logger)
	projectSvc := service.NewProjectService(store, store)
	specSvc := service.NewSpecService(store, store, store, ai, logger, metrics.NewNoop())

	h := New()
	authHandler := NewAuthHandler(authSvc, logger)
	memberHandler := NewMemberHandler(memberSvc, logger)
	projectHandler := NewProjectHandler(projectSvc, logger)
	specHandler := NewSpecHandler(specSvc, logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/signin", authHandler.Signin)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(middleware.AuthConfig{Logger: logger, JWTSecret: testJWTSecret}))

			r.Route("/members/me", func(r chi.Router) {
				r.Get("/", memberHandler.Me)
				r.Put("/", memberHandler.UpdateMe)
				r.Put("/password", memberHandler.ChangePassword)
			})

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", projectHandler.Create)
				r.Get("/", projectHandler.List)
				r.Get("/{projectID}", projectHandler.Get)
				r.Put("/{projectID}", projectHandler.Update)
				r.Delete("/{projectID}", projectHandler.Delete)

				r.Post("/{projectID}/specs", specHandler.Generate)
				r.Get("/{projectID}/specs", specHandler.List)
			})

			r.Route("/specs", func(r chi.Router) {
				r.Post("/refine", specHandler.Refine)
				r.Put("/{specID}", specHandler.Update)
				r.Delete("/{specID}", specHandler.Delete)
			})
		})
	})
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return &testEnv{router: r, store: store}
}

// seedMember inserts a member directly and returns its ID and a valid token.
func (e *testEnv) seedMember(t *testing.T, email string) (string, string) {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatal(err)
	}
	id := "member-" + email
	e.store.members[id] = &model.Member{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Name:         "Test Member",
		Status:       model.MemberStatusActive,
		CreatedAt:    time.Now().UTC(),
	}
	token, err := auth.GenerateToken(id, email, testJWTSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return id, token
}

// seedProject inserts a project directly and returns its ID.
func (e *testEnv) seedProject(t *testing.T, memberID, name string) string {
	t.Helper()
	id := "project-" + name
	e.store.projects[id] = &model.Project{
		ID:        id,
		MemberID:  memberID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	return id
}

// do performs a request against the test router.
func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
