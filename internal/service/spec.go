package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/specforge/specforge/internal/metrics"
	"github.com/specforge/specforge/internal/model"
	"github.com/specforge/specforge/internal/prompt"
	"github.com/specforge/specforge/internal/provider"
	"github.com/specforge/specforge/internal/repository"
)

// SpecService orchestrates the generation and refinement pipeline:
// ownership guard, prompt construction, provider invocation,
// normalization, persistence.
//
// Provider and parse problems never fail a request. They degrade into
// stored, clearly-errored content so the caller always gets a reviewable
// artifact. Only structural problems (unknown project, unknown spec,
// missing member) surface as errors.
type SpecService struct {
	specs    SpecStore
	projects ProjectStore
	members  MemberStore
	ai       provider.Client
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewSpecService creates a new SpecService.
func NewSpecService(specs SpecStore, projects ProjectStore, members MemberStore, ai provider.Client, logger *slog.Logger, recorder metrics.Recorder) *SpecService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &SpecService{
		specs:    specs,
		projects: projects,
		members:  members,
		ai:       ai,
		logger:   logger,
		metrics:  recorder,
	}
}

// resolveMember maps the authenticated principal to its member record.
// A missing record is an authentication integrity fault: the token was
// valid but nothing backs it.
func (s *SpecService) resolveMember(ctx context.Context, memberID string) (*model.Member, error) {
	member, err := s.members.GetMemberByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("resolve member %s: %w", memberID, ErrMemberNotFound)
	}
	return member, nil
}

// loadOwnedProject fetches a project and asserts ownership. Foreign
// projects are reported as not-found, never as a distinguishable
// authorization failure.
func (s *SpecService) loadOwnedProject(ctx context.Context, projectID, memberID string) (*model.Project, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if !project.OwnedBy(memberID) {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// loadOwnedSpec fetches a generated spec and asserts ownership via its project.
func (s *SpecService) loadOwnedSpec(ctx context.Context, specID, memberID string) (*model.GeneratedSpec, error) {
	spec, err := s.specs.GetSpecByID(ctx, specID)
	if err != nil {
		return nil, ErrSpecNotFound
	}
	if _, err := s.loadOwnedProject(ctx, spec.ProjectID, memberID); err != nil {
		return nil, ErrSpecNotFound
	}
	return spec, nil
}

// GenerateSpecification generates and persists a new spec for a project
// from a free-text requirement. The acting member must own the project.
func (s *SpecService) GenerateSpecification(ctx context.Context, memberID, projectID, requirement string) (*model.GeneratedSpec, error) {
	if requirement == "" {
		return nil, ErrRequirementEmpty
	}

	member, err := s.resolveMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	project, err := s.loadOwnedProject(ctx, projectID, member.ID)
	if err != nil {
		return nil, err
	}

	raw := s.invoke(ctx, s.ai.Generate, prompt.Generation(requirement))

	result := Normalize(raw)
	if !result.Parsed {
		s.metrics.IncParseFallback()
		s.logger.WarnContext(ctx, "provider output not parseable, stored with fallbacks",
			slog.String("project_id", project.ID),
		)
	}

	spec := &model.GeneratedSpec{
		ID:                     newID(),
		ProjectID:              project.ID,
		RequirementDescription: requirement,
		APISpec:                result.Content.APISpec,
		DBSchema:               result.Content.DBSchema,
		SequenceDiagram:        result.Content.SequenceDiagram,
		MockData:               result.Content.MockData,
		CreatedAt:              time.Now().UTC(),
	}

	if err := s.specs.CreateSpec(ctx, spec); err != nil {
		return nil, fmt.Errorf("persist generated spec: %w", err)
	}

	s.metrics.IncSpecGenerated()

	return spec, nil
}

// RefineSection asks the provider to improve one piece of content given
// an instruction. The result is returned to the caller unmodified, with
// no parsing and no persistence: the caller reviews it and submits the
// accepted version via UpdateSpec.
func (s *SpecService) RefineSection(ctx context.Context, memberID, section, instruction, currentContent string) (string, error) {
	if _, err := s.resolveMember(ctx, memberID); err != nil {
		return "", err
	}

	refined := s.invoke(ctx, s.ai.Refine, prompt.Refinement(section, instruction, currentContent))

	s.metrics.IncSpecRefined()

	return refined, nil
}

// ListSpecsForProject returns all specs of a project the member owns,
// in creation order.
func (s *SpecService) ListSpecsForProject(ctx context.Context, memberID, projectID string) ([]*model.GeneratedSpec, error) {
	member, err := s.resolveMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if _, err := s.loadOwnedProject(ctx, projectID, member.ID); err != nil {
		return nil, err
	}

	specs, err := s.specs.ListSpecsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list specs: %w", err)
	}
	return specs, nil
}

// UpdateSpec overwrites the four content fields verbatim. The content was
// already reviewed and accepted by the caller, so no normalization applies.
func (s *SpecService) UpdateSpec(ctx context.Context, memberID, specID string, content model.SpecContent) (*model.GeneratedSpec, error) {
	member, err := s.resolveMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	spec, err := s.loadOwnedSpec(ctx, specID, member.ID)
	if err != nil {
		return nil, err
	}

	if err := s.specs.UpdateSpecContent(ctx, spec.ID, content); err != nil {
		if errors.Is(err, repository.ErrSpecNotFound) {
			return nil, ErrSpecNotFound
		}
		return nil, fmt.Errorf("update spec: %w", err)
	}

	s.metrics.IncSpecUpdated()

	spec.APISpec = content.APISpec
	spec.DBSchema = content.DBSchema
	spec.SequenceDiagram = content.SequenceDiagram
	spec.MockData = content.MockData
	return spec, nil
}

// DeleteSpec removes a generated spec the member owns.
func (s *SpecService) DeleteSpec(ctx context.Context, memberID, specID string) error {
	member, err := s.resolveMember(ctx, memberID)
	if err != nil {
		return err
	}

	spec, err := s.loadOwnedSpec(ctx, specID, member.ID)
	if err != nil {
		return err
	}

	if err := s.specs.DeleteSpec(ctx, spec.ID); err != nil {
		return fmt.Errorf("delete spec: %w", err)
	}

	s.metrics.IncSpecDeleted()

	return nil
}

// invoke performs one provider call and applies the degrade policy:
// any failure becomes a diagnostic text that flows through the rest of
// the pipeline like ordinary provider output.
func (s *SpecService) invoke(ctx context.Context, call func(context.Context, string) (string, error), promptText string) string {
	start := time.Now()
	raw, err := call(ctx, promptText)
	s.metrics.ObserveProviderDuration(time.Since(start))

	if err == nil {
		return raw
	}

	s.metrics.IncProviderFailure()

	var provErr *provider.Error
	switch {
	case errors.Is(err, provider.ErrNotConfigured):
		s.logger.WarnContext(ctx, "ai provider not configured")
		return "Error: AI provider API key not configured."
	case errors.As(err, &provErr):
		s.logger.ErrorContext(ctx, "ai provider call failed", slog.String("reason", provErr.Reason))
		return "Error calling AI provider: " + provErr.Reason
	default:
		s.logger.ErrorContext(ctx, "ai provider call failed", slog.String("error", err.Error()))
		return "Error calling AI provider: " + err.Error()
	}
}
