package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/specforge/specforge/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// applyMigration reads and executes one migration file.
func applyMigration(ctx context.Context, pool *pgxpool.Pool, filename string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	sql, err := os.ReadFile(filepath.Join(root, "migrations", filename))
	if err != nil {
		return fmt.Errorf("read migration %s: %w", filename, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", filename, err)
	}
	return nil
}

// resetSchema applies the down then up migration with the given prefix.
func resetSchema(ctx context.Context, pool *pgxpool.Pool, name string) error {
	if err := applyMigration(ctx, pool, name+".down.sql"); err != nil {
		return err
	}
	return applyMigration(ctx, pool, name+".up.sql")
}

// ResetAllSchemas drops and recreates the full schema.
// generated_specs references projects, which references members, so the
// down migrations run in reverse order.
func ResetAllSchemas(ctx context.Context, pool *pgxpool.Pool) error {
	for _, name := range []string{"000003_generated_specs", "000002_projects", "000001_members"} {
		if err := applyMigration(ctx, pool, name+".down.sql"); err != nil {
			return err
		}
	}
	for _, name := range []string{"000001_members", "000002_projects", "000003_generated_specs"} {
		if err := applyMigration(ctx, pool, name+".up.sql"); err != nil {
			return err
		}
	}
	return nil
}

// ResetMembersSchema drops and recreates the members schema for tests.
func ResetMembersSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000001_members")
}

// ResetProjectsSchema drops and recreates the projects schema for tests.
func ResetProjectsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000002_projects")
}

// ResetSpecsSchema drops and recreates the generated_specs schema for tests.
func ResetSpecsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	return resetSchema(ctx, pool, "000003_generated_specs")
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestMember creates a test member with sensible defaults.
func NewTestMember(t testing.TB, email string) *model.Member {
	t.Helper()
	now := time.Now().UTC()
	return &model.Member{
		ID:           fmt.Sprintf("member-%d", now.UnixNano()),
		MemberCode:   fmt.Sprintf("code%d", now.UnixNano()),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdHNhbHQ$aGFzaGhhc2g",
		Name:         "Test Member",
		Status:       model.MemberStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestProject creates a test project owned by the given member.
func NewTestProject(t testing.TB, memberID, name string) *model.Project {
	t.Helper()
	return &model.Project{
		ID:        fmt.Sprintf("project-%d", time.Now().UnixNano()),
		MemberID:  memberID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// NewTestSpec creates a test generated spec for the given project.
func NewTestSpec(t testing.TB, projectID string) *model.GeneratedSpec {
	t.Helper()
	return &model.GeneratedSpec{
		ID:                     fmt.Sprintf("spec-%d", time.Now().UnixNano()),
		ProjectID:              projectID,
		RequirementDescription: "a service that manages widgets",
		APISpec:                "openapi: 3.0.0",
		DBSchema:               "CREATE TABLE widgets (id TEXT PRIMARY KEY);",
		SequenceDiagram:        "sequenceDiagram\n  Client->>API: request",
		MockData:               `{"widgets":[]}`,
		CreatedAt:              time.Now().UTC(),
	}
}
