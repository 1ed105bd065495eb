// Command bootstrap-member seeds an initial member account, for fresh
// deployments where no one can sign up yet (for example when the auth
// endpoints sit behind a gateway that is not configured).
//
// Usage:
//
//	go run scripts/bootstrap-member.go -database-url postgres://... -email admin@example.com -password secret
package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/oklog/ulid/v2"

	"github.com/specforge/specforge/internal/auth"
)

type output struct {
	MemberID   string `json:"member_id"`
	MemberCode string `json:"member_code"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "", "Member email (required)")
		password    = flag.String("password", "", "Member password (required)")
		name        = flag.String("name", "bootstrap", "Member display name")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "-email and -password are required")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open database:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}

	out := output{
		MemberID:   ulid.Make().String(),
		MemberCode: strings.ReplaceAll(uuid.New().String(), "-", ""),
		Email:      strings.ToLower(strings.TrimSpace(*email)),
		Name:       *name,
	}

	now := time.Now().UTC()
	_, err = db.Exec(`
		INSERT INTO members (id, member_code, email, password_hash, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 1, $6, $6)`,
		out.MemberID, out.MemberCode, out.Email, hash, out.Name, now,
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "create member:", err)
		os.Exit(1)
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.MemberID)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}
