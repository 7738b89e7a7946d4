package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/hgonen/assignhub/internal/pkg/auth"
)

// Default admin credentials for a fresh installation. The password must be
// changed on first login in any real deployment.
const (
	defaultAdminEmail    = "admin@assignhub.app"
	defaultAdminPassword = "ChangeMe123!"
)

// CreateDefaultData seeds the default admin account and, when the student
// directory is empty, a small set of directory rows for development.
func CreateDefaultData(ctx context.Context, db *pgxpool.Pool, lgr zerolog.Logger) error {
	if err := seedAdmin(ctx, db, lgr); err != nil {
		return err
	}
	return seedDirectories(ctx, db, lgr)
}

func seedAdmin(ctx context.Context, db *pgxpool.Pool, lgr zerolog.Logger) error {
	var count int64
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO users (email, password, first_name, last_name, role_type, is_active)
		VALUES ($1, $2, 'Default', 'Admin', 'ADMIN', TRUE)
	`, defaultAdminEmail, hashed)
	if err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}

	lgr.Info().Str("email", defaultAdminEmail).Msg("Default admin account created")
	return nil
}

func seedDirectories(ctx context.Context, db *pgxpool.Pool, lgr zerolog.Logger) error {
	var count int64
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count students: %w", err)
	}
	if count > 0 {
		return nil
	}

	students := [][]interface{}{
		{int64(1217650210), "jsmith42", "Jane", "Smith", "jsmith42@asu.edu", "PHD", 3.85, 3.90},
		{int64(1219480332), "mchen7", "Ming", "Chen", "mchen7@asu.edu", "MS", 3.60, 3.72},
		{int64(1215551234), "bgarcia3", "Beatriz", "Garcia", "bgarcia3@asu.edu", "BSE", 3.40, 3.55},
	}
	for _, s := range students {
		if _, err := db.Exec(ctx, `
			INSERT INTO students (student_id, asurite, first_name, last_name, email, degree, cum_gpa, cur_gpa)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, s...); err != nil {
			return fmt.Errorf("failed to seed students: %w", err)
		}
	}

	classes := [][]interface{}{
		{"12345", "CSE", "110", "C", "2261", "TEMPE", "TEMPE", "UGRD", int64(1000000001), "Alan", "Turing"},
		{"23456", "CSE", "511", "A", "2261", "TEMPE", "TEMPE", "GRAD", int64(1000000002), "Grace", "Hopper"},
		{"34567", "IEE", "380", "B", "2261", "POLY", "POLY", "UGRD", int64(1000000003), "Edsger", "Dijkstra"},
	}
	for _, c := range classes {
		if _, err := db.Exec(ctx, `
			INSERT INTO class_schedule (class_num, subject, catalog_num, session, term, location, campus, acad_career, instructor_id, instructor_first_name, instructor_last_name)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, c...); err != nil {
			return fmt.Errorf("failed to seed class schedule: %w", err)
		}
	}

	lgr.Info().Int("students", len(students)).Int("classes", len(classes)).Msg("Development directory data seeded")
	return nil
}
