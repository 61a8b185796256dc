package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed init.sql
var initSQL string

//go:embed assessments.sql
var assessmentsSQL string

// AssessmentsFunctions lists the functions created by assessments.sql.
var AssessmentsFunctions = []string{
	"init_assessments",
	"insert_assessment",
	"select_assessment_by_position",
	"select_all_assessments",
	"count_assessments",
	"select_assessments_by_similarity",
	"delete_assessment",
}

// Init initializes the vector and pgcrypto extensions.
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	slog.Debug("Database extensions initialized")
	return nil
}

// LoadAssessmentsSql loads the assessment catalog functions.
// Without force nothing is executed if all functions already exist.
func LoadAssessmentsSql(db *sql.DB, force bool) error {
	return loadFunctions(db, "assessments", assessmentsSQL, AssessmentsFunctions, force)
}

func loadFunctions(db *sql.DB, name string, script string, functions []string, force bool) error {
	if !force {
		exist, err := checkFunctions(db, functions)
		if err != nil {
			return fmt.Errorf("error checking existing %s functions: %w", name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(script)
	if err != nil {
		return fmt.Errorf("error executing %s SQL: %w", name, err)
	}

	exist, err := checkFunctions(db, functions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required %s SQL functions were created", name)
	}

	slog.Debug("SQL functions loaded", slog.String("set", name), slog.Int("count", len(functions)))
	return nil
}

// checkFunctions reports whether every function exists. An empty list reports false.
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	if len(sqlFunctions) == 0 {
		return false, nil
	}
	for _, f := range sqlFunctions {
		var exists bool
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&exists)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !exists {
			slog.Debug("SQL function missing", slog.String("function", f))
			return false, nil
		}
	}
	return true, nil
}
