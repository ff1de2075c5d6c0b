package models

import (
	"fmt"
	"io"
	"sort"

	"gorm.io/gen"
	"gorm.io/gorm"
)

// All returns every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Project{},
		&Qualification{},
		&Contact{},
		&RevokedToken{},
	}
}

// Migrate creates or updates the tables for every model.
func Migrate(db *gorm.DB) error {
	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// TableDrift describes how a live table differs from its Go model.
type TableDrift struct {
	Table string
	// Exists is false when the table has not been created yet.
	Exists bool
	// Unmapped lists columns present in the database but not on the model.
	Unmapped []string
	// Missing lists model columns the database does not have.
	Missing []string
}

// ColumnDrift compares each model against the columns the database reports.
func ColumnDrift(db *gorm.DB) ([]TableDrift, error) {
	var report []TableDrift

	for _, model := range All() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return nil, fmt.Errorf("parse model %T: %w", model, err)
		}

		drift := TableDrift{Table: stmt.Schema.Table}
		if !db.Migrator().HasTable(model) {
			report = append(report, drift)
			continue
		}
		drift.Exists = true

		columnTypes, err := db.Migrator().ColumnTypes(model)
		if err != nil {
			return nil, fmt.Errorf("columns for %s: %w", drift.Table, err)
		}

		live := make(map[string]bool, len(columnTypes))
		for _, ct := range columnTypes {
			live[ct.Name()] = true
		}
		declared := make(map[string]bool, len(stmt.Schema.DBNames))
		for _, name := range stmt.Schema.DBNames {
			declared[name] = true
			if !live[name] {
				drift.Missing = append(drift.Missing, name)
			}
		}
		for name := range live {
			if !declared[name] {
				drift.Unmapped = append(drift.Unmapped, name)
			}
		}
		sort.Strings(drift.Unmapped)
		sort.Strings(drift.Missing)

		report = append(report, drift)
	}

	return report, nil
}

// WriteDriftReport prints the report in a human readable form and returns the
// total number of mismatched columns.
func WriteDriftReport(w io.Writer, report []TableDrift) int {
	total := 0
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")
	for _, t := range report {
		fmt.Fprintf(w, "\n--- Table: %s ---\n", t.Table)
		if !t.Exists {
			fmt.Fprintln(w, "Table does not exist yet (run migrate)")
			continue
		}
		if len(t.Unmapped) == 0 && len(t.Missing) == 0 {
			fmt.Fprintln(w, "All columns are accounted for in the model.")
			continue
		}
		for _, col := range t.Unmapped {
			fmt.Fprintf(w, "  - %s (not on model)\n", col)
		}
		for _, col := range t.Missing {
			fmt.Fprintf(w, "  + %s (not in database)\n", col)
		}
		total += len(t.Unmapped) + len(t.Missing)
	}
	fmt.Fprintf(w, "\n=== SUMMARY ===\nTotal mismatched columns across all tables: %d\n", total)
	return total
}

// GenerateQueries writes type-safe query helpers for every model to outPath.
func GenerateQueries(db *gorm.DB, outPath string) {
	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(All()...)
	g.Execute()
}
