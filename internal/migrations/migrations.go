// Package migrations applies the versioned schema changes registered by the
// versions package.
package migrations

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"gorm.io/gorm"
)

// Migration is a row of the tracking table
type Migration struct {
	ID        uint      `gorm:"primaryKey"`
	Version   string    `gorm:"size:255;not null;unique"`
	Name      string    `gorm:"size:255;not null"`
	AppliedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

type MigrationFunc func(*gorm.DB) error

// Definition is a registered migration. Rollback is optional.
type Definition struct {
	Version  string
	Name     string
	Migrate  MigrationFunc
	Rollback MigrationFunc
}

var registry []Definition

func Register(version, name string, migrateFn MigrationFunc) {
	RegisterWithRollback(version, name, migrateFn, nil)
}

func RegisterWithRollback(version, name string, migrateFn, rollbackFn MigrationFunc) {
	registry = append(registry, Definition{
		Version:  version,
		Name:     name,
		Migrate:  migrateFn,
		Rollback: rollbackFn,
	})
}

// Registered returns the known migrations sorted by version
func Registered() []Definition {
	defs := append([]Definition(nil), registry...)
	sort.Slice(defs, func(i, j int) bool {
		return defs[i].Version < defs[j].Version
	})
	return defs
}

type Migrator struct {
	db   *gorm.DB
	out  io.Writer
	defs []Definition
}

// NewMigrator works on every registered migration and reports progress to out
// (stdout when nil).
func NewMigrator(db *gorm.DB, out io.Writer) *Migrator {
	if out == nil {
		out = os.Stdout
	}
	return &Migrator{db: db, out: out, defs: Registered()}
}

func (m *Migrator) EnsureMigrationTable() error {
	return m.db.AutoMigrate(&Migration{})
}

func (m *Migrator) Applied() ([]Migration, error) {
	var applied []Migration
	if err := m.db.Order("version").Find(&applied).Error; err != nil {
		return nil, err
	}
	return applied, nil
}

// Pending lists the registered migrations not yet applied, in version order
func (m *Migrator) Pending() ([]Definition, error) {
	if err := m.EnsureMigrationTable(); err != nil {
		return nil, fmt.Errorf("failed to create migration table: %w", err)
	}

	applied, err := m.Applied()
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, a := range applied {
		done[a.Version] = true
	}

	var pending []Definition
	for _, def := range m.defs {
		if !done[def.Version] {
			pending = append(pending, def)
		}
	}
	return pending, nil
}

// Up applies every pending migration, each in its own transaction
func (m *Migrator) Up() error {
	pending, err := m.Pending()
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Fprintln(m.out, "Database is up to date")
		return nil
	}

	for _, def := range pending {
		fmt.Fprintf(m.out, "Applying migration %s: %s\n", def.Version, def.Name)

		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := def.Migrate(tx); err != nil {
				return err
			}
			return tx.Create(&Migration{
				Version:   def.Version,
				Name:      def.Name,
				AppliedAt: time.Now(),
			}).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration '%s': %w", def.Version, err)
		}

		fmt.Fprintf(m.out, "Migration %s applied successfully\n", def.Version)
	}
	return nil
}

// Down rolls back the most recently applied migration
func (m *Migrator) Down() error {
	if err := m.EnsureMigrationTable(); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	applied, err := m.Applied()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	if len(applied) == 0 {
		fmt.Fprintln(m.out, "No migrations to roll back")
		return nil
	}

	last := applied[len(applied)-1]
	var def *Definition
	for i := range m.defs {
		if m.defs[i].Version == last.Version {
			def = &m.defs[i]
			break
		}
	}
	if def == nil {
		return fmt.Errorf("could not find migration with version %s to roll back", last.Version)
	}
	if def.Rollback == nil {
		return fmt.Errorf("migration %s does not support rollback", last.Version)
	}

	fmt.Fprintf(m.out, "Rolling back migration %s: %s\n", last.Version, last.Name)

	err = m.db.Transaction(func(tx *gorm.DB) error {
		if err := def.Rollback(tx); err != nil {
			return err
		}
		return tx.Delete(&Migration{}, "version = ?", last.Version).Error
	})
	if err != nil {
		return fmt.Errorf("failed to roll back migration '%s': %w", last.Version, err)
	}

	fmt.Fprintf(m.out, "Migration %s rolled back successfully\n", last.Version)
	return nil
}

// Status prints one line per registered migration
func (m *Migrator) Status() error {
	if err := m.EnsureMigrationTable(); err != nil {
		return fmt.Errorf("failed to create migration table: %w", err)
	}

	applied, err := m.Applied()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	byVersion := make(map[string]Migration, len(applied))
	for _, a := range applied {
		byVersion[a.Version] = a
	}

	fmt.Fprintln(m.out, "Migration Status:")
	fmt.Fprintln(m.out, "================")
	for _, def := range m.defs {
		if a, ok := byVersion[def.Version]; ok {
			fmt.Fprintf(m.out, "[x] %s: %s (applied at %s)\n", def.Version, def.Name, a.AppliedAt.Format(time.RFC3339))
		} else {
			fmt.Fprintf(m.out, "[ ] %s: %s (pending)\n", def.Version, def.Name)
		}
	}
	return nil
}
