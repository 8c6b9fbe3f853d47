package sqlerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		unique     bool
		foreignKey bool
		notNull    bool
	}{
		{name: "nil", err: nil},
		{name: "plain", err: errors.New("boom")},
		{name: "pq unique", err: &pq.Error{Code: "23505"}, unique: true},
		{name: "pq foreign key wrapped", err: fmt.Errorf("insert: %w", &pq.Error{Code: "23503"}), foreignKey: true},
		{name: "pq not null", err: &pq.Error{Code: "23502"}, notNull: true},
		{name: "pq other", err: &pq.Error{Code: "42P01"}},
		{name: "sqlite unique", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, unique: true},
		{name: "sqlite primary key", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, unique: true},
		{name: "sqlite foreign key", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, foreignKey: true},
		{name: "sqlite not null wrapped", err: fmt.Errorf("x: %w", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}), notNull: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.unique {
				t.Errorf("IsUniqueViolation = %v, want %v", got, tt.unique)
			}
			if got := IsForeignKeyViolation(tt.err); got != tt.foreignKey {
				t.Errorf("IsForeignKeyViolation = %v, want %v", got, tt.foreignKey)
			}
			if got := IsNotNullViolation(tt.err); got != tt.notNull {
				t.Errorf("IsNotNullViolation = %v, want %v", got, tt.notNull)
			}
		})
	}
}
