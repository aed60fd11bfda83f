package postgres

import "github.com/google/uuid"

// validID reports whether id can be compared against a uuid column. Postgres rejects
// anything else with a syntax error, which callers would otherwise see as a 500.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
