// Package postgres implements the store interfaces using a PostgreSQL
// database as the storage backend. All queries are owner-scoped: no
// statement ever reads or writes rows across user boundaries.
package postgres
