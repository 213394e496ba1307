package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Users    *UserRepository
	Profiles *ProfileRepository
	Tokens   *TokenRepository
	Shifts   *ShiftRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:    NewUserRepository(pool),
		Profiles: NewProfileRepository(pool),
		Tokens:   NewTokenRepository(pool),
		Shifts:   NewShiftRepository(pool),
	}
}
