package repository

import "database/sql"

// Repository содержит все репозитории
type Repository struct {
	User    *UserRepository
	Visit   *VisitRepository
	Metrics *MetricsRepository
}

// New создаёт новый экземпляр Repository
func New(db *sql.DB) *Repository {
	return &Repository{
		User:    NewUserRepository(db),
		Visit:   NewVisitRepository(db),
		Metrics: NewMetricsRepository(db),
	}
}

// InitSchema создаёт таблицы, если их ещё нет
func InitSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS public.users (
			id SERIAL PRIMARY KEY,
			telegram_id BIGINT UNIQUE NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'user',
			bench_press NUMERIC(6,2),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS public.visits (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES public.users(id),
			visit_date DATE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (user_id, visit_date)
		)`,
		`CREATE TABLE IF NOT EXISTS public.metrics (
			user_id INT PRIMARY KEY REFERENCES public.users(id),
			weight NUMERIC(5,1) NOT NULL,
			goal TEXT NOT NULL,
			workouts_per_week INT NOT NULL,
			experience_years NUMERIC(4,1) NOT NULL,
			age INT NOT NULL,
			comment TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
