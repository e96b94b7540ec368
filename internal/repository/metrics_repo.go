package repository

import (
	"database/sql"

	"gymbot/internal/models"
)

// MetricsRepository работает с анкетами пользователей
type MetricsRepository struct {
	db *sql.DB
}

// NewMetricsRepository создаёт репозиторий анкет
func NewMetricsRepository(db *sql.DB) *MetricsRepository {
	return &MetricsRepository{db: db}
}

// GetByUserID возвращает анкету пользователя
func (r *MetricsRepository) GetByUserID(userID int) (*models.Metrics, error) {
	m := &models.Metrics{}
	var goal string
	err := r.db.QueryRow(`
		SELECT user_id, weight, goal, workouts_per_week,
		       experience_years, age, COALESCE(comment, ''), updated_at
		FROM public.metrics
		WHERE user_id = $1`, userID).Scan(
		&m.UserID, &m.Weight, &goal, &m.WorkoutsPerWeek,
		&m.ExperienceYears, &m.Age, &m.Comment, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Goal = models.Goal(goal)
	return m, nil
}

// Exists проверяет наличие анкеты
func (r *MetricsRepository) Exists(userID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM public.metrics WHERE user_id = $1)",
		userID,
	).Scan(&exists)
	return exists, err
}

// Upsert сохраняет анкету, перезаписывая прежнюю
func (r *MetricsRepository) Upsert(m *models.Metrics) error {
	_, err := r.db.Exec(`
		INSERT INTO public.metrics
			(user_id, weight, goal, workouts_per_week, experience_years, age, comment, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (user_id) DO UPDATE SET
			weight = EXCLUDED.weight,
			goal = EXCLUDED.goal,
			workouts_per_week = EXCLUDED.workouts_per_week,
			experience_years = EXCLUDED.experience_years,
			age = EXCLUDED.age,
			comment = EXCLUDED.comment,
			updated_at = now()`,
		m.UserID, m.Weight, string(m.Goal), m.WorkoutsPerWeek,
		m.ExperienceYears, m.Age, m.Comment,
	)
	return err
}
