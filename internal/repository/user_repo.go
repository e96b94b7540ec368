package repository

import (
	"database/sql"

	"gymbot/internal/models"
)

// UserRepository работает с таблицей users
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository создаёт репозиторий пользователей
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByTelegramID возвращает пользователя по Telegram ID
func (r *UserRepository) GetByTelegramID(telegramID int64) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(`
		SELECT id, telegram_id, COALESCE(name, ''), role, bench_press, created_at
		FROM public.users
		WHERE telegram_id = $1`, telegramID).Scan(
		&user.ID, &user.TelegramID, &user.Name, &user.Role,
		&user.BenchPress, &user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ExistsByTelegramID проверяет существование пользователя
func (r *UserRepository) ExistsByTelegramID(telegramID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM public.users WHERE telegram_id = $1)",
		telegramID,
	).Scan(&exists)
	return exists, err
}

// Create регистрирует нового пользователя и возвращает его ID
func (r *UserRepository) Create(telegramID int64, name, role string) (int, error) {
	var id int
	err := r.db.QueryRow(`
		INSERT INTO public.users (telegram_id, name, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (telegram_id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, telegramID, name, role).Scan(&id)
	return id, err
}

// UpdateName меняет отображаемое имя
func (r *UserRepository) UpdateName(telegramID int64, name string) error {
	_, err := r.db.Exec(
		"UPDATE public.users SET name = $1 WHERE telegram_id = $2",
		name, telegramID,
	)
	return err
}

// UpdateBenchPress сохраняет максимальный жим лёжа
func (r *UserRepository) UpdateBenchPress(telegramID int64, weight float64) error {
	_, err := r.db.Exec(
		"UPDATE public.users SET bench_press = $1 WHERE telegram_id = $2",
		weight, telegramID,
	)
	return err
}

// PromoteToAdmin выдаёт роль администратора
func (r *UserRepository) PromoteToAdmin(telegramID int64) error {
	_, err := r.db.Exec(
		"UPDATE public.users SET role = 'admin' WHERE telegram_id = $1",
		telegramID,
	)
	return err
}
