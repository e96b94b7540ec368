package repository

import (
	"database/sql"
	"time"

	"gymbot/internal/models"
)

// VisitRepository работает с таблицей visits
type VisitRepository struct {
	db *sql.DB
}

// NewVisitRepository создаёт репозиторий посещений
func NewVisitRepository(db *sql.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

// CheckIn отмечает посещение за указанный день.
// Повторная отметка за тот же день возвращает created=false.
func (r *VisitRepository) CheckIn(userID int, date time.Time) (created bool, err error) {
	res, err := r.db.Exec(`
		INSERT INTO public.visits (user_id, visit_date)
		VALUES ($1, $2)
		ON CONFLICT (user_id, visit_date) DO NOTHING`,
		userID, date.Format("2006-01-02"),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountByUser возвращает общее число посещений пользователя
func (r *VisitRepository) CountByUser(userID int) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM public.visits WHERE user_id = $1",
		userID,
	).Scan(&count)
	return count, err
}

// VisitorsByDate возвращает имена отметившихся за день
func (r *VisitRepository) VisitorsByDate(date time.Time) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT u.name
		FROM public.visits v
		JOIN public.users u ON u.id = v.user_id
		WHERE v.visit_date = $1
		ORDER BY v.created_at`, date.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			continue
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ReportByPeriod возвращает число посещений на пользователя за период
func (r *VisitRepository) ReportByPeriod(from, to time.Time) ([]models.VisitReportRow, error) {
	rows, err := r.db.Query(`
		SELECT u.name, COUNT(*) AS visits
		FROM public.visits v
		JOIN public.users u ON u.id = v.user_id
		WHERE v.visit_date BETWEEN $1 AND $2
		GROUP BY u.name
		ORDER BY visits DESC, u.name`,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []models.VisitReportRow
	for rows.Next() {
		var row models.VisitReportRow
		if err := rows.Scan(&row.Name, &row.Visits); err != nil {
			continue
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

// CountPerDay возвращает число посещений по дням за период (для графика)
func (r *VisitRepository) CountPerDay(from, to time.Time) (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT visit_date, COUNT(*)
		FROM public.visits
		WHERE visit_date BETWEEN $1 AND $2
		GROUP BY visit_date
		ORDER BY visit_date`,
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var day time.Time
		var n int
		if err := rows.Scan(&day, &n); err != nil {
			continue
		}
		counts[day.Format("02.01.2006")] = n
	}
	return counts, rows.Err()
}

// Journal возвращает весь журнал посещений, новые сверху
func (r *VisitRepository) Journal(limit int) ([]models.JournalRow, error) {
	rows, err := r.db.Query(`
		SELECT v.visit_date, u.name
		FROM public.visits v
		JOIN public.users u ON u.id = v.user_id
		ORDER BY v.visit_date DESC, u.name
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var journal []models.JournalRow
	for rows.Next() {
		var row models.JournalRow
		if err := rows.Scan(&row.VisitDate, &row.Name); err != nil {
			continue
		}
		journal = append(journal, row)
	}
	return journal, rows.Err()
}
