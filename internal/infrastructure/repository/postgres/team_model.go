package postgres

import "time"

type teamTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	Name        string     `db:"name"`
	NameKey     string     `db:"name_key"`
	Short       string     `db:"short"`
	LogoURL     string     `db:"logo_url"`
	FoundedYear int        `db:"founded_year"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type teamInsertModel struct {
	PublicID    string `db:"public_id"`
	Name        string `db:"name"`
	NameKey     string `db:"name_key"`
	Short       string `db:"short"`
	LogoURL     string `db:"logo_url"`
	FoundedYear int    `db:"founded_year"`
}
