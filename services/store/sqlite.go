package store

import (
	"database/sql"
	"embed"
	"errors"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"freegamewatch/internal/listing"
	"freegamewatch/logger"
	apperrors "freegamewatch/pkg/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// sqliteTime matches the strftime('%Y-%m-%d %H:%M:%f') defaults in the
// migrations. Millisecond resolution keeps last_seen strictly increasing
// across back-to-back upserts.
const sqliteTime = "2006-01-02 15:04:05.000"

type SqliteStore struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSqliteStore opens (or creates) the database at dbPath and runs any
// pending migrations. Use ":memory:" for an ephemeral database.
func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, apperrors.NewPersistence("failed to open database", err)
	}

	// SQLite handles one writer at a time; a second connection would
	// surface as spurious "database is locked" errors.
	db.SetMaxOpenConns(1)

	s := &SqliteStore{
		db:  db,
		log: logger.ForStore(),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqliteStore) migrate() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return apperrors.NewPersistence("failed to load migrations", err)
	}
	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{
		MigrationsTable: "migrations",
	})
	if err != nil {
		return apperrors.NewPersistence("failed to prepare migration driver", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return apperrors.NewPersistence("failed to create migrator", err)
	}
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return apperrors.NewPersistence("migration failed", err)
	}
	s.log.Info().Msg("Migrated database to latest version")
	return nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}

func (s *SqliteStore) UpsertListing(l listing.Listing) error {
	_, err := s.db.Exec(`
        INSERT INTO listings
            (title, storefront, platform, description, image_url, listing_url, original_price, expires_at, store_logo)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(title, storefront) DO UPDATE SET
            last_seen = strftime('%Y-%m-%d %H:%M:%f', 'now'),
            platform = excluded.platform,
            description = excluded.description,
            image_url = excluded.image_url,
            listing_url = excluded.listing_url,
            original_price = excluded.original_price,
            expires_at = excluded.expires_at,
            store_logo = excluded.store_logo
    `,
		l.Title, string(l.Storefront), string(l.Platform), l.Description,
		l.ImageURL, l.ListingURL, l.OriginalPrice, l.ExpiresAt, l.StoreLogo,
	)
	if err != nil {
		return apperrors.NewPersistence("failed to upsert listing", err)
	}
	return nil
}

func (s *SqliteStore) RecentListings(window time.Duration) ([]listing.Listing, error) {
	cutoff := time.Now().UTC().Add(-window).Format(sqliteTime)

	rows, err := s.db.Query(`
        SELECT title, storefront, platform, description, image_url, listing_url,
               original_price, expires_at, store_logo, first_seen, last_seen
        FROM listings
        WHERE last_seen >= ?
        ORDER BY last_seen DESC
    `, cutoff)
	if err != nil {
		return nil, apperrors.NewPersistence("failed to query recent listings", err)
	}
	defer rows.Close()

	result := make([]listing.Listing, 0)
	for rows.Next() {
		var l listing.Listing
		err := rows.Scan(
			&l.Title, &l.Storefront, &l.Platform, &l.Description, &l.ImageURL,
			&l.ListingURL, &l.OriginalPrice, &l.ExpiresAt, &l.StoreLogo,
			&l.FirstSeen, &l.LastSeen,
		)
		if err != nil {
			s.log.Error().Err(err).Msg("Failed to scan listing row")
			continue
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewPersistence("failed to read recent listings", err)
	}
	return result, nil
}

func (s *SqliteStore) ActiveRecipients() ([]string, error) {
	rows, err := s.db.Query(`SELECT email FROM recipients WHERE active = 1 ORDER BY email`)
	if err != nil {
		return nil, apperrors.NewPersistence("failed to query recipients", err)
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, apperrors.NewPersistence("failed to scan recipient row", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (s *SqliteStore) AddRecipient(email string) error {
	_, err := s.db.Exec(`INSERT INTO recipients (email) VALUES (?)`, email)
	if err != nil {
		return apperrors.NewPersistence("failed to add recipient", err)
	}
	return nil
}

func (s *SqliteStore) RemoveRecipient(email string) error {
	_, err := s.db.Exec(`DELETE FROM recipients WHERE email = ?`, email)
	if err != nil {
		return apperrors.NewPersistence("failed to remove recipient", err)
	}
	return nil
}

func (s *SqliteStore) Setting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", apperrors.NewPersistence("failed to read setting", err)
	}
	return value, nil
}

func (s *SqliteStore) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
        INSERT INTO settings (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value
    `, key, value)
	if err != nil {
		return apperrors.NewPersistence("failed to write setting", err)
	}
	return nil
}

func (s *SqliteStore) Settings() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return nil, apperrors.NewPersistence("failed to query settings", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, apperrors.NewPersistence("failed to scan setting row", err)
		}
		settings[key] = value
	}
	return settings, rows.Err()
}

func (s *SqliteStore) CustomStores() ([]CustomStore, error) {
	rows, err := s.db.Query(`
        SELECT id, name, url, pattern, active, added_date
        FROM custom_stores
        ORDER BY id
    `)
	if err != nil {
		return nil, apperrors.NewPersistence("failed to query custom stores", err)
	}
	defer rows.Close()

	stores := make([]CustomStore, 0)
	for rows.Next() {
		var cs CustomStore
		err := rows.Scan(&cs.ID, &cs.Name, &cs.URL, &cs.Pattern, &cs.Active, &cs.AddedDate)
		if err != nil {
			return nil, apperrors.NewPersistence("failed to scan custom store row", err)
		}
		stores = append(stores, cs)
	}
	return stores, rows.Err()
}

func (s *SqliteStore) AddCustomStore(name, url, pattern string) (int64, error) {
	res, err := s.db.Exec(`
        INSERT INTO custom_stores (name, url, pattern) VALUES (?, ?, ?)
    `, name, url, pattern)
	if err != nil {
		return 0, apperrors.NewPersistence("failed to add custom store", err)
	}
	return res.LastInsertId()
}

func (s *SqliteStore) RemoveCustomStore(id int64) error {
	_, err := s.db.Exec(`DELETE FROM custom_stores WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewPersistence("failed to remove custom store", err)
	}
	return nil
}
