package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/plateful/discovery-feed/internal/domain"
	_ "modernc.org/sqlite"
)

// Store implements domain.ProfileStore, domain.CandidateCatalog and
// domain.IngestCursorStore on an embedded SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the SQLite database at the given path,
// applies the base pragmas, and ensures the schema exists. The caller should
// call Close when the store is no longer needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	for _, pragma := range []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA foreign_keys=ON;`,
		`PRAGMA busy_timeout=5000;`,
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS posts (
	id TEXT PRIMARY KEY,
	restaurant_id TEXT NOT NULL,
	restaurant_name TEXT NOT NULL,
	image_url TEXT NOT NULL DEFAULT '',
	cuisine TEXT NOT NULL,
	price_range TEXT NOT NULL,
	location TEXT NOT NULL,
	address TEXT NOT NULL DEFAULT '',
	distance_km REAL,
	rating REAL NOT NULL DEFAULT 0,
	review_count INTEGER NOT NULL DEFAULT 0,
	is_open INTEGER,
	featured_dish TEXT NOT NULL DEFAULT '',
	featured_dish_image TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	tags_json TEXT NOT NULL DEFAULT '[]',
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);
CREATE INDEX IF NOT EXISTS idx_posts_restaurant ON posts(restaurant_id);

CREATE TABLE IF NOT EXISTS profiles (
	user_id TEXT PRIMARY KEY,
	preferences_json TEXT NOT NULL DEFAULT '{}',
	behavior_json TEXT NOT NULL DEFAULT '{}',
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS ingest_cursors (
	source TEXT PRIMARY KEY,
	cursor_value INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);`

	_, err := s.db.Exec(schema)
	return err
}

// CreatePost inserts a new post. Inserting an existing ID is a no-op.
func (s *Store) CreatePost(ctx context.Context, post domain.Post) error {
	tags, err := json.Marshal(post.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	const query = `
		INSERT INTO posts (
			id, restaurant_id, restaurant_name, image_url, cuisine,
			price_range, location, address, distance_km, rating,
			review_count, is_open, featured_dish, featured_dish_image,
			description, tags_json, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`

	_, err = s.db.ExecContext(ctx, query,
		post.ID,
		post.RestaurantID,
		post.RestaurantName,
		post.ImageURL,
		post.Cuisine,
		post.PriceRange,
		post.Location,
		post.Address,
		nullFloat(post.Distance),
		post.Rating,
		post.ReviewCount,
		nullBool(post.IsOpen),
		post.FeaturedDish,
		post.FeaturedDishImage,
		post.Description,
		string(tags),
		post.CreatedAt.UnixMilli(),
	)
	return err
}

// UpsertPosts inserts a batch of posts inside one transaction, skipping IDs
// that already exist. Used by the seeder.
func (s *Store) UpsertPosts(ctx context.Context, posts []domain.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, post := range posts {
		tags, err := json.Marshal(post.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags for %q: %w", post.ID, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO posts (
				id, restaurant_id, restaurant_name, image_url, cuisine,
				price_range, location, address, distance_km, rating,
				review_count, is_open, featured_dish, featured_dish_image,
				description, tags_json, created_at
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			post.ID, post.RestaurantID, post.RestaurantName, post.ImageURL,
			post.Cuisine, post.PriceRange, post.Location, post.Address,
			nullFloat(post.Distance), post.Rating, post.ReviewCount,
			nullBool(post.IsOpen), post.FeaturedDish, post.FeaturedDishImage,
			post.Description, string(tags), post.CreatedAt.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("insert post %q: %w", post.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// DeletePost removes a post by ID.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	return err
}

// ListCandidates returns every post in the catalog, newest first.
func (s *Store) ListCandidates(ctx context.Context) ([]domain.Post, error) {
	const query = `
		SELECT id, restaurant_id, restaurant_name, image_url, cuisine,
		       price_range, location, address, distance_km, rating,
		       review_count, is_open, featured_dish, featured_dish_image,
		       description, tags_json, created_at
		FROM posts
		ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var (
			p         domain.Post
			distance  sql.NullFloat64
			isOpen    sql.NullBool
			tagsJSON  string
			createdAt int64
		)
		err := rows.Scan(
			&p.ID,
			&p.RestaurantID,
			&p.RestaurantName,
			&p.ImageURL,
			&p.Cuisine,
			&p.PriceRange,
			&p.Location,
			&p.Address,
			&distance,
			&p.Rating,
			&p.ReviewCount,
			&isOpen,
			&p.FeaturedDish,
			&p.FeaturedDishImage,
			&p.Description,
			&tagsJSON,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}

		if distance.Valid {
			d := distance.Float64
			p.Distance = &d
		}
		if isOpen.Valid {
			open := isOpen.Bool
			p.IsOpen = &open
		}
		if err := json.Unmarshal([]byte(tagsJSON), &p.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags for %q: %w", p.ID, err)
		}
		p.CreatedAt = time.UnixMilli(createdAt).UTC()

		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}

	return posts, nil
}

// DeleteOldPosts removes posts older than maxAge and any excess rows beyond
// maxRows, keeping the most recent posts. Returns the total number of rows
// deleted.
func (s *Store) DeleteOldPosts(ctx context.Context, maxAge time.Duration, maxRows int) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM posts WHERE created_at < ?`,
		time.Now().UTC().Add(-maxAge).UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired posts: %w", err)
	}
	ttlDeleted, _ := res.RowsAffected()

	res, err = tx.ExecContext(ctx, `
		DELETE FROM posts WHERE id IN (
			SELECT id FROM posts
			ORDER BY created_at DESC, id DESC
			LIMIT -1 OFFSET ?
		)`, maxRows,
	)
	if err != nil {
		return 0, fmt.Errorf("delete excess posts: %w", err)
	}
	capDeleted, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return ttlDeleted + capDeleted, nil
}

// GetPreferences retrieves the user's saved preferences. A user with no
// profile row gets a zero value.
func (s *Store) GetPreferences(ctx context.Context, userID string) (domain.Preferences, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT preferences_json FROM profiles WHERE user_id = ?`, userID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return domain.Preferences{}, nil
	}
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("query preferences: %w", err)
	}

	var prefs domain.Preferences
	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		return domain.Preferences{}, fmt.Errorf("unmarshal preferences: %w", err)
	}
	return prefs, nil
}

// SavePreferences persists the user's preferences, replacing the previous
// record.
func (s *Store) SavePreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, preferences_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			preferences_json = excluded.preferences_json,
			updated_at = excluded.updated_at`,
		userID, string(raw), time.Now().UTC().UnixMilli(),
	)
	return err
}

// GetBehavior retrieves the user's saved behavior. A user with no profile
// row gets a zero value.
func (s *Store) GetBehavior(ctx context.Context, userID string) (domain.Behavior, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT behavior_json FROM profiles WHERE user_id = ?`, userID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return domain.Behavior{}, nil
	}
	if err != nil {
		return domain.Behavior{}, fmt.Errorf("query behavior: %w", err)
	}

	var behavior domain.Behavior
	if err := json.Unmarshal([]byte(raw), &behavior); err != nil {
		return domain.Behavior{}, fmt.Errorf("unmarshal behavior: %w", err)
	}
	return behavior, nil
}

// SaveBehavior persists the user's behavior record, replacing the previous
// one.
func (s *Store) SaveBehavior(ctx context.Context, userID string, behavior domain.Behavior) error {
	raw, err := json.Marshal(behavior)
	if err != nil {
		return fmt.Errorf("marshal behavior: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, behavior_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			behavior_json = excluded.behavior_json,
			updated_at = excluded.updated_at`,
		userID, string(raw), time.Now().UTC().UnixMilli(),
	)
	return err
}

// GetCursor retrieves the saved content-stream cursor for a source.
func (s *Store) GetCursor(ctx context.Context, source string) (int64, error) {
	var cursor int64
	err := s.db.QueryRowContext(ctx,
		`SELECT cursor_value FROM ingest_cursors WHERE source = ?`, source,
	).Scan(&cursor)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return cursor, err
}

// UpdateCursor upserts the content-stream cursor for a source.
func (s *Store) UpdateCursor(ctx context.Context, source string, cursor int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingest_cursors (source, cursor_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (source) DO UPDATE SET
			cursor_value = excluded.cursor_value,
			updated_at = excluded.updated_at`,
		source, cursor, time.Now().UTC().UnixMilli(),
	)
	return err
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}
