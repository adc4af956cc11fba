// clues/store.go
package clues

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL 驱动
)

var (
	ErrNoClue = fmt.Errorf("no clue available")
)

// Clue is one question/answer pair on the board. Following convention,
// Question is the text shown to players and Answer is the correct response.
type Clue struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Value    int    `json:"value"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Round    int    `json:"round"`
}

// Store is the read-only clue lookup consumed by the game engine. Gameplay
// never writes to the backing table; imports happen offline.
type Store interface {
	// RandomClue returns a random clue for (category, value) within round,
	// or ErrNoClue if the table has none.
	RandomClue(category string, value, round int) (*Clue, error)
	// UsableCategories lists categories that have at least one clue at
	// every value of the given round, i.e. can fill a full board column.
	UsableCategories(round int) ([]string, error)
	// FinalClue returns a random final-round clue.
	FinalClue() (*Clue, error)
	Close() error
}

// PQStore implements Store on a PostgreSQL clue table.
type PQStore struct {
	db *sql.DB
}

func NewPQStore(host string, port int, user, password, dbname string) (*PQStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(50)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &PQStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewPQStoreFromDB wraps an existing handle. Used by tests.
func NewPQStoreFromDB(db *sql.DB) *PQStore {
	return &PQStore{db: db}
}

func (s *PQStore) migrate() error {
	_, err := s.db.Exec(`
        CREATE TABLE IF NOT EXISTS clues (
            id SERIAL PRIMARY KEY,
            category TEXT NOT NULL,
            value INTEGER,
            question TEXT NOT NULL,
            answer TEXT NOT NULL,
            round INTEGER NOT NULL,
            show_number INTEGER,
            air_date TEXT
        )
    `)
	if err != nil {
		return err
	}

	// category/value 查询最频繁
	_, err = s.db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_clues_cat_val ON clues(category, value, round);
        CREATE INDEX IF NOT EXISTS idx_clues_round ON clues(round);
    `)
	return err
}

func (s *PQStore) RandomClue(category string, value, round int) (*Clue, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
        SELECT id, category, value, question, answer, round
        FROM clues
        WHERE category = $1 AND value = $2 AND round = $3
        ORDER BY RANDOM() LIMIT 1
    `, category, value, round)

	return scanClue(row)
}

func (s *PQStore) UsableCategories(round int) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 每个分值至少一条线索的分类才算可用
	rows, err := s.db.QueryContext(ctx, `
        SELECT category FROM (
            SELECT category, value FROM clues
            WHERE round = $1
            GROUP BY category, value
        ) cv GROUP BY category HAVING COUNT(*) >= 5
    `, round)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *PQStore) FinalClue() (*Clue, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	row := s.db.QueryRowContext(ctx, `
        SELECT id, category, value, question, answer, round
        FROM clues
        WHERE round = 3
        ORDER BY RANDOM() LIMIT 1
    `)

	return scanClue(row)
}

func (s *PQStore) Close() error {
	return s.db.Close()
}

func scanClue(row *sql.Row) (*Clue, error) {
	var c Clue
	var value sql.NullInt64
	err := row.Scan(&c.ID, &c.Category, &value, &c.Question, &c.Answer, &c.Round)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNoClue
		}
		return nil, err
	}
	c.Value = int(value.Int64)
	return &c, nil
}
