package database

import (
	"database/sql"

	json "github.com/goccy/go-json"
)

// InsertInterest creates a new interest keyword set.
func (db *DB) InsertInterest(name string, keywords []string) (int64, error) {
	kwJSON, err := json.Marshal(keywords)
	if err != nil {
		return 0, err
	}

	result, err := db.conn.Exec(
		"INSERT INTO interests (name, keywords) VALUES (?, ?)",
		name, string(kwJSON),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetAllInterests returns all stored interests.
func (db *DB) GetAllInterests() ([]Interest, error) {
	return db.queryInterests("SELECT id, name, keywords, is_active, created_at, updated_at FROM interests ORDER BY created_at DESC")
}

// GetActiveInterests returns only active interests.
func (db *DB) GetActiveInterests() ([]Interest, error) {
	return db.queryInterests("SELECT id, name, keywords, is_active, created_at, updated_at FROM interests WHERE is_active = 1 ORDER BY created_at DESC")
}

// GetInterest returns a single interest by ID, or nil when absent.
func (db *DB) GetInterest(interestID int64) (*Interest, error) {
	row := db.conn.QueryRow(
		"SELECT id, name, keywords, is_active, created_at, updated_at FROM interests WHERE id = ?",
		interestID,
	)
	i, err := scanInterest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return i, nil
}

// ToggleInterest toggles the active state of an interest.
func (db *DB) ToggleInterest(interestID int64) error {
	_, err := db.conn.Exec(
		"UPDATE interests SET is_active = NOT is_active, updated_at = datetime('now') WHERE id = ?",
		interestID,
	)
	return err
}

// DeleteInterest removes an interest.
func (db *DB) DeleteInterest(interestID int64) error {
	_, err := db.conn.Exec("DELETE FROM interests WHERE id = ?", interestID)
	return err
}

func (db *DB) queryInterests(query string, args ...any) ([]Interest, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var interests []Interest
	for rows.Next() {
		var i Interest
		var kwJSON *string
		var active int
		if err := rows.Scan(&i.ID, &i.Name, &kwJSON, &active, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, err
		}
		i.IsActive = active != 0
		if kwJSON != nil {
			if err := json.Unmarshal([]byte(*kwJSON), &i.Keywords); err != nil {
				i.Keywords = nil
			}
		}
		interests = append(interests, i)
	}
	return interests, rows.Err()
}

func scanInterest(row *sql.Row) (*Interest, error) {
	var i Interest
	var kwJSON *string
	var active int
	if err := row.Scan(&i.ID, &i.Name, &kwJSON, &active, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	i.IsActive = active != 0
	if kwJSON != nil {
		if err := json.Unmarshal([]byte(*kwJSON), &i.Keywords); err != nil {
			i.Keywords = nil
		}
	}
	return &i, nil
}
