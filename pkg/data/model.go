package data

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	insertModelSQL = `INSERT INTO model (
			id,
			name,
			url,
			category,
			net_score,
			report,
			created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			url = ?,
			category = ?,
			net_score = ?,
			report = ?,
			created_at = ?
	`

	selectModelSQL = `SELECT
			id,
			name,
			url,
			category,
			net_score,
			report,
			created_at
		FROM model
		WHERE name = ?
	`

	queryModelSQL = `SELECT
			id,
			name,
			category,
			net_score
		FROM model
		WHERE name LIKE ?
		ORDER BY net_score DESC, name
		LIMIT ?
	`

	deleteModelSQL = `DELETE FROM model WHERE name = ?`
)

// Model is one ingested model record: its identity, its net score,
// and the full serialized score report.
type Model struct {
	ID       string  `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	URL      string  `json:"url,omitempty" yaml:"url,omitempty"`
	Category string  `json:"category,omitempty" yaml:"category,omitempty"`
	NetScore float64 `json:"net_score" yaml:"netScore"`
	Report   string  `json:"report,omitempty" yaml:"report,omitempty"`
	SavedOn  int64   `json:"saved_on,omitempty" yaml:"savedOn,omitempty"`
}

type ModelListItem struct {
	ID       string  `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	Category string  `json:"category,omitempty" yaml:"category,omitempty"`
	NetScore float64 `json:"net_score" yaml:"netScore"`
}

// SaveModel upserts one model record. A new record gets a generated
// id; re-ingesting an existing name keeps the original id.
func SaveModel(db *sql.DB, m *Model) error {
	if db == nil {
		return errDBNotInitialized
	}
	if m == nil || m.Name == "" {
		return errors.New("model name not specified")
	}

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.SavedOn == 0 {
		m.SavedOn = time.Now().UTC().Unix()
	}

	stmt, err := db.Prepare(insertModelSQL)
	if err != nil {
		return errors.Wrap(err, "failed to prepare model insert statement")
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		m.ID, m.Name, m.URL, m.Category, m.NetScore, m.Report, m.SavedOn,
		m.URL, m.Category, m.NetScore, m.Report, m.SavedOn)
	if err != nil {
		return errors.Wrapf(err, "failed to save model: %s", m.Name)
	}

	return nil
}

// GetModel returns the record for a model name, or nil when the name
// was never ingested.
func GetModel(db *sql.DB, name string) (*Model, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if name == "" {
		return nil, errors.New("model name not specified")
	}

	row := db.QueryRow(selectModelSQL, name)

	var m Model
	err := row.Scan(&m.ID, &m.Name, &m.URL, &m.Category, &m.NetScore, &m.Report, &m.SavedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query model: %s", name)
	}

	return &m, nil
}

// QueryModels lists ingested models whose name matches the query,
// best net score first.
func QueryModels(db *sql.DB, query string, limit int) ([]*ModelListItem, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := db.Query(queryModelSQL, "%"+query+"%", limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to query models: %s", query)
	}
	defer rows.Close()

	list := make([]*ModelListItem, 0)
	for rows.Next() {
		var item ModelListItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.NetScore); err != nil {
			return nil, errors.Wrap(err, "failed to scan model row")
		}
		list = append(list, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read model rows")
	}

	return list, nil
}

// DeleteModel removes one model record by name.
func DeleteModel(db *sql.DB, name string) error {
	if db == nil {
		return errDBNotInitialized
	}
	if name == "" {
		return errors.New("model name not specified")
	}

	if _, err := db.Exec(deleteModelSQL, name); err != nil {
		return errors.Wrapf(err, "failed to delete model: %s", name)
	}

	return nil
}
