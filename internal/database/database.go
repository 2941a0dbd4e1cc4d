package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

type Service struct {
	db         *sql.DB
	m          *sync.Mutex
	driver     string
	table_name string
}

const tableName = "briscola_results"

const createTable = `
create table if not exists briscola_results (
	id varchar(36) not null primary key,
	created_at varchar(64),
	player varchar(128),
	opponent varchar(64),
	player_points integer,
	opponent_points integer,
	outcome varchar(8)
);
`

const columns = "id, created_at, player, opponent, player_points, opponent_points, outcome"

// New opens the results store. driver is "sqlite3" or "pgx".
func New(driver, dsn string) (*Service, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &Service{
		db:         db,
		m:          &sync.Mutex{},
		driver:     driver,
		table_name: tableName,
	}, nil
}

func (s *Service) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders to $n for Postgres.
func (s *Service) rebind(query string) string {
	if s.driver != "pgx" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func scanResults(rows *sql.Rows) ([]MatchResult, error) {
	var results []MatchResult
	for rows.Next() {
		var result MatchResult
		if err := rows.Scan(
			&result.ID,
			&result.CreatedAt,
			&result.Player,
			&result.Opponent,
			&result.PlayerPoints,
			&result.OpponentPoints,
			&result.Outcome); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

func (s *Service) GetAll() ([]MatchResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query("SELECT " + columns + " FROM " + s.table_name + " ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanResults(rows)
}

func (s *Service) GetByID(id string) (MatchResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var result MatchResult
	err := s.db.QueryRow(s.rebind("SELECT "+columns+" FROM "+s.table_name+" WHERE id = ?"), id).Scan(
		&result.ID,
		&result.CreatedAt,
		&result.Player,
		&result.Opponent,
		&result.PlayerPoints,
		&result.OpponentPoints,
		&result.Outcome)
	if err != nil {
		return MatchResult{}, err
	}
	return result, nil
}

func (s *Service) Insert(result MatchResult) error {
	s.m.Lock()
	defer s.m.Unlock()
	_, err := s.db.Exec(s.rebind("INSERT INTO "+s.table_name+
		" ("+columns+") VALUES (?, ?, ?, ?, ?, ?, ?)"),
		result.ID,
		result.CreatedAt,
		result.Player,
		result.Opponent,
		result.PlayerPoints,
		result.OpponentPoints,
		result.Outcome)

	return err
}

func (s *Service) GetByPlayer(player_name string) ([]MatchResult, error) {
	s.m.Lock()
	defer s.m.Unlock()
	rows, err := s.db.Query(s.rebind("SELECT "+columns+" FROM "+s.table_name+
		" WHERE player = ? ORDER BY created_at"), player_name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results, err := scanResults(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, sql.ErrNoRows // No results found
	}

	return results, nil
}
