package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lumiere-app/stylist-server/internal/stylist"
	_ "modernc.org/sqlite"
)

// WardrobeEntry is one persisted analyzed item.
type WardrobeEntry struct {
	ID              int64                    `json:"id"`
	ImageData       string                   `json:"image_data"`
	Analysis        stylist.FashionAnalysis  `json:"analysis"`
	Recommendations []stylist.Recommendation `json:"recommendations"`
	CreatedAt       time.Time                `json:"created_at"`
}

// ChatMessage is one persisted conversation row.
type ChatMessage struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Store defines the persistence interface: two append-only tables, no
// update or delete path.
type Store interface {
	// ListWardrobe returns all wardrobe entries, newest first.
	ListWardrobe() ([]WardrobeEntry, error)
	// InsertWardrobe appends one analyzed item and returns its generated id.
	InsertWardrobe(imageData string, analysis stylist.FashionAnalysis, recs []stylist.Recommendation) (int64, error)

	// ListChatHistory returns all chat messages, oldest first.
	ListChatHistory() ([]ChatMessage, error)
	// AppendChatMessage appends one chat message.
	AppendChatMessage(role, content string) error

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-based store at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Configure SQLite with WAL mode and busy timeout for better concurrency
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) init() error {
	wardrobeQuery := `
	CREATE TABLE IF NOT EXISTS wardrobe (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		image_data TEXT,
		analysis TEXT,
		recommendations TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(wardrobeQuery); err != nil {
		return fmt.Errorf("failed to create wardrobe table: %w", err)
	}

	chatHistoryQuery := `
	CREATE TABLE IF NOT EXISTS chat_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		role TEXT,
		content TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(chatHistoryQuery); err != nil {
		return fmt.Errorf("failed to create chat_history table: %w", err)
	}

	return nil
}

// ListWardrobe returns all wardrobe entries, newest first. The id breaks
// ties between rows created within the same second.
func (s *SQLiteStore) ListWardrobe() ([]WardrobeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT id, image_data, analysis, recommendations, created_at FROM wardrobe ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query wardrobe: %w", err)
	}
	defer rows.Close()

	var entries []WardrobeEntry
	for rows.Next() {
		var entry WardrobeEntry
		var analysisJSON, recsJSON string

		if err := rows.Scan(&entry.ID, &entry.ImageData, &analysisJSON, &recsJSON, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wardrobe row: %w", err)
		}
		if err := json.Unmarshal([]byte(analysisJSON), &entry.Analysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis for entry %d: %w", entry.ID, err)
		}
		if err := json.Unmarshal([]byte(recsJSON), &entry.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommendations for entry %d: %w", entry.ID, err)
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// InsertWardrobe appends one analyzed item and returns its generated id.
func (s *SQLiteStore) InsertWardrobe(imageData string, analysis stylist.FashionAnalysis, recs []stylist.Recommendation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal analysis: %w", err)
	}
	recsJSON, err := json.Marshal(recs)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	result, err := s.db.Exec(
		"INSERT INTO wardrobe (image_data, analysis, recommendations) VALUES (?, ?, ?)",
		imageData, string(analysisJSON), string(recsJSON))
	if err != nil {
		return 0, fmt.Errorf("failed to insert wardrobe entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted id: %w", err)
	}

	return id, nil
}

// ListChatHistory returns all chat messages, oldest first.
func (s *SQLiteStore) ListChatHistory() ([]ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(
		"SELECT id, role, content, created_at FROM chat_history ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var msg ChatMessage
		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat row: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// AppendChatMessage appends one chat message.
func (s *SQLiteStore) AppendChatMessage(role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(
		"INSERT INTO chat_history (role, content) VALUES (?, ?)", role, content); err != nil {
		return fmt.Errorf("failed to append chat message: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
