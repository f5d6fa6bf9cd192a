package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"nkn-funder/pkg/common"

	"github.com/shopspring/decimal"
)

// Receipt is the content of the funding marker. Nothing reads it back; the
// presence of the file is what marks a node as funded.
type Receipt struct {
	TxHash      string          `json:"txHash"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Amount      decimal.Decimal `json:"amount"`
	Fee         decimal.Decimal `json:"fee"`
	SubmittedAt time.Time       `json:"submittedAt"`
}

// Path returns the marker location inside directory. filepath.Join drops a
// trailing separator so "/nkn/data" and "/nkn/data/" give the same path.
func Path(directory string) string {
	return filepath.Join(directory, common.ReceiptFileName)
}

// Store guards a single funding marker file
type Store struct {
	path string
}

func NewStore(directory string) *Store {
	return &Store{path: Path(directory)}
}

func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the marker is present. Only a not-found returns
// false; any other stat failure is returned as an error.
func (s *Store) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat receipt %s: %w", s.path, err)
}

// Prepare makes sure the marker's directory exists, so a missing directory
// fails the run before any funds move.
func (s *Store) Prepare() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create receipt directory %s: %w", dir, err)
	}
	return nil
}

// Write stores the receipt through a temp file and rename. The marker is
// either absent or complete.
func (s *Store) Write(r Receipt) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal receipt: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+common.ReceiptFileName+".*")
	if err != nil {
		return fmt.Errorf("failed to create receipt: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync receipt: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close receipt: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set receipt permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to move receipt into place: %w", err)
	}
	return nil
}
