package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ringoptima/ringoptima/internal/contact"
	"github.com/ringoptima/ringoptima/internal/csv"
)

// ErrEmptyFile rejects uploads without data rows.
var ErrEmptyFile = errors.New("empty file")

// ErrFileTooLarge rejects uploads over the configured size cap.
var ErrFileTooLarge = errors.New("file too large")

// ImportResult summarizes one completed import.
type ImportResult struct {
	ImportID  string          `json:"importId"`
	BatchID   int64           `json:"batchId"`
	BatchName string          `json:"batchName"`
	Imported  int             `json:"imported"`
	Skipped   csv.SkipSummary `json:"skipped"`
	Duration  time.Duration   `json:"duration"`
}

// ImportCSV runs the full ingestion pipeline on one uploaded file:
// tokenize, resolve columns, extract phones, assemble and persist.
// The batch is named after the file. A file that assembles to zero
// contacts leaves no batch behind.
func (s *Service) ImportCSV(ctx context.Context, fileName string, data []byte) (ImportResult, error) {
	start := time.Now()

	if len(data) == 0 {
		return ImportResult{}, ErrEmptyFile
	}
	if s.maxFileSize > 0 && int64(len(data)) > s.maxFileSize {
		return ImportResult{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, len(data), s.maxFileSize)
	}

	data = sanitizeUTF8(stripBOM(data))

	rows := csv.Tokenize(string(data))
	if len(rows) < 2 {
		return ImportResult{}, fmt.Errorf("%w: no data rows", ErrEmptyFile)
	}

	cols, err := csv.ResolveColumns(rows[0])
	if err != nil {
		return ImportResult{}, err
	}

	importID := uuid.NewString()
	batchName := batchNameFromFile(fileName)

	batchID, err := s.store.InsertBatch(ctx, contact.Batch{
		ImportID: importID,
		Name:     batchName,
		FileName: fileName,
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("create batch: %w", err)
	}

	contacts, skipped := csv.Assemble(rows[1:], cols, batchID)
	if len(contacts) == 0 {
		// Nothing usable in the file. Remove the empty batch so it
		// does not clutter the batch list.
		if delErr := s.store.DeleteBatch(ctx, batchID); delErr != nil {
			return ImportResult{}, fmt.Errorf("clean up empty batch: %w", delErr)
		}
		return ImportResult{
			ImportID:  importID,
			BatchName: batchName,
			Skipped:   skipped,
			Duration:  time.Since(start),
		}, nil
	}

	if err := s.store.InsertContacts(ctx, contacts, s.chunkSize); err != nil {
		return ImportResult{}, err
	}
	if err := s.store.UpdateBatchCount(ctx, batchID, len(contacts)); err != nil {
		return ImportResult{}, err
	}

	if err := s.Refresh(ctx); err != nil {
		return ImportResult{}, err
	}

	return ImportResult{
		ImportID:  importID,
		BatchID:   batchID,
		BatchName: batchName,
		Imported:  len(contacts),
		Skipped:   skipped,
		Duration:  time.Since(start),
	}, nil
}

// batchNameFromFile derives a human batch name from the uploaded
// file name, dropping directories and the extension.
func batchNameFromFile(fileName string) string {
	base := filepath.Base(fileName)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.TrimSpace(name)
	if name == "" || name == "." {
		return "Import"
	}
	return name
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, utf8BOM)
}

// sanitizeUTF8 replaces invalid byte sequences with U+FFFD so the
// tokenizer only ever sees valid UTF-8.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
