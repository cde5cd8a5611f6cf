package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/example/lexengine/internal/ingest"
	"github.com/example/lexengine/internal/mastery"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath      string // Path to the Excel or CSV file
	SurfaceColumn string // Column with the surface form
	LemmaColumn   string // Column with the lemma (falls back to surface when empty)
	POSColumn     string // Column with the part-of-speech tag
	SheetName     string // Name of the sheet to import
	StartRow      int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SurfaceColumn: "A",
		LemmaColumn:   "B",
		POSColumn:     "C",
		SheetName:     "Sheet1",
		StartRow:      2, // Skip header row
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	EventsEmitted  int
	Skipped        int
	Errors         []string
}

// Ingestor is the sink for generated lexicon_import events
type Ingestor interface {
	HandleEvent(ctx context.Context, event ingest.Event) error
}

// ImportLexicon bulk-loads vocabulary from an Excel or CSV file for one
// learner. Every row becomes a lexicon_import interaction event, so imported
// words enter the mastery pipeline exactly like words seen in live text.
func ImportLexicon(ctx context.Context, config ImportConfig, clientID, language string, sink Ingestor) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(ctx, config, clientID, language, sink)
	}
	return importFromExcel(ctx, config, clientID, language, sink)
}

// importFromExcel imports vocabulary from an Excel file
func importFromExcel(ctx context.Context, config ImportConfig, clientID, language string, sink Ingestor) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", config.SheetName, err)
	}

	surfaceIdx, err := columnIndex(config.SurfaceColumn)
	if err != nil {
		return nil, err
	}
	lemmaIdx, err := columnIndex(config.LemmaColumn)
	if err != nil {
		return nil, err
	}
	posIdx, err := columnIndex(config.POSColumn)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i+1 < config.StartRow {
			continue
		}
		processRow(ctx, result, row, surfaceIdx, lemmaIdx, posIdx, clientID, language, sink)
	}
	return result, nil
}

// importFromCSV imports vocabulary from a CSV file
func importFromCSV(ctx context.Context, config ImportConfig, clientID, language string, sink Ingestor) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	surfaceIdx, err := columnIndex(config.SurfaceColumn)
	if err != nil {
		return nil, err
	}
	lemmaIdx, err := columnIndex(config.LemmaColumn)
	if err != nil {
		return nil, err
	}
	posIdx, err := columnIndex(config.POSColumn)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	result := &ImportResult{}
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum+1, err))
			continue
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		processRow(ctx, result, row, surfaceIdx, lemmaIdx, posIdx, clientID, language, sink)
	}
	return result, nil
}

// processRow turns one spreadsheet row into a lexicon_import event
func processRow(ctx context.Context, result *ImportResult, row []string, surfaceIdx, lemmaIdx, posIdx int, clientID, language string, sink Ingestor) {
	result.TotalProcessed++

	surface := cell(row, surfaceIdx)
	lemma := cell(row, lemmaIdx)
	pos := cell(row, posIdx)

	if surface == "" && lemma == "" {
		result.Skipped++
		return
	}

	event := ingest.Event{
		RequestID: uuid.NewString(),
		ClientID:  clientID,
		Language:  language,
		Token: &ingest.Token{
			Surface: surface,
			Lemma:   lemma,
			POS:     pos,
		},
		Kind:      mastery.KindLexiconImport,
		Timestamp: time.Now(),
	}

	if err := sink.HandleEvent(ctx, event); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", surface, err))
		result.Skipped++
		return
	}
	result.EventsEmitted++
}

func columnIndex(name string) (int, error) {
	n, err := excelize.ColumnNameToNumber(name)
	if err != nil {
		return 0, fmt.Errorf("invalid column %q: %w", name, err)
	}
	return n - 1, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
