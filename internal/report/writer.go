package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/api/dto"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/config"
	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/logger"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the persisted report document wrapping one analysis run.
type Envelope struct {
	ReportID    string                `json:"report_id"`
	GeneratedAt time.Time             `json:"generated_at"`
	Analysis    *dto.AnalysisResponse `json:"analysis"`
}

// Writer persists analysis runs as timestamped JSON reports.
type Writer struct {
	cfg *config.Configuration
	log *logger.Logger
}

// NewWriter creates a new report writer
func NewWriter(cfg *config.Configuration, log *logger.Logger) *Writer {
	return &Writer{cfg: cfg, log: log}
}

// Write stores the analysis response under the configured report directory
// and returns the report path. The file name carries the generation
// timestamp so consecutive runs never overwrite each other.
func (w *Writer) Write(resp *dto.AnalysisResponse) (string, error) {
	if resp == nil {
		return "", ierr.NewError("analysis response is required").
			WithHint("Run the analysis before writing a report").
			Mark(ierr.ErrValidation)
	}

	dir := w.cfg.Analysis.ReportDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", ierr.WithError(err).
			WithHintf("Failed to create report directory %s", dir).
			Mark(ierr.ErrSystem)
	}

	envelope := Envelope{
		ReportID:    types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REPORT),
		GeneratedAt: resp.GeneratedAt,
		Analysis:    resp,
	}

	payload, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to encode analysis report").
			Mark(ierr.ErrSystem)
	}

	name := fmt.Sprintf("%s_portfolio_analysis.json", resp.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", ierr.WithError(err).
			WithHintf("Failed to write report file %s", path).
			Mark(ierr.ErrSystem)
	}

	w.log.Infow("wrote analysis report",
		"report_id", envelope.ReportID,
		"run_id", resp.RunID,
		"path", path)

	return path, nil
}
