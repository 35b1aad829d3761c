package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/uleam/univoz-service/internal/repositories"
)

const (
	ResultsSheet  = "Resultados"
	OpinionsSheet = "Opiniones"
	VotesSheet    = "Votos"

	defaultSheet = "Sheet1"
)

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		logger: logger,
	}
}

func (s *reportService) ExportResults(ctx context.Context, w io.Writer) error {
	tally, err := s.repo.Vote().Tally(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	rows := make([][]interface{}, 0, len(tally))
	for _, t := range tally {
		rows = append(rows, []interface{}{t.Candidate, t.Total})
	}

	return s.writeWorkbook(w, ResultsSheet, []interface{}{"Candidato", "Total"}, rows)
}

func (s *reportService) ExportOpinions(ctx context.Context, category string, w io.Writer) error {
	opinions, err := s.repo.Opinion().List(ctx, repositories.OpinionFilters{Category: category})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	rows := make([][]interface{}, 0, len(opinions))
	for _, o := range opinions {
		rows = append(rows, []interface{}{
			o.ID,
			o.Email,
			o.Category,
			o.Rating,
			o.Comment,
			o.SubmittedAt.Format(time.RFC3339),
		})
	}

	header := []interface{}{"ID", "Email", "Categoria", "Calificacion", "Comentario", "Fecha"}
	return s.writeWorkbook(w, OpinionsSheet, header, rows)
}

func (s *reportService) ExportVotes(ctx context.Context, w io.Writer) error {
	votes, err := s.repo.Vote().List(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	rows := make([][]interface{}, 0, len(votes))
	for _, v := range votes {
		rows = append(rows, []interface{}{
			v.ID,
			v.Email,
			v.Candidate,
			v.Proposals,
			v.Comments,
			v.SubmittedAt.Format(time.RFC3339),
		})
	}

	header := []interface{}{"ID", "Email", "Candidato", "Propuestas", "Comentarios", "Fecha"}
	return s.writeWorkbook(w, VotesSheet, header, rows)
}

func (s *reportService) writeWorkbook(w io.Writer, sheet string, header []interface{}, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
