package reports

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fdg312/fuel-score/internal/blob"
	"github.com/fdg312/fuel-score/internal/profiles"
	"github.com/fdg312/fuel-score/internal/storage"
	"github.com/fdg312/fuel-score/internal/targets"
	"github.com/google/uuid"
)

var (
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidDate      = errors.New("invalid date format")
	ErrInvalidDateRange = errors.New("from date must be before to date")
	ErrRangeTooLarge    = errors.New("date range too large")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrReportNotFound   = errors.New("report not found")
)

// ProfileLookup проверяет владельца профиля
type ProfileLookup interface {
	Owned(ctx context.Context, id uuid.UUID) (*storage.Profile, error)
}

// Service — отчёты по истории оценок
type Service struct {
	reports      storage.ReportsStorage
	profiles     ProfileLookup
	generator    *Generator
	blobStore    blob.Store
	maxRangeDays int
	presignTTL   int
}

func NewService(
	reports storage.ReportsStorage,
	scores storage.ScoresStorage,
	profiles ProfileLookup,
	blobStore blob.Store,
	maxRangeDays int,
	presignTTL int,
) *Service {
	if blobStore == nil {
		blobStore = blob.NewMemoryStore()
	}
	return &Service{
		reports:      reports,
		profiles:     profiles,
		generator:    NewGenerator(scores),
		blobStore:    blobStore,
		maxRangeDays: maxRangeDays,
		presignTTL:   presignTTL,
	}
}

func (s *Service) CreateReport(ctx context.Context, req CreateReportRequest) (*Report, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format != FormatPDF && format != FormatCSV {
		return nil, ErrInvalidFormat
	}

	fromDate, err := time.Parse(targets.DateLayout, req.From)
	if err != nil {
		return nil, ErrInvalidDate
	}
	toDate, err := time.Parse(targets.DateLayout, req.To)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if fromDate.After(toDate) {
		return nil, ErrInvalidDateRange
	}
	if days := int(toDate.Sub(fromDate).Hours() / 24); days > s.maxRangeDays {
		return nil, ErrRangeTooLarge
	}

	if err := s.ensureProfileAccess(ctx, req.ProfileID); err != nil {
		return nil, err
	}

	data, err := s.generator.Generate(ctx, req.ProfileID, req.From, req.To, format)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	// ключ: reports/{profile}/{from}_{to}_{uuid}.{format}
	objectKey := fmt.Sprintf("reports/%s/%s_%s_%s.%s",
		req.ProfileID.String(), req.From, req.To, uuid.New().String(), format)

	size, err := s.blobStore.PutObject(ctx, objectKey, data, contentTypeFor(format))
	if err != nil {
		return nil, fmt.Errorf("failed to upload report: %w", err)
	}

	meta := &storage.ReportMeta{
		ProfileID: req.ProfileID,
		Format:    format,
		FromDate:  req.From,
		ToDate:    req.To,
		ObjectKey: objectKey,
		SizeBytes: size,
		Status:    StatusReady,
	}
	if err := s.reports.CreateReport(ctx, meta); err != nil {
		if delErr := s.blobStore.DeleteObject(ctx, objectKey); delErr != nil {
			log.Printf("WARN reports: orphan object key=%s err=%v", objectKey, delErr)
		}
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	log.Printf("INFO reports: created id=%s profile=%s format=%s size=%d", meta.ID, meta.ProfileID, format, size)
	return toReport(meta), nil
}

func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	meta, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReport(meta), nil
}

func (s *Service) ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]Report, error) {
	if err := s.ensureProfileAccess(ctx, profileID); err != nil {
		return nil, err
	}

	metaList, err := s.reports.ListReports(ctx, profileID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]Report, len(metaList))
	for i := range metaList {
		reports[i] = *toReport(&metaList[i])
	}
	return reports, nil
}

func (s *Service) DeleteReport(ctx context.Context, id uuid.UUID) error {
	meta, err := s.owned(ctx, id)
	if err != nil {
		return err
	}

	// удаление метаданных важнее, объект только логируем
	if meta.ObjectKey != "" {
		if err := s.blobStore.DeleteObject(ctx, meta.ObjectKey); err != nil {
			log.Printf("WARN reports: failed to delete object key=%s err=%v", meta.ObjectKey, err)
		}
	}

	if err := s.reports.DeleteReport(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report metadata: %w", err)
	}
	return nil
}

// DownloadURL возвращает presigned URL, либо ссылку на стриминг через API,
// если хранилище не умеет подписывать ссылки
func (s *Service) DownloadURL(ctx context.Context, report *Report, baseURL string) (string, error) {
	if report.ObjectKey != "" {
		url, err := s.blobStore.PresignGet(ctx, report.ObjectKey, s.presignTTL)
		if err != nil {
			return "", fmt.Errorf("failed to presign report: %w", err)
		}
		if url != "" {
			return url, nil
		}
	}
	return fmt.Sprintf("%s/v1/reports/%s/download", strings.TrimSuffix(baseURL, "/"), report.ID), nil
}

// ReportData читает содержимое отчёта из blob store
func (s *Service) ReportData(ctx context.Context, report *Report) ([]byte, string, error) {
	data, err := s.blobStore.GetObject(ctx, report.ObjectKey)
	if err != nil {
		if errors.Is(err, blob.ErrObjectNotFound) {
			return nil, "", ErrReportNotFound
		}
		return nil, "", fmt.Errorf("failed to read report: %w", err)
	}
	return data, contentTypeFor(report.Format), nil
}

// owned возвращает метаданные, если профиль отчёта принадлежит пользователю
func (s *Service) owned(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	meta, err := s.reports.GetReport(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if err := s.ensureProfileAccess(ctx, meta.ProfileID); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return meta, nil
}

func (s *Service) ensureProfileAccess(ctx context.Context, profileID uuid.UUID) error {
	if _, err := s.profiles.Owned(ctx, profileID); err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return ErrProfileNotFound
		}
		return err
	}
	return nil
}

func toReport(meta *storage.ReportMeta) *Report {
	return &Report{
		ID:        meta.ID,
		ProfileID: meta.ProfileID,
		Format:    meta.Format,
		FromDate:  meta.FromDate,
		ToDate:    meta.ToDate,
		ObjectKey: meta.ObjectKey,
		SizeBytes: meta.SizeBytes,
		Status:    meta.Status,
		Error:     meta.Error,
		CreatedAt: meta.CreatedAt,
		UpdatedAt: meta.UpdatedAt,
	}
}
