package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"

	"cms-backend/internal/apperrors"
	"cms-backend/internal/config"
	"cms-backend/internal/models"
	"cms-backend/internal/timeutil"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jung-kurt/gofpdf/v2"
)

// ReportService renders the unified dispatch view as CSV or PDF and
// optionally archives the result to R2.
type ReportService struct {
	Dispatch *DispatchService
	R2Cfg    config.Config
}

func NewReportService(dispatch *DispatchService, cfg *config.Config) *ReportService {
	return &ReportService{
		Dispatch: dispatch,
		R2Cfg:    *cfg,
	}
}

// GenerateDispatchCSV renders the filtered unified records as CSV.
func (s *ReportService) GenerateDispatchCSV(ctx context.Context, filters models.DispatchFilters) ([]byte, error) {
	records, err := s.Dispatch.GetUnifiedDispatchRecords(ctx, filters)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{
		"#", "Entry ID", "Customer", "Mobile", "Location", "Operator",
		"Type", "Pots", "Remaining", "Amount", "Payment", "Source", "Date",
	})

	for i, rec := range records {
		w.Write([]string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", rec.EntryID),
			rec.CustomerName,
			rec.CustomerMobile,
			rec.LocationName,
			rec.OperatorName,
			rec.DispatchType,
			fmt.Sprintf("%d", rec.PotsDispatched),
			fmt.Sprintf("%d", rec.RemainingPots),
			fmt.Sprintf("%.2f", rec.PaymentAmount),
			rec.PaymentType,
			rec.SourceCollection,
			timeutil.ToIST(rec.DispatchDate).Format("02-Jan-2006 03:04 PM"),
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateDispatchPDF renders the filtered unified records as a landscape PDF.
func (s *ReportService) GenerateDispatchPDF(ctx context.Context, filters models.DispatchFilters) ([]byte, error) {
	records, err := s.Dispatch.GetUnifiedDispatchRecords(ctx, filters)
	if err != nil {
		return nil, err
	}
	stats, err := s.Dispatch.GetUnifiedDispatchStats(ctx, filters)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "") // Landscape for more columns
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, "Locker Storage - Dispatch Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Summary Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(277, 8, "Summary", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(69, 8, fmt.Sprintf("Total Dispatches: %d", stats.TotalDispatches), "1", 0, "C", false, 0, "")
	pdf.CellFormat(69, 8, fmt.Sprintf("Partial: %d", stats.PartialDispatches), "1", 0, "C", false, 0, "")
	pdf.CellFormat(69, 8, fmt.Sprintf("Full: %d", stats.FullDispatches), "1", 0, "C", false, 0, "")
	pdf.CellFormat(70, 8, fmt.Sprintf("Revenue: Rs. %.2f", stats.TotalRevenue), "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Table header
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(12, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(18, 7, "Entry", "1", 0, "C", true, 0, "")
	pdf.CellFormat(48, 7, "Customer", "1", 0, "C", true, 0, "")
	pdf.CellFormat(28, 7, "Mobile", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 7, "Location", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 7, "Operator", "1", 0, "C", true, 0, "")
	pdf.CellFormat(16, 7, "Pots", "1", 0, "C", true, 0, "")
	pdf.CellFormat(16, 7, "Left", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Amount", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 7, "Date", "1", 1, "C", true, 0, "")

	// Table rows
	pdf.SetFont("Arial", "", 9)
	for i, rec := range records {
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(245, 245, 245)
		}

		name := rec.CustomerName
		if len(name) > 22 {
			name = name[:19] + "..."
		}
		location := rec.LocationName
		if len(location) > 18 {
			location = location[:15] + "..."
		}
		operator := rec.OperatorName
		if len(operator) > 18 {
			operator = operator[:15] + "..."
		}

		pdf.CellFormat(12, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", true, 0, "")
		pdf.CellFormat(18, 6, fmt.Sprintf("%d", rec.EntryID), "1", 0, "C", true, 0, "")
		pdf.CellFormat(48, 6, name, "1", 0, "L", true, 0, "")
		pdf.CellFormat(28, 6, rec.CustomerMobile, "1", 0, "C", true, 0, "")
		pdf.CellFormat(38, 6, location, "1", 0, "L", true, 0, "")
		pdf.CellFormat(38, 6, operator, "1", 0, "L", true, 0, "")
		pdf.CellFormat(16, 6, fmt.Sprintf("%d", rec.PotsDispatched), "1", 0, "C", true, 0, "")
		pdf.CellFormat(16, 6, fmt.Sprintf("%d", rec.RemainingPots), "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.2f", rec.PaymentAmount), "1", 0, "R", true, 0, "")
		pdf.CellFormat(38, 6, timeutil.ToIST(rec.DispatchDate).Format("02-Jan-06 03:04PM"), "1", 1, "C", true, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UploadToR2 archives a generated report to the configured R2 bucket. Returns
// the object key. Fails when no bucket is configured.
func (s *ReportService) UploadToR2(ctx context.Context, filename string, data []byte, contentType string) (string, error) {
	r2 := s.R2Cfg.R2
	if r2.Bucket == "" || r2.Endpoint == "" {
		return "", apperrors.InvalidState("R2 archive target is not configured")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			r2.AccessKey,
			r2.SecretKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return "", fmt.Errorf("R2 client configuration failed: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(r2.Endpoint)
	})

	key := fmt.Sprintf("reports/%s/%s", timeutil.Now().Format("2006-01-02"), filename)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r2.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("R2 upload failed: %w", err)
	}

	log.Printf("[Report] Uploaded %s (%d bytes) to R2", key, len(data))
	return key, nil
}
