package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/sirupsen/logrus"
	"github.com/soltur/backoffice/internal/config"
	"github.com/soltur/backoffice/internal/models"
)

// AgreementService produces booking agreement PDFs. Primary path is the
// external HTTP renderer; when that fails (or is not configured) and the
// local fallback is enabled, a gofpdf placeholder is produced instead so
// the confirmation email still carries an attachment.
type AgreementService struct {
	config *config.PDFConfig
	logger *logrus.Logger
	client *http.Client
}

// NewAgreementService creates a new AgreementService
func NewAgreementService(cfg *config.PDFConfig, logger *logrus.Logger) *AgreementService {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &AgreementService{
		config: cfg,
		logger: logger,
		client: &http.Client{Timeout: timeout},
	}
}

// AgreementData is the document payload handed to the renderer
type AgreementData struct {
	BookingRef   string               `json:"booking_ref"`
	TripTitle    string               `json:"trip_title"`
	TripStart    time.Time            `json:"trip_start"`
	TripEnd      time.Time            `json:"trip_end"`
	ContactName  string               `json:"contact_name"`
	ContactEmail string               `json:"contact_email"`
	CompanyName  *string              `json:"company_name,omitempty"`
	CompanyNIP   *string              `json:"company_nip,omitempty"`
	Participants []models.Participant `json:"participants"`
	TotalAmount  int64                `json:"total_amount"` // grosze
	Currency     string               `json:"currency"`
}

// RenderedAgreement is a finished PDF document
type RenderedAgreement struct {
	Data     []byte
	Filename string
	// Remote is true when the external renderer produced the document.
	// Only remote renders get an Agreement row; placeholders do not.
	Remote bool
}

// rendererResponse is the external renderer's response body
type rendererResponse struct {
	PDFBase64 string `json:"pdf_base64"`
	Filename  string `json:"filename"`
	Error     string `json:"error,omitempty"`
}

// Render produces the agreement PDF for a booking. Never returns an error
// together with a document: a nil error means Data is usable.
func (s *AgreementService) Render(data *AgreementData) (*RenderedAgreement, error) {
	if s.config.RendererURL != "" {
		rendered, err := s.renderRemote(data)
		if err == nil {
			return rendered, nil
		}
		s.logger.WithError(err).WithField("booking_ref", data.BookingRef).
			Warn("remote agreement renderer failed")
	}

	if s.config.Fallback == "local" {
		return s.renderPlaceholder(data)
	}

	return nil, fmt.Errorf("agreement renderer unavailable and no fallback configured")
}

// renderRemote calls the external PDF rendering service
func (s *AgreementService) renderRemote(data *AgreementData) (*RenderedAgreement, error) {
	jsonBody, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal renderer request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.config.RendererURL+"/render", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to build renderer request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("renderer request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read renderer response: %w", err)
	}

	var rendererResp rendererResponse
	if err := json.Unmarshal(body, &rendererResp); err != nil {
		return nil, fmt.Errorf("failed to decode renderer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || rendererResp.PDFBase64 == "" {
		return nil, fmt.Errorf("renderer rejected request (status %d): %s", resp.StatusCode, rendererResp.Error)
	}

	pdfData, err := base64.StdEncoding.DecodeString(rendererResp.PDFBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode renderer PDF payload: %w", err)
	}

	filename := rendererResp.Filename
	if filename == "" {
		filename = fmt.Sprintf("umowa-%s.pdf", data.BookingRef)
	}

	return &RenderedAgreement{Data: pdfData, Filename: filename, Remote: true}, nil
}

// renderPlaceholder builds a minimal local agreement summary with gofpdf.
// It is not the contract document, just enough for the customer to have
// something in hand until the renderer recovers.
func (s *AgreementService) renderPlaceholder(data *AgreementData) (*RenderedAgreement, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Potwierdzenie rezerwacji "+data.BookingRef, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Potwierdzenie rezerwacji", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	line := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
	}

	line("Numer rezerwacji:", data.BookingRef)
	line("Wycieczka:", data.TripTitle)
	line("Termin:", fmt.Sprintf("%s - %s",
		data.TripStart.Format("02.01.2006"), data.TripEnd.Format("02.01.2006")))
	line("Zamawiajacy:", data.ContactName)
	if data.CompanyName != nil && *data.CompanyName != "" {
		line("Firma:", *data.CompanyName)
	}
	line("Liczba uczestnikow:", fmt.Sprintf("%d", len(data.Participants)))
	line("Kwota:", fmt.Sprintf("%.2f %s", float64(data.TotalAmount)/100, data.Currency))
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Uczestnicy", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for i, p := range data.Participants {
		pdf.CellFormat(0, 6, fmt.Sprintf("%d. %s %s", i+1, p.FirstName, p.LastName), "", 1, "L", false, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Pelna umowa zostanie przeslana osobnym mailem.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render placeholder PDF: %w", err)
	}

	return &RenderedAgreement{
		Data:     buf.Bytes(),
		Filename: fmt.Sprintf("potwierdzenie-%s.pdf", data.BookingRef),
		Remote:   false,
	}, nil
}
