// Package sheets reads worksheet rows from Google Sheets using a service account.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"loja-backend/internal/logger"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Scope grants read/write access to spreadsheets. The orders sheet shares the
// same credentials, so the narrower read-only scope is not used.
const Scope = "https://www.googleapis.com/auth/spreadsheets"

// Credentials identify the service account.
type Credentials struct {
	Email      string
	PrivateKey string
}

// Client loads all rows of the first worksheet of one spreadsheet.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
	logger        logger.Logger
}

// NewClient authenticates with a JWT-signed service account token source.
func NewClient(ctx context.Context, creds Credentials, spreadsheetID string, log logger.Logger) (*Client, error) {
	conf := &jwt.Config{
		Email:      creds.Email,
		PrivateKey: []byte(creds.PrivateKey),
		Scopes:     []string{Scope},
		TokenURL:   google.JWTTokenURL,
	}
	return NewClientWithOptions(ctx, spreadsheetID, log, option.WithHTTPClient(conf.Client(ctx)))
}

// NewClientWithOptions builds a client on arbitrary API options (endpoint,
// HTTP client). Tests point it at an httptest server.
func NewClientWithOptions(ctx context.Context, spreadsheetID string, log logger.Logger, opts ...option.ClientOption) (*Client, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Client{
		service:       svc,
		spreadsheetID: spreadsheetID,
		logger:        log,
	}, nil
}

// Rows returns every data row of the first worksheet keyed by its header cell.
func (c *Client) Rows(ctx context.Context) ([]map[string]string, error) {
	doc, err := c.service.Spreadsheets.Get(c.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to load spreadsheet %s: %w", c.spreadsheetID, err)
	}
	if len(doc.Sheets) == 0 || doc.Sheets[0].Properties == nil {
		return nil, errors.New("spreadsheet has no worksheets")
	}
	title := doc.Sheets[0].Properties.Title

	values, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, quoteSheetTitle(title)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", title, err)
	}

	rows := toRecords(values.Values)
	c.logger.Debugf("Loaded %d rows from worksheet %q", len(rows), title)
	return rows, nil
}

// toRecords keys every row after the first by the header row. Blank rows are
// skipped; cells beyond the header or missing at the end of a row are absent.
func toRecords(values [][]interface{}) []map[string]string {
	if len(values) == 0 {
		return nil
	}

	header := make([]string, len(values[0]))
	for i, cell := range values[0] {
		header[i] = strings.TrimSpace(cellText(cell))
	}

	records := make([]map[string]string, 0, len(values)-1)
	for _, row := range values[1:] {
		record := make(map[string]string, len(header))
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if v := cellText(cell); v != "" {
				record[header[i]] = v
			}
		}
		if len(record) == 0 {
			continue
		}
		records = append(records, record)
	}
	return records
}

func cellText(cell interface{}) string {
	if cell == nil {
		return ""
	}
	return fmt.Sprint(cell)
}

// quoteSheetTitle builds an A1 range covering a whole worksheet.
func quoteSheetTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
