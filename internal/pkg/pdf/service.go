// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/google/uuid"
	"github.com/your-org/storefront/internal/config"
	"github.com/your-org/storefront/internal/domain/cart"
)

// Service renders printable order summaries
type Service struct {
	config *config.Config
	now    func() time.Time
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		now:    time.Now,
	}
}

// SummaryData represents the data passed to the summary template
type SummaryData struct {
	StoreName     string        `json:"store_name"`
	Reference     string        `json:"reference"`
	Date          string        `json:"date"`
	Lines         []SummaryLine `json:"lines"`
	TotalQuantity int           `json:"total_quantity"`
	SubTotal      string        `json:"sub_total"`
	TaxAmount     string        `json:"tax_amount"`
	TotalAmount   string        `json:"total_amount"`
}

// SummaryLine is one cart line with amounts already formatted
type SummaryLine struct {
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

// BuildSummary formats the cart for the summary template
func (s *Service) BuildSummary(items []cart.LineItem, totals cart.Totals) SummaryData {
	lines := make([]SummaryLine, len(items))
	for i, item := range items {
		lines[i] = SummaryLine{
			Title:     item.Title,
			Quantity:  item.Quantity,
			UnitPrice: item.Price.StringFixed(2),
			Subtotal:  item.Subtotal().StringFixed(2),
		}
	}

	return SummaryData{
		StoreName:     s.config.PDF.StoreName,
		Reference:     "SUM-" + strings.ToUpper(uuid.New().String()[:8]),
		Date:          s.now().Format("January 2, 2006"),
		Lines:         lines,
		TotalQuantity: totals.TotalQuantity,
		SubTotal:      totals.SubTotal.StringFixed(2),
		TaxAmount:     totals.TaxAmount.StringFixed(2),
		TotalAmount:   totals.TotalAmount.StringFixed(2),
	}
}

// GenerateCartSummary renders the cart as a PDF document
func (s *Service) GenerateCartSummary(items []cart.LineItem, totals cart.Totals) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(s.BuildSummary(items, totals))
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	// Convert HTML to PDF
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(s.config.PDF.Dpi)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(strings.NewReader(htmlContent))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// RenderHTML executes the summary template
func (s *Service) RenderHTML(data SummaryData) (string, error) {
	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

var summaryTemplate = template.Must(template.New("summary").Parse(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Order Summary {{.Reference}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
        .header { display: flex; justify-content: space-between; margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; }
        .title { font-size: 28px; font-weight: bold; color: #2563eb; margin-bottom: 10px; }
        .items-table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
        .items-table th, .items-table td { border: 1px solid #ddd; padding: 12px 8px; text-align: left; }
        .items-table th { background-color: #f8f9fa; font-weight: bold; }
        .items-table .num { text-align: right; width: 90px; }
        .totals { float: right; width: 300px; }
        .totals table { width: 100%; border-collapse: collapse; }
        .totals td { padding: 8px; border-bottom: 1px solid #eee; }
        .totals .label { text-align: right; font-weight: bold; }
        .totals .amount { text-align: right; width: 100px; }
        .total-row { font-size: 18px; font-weight: bold; border-top: 2px solid #333 !important; }
        .footer { margin-top: 50px; padding-top: 20px; border-top: 1px solid #eee; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <div><h1>{{.StoreName}}</h1></div>
        <div style="text-align: right;">
            <div class="title">ORDER SUMMARY</div>
            <p><strong>Reference:</strong> {{.Reference}}</p>
            <p><strong>Date:</strong> {{.Date}}</p>
        </div>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th class="num">Qty</th>
                <th class="num">Price</th>
                <th class="num">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Lines}}
            <tr>
                <td><strong>{{.Title}}</strong></td>
                <td class="num">{{.Quantity}}</td>
                <td class="num">${{.UnitPrice}}</td>
                <td class="num">${{.Subtotal}}</td>
            </tr>
            {{else}}
            <tr><td colspan="4">Your cart is empty</td></tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Subtotal ({{.TotalQuantity}} items):</td>
                <td class="amount">${{.SubTotal}}</td>
            </tr>
            <tr>
                <td class="label">Shipping:</td>
                <td class="amount">Free</td>
            </tr>
            <tr>
                <td class="label">Tax:</td>
                <td class="amount">${{.TaxAmount}}</td>
            </tr>
            <tr class="total-row">
                <td class="label">Total:</td>
                <td class="amount">${{.TotalAmount}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for shopping with {{.StoreName}}!</p>
    </div>
</body>
</html>
`))
