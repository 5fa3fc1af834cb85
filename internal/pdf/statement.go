package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"visaflow/internal/models"
)

// Generator renders client documents to files under a root directory.
type Generator interface {
	GenerateStatement(data StatementData) (string, error)
}

type DocumentGenerator struct {
	RootDir  string // e.g. "./files"
	FontPath string // optional TTF; core Helvetica when empty or missing
	fontName string
}

// page carries per-document state so one generator can render concurrently.
type page struct {
	pdf  *gofpdf.Fpdf
	font string
	tr   func(string) string
}

// StatementData is everything printed on a client statement. Expenses,
// TotalExpenses and NetProfit are printed only when ShowFinancials is set.
type StatementData struct {
	Client         *models.Client
	AgentName      string
	TotalPaid      int64
	BalanceDue     int64
	TotalExpenses  int64
	NetProfit      int64
	ShowFinancials bool
	GeneratedAt    time.Time
	Filename       string // base name only; generated when empty
}

func NewDocumentGenerator(rootDir, fontPath string) *DocumentGenerator {
	return &DocumentGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: "DejaVu",
	}
}

// GenerateStatement writes the PDF and returns its absolute path.
func (g *DocumentGenerator) GenerateStatement(data StatementData) (string, error) {
	if data.Client == nil {
		return "", fmt.Errorf("statement: nil client")
	}
	c := data.Client
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("statement_client_%d.pdf", c.ID)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Statement #%d", c.ID), false)
	pdf.SetAuthor("VisaFlow", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pg := g.newPage(pdf)
	font := pg.font
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(font, "", 10)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFont(font, "B", 18)
	pdf.CellFormat(0, 10, pg.text("CLIENT STATEMENT"), "", 1, "C", false, 0, "")
	pdf.SetFont(font, "", 11)
	pdf.CellFormat(0, 7, pg.text(fmt.Sprintf("No. VF-%06d  issued %s", c.ID, data.GeneratedAt.Format("02.01.2006"))), "", 1, "C", false, 0, "")
	pg.hr()

	pg.sectionTitle("Client")
	pg.kvLine("Name", c.Name)
	pg.kvLine("Passport", c.PassportNo)
	pg.kvLine("Country", c.Country)
	pg.kvLine("Job", c.Job)
	pg.kvLine("Provider", c.Provider)
	pg.kvLine("Agent", data.AgentName)
	pg.kvLine("Submitted", c.SubmissionDate.Format(time.DateOnly))
	pg.hr()

	pg.sectionTitle("Processing")
	for _, f := range models.StageFields {
		pg.kvLine(string(f), string(c.Statuses[f]))
	}
	pg.hr()

	pg.sectionTitle("Payments")
	pg.ledgerHeader("Method")
	for _, p := range c.Payments {
		pg.ledgerRow(p.Date, p.Method, p.Amount)
	}
	if data.ShowFinancials {
		pdf.Ln(2)
		pg.sectionTitle("Expenses")
		pg.ledgerHeader("Type")
		for _, e := range c.Expenses {
			pg.ledgerRow(e.Date, e.Type, e.Amount)
		}
	}
	pg.hr()

	pg.sectionTitle("Totals")
	pg.kvLine("Total fee", money(c.TotalFee))
	pg.kvLine("Total paid", money(data.TotalPaid))
	pg.kvLine("Balance due", money(data.BalanceDue))
	if data.ShowFinancials {
		pg.kvLine("Total expenses", money(data.TotalExpenses))
		pg.kvLine("Net profit", money(data.NetProfit))
	}

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("write statement: %w", err)
	}
	return absPath, nil
}

func money(v int64) string {
	return fmt.Sprintf("%d", v)
}

func (p *page) sectionTitle(s string) {
	p.pdf.SetFont(p.font, "B", 12)
	p.pdf.CellFormat(0, 7, p.text(s), "", 1, "L", false, 0, "")
	p.pdf.SetFont(p.font, "", 11)
}

func (p *page) kvLine(key, val string) {
	p.pdf.SetFont(p.font, "B", 11)
	p.pdf.CellFormat(45, 6, p.text(key+":"), "", 0, "L", false, 0, "")
	p.pdf.SetFont(p.font, "", 11)
	p.pdf.CellFormat(0, 6, p.text(val), "", 1, "L", false, 0, "")
}

func (p *page) ledgerHeader(detail string) {
	p.pdf.SetFont(p.font, "B", 10)
	p.pdf.CellFormat(35, 6, p.text("Date"), "B", 0, "L", false, 0, "")
	p.pdf.CellFormat(95, 6, p.text(detail), "B", 0, "L", false, 0, "")
	p.pdf.CellFormat(40, 6, p.text("Amount"), "B", 1, "R", false, 0, "")
	p.pdf.SetFont(p.font, "", 10)
}

func (p *page) ledgerRow(date time.Time, detail string, amount int64) {
	p.pdf.SetFont(p.font, "", 10)
	p.pdf.CellFormat(35, 6, date.Format(time.DateOnly), "", 0, "L", false, 0, "")
	p.pdf.CellFormat(95, 6, p.text(detail), "", 0, "L", false, 0, "")
	p.pdf.CellFormat(40, 6, money(amount), "", 1, "R", false, 0, "")
}

func (p *page) hr() {
	y := p.pdf.GetY() + 1.5
	p.pdf.SetLineWidth(0.2)
	p.pdf.Line(20, y, 190, y)
	p.pdf.SetY(y + 2)
}

func (p *page) text(s string) string {
	if p.tr == nil {
		return s
	}
	return p.tr(s)
}

func (g *DocumentGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename)
	abs, err := filepath.Abs(filepath.Join(g.RootDir, filename))
	if err != nil {
		return "", fmt.Errorf("resolve target: %w", err)
	}
	return abs, nil
}

// newPage registers the UTF-8 font when available, else falls back to
// Helvetica with a cp1252 translator.
func (g *DocumentGenerator) newPage(pdf *gofpdf.Fpdf) *page {
	if g.FontPath != "" {
		if _, err := os.Stat(g.FontPath); err == nil {
			pdf.AddUTF8Font(g.fontName, "", g.FontPath)
			pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
			return &page{pdf: pdf, font: g.fontName}
		}
	}
	return &page{pdf: pdf, font: "Helvetica", tr: pdf.UnicodeTranslatorFromDescriptor("")}
}
