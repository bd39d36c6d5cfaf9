// Package pdf renderiza albaranes con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa emisora + CIF │ ALBARÁN Nº + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: Dirección / Tel / Email / Web                      │
//	│  CLIENTE: Nombre + email + dirección │ PROYECTO              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Cant. | Unidad | P.Unit | Total       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL                                                      │
//	│  OBSERVACIONES                                              │
//	│  FIRMA: imagen o línea en blanco + fecha de firma           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/albaranes-api/internal/application/deliverynote"
	"github.com/jhoicas/albaranes-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const dash = "-"

// ── Generator ─────────────────────────────────────────────────────────────────

var _ deliverynote.PDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa deliverynote.PDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoPDFGenerator construye el generador con formato numérico español.
func NewMarotoPDFGenerator() *MarotoPDFGenerator {
	return &MarotoPDFGenerator{printer: message.NewPrinter(language.Spanish)}
}

// RenderDeliveryNote genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderDeliveryNote(_ context.Context, snap deliverynote.Snapshot) ([]byte, error) {
	if snap.Note == nil {
		return nil, fmt.Errorf("pdf: albarán vacío")
	}
	note := snap.Note

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Albarán "+note.DisplayNumber(), true).
		WithAuthor(nonEmpty(snap.Company.Name, "albaranes-api"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(note, snap.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(issuerRow(snap.Company))
	m.AddRows(clientProjectRow(snap.Client, snap.Project))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableLineRows(note.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalRow(note.Total()))

	if note.Observations != "" {
		m.AddRows(observationsRows(note.Observations)...)
	}

	m.AddRows(line.NewRow(4))
	m.AddRows(signatureRows(note, snap.Signature, snap.SignatureExt)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + CIF (izq) y número + fecha (der).
func headerRow(note *entity.DeliveryNote, company entity.Company) core.Row {
	number := note.Number
	if number == "" {
		number = "PENDIENTE"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(company.Name, "Empresa sin nombre"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CIF: "+nonEmpty(company.TaxID, dash), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ALBARÁN DE ENTREGA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Nº "+number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+note.IssueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func issuerRow(company entity.Company) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s   |   Email: %s   |   Web: %s",
				nonEmpty(company.Address, dash),
				nonEmpty(company.Phone, dash),
				nonEmpty(company.Email, dash),
				nonEmpty(company.Website, dash),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func clientProjectRow(client *entity.Client, project *entity.Project) core.Row {
	clientName, clientContact, clientAddress := "Cliente no disponible", dash, dash
	if client != nil {
		clientName = client.Name
		clientContact = fmt.Sprintf("Email: %s   |   Tel: %s", nonEmpty(client.Email, dash), nonEmpty(client.Phone, dash))
		clientAddress = formatAddress(client.Address)
	}
	projectName := "Proyecto no disponible"
	if project != nil {
		projectName = project.Name
	}
	return row.New(20).Add(
		col.New(8).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(clientName, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(clientContact, props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New(clientAddress, props.Text{Size: 8, Top: 16, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("PROYECTO", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(projectName, props.Text{Size: 9, Align: align.Right, Top: 6}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Descripción", 5, align.Left),
		h("Cant.", 1, align.Center),
		h("Unidad", 2, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableLineRows: una fila por línea del albarán.
func (g *MarotoPDFGenerator) tableLineRows(lines []entity.DeliveryNoteLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(5).Add(text.New(l.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(g.formatQuantity(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(l.Unit, entity.DefaultLineUnit), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.formatMoney(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.formatMoney(l.Total()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func (g *MarotoPDFGenerator) totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(g.formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func observationsRows(obs string) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("OBSERVACIONES", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
		row.New(12).Add(col.New(12).Add(
			text.New(obs, props.Text{Size: 8, Top: 1, Color: colorGray}),
		)),
	}
}

// signatureRows: la imagen si está disponible y es png/jpg; si no, una línea para firmar.
func signatureRows(note *entity.DeliveryNote, signature []byte, ext string) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("FIRMA DEL CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
	}

	if imgExt, ok := imageExtension(ext); ok && len(signature) > 0 {
		rows = append(rows, row.New(30).Add(
			col.New(4).Add(image.NewFromBytes(signature, imgExt, props.Rect{Percent: 90, Center: true})),
			col.New(8),
		))
	} else {
		rows = append(rows,
			row.New(20),
			row.New(1).Add(col.New(4).Add(line.New(props.Line{Color: colorGray, Thickness: 0.3})), col.New(8)),
		)
	}

	signed := "Pendiente de firma"
	if note.SignedAt != nil {
		signed = "Firmado el " + note.SignedAt.Format("02/01/2006 15:04")
	}
	rows = append(rows, row.New(6).Add(col.New(12).Add(
		text.New(signed, props.Text{Size: 8, Top: 1, Color: colorGray}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func formatAddress(a entity.Address) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.PostalCode, a.City, a.Province, a.Country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return dash
	}
	return strings.Join(parts, ", ")
}

func imageExtension(ext string) (extension.Type, bool) {
	switch strings.ToLower(ext) {
	case "png":
		return extension.Png, true
	case "jpg":
		return extension.Jpg, true
	case "jpeg":
		return extension.Jpeg, true
	}
	return "", false
}

// formatMoney importe con dos decimales y separadores españoles. Ej: 1234.5 → "1.234,50 €"
func (g *MarotoPDFGenerator) formatMoney(d decimal.Decimal) string {
	return g.printer.Sprintf("%.2f €", d.Round(2).InexactFloat64())
}

// formatQuantity cantidades enteras sin decimales; el resto con hasta dos.
func (g *MarotoPDFGenerator) formatQuantity(d decimal.Decimal) string {
	if d.IsInteger() {
		return g.printer.Sprintf("%d", d.IntPart())
	}
	return g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}
