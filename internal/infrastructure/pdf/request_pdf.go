// Package pdf genera el documento imprimible de una solicitud de materiales.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Proyecto + Solicitud  │  Etapa + Fecha              │
//	│  DATOS: Solicitante / Origen / Aprobación                    │
//	│  TABLA: Material | Unidad | Solic. | Recib. | Acept. | Rech. │
//	│  BITÁCORA: fecha, acción, transición y observaciones         │
//	│  FOOTER: QR con el ID de la solicitud                        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/obras-api/internal/application/ports"
	"github.com/jhoicas/obras-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var _ ports.RequestPDFRenderer = (*RequestRenderer)(nil)

// RequestRenderer implementa ports.RequestPDFRenderer con Maroto v2.
type RequestRenderer struct {
	company string
}

// NewRequestRenderer construye el generador; company aparece como autor del PDF.
func NewRequestRenderer(company string) *RequestRenderer {
	return &RequestRenderer{company: company}
}

// RenderRequestPDF genera el PDF y devuelve sus bytes.
func (g *RequestRenderer) RenderRequestPDF(_ context.Context, doc ports.RequestDocument) ([]byte, error) {
	if doc.Request == nil {
		return nil, fmt.Errorf("pdf: solicitud vacía")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Solicitud de materiales", true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailsRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(doc.Lines)...)

	if len(doc.Actions) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionTitle("BITÁCORA"))
		m.AddRows(actionRows(doc.Actions)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(doc.Request.ID))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

func headerRow(doc ports.RequestDocument) core.Row {
	req := doc.Request
	return row.New(18).Add(
		col.New(8).Add(
			text.New(nonEmpty(doc.ProjectName, req.ProjectID), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Solicitud "+req.ID, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("SOLICITUD DE MATERIALES", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(stageLabel(req.CurrentStage), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7, Color: stageColor(req.CurrentStage),
			}),
			text.New("Fecha: "+req.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func detailsRow(doc ports.RequestDocument) core.Row {
	req := doc.Request
	origin := "Inventario central"
	if req.RequestType == entity.RequestTypeSupplier {
		origin = "Proveedor: " + nonEmpty(doc.SupplierName, req.SupplierID)
	}
	approval := "Pendiente de aprobación"
	switch {
	case req.ApprovedAt != nil:
		approval = fmt.Sprintf("Aprobada por %s el %s", nonEmpty(doc.ApproverName, req.ApprovedBy), req.ApprovedAt.Format("02/01/2006"))
	case req.RejectionReason != "":
		approval = "Rechazada: " + req.RejectionReason
	}
	return row.New(18).Add(
		col.New(12).Add(
			text.New("Solicitante: "+nonEmpty(doc.RequesterName, req.RequestedBy), props.Text{Size: 8, Top: 1}),
			text.New(origin, props.Text{Size: 8, Top: 6}),
			text.New(approval, props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Material", 4, align.Left),
		h("Unidad", 1, align.Center),
		h("Solic.", 1, align.Right),
		h("Recib.", 2, align.Right),
		h("Acept.", 1, align.Right),
		h("Rech.", 1, align.Right),
		h("Pend.", 2, align.Right),
	)
}

func tableRows(lines []ports.RequestDocumentLine) []core.Row {
	num := func(d decimal.Decimal, size int) core.Col {
		return col.New(size).Add(text.New(d.String(), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}))
	}
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		out = append(out, row.New(7).Add(
			col.New(4).Add(text.New(l.MaterialName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(l.Unit, props.Text{Size: 8, Align: align.Center, Top: 1})),
			num(l.Requested, 1),
			num(l.Received, 2),
			num(l.Accepted, 1),
			num(l.Rejected, 1),
			num(l.Pending, 2),
		))
	}
	return out
}

func actionRows(actions []*entity.MaterialRequestAction) []core.Row {
	out := make([]core.Row, 0, len(actions))
	for _, a := range actions {
		transition := a.FromStage
		if a.ToStage != "" && a.ToStage != a.FromStage {
			transition = fmt.Sprintf("%s → %s", nonEmpty(a.FromStage, "—"), a.ToStage)
		}
		out = append(out, row.New(6).Add(
			col.New(2).Add(text.New(a.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 7, Top: 1, Color: colorGray})),
			col.New(2).Add(text.New(a.Action, props.Text{Size: 7, Top: 1, Style: fontstyle.Bold})),
			col.New(3).Add(text.New(transition, props.Text{Size: 7, Top: 1})),
			col.New(5).Add(text.New(a.Remarks, props.Text{Size: 7, Top: 1})),
		))
	}
	return out
}

func footerRow(id string) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(id, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Escanee el código para abrir la solicitud.", props.Text{Size: 8, Top: 6, Left: 3, Color: colorGray}),
			text.New("Las cantidades aceptadas ingresan al inventario del proyecto al verificarse.", props.Text{
				Size: 7, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	)
}

func stageLabel(stage string) string {
	switch stage {
	case entity.StageDraft:
		return "Borrador"
	case entity.StageRequested:
		return "Solicitada"
	case entity.StageApproved:
		return "Aprobada"
	case entity.StageOrdered:
		return "Ordenada"
	case entity.StageVerifying:
		return "En verificación"
	case entity.StagePartiallyVerified:
		return "Verificada parcialmente"
	case entity.StageDisputed:
		return "En disputa"
	case entity.StageCompleted:
		return "Completada"
	case entity.StageCancelled:
		return "Cancelada"
	}
	return stage
}

func stageColor(stage string) *props.Color {
	if stage == entity.StageDisputed || stage == entity.StageCancelled {
		return colorAlert
	}
	return colorPrimary
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

