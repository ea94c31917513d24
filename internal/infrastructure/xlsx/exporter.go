// Package xlsx exporta solicitudes de materiales a una hoja de cálculo.
package xlsx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/obras-api/internal/application/ports"
)

// Nombres de las hojas generadas.
const (
	SheetRequests = "Solicitudes"
	SheetLines    = "Lineas"
)

var (
	requestHeader = []any{"ID", "Proyecto", "Solicitante", "Tipo", "Proveedor", "Etapa", "Estado", "Aprobó", "Fecha aprobación", "Creada"}
	lineHeader    = []any{"Solicitud", "Proyecto", "Material", "Unidad", "Solicitado", "Recibido", "Aceptado", "Rechazado", "Pendiente"}
)

var _ ports.RequestSpreadsheetExporter = (*Exporter)(nil)

// Exporter implementa ports.RequestSpreadsheetExporter con excelize.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// ExportRequests una fila por solicitud en SheetRequests y una por línea en SheetLines.
func (e *Exporter) ExportRequests(_ context.Context, docs []ports.RequestDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetRequests); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if _, err := f.NewSheet(SheetLines); err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	for sheet, header := range map[string][]any{SheetRequests: requestHeader, SheetLines: lineHeader} {
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return nil, fmt.Errorf("xlsx: encabezado: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return nil, fmt.Errorf("xlsx: estilo encabezado: %w", err)
		}
	}

	reqRow, lineRow := 2, 2
	for _, doc := range docs {
		r := doc.Request
		approvedAt := ""
		if r.ApprovedAt != nil {
			approvedAt = r.ApprovedAt.Format("2006-01-02 15:04")
		}
		values := []any{
			r.ID, doc.ProjectName, doc.RequesterName, r.RequestType, doc.SupplierName,
			r.CurrentStage, r.Status, doc.ApproverName, approvedAt, r.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := setRow(f, SheetRequests, reqRow, values); err != nil {
			return nil, err
		}
		reqRow++

		for _, l := range doc.Lines {
			values := []any{
				r.ID, doc.ProjectName, l.MaterialName, l.Unit,
				l.Requested.InexactFloat64(), l.Received.InexactFloat64(), l.Accepted.InexactFloat64(),
				l.Rejected.InexactFloat64(), l.Pending.InexactFloat64(),
			}
			if err := setRow(f, SheetLines, lineRow, values); err != nil {
				return nil, err
			}
			lineRow++
		}
	}
	_ = f.SetColWidth(SheetRequests, "A", "A", 38)
	_ = f.SetColWidth(SheetLines, "A", "A", 38)
	_ = f.SetColWidth(SheetLines, "C", "C", 30)

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: celda: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: fila %d de %s: %w", row, sheet, err)
	}
	return nil
}
