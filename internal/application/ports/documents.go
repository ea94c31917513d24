package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/obras-api/internal/domain/entity"
)

// RequestDocumentLine línea de una solicitud con los nombres ya resueltos.
type RequestDocumentLine struct {
	MaterialName string
	Unit         string
	Requested    decimal.Decimal
	Received     decimal.Decimal
	Accepted     decimal.Decimal
	Rejected     decimal.Decimal
	Pending      decimal.Decimal
}

// RequestDocument vista de una solicitud lista para imprimir o exportar.
type RequestDocument struct {
	Request       *entity.MaterialRequest
	ProjectName   string
	RequesterName string
	SupplierName  string
	ApproverName  string
	Lines         []RequestDocumentLine
	Actions       []*entity.MaterialRequestAction
}

// RequestPDFRenderer genera la representación PDF de una solicitud.
type RequestPDFRenderer interface {
	RenderRequestPDF(ctx context.Context, doc RequestDocument) ([]byte, error)
}

// RequestSpreadsheetExporter exporta un listado de solicitudes a hoja de cálculo.
type RequestSpreadsheetExporter interface {
	ExportRequests(ctx context.Context, docs []RequestDocument) ([]byte, error)
}
