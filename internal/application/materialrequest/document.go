package materialrequest

import (
	"context"
	"fmt"

	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/application/ports"
	"github.com/jhoicas/obras-api/internal/domain"
	"github.com/jhoicas/obras-api/internal/domain/authz"
	"github.com/jhoicas/obras-api/internal/domain/entity"
	"github.com/jhoicas/obras-api/internal/domain/repository"
)

// maxExportRows tope de solicitudes por exportación.
const maxExportRows = 1000

// DocumentUseCase genera el PDF de una solicitud y la exportación a hoja de cálculo.
type DocumentUseCase struct {
	repos    ports.Repos
	pdf      ports.RequestPDFRenderer
	exporter ports.RequestSpreadsheetExporter
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(repos ports.Repos, pdf ports.RequestPDFRenderer, exporter ports.RequestSpreadsheetExporter) *DocumentUseCase {
	return &DocumentUseCase{repos: repos, pdf: pdf, exporter: exporter}
}

// PDF devuelve el documento PDF de la solicitud id.
func (uc *DocumentUseCase) PDF(ctx context.Context, actor authz.Actor, id string) ([]byte, error) {
	if err := actor.Authorize(authz.RequestRead); err != nil {
		return nil, err
	}
	req, err := uc.repos.Requests.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("solicitud: %w", domain.ErrNotFound)
	}
	if !actor.CanAccessProject(req.ProjectID) {
		return nil, domain.ErrForbidden
	}
	doc, err := uc.build(ctx, req, true)
	if err != nil {
		return nil, err
	}
	return uc.pdf.RenderRequestPDF(ctx, doc)
}

// Export exporta las solicitudes que cumplen q (sin paginar, hasta maxExportRows).
func (uc *DocumentUseCase) Export(ctx context.Context, actor authz.Actor, q dto.MaterialRequestListQuery) ([]byte, error) {
	if err := actor.Authorize(authz.RequestExport); err != nil {
		return nil, err
	}
	if err := checkStageFilter(q.Stage); err != nil {
		return nil, err
	}
	if q.ProjectID != "" && !actor.CanAccessProject(q.ProjectID) {
		return nil, domain.ErrForbidden
	}
	list, _, err := uc.repos.Requests.List(ctx, repository.MaterialRequestFilter{
		ProjectIDs:  actor.VisibleProjects(),
		ProjectID:   q.ProjectID,
		Stage:       q.Stage,
		Status:      q.Status,
		RequestType: q.RequestType,
		Limit:       maxExportRows,
	})
	if err != nil {
		return nil, err
	}
	docs := make([]ports.RequestDocument, 0, len(list))
	for _, r := range list {
		doc, err := uc.build(ctx, r, false)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return uc.exporter.ExportRequests(ctx, docs)
}

// build resuelve nombres de proyecto, usuarios, proveedor y materiales.
func (uc *DocumentUseCase) build(ctx context.Context, req *entity.MaterialRequest, withActions bool) (ports.RequestDocument, error) {
	doc := ports.RequestDocument{Request: req}

	if p, err := uc.repos.Projects.GetByID(ctx, req.ProjectID); err != nil {
		return doc, err
	} else if p != nil {
		doc.ProjectName = p.Name
	}
	doc.RequesterName = uc.userName(ctx, req.RequestedBy)
	if req.ApprovedBy != "" {
		doc.ApproverName = uc.userName(ctx, req.ApprovedBy)
	}
	if req.SupplierID != "" {
		if s, err := uc.repos.Suppliers.GetByID(ctx, req.SupplierID); err == nil && s != nil {
			doc.SupplierName = s.Name
		}
	}

	items, err := uc.repos.Requests.ListItems(ctx, req.ID)
	if err != nil {
		return doc, err
	}
	units := map[string]string{}
	for _, it := range items {
		line := ports.RequestDocumentLine{
			MaterialName: it.MaterialID,
			Requested:    it.RequestedQuantity,
			Received:     it.ReceivedQuantity,
			Accepted:     it.AcceptedQuantity,
			Rejected:     it.RejectedQuantity,
			Pending:      it.PendingQuantity(),
		}
		if m, err := uc.repos.Materials.GetByID(ctx, it.MaterialID); err == nil && m != nil {
			line.MaterialName = m.Name
			line.Unit = uc.unitName(ctx, units, m.UnitID)
		}
		doc.Lines = append(doc.Lines, line)
	}

	if withActions {
		actions, err := uc.repos.Actions.ListByRequest(ctx, req.ID)
		if err != nil {
			return doc, err
		}
		doc.Actions = actions
	}
	return doc, nil
}

func (uc *DocumentUseCase) userName(ctx context.Context, id string) string {
	u, err := uc.repos.Users.GetByID(ctx, id)
	if err != nil || u == nil {
		return id
	}
	return u.Name
}

func (uc *DocumentUseCase) unitName(ctx context.Context, cache map[string]string, id string) string {
	if id == "" {
		return ""
	}
	if n, ok := cache[id]; ok {
		return n
	}
	name := ""
	if u, err := uc.repos.Units.GetByID(ctx, id); err == nil && u != nil {
		name = u.Abbreviation
		if name == "" {
			name = u.Name
		}
	}
	cache[id] = name
	return name
}
