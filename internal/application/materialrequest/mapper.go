package materialrequest

import (
	"github.com/jhoicas/obras-api/internal/application/dto"
	"github.com/jhoicas/obras-api/internal/domain/entity"
)

func toResponse(r *entity.MaterialRequest, items []entity.MaterialRequestItem) *dto.MaterialRequestResponse {
	out := &dto.MaterialRequestResponse{
		ID:              r.ID,
		ProjectID:       r.ProjectID,
		RequestedBy:     r.RequestedBy,
		RequestType:     r.RequestType,
		SupplierID:      r.SupplierID,
		CurrentStage:    r.CurrentStage,
		Status:          r.Status,
		Notes:           r.Notes,
		ApprovedBy:      r.ApprovedBy,
		ApprovedAt:      r.ApprovedAt,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	for _, it := range items {
		out.Items = append(out.Items, dto.MaterialRequestItemResponse{
			ID:                it.ID,
			MaterialID:        it.MaterialID,
			RequestedQuantity: it.RequestedQuantity,
			ReceivedQuantity:  it.ReceivedQuantity,
			AcceptedQuantity:  it.AcceptedQuantity,
			RejectedQuantity:  it.RejectedQuantity,
			PendingQuantity:   it.PendingQuantity(),
		})
	}
	return out
}
