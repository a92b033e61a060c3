package tracking

import (
	"github.com/jhoicas/Trazabilidad-api/internal/application/dto"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
)

func toOrderResponse(o *entity.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:                     o.ID,
		CodeType:               string(o.Code.Kind),
		Code:                   o.Code.Value,
		StartingDepartmentID:   o.StartingDepartmentID,
		StartingDepartmentName: o.StartingDepartmentName,
		CurrentDepartmentID:    o.CurrentDepartmentID,
		CurrentDepartmentName:  o.CurrentDepartmentName,
		CreatedBy:              o.CreatedBy,
		CreatorName:            o.CreatorName,
		Scarti:                 o.Scarti,
		Note:                   o.Note,
		CreatedAt:              o.CreatedAt,
		UpdatedAt:              o.UpdatedAt,
	}
	value := o.Code.Value
	switch o.Code.Kind {
	case entity.CodeKindODL:
		resp.OrderNumber = &value
	case entity.CodeKindJOB:
		resp.JobNumber = &value
	case entity.CodeKindSTACCATO:
		resp.StaccatoNumber = &value
	}
	return resp
}

func toOrderResponses(list []*entity.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderResponse(o))
	}
	return out
}

func toHistoryResponse(h *entity.OrderHistory) dto.OrderHistoryResponse {
	return dto.OrderHistoryResponse{
		ID:                 h.ID,
		OrderID:            h.OrderID,
		CodeType:           string(h.Code.Kind),
		Code:               h.Code.Value,
		FromDepartmentID:   h.FromDepartmentID,
		FromDepartmentName: h.FromDepartmentName,
		ToDepartmentID:     h.ToDepartmentID,
		ToDepartmentName:   h.ToDepartmentName,
		MovedByUserID:      h.MovedByUserID,
		MovedByName:        h.MovedByName,
		OperationType:      h.OperationType,
		Scarti:             h.Scarti,
		Note:               h.Note,
		MovedAt:            h.MovedAt,
	}
}

func toHistoryResponses(list []*entity.OrderHistory) []dto.OrderHistoryResponse {
	out := make([]dto.OrderHistoryResponse, 0, len(list))
	for _, h := range list {
		out = append(out, toHistoryResponse(h))
	}
	return out
}
