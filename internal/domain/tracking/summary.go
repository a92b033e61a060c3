package tracking

import "github.com/jhoicas/Trazabilidad-api/internal/domain/entity"

// SummarizeByDepartment cuenta las órdenes por reparto actual.
func SummarizeByDepartment(orders []*entity.Order) map[string]int {
	summary := make(map[string]int)
	for _, o := range orders {
		if o == nil {
			continue
		}
		summary[o.CurrentDepartmentID]++
	}
	return summary
}
