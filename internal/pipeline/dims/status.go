//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dims

import (
	"github.com/VidishaYagnick/Customer-Churn-Analysis-CLTV-Prediction/internal/pipeline/clean"
)

// StatusKey is the natural key of a churn status row.
func StatusKey(customerID, category string) string {
	return customerID + "\x1f" + category
}

// ResolveChurnStatuses builds one status row per cleaned status record.
// A customer may legitimately carry several categories; each distinct
// (customer, category) pair gets its own row and surrogate key.
func ResolveChurnStatuses(statuses []clean.Record, existing map[string]bool, alloc KeyAllocator) []ChurnStatusRow {
	rows := make([]ChurnStatusRow, 0, len(statuses))
	for _, s := range statuses {
		customerID := s.String("customer_id")
		category := s.String("churn_category")
		if existing[StatusKey(customerID, category)] {
			continue
		}

		rows = append(rows, ChurnStatusRow{
			ChurnStatusID: alloc.Next(),
			CustomerID:    customerID,
			ChurnCategory: category,
		})
	}
	return rows
}
