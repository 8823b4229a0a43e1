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

// ServiceKey is the natural key of a service profile row.
func ServiceKey(customerID, quarter string) string {
	return customerID + "\x1f" + quarter
}

// ResolveServices builds one service row per cleaned service record.
// Records whose (customer, quarter) key already exists in the dimension
// are skipped; the cleaner has already deduplicated and ordered the
// input, so allocation order is stable across runs.
func ResolveServices(services []clean.Record, existing map[string]bool, alloc KeyAllocator) []ServiceRow {
	rows := make([]ServiceRow, 0, len(services))
	for _, s := range services {
		customerID := s.String("customer_id")
		quarter := s.String("quarter")
		if existing[ServiceKey(customerID, quarter)] {
			continue
		}

		rows = append(rows, ServiceRow{
			ServiceID:                     alloc.Next(),
			CustomerID:                    customerID,
			Quarter:                       quarter,
			QuarterEndDate:                s.String("quarter_end_date"),
			PhoneService:                  s.Bool("phone_service"),
			MultipleLines:                 s.Bool("multiple_lines"),
			InternetService:               s.Bool("internet_service"),
			InternetType:                  s.String("internet_type"),
			OnlineSecurity:                s.Bool("online_security"),
			StreamingTV:                   s.Bool("streaming_tv"),
			Contract:                      s.String("contract"),
			PaperlessBilling:              s.Bool("paperless_billing"),
			PaymentMethod:                 s.String("payment_method"),
			AvgMonthlyLongDistanceCharges: s.Float("avg_monthly_long_distance_charges"),
			AvgMonthlyGBDownload:          s.Float("avg_monthly_gb_download"),
		})
	}
	return rows
}
