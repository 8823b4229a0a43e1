//-------------------------------------------------------------------------
//
// Customer Churn Warehouse
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dims

import "time"

// CustomerRow is one row of dim_customer. Natural key: CustomerID.
type CustomerRow struct {
	CustomerID         string
	Gender             string
	Age                int
	SeniorCitizen      bool
	Partner            bool
	Dependents         bool
	Married            bool
	NumberOfDependents int
	AgeBucket          string
}

// LocationRow is one row of dim_location. Natural key: ZipCode.
type LocationRow struct {
	LocationID int64
	ZipCode    string
	Country    string
	State      string
	City       string
	Latitude   float64
	Longitude  float64
	// Population is nil when the zip has no population reference.
	Population *int64
}

// ServiceRow is one row of dim_service. Natural key: (CustomerID, Quarter).
type ServiceRow struct {
	ServiceID                     int64
	CustomerID                    string
	Quarter                       string
	QuarterEndDate                string
	PhoneService                  bool
	MultipleLines                 bool
	InternetService               bool
	InternetType                  string
	OnlineSecurity                bool
	StreamingTV                   bool
	Contract                      string
	PaperlessBilling              bool
	PaymentMethod                 string
	AvgMonthlyLongDistanceCharges float64
	AvgMonthlyGBDownload          float64
}

// TimeRow is one row of dim_time. The surrogate key is the dense
// YYYYMMDD encoding of the date.
type TimeRow struct {
	TimeID    int
	Date      time.Time
	Day       int
	Month     int
	MonthName string
	Quarter   int
	Year      int
	DayOfWeek int
	DayName   string
}

// ChurnStatusRow is one row of dim_churn_status.
// Natural key: (CustomerID, ChurnCategory).
type ChurnStatusRow struct {
	ChurnStatusID int64
	CustomerID    string
	ChurnCategory string
}
