package domain

import (
	"errors"
)

var (
	MessageSuccessGetWastageReport = "wastage report generated successfully"
	MessageFailedGetWastageReport  = "failed to generate wastage report"

	ErrNoDonationRecords = errors.New("no donation records found for this hostel")
	ErrInvalidDateRange  = errors.New("invalid date range")
)

type (
	DayTypeBucket struct {
		FreshFood  float64 `json:"FreshFood"`
		PlateWaste float64 `json:"PlateWaste"`
	}

	// WastageReport keys are the display labels used by the dashboard charts.
	WastageReport struct {
		WastageByFoodType    map[string]float64        `json:"wastageByFoodType"`
		WastageByVegType     map[string]float64        `json:"wastageByVegType"`
		WastageByFoodName    map[string]float64        `json:"wastageByFoodName"`
		WastageByReasons     map[string]float64        `json:"wastageByReasons"`
		WastageByTime        map[string]float64        `json:"wastageByTime"`
		WastageByDay         map[string]float64        `json:"wastageByDay"`
		WastageByMonth       map[string]float64        `json:"wastageByMonth"`
		WastageByDayWithType map[string]*DayTypeBucket `json:"wastageByDayWithType"`
	}
)
