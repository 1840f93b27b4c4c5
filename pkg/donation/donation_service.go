package donation

import (
	"SaveByte/domain"
	"SaveByte/entities"
	"context"
	"math"
	"time"
)

type (
	DonationService interface {
		WastageReport(ctx context.Context, hostelID string, startDate string, endDate string) (domain.WastageReport, error)
	}

	donationService struct {
		donationRepository DonationRepository
		location           *time.Location
	}
)

func NewDonationService(donationRepository DonationRepository, location *time.Location) DonationService {
	if location == nil {
		location = time.UTC
	}
	return &donationService{
		donationRepository: donationRepository,
		location:           location,
	}
}

func (s *donationService) WastageReport(ctx context.Context, hostelID string, startDate string, endDate string) (domain.WastageReport, error) {
	from, to, filtered, err := ParseDateRange(startDate, endDate, s.location)
	if err != nil {
		return domain.WastageReport{}, err
	}

	donations, err := s.donationRepository.GetDonationsWithFood(ctx, hostelID)
	if err != nil {
		return domain.WastageReport{}, err
	}

	foods := make([]*entities.Food, 0, len(donations))
	for _, d := range donations {
		if d.Food == nil || d.Food.CookedTime.IsZero() {
			continue
		}
		if filtered && (d.Food.CookedTime.Before(from) || d.Food.CookedTime.After(to)) {
			continue
		}
		foods = append(foods, d.Food)
	}

	if len(foods) == 0 {
		return domain.WastageReport{}, domain.ErrNoDonationRecords
	}
	return BuildWastageReport(foods, s.location), nil
}

// ParseDateRange accepts 2006-01-02 or RFC 3339 bounds. A date-only end
// covers the whole day. Both empty means no filter.
func ParseDateRange(startDate, endDate string, loc *time.Location) (time.Time, time.Time, bool, error) {
	if startDate == "" && endDate == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	if startDate == "" || endDate == "" {
		return time.Time{}, time.Time{}, false, domain.ErrInvalidDateRange
	}

	from, _, err := parseDate(startDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false, domain.ErrInvalidDateRange
	}
	to, dateOnly, err := parseDate(endDate, loc)
	if err != nil {
		return time.Time{}, time.Time{}, false, domain.ErrInvalidDateRange
	}
	if dateOnly {
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, false, domain.ErrInvalidDateRange
	}
	return from, to, true, nil
}

func parseDate(value string, loc *time.Location) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(time.DateOnly, value, loc); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	return t, false, err
}

func timeBand(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "Morning"
	case hour >= 12 && hour < 20:
		return "Afternoon"
	default:
		return "Night"
	}
}

func newReport() domain.WastageReport {
	report := domain.WastageReport{
		WastageByFoodType: map[string]float64{domain.FoodTypeFresh: 0, domain.FoodTypePlateWaste: 0},
		WastageByVegType:  map[string]float64{domain.VegTypeVeg: 0, domain.VegTypeNonVeg: 0},
		WastageByFoodName: map[string]float64{},
		WastageByReasons: map[string]float64{
			domain.ReasonSpecialEvent: 0,
			domain.ReasonSemesterExam: 0,
			domain.ReasonOverCooking:  0,
			domain.ReasonOthers:       0,
		},
		WastageByTime:        map[string]float64{"Morning": 0, "Afternoon": 0, "Night": 0},
		WastageByDay:         map[string]float64{},
		WastageByMonth:       map[string]float64{},
		WastageByDayWithType: map[string]*domain.DayTypeBucket{},
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		report.WastageByDay[d.String()] = 0
		report.WastageByDayWithType[d.String()] = &domain.DayTypeBucket{}
	}
	for m := time.January; m <= time.December; m++ {
		report.WastageByMonth[m.String()] = 0
	}
	return report
}

// BuildWastageReport buckets quantities by cooked time evaluated in loc.
func BuildWastageReport(foods []*entities.Food, loc *time.Location) domain.WastageReport {
	report := newReport()

	for _, food := range foods {
		q := food.Quantity
		cooked := food.CookedTime.In(loc)
		day := cooked.Weekday().String()

		report.WastageByFoodType[food.WasteFoodType] += q
		report.WastageByVegType[food.VegType] += q
		report.WastageByReasons[food.WastageReason] += q
		report.WastageByTime[timeBand(cooked.Hour())] += q
		report.WastageByDay[day] += q
		report.WastageByMonth[cooked.Month().String()] += q

		switch food.WasteFoodType {
		case domain.FoodTypeFresh:
			report.WastageByFoodName[food.FoodName] += q
			report.WastageByDayWithType[day].FreshFood += q
		case domain.FoodTypePlateWaste:
			report.WastageByDayWithType[day].PlateWaste += q
		}
	}

	for _, bucket := range []map[string]float64{
		report.WastageByFoodType,
		report.WastageByVegType,
		report.WastageByFoodName,
		report.WastageByReasons,
		report.WastageByTime,
		report.WastageByDay,
		report.WastageByMonth,
	} {
		for k, v := range bucket {
			bucket[k] = round1(v)
		}
	}
	for _, b := range report.WastageByDayWithType {
		b.FreshFood = round1(b.FreshFood)
		b.PlateWaste = round1(b.PlateWaste)
	}
	return report
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
