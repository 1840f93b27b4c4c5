package donation

import (
	"SaveByte/domain"
	"SaveByte/entities"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDonationRepository struct {
	mock.Mock
}

func (m *MockDonationRepository) GetDonationsWithFood(ctx context.Context, hostelID string) ([]*entities.Donation, error) {
	args := m.Called(ctx, hostelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Donation), args.Error(1)
}

func food(wasteType, vegType, name, reason string, q float64, cooked time.Time) *entities.Food {
	return &entities.Food{
		WasteFoodType: wasteType,
		VegType:       vegType,
		FoodName:      name,
		WastageReason: reason,
		Quantity:      q,
		CookedTime:    cooked,
	}
}

func TestBuildWastageReport(t *testing.T) {
	// 2025-03-03 is a Monday.
	monday := func(hour int) time.Time { return time.Date(2025, 3, 3, hour, 30, 0, 0, time.UTC) }

	foods := []*entities.Food{
		food(domain.FoodTypeFresh, domain.VegTypeVeg, "Rice", domain.ReasonOverCooking, 1.04, monday(7)),
		food(domain.FoodTypeFresh, domain.VegTypeVeg, "Rice", domain.ReasonOverCooking, 2.02, monday(12)),
		food(domain.FoodTypePlateWaste, domain.VegTypeNonVeg, domain.FoodNameNotApplicable, domain.ReasonOthers, 3, monday(22)),
		food(domain.FoodTypePlateWaste, domain.VegTypeVeg, domain.FoodNameNotApplicable, domain.ReasonSpecialEvent, 0.5, monday(5)),
	}

	report := BuildWastageReport(foods, time.UTC)

	assert.Equal(t, 3.1, report.WastageByFoodType[domain.FoodTypeFresh])
	assert.Equal(t, 3.5, report.WastageByFoodType[domain.FoodTypePlateWaste])
	assert.Equal(t, 3.6, report.WastageByVegType[domain.VegTypeVeg])
	assert.Equal(t, 3.0, report.WastageByVegType[domain.VegTypeNonVeg])
	assert.Equal(t, map[string]float64{"Rice": 3.1}, report.WastageByFoodName)
	assert.Equal(t, 0.0, report.WastageByReasons[domain.ReasonSemesterExam])
	assert.Len(t, report.WastageByReasons, 4)
	assert.Equal(t, 1.0, report.WastageByTime["Morning"])
	assert.Equal(t, 2.0, report.WastageByTime["Afternoon"])
	assert.Equal(t, 3.5, report.WastageByTime["Night"])
	assert.Equal(t, 6.6, report.WastageByDay["Monday"])
	assert.Equal(t, 0.0, report.WastageByDay["Sunday"])
	assert.Len(t, report.WastageByDay, 7)
	assert.Equal(t, 6.6, report.WastageByMonth["March"])
	assert.Len(t, report.WastageByMonth, 12)
	assert.Equal(t, &domain.DayTypeBucket{FreshFood: 3.1, PlateWaste: 3.5}, report.WastageByDayWithType["Monday"])
}

func TestBuildWastageReport_UsesLocation(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// Saturday 2025-01-04 20:00 UTC is Sunday 01:30 in Kolkata.
	foods := []*entities.Food{
		food(domain.FoodTypeFresh, domain.VegTypeVeg, "Idli", domain.ReasonOthers, 1, time.Date(2025, 1, 4, 20, 0, 0, 0, time.UTC)),
	}

	utc := BuildWastageReport(foods, time.UTC)
	assert.Equal(t, 1.0, utc.WastageByDay["Saturday"])
	assert.Equal(t, 1.0, utc.WastageByTime["Night"])

	local := BuildWastageReport(foods, kolkata)
	assert.Equal(t, 1.0, local.WastageByDay["Sunday"])
	assert.Equal(t, 0.0, local.WastageByDay["Saturday"])
	assert.Equal(t, 1.0, local.WastageByTime["Night"])
}

func TestTimeBand(t *testing.T) {
	tests := map[int]string{0: "Night", 5: "Night", 6: "Morning", 11: "Morning", 12: "Afternoon", 19: "Afternoon", 20: "Night", 23: "Night"}
	for hour, want := range tests {
		assert.Equal(t, want, timeBand(hour), "hour %d", hour)
	}
}

func TestParseDateRange(t *testing.T) {
	t.Run("no filter", func(t *testing.T) {
		_, _, filtered, err := ParseDateRange("", "", time.UTC)
		require.NoError(t, err)
		assert.False(t, filtered)
	})

	t.Run("date only end covers the day", func(t *testing.T) {
		from, to, filtered, err := ParseDateRange("2025-03-01", "2025-03-03", time.UTC)
		require.NoError(t, err)
		assert.True(t, filtered)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), from)
		assert.True(t, to.After(time.Date(2025, 3, 3, 23, 59, 59, 0, time.UTC)))
		assert.True(t, to.Before(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("rfc3339 bounds", func(t *testing.T) {
		from, to, _, err := ParseDateRange("2025-03-01T10:00:00Z", "2025-03-01T12:00:00Z", time.UTC)
		require.NoError(t, err)
		assert.Equal(t, 2*time.Hour, to.Sub(from))
	})

	for name, bounds := range map[string][2]string{
		"missing end": {"2025-03-01", ""},
		"garbage":     {"yesterday", "today"},
		"reversed":    {"2025-03-05", "2025-03-01"},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, _, err := ParseDateRange(bounds[0], bounds[1], time.UTC)
			assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
		})
	}
}

func TestWastageReport_FiltersAndNotFound(t *testing.T) {
	repo := new(MockDonationRepository)
	svc := NewDonationService(repo, time.UTC)

	repo.On("GetDonationsWithFood", mock.Anything, "hostel").Return([]*entities.Donation{
		{Food: food(domain.FoodTypeFresh, domain.VegTypeVeg, "Rice", domain.ReasonOthers, 2, time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC))},
		{Food: food(domain.FoodTypeFresh, domain.VegTypeVeg, "Dal", domain.ReasonOthers, 4, time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC))},
		{Food: nil},
	}, nil)

	report, err := svc.WastageReport(context.Background(), "hostel", "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, 2.0, report.WastageByFoodType[domain.FoodTypeFresh])
	assert.NotContains(t, report.WastageByFoodName, "Dal")

	all, err := svc.WastageReport(context.Background(), "hostel", "", "")
	require.NoError(t, err)
	assert.Equal(t, 6.0, all.WastageByFoodType[domain.FoodTypeFresh])

	_, err = svc.WastageReport(context.Background(), "hostel", "2024-01-01", "2024-01-31")
	assert.ErrorIs(t, err, domain.ErrNoDonationRecords)
}

func TestWastageReport_NoDonations(t *testing.T) {
	repo := new(MockDonationRepository)
	repo.On("GetDonationsWithFood", mock.Anything, "hostel").Return([]*entities.Donation{}, nil)

	_, err := NewDonationService(repo, time.UTC).WastageReport(context.Background(), "hostel", "", "")
	assert.ErrorIs(t, err, domain.ErrNoDonationRecords)
}

func TestWastageReport_RepositoryError(t *testing.T) {
	repo := new(MockDonationRepository)
	repo.On("GetDonationsWithFood", mock.Anything, "hostel").Return(nil, errors.New("db down"))

	_, err := NewDonationService(repo, time.UTC).WastageReport(context.Background(), "hostel", "", "")
	assert.EqualError(t, err, "db down")
}

func TestWastageReport_InvalidRangeSkipsQuery(t *testing.T) {
	repo := new(MockDonationRepository)

	_, err := NewDonationService(repo, time.UTC).WastageReport(context.Background(), "hostel", "2025-03-05", "2025-03-01")
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
	repo.AssertNotCalled(t, "GetDonationsWithFood", mock.Anything, mock.Anything)
}
