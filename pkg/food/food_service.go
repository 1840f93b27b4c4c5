package food

import (
	"SaveByte/domain"
	"SaveByte/entities"
	"SaveByte/internal/metrics"
	"SaveByte/internal/utils/mailing"
	"SaveByte/internal/utils/storage"
	"SaveByte/pkg/notification"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type (
	FoodService interface {
		CreateListing(ctx context.Context, donorID string, req domain.FoodRequest) (domain.AddFoodResponse, []notification.Event, error)
		UpdateListing(ctx context.Context, foodID string, req domain.UpdateFoodRequest) (domain.FoodResponse, error)
		DeleteListing(ctx context.Context, donorID string, foodID string) ([]notification.Event, error)
		GetOwnListings(ctx context.Context, donorID string) ([]domain.FoodResponse, error)
		GetAvailableListings(ctx context.Context, role string) ([]domain.AvailableFoodResponse, error)
		GetListing(ctx context.Context, foodID string) (domain.FoodResponse, error)
		UploadListingImage(ctx context.Context, donorID string, foodID string, image *multipart.FileHeader) (string, error)
	}

	foodService struct {
		foodRepository FoodRepository
		s3             storage.AwsS3
		logger         zerolog.Logger
		now            func() time.Time
	}
)

func NewFoodService(foodRepository FoodRepository, s3 storage.AwsS3, logger zerolog.Logger) FoodService {
	return &foodService{
		foodRepository: foodRepository,
		s3:             s3,
		logger:         logger,
		now:            time.Now,
	}
}

// FormatQuantity renders kilograms without trailing zeros.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func FoodAddedMessage(food *entities.Food) string {
	if food.WasteFoodType == domain.FoodTypeFresh {
		return fmt.Sprintf("New Fresh Food \"%s\", Quantity: %sKg is available!", food.FoodName, FormatQuantity(food.Quantity))
	}
	return fmt.Sprintf("New Plate Waste Food, Quantity: %sKg is available!", FormatQuantity(food.Quantity))
}

// ReceiverRole is the role allowed to claim foods of the given type.
func ReceiverRole(wasteFoodType string) string {
	if wasteFoodType == domain.FoodTypeFresh {
		return domain.RoleNGO
	}
	return domain.RoleAWC
}

func applyFoodRequest(food *entities.Food, req domain.FoodRequest) error {
	if req.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	cooked, err := time.Parse(time.RFC3339, req.CookedTime)
	if err != nil {
		return domain.ErrInvalidTimeFormat
	}
	expiry, err := time.Parse(time.RFC3339, req.ExpiryTime)
	if err != nil {
		return domain.ErrInvalidTimeFormat
	}
	if !expiry.After(cooked) {
		return domain.ErrInvalidExpiryTime
	}

	name := strings.TrimSpace(req.FoodName)
	if req.WasteFoodType == domain.FoodTypeFresh {
		if name == "" {
			return domain.ErrFoodNameRequired
		}
	} else {
		name = domain.FoodNameNotApplicable
	}

	food.VegType = req.VegType
	food.WasteFoodType = req.WasteFoodType
	food.FoodName = name
	food.Quantity = req.Quantity
	food.CookedTime = cooked
	food.ExpiryTime = expiry
	food.WastageReason = req.WastageReason
	return nil
}

func toFoodResponse(food *entities.Food, donatedAt *time.Time) domain.FoodResponse {
	return domain.FoodResponse{
		ID:             food.ID.String(),
		VegType:        food.VegType,
		WasteFoodType:  food.WasteFoodType,
		FoodName:       food.FoodName,
		Quantity:       food.Quantity,
		CookedTime:     food.CookedTime,
		ExpiryTime:     food.ExpiryTime,
		WastageReason:  food.WastageReason,
		Available:      food.Available,
		ImageURL:       food.ImageURL,
		CreatedAt:      food.CreatedAt,
		DonateDateTime: donatedAt,
	}
}

func (s *foodService) CreateListing(ctx context.Context, donorID string, req domain.FoodRequest) (domain.AddFoodResponse, []notification.Event, error) {
	donorUUID, err := uuid.Parse(donorID)
	if err != nil {
		return domain.AddFoodResponse{}, nil, domain.ErrParseUUID
	}

	food := &entities.Food{ID: uuid.New(), Available: true}
	if err := applyFoodRequest(food, req); err != nil {
		return domain.AddFoodResponse{}, nil, err
	}

	donation := &entities.Donation{
		ID:             uuid.New(),
		HostelID:       donorUUID,
		DonateDateTime: s.now(),
	}

	if err := s.foodRepository.CreateListing(ctx, food, donation); err != nil {
		return domain.AddFoodResponse{}, nil, err
	}
	metrics.ListingsCreated.WithLabelValues(food.WasteFoodType).Inc()

	receivers, err := s.foodRepository.GetUsersByRole(ctx, ReceiverRole(food.WasteFoodType))
	if err != nil {
		s.logger.Error().Err(err).Str("food_id", food.ID.String()).Msg("failed to load receivers for new listing")
		return domain.AddFoodResponse{FoodID: food.ID.String()}, nil, nil
	}

	message := FoodAddedMessage(food)
	events := make([]notification.Event, 0, len(receivers))
	for _, receiver := range receivers {
		event := notification.InboxEvent(receiver.ID, message, domain.NotificationFoodAdded)
		if receiver.Email != "" {
			mail := mailing.FoodAvailableMail(receiver.Email, message, food.ExpiryTime)
			event.Mail = &mail
		}
		events = append(events, event)
	}

	return domain.AddFoodResponse{FoodID: food.ID.String()}, events, nil
}

func (s *foodService) UpdateListing(ctx context.Context, foodID string, req domain.UpdateFoodRequest) (domain.FoodResponse, error) {
	if _, err := uuid.Parse(foodID); err != nil {
		return domain.FoodResponse{}, domain.ErrParseUUID
	}

	food, err := s.foodRepository.UpdateFood(ctx, foodID, func(food *entities.Food) error {
		if err := applyFoodRequest(food, req.FoodRequest); err != nil {
			return err
		}
		food.Available = req.Available
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.FoodResponse{}, domain.ErrFoodNotFound
		}
		return domain.FoodResponse{}, err
	}
	return toFoodResponse(food, nil), nil
}

func (s *foodService) DeleteListing(ctx context.Context, donorID string, foodID string) ([]notification.Event, error) {
	if _, err := uuid.Parse(foodID); err != nil {
		return nil, domain.ErrParseUUID
	}

	food, failed, err := s.foodRepository.DeleteListing(ctx, foodID, donorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDonationNotFound
		}
		return nil, err
	}

	if failed == nil {
		return nil, nil
	}
	metrics.TransactionTransitions.WithLabelValues(domain.TransactionFailed).Inc()

	message := fmt.Sprintf("The food donation of %s, %sKg is not available. Transaction Id: %s",
		food.FoodName, FormatQuantity(food.Quantity), failed.ID.String())
	return []notification.Event{
		notification.InboxEvent(failed.ReceiverID, message, domain.NotificationTransactionFailed),
	}, nil
}

func (s *foodService) GetOwnListings(ctx context.Context, donorID string) ([]domain.FoodResponse, error) {
	donations, err := s.foodRepository.GetOwnListings(ctx, donorID)
	if err != nil {
		return nil, err
	}

	response := make([]domain.FoodResponse, 0, len(donations))
	for _, d := range donations {
		if d.Food == nil {
			continue
		}
		donatedAt := d.DonateDateTime
		response = append(response, toFoodResponse(d.Food, &donatedAt))
	}
	return response, nil
}

func (s *foodService) GetAvailableListings(ctx context.Context, role string) ([]domain.AvailableFoodResponse, error) {
	var wasteFoodType string
	switch role {
	case domain.RoleNGO:
		wasteFoodType = domain.FoodTypeFresh
	case domain.RoleAWC:
		wasteFoodType = domain.FoodTypePlateWaste
	default:
		return nil, domain.ErrRoleNotAllowed
	}

	listings, err := s.foodRepository.GetAvailableListings(ctx, wasteFoodType, s.now())
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return nil, domain.ErrNoAvailableFood
	}

	response := make([]domain.AvailableFoodResponse, 0, len(listings))
	for _, l := range listings {
		item := domain.AvailableFoodResponse{
			DonorName:      domain.UnknownDonor,
			DonorEmail:     domain.NotAvailable,
			DonorPhone:     domain.NotAvailable,
			DonorAddress:   domain.NotAvailable,
			DonorLatitude:  domain.NotAvailable,
			DonorLongitude: domain.NotAvailable,
		}

		var donatedAt *time.Time
		if l.Donation != nil {
			t := l.Donation.DonateDateTime
			donatedAt = &t
			if hostel := l.Donation.Hostel; hostel != nil {
				item.DonorName = hostel.OrganizationName
				item.DonorEmail = hostel.Email
				item.DonorPhone = hostel.Phone
				item.DonorAddress = hostel.Address
				item.DonorLatitude = hostel.Latitude
				item.DonorLongitude = hostel.Longitude
			}
		}
		item.FoodResponse = toFoodResponse(l.Food, donatedAt)
		response = append(response, item)
	}
	return response, nil
}

func (s *foodService) GetListing(ctx context.Context, foodID string) (domain.FoodResponse, error) {
	if _, err := uuid.Parse(foodID); err != nil {
		return domain.FoodResponse{}, domain.ErrParseUUID
	}

	food, err := s.foodRepository.GetFoodByID(ctx, foodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.FoodResponse{}, domain.ErrFoodNotFound
		}
		return domain.FoodResponse{}, err
	}
	return toFoodResponse(food, nil), nil
}

func (s *foodService) UploadListingImage(ctx context.Context, donorID string, foodID string, image *multipart.FileHeader) (string, error) {
	if !s.s3.Enabled() {
		return "", domain.ErrStorageDisabled
	}
	if _, err := uuid.Parse(foodID); err != nil {
		return "", domain.ErrParseUUID
	}

	if _, err := s.foodRepository.GetDonation(ctx, foodID, donorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrFoodNotFound
		}
		return "", err
	}

	food, err := s.foodRepository.GetFoodByID(ctx, foodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrFoodNotFound
		}
		return "", err
	}

	filename := fmt.Sprintf("%s-%d", food.ID.String(), s.now().Unix())
	key, err := s.s3.UploadFile(ctx, filename, image, "foods", storage.AllowImage...)
	if err != nil {
		return "", err
	}
	url := s.s3.GetPublicLinkKey(key)

	if err := s.foodRepository.UpdateFoodImage(ctx, foodID, url); err != nil {
		_ = s.s3.DeleteFile(ctx, key)
		return "", err
	}

	if food.ImageURL != "" {
		if old := s.s3.GetObjectKeyFromLink(food.ImageURL); old != "" && old != key {
			if err := s.s3.DeleteFile(ctx, old); err != nil {
				s.logger.Warn().Err(err).Str("key", old).Msg("failed to delete previous food image")
			}
		}
	}
	return url, nil
}
