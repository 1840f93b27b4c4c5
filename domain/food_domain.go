package domain

import (
	"errors"
	"time"
)

const (
	VegTypeVeg    = "VEG"
	VegTypeNonVeg = "NON-VEG"

	FoodTypeFresh      = "Fresh Food"
	FoodTypePlateWaste = "Plate Waste"

	ReasonSpecialEvent = "Special Event"
	ReasonSemesterExam = "Semester Examination"
	ReasonOverCooking  = "Over Cooking"
	ReasonOthers       = "Others"

	// FoodNameNotApplicable is stored as the name of plate-waste listings.
	FoodNameNotApplicable = "N/A"

	UnknownDonor = "Unknown Donor"
	NotAvailable = "N/A"
)

var (
	MessageSuccessAddFood        = "food donated successfully"
	MessageSuccessUpdateFood     = "food updated successfully"
	MessageSuccessDeleteFood     = "food donation removed successfully"
	MessageSuccessGetFoods       = "foods retrieved successfully"
	MessageSuccessGetFood        = "food retrieved successfully"
	MessageSuccessUploadImage    = "food image uploaded successfully"
	MessageNoFoodDonations       = "no food donations found"
	MessageFailedAddFood         = "food donation failed, please try again later"
	MessageFailedUpdateFood      = "failed to update food, please try again later"
	MessageFailedDeleteFood      = "failed to update food and transaction, please try again later"
	MessageFailedGetFoods        = "fetching food donations failed, please try again later"
	MessageFailedGetFood         = "something went wrong, could not find food"
	MessageFailedGetAvailable    = "fetching available foods failed, please try again later"
	MessageFailedUploadFoodImage = "failed to upload food image"

	ErrFoodNotFound            = errors.New("food not found")
	ErrNoAvailableFood         = errors.New("no available food found")
	ErrInvalidExpiryTime       = errors.New("expiry time must be after cooked time")
	ErrInvalidTimeFormat       = errors.New("invalid time format, expected RFC 3339")
	ErrFoodNameRequired        = errors.New("food name is required for fresh food")
	ErrInvalidQuantity         = errors.New("quantity must be positive")
	ErrActiveTransactionExists = errors.New("food has an active transaction and cannot be made available")
	ErrStorageDisabled         = errors.New("image storage is not configured")
	ErrInvalidImageFormat      = errors.New("invalid image format")
)

type (
	FoodRequest struct {
		VegType       string  `json:"veg_type" validate:"required,oneof=VEG NON-VEG"`
		WasteFoodType string  `json:"waste_food_type" validate:"required,oneof='Fresh Food' 'Plate Waste'"`
		FoodName      string  `json:"food_name" validate:"omitempty,max=120"`
		Quantity      float64 `json:"quantity" validate:"required,gt=0"`
		CookedTime    string  `json:"cooked_time" validate:"required"`
		ExpiryTime    string  `json:"expiry_time" validate:"required"`
		WastageReason string  `json:"wastage_reason" validate:"required,oneof='Special Event' 'Semester Examination' 'Over Cooking' Others"`
	}

	UpdateFoodRequest struct {
		FoodRequest
		Available bool `json:"available"`
	}

	AddFoodResponse struct {
		FoodID string `json:"food_id"`
	}

	FoodResponse struct {
		ID             string     `json:"id"`
		VegType        string     `json:"veg_type"`
		WasteFoodType  string     `json:"waste_food_type"`
		FoodName       string     `json:"food_name"`
		Quantity       float64    `json:"quantity"`
		CookedTime     time.Time  `json:"cooked_time"`
		ExpiryTime     time.Time  `json:"expiry_time"`
		WastageReason  string     `json:"wastage_reason"`
		Available      bool       `json:"available"`
		ImageURL       string     `json:"image_url,omitempty"`
		CreatedAt      time.Time  `json:"created_at"`
		DonateDateTime *time.Time `json:"donate_date_time,omitempty"`
	}

	AvailableFoodResponse struct {
		FoodResponse
		DonorName      string `json:"donor_name"`
		DonorEmail     string `json:"donor_email"`
		DonorPhone     string `json:"donor_phone"`
		DonorAddress   string `json:"donor_address"`
		DonorLatitude  any    `json:"donor_latitude"`
		DonorLongitude any    `json:"donor_longitude"`
	}
)
