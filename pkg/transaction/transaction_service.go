package transaction

import (
	"SaveByte/domain"
	"SaveByte/entities"
	"SaveByte/internal/metrics"
	"SaveByte/internal/utils/mailing"
	"SaveByte/pkg/food"
	"SaveByte/pkg/notification"
	"SaveByte/pkg/otp"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type (
	TransactionService interface {
		AcceptFood(ctx context.Context, foodID string, receiverID string, receiverRole string) (domain.TransactionResponse, []notification.Event, error)
		RejectFood(ctx context.Context, foodID string, actingUserID string) ([]notification.Event, error)
		VerifyOtp(ctx context.Context, transactionID string, actingUserID string, code string) ([]notification.Event, error)
		GetTransaction(ctx context.Context, transactionID string, actingUserID string) (domain.TransactionResponse, error)
		ListByDonor(ctx context.Context, actingUserID string, donorID string) ([]domain.TransactionResponse, error)
		ListByReceiver(ctx context.Context, actingUserID string, receiverID string) ([]domain.TransactionResponse, error)
	}

	Options struct {
		MaxOTPAttempts int
		Limiter        *otp.Limiter
	}

	transactionService struct {
		transactionRepository TransactionRepository
		maxAttempts           int
		limiter               *otp.Limiter
		logger                zerolog.Logger
		now                   func() time.Time
		generate              func() (string, error)
	}
)

func NewTransactionService(transactionRepository TransactionRepository, opts Options, logger zerolog.Logger) TransactionService {
	if opts.MaxOTPAttempts < 1 {
		opts.MaxOTPAttempts = 5
	}
	if opts.Limiter == nil {
		opts.Limiter = otp.NewLimiter(time.Minute, opts.MaxOTPAttempts)
	}
	return &transactionService{
		transactionRepository: transactionRepository,
		maxAttempts:           opts.MaxOTPAttempts,
		limiter:               opts.Limiter,
		logger:                logger,
		now:                   time.Now,
		generate:              otp.Generate,
	}
}

func isParty(t *entities.Transaction, userID string) bool {
	return t.DonorID.String() == userID || t.ReceiverID.String() == userID
}

func (s *transactionService) AcceptFood(ctx context.Context, foodID string, receiverID string, receiverRole string) (domain.TransactionResponse, []notification.Event, error) {
	if _, err := uuid.Parse(foodID); err != nil {
		return domain.TransactionResponse{}, nil, domain.ErrParseUUID
	}
	receiverUUID, err := uuid.Parse(receiverID)
	if err != nil {
		return domain.TransactionResponse{}, nil, domain.ErrParseUUID
	}
	if receiverRole != domain.RoleNGO && receiverRole != domain.RoleAWC {
		return domain.TransactionResponse{}, nil, domain.ErrRoleNotAllowed
	}

	listing, err := s.transactionRepository.GetFoodByID(ctx, foodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TransactionResponse{}, nil, domain.ErrFoodNotFound
		}
		return domain.TransactionResponse{}, nil, err
	}
	if food.ReceiverRole(listing.WasteFoodType) != receiverRole {
		return domain.TransactionResponse{}, nil, domain.ErrRoleNotAllowed
	}

	code, err := s.generate()
	if err != nil {
		return domain.TransactionResponse{}, nil, err
	}

	now := s.now()
	expiresAt := now.Add(domain.OTPValidity)
	var created *entities.Transaction

	err = s.transactionRepository.RunInTx(ctx, func(repo TransactionRepository) error {
		claimed, err := repo.ClaimFood(ctx, foodID)
		if err != nil {
			return err
		}
		if !claimed {
			return domain.ErrFoodNotAvailable
		}

		donation, err := repo.GetDonationByFood(ctx, foodID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrDonationNotFound
			}
			return err
		}

		created = &entities.Transaction{
			ID:            uuid.New(),
			DonorID:       donation.HostelID,
			ReceiverID:    receiverUUID,
			FoodID:        listing.ID,
			Status:        domain.TransactionStarted,
			OTP:           &code,
			OTPExpiresAt:  &expiresAt,
			StartDateTime: now,
		}
		return repo.CreateTransaction(ctx, created)
	})
	if err != nil {
		return domain.TransactionResponse{}, nil, err
	}
	metrics.TransactionTransitions.WithLabelValues(domain.TransactionStarted).Inc()

	txID := created.ID.String()
	events := []notification.Event{
		notification.InboxEvent(created.DonorID,
			fmt.Sprintf("Your food donation has been accepted, Transaction Id: %s. Please verify OTP before handing Food", txID),
			domain.NotificationTransactionStarted),
	}
	if receiver, err := s.transactionRepository.GetUserByID(ctx, receiverID); err != nil {
		s.logger.Error().Err(err).Str("transaction_id", txID).Msg("failed to load receiver for OTP email")
	} else if receiver.Email != "" {
		events = append(events, notification.MailEvent(receiver.ID, mailing.OTPMail(receiver.Email, code)))
	}

	created.Food = listing
	return toTransactionResponse(created, false, false), events, nil
}

func (s *transactionService) RejectFood(ctx context.Context, foodID string, actingUserID string) ([]notification.Event, error) {
	if _, err := uuid.Parse(foodID); err != nil {
		return nil, domain.ErrParseUUID
	}

	var failed *entities.Transaction
	err := s.transactionRepository.RunInTx(ctx, func(repo TransactionRepository) error {
		if err := repo.LockFood(ctx, foodID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTransactionNotFound
			}
			return err
		}
		active, err := repo.GetActiveByFoodForUpdate(ctx, foodID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTransactionNotFound
			}
			return err
		}
		if !isParty(active, actingUserID) {
			return domain.ErrNotTransactionParty
		}

		if err := repo.ReleaseFood(ctx, foodID); err != nil {
			return err
		}
		if err := repo.FailTransaction(ctx, active.ID.String(), s.now()); err != nil {
			return err
		}
		failed = active
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.TransactionTransitions.WithLabelValues(domain.TransactionFailed).Inc()
	s.limiter.Forget(failed.ID.String())

	txID := failed.ID.String()
	if failed.DonorID.String() == actingUserID {
		return []notification.Event{notification.InboxEvent(failed.ReceiverID,
			fmt.Sprintf("Pick-up request has been rejected by Donor!, Transaction Id: %s", txID),
			domain.NotificationTransactionFailed)}, nil
	}
	return []notification.Event{notification.InboxEvent(failed.DonorID,
		fmt.Sprintf("Pick-up has been cancelled by Receiver!, Transaction Id: %s", txID),
		domain.NotificationTransactionFailed)}, nil
}

func validCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (s *transactionService) VerifyOtp(ctx context.Context, transactionID string, actingUserID string, code string) ([]notification.Event, error) {
	if _, err := uuid.Parse(transactionID); err != nil {
		return nil, domain.ErrParseUUID
	}
	if !validCode(code) {
		return nil, domain.ErrInvalidOtpFormat
	}

	var verified *entities.Transaction
	var mismatch bool

	err := s.transactionRepository.RunInTx(ctx, func(repo TransactionRepository) error {
		t, err := repo.GetByIDForUpdate(ctx, transactionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTransactionNotFound
			}
			return err
		}
		if !isParty(t, actingUserID) {
			return domain.ErrNotTransactionParty
		}

		now := s.now()
		if t.OTP == nil || t.OTPExpiresAt == nil || now.After(*t.OTPExpiresAt) {
			metrics.OTPVerifications.WithLabelValues("expired").Inc()
			return domain.ErrOtpExpired
		}
		if t.OTPAttempts >= s.maxAttempts || !s.limiter.Allow(transactionID) {
			metrics.OTPVerifications.WithLabelValues("throttled").Inc()
			return domain.ErrOtpAttemptsExceeded
		}

		if !otp.Equal(*t.OTP, code) {
			mismatch = true
			metrics.OTPVerifications.WithLabelValues("invalid").Inc()
			return repo.IncrementOTPAttempts(ctx, transactionID)
		}

		if err := repo.CompleteTransaction(ctx, transactionID, now); err != nil {
			return err
		}
		metrics.OTPVerifications.WithLabelValues("ok").Inc()
		verified = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	if mismatch {
		return nil, domain.ErrOtpInvalid
	}
	metrics.TransactionTransitions.WithLabelValues(domain.TransactionCompleted).Inc()
	s.limiter.Forget(transactionID)

	events := []notification.Event{
		notification.InboxEvent(verified.DonorID,
			fmt.Sprintf("Your food donation, Transaction Id: %s has been successfully completed!", transactionID),
			domain.NotificationTransactionCompleted),
	}
	if donor, err := s.transactionRepository.GetUserByID(ctx, verified.DonorID.String()); err == nil && donor.Email != "" {
		events = append(events, notification.MailEvent(donor.ID, mailing.DonorHandoffMail(donor.Email, transactionID)))
	}
	if receiver, err := s.transactionRepository.GetUserByID(ctx, verified.ReceiverID.String()); err == nil && receiver.Email != "" {
		events = append(events, notification.MailEvent(receiver.ID, mailing.ReceiverHandoffMail(receiver.Email, transactionID)))
	}
	return events, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, transactionID string, actingUserID string) (domain.TransactionResponse, error) {
	if _, err := uuid.Parse(transactionID); err != nil {
		return domain.TransactionResponse{}, domain.ErrParseUUID
	}

	t, err := s.transactionRepository.GetTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.TransactionResponse{}, domain.ErrTransactionNotFound
		}
		return domain.TransactionResponse{}, err
	}
	if !isParty(t, actingUserID) {
		return domain.TransactionResponse{}, domain.ErrUserNotAllowed
	}
	return toTransactionResponse(t, true, true), nil
}

func (s *transactionService) ListByDonor(ctx context.Context, actingUserID string, donorID string) ([]domain.TransactionResponse, error) {
	if actingUserID != donorID {
		return nil, domain.ErrUserNotAllowed
	}
	transactions, err := s.transactionRepository.GetTransactionsByDonor(ctx, donorID)
	if err != nil {
		return nil, err
	}
	return toTransactionResponses(transactions, false, true)
}

func (s *transactionService) ListByReceiver(ctx context.Context, actingUserID string, receiverID string) ([]domain.TransactionResponse, error) {
	if actingUserID != receiverID {
		return nil, domain.ErrUserNotAllowed
	}
	transactions, err := s.transactionRepository.GetTransactionsByReceiver(ctx, receiverID)
	if err != nil {
		return nil, err
	}
	return toTransactionResponses(transactions, false, false)
}

func toTransactionResponses(transactions []*entities.Transaction, donorPhone, receiverPhone bool) ([]domain.TransactionResponse, error) {
	if len(transactions) == 0 {
		return nil, domain.ErrNoTransactions
	}
	response := make([]domain.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		response = append(response, toTransactionResponse(t, donorPhone, receiverPhone))
	}
	return response, nil
}

func toParty(u *entities.User, withPhone bool) *domain.PartySummary {
	if u == nil {
		return nil
	}
	party := &domain.PartySummary{
		ID:               u.ID.String(),
		OrganizationName: u.OrganizationName,
		Latitude:         u.Latitude,
		Longitude:        u.Longitude,
	}
	if withPhone {
		party.Phone = u.Phone
	}
	return party
}

// toTransactionResponse includes a party's phone only when the caller's view
// needs it.
func toTransactionResponse(t *entities.Transaction, donorPhone, receiverPhone bool) domain.TransactionResponse {
	res := domain.TransactionResponse{
		ID:                t.ID.String(),
		Status:            t.Status,
		Donor:             toParty(t.Donor, donorPhone),
		Receiver:          toParty(t.Receiver, receiverPhone),
		OTPExpiresAt:      t.OTPExpiresAt,
		StartDateTime:     t.StartDateTime,
		FailedDateTime:    t.FailedDateTime,
		CompletedDateTime: t.CompletedDateTime,
	}
	if t.Food != nil {
		res.Food = &domain.FoodSummary{
			ID:         t.Food.ID.String(),
			FoodName:   t.Food.FoodName,
			Quantity:   t.Food.Quantity,
			CookedTime: t.Food.CookedTime,
			ExpiryTime: t.Food.ExpiryTime,
		}
	}
	return res
}
