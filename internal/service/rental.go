package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gearshare-backend/internal/apperr"
	"gearshare-backend/internal/domain"
	"gearshare-backend/internal/geocode"
	"gearshare-backend/internal/logger"
	"gearshare-backend/internal/pricing"
	"gearshare-backend/internal/repository"
)

const dateLayout = "2006-01-02"

type rentalService struct {
	rentalRepo  repository.RentalRequestRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	eventRepo   repository.DeliveryEventRepository
	geocoder    geocode.Geocoder
	cache       SnapshotCache
	emailSvc    EmailService
	now         func() time.Time
}

func NewRentalService(
	rentalRepo repository.RentalRequestRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	eventRepo repository.DeliveryEventRepository,
	geocoder geocode.Geocoder,
	cache SnapshotCache,
	emailSvc EmailService,
) RentalService {
	return &rentalService{
		rentalRepo:  rentalRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		eventRepo:   eventRepo,
		geocoder:    geocoder,
		cache:       cache,
		emailSvc:    emailSvc,
		now:         time.Now,
	}
}

func (s *rentalService) SubmitRequest(ctx context.Context, renter domain.UserRef, listingID int64, startDateStr, endDateStr, message string) (*domain.RentalRequest, error) {
	listing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("listing")
		}
		return nil, err
	}
	if listing.Owner.Equal(renter) {
		return nil, apperr.Validation("you cannot rent your own listing")
	}
	if !listing.IsAvailable || listing.RentalStatus != domain.ListingStatusAvailable {
		return nil, apperr.Conflict("listing is not available for rent")
	}

	start, err := time.Parse(dateLayout, startDateStr)
	if err != nil {
		return nil, apperr.Validation("invalid start_date, expected YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, endDateStr)
	if err != nil {
		return nil, apperr.Validation("invalid end_date, expected YYYY-MM-DD")
	}

	now := s.now()
	tomorrow := now.UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	if start.Before(tomorrow) {
		return nil, apperr.Validation("start_date must be tomorrow or later")
	}
	if !end.After(start) {
		return nil, apperr.Validation("end_date must be after start_date")
	}

	open, err := s.rentalRepo.HasOpenRequest(ctx, listingID, renter)
	if err != nil {
		return nil, err
	}
	if open {
		return nil, apperr.Conflict("you already have a pending request on this listing")
	}

	days := pricing.RentalDays(start, end)
	req := &domain.RentalRequest{
		ListingID:     listingID,
		Renter:        renter,
		Owner:         listing.Owner,
		StartDate:     start,
		EndDate:       end,
		TotalDays:     days,
		TotalPrice:    pricing.RentalPrice(days, listing.PricePerDay),
		Status:        domain.RequestStatusPending,
		PaymentStatus: domain.PaymentStatusUnpaid,
		Message:       message,
	}
	if err := s.rentalRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	if owner, oerr := s.userRepo.GetByRef(ctx, listing.Owner); oerr == nil {
		renterName := renter.ID
		if u, uerr := s.userRepo.GetByRef(ctx, renter); uerr == nil {
			renterName = u.Name
		}
		if serr := s.emailSvc.SendRequestSubmitted(ctx, owner.Email, owner.Name, renterName, listing.Title); serr != nil {
			logger.Warn("failed to send owner notification", "request_id", req.ID, "error", serr)
		}
	}

	return req, nil
}

func (s *rentalService) Decide(ctx context.Context, actor domain.UserRef, requestID int64, status domain.RequestStatus, denialReason string) (*domain.RentalRequest, error) {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Owner.Equal(actor) {
		return nil, apperr.Forbidden("only the listing owner can decide this request")
	}
	if status != domain.RequestStatusApproved && status != domain.RequestStatusDenied {
		return nil, apperr.Validation("decision must be approved or denied")
	}
	if req.Status != domain.RequestStatusPending {
		return nil, apperr.InvalidTransition("request has already been decided", string(req.Status))
	}
	if status == domain.RequestStatusDenied && denialReason == "" {
		return nil, apperr.Validation("denial_reason is required when denying a request")
	}

	if err := s.rentalRepo.UpdateDecision(ctx, requestID, status, denialReason); err != nil {
		return nil, s.mapTransitionErr(ctx, err, requestID)
	}

	if status == domain.RequestStatusApproved {
		if err := s.listingRepo.SetAvailability(ctx, req.ListingID, false, domain.ListingStatusPendingPayment); err != nil {
			logger.ErrorContext(ctx, "failed to flip listing availability on approval",
				"listing_id", req.ListingID, "request_id", requestID, "error", err)
		}
	}

	s.notifyRenter(ctx, req, func(renter *domain.User, listing *domain.Listing) error {
		return s.emailSvc.SendRequestDecided(ctx, renter.Email, renter.Name, listing.Title,
			status == domain.RequestStatusApproved, denialReason)
	})

	return s.rentalRepo.GetByID(ctx, requestID)
}

func (s *rentalService) Pay(ctx context.Context, actor domain.UserRef, requestID int64, method, transactionID string) (*domain.RentalRequest, error) {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Renter.Equal(actor) {
		return nil, apperr.Forbidden("only the renter can pay for this request")
	}
	if req.Status != domain.RequestStatusApproved {
		return nil, apperr.InvalidTransition("payment is only possible on an approved request", string(req.Status))
	}
	if method == "" || transactionID == "" {
		return nil, apperr.Validation("payment method and transaction_id are required")
	}

	update := repository.PaymentUpdate{
		Method:        method,
		TransactionID: transactionID,
		PlatformFee:   pricing.PlatformFee(req.TotalPrice),
		PaidAt:        s.now(),
	}
	if err := s.rentalRepo.UpdatePayment(ctx, requestID, update); err != nil {
		return nil, s.mapTransitionErr(ctx, err, requestID)
	}

	if err := s.listingRepo.SetAvailability(ctx, req.ListingID, false, domain.ListingStatusRented); err != nil {
		logger.ErrorContext(ctx, "failed to mark listing rented after payment",
			"listing_id", req.ListingID, "request_id", requestID, "error", err)
	}

	s.notifyOwner(ctx, req, func(owner *domain.User, listing *domain.Listing) error {
		return s.emailSvc.SendPaymentReceived(ctx, owner.Email, owner.Name, listing.Title, req.TotalPrice)
	})

	return s.rentalRepo.GetByID(ctx, requestID)
}

func (s *rentalService) ChooseDelivery(ctx context.Context, actor domain.UserRef, requestID int64, option domain.DeliveryOption, address string) (*domain.RentalRequest, bool, error) {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, false, err
	}
	if !req.Renter.Equal(actor) {
		return nil, false, apperr.Forbidden("only the renter can choose a delivery option")
	}
	if req.Status != domain.RequestStatusPaid {
		return nil, false, apperr.InvalidTransition("delivery option can only be chosen after payment", string(req.Status))
	}
	if req.Delivery.Chosen() {
		return nil, false, apperr.Conflict("delivery option has already been chosen")
	}

	leg := domain.DeliveryLeg{Option: option}
	switch option {
	case domain.DeliveryOptionPickup:
		// In-person handoff, nothing to pay.
		leg.Paid = true
	case domain.DeliveryOptionDelivery:
		if address == "" {
			return nil, false, apperr.Validation("delivery address is required for the delivery option")
		}
		listing, err := s.listingRepo.GetByID(ctx, req.ListingID)
		if err != nil {
			return nil, false, err
		}
		lat, lng, err := s.geocoder.Geocode(ctx, address)
		if err != nil {
			return nil, false, err
		}
		leg.Address = address
		leg.Lat = lat
		leg.Lng = lng
		leg.DistanceKm = pricing.HaversineKm(listing.Lat, listing.Lng, lat, lng)
		leg.Cost = pricing.DeliveryCost(leg.DistanceKm, listing.Category)
		leg.Paid = leg.Cost == 0
	default:
		return nil, false, apperr.Validation("delivery option must be pickup or delivery")
	}

	if err := s.rentalRepo.SetDeliveryOption(ctx, requestID, leg); err != nil {
		return nil, false, s.mapTransitionErr(ctx, err, requestID)
	}
	s.invalidateTracking(ctx, requestID)

	updated, err := s.rentalRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, false, err
	}
	return updated, !leg.Paid, nil
}

func (s *rentalService) PayDeliveryFee(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error) {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Renter.Equal(actor) {
		return nil, apperr.Forbidden("only the renter can pay the delivery fee")
	}
	if req.Delivery.Option != domain.DeliveryOptionDelivery {
		return nil, apperr.InvalidTransition("no delivery fee is due for this request", string(req.Status))
	}
	if req.Delivery.Paid {
		return nil, apperr.Conflict("delivery fee has already been paid")
	}

	listing, err := s.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}

	// The expected timestamps are computed exactly once here; the simulation
	// engine only ever reads them.
	shippedAt := s.now()
	sched := pricing.ComputeDeliverySchedule(shippedAt, req.Delivery.DistanceKm, listing.Category)
	if err := s.rentalRepo.MarkDeliveryPaid(ctx, requestID, shippedAt, sched.ExpectedEnRouteAt, sched.ExpectedDeliveredAt); err != nil {
		return nil, s.mapTransitionErr(ctx, err, requestID)
	}

	s.appendEvent(ctx, requestID, domain.DeliveryEventShipped,
		fmt.Sprintf("Item shipped, expected delivery by %s", sched.ExpectedDeliveredAt.Format(time.RFC3339)))
	s.invalidateTracking(ctx, requestID)

	return s.rentalRepo.GetByID(ctx, requestID)
}

func (s *rentalService) ConfirmPickup(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error) {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	role, ok := req.RoleOf(actor)
	if !ok {
		return nil, apperr.NotFound("rental request")
	}
	if req.Status != domain.RequestStatusPaid {
		return nil, apperr.InvalidTransition("pickup can only be confirmed on a paid request", string(req.Status))
	}

	switch req.Delivery.Option {
	case domain.DeliveryOptionPickup:
		if req.Pickup.ConfirmedBy(role) {
			return nil, apperr.Conflict("you have already confirmed the pickup")
		}
		if err := s.rentalRepo.ConfirmPickup(ctx, requestID, role); err != nil {
			return nil, s.mapTransitionErr(ctx, err, requestID)
		}
		updated, err := s.rentalRepo.GetByID(ctx, requestID)
		if err != nil {
			return nil, err
		}
		if updated.Pickup.BothConfirmed() {
			// Both parties agreed the handoff happened; the leg is terminal
			// without any courier simulation. A stale result here means a
			// concurrent confirmation already completed it.
			if err := s.rentalRepo.SetPickupComplete(ctx, requestID, s.now()); err != nil && !errors.Is(err, repository.ErrStale) {
				return nil, err
			}
			s.appendEvent(ctx, requestID, domain.DeliveryEventPickupConfirmed, "Pickup confirmed by both parties")
		}
		s.invalidateTracking(ctx, requestID)
		return s.rentalRepo.GetByID(ctx, requestID)

	case domain.DeliveryOptionDelivery:
		if role != domain.RoleRenter {
			return nil, apperr.Forbidden("only the renter can confirm receipt of a delivery")
		}
		if req.Delivery.Status != domain.DeliveryStatusDelivered {
			return nil, apperr.InvalidTransition("delivery has not arrived yet", string(req.Delivery.Status))
		}
		if req.DeliveryConfirmed {
			return nil, apperr.Conflict("delivery receipt has already been confirmed")
		}
		if err := s.rentalRepo.SetDeliveryConfirmed(ctx, requestID); err != nil {
			return nil, s.mapTransitionErr(ctx, err, requestID)
		}
		s.appendEvent(ctx, requestID, domain.DeliveryEventDeliveryConfirmed, "Renter confirmed receipt of the item")
		s.invalidateTracking(ctx, requestID)
		return s.rentalRepo.GetByID(ctx, requestID)

	default:
		return nil, apperr.InvalidTransition("no delivery option has been chosen yet", string(req.Status))
	}
}

func (s *rentalService) InitiateReturn(ctx context.Context, actor domain.UserRef, requestID int64, option domain.DeliveryOption, address string) (*domain.RentalRequest, error) {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Renter.Equal(actor) {
		return nil, apperr.Forbidden("only the renter can initiate a return")
	}
	if req.Status != domain.RequestStatusPaid {
		return nil, apperr.InvalidTransition("return is only possible on an active rental", string(req.Status))
	}
	if !req.HandedOver() {
		return nil, apperr.InvalidTransition("item handover has not been confirmed yet", string(req.Status))
	}
	now := s.now()
	if now.Before(req.EndDate) {
		return nil, apperr.Validation("return cannot be initiated before the rental period ends")
	}
	if req.ReturnInitiated {
		return nil, apperr.Conflict("return has already been initiated")
	}

	leg := domain.DeliveryLeg{Option: option}
	switch option {
	case domain.DeliveryOptionPickup:
		leg.Paid = true
	case domain.DeliveryOptionDelivery:
		if address == "" {
			address = req.Delivery.Address
		}
		if address == "" {
			return nil, apperr.Validation("return address is required for the delivery option")
		}
		listing, err := s.listingRepo.GetByID(ctx, req.ListingID)
		if err != nil {
			return nil, err
		}
		lat, lng := req.Delivery.Lat, req.Delivery.Lng
		if address != req.Delivery.Address {
			lat, lng, err = s.geocoder.Geocode(ctx, address)
			if err != nil {
				return nil, err
			}
		}
		leg.Address = address
		leg.Lat = lat
		leg.Lng = lng
		leg.DistanceKm = pricing.HaversineKm(lat, lng, listing.Lat, listing.Lng)
		leg.Cost = pricing.DeliveryCost(leg.DistanceKm, listing.Category)
		leg.Paid = leg.Cost == 0
	default:
		return nil, apperr.Validation("return option must be pickup or delivery")
	}

	fee := pricing.CalculateLateFee(req.EndDate, now, s.dailyRate(req))
	if err := s.rentalRepo.InitiateReturn(ctx, requestID, leg, fee.IsLate, fee.Amount, fee.DaysLate); err != nil {
		return nil, s.mapTransitionErr(ctx, err, requestID)
	}

	s.appendEvent(ctx, requestID, domain.DeliveryEventReturnInitiated, "Return initiated by renter")
	s.notifyOwner(ctx, req, func(owner *domain.User, listing *domain.Listing) error {
		return s.emailSvc.SendReturnInitiated(ctx, owner.Email, owner.Name, listing.Title, fee.Amount)
	})
	s.invalidateTracking(ctx, requestID)

	return s.rentalRepo.GetByID(ctx, requestID)
}

func (s *rentalService) PayReturnDeliveryFee(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error) {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !req.Renter.Equal(actor) {
		return nil, apperr.Forbidden("only the renter can pay the return delivery fee")
	}
	if !req.ReturnInitiated || req.Return.Option != domain.DeliveryOptionDelivery {
		return nil, apperr.InvalidTransition("no return delivery fee is due for this request", string(req.Status))
	}
	if req.Return.Paid {
		return nil, apperr.Conflict("return delivery fee has already been paid")
	}

	listing, err := s.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}

	shippedAt := s.now()
	sched := pricing.ComputeDeliverySchedule(shippedAt, req.Return.DistanceKm, listing.Category)
	if err := s.rentalRepo.MarkReturnPaid(ctx, requestID, shippedAt, sched.ExpectedEnRouteAt, sched.ExpectedDeliveredAt); err != nil {
		return nil, s.mapTransitionErr(ctx, err, requestID)
	}

	s.appendEvent(ctx, requestID, domain.DeliveryEventReturnShipped,
		fmt.Sprintf("Return shipped, expected delivery by %s", sched.ExpectedDeliveredAt.Format(time.RFC3339)))
	s.invalidateTracking(ctx, requestID)

	return s.rentalRepo.GetByID(ctx, requestID)
}

func (s *rentalService) ConfirmReturn(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error) {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	role, ok := req.RoleOf(actor)
	if !ok {
		return nil, apperr.NotFound("rental request")
	}
	if req.Status != domain.RequestStatusPaid {
		return nil, apperr.InvalidTransition("return can only be confirmed on an active rental", string(req.Status))
	}
	if !req.ReturnInitiated {
		return nil, apperr.InvalidTransition("return has not been initiated", string(req.Status))
	}
	if req.Return.Option == domain.DeliveryOptionDelivery && req.Return.Status != domain.DeliveryStatusDelivered {
		return nil, apperr.InvalidTransition("return delivery has not arrived yet", string(req.Return.Status))
	}
	if req.ReturnHandshake.ConfirmedBy(role) {
		return nil, apperr.Conflict("you have already confirmed the return")
	}

	if err := s.rentalRepo.ConfirmReturn(ctx, requestID, role); err != nil {
		return nil, s.mapTransitionErr(ctx, err, requestID)
	}

	updated, err := s.rentalRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if updated.ReturnHandshake.BothConfirmed() && updated.Status != domain.RequestStatusCompleted {
		if err := s.rentalRepo.Complete(ctx, requestID); err != nil && !errors.Is(err, repository.ErrStale) {
			return nil, err
		}
		if err := s.listingRepo.SetAvailability(ctx, req.ListingID, true, domain.ListingStatusAvailable); err != nil {
			logger.ErrorContext(ctx, "failed to reactivate listing after return",
				"listing_id", req.ListingID, "request_id", requestID, "error", err)
		}
		s.appendEvent(ctx, requestID, domain.DeliveryEventReturnConfirmed, "Return confirmed by both parties")
		s.notifyBoth(ctx, req)
	}
	s.invalidateTracking(ctx, requestID)

	return s.rentalRepo.GetByID(ctx, requestID)
}

func (s *rentalService) GetRequest(ctx context.Context, actor domain.UserRef, requestID int64) (*domain.RentalRequest, error) {
	req, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	// Non-participants get the same answer as a missing id.
	if _, ok := req.RoleOf(actor); !ok {
		return nil, apperr.NotFound("rental request")
	}
	return req, nil
}

func (s *rentalService) ListForRenter(ctx context.Context, actor domain.UserRef, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	page, pageSize = normalizePaging(page, pageSize)
	return s.rentalRepo.ListByRenter(ctx, actor, status, page, pageSize)
}

func (s *rentalService) ListForOwner(ctx context.Context, actor domain.UserRef, status string, page, pageSize int32) ([]domain.RentalRequest, int32, error) {
	page, pageSize = normalizePaging(page, pageSize)
	return s.rentalRepo.ListByOwner(ctx, actor, status, page, pageSize)
}

func (s *rentalService) loadRequest(ctx context.Context, requestID int64) (*domain.RentalRequest, error) {
	req, err := s.rentalRepo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("rental request")
		}
		return nil, err
	}
	return req, nil
}

// mapTransitionErr translates a stale conditional update into an
// invalid-transition error carrying the state the loser actually lost to.
func (s *rentalService) mapTransitionErr(ctx context.Context, err error, requestID int64) error {
	if !errors.Is(err, repository.ErrStale) {
		return err
	}
	current := "unknown"
	if req, gerr := s.rentalRepo.GetByID(ctx, requestID); gerr == nil {
		current = string(req.Status)
	}
	return apperr.InvalidTransition("request state changed concurrently", current)
}

func (s *rentalService) dailyRate(req *domain.RentalRequest) float64 {
	if req.TotalDays <= 0 {
		return 0
	}
	return req.TotalPrice / float64(req.TotalDays)
}

func (s *rentalService) appendEvent(ctx context.Context, requestID int64, eventType domain.DeliveryEventType, description string) {
	ev := &domain.DeliveryEvent{RequestID: requestID, EventType: eventType, Description: description, EventTime: s.now()}
	if err := s.eventRepo.Append(ctx, ev); err != nil {
		logger.ErrorContext(ctx, "failed to append delivery event",
			"request_id", requestID, "event_type", eventType, "error", err)
	}
}

func (s *rentalService) invalidateTracking(ctx context.Context, requestID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, requestID); err != nil {
		logger.Warn("failed to invalidate tracking cache", "request_id", requestID, "error", err)
	}
}

func (s *rentalService) notifyOwner(ctx context.Context, req *domain.RentalRequest, send func(owner *domain.User, listing *domain.Listing) error) {
	owner, err := s.userRepo.GetByRef(ctx, req.Owner)
	if err != nil {
		return
	}
	listing, err := s.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		return
	}
	if err := send(owner, listing); err != nil {
		logger.Warn("failed to send owner notification", "request_id", req.ID, "error", err)
	}
}

func (s *rentalService) notifyRenter(ctx context.Context, req *domain.RentalRequest, send func(renter *domain.User, listing *domain.Listing) error) {
	renter, err := s.userRepo.GetByRef(ctx, req.Renter)
	if err != nil {
		return
	}
	listing, err := s.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		return
	}
	if err := send(renter, listing); err != nil {
		logger.Warn("failed to send renter notification", "request_id", req.ID, "error", err)
	}
}

func (s *rentalService) notifyBoth(ctx context.Context, req *domain.RentalRequest) {
	listing, err := s.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		return
	}
	for _, ref := range []domain.UserRef{req.Renter, req.Owner} {
		user, err := s.userRepo.GetByRef(ctx, ref)
		if err != nil {
			continue
		}
		if err := s.emailSvc.SendRentalCompleted(ctx, user.Email, user.Name, listing.Title); err != nil {
			logger.Warn("failed to send completion notification", "request_id", req.ID, "error", err)
		}
	}
}

func normalizePaging(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
