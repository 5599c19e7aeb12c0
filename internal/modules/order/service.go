package order

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"jetfood/internal/modules/account"
	"jetfood/internal/modules/catalog"
	"jetfood/internal/modules/pricing"
	"jetfood/internal/modules/settlement"
	"jetfood/internal/paylink"
	"jetfood/internal/types"
)

var (
	ErrNotFound              = errors.New("order not found")
	ErrInvalidState          = errors.New("invalid state transition")
	ErrConflict              = errors.New("order state conflict")
	ErrBadRequest            = errors.New("bad request")
	ErrOutOfZone             = errors.New("address is outside the delivery zone")
	ErrRestaurantUnavailable = errors.New("restaurant is not accepting orders")
	ErrNoPaymentAccount      = errors.New("restaurant has no payment account")
	ErrPromoExhausted        = errors.New("promo code usage cap reached")
)

type Pricer interface {
	Price(ctx context.Context, lines []pricing.CartLine, promoCode string, now time.Time) (*pricing.Quote, error)
}

type PaymentPlanner interface {
	CreatePayment(ctx context.Context, o settlement.Order, restaurantAccountID string) (*paylink.PaymentLink, error)
}

type ZoneChecker interface {
	InZone(ctx context.Context, p *types.Point) (bool, error)
}

type Restaurants interface {
	RestaurantByID(ctx context.Context, id types.ID) (*catalog.Restaurant, error)
	MyRestaurant(ctx context.Context, ownerID types.ID) (*catalog.Restaurant, error)
}

type Addresses interface {
	AddressByID(ctx context.Context, id, userID types.ID) (*account.Address, error)
}

// CourierGate decides whether a courier may claim orders (online + verified).
type CourierGate interface {
	CanTakeOrders(ctx context.Context, userID types.ID) error
}

type Service struct {
	store       *Store
	pricer      Pricer
	settlement  PaymentPlanner
	zone        ZoneChecker
	restaurants Restaurants
	addresses   Addresses
	couriers    CourierGate
	log         *logrus.Entry
}

func NewService(store *Store, pricer Pricer, stl PaymentPlanner, zone ZoneChecker, restaurants Restaurants, addresses Addresses, couriers CourierGate) *Service {
	return &Service{
		store:       store,
		pricer:      pricer,
		settlement:  stl,
		zone:        zone,
		restaurants: restaurants,
		addresses:   addresses,
		couriers:    couriers,
		log:         logrus.WithField("component", "order"),
	}
}

type CreateCommand struct {
	UserID       types.ID
	RestaurantID types.ID
	AddressID    types.ID
	Items        []pricing.CartLine
	PromoCode    string
}

type CreateResult struct {
	OrderID    types.ID
	Code       string
	PaymentURL string
}

type AcceptCommand struct {
	OrderID      types.ID
	OwnerUserID  types.ID
	DeliveryType DeliveryType
	PrepMinutes  int
}

// Create validates the restaurant and address, prices the cart, persists the
// order with frozen items, and obtains a split-payment link. A provider
// failure cancels the order so nothing is left payable-but-unlinked.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*CreateResult, error) {
	if len(cmd.Items) == 0 {
		return nil, ErrBadRequest
	}

	r, err := s.restaurants.RestaurantByID(ctx, cmd.RestaurantID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !r.IsActive || !r.IsApproved {
		return nil, ErrRestaurantUnavailable
	}
	if r.PaylinkAccountID == nil {
		return nil, ErrNoPaymentAccount
	}

	addr, err := s.addresses.AddressByID(ctx, cmd.AddressID, cmd.UserID)
	if errors.Is(err, account.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.zone.InZone(ctx, addr.Location)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOutOfZone
	}

	now := time.Now().UTC()
	quote, err := s.pricer.Price(ctx, cmd.Items, cmd.PromoCode, now)
	if err != nil {
		return nil, err
	}

	o := &Order{
		Code:          newCode(),
		UserID:        cmd.UserID,
		RestaurantID:  cmd.RestaurantID,
		AddressText:   addr.Text(),
		DeliveryPoint: addr.Location,
		ItemsSubtotal: quote.ItemsSubtotal,
		ServiceFee:    quote.ServiceFee,
		DeliveryFee:   quote.DeliveryFee,
		Discount:      quote.Discount,
		Total:         quote.Total,
		Status:        StatusPending,
	}
	for _, l := range quote.Lines {
		o.Items = append(o.Items, Item{DishID: l.DishID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}

	promoCode := ""
	if quote.Discount.IsPositive() {
		promoCode = cmd.PromoCode
	}
	if err := s.store.Create(ctx, o, promoCode); err != nil {
		return nil, err
	}
	s.appendEvent(ctx, o.ID, "", StatusPending, "client", &cmd.UserID)

	// The delivery fee is escrowed on the platform account until the
	// courier is credited on delivery.
	link, err := s.settlement.CreatePayment(ctx, settlement.Order{
		ID:              o.ID,
		Code:            o.Code,
		ItemsSubtotal:   o.ItemsSubtotal,
		ServiceFee:      o.ServiceFee,
		DeliveryFee:     o.DeliveryFee,
		Discount:        o.Discount,
		Total:           o.Total,
		CourierDelivery: true,
	}, *r.PaylinkAccountID)
	if err != nil {
		s.log.WithError(err).WithField("order_id", o.ID).Warn("payment link failed, cancelling order")
		if _, cerr := s.store.UpdateStatus(ctx, o.ID, StatusPending, StatusCancelled); cerr == nil {
			s.appendEvent(ctx, o.ID, StatusPending, StatusCancelled, "system", nil)
		}
		return nil, err
	}

	if err := s.store.SetInvoice(ctx, o.ID, link.InvoiceID); err != nil {
		return nil, err
	}
	return &CreateResult{OrderID: o.ID, Code: o.Code, PaymentURL: link.URL}, nil
}

// MarkPaid advances a pending order after provider confirmation. Callers on
// the webhook path treat every error as a logged no-op.
func (s *Service) MarkPaid(ctx context.Context, id types.ID) error {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanTransition(o.Status, StatusPaid) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, id, StatusPending, StatusPaid)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	s.appendEvent(ctx, id, StatusPending, StatusPaid, "webhook", nil)
	return nil
}

// Accept records the restaurant's delivery plan: app-courier orders go to
// courier search, self-delivered orders straight to preparation.
func (s *Service) Accept(ctx context.Context, cmd AcceptCommand) (*Order, error) {
	if cmd.PrepMinutes <= 0 {
		return nil, ErrBadRequest
	}
	if cmd.DeliveryType != DeliveryAppCourier && cmd.DeliveryType != DeliverySelf {
		return nil, ErrBadRequest
	}

	o, err := s.ownedByRestaurant(ctx, cmd.OrderID, cmd.OwnerUserID)
	if err != nil {
		return nil, err
	}
	if o.Status != StatusPaid {
		return nil, ErrInvalidState
	}

	to := StatusPreparing
	if cmd.DeliveryType == DeliveryAppCourier {
		to = StatusAwaitingCourierSearch
	}
	readyBy := time.Now().UTC().Add(time.Duration(cmd.PrepMinutes) * time.Minute)

	ok, err := s.store.Accept(ctx, o.ID, to, cmd.DeliveryType, cmd.PrepMinutes, readyBy)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrConflict
	}
	s.appendEvent(ctx, o.ID, StatusPaid, to, "restaurant", &cmd.OwnerUserID)
	return s.store.Get(ctx, o.ID)
}

// MarkReady flips a preparing order to ready for pickup. Awaiting orders are
// released by the dispatcher instead.
func (s *Service) MarkReady(ctx context.Context, orderID, ownerUserID types.ID) error {
	o, err := s.ownedByRestaurant(ctx, orderID, ownerUserID)
	if err != nil {
		return err
	}
	if o.Status != StatusPreparing {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, StatusPreparing, StatusReadyForPickup)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	s.appendEvent(ctx, o.ID, StatusPreparing, StatusReadyForPickup, "restaurant", &ownerUserID)
	return nil
}

// StartSelfDelivery puts a self-delivered order on the way. Courier-delivered
// orders can only be started by the claiming courier.
func (s *Service) StartSelfDelivery(ctx context.Context, orderID, ownerUserID types.ID) error {
	o, err := s.ownedByRestaurant(ctx, orderID, ownerUserID)
	if err != nil {
		return err
	}
	if o.DeliveryType == nil || *o.DeliveryType != DeliverySelf {
		return ErrBadRequest
	}
	if o.Status != StatusReadyForPickup {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, StatusReadyForPickup, StatusOnTheWay)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	s.appendEvent(ctx, o.ID, StatusReadyForPickup, StatusOnTheWay, "restaurant", &ownerUserID)
	return nil
}

// CompleteSelfDelivery closes a self-delivered order. No courier is credited.
func (s *Service) CompleteSelfDelivery(ctx context.Context, orderID, ownerUserID types.ID) error {
	o, err := s.ownedByRestaurant(ctx, orderID, ownerUserID)
	if err != nil {
		return err
	}
	if o.DeliveryType == nil || *o.DeliveryType != DeliverySelf {
		return ErrBadRequest
	}
	if o.Status != StatusOnTheWay {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, StatusOnTheWay, StatusDelivered)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	s.appendEvent(ctx, o.ID, StatusOnTheWay, StatusDelivered, "restaurant", &ownerUserID)
	return nil
}

// CancelByRestaurant aborts an order before a courier picks it up.
func (s *Service) CancelByRestaurant(ctx context.Context, orderID, ownerUserID types.ID) error {
	o, err := s.ownedByRestaurant(ctx, orderID, ownerUserID)
	if err != nil {
		return err
	}
	if !restaurantCancellable[o.Status] {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, o.ID, o.Status, StatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	s.appendEvent(ctx, o.ID, o.Status, StatusCancelled, "restaurant", &ownerUserID)
	return nil
}

// TakeOrder claims a ready order for a courier. The conditional update
// guarantees at most one winner; losers see ErrNotFound.
func (s *Service) TakeOrder(ctx context.Context, orderID, courierID types.ID) error {
	if err := s.couriers.CanTakeOrders(ctx, courierID); err != nil {
		return err
	}
	ok, err := s.store.AcceptByCourier(ctx, orderID, courierID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.appendEvent(ctx, orderID, StatusReadyForPickup, StatusOnTheWay, "courier", &courierID)
	return nil
}

// Deliver closes the order and credits the courier in one transaction.
func (s *Service) Deliver(ctx context.Context, orderID, courierID types.ID) error {
	ok, err := s.store.DeliverAndCredit(ctx, orderID, courierID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.appendEvent(ctx, orderID, StatusOnTheWay, StatusDelivered, "courier", &courierID)
	return nil
}

func (s *Service) CancelByCourier(ctx context.Context, orderID, courierID types.ID) error {
	ok, err := s.store.CancelByCourier(ctx, orderID, courierID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.appendEvent(ctx, orderID, StatusOnTheWay, StatusCancelled, "courier", &courierID)
	return nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Order, error) {
	return s.store.Get(ctx, id)
}

// OrderForUser is scoped to the owning client.
func (s *Service) OrderForUser(ctx context.Context, id, userID types.ID) (*Order, error) {
	o, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *Service) MyOrders(ctx context.Context, userID types.ID) ([]*Order, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) RestaurantOrders(ctx context.Context, ownerUserID types.ID) ([]*Order, error) {
	r, err := s.restaurants.MyRestaurant(ctx, ownerUserID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.store.ListByRestaurant(ctx, r.ID)
}

func (s *Service) AvailableForCourier(ctx context.Context, courierID types.ID) ([]*Order, error) {
	if err := s.couriers.CanTakeOrders(ctx, courierID); err != nil {
		return nil, err
	}
	return s.store.ListAvailableForCouriers(ctx)
}

func (s *Service) CourierOrders(ctx context.Context, courierID types.ID, statuses ...Status) ([]*Order, error) {
	return s.store.ListByCourier(ctx, courierID, statuses...)
}

func (s *Service) ownedByRestaurant(ctx context.Context, orderID, ownerUserID types.ID) (*Order, error) {
	r, err := s.restaurants.MyRestaurant(ctx, ownerUserID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o, err := s.store.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.RestaurantID != r.ID {
		return nil, ErrNotFound
	}
	return o, nil
}

func (s *Service) appendEvent(ctx context.Context, orderID types.ID, from, to Status, actorType string, actorID *types.ID) {
	err := s.store.AppendEvent(ctx, &Event{
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		ActorType:  actorType,
		ActorID:    actorID,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		s.log.WithError(err).WithField("order_id", orderID).Warn("failed to append status event")
	}
}

func newCode() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return "JET-" + strings.ToUpper(hex.EncodeToString(b[:]))
}
