package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	catalogdomain "github.com/shopkit/tradepost/internal/catalog/domain"
	"github.com/shopkit/tradepost/internal/observability/metrics"
	"github.com/shopkit/tradepost/internal/order/domain"
	"github.com/shopkit/tradepost/internal/orgcontext"
	"github.com/shopkit/tradepost/internal/outbox"
	"github.com/shopkit/tradepost/internal/pricing"
	taxprofiledomain "github.com/shopkit/tradepost/internal/taxprofile/domain"
	taxratedomain "github.com/shopkit/tradepost/internal/taxrate/domain"
	"github.com/shopkit/tradepost/pkg/db/option"
	"github.com/shopkit/tradepost/pkg/repository"
)

type ServiceParams struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Products  catalogdomain.Repository
	TaxRates  taxratedomain.Repository
	Profiles  taxprofiledomain.Service
	Publisher outbox.Publisher
	Metrics   *metrics.Metrics `optional:"true"`
}

type service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	products  catalogdomain.Repository
	taxRates  taxratedomain.Repository
	profiles  taxprofiledomain.Service
	publisher outbox.Publisher
	metrics   *metrics.Metrics

	orders repository.Repository[domain.Order]
	items  repository.Repository[domain.OrderLineItem]
	taxes  repository.Repository[domain.OrderLineTax]
}

func NewService(p ServiceParams) domain.Service {
	return &service{
		db:        p.DB,
		log:       p.Log.Named("order.service"),
		genID:     p.GenID,
		products:  p.Products,
		taxRates:  p.TaxRates,
		profiles:  p.Profiles,
		publisher: p.Publisher,
		metrics:   p.Metrics,
		orders:    repository.ProvideStore[domain.Order](p.DB),
		items:     repository.ProvideStore[domain.OrderLineItem](p.DB),
		taxes:     repository.ProvideStore[domain.OrderLineTax](p.DB),
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	customerID, err := parseOptionalID(req.CustomerID)
	if err != nil {
		return nil, domain.ErrCustomerNotFound
	}
	channelID, err := parseOptionalID(req.ChannelID)
	if err != nil {
		return nil, domain.ErrChannelNotFound
	}
	locationID, err := parseOptionalID(req.LocationID)
	if err != nil {
		return nil, domain.ErrLocationNotFound
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:         s.genID.Generate(),
		OrgID:      orgID,
		CustomerID: customerID,
		ChannelID:  channelID,
		LocationID: locationID,
		Status:     domain.StatusDraft,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	for _, input := range req.Items {
		if _, err := s.appendItem(ctx, order, input); err != nil {
			return nil, err
		}
	}

	s.log.Info("order draft created",
		zap.String("org_id", orgID.String()),
		zap.String("order_id", order.ID.String()),
		zap.Int("items", len(req.Items)),
	)

	return s.respond(ctx, order)
}

func parseOptionalID(raw *string) (*snowflake.ID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (s *service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{
			SortBy:  req.SortBy,
			OrderBy: req.OrderBy,
			Allow:   map[string]bool{"created_at": true, "updated_at": true, "status": true},
		}),
	}

	query := &domain.Order{OrgID: orgID}
	if status := strings.ToUpper(strings.TrimSpace(req.Status)); status != "" {
		query.Status = status
	}

	orders, err := s.orders.Find(ctx, query, opts...)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, toOrderResponse(order, nil, nil))
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Response, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, order)
}

// load fetches an org-scoped order by its string ID.
func (s *service) load(ctx context.Context, id string) (*domain.Order, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	orderID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrOrderNotFound
	}

	order, err := s.orders.FindOne(ctx, &domain.Order{ID: orderID, OrgID: orgID})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *service) AddItem(ctx context.Context, orderID string, input domain.LineItemInput) (*domain.Response, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusDraft {
		return nil, domain.ErrOrderNotEditable
	}

	if _, err := s.appendItem(ctx, order, input); err != nil {
		return nil, err
	}
	return s.respond(ctx, order)
}

// appendItem builds, persists, and accounts for one new line.
func (s *service) appendItem(ctx context.Context, order *domain.Order, input domain.LineItemInput) (*domain.OrderLineItem, error) {
	count, err := s.items.Count(ctx, &domain.OrderLineItem{OrderID: order.ID, OrgID: order.OrgID})
	if err != nil {
		return nil, err
	}

	item, taxLines, err := s.buildLine(ctx, order, input, int(count)+1, nil)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.items.WithTrx(tx).Create(ctx, item); err != nil {
			return err
		}
		if err := s.taxes.WithTrx(tx).BatchCreate(ctx, taxLines); err != nil {
			return err
		}
		return s.refreshTotals(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordLineItemPriced(ctx, discountTypeLabel(item.DiscountType))
	}
	return item, nil
}

func discountTypeLabel(t *string) string {
	if t == nil {
		return "none"
	}
	return strings.ToLower(*t)
}

// buildLine turns user input into a priced line. current is non-nil when
// replacing an existing line; its identity and item_order carry over and
// profile preselection is skipped.
func (s *service) buildLine(ctx context.Context, order *domain.Order, input domain.LineItemInput, itemOrder int, current *domain.OrderLineItem) (*domain.OrderLineItem, []*domain.OrderLineTax, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(input.ProductID))
	if err != nil {
		return nil, nil, domain.ErrProductNotFound
	}
	product, err := s.products.FindByID(ctx, order.OrgID, productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrProductNotFound
	}

	quantity := decimal.NewFromInt(1)
	if input.Quantity != nil && !input.Quantity.IsZero() {
		quantity = *input.Quantity
	}
	if quantity.IsNegative() {
		return nil, nil, domain.ErrInvalidQuantity
	}

	unitPrice := product.ListPrice
	if input.UnitPrice != nil {
		unitPrice = *input.UnitPrice
	}
	if unitPrice.IsNegative() {
		return nil, nil, domain.ErrInvalidUnitPrice
	}

	discountType, discountValue, err := normalizeDiscount(input.DiscountType, input.DiscountValue)
	if err != nil {
		return nil, nil, err
	}

	rates, err := s.resolveRates(ctx, order.OrgID, product, input.TaxRateIDs, current)
	if err != nil {
		return nil, nil, err
	}

	lineInput := pricing.LineInput{
		Quantity:  quantity,
		UnitPrice: unitPrice,
		TaxRates:  rates,
	}
	if discountType != nil {
		lineInput.DiscountType = pricing.DiscountType(*discountType)
		lineInput.DiscountValue = *discountValue
	}
	breakdown := pricing.Compute(lineInput).Rounded()

	now := time.Now().UTC()
	item := &domain.OrderLineItem{
		ID:             s.genID.Generate(),
		OrgID:          order.OrgID,
		OrderID:        order.ID,
		ProductID:      product.ID,
		SKU:            product.SKU,
		Description:    product.Name,
		UOMSymbol:      product.UOMSymbol,
		ItemOrder:      itemOrder,
		Quantity:       quantity,
		UnitPrice:      unitPrice,
		DiscountType:   discountType,
		DiscountValue:  discountValue,
		BaseAmount:     breakdown.BaseAmount,
		DiscountAmount: breakdown.DiscountAmount,
		Subtotal:       breakdown.Subtotal,
		TotalTax:       breakdown.TotalTax,
		TotalAmount:    breakdown.TotalAmount,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if current != nil {
		item.ID = current.ID
		item.CreatedAt = current.CreatedAt
	}

	taxLines := make([]*domain.OrderLineTax, 0, len(breakdown.TaxLines))
	for _, tl := range breakdown.TaxLines {
		taxLines = append(taxLines, &domain.OrderLineTax{
			ID:         s.genID.Generate(),
			OrgID:      order.OrgID,
			OrderID:    order.ID,
			LineItemID: item.ID,
			TaxRateID:  tl.TaxID,
			TaxCode:    tl.TaxCode,
			Rate:       tl.TaxRate,
			Amount:     tl.TaxAmount,
			CreatedAt:  now,
		})
	}
	return item, taxLines, nil
}

func normalizeDiscount(rawType *string, rawValue *decimal.Decimal) (*string, *decimal.Decimal, error) {
	if rawType == nil || strings.TrimSpace(*rawType) == "" {
		return nil, nil, nil
	}

	discountType := strings.ToUpper(strings.TrimSpace(*rawType))
	if discountType != domain.DiscountPercentage && discountType != domain.DiscountAmount {
		return nil, nil, domain.ErrInvalidDiscount
	}

	value := decimal.Zero
	if rawValue != nil {
		value = *rawValue
	}
	if value.IsNegative() {
		return nil, nil, domain.ErrInvalidDiscount
	}
	// Percentages are clamped here so the calculator can stay a plain
	// formula. Amounts are taken verbatim, even past the line subtotal.
	if discountType == domain.DiscountPercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		value = decimal.NewFromInt(100)
	}
	return &discountType, &value, nil
}

// resolveRates picks the tax rates for a line. Explicit IDs always win.
// On add (current == nil) a nil slice falls back to the product's tax
// profile; on replace a nil slice keeps the line's stored selection.
func (s *service) resolveRates(ctx context.Context, orgID snowflake.ID, product *catalogdomain.Product, explicit []string, current *domain.OrderLineItem) ([]pricing.TaxRateInput, error) {
	if explicit != nil {
		ids := make([]snowflake.ID, 0, len(explicit))
		for _, raw := range explicit {
			id, err := snowflake.ParseString(strings.TrimSpace(raw))
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		available, err := s.availableRates(ctx, orgID, ids)
		if err != nil {
			return nil, err
		}
		return pricing.SelectDefault(ids, available), nil
	}

	if current != nil {
		existing, err := s.taxes.Find(ctx, &domain.OrderLineTax{LineItemID: current.ID, OrgID: orgID})
		if err != nil {
			return nil, err
		}
		rates := make([]pricing.TaxRateInput, 0, len(existing))
		for _, tl := range existing {
			rates = append(rates, pricing.TaxRateInput{ID: tl.TaxRateID, Code: tl.TaxCode, Rate: tl.Rate})
		}
		return rates, nil
	}

	if product.TaxProfileID == nil {
		return nil, nil
	}
	resolved, err := s.profiles.Resolve(ctx, *product.TaxProfileID)
	if err != nil {
		if err == taxprofiledomain.ErrProfileNotFound {
			return nil, nil
		}
		return nil, err
	}
	available, err := s.availableRates(ctx, orgID, resolved)
	if err != nil {
		return nil, err
	}
	return pricing.SelectDefault(resolved, available), nil
}

// availableRates loads enabled rates for the given IDs, preserving the
// caller's ordering.
func (s *service) availableRates(ctx context.Context, orgID snowflake.ID, ids []snowflake.ID) ([]pricing.TaxRateInput, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rates, err := s.taxRates.FindByIDs(ctx, orgID, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[snowflake.ID]taxratedomain.TaxRate, len(rates))
	for _, rate := range rates {
		if rate.IsEnabled {
			byID[rate.ID] = rate
		}
	}

	out := make([]pricing.TaxRateInput, 0, len(ids))
	for _, id := range ids {
		rate, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, pricing.TaxRateInput{ID: rate.ID, Code: rate.TaxType, Rate: rate.Rate})
	}
	return out, nil
}

func (s *service) ReplaceItem(ctx context.Context, orderID, itemID string, input domain.LineItemInput) (*domain.Response, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusDraft {
		return nil, domain.ErrOrderNotEditable
	}

	current, err := s.loadItem(ctx, order, itemID)
	if err != nil {
		return nil, err
	}

	item, taxLines, err := s.buildLine(ctx, order, input, current.ItemOrder, current)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("line_item_id = ?", current.ID).Delete(&domain.OrderLineTax{}).Error; err != nil {
			return err
		}
		if err := s.items.WithTrx(tx).BatchUpdate(ctx, []*domain.OrderLineItem{item}); err != nil {
			return err
		}
		if err := s.taxes.WithTrx(tx).BatchCreate(ctx, taxLines); err != nil {
			return err
		}
		return s.refreshTotals(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.respond(ctx, order)
}

func (s *service) loadItem(ctx context.Context, order *domain.Order, itemID string) (*domain.OrderLineItem, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(itemID))
	if err != nil {
		return nil, domain.ErrItemNotFound
	}

	item, err := s.items.FindOne(ctx, &domain.OrderLineItem{ID: id, OrgID: order.OrgID})
	if err != nil {
		return nil, err
	}
	if item == nil || item.OrderID != order.ID {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (s *service) RemoveItem(ctx context.Context, orderID, itemID string) (*domain.Response, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusDraft {
		return nil, domain.ErrOrderNotEditable
	}

	item, err := s.loadItem(ctx, order, itemID)
	if err != nil {
		return nil, err
	}

	// Remaining lines keep their item_order; gaps are expected.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("line_item_id = ?", item.ID).Delete(&domain.OrderLineTax{}).Error; err != nil {
			return err
		}
		if err := s.items.WithTrx(tx).Delete(ctx, item.ID.String()); err != nil {
			return err
		}
		return s.refreshTotals(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	return s.respond(ctx, order)
}

// refreshTotals recomputes the order's money totals from its current lines
// inside the caller's transaction.
func (s *service) refreshTotals(ctx context.Context, tx *gorm.DB, order *domain.Order) error {
	items, err := s.items.WithTrx(tx).Find(ctx, &domain.OrderLineItem{OrderID: order.ID, OrgID: order.OrgID})
	if err != nil {
		return err
	}

	subtotal, discount, tax, total := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Subtotal)
		discount = discount.Add(item.DiscountAmount)
		tax = tax.Add(item.TotalTax)
		total = total.Add(item.TotalAmount)
	}

	order.Subtotal = subtotal
	order.DiscountTotal = discount
	order.TaxTotal = tax
	order.Total = total
	order.UpdatedAt = time.Now().UTC()

	return tx.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"subtotal":       order.Subtotal,
			"discount_total": order.DiscountTotal,
			"tax_total":      order.TaxTotal,
			"total":          order.Total,
			"updated_at":     order.UpdatedAt,
		}).Error
}

func (s *service) Preview(ctx context.Context, input domain.LineItemInput) (*domain.LineItemResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	scratch := &domain.Order{OrgID: orgID}
	item, taxLines, err := s.buildLine(ctx, scratch, input, 0, nil)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordLineItemPriced(ctx, discountTypeLabel(item.DiscountType))
	}

	resp := toItemResponse(item, taxLines)
	resp.ID = ""
	resp.ItemOrder = 0
	return &resp, nil
}

func (s *service) Submit(ctx context.Context, orderID string) (*domain.Response, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.StatusDraft {
		return nil, domain.ErrOrderNotEditable
	}

	count, err := s.items.Count(ctx, &domain.OrderLineItem{OrderID: order.ID, OrgID: order.OrgID})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.ErrEmptyOrder
	}

	now := time.Now().UTC()
	order.Status = domain.StatusSubmitted
	order.SubmittedAt = &now
	order.UpdatedAt = now

	err = s.orders.Update(ctx, order.ID.String(), map[string]any{
		"status":       order.Status,
		"submitted_at": order.SubmittedAt,
		"updated_at":   order.UpdatedAt,
	})
	if err != nil {
		return nil, err
	}

	s.emitOrderSubmitted(ctx, order)
	if s.metrics != nil {
		s.metrics.RecordOrderSubmitted(ctx, order.OrgID.String())
	}

	s.log.Info("order submitted",
		zap.String("org_id", order.OrgID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("total", order.Total.StringFixed(2)),
	)

	return s.respond(ctx, order)
}

func (s *service) Cancel(ctx context.Context, orderID string) error {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == domain.StatusCancelled {
		return nil
	}
	if order.Status != domain.StatusDraft {
		return domain.ErrOrderNotEditable
	}

	return s.orders.Update(ctx, order.ID.String(), map[string]any{
		"status":     domain.StatusCancelled,
		"updated_at": time.Now().UTC(),
	})
}

func (s *service) emitOrderSubmitted(ctx context.Context, order *domain.Order) {
	if s.publisher == nil {
		return
	}

	payload := map[string]string{
		"order_id":     order.ID.String(),
		"total":        order.Total.StringFixed(2),
		"submitted_at": order.SubmittedAt.Format(time.RFC3339),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("failed to marshal order.submitted payload", zap.Error(err))
		return
	}
	if err := s.publisher.Publish(ctx, order.OrgID, outbox.OrderSubmittedTopic, data); err != nil {
		s.log.Warn("failed to enqueue order.submitted event", zap.Error(err))
	}
}

// respond re-reads the order's lines and taxes and serializes everything.
func (s *service) respond(ctx context.Context, order *domain.Order) (*domain.Response, error) {
	sort := option.WithSortBy(option.QuerySortBy{
		SortBy:  "item_order",
		OrderBy: "asc",
		Allow:   map[string]bool{"item_order": true},
	})
	items, err := s.items.Find(ctx, &domain.OrderLineItem{OrderID: order.ID, OrgID: order.OrgID}, sort)
	if err != nil {
		return nil, err
	}

	taxSort := option.WithSortBy(option.QuerySortBy{
		SortBy:  "id",
		OrderBy: "asc",
		Allow:   map[string]bool{"id": true},
	})
	taxLines, err := s.taxes.Find(ctx, &domain.OrderLineTax{OrderID: order.ID, OrgID: order.OrgID}, taxSort)
	if err != nil {
		return nil, err
	}
	byItem := make(map[snowflake.ID][]*domain.OrderLineTax)
	for _, tl := range taxLines {
		byItem[tl.LineItemID] = append(byItem[tl.LineItemID], tl)
	}

	resp := toOrderResponse(order, items, byItem)
	return &resp, nil
}

func toOrderResponse(order *domain.Order, items []*domain.OrderLineItem, taxesByItem map[snowflake.ID][]*domain.OrderLineTax) domain.Response {
	resp := domain.Response{
		ID:            order.ID.String(),
		Status:        order.Status,
		Notes:         order.Notes,
		Subtotal:      order.Subtotal.StringFixed(2),
		DiscountTotal: order.DiscountTotal.StringFixed(2),
		TaxTotal:      order.TaxTotal.StringFixed(2),
		Total:         order.Total.StringFixed(2),
		CreatedAt:     order.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     order.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if order.CustomerID != nil {
		id := order.CustomerID.String()
		resp.CustomerID = &id
	}
	if order.ChannelID != nil {
		id := order.ChannelID.String()
		resp.ChannelID = &id
	}
	if order.LocationID != nil {
		id := order.LocationID.String()
		resp.LocationID = &id
	}
	if order.SubmittedAt != nil {
		ts := order.SubmittedAt.UTC().Format(time.RFC3339)
		resp.SubmittedAt = &ts
	}
	for _, item := range items {
		resp.Items = append(resp.Items, toItemResponse(item, taxesByItem[item.ID]))
	}
	return resp
}

func toItemResponse(item *domain.OrderLineItem, taxLines []*domain.OrderLineTax) domain.LineItemResponse {
	resp := domain.LineItemResponse{
		ID:             item.ID.String(),
		ProductID:      item.ProductID.String(),
		SKU:            item.SKU,
		Description:    item.Description,
		UOMSymbol:      item.UOMSymbol,
		ItemOrder:      item.ItemOrder,
		Quantity:       item.Quantity.String(),
		UnitPrice:      item.UnitPrice.String(),
		BaseAmount:     item.BaseAmount.StringFixed(2),
		DiscountAmount: item.DiscountAmount.StringFixed(2),
		Subtotal:       item.Subtotal.StringFixed(2),
		TotalTax:       item.TotalTax.StringFixed(2),
		TotalAmount:    item.TotalAmount.StringFixed(2),
	}
	if item.DiscountType != nil {
		resp.DiscountType = item.DiscountType
		if item.DiscountValue != nil {
			value := item.DiscountValue.String()
			resp.DiscountValue = &value
			if *item.DiscountType == domain.DiscountPercentage {
				resp.DiscountPercentage = &value
			}
		}
	}
	for _, tl := range taxLines {
		resp.TaxLines = append(resp.TaxLines, domain.TaxLineResponse{
			TaxRateID: tl.TaxRateID.String(),
			TaxCode:   tl.TaxCode,
			Rate:      tl.Rate.String(),
			Amount:    tl.Amount.StringFixed(2),
		})
	}
	return resp
}
