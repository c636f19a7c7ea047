package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/shopkit/tradepost/internal/customer/domain"
	"github.com/shopkit/tradepost/internal/customer/repository"
	groupdomain "github.com/shopkit/tradepost/internal/customergroup/domain"
	"github.com/shopkit/tradepost/internal/orgcontext"
	"github.com/shopkit/tradepost/pkg/db/option"
	"github.com/shopkit/tradepost/pkg/validate"
)

type serviceParams struct {
	fx.In

	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   domain.Repository
	Groups groupdomain.Repository
}

type service struct {
	log    *zap.Logger
	genID  *snowflake.Node
	repo   domain.Repository
	groups groupdomain.Repository
}

func NewService(p serviceParams) domain.Service {
	return &service{
		log:    p.Log.Named("customer.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		groups: p.Groups,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	kind := strings.ToUpper(strings.TrimSpace(req.Kind))
	if kind == "" {
		kind = domain.KindIndividual
	}

	phone, err := normalizeOptionalPhone(req.Phone)
	if err != nil {
		return nil, domain.ErrInvalidPhone
	}

	groupID, err := s.resolveGroup(ctx, orgID, req.GroupID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Kind:        kind,
		DisplayName: strings.TrimSpace(req.DisplayName),
		Email:       trimOptional(req.Email),
		Phone:       phone,
		Notes:       req.Notes,
		GroupID:     groupID,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.log.Info("customer created",
		zap.String("org_id", orgID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.String("kind", customer.Kind),
	)

	resp := toResponse(customer)
	return &resp, nil
}

// resolveGroup parses and verifies an optional group reference.
func (s *service) resolveGroup(ctx context.Context, orgID snowflake.ID, raw *string) (*snowflake.ID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	groupID, err := snowflake.ParseString(strings.TrimSpace(*raw))
	if err != nil {
		return nil, domain.ErrGroupNotFound
	}
	group, err := s.groups.FindByID(ctx, orgID, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, domain.ErrGroupNotFound
	}
	return &groupID, nil
}

func normalizeOptionalPhone(raw *string) (*string, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	normalized, err := validate.NormalizePhone(*raw, "")
	if err != nil {
		return nil, err
	}
	return &normalized, nil
}

func trimOptional(raw *string) *string {
	if raw == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	var customers []domain.Customer
	var err error
	if strings.TrimSpace(req.Search) != "" {
		customers, err = s.repo.Search(ctx, orgID, req.Search, req.ActiveOnly, 0)
	} else {
		opts := []option.QueryOption{
			option.WithSortBy(option.QuerySortBy{
				SortBy:  req.SortBy,
				OrderBy: req.OrderBy,
				Allow:   repository.SortableColumns(),
			}),
		}
		if req.ActiveOnly {
			opts = append(opts, option.WithCondition("is_active", option.EQ, true))
		}
		if strings.TrimSpace(req.GroupID) != "" {
			groupID, gerr := snowflake.ParseString(strings.TrimSpace(req.GroupID))
			if gerr != nil {
				return nil, domain.ErrGroupNotFound
			}
			opts = append(opts, option.WithCondition("group_id", option.EQ, groupID))
		}
		customers, err = s.repo.Find(ctx, orgID, opts...)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(customers))
	for i := range customers {
		resp = append(resp, toResponse(&customers[i]))
	}
	return resp, nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.Response, error) {
	customer, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(customer)
	return &resp, nil
}

// load fetches an org-scoped customer by its string ID.
func (s *service) load(ctx context.Context, id string) (*domain.Customer, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	customerID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, domain.ErrCustomerNotFound
	}

	customer, err := s.repo.FindByID(ctx, orgID, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrCustomerNotFound
	}
	return customer, nil
}

func (s *service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	customer, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Kind != nil {
		customer.Kind = strings.ToUpper(strings.TrimSpace(*req.Kind))
	}
	if req.DisplayName != nil {
		customer.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.Email != nil {
		customer.Email = trimOptional(req.Email)
	}
	if req.Phone != nil {
		phone, perr := normalizeOptionalPhone(req.Phone)
		if perr != nil {
			return nil, domain.ErrInvalidPhone
		}
		customer.Phone = phone
	}
	if req.Notes != nil {
		customer.Notes = req.Notes
	}
	if req.GroupID != nil {
		groupID, gerr := s.resolveGroup(ctx, customer.OrgID, req.GroupID)
		if gerr != nil {
			return nil, gerr
		}
		customer.GroupID = groupID
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}
	customer.UpdatedAt = time.Now().UTC()

	if err := customer.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}

	resp := toResponse(customer)
	return &resp, nil
}

func (s *service) Deactivate(ctx context.Context, id string) error {
	customer, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !customer.IsActive {
		return nil
	}

	customer.IsActive = false
	customer.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, customer)
}

func (s *service) AddContact(ctx context.Context, customerID string, req domain.ContactRequest) (*domain.ContactResponse, error) {
	customer, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	phone, err := normalizeOptionalPhone(req.Phone)
	if err != nil {
		return nil, domain.ErrInvalidPhone
	}

	if req.IsPrimary {
		if err := s.repo.ClearPrimaryContact(ctx, customer.OrgID, customer.ID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	contact := &domain.Contact{
		ID:         s.genID.Generate(),
		OrgID:      customer.OrgID,
		CustomerID: customer.ID,
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   trimOptional(req.LastName),
		Email:      trimOptional(req.Email),
		Phone:      phone,
		Role:       trimOptional(req.Role),
		IsPrimary:  req.IsPrimary,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := contact.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}

	resp := toContactResponse(contact)
	return &resp, nil
}

func (s *service) UpdateContact(ctx context.Context, customerID, contactID string, req domain.ContactRequest) (*domain.ContactResponse, error) {
	customer, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	id, err := snowflake.ParseString(contactID)
	if err != nil {
		return nil, domain.ErrContactNotFound
	}
	contact, err := s.repo.FindContactByID(ctx, customer.OrgID, id)
	if err != nil {
		return nil, err
	}
	if contact == nil || contact.CustomerID != customer.ID {
		return nil, domain.ErrContactNotFound
	}

	phone, err := normalizeOptionalPhone(req.Phone)
	if err != nil {
		return nil, domain.ErrInvalidPhone
	}

	if req.IsPrimary && !contact.IsPrimary {
		if err := s.repo.ClearPrimaryContact(ctx, customer.OrgID, customer.ID); err != nil {
			return nil, err
		}
	}

	contact.FirstName = strings.TrimSpace(req.FirstName)
	contact.LastName = trimOptional(req.LastName)
	contact.Email = trimOptional(req.Email)
	contact.Phone = phone
	contact.Role = trimOptional(req.Role)
	contact.IsPrimary = req.IsPrimary
	contact.UpdatedAt = time.Now().UTC()

	if err := contact.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateContact(ctx, contact); err != nil {
		return nil, err
	}

	resp := toContactResponse(contact)
	return &resp, nil
}

func (s *service) DeleteContact(ctx context.Context, customerID, contactID string) error {
	customer, err := s.load(ctx, customerID)
	if err != nil {
		return err
	}

	id, err := snowflake.ParseString(contactID)
	if err != nil {
		return domain.ErrContactNotFound
	}
	contact, err := s.repo.FindContactByID(ctx, customer.OrgID, id)
	if err != nil {
		return err
	}
	if contact == nil || contact.CustomerID != customer.ID {
		return domain.ErrContactNotFound
	}

	return s.repo.DeleteContact(ctx, customer.OrgID, id)
}

func (s *service) ListContacts(ctx context.Context, customerID string) ([]domain.ContactResponse, error) {
	customer, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	contacts, err := s.repo.FindContacts(ctx, customer.OrgID, customer.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.ContactResponse, 0, len(contacts))
	for i := range contacts {
		resp = append(resp, toContactResponse(&contacts[i]))
	}
	return resp, nil
}

func (s *service) AddAddress(ctx context.Context, customerID string, req domain.AddressRequest) (*domain.AddressResponse, error) {
	customer, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if req.IsDefault {
		if err := s.repo.ClearDefaultAddress(ctx, customer.OrgID, customer.ID, kind); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	address := &domain.Address{
		ID:         s.genID.Generate(),
		OrgID:      customer.OrgID,
		CustomerID: customer.ID,
		Kind:       kind,
		Line1:      strings.TrimSpace(req.Line1),
		Line2:      trimOptional(req.Line2),
		City:       strings.TrimSpace(req.City),
		State:      trimOptional(req.State),
		PostalCode: strings.TrimSpace(req.PostalCode),
		Country:    strings.ToUpper(strings.TrimSpace(req.Country)),
		IsDefault:  req.IsDefault,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateAddress(ctx, address); err != nil {
		return nil, err
	}

	resp := toAddressResponse(address)
	return &resp, nil
}

func (s *service) UpdateAddress(ctx context.Context, customerID, addressID string, req domain.AddressRequest) (*domain.AddressResponse, error) {
	customer, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	id, err := snowflake.ParseString(addressID)
	if err != nil {
		return nil, domain.ErrAddressNotFound
	}
	address, err := s.repo.FindAddressByID(ctx, customer.OrgID, id)
	if err != nil {
		return nil, err
	}
	if address == nil || address.CustomerID != customer.ID {
		return nil, domain.ErrAddressNotFound
	}

	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if req.IsDefault && (!address.IsDefault || address.Kind != kind) {
		if err := s.repo.ClearDefaultAddress(ctx, customer.OrgID, customer.ID, kind); err != nil {
			return nil, err
		}
	}

	address.Kind = kind
	address.Line1 = strings.TrimSpace(req.Line1)
	address.Line2 = trimOptional(req.Line2)
	address.City = strings.TrimSpace(req.City)
	address.State = trimOptional(req.State)
	address.PostalCode = strings.TrimSpace(req.PostalCode)
	address.Country = strings.ToUpper(strings.TrimSpace(req.Country))
	address.IsDefault = req.IsDefault
	address.UpdatedAt = time.Now().UTC()

	if err := address.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateAddress(ctx, address); err != nil {
		return nil, err
	}

	resp := toAddressResponse(address)
	return &resp, nil
}

func (s *service) DeleteAddress(ctx context.Context, customerID, addressID string) error {
	customer, err := s.load(ctx, customerID)
	if err != nil {
		return err
	}

	id, err := snowflake.ParseString(addressID)
	if err != nil {
		return domain.ErrAddressNotFound
	}
	address, err := s.repo.FindAddressByID(ctx, customer.OrgID, id)
	if err != nil {
		return err
	}
	if address == nil || address.CustomerID != customer.ID {
		return domain.ErrAddressNotFound
	}

	return s.repo.DeleteAddress(ctx, customer.OrgID, id)
}

func (s *service) ListAddresses(ctx context.Context, customerID string) ([]domain.AddressResponse, error) {
	customer, err := s.load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	addresses, err := s.repo.FindAddresses(ctx, customer.OrgID, customer.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.AddressResponse, 0, len(addresses))
	for i := range addresses {
		resp = append(resp, toAddressResponse(&addresses[i]))
	}
	return resp, nil
}

func (s *service) Seed(ctx context.Context, req domain.SeedRequest) (*domain.SeedResult, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &domain.SeedResult{}
	switch req.Kind {
	case domain.SeedKindContacts:
		created, skipped := s.seedBatch(orgID, req.Contacts, nil)
		if err := s.repo.BatchCreate(ctx, created); err != nil {
			return nil, err
		}
		result.CustomersCreated = len(created)
		result.Skipped = skipped

	case domain.SeedKindLists:
		for _, list := range req.Lists {
			name := strings.TrimSpace(list.Name)
			if name == "" {
				result.Skipped = append(result.Skipped, "list with empty name")
				continue
			}

			groupID, err := s.ensureGroup(ctx, orgID, name)
			if err != nil {
				return nil, err
			}
			result.GroupsCreated++

			created, skipped := s.seedBatch(orgID, list.Members, &groupID)
			if err := s.repo.BatchCreate(ctx, created); err != nil {
				return nil, err
			}
			result.CustomersCreated += len(created)
			result.Skipped = append(result.Skipped, skipped...)
		}
	}

	s.log.Info("customer seed applied",
		zap.String("org_id", orgID.String()),
		zap.String("kind", req.Kind),
		zap.Int("customers", result.CustomersCreated),
		zap.Int("groups", result.GroupsCreated),
		zap.Int("skipped", len(result.Skipped)),
	)

	return result, nil
}

func (s *service) seedBatch(orgID snowflake.ID, entries []domain.SeedContact, groupID *snowflake.ID) ([]domain.Customer, []string) {
	var created []domain.Customer
	var skipped []string

	now := time.Now().UTC()
	for _, entry := range entries {
		name := strings.TrimSpace(entry.DisplayName)
		if name == "" {
			skipped = append(skipped, "contact with empty display name")
			continue
		}

		phone, err := normalizeOptionalPhone(entry.Phone)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("%s: unparseable phone", name))
			continue
		}

		created = append(created, domain.Customer{
			ID:          s.genID.Generate(),
			OrgID:       orgID,
			Kind:        domain.KindIndividual,
			DisplayName: name,
			Email:       trimOptional(entry.Email),
			Phone:       phone,
			GroupID:     groupID,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return created, skipped
}

// ensureGroup finds or creates a customer group with the given name.
func (s *service) ensureGroup(ctx context.Context, orgID snowflake.ID, name string) (snowflake.ID, error) {
	existing, err := s.groups.FindByName(ctx, orgID, name)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	now := time.Now().UTC()
	group := &groupdomain.CustomerGroup{
		ID:        s.genID.Generate(),
		OrgID:     orgID,
		Name:      name,
		IsEnabled: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return 0, err
	}
	return group.ID, nil
}

func toResponse(customer *domain.Customer) domain.Response {
	resp := domain.Response{
		ID:          customer.ID.String(),
		Kind:        customer.Kind,
		DisplayName: customer.DisplayName,
		Email:       customer.Email,
		Phone:       customer.Phone,
		Notes:       customer.Notes,
		IsActive:    customer.IsActive,
		CreatedAt:   customer.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   customer.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if customer.GroupID != nil {
		id := customer.GroupID.String()
		resp.GroupID = &id
	}
	return resp
}

func toContactResponse(contact *domain.Contact) domain.ContactResponse {
	return domain.ContactResponse{
		ID:        contact.ID.String(),
		FirstName: contact.FirstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Role:      contact.Role,
		IsPrimary: contact.IsPrimary,
		CreatedAt: contact.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: contact.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toAddressResponse(address *domain.Address) domain.AddressResponse {
	return domain.AddressResponse{
		ID:         address.ID.String(),
		Kind:       address.Kind,
		Line1:      address.Line1,
		Line2:      address.Line2,
		City:       address.City,
		State:      address.State,
		PostalCode: address.PostalCode,
		Country:    address.Country,
		IsDefault:  address.IsDefault,
		CreatedAt:  address.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  address.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
