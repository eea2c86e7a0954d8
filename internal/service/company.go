// internal/service/company.go
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dangerclosesec/liaison/internal/audit"
	"github.com/dangerclosesec/liaison/internal/auth"
	"github.com/dangerclosesec/liaison/internal/domain"
	"github.com/dangerclosesec/liaison/internal/events"
	"github.com/dangerclosesec/liaison/internal/model"
	"github.com/dangerclosesec/liaison/internal/repository"
	"github.com/dangerclosesec/liaison/internal/validation"
	"gorm.io/datatypes"
)

// companyDirectoryKey caches the shared company list.
const companyDirectoryKey = "companies:all"

type NewCompanyParams struct {
	Name            string            `json:"name" validate:"required"`
	CompanyType     model.CompanyType `json:"companyType" validate:"required,oneof=CLIENT SUPPLIER LIAISON"`
	Email           string            `json:"email" validate:"omitempty,email"`
	PhoneNumber     string            `json:"phoneNumber"`
	WebsiteURL      string            `json:"websiteUrl" validate:"omitempty,url"`
	BillingAddress  string            `json:"billingAddress"`
	ShippingAddress string            `json:"shippingAddress"`
	Domains         []string          `json:"domains" validate:"omitempty,dive,fqdn"`
	Passphrase      string            `json:"passphrase" validate:"required,min=8"`
}

func (p NewCompanyParams) NewRecord(string) *model.Company {
	return &model.Company{
		Name:            p.Name,
		CompanyType:     p.CompanyType,
		Email:           p.Email,
		PhoneNumber:     p.PhoneNumber,
		WebsiteURL:      p.WebsiteURL,
		BillingAddress:  p.BillingAddress,
		ShippingAddress: p.ShippingAddress,
		Domains:         normalizeDomains(p.Domains),
		Passphrase:      p.Passphrase,
	}
}

// UpdateCompanyParams replaces the company's columns. An empty passphrase
// keeps the stored one.
type UpdateCompanyParams struct {
	ID              string            `json:"id" validate:"required"`
	Name            string            `json:"name" validate:"required"`
	CompanyType     model.CompanyType `json:"companyType" validate:"required,oneof=CLIENT SUPPLIER LIAISON"`
	Email           string            `json:"email" validate:"omitempty,email"`
	PhoneNumber     string            `json:"phoneNumber"`
	WebsiteURL      string            `json:"websiteUrl" validate:"omitempty,url"`
	BillingAddress  string            `json:"billingAddress"`
	ShippingAddress string            `json:"shippingAddress"`
	Domains         []string          `json:"domains" validate:"omitempty,dive,fqdn"`
	Passphrase      string            `json:"passphrase" validate:"omitempty,min=8"`
}

func (p UpdateCompanyParams) RecordID() string { return p.ID }

func (p UpdateCompanyParams) Apply(rec *model.Company) {
	rec.Name = p.Name
	rec.CompanyType = p.CompanyType
	rec.Email = p.Email
	rec.PhoneNumber = p.PhoneNumber
	rec.WebsiteURL = p.WebsiteURL
	rec.BillingAddress = p.BillingAddress
	rec.ShippingAddress = p.ShippingAddress
	rec.Domains = normalizeDomains(p.Domains)
	if p.Passphrase != "" {
		rec.Passphrase = p.Passphrase
	}
}

// JoinCompanyParams is the body of a company join. Passphrase is only needed
// when the user's email domain is not one of the company's domains.
type JoinCompanyParams struct {
	Passphrase string `json:"passphrase"`
}

// CompanyService serves the shared company directory and company admission.
type CompanyService struct {
	*Resource[model.Company, NewCompanyParams, UpdateCompanyParams]

	repo       repository.Repository[model.Company]
	membership repository.MembershipRepositoryIface
	hasher     *auth.PassphraseHasher
	cache      *CacheService
	audit      audit.Logger
	events     events.Publisher
}

// NewCompanyService wires the company resource. cache may be nil.
func NewCompanyService(
	repo repository.Repository[model.Company],
	membership repository.MembershipRepositoryIface,
	hasher *auth.PassphraseHasher,
	cache *CacheService,
	deps Deps,
) *CompanyService {
	deps = deps.withDefaults()
	s := &CompanyService{
		repo:       repo,
		membership: membership,
		hasher:     hasher,
		cache:      cache,
		audit:      deps.Audit,
		events:     deps.Events,
	}

	s.Resource = NewResource[model.Company, NewCompanyParams, UpdateCompanyParams](ResourceConfig[model.Company]{
		Name: "company",
		Repo: repo,
		Ownership: MemberOf[model.Company](nil, membership.IsCompanyMember,
			"user does not belong to the company"),
		Hooks: Hooks[model.Company]{
			List:        s.listDirectory,
			BeforeSave:  s.hashPassphrase,
			Insert:      s.insertWithOwner,
			AfterMutate: s.invalidate,
		},
	}, deps)

	return s
}

func (s *CompanyService) listDirectory(ctx context.Context, _ auth.Identity) ([]model.Company, error) {
	fetch := func() (interface{}, error) {
		rows, err := s.repo.Find(ctx, repository.Query{})
		if err != nil {
			return nil, fmt.Errorf("listing company: %w", err)
		}
		return rows, nil
	}

	if s.cache == nil {
		rows, err := fetch()
		if err != nil {
			return nil, err
		}
		return rows.([]model.Company), nil
	}

	var companies []model.Company
	if err := s.cache.GetOrSet(ctx, companyDirectoryKey, &companies, fetch); err != nil {
		return nil, err
	}
	return companies, nil
}

func (s *CompanyService) hashPassphrase(_ context.Context, c *model.Company) error {
	if c.Passphrase == "" || auth.IsHashed(c.Passphrase) {
		return nil
	}
	hashed, err := s.hasher.Hash(c.Passphrase)
	if err != nil {
		return fmt.Errorf("hashing passphrase: %w", err)
	}
	c.Passphrase = hashed
	return nil
}

func (s *CompanyService) insertWithOwner(ctx context.Context, actor auth.Identity, c *model.Company) error {
	return s.membership.CreateCompanyWithOwner(ctx, c, &model.UsersToCompany{
		UserID:     actor.ID,
		IsApproved: true,
		IsAdmin:    true,
	})
}

func (s *CompanyService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, companyDirectoryKey); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate company directory", "error", err)
	}
}

// Join admits the current user to the company when their email domain is one
// of the company's domains or the passphrase matches. The membership is
// approved immediately.
func (s *CompanyService) Join(ctx context.Context, companyID string, params JoinCompanyParams) (*model.UsersToCompany, error) {
	actor, ok := auth.CurrentUser(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := validation.ID(companyID); err != nil {
		return nil, err
	}

	company, err := s.repo.First(ctx, repository.Query{ID: companyID})
	if err != nil {
		return nil, s.fail(ctx, "loading", err)
	}

	member, err := s.membership.IsCompanyMember(ctx, companyID, actor.ID)
	if err != nil {
		return nil, s.fail(ctx, "checking membership", err)
	}
	if member {
		return nil, fmt.Errorf("joining company: %w", domain.ErrConflict)
	}

	if err := s.admit(company, actor, params.Passphrase); err != nil {
		s.recordJoin(ctx, companyID, actor, err)
		return nil, err
	}

	membership, err := s.approve(ctx, companyID, actor.ID)
	if err != nil {
		s.recordJoin(ctx, companyID, actor, err)
		return nil, s.fail(ctx, "joining", err)
	}

	s.recordJoin(ctx, companyID, actor, nil)
	s.mutated(ctx, model.ActionJoin, companyID, actor)
	membership.Company = company
	return membership, nil
}

// approve turns a pending membership into an approved one, or creates it.
func (s *CompanyService) approve(ctx context.Context, companyID, userID string) (*model.UsersToCompany, error) {
	pending, err := s.membership.FindCompanyMember(ctx, companyID, userID)
	switch {
	case err == nil:
		if err := s.membership.ApproveCompanyMember(ctx, pending.ID); err != nil {
			return nil, err
		}
		pending.IsApproved = true
		return pending, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	membership := &model.UsersToCompany{
		CompanyID:  companyID,
		UserID:     userID,
		IsApproved: true,
	}
	if err := s.membership.CreateCompanyMember(ctx, membership); err != nil {
		return nil, err
	}
	return membership, nil
}

func (s *CompanyService) admit(company *model.Company, actor auth.Identity, passphrase string) error {
	if d := actor.EmailDomain(); d != "" && slices.Contains(normalizeDomains(company.Domains), d) {
		return nil
	}

	if passphrase == "" {
		return &domain.AccessDeniedError{Message: "email domain is not admitted by the company, a passphrase is required"}
	}

	ok, err := s.hasher.Verify(passphrase, company.Passphrase)
	if err != nil && !errors.Is(err, auth.ErrInvalidHash) {
		return fmt.Errorf("verifying passphrase: %w", err)
	}
	if !ok {
		return &domain.AccessDeniedError{Message: "invalid company passphrase"}
	}
	return nil
}

func (s *CompanyService) recordJoin(ctx context.Context, companyID string, actor auth.Identity, cause error) {
	if err := s.audit.LogMutation(ctx, audit.Entry{
		Action:     model.ActionJoin,
		EntityType: "company",
		EntityID:   companyID,
		ActorID:    actor.ID,
		Err:        cause,
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to write audit log", "entity", "company", "action", model.ActionJoin, "error", err)
	}
}

func normalizeDomains(domains []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" && !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return out
}
