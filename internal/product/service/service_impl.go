package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/techdrop/catalog/internal/clock"
	"github.com/techdrop/catalog/internal/product/domain"
	"github.com/techdrop/catalog/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultPage  = 1
	defaultLimit = 12
	defaultSort  = "-launchDate"
)

// sortColumns maps API sort field names to whitelisted columns.
var sortColumns = map[string]string{
	"launchDate": "launch_date",
	"title":      "title",
	"brand":      "brand",
	"category":   "category",
	"price":      "price",
	"slug":       "slug",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		repo:  p.Repo,
		genID: p.GenID,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}
	brand := strings.TrimSpace(req.Brand)
	if brand == "" {
		return nil, domain.ErrInvalidBrand
	}
	category := domain.Category(strings.ToLower(strings.TrimSpace(req.Category)))
	if !category.Valid() {
		return nil, domain.ErrInvalidCategory
	}
	launchDate, err := parseLaunchDate(req.LaunchDate)
	if err != nil {
		return nil, domain.ErrInvalidLaunchDate
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, domain.ErrInvalidPrice
	}

	productSlug, err := s.uniqueSlug(ctx, title, brand, 0)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	p := &domain.Product{
		ID:         s.genID.Generate().Int64(),
		Title:      title,
		Brand:      brand,
		Category:   category,
		Images:     datatypes.NewJSONSlice(normalizeImages(req.Images)),
		LaunchDate: launchDate,
		Price:      req.Price,
		Slug:       productSlug,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if req.Specs != nil {
		p.Specs = datatypes.JSONMap(req.Specs)
	}

	if err := s.repo.Create(ctx, s.db, p); err != nil {
		// Lost a race against a concurrent create; the unique index is the
		// final arbiter for slug uniqueness.
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	s.log.Info("product created",
		zap.String("id", snowflake.ID(p.ID).String()),
		zap.String("slug", p.Slug),
	)

	resp := s.toResponse(p, now)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	titleChanged := false
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, domain.ErrInvalidTitle
		}
		titleChanged = title != item.Title
		item.Title = title
	}
	if req.Brand != nil {
		brand := strings.TrimSpace(*req.Brand)
		if brand == "" {
			return nil, domain.ErrInvalidBrand
		}
		item.Brand = brand
	}
	if req.Category != nil {
		category := domain.Category(strings.ToLower(strings.TrimSpace(*req.Category)))
		if !category.Valid() {
			return nil, domain.ErrInvalidCategory
		}
		item.Category = category
	}
	if req.LaunchDate != nil {
		launchDate, err := parseLaunchDate(*req.LaunchDate)
		if err != nil {
			return nil, domain.ErrInvalidLaunchDate
		}
		item.LaunchDate = launchDate
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, domain.ErrInvalidPrice
		}
		item.Price = req.Price
	}
	if req.Images != nil {
		item.Images = datatypes.NewJSONSlice(normalizeImages(*req.Images))
	}
	if req.Specs != nil {
		item.Specs = datatypes.JSONMap(req.Specs)
	}

	// The slug follows the title only: brand-only edits keep public URLs
	// stable.
	if titleChanged {
		newSlug, err := s.uniqueSlug(ctx, item.Title, item.Brand, item.ID)
		if err != nil {
			return nil, err
		}
		item.Slug = newSlug
	}

	now := s.clock.Now()
	item.UpdatedAt = now
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	resp := s.toResponse(item, now)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrInvalidID
	}

	deleted, err := s.repo.Delete(ctx, s.db, productID.Int64())
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}

	s.log.Info("product deleted", zap.String("id", productID.String()))
	return nil
}

func (s *Service) GetBySlug(ctx context.Context, rawSlug string) (*domain.Response, error) {
	value := strings.TrimSpace(rawSlug)
	if value == "" {
		return nil, domain.ErrNotFound
	}

	item, err := s.repo.FindBySlug(ctx, s.db, value)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(item, s.clock.Now())
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.Page, error) {
	filter := domain.ListFilter{
		Search: strings.TrimSpace(req.Search),
		Now:    s.clock.Now(),
	}

	if raw := strings.TrimSpace(req.Category); raw != "" {
		category := domain.Category(strings.ToLower(raw))
		if !category.Valid() {
			return nil, domain.ErrInvalidCategory
		}
		filter.Category = &category
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := domain.Status(strings.ToLower(raw))
		if !status.Valid() {
			return nil, domain.ErrInvalidStatus
		}
		filter.Status = &status
	}

	page := req.Page
	if page < 1 {
		page = defaultPage
	}
	limit := req.Limit
	if limit < 1 {
		limit = defaultLimit
	}
	filter.Offset = (page - 1) * limit
	filter.Limit = limit
	filter.Sort = parseSort(req.Sort)

	items, total, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, s.toResponse(&items[i], filter.Now))
	}

	return &domain.Page{
		Items: resp,
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// uniqueSlug derives the slug from title and brand and disambiguates
// collisions with a deterministic numeric suffix (-2, -3, ...).
func (s *Service) uniqueSlug(ctx context.Context, title, brand string, selfID int64) (string, error) {
	base := slug.Make(title + "-" + brand)

	candidate := base
	for i := 2; ; i++ {
		existing, err := s.repo.FindBySlug(ctx, s.db, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil || existing.ID == selfID {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
}

func (s *Service) toResponse(p *domain.Product, now time.Time) domain.Response {
	resp := domain.Response{
		ID:         snowflake.ID(p.ID).String(),
		Title:      p.Title,
		Brand:      p.Brand,
		Category:   p.Category,
		Images:     []string(p.Images),
		LaunchDate: p.LaunchDate,
		Status:     p.Status(now),
		Price:      p.Price,
		Slug:       p.Slug,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if resp.Images == nil {
		resp.Images = []string{}
	}
	if len(p.Specs) > 0 {
		resp.Specs = map[string]any(p.Specs)
	}
	return resp
}

func parseSort(raw string) domain.SortSpec {
	value := strings.TrimSpace(raw)
	if value == "" {
		value = defaultSort
	}

	desc := strings.HasPrefix(value, "-")
	field := strings.TrimPrefix(value, "-")

	column, ok := sortColumns[field]
	if !ok {
		return domain.SortSpec{Column: "launch_date", Desc: true}
	}
	return domain.SortSpec{Column: column, Desc: desc}
}

const dateOnlyLayout = "2006-01-02"

func parseLaunchDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed.UTC(), nil
	}
	parsed, err := time.Parse(dateOnlyLayout, value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}

func normalizeImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, img := range images {
		img = strings.TrimSpace(img)
		if img == "" {
			continue
		}
		out = append(out, img)
	}
	return out
}
