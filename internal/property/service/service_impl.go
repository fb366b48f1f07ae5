package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/spacemate/spacemate/internal/clock"
	"github.com/spacemate/spacemate/internal/property/domain"
	"github.com/spacemate/spacemate/pkg/db"
	"github.com/spacemate/spacemate/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const slugRetryLimit = 3

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
}

func New(conn *gorm.DB, log *zap.Logger, repo domain.Repository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &service{
		db:    conn,
		log:   log.Named("property.service"),
		repo:  repo,
		genID: genID,
		clock: clk,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Property, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("property name is required")
	}
	gender := req.Gender
	if gender == "" {
		gender = domain.GenderUnisex
	}

	now := s.clock.Now()
	property := &domain.Property{
		ID:              s.genID.Generate(),
		Slug:            slug.Make(name),
		Name:            name,
		Address:         strings.TrimSpace(req.Address),
		City:            strings.TrimSpace(req.City),
		State:           strings.TrimSpace(req.State),
		Pincode:         strings.TrimSpace(req.Pincode),
		ContactNumber:   strings.TrimSpace(req.ContactNumber),
		ManagerName:     strings.TrimSpace(req.ManagerName),
		TotalRooms:      req.TotalRooms,
		OccupiedRooms:   0,
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
		Gender:          gender,
		PGType:          req.PGType,
		Description:     req.Description,
		Amenities:       req.Amenities,
		Rules:           req.Rules,
		IsActive:        true,
		CreatedBy:       req.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// Slug collisions get an id suffix rather than an error.
	var err error
	for attempt := 0; attempt < slugRetryLimit; attempt++ {
		if attempt > 0 {
			property.ID = s.genID.Generate()
			property.Slug = fmt.Sprintf("%s-%s", slug.Make(name), property.ID.String())
		}
		if err = s.repo.Insert(ctx, s.db, property); err == nil {
			return property, nil
		}
		if !db.IsDuplicateKeyErr(err) {
			return nil, err
		}
	}
	return nil, err
}

func (s *service) Get(ctx context.Context, id snowflake.ID) (*domain.Property, error) {
	return s.repo.FindByID(ctx, s.db, id)
}

func (s *service) ListActive(ctx context.Context, filter domain.ListFilter, page pagination.Pagination) ([]domain.Property, *pagination.PageInfo, error) {
	return s.repo.ListActive(ctx, s.db, filter, page)
}
