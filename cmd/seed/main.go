// Command seed loads demo restaurants, menus and reviews into the document store.
// Documents use fixed ids, so running it again resets the demo data.
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"
	"time"

	"see-eat-backend/config"
	"see-eat-backend/internal/domain"
	"see-eat-backend/internal/repository/postgres"
	"see-eat-backend/pkg/database"
	"see-eat-backend/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

type fixtures struct {
	Customers   []customerFixture   `yaml:"customers"`
	Restaurants []restaurantFixture `yaml:"restaurants"`
	Reviews     []reviewFixture     `yaml:"reviews"`
}

type customerFixture struct {
	UID         string `yaml:"uid"`
	Email       string `yaml:"email"`
	DisplayName string `yaml:"displayName"`
}

type restaurantFixture struct {
	UID            string                        `yaml:"uid"`
	Email          string                        `yaml:"email"`
	Name           string                        `yaml:"name"`
	Description    string                        `yaml:"description"`
	Phone          string                        `yaml:"phone"`
	Website        string                        `yaml:"website"`
	Cuisine        []string                      `yaml:"cuisine"`
	Features       []string                      `yaml:"features"`
	DietaryOptions []string                      `yaml:"dietaryOptions"`
	Address        addressFixture                `yaml:"address"`
	Hours          map[string]domain.DaySchedule `yaml:"hours"`
	Menu           []categoryFixture             `yaml:"menu"`
}

type addressFixture struct {
	Street     string `yaml:"street"`
	City       string `yaml:"city"`
	State      string `yaml:"state"`
	PostalCode string `yaml:"postalCode"`
	Country    string `yaml:"country"`
}

func (a addressFixture) toDomain() domain.Address {
	return domain.Address{Street: a.Street, City: a.City, State: a.State, PostalCode: a.PostalCode, Country: a.Country}
}

type categoryFixture struct {
	Category string        `yaml:"category"`
	Items    []itemFixture `yaml:"items"`
}

type itemFixture struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       string   `yaml:"price"`
	DietaryTags []string `yaml:"dietaryTags"`
	Allergens   []string `yaml:"allergens"`
	SpicyLevel  int      `yaml:"spicyLevel"`
}

type reviewFixture struct {
	User       string `yaml:"user"`
	Restaurant string `yaml:"restaurant"`
	Rating     int    `yaml:"rating"`
	Likes      int    `yaml:"likes"`
	Comment    string `yaml:"comment"`
}

func loadFixtures(raw []byte) (*fixtures, error) {
	var fx fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &fx, nil
}

// schedule expands the "weekday" shorthand to monday through thursday.
func (f restaurantFixture) schedule() domain.Schedule {
	s := domain.DefaultSchedule()
	if wd, ok := f.Hours["weekday"]; ok {
		for _, d := range []string{"monday", "tuesday", "wednesday", "thursday"} {
			s[d] = wd
		}
	}
	for day, h := range f.Hours {
		if _, known := s[day]; known {
			s[day] = h
		}
	}
	return s
}

func (f restaurantFixture) menu(now time.Time) (*domain.Menu, error) {
	m := domain.NewMenu(f.UID, domain.MenuSlug(f.Name, f.UID))
	m.Status = domain.MenuPublished
	for ci, cf := range f.Menu {
		cat := domain.MenuCategory{
			ID:    domain.Slugify(cf.Category),
			Name:  cf.Category,
			Order: ci,
			Items: []domain.MenuItem{},
		}
		for ii, it := range cf.Items {
			price, err := decimal.NewFromString(it.Price)
			if err != nil {
				return nil, fmt.Errorf("%s: price of %q: %w", f.UID, it.Name, err)
			}
			cat.Items = append(cat.Items, domain.MenuItem{
				ID:          domain.Slugify(it.Name),
				CategoryID:  cat.ID,
				Name:        it.Name,
				Description: it.Description,
				Price:       price,
				IsAvailable: true,
				DietaryTags: nonNil(it.DietaryTags),
				Allergens:   nonNil(it.Allergens),
				CuisineTags: nonNil(f.Cuisine),
				SpicyLevel:  it.SpicyLevel,
				Order:       ii,
			})
		}
		m.Categories = append(m.Categories, cat)
	}
	m.MarkSaved(now)
	return m, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type seedResult struct {
	Users       int
	Restaurants int
	Menus       int
	Reviews     int
}

func set(ctx context.Context, store domain.DocumentStore, collection, id string, v interface{}) error {
	doc, err := domain.ToDocument(v)
	if err != nil {
		return err
	}
	if err := store.Set(ctx, collection, id, doc); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func seed(ctx context.Context, store domain.DocumentStore, fx *fixtures, now time.Time) (*seedResult, error) {
	res := &seedResult{}

	for _, c := range fx.Customers {
		details, _ := domain.NewProfileDetails(domain.RoleCustomer)
		p := domain.UserProfile{UID: c.UID, Email: c.Email, DisplayName: c.DisplayName, Role: domain.RoleCustomer, Details: details}
		if err := set(ctx, store, domain.CollectionUsers, c.UID, p); err != nil {
			return nil, err
		}
		res.Users++
	}

	names := map[string]string{}
	for _, f := range fx.Restaurants {
		sched := f.schedule()
		addr := f.Address.toDomain()
		owner := domain.UserProfile{
			UID:         f.UID,
			Email:       f.Email,
			DisplayName: f.Name,
			Role:        domain.RoleRestaurant,
			Details: &domain.RestaurantDetails{
				RestaurantID:   f.UID,
				RestaurantName: f.Name,
				Description:    f.Description,
				Cuisine:        f.Cuisine,
				Address:        &addr,
				Schedule:       sched,
				Status:         domain.RestaurantActive,
			},
		}
		if err := set(ctx, store, domain.CollectionUsers, f.UID, owner); err != nil {
			return nil, err
		}
		res.Users++

		r := domain.RestaurantProfile{
			ID:             f.UID,
			UID:            f.UID,
			Email:          f.Email,
			DisplayName:    f.Name,
			Role:           domain.RoleRestaurant,
			RestaurantName: f.Name,
			Description:    f.Description,
			Phone:          f.Phone,
			Website:        f.Website,
			Cuisine:        nonNil(f.Cuisine),
			DietaryOptions: nonNil(f.DietaryOptions),
			Features:       nonNil(f.Features),
			Address:        addr,
			Schedule:       sched,
			Status:         domain.RestaurantActive,
			IsActive:       true,
			MenuItems:      []domain.SetupMenuItem{},
			Reviews:        []string{},
		}
		if err := set(ctx, store, domain.CollectionRestaurants, f.UID, r); err != nil {
			return nil, err
		}
		names[f.UID] = f.Name
		res.Restaurants++

		m, err := f.menu(now)
		if err != nil {
			return nil, err
		}
		if err := set(ctx, store, domain.CollectionMenus, f.UID, m); err != nil {
			return nil, err
		}
		res.Menus++
	}

	byRestaurant := map[string][]domain.Review{}
	for i, rf := range fx.Reviews {
		name, ok := names[rf.Restaurant]
		if !ok {
			return nil, fmt.Errorf("review %d: unknown restaurant %q", i, rf.Restaurant)
		}
		rv := domain.Review{
			ID:              fmt.Sprintf("seed-review-%d", i+1),
			UserID:          rf.User,
			RestaurantID:    rf.Restaurant,
			RestaurantName:  name,
			RestaurantImage: domain.DefaultReviewImage,
			Rating:          rf.Rating,
			Comment:         strings.TrimSpace(rf.Comment),
			Images:          []string{domain.DefaultReviewImage},
			Likes:           rf.Likes,
		}
		if err := set(ctx, store, domain.CollectionReviews, rv.ID, rv); err != nil {
			return nil, err
		}
		byRestaurant[rf.Restaurant] = append(byRestaurant[rf.Restaurant], rv)
		res.Reviews++
	}

	for id, list := range byRestaurant {
		summary, ids := domain.SummarizeReviews(list)
		if err := store.Update(ctx, domain.CollectionRestaurants, id, domain.Document{"ratings": summary, "reviews": ids}); err != nil {
			return nil, fmt.Errorf("update ratings for %s: %w", id, err)
		}
	}
	return res, nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.DocstoreDriver != config.DriverPostgres {
		logger.Log.Fatal("Seeding requires DOCSTORE_DRIVER=postgres")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}

	fx, err := loadFixtures(fixturesYAML)
	if err != nil {
		logger.Log.Fatal("Invalid fixtures", zap.Error(err))
	}

	res, err := seed(ctx, postgres.NewDocumentStore(pool, cfg.ReadRetryAttempts), fx, time.Now())
	if err != nil {
		logger.Log.Fatal("Seeding failed", zap.Error(err))
	}
	logger.Log.Info("Seeding completed",
		zap.Int("users", res.Users),
		zap.Int("restaurants", res.Restaurants),
		zap.Int("menus", res.Menus),
		zap.Int("reviews", res.Reviews),
	)
}
