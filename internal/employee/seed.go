package employee

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"time"

	"github.com/staffdeck/directory-api/internal/employee/entity"
	"github.com/staffdeck/directory-api/pkg/utilities"
)

const (
	defaultGeneratorURL = "https://randomuser.me/api"
	seedCount           = 50
)

var (
	seedTitles = []string{
		"Software Engineer",
		"Marketing Manager",
		"Sales Representative",
		"HR Specialist",
		"Financial Analyst",
		"Operations Manager",
		"UI/UX Designer",
		"Product Manager",
	}
	seedManagers = []string{
		"John Smith",
		"Sarah Johnson",
		"Michael Brown",
		"Emily Davis",
		"David Wilson",
	}
)

// GeneratorClient fetches sample identities from a random-user generator
// service for the first-boot seed.
type GeneratorClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGeneratorClient builds a client for the people generator. An empty
// baseURL falls back to RANDOM_USER_API_URL, then the public default.
func NewGeneratorClient(baseURL string) *GeneratorClient {
	if baseURL == "" {
		baseURL = os.Getenv("RANDOM_USER_API_URL")
	}
	if baseURL == "" {
		baseURL = defaultGeneratorURL
	}
	return &GeneratorClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// GeneratedPerson is one sample identity from the generator.
type GeneratedPerson struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	City      string
	Country   string
	Portrait  string
}

type generatorResponse struct {
	Results []struct {
		Name struct {
			First string `json:"first"`
			Last  string `json:"last"`
		} `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Location struct {
			City    string `json:"city"`
			Country string `json:"country"`
		} `json:"location"`
		Picture struct {
			Large string `json:"large"`
		} `json:"picture"`
	} `json:"results"`
}

// Fetch requests n sample identities.
func (c *GeneratorClient) Fetch(ctx context.Context, n int) ([]GeneratedPerson, error) {
	url := fmt.Sprintf("%s?results=%d&nat=us,gb,ca,au", c.baseURL, n)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch generator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	var body generatorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode generator response: %w", err)
	}

	people := make([]GeneratedPerson, 0, len(body.Results))
	for _, r := range body.Results {
		people = append(people, GeneratedPerson{
			FirstName: r.Name.First,
			LastName:  r.Name.Last,
			Email:     r.Email,
			Phone:     r.Phone,
			City:      r.Location.City,
			Country:   r.Location.Country,
			Portrait:  r.Picture.Large,
		})
	}
	return people, nil
}

// InitializeIfEmpty seeds the store with synthetic records on first boot.
// A non-empty store is a no-op. Department, title, salary, hire date and
// manager are assigned randomly; the generator portrait is stored as the
// custom avatar so the avatar invariant holds for seeded rows too.
func (s *Service) InitializeIfEmpty(ctx context.Context, gen *GeneratorClient) error {
	count, err := s.store.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Infow("store already populated, skipping seed", "count", count)
		return nil
	}

	people, err := gen.Fetch(ctx, seedCount)
	if err != nil {
		return err
	}

	now := s.now()
	records := make([]entity.Employee, 0, len(people))
	for _, p := range people {
		portrait := p.Portrait
		e := entity.Employee{
			ID:           utilities.NewKSUID(),
			FirstName:    p.FirstName,
			LastName:     p.LastName,
			Email:        p.Email,
			Phone:        p.Phone,
			Department:   pick(s.departments),
			Title:        pick(seedTitles),
			Location:     fmt.Sprintf("%s, %s", p.City, p.Country),
			Avatar:       portrait,
			CustomAvatar: &portrait,
			HireDate:     randomHireDate(now),
			Salary:       float64(40000 + rand.IntN(110000)),
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if rand.Float64() > 0.7 {
			m := pick(seedManagers)
			e.Manager = &m
		}
		records = append(records, e)
	}

	if err := s.store.InsertBatch(ctx, records); err != nil {
		return err
	}
	s.logger.Infow("seeded employees", "count", len(records))
	return nil
}

func pick(values []string) string {
	return values[rand.IntN(len(values))]
}

func randomHireDate(now time.Time) time.Time {
	start := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	span := now.Sub(start)
	return dateOf(start.Add(time.Duration(rand.Int64N(int64(span)))))
}
