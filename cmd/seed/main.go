package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"

	"github.com/google/uuid"

	"seatly/internal/inventory"
	"seatly/internal/shared/config"
	"seatly/internal/shared/database"
	"seatly/internal/shared/database/migrations"
)

type Seeder struct {
	db *database.DB
}

// Section layouts for the demo venue. Prices are per seat in the section.
var sections = []struct {
	Name    string
	Rows    []string
	PerRow  int
	Price   float64
	AccRows map[string]bool // rows with accessible seating
}{
	{Name: "Orchestra", Rows: []string{"A", "B", "C", "D", "E"}, PerRow: 20, Price: 20000, AccRows: map[string]bool{"A": true}},
	{Name: "Mezzanine", Rows: []string{"F", "G", "H"}, PerRow: 24, Price: 15000},
	{Name: "Balcony", Rows: []string{"J", "K", "L", "M"}, PerRow: 28, Price: 10000},
}

func main() {
	eventIDFlag := flag.String("event", "", "event id to seed seats for (default: a fresh uuid)")
	clean := flag.Bool("clean", false, "truncate seat/reservation/order tables first")
	flag.Parse()

	fmt.Println("Starting Seatly database seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := migrations.Run(db.PostgreSQL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	seeder := &Seeder{db: db}

	if *clean {
		fmt.Println("Cleaning database...")
		if err := seeder.CleanDatabase(); err != nil {
			log.Fatalf("Failed to clean database: %v", err)
		}
		fmt.Println("Database cleaned")
	}

	eventID := uuid.New()
	if *eventIDFlag != "" {
		eventID, err = uuid.Parse(*eventIDFlag)
		if err != nil {
			log.Fatalf("Invalid event id %q: %v", *eventIDFlag, err)
		}
	}

	count, err := seeder.SeedSeats(eventID)
	if err != nil {
		log.Fatalf("Failed to seed seats: %v", err)
	}

	fmt.Printf("Seeded %d seats for event %s\n", count, eventID)
	fmt.Printf("Seat map: GET %s/events/%s/seats\n", cfg.GetAPIBasePath(), eventID)
}

// CleanDatabase truncates all tables in dependency order.
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"payments",
		"order_seats",
		"orders",
		"reservations",
		"seats",
	}
	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE").Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedSeats creates the full seat grid for one event.
func (s *Seeder) SeedSeats(eventID uuid.UUID) (int, error) {
	repo := inventory.NewRepository(s.db.GetPostgreSQL())

	var seats []inventory.Seat
	for _, section := range sections {
		for _, row := range section.Rows {
			for n := 1; n <= section.PerRow; n++ {
				seats = append(seats, inventory.Seat{
					ID:           uuid.New(),
					EventID:      eventID,
					Section:      section.Name,
					Row:          row,
					SeatNumber:   strconv.Itoa(n),
					Price:        section.Price,
					IsAccessible: section.AccRows[row] && n <= 4,
					Status:       inventory.StatusAvailable,
				})
			}
		}
	}

	if err := repo.CreateSeats(context.Background(), seats); err != nil {
		return 0, err
	}
	return len(seats), nil
}
