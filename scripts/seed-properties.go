// Seeds the projects table from a JSON file of property listings.
//
// Usage:
//
//	DATABASE_URL=postgres://... go run scripts/seed-properties.go scripts/sample-projects.json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

type seedProject struct {
	ProjectName      string   `json:"project_name"`
	City             string   `json:"city"`
	Country          string   `json:"country"`
	PropertyType     string   `json:"property_type"`
	Bedrooms         *int     `json:"bedrooms"`
	Bathrooms        *int     `json:"bathrooms"`
	PriceUSD         *float64 `json:"price_usd"`
	AreaSqm          *float64 `json:"area_sqm"`
	CompletionStatus string   `json:"completion_status"`
	Features         []string `json:"features"`
	Facilities       []string `json:"facilities"`
	Description      string   `json:"description"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/seed-properties.go <projects-file.json>")
		fmt.Println("Example: go run scripts/seed-properties.go scripts/sample-projects.json")
		os.Exit(1)
	}

	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Println("DATABASE_URL is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Printf("failed to read %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	var projects []seedProject
	if err := json.Unmarshal(data, &projects); err != nil {
		fmt.Printf("failed to parse %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	if len(projects) == 0 {
		fmt.Println("no projects in file, nothing to do")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Printf("failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	inserted := 0
	for _, p := range projects {
		if p.ProjectName == "" {
			fmt.Println("skipping entry with empty project_name")
			continue
		}
		if p.Features == nil {
			p.Features = []string{}
		}
		if p.Facilities == nil {
			p.Facilities = []string{}
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO projects
				(project_name, city, country, property_type, bedrooms, bathrooms,
				 price_usd, area_sqm, completion_status, features, facilities, description)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			p.ProjectName, p.City, p.Country, p.PropertyType, p.Bedrooms, p.Bathrooms,
			p.PriceUSD, p.AreaSqm, p.CompletionStatus, p.Features, p.Facilities, p.Description,
		)
		if err != nil {
			fmt.Printf("failed to insert %q: %v\n", p.ProjectName, err)
			os.Exit(1)
		}
		inserted++
	}

	fmt.Printf("inserted %d projects\n", inserted)
}
