// cmd/fieldops/main.go
//
// Operational CLI: schema migration and demo-data seeding.
package main

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/agrostack/fieldops/internal/auth"
	"github.com/agrostack/fieldops/internal/config"
	"github.com/agrostack/fieldops/internal/derive"
	"github.com/agrostack/fieldops/internal/geo"
	"github.com/agrostack/fieldops/internal/model"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

var rootCmd = &cobra.Command{
	Use:   "fieldops",
	Short: "Fieldops is a CLI tool for managing the agricultural asset database",
	Long:  `Fieldops is a CLI tool for migrating the schema and seeding demo data.`,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  `Create or update all tables for the asset hierarchy and rotation ledger.`,
	Run: func(cmd *cobra.Command, args []string) {
		db := openDatabase()

		if err := db.AutoMigrate(model.All()...); err != nil {
			log.Fatalf("Failed to migrate schema: %v", err)
		}

		fmt.Println("Schema migrated successfully")
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo data",
	Long:  `Populate demo users, companies, regions, sectors, plantations, crops, and rotations.`,
	Run: func(cmd *cobra.Command, args []string) {
		db := openDatabase()

		if err := seed(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}

		fmt.Println("Demo data seeded successfully")
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func openDatabase() *gorm.DB {
	cfg := config.Load()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

// squarePolygon builds a closed square ring of the given size (in degrees)
// around a center.
func squarePolygon(centerLon, centerLat, size float64) *geo.Polygon {
	half := size / 2
	poly := geo.Polygon{geo.Ring{
		{Lon: centerLon - half, Lat: centerLat - half},
		{Lon: centerLon - half, Lat: centerLat + half},
		{Lon: centerLon + half, Lat: centerLat + half},
		{Lon: centerLon + half, Lat: centerLat - half},
		{Lon: centerLon - half, Lat: centerLat - half},
	}}
	return &poly
}

var demoCrops = []model.Crop{
	{Name: "corn", Subtype: "grain", BestSeason: season("spring")},
	{Name: "wheat", Subtype: "winter", BestSeason: season("autumn")},
	{Name: "wheat", Subtype: "spring", BestSeason: season("spring")},
	{Name: "soybean", Subtype: "", BestSeason: season("spring")},
	{Name: "barley", Subtype: "", BestSeason: season("autumn")},
	{Name: "canola", Subtype: "", BestSeason: season("spring")},
	{Name: "sunflower", Subtype: "", BestSeason: season("summer")},
	{Name: "potato", Subtype: "", BestSeason: season("spring")},
}

func season(s string) *string { return &s }

var demoColors = []string{"#4caf50", "#2196f3", "#ff9800", "#9c27b0", "#795548"}

func seed(db *gorm.DB) error {
	// Approx bounding box for Azerbaijan
	const (
		minLat, maxLat = 38.4, 41.9
		minLon, maxLon = 44.5, 50.5
	)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	hasher := auth.NewPasswordHasher()

	crops := make([]model.Crop, len(demoCrops))
	copy(crops, demoCrops)
	for i := range crops {
		if err := db.Create(&crops[i]).Error; err != nil {
			return fmt.Errorf("creating crop %s: %w", crops[i].Name, err)
		}
	}

	pickCrops := func(n int) []model.Crop {
		idx := rng.Perm(len(crops))[:n]
		out := make([]model.Crop, 0, n)
		for _, i := range idx {
			out = append(out, crops[i])
		}
		return out
	}

	for u := 1; u <= 3; u++ {
		username := fmt.Sprintf("user%d", u)
		hash, err := hasher.Hash("demo1234")
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		user := model.User{Username: username, PasswordHash: hash}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("creating user %s: %w", username, err)
		}
		if verbose {
			fmt.Printf("Created user: %s / demo1234\n", username)
		}

		for c := 0; c < 1+rng.Intn(2); c++ {
			company := model.Company{
				Name:    fmt.Sprintf("%s Agro Holding %d", username, c+1),
				OwnerID: user.ID,
				Color:   demoColors[rng.Intn(len(demoColors))],
			}
			if err := db.Create(&company).Error; err != nil {
				return fmt.Errorf("creating company: %w", err)
			}

			for r := 0; r < 2+rng.Intn(3); r++ {
				centerLon := minLon + rng.Float64()*(maxLon-minLon)
				centerLat := minLat + rng.Float64()*(maxLat-minLat)
				region := model.Region{
					Name:      fmt.Sprintf("Region %c%d", 'A'+rune(r), c+1),
					Center:    &geo.Point{Lon: centerLon, Lat: centerLat},
					Color:     demoColors[rng.Intn(len(demoColors))],
					CompanyID: company.ID,
				}
				if err := db.Create(&region).Error; err != nil {
					return fmt.Errorf("creating region: %w", err)
				}

				for s := 0; s < 2+rng.Intn(3); s++ {
					polyLon := centerLon + (rng.Float64()-0.5)
					polyLat := centerLat + (rng.Float64()-0.5)
					polySize := 0.02 + rng.Float64()*0.06
					shape := squarePolygon(polyLon, polyLat, polySize)

					sector := model.WaterwaySector{
						Name:                  fmt.Sprintf("Sector %d-%d", r+1, s+1),
						TotalWaterRequirement: math.Round((500+rng.Float64()*1500)*100) / 100,
						Shape:                 shape,
						AreaHa:                derive.SectorArea(shape),
						Color:                 demoColors[rng.Intn(len(demoColors))],
						RegionID:              region.ID,
					}
					if err := db.Create(&sector).Error; err != nil {
						return fmt.Errorf("creating sector: %w", err)
					}

					if err := seedPlantations(db, rng, &company, &region, &sector, polyLon, polyLat, pickCrops); err != nil {
						return err
					}
				}
			}
		}
	}

	return nil
}

func seedPlantations(
	db *gorm.DB,
	rng *rand.Rand,
	company *model.Company,
	region *model.Region,
	sector *model.WaterwaySector,
	polyLon, polyLat float64,
	pickCrops func(int) []model.Crop,
) error {
	seedRotation := func(pivotID, fieldID *uuid.UUID, year int, entryCrops []model.Crop) error {
		rotation := model.CropRotation{
			Year:      year,
			Notes:     "seeded demo rotation",
			PivotID:   pivotID,
			FieldID:   fieldID,
			SectorID:  sector.ID,
			RegionID:  region.ID,
			CompanyID: company.ID,
		}
		if err := db.Create(&rotation).Error; err != nil {
			return fmt.Errorf("creating rotation: %w", err)
		}
		for i := range entryCrops {
			yield := math.Round(rng.Float64()*5000) / 1000
			entry := model.CropRotationEntry{
				RotationID:        rotation.ID,
				CropID:            entryCrops[i].ID,
				ExpectedYieldTons: &yield,
			}
			if err := db.Create(&entry).Error; err != nil {
				return fmt.Errorf("creating rotation entry: %w", err)
			}
		}
		return nil
	}

	for p := 0; p < 1+rng.Intn(4); p++ {
		radius := math.Round((50+rng.Float64()*200)*100) / 100
		seeding := time.Now().AddDate(0, 0, -rng.Intn(730))
		harvest := seeding.AddDate(0, 0, 90+rng.Intn(60))
		pivotCrops := pickCrops(1 + rng.Intn(3))

		pivot := model.CropPivot{
			LogicalName: fmt.Sprintf("P%d", 10+rng.Intn(90)),
			RadiusM:     radius,
			Area:        derive.PivotArea(radius),
			Center: &geo.Point{
				Lon: polyLon + (rng.Float64()-0.5)*0.04,
				Lat: polyLat + (rng.Float64()-0.5)*0.04,
			},
			SeedingDate: &seeding,
			HarvestDate: &harvest,
			SectorID:    sector.ID,
			Crops:       pivotCrops,
		}
		if err := db.Create(&pivot).Error; err != nil {
			return fmt.Errorf("creating pivot: %w", err)
		}

		if err := seedRotation(&pivot.ID, nil, seeding.Year(), pivotCrops); err != nil {
			return err
		}
	}

	for f := 0; f < rng.Intn(3); f++ {
		shape := squarePolygon(
			polyLon+(rng.Float64()-0.5)*0.04,
			polyLat+(rng.Float64()-0.5)*0.04,
			0.005+rng.Float64()*0.01,
		)
		area := derive.SectorArea(shape)
		seeding := time.Now().AddDate(0, 0, -rng.Intn(730))
		harvest := seeding.AddDate(0, 0, 90+rng.Intn(60))
		fieldCrops := pickCrops(1 + rng.Intn(2))

		field := model.CropField{
			LogicalName: fmt.Sprintf("F%d", 10+rng.Intn(90)),
			Area:        *area,
			Shape:       shape,
			SeedingDate: &seeding,
			HarvestDate: &harvest,
			SectorID:    sector.ID,
			Crops:       fieldCrops,
		}
		if err := db.Create(&field).Error; err != nil {
			return fmt.Errorf("creating field: %w", err)
		}

		if err := seedRotation(nil, &field.ID, seeding.Year(), fieldCrops); err != nil {
			return err
		}
	}

	return nil
}
