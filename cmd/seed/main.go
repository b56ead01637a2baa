package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/LewisCM14/allotment-sub001/config"
	"github.com/LewisCM14/allotment-sub001/internal/application"
	pginfra "github.com/LewisCM14/allotment-sub001/internal/infrastructure/postgres"
	"github.com/LewisCM14/allotment-sub001/pkg/helpers"
)

type varietySeed struct {
	family             string
	name               string
	lifecycle          string
	waterFrequencyDays int
	feedFrequencyDays  int
	feedName           string
	sowStart, sowEnd   int
	harvStart, harvEnd int
}

var groups = map[string]struct {
	rotationYears int
	families      []string
}{
	"Nightshade": {rotationYears: 3, families: []string{"Solanaceae"}},
	"Brassica":   {rotationYears: 4, families: []string{"Brassicaceae"}},
	"Legume":     {rotationYears: 2, families: []string{"Fabaceae"}},
	"Allium":     {rotationYears: 3, families: []string{"Amaryllidaceae"}},
	"Cucurbit":   {rotationYears: 2, families: []string{"Cucurbitaceae"}},
}

var familyPests = map[string][]string{
	"Solanaceae":     {"aphid", "colorado beetle"},
	"Brassicaceae":   {"cabbage white caterpillar", "flea beetle", "aphid"},
	"Fabaceae":       {"pea moth", "black bean aphid"},
	"Amaryllidaceae": {"onion fly"},
	"Cucurbitaceae":  {"aphid", "red spider mite"},
}

var familyDiseases = map[string][]string{
	"Solanaceae":     {"late blight", "verticillium wilt"},
	"Brassicaceae":   {"club root", "downy mildew"},
	"Fabaceae":       {"chocolate spot"},
	"Amaryllidaceae": {"white rot", "rust"},
	"Cucurbitaceae":  {"powdery mildew", "cucumber mosaic virus"},
}

var varieties = []varietySeed{
	{"Solanaceae", "Tomato Gardener's Delight", "annual", 1, 7, "tomato feed", 8, 14, 28, 40},
	{"Solanaceae", "Potato Charlotte", "annual", 3, 14, "general purpose feed", 10, 16, 24, 36},
	{"Brassicaceae", "Cabbage Golden Acre", "biennial", 2, 21, "nitrogen-rich feed", 8, 20, 24, 44},
	{"Brassicaceae", "Kale Nero di Toscana", "biennial", 3, 28, "seaweed feed", 12, 24, 30, 50},
	{"Fabaceae", "Runner Bean Scarlet Emperor", "annual", 1, 14, "comfrey feed", 18, 24, 28, 40},
	{"Fabaceae", "Pea Kelvedon Wonder", "annual", 2, 0, "", 10, 26, 22, 38},
	{"Amaryllidaceae", "Onion Sturon", "biennial", 4, 0, "", 10, 16, 28, 36},
	{"Cucurbitaceae", "Courgette Black Beauty", "annual", 1, 7, "tomato feed", 16, 22, 26, 40},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	familyIDs := map[string]string{}
	for groupName, g := range groups {
		var groupID string
		err := pool.QueryRow(ctx, `
			INSERT INTO botanical_groups (name, recommended_rotation_years)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET recommended_rotation_years = EXCLUDED.recommended_rotation_years
			RETURNING id
		`, groupName, g.rotationYears).Scan(&groupID)
		if err != nil {
			log.Fatalf("failed to seed botanical group %s: %v", groupName, err)
		}
		for _, fam := range g.families {
			var famID string
			err := pool.QueryRow(ctx, `
				INSERT INTO families (botanical_group_id, name)
				VALUES ($1, $2)
				ON CONFLICT (name) DO UPDATE SET botanical_group_id = EXCLUDED.botanical_group_id
				RETURNING id
			`, groupID, fam).Scan(&famID)
			if err != nil {
				log.Fatalf("failed to seed family %s: %v", fam, err)
			}
			familyIDs[fam] = famID
		}
	}
	fmt.Printf("seeded %d botanical groups, %d families\n", len(groups), len(familyIDs))

	seedJoined(ctx, pool, "pests", "family_pests", "pest_id", familyIDs, familyPests)
	seedJoined(ctx, pool, "diseases", "family_diseases", "disease_id", familyIDs, familyDiseases)

	for _, v := range varieties {
		famID, ok := familyIDs[v.family]
		if !ok {
			log.Fatalf("variety %s references unknown family %s", v.name, v.family)
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO varieties (family_id, name, lifecycle, water_frequency_days,
				feed_frequency_days, feed_name, sow_week_start, sow_week_end,
				harvest_week_start, harvest_week_end)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (name) DO UPDATE SET
				lifecycle = EXCLUDED.lifecycle,
				water_frequency_days = EXCLUDED.water_frequency_days,
				feed_frequency_days = EXCLUDED.feed_frequency_days,
				feed_name = EXCLUDED.feed_name,
				sow_week_start = EXCLUDED.sow_week_start,
				sow_week_end = EXCLUDED.sow_week_end,
				harvest_week_start = EXCLUDED.harvest_week_start,
				harvest_week_end = EXCLUDED.harvest_week_end
		`, famID, v.name, v.lifecycle, v.waterFrequencyDays,
			v.feedFrequencyDays, v.feedName, v.sowStart, v.sowEnd,
			v.harvStart, v.harvEnd)
		if err != nil {
			log.Fatalf("failed to seed variety %s: %v", v.name, err)
		}
	}
	fmt.Printf("seeded %d varieties\n", len(varieties))

	// Index varieties into Elasticsearch so the search endpoint has data.
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.Warnf("elasticsearch unavailable, skipping indexing: %v", err)
		return
	}
	guide := application.NewGrowGuideService(pginfra.NewGrowGuideRepository(pool), es, cfg.ESVarietiesIndex, logger)
	all, err := guide.ListVarieties(ctx)
	if err != nil {
		log.Fatalf("failed to list varieties for indexing: %v", err)
	}
	indexed := 0
	for i := range all {
		if err := guide.IndexVariety(ctx, &all[i]); err != nil {
			logger.Warnf("index %s failed: %v", all[i].Name, err)
			continue
		}
		indexed++
	}
	fmt.Printf("indexed %d/%d varieties into %s\n", indexed, len(all), cfg.ESVarietiesIndex)
}

// seedJoined upserts the named rows and links each to its family through
// the join table. table is "pests" or "diseases"; joinCol is the foreign
// key column inside joinTable.
func seedJoined(ctx context.Context, pool *pgxpool.Pool, table, joinTable, joinCol string, familyIDs map[string]string, byFamily map[string][]string) {
	count := 0
	for fam, names := range byFamily {
		famID, ok := familyIDs[fam]
		if !ok {
			continue
		}
		for _, name := range names {
			var id string
			err := pool.QueryRow(ctx, fmt.Sprintf(`
				INSERT INTO %s (name) VALUES ($1)
				ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
				RETURNING id
			`, table), name).Scan(&id)
			if err != nil {
				log.Fatalf("failed to seed %s %s: %v", table, name, err)
			}
			_, err = pool.Exec(ctx, fmt.Sprintf(`
				INSERT INTO %s (family_id, %s) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, joinTable, joinCol), famID, id)
			if err != nil {
				log.Fatalf("failed to link %s %s: %v", table, name, err)
			}
			count++
		}
	}
	fmt.Printf("seeded %d %s links\n", count, table)
}
