package seeders

import (
	"context"

	"github.com/rs/zerolog"

	"pos-api/database"
	"pos-api/models"
)

// SampleProducts is the catalog written by Seed.
var SampleProducts = []models.Product{
	{Code: "4901681237036", Name: "Filler", Price: 2200, TaxCD: "10"},
	{Code: "4902505139104", Name: "Ballpoint pen 0.5mm", Price: 150, TaxCD: "10"},
	{Code: "4901480072968", Name: "Campus notebook A5", Price: 180, TaxCD: "10"},
	{Code: "4902778916502", Name: "Plastic eraser", Price: 110, TaxCD: "10"},
	{Code: "4901991052572", Name: "Glue stick", Price: 240, TaxCD: "10"},
	{Code: "4902011731316", Name: "Green tea 500ml", Price: 160, TaxCD: "08"},
	{Code: "4901330502882", Name: "Chocolate bar", Price: 120, TaxCD: "08"},
}

// Seed inserts the sample products that are missing, matching on CODE.
// Existing rows are left as they are, so it is safe to run on every start.
func Seed(ctx context.Context, store *database.Store, log zerolog.Logger) error {
	db := store.Session(ctx)
	var before, after int64
	if err := db.Model(&models.Product{}).Count(&before).Error; err != nil {
		return err
	}

	for _, p := range SampleProducts {
		product := p
		if err := db.Where(&models.Product{Code: product.Code}).FirstOrCreate(&product).Error; err != nil {
			return err
		}
	}

	if err := db.Model(&models.Product{}).Count(&after).Error; err != nil {
		return err
	}
	log.Info().Int64("created", after-before).Int64("products", after).Msg("Seeding finished")
	return nil
}
