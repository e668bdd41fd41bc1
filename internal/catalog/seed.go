package catalog

import (
	"context"

	"github.com/samcharmz/charmz-backend/pkg/db/models"
	pkgerrors "github.com/samcharmz/charmz-backend/pkg/errors"
	"github.com/samcharmz/charmz-backend/pkg/types"
)

// SeedProducts is the static storefront catalog. Ids are stable handles that
// cart and wishlist snapshots reference across restarts, so they must never
// be renumbered.
func SeedProducts() []models.Product {
	return []models.Product{
		{ID: "b1", Name: "Aurora Beaded Bracelet", Category: "Bracelets", Price: "₹499", Image: "/images/bracelets/aurora.webp", Tags: types.StringList{"beads", "pastel", "stackable"}, Position: 1},
		{ID: "b2", Name: "Rose Quartz Charm Bracelet", Category: "Bracelets", Price: "₹799", Image: "/images/bracelets/rose-quartz.webp", Tags: types.StringList{"charm", "rose", "gift"}, Position: 2},
		{ID: "b3", Name: "Moonstone Chain Bracelet", Category: "Bracelets", Price: "₹1,299", Image: "/images/bracelets/moonstone.webp", Tags: types.StringList{"chain", "moonstone"}, Position: 3},
		{ID: "b4", Name: "Daisy Enamel Bracelet", Category: "Bracelets", Price: "₹649", Image: "/images/bracelets/daisy.webp", Tags: types.StringList{"enamel", "floral"}, Position: 4},
		{ID: "b5", Name: "Gold-Tone Cuff Bracelet", Category: "Bracelets", Price: "₹1,899", Image: "/images/bracelets/gold-cuff.webp", Tags: types.StringList{"cuff", "gold", "evening"}, Position: 5},
		{ID: "b6", Name: "Ocean Glass Bead Bracelet", Category: "Bracelets", Price: "₹549", Image: "/images/bracelets/ocean-glass.webp", Tags: types.StringList{"beads", "blue"}, Position: 6},
		{ID: "h1", Name: "Satin Bow Hairband", Category: "Hairbands", Price: "₹349", Image: "/images/hairbands/satin-bow.webp", Tags: types.StringList{"satin", "bow"}, Position: 7},
		{ID: "h2", Name: "Pearl Studded Hairband", Category: "Hairbands", Price: "₹899", Image: "/images/hairbands/pearl.webp", Tags: types.StringList{"pearl", "bridal"}, Position: 8},
		{ID: "h3", Name: "Velvet Knot Hairband", Category: "Hairbands", Price: "₹449", Image: "/images/hairbands/velvet-knot.webp", Tags: types.StringList{"velvet", "knot"}, Position: 9},
		{ID: "h4", Name: "Crystal Halo Hairband", Category: "Hairbands", Price: "₹1,499", Image: "/images/hairbands/crystal-halo.webp", Tags: types.StringList{"crystal", "party"}, Position: 10},
		{ID: "h5", Name: "Floral Print Hairband", Category: "Hairbands", Price: "₹299", Image: "/images/hairbands/floral-print.webp", Tags: types.StringList{"floral", "casual"}, Position: 11},
		{ID: "h6", Name: "Braided Silk Hairband", Category: "Hairbands", Price: "₹599", Image: "/images/hairbands/braided-silk.webp", Tags: types.StringList{"silk", "braided"}, Position: 12},
	}
}

type seeder interface {
	UpsertAll(ctx context.Context, products []models.Product) error
}

// Seed writes the static catalog. Idempotent; runs on boot when the seed
// flag is on, or via the seed command.
func Seed(ctx context.Context, repo seeder) error {
	if repo == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "catalog repository is required")
	}
	if err := repo.UpsertAll(ctx, SeedProducts()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seeding catalog")
	}
	return nil
}
