package providerRepo

import (
	"context"
	"fmt"
	"time"

	"marketplace/models"
	"marketplace/services/scheduling"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// GetByID retrieves a provider by its ID.
func (r *MongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	var provider models.Provider
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&provider); err != nil {
		return nil, notFound(id, err)
	}
	return &provider, nil
}

// GetByIDs retrieves the listed providers in one round trip.
func (r *MongoProviderRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Provider, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve providers: %w", err)
	}
	return decodeAll(ctx, cursor)
}

// mongoEarthRadiusMeters is the sphere $nearSphere measures GeoJSON
// distances on.
const mongoEarthRadiusMeters = 6378100.0

// nearSphereMeters expresses radiusKm as the $maxDistance covering the same
// angle the in-process haversine uses, so both paths agree on who is in range.
func nearSphereMeters(radiusKm float64) float64 {
	return scheduling.RadiusRadians(radiusKm) * mongoEarthRadiusMeters
}

// FindNearby runs the native geo filter. With a radius the store returns
// providers nearest first, so hitting the limit drops the farthest ones.
// Without one the result is ordered by id. Either way a truncated result is
// logged.
func (r *MongoProviderRepo) FindNearby(ctx context.Context, criteria SearchCriteria) ([]models.Provider, error) {
	ctx, cancel := withTimeout(ctx, 10*time.Second)
	defer cancel()

	limit := r.nearbyLimit
	if limit <= 0 {
		limit = DefaultNearbyLimit
	}
	opts := options.Find().SetLimit(int64(limit) + 1)
	if criteria.RadiusKm <= 0 {
		opts.SetSort(bson.D{{Key: "id", Value: 1}})
	}

	cursor, err := r.coll.Find(ctx, buildNearbyFilter(criteria), opts)
	if err != nil {
		return nil, fmt.Errorf("nearby provider query failed: %w", err)
	}
	providers, err := decodeAll(ctx, cursor)
	if err != nil {
		return nil, err
	}
	if len(providers) > limit {
		zap.L().Warn("nearby provider query truncated",
			zap.Int("limit", limit),
			zap.Float64("radiusKm", criteria.RadiusKm),
			zap.String("subCategoryID", criteria.SubCategoryID))
		providers = providers[:limit]
	}
	return providers, nil
}

func buildNearbyFilter(criteria SearchCriteria) bson.M {
	filter := bson.M{"profile.status": models.ProviderStatusActive}
	if len(criteria.ProviderIDs) > 0 {
		filter["id"] = bson.M{"$in": criteria.ProviderIDs}
	}
	if criteria.SubCategoryID != "" {
		filter["subCategoryIds"] = criteria.SubCategoryID
	}
	if criteria.RadiusKm > 0 {
		filter["profile.locationGeo"] = bson.M{
			"$nearSphere": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": bson.A{criteria.Lng, criteria.Lat},
				},
				"$maxDistance": nearSphereMeters(criteria.RadiusKm),
			},
		}
	}
	return filter
}
