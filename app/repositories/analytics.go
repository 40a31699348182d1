package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nberchet/apothecary/pkg/metrics"
)

// The grouped-analytics parameters form closed enumerations. Request
// strings are parsed into these variants up front and only the variants
// are mapped to pipeline stages, so no user input is ever interpolated
// into a query.

// GroupBy selects the grouping key of the analytics search.
type GroupBy int

const (
	GroupByVendor GroupBy = iota
	GroupByCategory
)

// Metric selects the aggregation applied per group.
type Metric int

const (
	MetricAvg Metric = iota
	MetricSum
	MetricCount
)

// MetricField names the document field the metric runs over.
type MetricField int

const (
	FieldScore MetricField = iota
	FieldPrice
	FieldRatings
)

// ParseGroupBy maps the groupBy query parameter onto its variant.
func ParseGroupBy(s string) (GroupBy, error) {
	switch s {
	case "vendor":
		return GroupByVendor, nil
	case "category":
		return GroupByCategory, nil
	}
	return 0, fmt.Errorf("invalid groupBy %q", s)
}

// ParseMetric maps the metric query parameter onto its variant.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "avg":
		return MetricAvg, nil
	case "sum":
		return MetricSum, nil
	case "count":
		return MetricCount, nil
	}
	return 0, fmt.Errorf("invalid metric %q", s)
}

// ParseMetricField maps the field query parameter onto its variant.
func ParseMetricField(s string) (MetricField, error) {
	switch s {
	case "score":
		return FieldScore, nil
	case "price":
		return FieldPrice, nil
	case "ratings":
		return FieldRatings, nil
	}
	return 0, fmt.Errorf("invalid field %q", s)
}

func (f MetricField) ref() string {
	switch f {
	case FieldPrice:
		return "$price"
	case FieldRatings:
		return "$ratings"
	default:
		return "$score"
	}
}

// CategoryCount is the distinct-categories result.
type CategoryCount struct {
	Count int `bson:"count" json:"count"`
}

// PotionRatio is one strength/flavor ratio entry.
type PotionRatio struct {
	ID    primitive.ObjectID `bson:"_id"   json:"_id"`
	Ratio float64            `bson:"ratio" json:"ratio"`
}

// GroupResult is one group of the analytics search. The _id is the
// grouping value (a vendor id or a category name).
type GroupResult struct {
	ID     interface{} `bson:"_id"    json:"_id"`
	Result float64     `bson:"result" json:"result"`
}

// ─── Pipeline construction ────────────────────────────────────────────────────

// DistinctCategoriesPipeline counts the unique values across the
// multi-valued categories field over the whole catalog.
func DistinctCategoriesPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$categories"}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "categories", Value: bson.D{{Key: "$addToSet", Value: "$categories"}}},
		}}},
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "count", Value: bson.D{{Key: "$size", Value: "$categories"}}},
		}}},
	}
}

// RatioPipeline computes ratings.strength / ratings.flavor per potion,
// substituting 0 when flavor is 0. The substitution is a deliberate
// numeric policy, not an error.
func RatioPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "ratio", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$ratings.flavor", 0}}},
				0,
				bson.D{{Key: "$divide", Value: bson.A{"$ratings.strength", "$ratings.flavor"}}},
			}}}},
		}}},
	}
}

// GroupPipeline builds the grouped analytics pipeline. Grouping by
// category first unwinds the multi-valued field, so a potion with N
// categories contributes to N groups.
func GroupPipeline(g GroupBy, m Metric, f MetricField) mongo.Pipeline {
	var pipeline mongo.Pipeline

	groupID := "$vendor_id"
	if g == GroupByCategory {
		groupID = "$categories"
		pipeline = append(pipeline, bson.D{{Key: "$unwind", Value: "$categories"}})
	}

	var operation bson.D
	switch m {
	case MetricAvg:
		operation = bson.D{{Key: "$avg", Value: f.ref()}}
	case MetricSum:
		operation = bson.D{{Key: "$sum", Value: f.ref()}}
	case MetricCount:
		operation = bson.D{{Key: "$sum", Value: 1}}
	}

	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: groupID},
		{Key: "result", Value: operation},
	}}})

	return pipeline
}

// ─── Execution ────────────────────────────────────────────────────────────────

// DistinctCategories returns {count: 0} on an empty catalog: the $unwind
// stage yields no documents, so the group never materialises.
func (r *PotionRepository) DistinctCategories(ctx context.Context) (*CategoryCount, error) {
	defer metrics.ObserveMongo("aggregate", time.Now())

	cur, err := r.col.Aggregate(ctx, DistinctCategoriesPipeline())
	if err != nil {
		return nil, fmt.Errorf("potions: distinct categories: %w", err)
	}

	var out []CategoryCount
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("potions: decode: %w", err)
	}
	if len(out) == 0 {
		return &CategoryCount{Count: 0}, nil
	}
	return &out[0], nil
}

// StrengthFlavorRatios computes the ratio for every potion in the catalog.
func (r *PotionRepository) StrengthFlavorRatios(ctx context.Context) ([]PotionRatio, error) {
	defer metrics.ObserveMongo("aggregate", time.Now())

	cur, err := r.col.Aggregate(ctx, RatioPipeline())
	if err != nil {
		return nil, fmt.Errorf("potions: ratios: %w", err)
	}

	ratios := []PotionRatio{}
	if err := cur.All(ctx, &ratios); err != nil {
		return nil, fmt.Errorf("potions: decode: %w", err)
	}
	return ratios, nil
}

// GroupedSearch runs the grouped analytics pipeline.
func (r *PotionRepository) GroupedSearch(ctx context.Context, g GroupBy, m Metric, f MetricField) ([]GroupResult, error) {
	defer metrics.ObserveMongo("aggregate", time.Now())

	cur, err := r.col.Aggregate(ctx, GroupPipeline(g, m, f))
	if err != nil {
		return nil, fmt.Errorf("potions: grouped search: %w", err)
	}

	results := []GroupResult{}
	if err := cur.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("potions: decode: %w", err)
	}
	return results, nil
}
