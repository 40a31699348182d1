package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseGroupBy(t *testing.T) {
	g, err := ParseGroupBy("vendor")
	require.NoError(t, err)
	assert.Equal(t, GroupByVendor, g)

	g, err = ParseGroupBy("category")
	require.NoError(t, err)
	assert.Equal(t, GroupByCategory, g)

	for _, bad := range []string{"", "Vendor", "vendor_id", "name; drop"} {
		_, err := ParseGroupBy(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseMetric(t *testing.T) {
	for s, want := range map[string]Metric{"avg": MetricAvg, "sum": MetricSum, "count": MetricCount} {
		m, err := ParseMetric(s)
		require.NoError(t, err)
		assert.Equal(t, want, m)
	}
	_, err := ParseMetric("median")
	assert.Error(t, err)
}

func TestParseMetricField(t *testing.T) {
	for s, want := range map[string]MetricField{"score": FieldScore, "price": FieldPrice, "ratings": FieldRatings} {
		f, err := ParseMetricField(s)
		require.NoError(t, err)
		assert.Equal(t, want, f)
	}
	_, err := ParseMetricField("$price")
	assert.Error(t, err)
}

func TestMetricFieldRef(t *testing.T) {
	assert.Equal(t, "$score", FieldScore.ref())
	assert.Equal(t, "$price", FieldPrice.ref())
	assert.Equal(t, "$ratings", FieldRatings.ref())
}

func TestGroupPipelineVendor(t *testing.T) {
	p := GroupPipeline(GroupByVendor, MetricAvg, FieldPrice)
	require.Len(t, p, 1, "vendor grouping needs no $unwind")

	assert.Equal(t, bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: "$vendor_id"},
		{Key: "result", Value: bson.D{{Key: "$avg", Value: "$price"}}},
	}}}, p[0])
}

func TestGroupPipelineCategoryUnwinds(t *testing.T) {
	p := GroupPipeline(GroupByCategory, MetricSum, FieldScore)
	require.Len(t, p, 2)

	assert.Equal(t, bson.D{{Key: "$unwind", Value: "$categories"}}, p[0])
	assert.Equal(t, bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: "$categories"},
		{Key: "result", Value: bson.D{{Key: "$sum", Value: "$score"}}},
	}}}, p[1])
}

func TestGroupPipelineCountIgnoresField(t *testing.T) {
	// count sums a literal 1 per document regardless of the chosen field.
	for _, f := range []MetricField{FieldScore, FieldPrice, FieldRatings} {
		p := GroupPipeline(GroupByVendor, MetricCount, f)
		require.Len(t, p, 1)
		assert.Equal(t, bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$vendor_id"},
			{Key: "result", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}}, p[0])
	}
}

func TestDistinctCategoriesPipeline(t *testing.T) {
	p := DistinctCategoriesPipeline()
	require.Len(t, p, 3)

	assert.Equal(t, bson.D{{Key: "$unwind", Value: "$categories"}}, p[0])
	assert.Equal(t, bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: nil},
		{Key: "categories", Value: bson.D{{Key: "$addToSet", Value: "$categories"}}},
	}}}, p[1])
	assert.Equal(t, bson.D{{Key: "$project", Value: bson.D{
		{Key: "count", Value: bson.D{{Key: "$size", Value: "$categories"}}},
	}}}, p[2])
}

func TestRatioPipelineZeroFlavorGuard(t *testing.T) {
	p := RatioPipeline()
	require.Len(t, p, 1)

	assert.Equal(t, bson.D{{Key: "$project", Value: bson.D{
		{Key: "ratio", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$ratings.flavor", 0}}},
			0,
			bson.D{{Key: "$divide", Value: bson.A{"$ratings.strength", "$ratings.flavor"}}},
		}}}},
	}}}, p[0])
}
