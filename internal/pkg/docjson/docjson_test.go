package docjson_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/unifiedui/mongo-viewer/internal/pkg/docjson"
)

func sampleDocument(t *testing.T) bson.D {
	t.Helper()
	id, err := primitive.ObjectIDFromHex("64b7f1c2a1b2c3d4e5f60718")
	require.NoError(t, err)

	created := time.Date(2024, 3, 1, 12, 30, 0, 250*int(time.Millisecond), time.UTC)
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "widget"},
		{Key: "qty", Value: int32(3)},
		{Key: "createdAt", Value: primitive.NewDateTimeFromTime(created)},
		{Key: "tags", Value: bson.A{"a", "b"}},
		{Key: "dims", Value: bson.D{{Key: "w", Value: 2.5}, {Key: "h", Value: int64(4)}}},
		{Key: "note", Value: nil},
	}
}

func TestEncoder_PlainKeepsOrderAndFlattensTypes(t *testing.T) {
	enc := docjson.NewEncoder(docjson.ModePlain)

	raw, err := enc.Encode(sampleDocument(t))
	require.NoError(t, err)

	assert.Equal(t,
		`{"_id":"64b7f1c2a1b2c3d4e5f60718","name":"widget","qty":3,`+
			`"createdAt":"2024-03-01T12:30:00.250Z","tags":["a","b"],`+
			`"dims":{"w":2.5,"h":4},"note":null}`,
		string(raw))
}

func TestEncoder_PlainSpecialValues(t *testing.T) {
	enc := docjson.NewEncoder("")
	assert.Equal(t, docjson.ModePlain, enc.Mode())

	raw, err := enc.Encode(bson.D{
		{Key: "bin", Value: primitive.Binary{Subtype: 0, Data: []byte("hi")}},
		{Key: "re", Value: primitive.Regex{Pattern: "^a", Options: "i"}},
		{Key: "nan", Value: math.NaN()},
		{Key: "ts", Value: primitive.Timestamp{T: 10, I: 2}},
		{Key: "m", Value: bson.M{"z": 1, "a": 2}},
	})
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"bin":"aGk=","re":"/^a/i","nan":null,"ts":{"t":10,"i":2},"m":{"a":2,"z":1}}`,
		string(raw))
	assert.Contains(t, string(raw), `"m":{"a":2,"z":1}`)
}

func TestEncoder_RelaxedExtendedJSON(t *testing.T) {
	enc := docjson.NewEncoder(docjson.ModeRelaxed)

	raw, err := enc.Encode(sampleDocument(t))
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"_id":{"$oid":"64b7f1c2a1b2c3d4e5f60718"}`)
	assert.Contains(t, string(raw), `"qty":3`)
}

func TestEncoder_CanonicalExtendedJSON(t *testing.T) {
	enc := docjson.NewEncoder(docjson.ModeCanonical)

	raw, err := enc.Encode(bson.D{{Key: "qty", Value: int32(3)}})
	require.NoError(t, err)

	assert.JSONEq(t, `{"qty":{"$numberInt":"3"}}`, string(raw))
}

func TestEncoder_EncodeAll(t *testing.T) {
	enc := docjson.NewEncoder(docjson.ModePlain)

	out, err := enc.EncodeAll([]bson.D{{{Key: "n", Value: int32(1)}}, {{Key: "n", Value: int32(2)}}})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, `{"n":2}`, string(out[1]))

	out, err = enc.EncodeAll(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NotNil(t, out)
}

func TestParseMode(t *testing.T) {
	mode, err := docjson.ParseMode("canonical")
	require.NoError(t, err)
	assert.Equal(t, docjson.ModeCanonical, mode)

	mode, err = docjson.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, docjson.ModePlain, mode)

	_, err = docjson.ParseMode("yaml")
	assert.Error(t, err)
}
