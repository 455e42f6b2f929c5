package mongotable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFields(t *testing.T) {
	doc := bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "outlook", Value: "Sunny"},
		{Key: "temp", Value: 30.5},
		{Key: "play", Value: "no"},
	}
	assert.Equal(t, []string{"outlook", "temp", "play"}, Fields(doc))
}

func TestRecord(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	doc := bson.D{
		{Key: "outlook", Value: "Sunny"},
		{Key: "temp", Value: 30.5},
		{Key: "count", Value: int32(3)},
		{Key: "windy", Value: true},
		{Key: "seen", Value: primitive.NewDateTimeFromTime(when)},
		{Key: "note", Value: nil},
		{Key: "tags", Value: bson.A{"a", int64(2)}},
	}
	record := Record(doc, []string{"outlook", "temp", "count", "windy", "seen", "note", "tags", "humidity"})
	assert.Equal(t, []string{"Sunny", "30.5", "3", "true", "2024-03-01T12:00:00Z", "", "[a 2]", ""}, record)
}
