/*
Package mongotable reads dataset.Table values from MongoDB collections.
*/
package mongotable

import (
	"context"
	"fmt"
	"time"

	"github.com/pbanos/sapling/dataset"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"
)

const idField = "_id"

// DefaultDatabase is the database used when the connection URL names none
const DefaultDatabase = "sapling"

/*
Connect takes a context and a MongoDB connection URL and returns the database
named in the URL (or DefaultDatabase if it names none) or an error if the server
cannot be reached.
*/
func Connect(ctx context.Context, url string) (*mongo.Database, error) {
	opts := options.Client().ApplyURI(url)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %v", err)
	}
	err = client.Ping(ctx, nil)
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("connecting to mongo: %v", err)
	}
	name := DefaultDatabase
	if cs, err := connstring.Parse(url); err == nil && cs.Database != "" {
		name = cs.Database
	}
	return client.Database(name), nil
}

/*
ReadTable takes a context, a collection and the fields to read and returns
the documents in the collection as a dataset.Table with a column per field.
When no fields are given, the keys of the first document but "_id" are used
in document order. Missing fields and null values become empty cells.
*/
func ReadTable(ctx context.Context, coll *mongo.Collection, fields []string) (*dataset.Table, error) {
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("querying collection %s: %v", coll.Name(), err)
	}
	defer cursor.Close(ctx)
	var rows [][]string
	for cursor.Next(ctx) {
		var doc bson.D
		err = cursor.Decode(&doc)
		if err != nil {
			return nil, fmt.Errorf("decoding document %d of collection %s: %v", len(rows)+1, coll.Name(), err)
		}
		if fields == nil {
			fields = Fields(doc)
		}
		rows = append(rows, Record(doc, fields))
	}
	if err = cursor.Err(); err != nil {
		return nil, fmt.Errorf("reading collection %s: %v", coll.Name(), err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("collection %s has no fields to read", coll.Name())
	}
	return dataset.NewTable(fields, rows)
}

// Fields returns the keys of a document in order, leaving out "_id".
func Fields(doc bson.D) []string {
	result := make([]string, 0, len(doc))
	for _, e := range doc {
		if e.Key != idField {
			result = append(result, e.Key)
		}
	}
	return result
}

// Record returns the text values of the given fields of a document.
func Record(doc bson.D, fields []string) []string {
	values := make(map[string]interface{}, len(doc))
	for _, e := range doc {
		values[e.Key] = e.Value
	}
	record := make([]string, len(fields))
	for i, f := range fields {
		record[i] = text(values[f])
	}
	return record
}

func text(v interface{}) string {
	switch v := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return ""
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	case primitive.DateTime:
		return v.Time().UTC().Format(time.RFC3339)
	case primitive.Decimal128:
		return v.String()
	case bson.D:
		return fmt.Sprintf("%v", v.Map())
	case bson.A:
		values := make([]string, len(v))
		for i, item := range v {
			values[i] = text(item)
		}
		return fmt.Sprintf("%v", values)
	}
	return fmt.Sprintf("%v", v)
}
