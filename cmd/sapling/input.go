package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/csv"
	"github.com/pbanos/sapling/dataset/mongotable"
	"github.com/pbanos/sapling/dataset/sqltable"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/feature/yaml"
	"github.com/spf13/cobra"
)

/*
inputConfig holds the flags that locate a table: a CSV file (or STDIN), a
SQLite3 file, a PostgreSQL URL with a table name or a MongoDB URL with a
collection name.
*/
type inputConfig struct {
	*rootCmdConfig
	input      string
	table      string
	collection string
	fields     []string
	maxDBConns int
}

func (ic *inputConfig) addFlags(cmd *cobra.Command, purpose string) {
	cmd.PersistentFlags().StringVarP(&(ic.input), "input", "i", "", fmt.Sprintf("path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with data %s (defaults to STDIN, interpreted as CSV)", purpose))
	cmd.PersistentFlags().StringVar(&(ic.table), "table", "", "name of the table to read when the input is a SQL database")
	cmd.PersistentFlags().StringVar(&(ic.collection), "collection", "", "name of the collection to read when the input is a MongoDB database")
	cmd.PersistentFlags().StringSliceVar(&(ic.fields), "fields", nil, "fields to read from each MongoDB document (defaults to those of the first document)")
	cmd.PersistentFlags().IntVar(&(ic.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
}

func (ic *inputConfig) Validate() error {
	switch {
	case isMongoURL(ic.input):
		if ic.collection == "" {
			return fmt.Errorf("required collection flag was not set for MongoDB input")
		}
	case ic.input != "" && sqltable.Driver(ic.input) != "":
		if ic.table == "" {
			return fmt.Errorf("required table flag was not set for SQL input")
		}
	}
	if ic.maxDBConns < 0 {
		return fmt.Errorf("max-db-conns flag must not be negative")
	}
	return nil
}

func (ic *inputConfig) readTable(ctx context.Context) (*dataset.Table, error) {
	if ic.input == "" {
		ic.Logf("Reading table from STDIN...")
		t, err := csv.ReadTable(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading table from STDIN: %v", err)
		}
		return t, nil
	}
	if isMongoURL(ic.input) {
		return ic.mongoTable(ctx)
	}
	if driver := sqltable.Driver(ic.input); driver != "" {
		return ic.sqlTable(ctx, driver)
	}
	ic.Logf("Reading table from %s...", ic.input)
	return csv.ReadTableFromFilePath(ic.input)
}

func (ic *inputConfig) sqlTable(ctx context.Context, driver string) (*dataset.Table, error) {
	ic.Logf("Opening %s database at %s to read table %s...", driver, ic.input, ic.table)
	src, err := sqltable.Open(ctx, driver, ic.input, ic.maxDBConns)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.ReadTable(ctx, ic.table)
}

func (ic *inputConfig) mongoTable(ctx context.Context) (*dataset.Table, error) {
	ic.Logf("Connecting to MongoDB at %s to read collection %s...", ic.input, ic.collection)
	db, err := mongotable.Connect(ctx, ic.input)
	if err != nil {
		return nil, err
	}
	defer db.Client().Disconnect(ctx)
	return mongotable.ReadTable(ctx, db.Collection(ic.collection), ic.fields)
}

func isMongoURL(input string) bool {
	return strings.HasPrefix(input, "mongodb://") || strings.HasPrefix(input, "mongodb+srv://")
}

/*
writeTable takes a context, an output (a CSV file path, "" for STDOUT, a
SQLite3 file or a PostgreSQL URL), the name of the table to create on SQL
outputs and a table, and writes the table to the output.
*/
func writeTable(ctx context.Context, output, name string, t *dataset.Table) error {
	if output == "" {
		return csv.WriteTable(os.Stdout, t)
	}
	if driver := sqltable.Driver(output); driver != "" {
		if name == "" {
			return fmt.Errorf("a table name is required to write to a SQL database")
		}
		dst, err := sqltable.Open(ctx, driver, output, 0)
		if err != nil {
			return err
		}
		defer dst.Close()
		return dst.WriteTable(ctx, name, t)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("creating %s: %v", output, err)
	}
	err = csv.WriteTable(f, t)
	if err != nil {
		f.Close()
		return fmt.Errorf("writing table to %s: %v", output, err)
	}
	return f.Close()
}

/*
tableFeatures takes a table, the path to a YAML metadata file ("" for none)
and the name of the target column and returns the features to use, in the
order of the table's columns. Without metadata, every column but the target
is a feature of the kind inferred from its cells; with metadata, only the
declared columns are.
*/
func tableFeatures(t *dataset.Table, metadataPath, target string) ([]feature.Feature, error) {
	if metadataPath == "" {
		return feature.Without(feature.Infer(t), target), nil
	}
	declared, err := yaml.ReadFeaturesFromFile(metadataPath)
	if err != nil {
		return nil, err
	}
	kinds := make(map[string]feature.Feature, len(declared))
	for _, f := range declared {
		if t.Index(f.Name()) < 0 {
			return nil, fmt.Errorf("feature %s declared in %s is not a column of the table", f.Name(), metadataPath)
		}
		kinds[f.Name()] = f
	}
	var features []feature.Feature
	for _, h := range t.Headers {
		if f, ok := kinds[h]; ok && h != target {
			features = append(features, f)
		}
	}
	return features, nil
}
