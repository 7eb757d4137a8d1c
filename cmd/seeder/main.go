package main

import (
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/google/uuid"
	"github.com/poiesic/xfts"
	"github.com/poiesic/xfts/core"
	"github.com/poiesic/xfts/indexing"
	"github.com/poiesic/xfts/schema"
)

const demoSchema = `types:
  Order:
    links: [LineItem, Customer]
  LineItem: {}
  Customer: {}
`

var (
	colors    = []string{"red", "blue", "green", "amber", "black", "white", "silver", "crimson"}
	products  = []string{"widget", "gadget", "chair", "lamp", "table", "kettle", "blanket", "lantern", "teapot", "sprocket"}
	materials = []string{"oak", "steel", "wool", "glass", "brass", "linen"}
	statuses  = []string{"open", "shipped", "delivered", "returned"}
	firstName = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Frances", "Ken"}
	lastName  = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Allen", "Thompson"}
	cities    = []string{"London", "Paris", "Berlin", "Lisbon", "Oslo", "Vienna"}
)

// seedNamespace keeps generated ids stable across runs.
var seedNamespace = uuid.MustParse("9b6f3c1e-52a4-4e0b-8d7a-3f1c2e4b5a60")

var (
	dbPath      = flag.String("db", "./orders_db", "index directory")
	orderCount  = flag.Int("orders", 200, "number of orders to generate")
	fixturePath = flag.String("fixture", "", "also write the dataset as a YAML fixture")
	schemaPath  = flag.String("schema", "", "also write the demo schema")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func stableRef(typeName string, n int) core.EntityReference {
	return core.NewEntityReference(typeName, uuid.NewSHA1(seedNamespace, fmt.Appendf(nil, "%s-%d", typeName, n)))
}

func pick(r *rand.Rand, words []string) string {
	return words[r.IntN(len(words))]
}

// demoRecords yields customers first, then each order preceded by its line items.
func demoRecords(orders int) iter.Seq[*core.EntityRecord] {
	return func(yield func(*core.EntityRecord) bool) {
		r := rand.New(rand.NewPCG(1, 2))

		customers := make([]core.EntityReference, len(firstName))
		for i := range customers {
			customers[i] = stableRef("Customer", i)
			record := &core.EntityRecord{
				Ref: customers[i],
				Fields: []core.Field{
					{Name: "name", Value: firstName[i] + " " + pick(r, lastName)},
					{Name: "city", Value: pick(r, cities)},
				},
			}
			if !yield(record) {
				return
			}
		}

		item := 0
		for i := range orders {
			order := &core.EntityRecord{
				Ref: stableRef("Order", i),
				Fields: []core.Field{
					{Name: "number", Value: fmt.Sprintf("#%05d", i+1)},
					{Name: "description", Value: pick(r, colors) + " " + pick(r, products)},
					{Name: "status", Value: pick(r, statuses)},
				},
				Links: []core.EntityReference{customers[r.IntN(len(customers))]},
			}
			for range 1 + r.IntN(3) {
				lineItem := &core.EntityRecord{
					Ref: stableRef("LineItem", item),
					Fields: []core.Field{
						{Name: "name", Value: pick(r, materials) + " " + pick(r, products)},
						{Name: "color", Value: pick(r, colors)},
						{Name: "quantity", Value: fmt.Sprint(1 + r.IntN(9))},
					},
				}
				item++
				order.Links = append(order.Links, lineItem.Ref)
				if !yield(lineItem) {
					return
				}
			}
			if !yield(order) {
				return
			}
		}
	}
}

// indexBatched reads records from a source iterator and indexes them in batches.
func indexBatched(ctx context.Context, indexer *indexing.Indexer, source iter.Seq[*core.EntityRecord], batchSize int) (int, error) {
	batch := make([]*core.EntityRecord, 0, batchSize)
	total := 0

	for record := range source {
		batch = append(batch, record)
		if len(batch) == batchSize {
			n, err := indexer.Index(ctx, batch...)
			total += n
			if err != nil {
				return total, err
			}
			batch = batch[:0]
		}
	}

	// Index any remaining records
	if len(batch) > 0 {
		n, err := indexer.Index(ctx, batch...)
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

func writeFiles(source iter.Seq[*core.EntityRecord]) error {
	if *schemaPath != "" {
		if _, err := schema.Parse([]byte(demoSchema)); err != nil {
			return err
		}
		if err := os.WriteFile(*schemaPath, []byte(demoSchema), 0644); err != nil {
			return err
		}
	}
	if *fixturePath != "" {
		var records []*core.EntityRecord
		for record := range source {
			records = append(records, record)
		}
		data, err := indexing.NewFixture(records...).Marshal()
		if err != nil {
			return err
		}
		if err := os.WriteFile(*fixturePath, data, 0644); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	db, err := xfts.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	indexer, err := db.NewIndexer()
	if err != nil {
		panic(err)
	}
	defer indexer.Release()

	ctx := context.Background()
	source := demoRecords(*orderCount)

	total, err := indexBatched(ctx, indexer, source, 100)
	if err != nil {
		panic(err)
	}
	slog.Info("seeded index", "db", *dbPath, "records", total)

	if err := writeFiles(source); err != nil {
		panic(err)
	}
}
