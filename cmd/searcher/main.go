// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/xfts"
	"github.com/poiesic/xfts/schema"
)

const demoSchema = `types:
  Order:
    links: [LineItem, Customer]
  LineItem: {}
  Customer: {}
`

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	s, err := schema.Parse([]byte(demoSchema))
	if err != nil {
		panic(err)
	}
	db, err := xfts.NewDatabase("./orders_db", xfts.WithSchema(s))
	if err != nil {
		panic(err)
	}
	defer db.Close()

	query := "red lantern"
	if len(os.Args) > 1 {
		query = strings.Join(os.Args[1:], " ")
	}

	result, err := db.Search(context.Background(), query, "Order")
	if err != nil {
		panic(err)
	}

	fmt.Printf("Found %d hits\n", len(result.Entries))
	for i, hit := range result.Entries {
		fmt.Printf("%d: %s %s\n", i, hit.EntityTypeName, hit.EntityId)
	}
}
