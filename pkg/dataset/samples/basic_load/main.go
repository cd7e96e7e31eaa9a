// Package main demonstrates loading a dataset from the hub into
// in-memory tables.
//
// Usage:
//
//	go run main.go owner/name
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-hfdataset/hfdataset/pkg/dataset"
	"github.com/go-hfdataset/hfdataset/pkg/hfhttp"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s owner/name", os.Args[0])
	}
	repoID := os.Args[1]

	client := hfhttp.New(nil)
	repo, err := dataset.NewRemoteRepository(repoID, client, dataset.WithAuthToken(dataset.GetHfToken()))
	if err != nil {
		log.Fatalf("normalizing repository: %v", err)
	}

	loader := dataset.NewLoader(nil)
	result, err := loader.Load(context.Background(), repo, dataset.LoadOptions{Split: "train"})
	if err != nil {
		log.Fatalf("loading dataset: %v", err)
	}

	for i, table := range result.Tables {
		fmt.Printf("table %d: %d rows\n", i, table.NumRows())
	}
}
