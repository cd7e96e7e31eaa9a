// Package main demonstrates pulling rows from a dataset's streaming
// source in bounded batches, without materializing whole files.
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
	result, err := loader.Load(context.Background(), repo, dataset.LoadOptions{
		Streaming: true,
		BatchSize: 256,
	})
	if err != nil {
		log.Fatalf("constructing stream: %v", err)
	}

	ctx := context.Background()
	total := 0
	for {
		rows, more, err := result.Stream.Next(ctx)
		if err != nil {
			log.Fatalf("pulling batch: %v", err)
		}
		if !more {
			break
		}
		total += len(rows)
		fmt.Printf("pulled batch of %d rows (total %d)\n", len(rows), total)
	}
}
