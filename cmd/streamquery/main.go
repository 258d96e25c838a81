// Command streamquery runs a Flux query against a server and prints each
// record as it arrives, demonstrating the streaming client in the shape the
// library is meant to be used: one Record at a time, never the whole result
// set in memory.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	influxstream "github.com/almightychang/influxdb-stream"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file (base_url, org, token)")
	query := flag.String("query", "", "Flux query to execute")
	flag.Parse()

	if *query == "" {
		fmt.Fprintln(os.Stderr, "usage: streamquery -config config.toml -query '...'")
		os.Exit(2)
	}

	var client *influxstream.Client
	var err error
	if *configPath != "" {
		client, err = influxstream.NewClientFromTOML(*configPath)
	} else {
		client, err = influxstream.NewClient(influxstream.Config{
			BaseURL: os.Getenv("INFLUX_BASE_URL"),
			Org:     os.Getenv("INFLUX_ORG"),
			Token:   os.Getenv("INFLUX_TOKEN"),
		})
	}
	if err != nil {
		log.Fatalf("building client: %v", err)
	}

	ctx := context.Background()
	stream, err := client.QueryStream(ctx, *query)
	if err != nil {
		log.Fatalf("querying: %v", err)
	}
	defer stream.Close()

	count := 0
	for {
		rec, err := stream.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("streaming record %d: %v", count, err)
		}
		printRecord(rec)
		count++
	}
	fmt.Fprintf(os.Stderr, "%d records\n", count)
}

func printRecord(rec influxstream.Record) {
	parts := make([]string, 0, len(rec.Meta.Columns))
	for _, col := range rec.Meta.Columns {
		v, _ := rec.Get(col.Name)
		parts = append(parts, col.Name+"="+v.String())
	}
	fmt.Println(parts)
}
