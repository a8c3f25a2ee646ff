// Package caskbook is an in-process client for the caskbook whisky catalog
// stored in Redis or Valkey.
//
// It exposes the flavor similarity engine and the taste aggregator without
// going through the HTTP API:
//
//	client, _ := caskbook.New(ctx, caskbook.WithValkey("localhost:6379", ""))
//	defer client.Close()
//
//	matches, _ := client.Similar(ctx, map[string]int{"smoky_peaty": 5, "maritime": 3}, 5)
//	for _, m := range matches {
//	    fmt.Println(m.Whisky.Name, m.Score)
//	}
//
//	summary, _ := client.Summarize([]caskbook.Sample{
//	    {FlavorProfile: map[string]int{"sherried": 4}, Category: "Speyside"},
//	})
//	recs, _ := client.Recommend(ctx, samples, 3)
//
// The catalog is written by the caskbook-seed tool; the client only reads it.
package caskbook
