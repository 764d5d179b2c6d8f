// Command indexctl is the operator CLI for a running search service. It
// talks to the admin RPC port and supports inspecting index stats, running
// ad-hoc queries, and triggering full rebuilds.
//
// Usage:
//
//	indexctl [-addr localhost:9000] stats [-verbose]
//	indexctl [-addr localhost:9000] search <query> [limit]
//	indexctl [-addr localhost:9000] rebuild
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/patterngallery/pattern-search/pkg/proto"
	"github.com/patterngallery/pattern-search/pkg/rpc"
)

func main() {
	addr := flag.String("addr", "localhost:9000", "admin RPC address of the search service")
	verbose := flag.Bool("verbose", false, "list individual entries in stats output")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	client, err := rpc.Dial(*addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot reach search service at %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer client.Close()

	switch args[0] {
	case "stats":
		err = runStats(client, *verbose)
	case "search":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "search requires a query argument")
			os.Exit(2)
		}
		limit := 10
		if len(args) >= 3 {
			limit, err = strconv.Atoi(args[2])
			if err != nil || limit < 1 {
				fmt.Fprintln(os.Stderr, "limit must be a positive integer")
				os.Exit(2)
			}
		}
		err = runSearch(client, args[1], limit)
	case "rebuild":
		err = runRebuild(client)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: indexctl [-addr host:port] [-verbose] stats|search <query> [limit]|rebuild")
}

func runStats(client *rpc.Client, verbose bool) error {
	var stats proto.StatsResponse
	if err := client.Call("IndexService.Stats", &proto.StatsRequest{}, &stats); err != nil {
		return err
	}

	fmt.Printf("Total entries:  %d\n", stats.TotalEntries)
	fmt.Printf("  Examples:     %d\n", stats.ExamplesCount)
	fmt.Printf("  Docs:         %d\n", stats.DocsCount)
	if stats.BuiltAtUnix > 0 {
		fmt.Printf("Built at:       %s\n", time.Unix(stats.BuiltAtUnix, 0).UTC().Format(time.RFC3339))
	}

	if !verbose {
		return nil
	}

	var entries proto.EntriesResponse
	if err := client.Call("IndexService.Entries", &proto.EntriesRequest{}, &entries); err != nil {
		return err
	}

	fmt.Println()
	for _, e := range entries.Entries {
		fmt.Printf("  [%s] %s (%s)\n", e.Kind, e.Title, e.URL)
	}
	return nil
}

func runSearch(client *rpc.Client, query string, limit int) error {
	var resp proto.SearchResponse
	err := client.Call("SearchService.Search", &proto.SearchRequest{Query: query, Limit: limit}, &resp)
	if err != nil {
		return err
	}

	if len(resp.Results) == 0 {
		fmt.Printf("No results for %q\n", query)
		return nil
	}

	fmt.Printf("%d result(s) for %q (%dms):\n", len(resp.Results), query, resp.LatencyMs)
	for i, r := range resp.Results {
		fmt.Printf("%2d. [%s] %s\n", i+1, r.Kind, r.Title)
		fmt.Printf("    %s\n", r.Description)
		fmt.Printf("    %s\n", r.URL)
		if r.LearnMoreURL != "" {
			fmt.Printf("    learn more: %s\n", r.LearnMoreURL)
		}
	}
	return nil
}

func runRebuild(client *rpc.Client) error {
	var resp proto.RebuildResponse
	if err := client.Call("IndexService.Rebuild", &proto.RebuildRequest{}, &resp); err != nil {
		return err
	}

	fmt.Println("Search index rebuilt successfully!")
	fmt.Printf("Indexed %d entries (%d examples, %d docs) in %dms\n",
		resp.TotalEntries, resp.ExamplesCount, resp.DocsCount, resp.DurationMs)
	return nil
}
