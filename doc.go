// Package forumsearch embeds the forum search engine in a Go program
// without running the HTTP service.
//
// The client queries an Elasticsearch-compatible forum index with a
// boosted, thread-collapsed query, and can optionally fall back to the
// relational forum tables with MATCH ... AGAINST or LIKE predicates.
//
//	client, _ := forumsearch.New(
//	    forumsearch.WithIndex("http://localhost:9200"),
//	    forumsearch.WithSiteURL("https://forum.example"),
//	    forumsearch.WithLegacyDB("mysql", "user:pass@tcp(db:3306)/forum"),
//	)
//	defer client.Close()
//
//	results, _ := client.Search(ctx, `"hello world" gophers`, nil)
//	legacy, _ := client.Search(ctx, "gophers", &forumsearch.SearchOptions{
//	    Backend: forumsearch.BackendLegacy,
//	    Mode:    forumsearch.ModeLike,
//	})
package forumsearch
