// Package tagquery embeds the tag search engine in a Go program.
//
// The client loads an image corpus and a tag vocabulary from disk and answers
// tag queries in process, optionally caching results in Valkey or Redis.
//
//	client, _ := tagquery.New(ctx,
//	    tagquery.WithCorpus("cglist.csv", "tags/"),
//	    tagquery.WithVocabulary("all_tags.csv"),
//	)
//	defer client.Close()
//
//	res, _ := client.Search(ctx, "sleeve_cuffs:0.5,-monochrome,[smile,grin]")
//	fmt.Println(res.Count, res.Images)
package tagquery
