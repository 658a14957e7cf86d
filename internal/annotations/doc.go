// Package annotations fetches per-item annotation counts from the server.
//
// Item listings decorate each thumbnail with the number of annotations the
// item carries. The endpoint takes a comma-joined list of item IDs and
// returns a mapping from ID to count:
//
//	GET {server}/annotation/counts?items=id1,id2,id3
//	{"id1": 4, "id2": 0, "id3": 17}
//
// The Service batches large ID lists, fetches batches concurrently, and
// caches results so redisplaying a listing costs nothing:
//
//	svc := annotations.NewService(client, serverURL, annotations.Options{})
//	counts, err := svc.Counts(ctx, itemIDs)
//	for id, n := range counts {
//	    fmt.Printf("%s: %d annotations\n", id, n)
//	}
package annotations
