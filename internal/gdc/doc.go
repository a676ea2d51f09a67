// Package gdc provides the client for the GDC (Genomic Data Commons)
// catalog API.
//
// The package handles two queries:
//
//  1. Discovering TCGA projects that carry slide-image data
//  2. Fetching a project's biospecimen slide-image manifest
//
// # Project Discovery
//
//	client := gdc.NewClient(endpoint, httpClient, 1000, 10000)
//	projects, err := client.ListProjects(ctx)
//
// # Manifest Fetch
//
//	manifest, err := client.GetManifest(ctx, "TCGA-BRCA")
//	if manifest.Truncated() {
//	    // page-size cap hit; warn rather than silently drop
//	}
//
// # Filters
//
// The GDC API takes a structured boolean filter expression as a JSON
// query parameter. Build it with the And, Eq, and In constructors in
// filters.go.
//
// Both queries fail with *CatalogError on transport failure or a
// non-success status; the caller decides whether to abort the run or
// skip the project.
package gdc
