// Package services contains HTTP clients for the external APIs crate talks to.
//
//   - [DiscogsService] : release lookups by barcode, release ID, Discogs URL and artist/album search,
//     rate limited and retried per Discogs API guidelines
//   - [SpotifyService] : album search via the client-credentials grant, used to enrich records
//   - [APIClient] : typed client for the crate REST API with cached sessions and retry-on-401
package services
