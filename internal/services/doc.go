// Package services implements the HTTP client for the Filmax backend.
//
// # Endpoints
//
// [APIService] wraps every endpoint the client consumes:
//
//	GET    /json/movies      catalog           (public)
//	GET    /json/genres      genre labels      (public)
//	POST   /login            form credentials  → access token
//	POST   /register         JSON registration
//	GET    /me               current identity  (bearer)
//	GET    /favorites        favorite films    (bearer)
//	POST   /favorites/{id}   add favorite      (bearer)
//	DELETE /favorites/{id}   remove favorite   (bearer)
//	GET    /admin-only       admin resource    (bearer, admin role)
//
// The narrow interfaces [CatalogAPI], [AuthAPI] and [FavoritesAPI] let the session, catalog and favorites
// packages depend only on the calls they make.
//
// # Authentication
//
// Bearer tokens are attached by an [oauth2.Transport] over a static token source, so the base
// [http.Client]'s transport and timeout are preserved for authenticated calls.
//
// # Error Handling
//
// Status codes are mapped to sentinels from the shared package:
//   - 401 : [shared.ErrUnauthorized]
//   - 403 : [shared.ErrForbidden]
//   - 404 : [shared.ErrNotFound]
//   - other non-2xx : [shared.ErrAPIRequest]
//   - transport failures : [shared.ErrServiceUnavailable]
//
// No request is retried. Every request carries an X-Request-ID header for log correlation.
package services
