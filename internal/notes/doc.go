// Package notes provides a client for the notes resource of a mockapi.io project.
//
// The API is a plain REST collection with no authentication:
//   - GET    /notes[?title=...]  list, optionally filtered by a title substring
//   - POST   /notes              create
//   - PUT    /notes/{id}         replace
//   - DELETE /notes/{id}         delete (usually an empty body)
//
// Notes are passed through as opaque JSON objects. Retries and timeouts are
// not part of the resource operations; wrap the transport with RetryDoer or
// pass a context deadline instead.
package notes
