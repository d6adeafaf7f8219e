// Package cache persists broadcast detail payloads between runs so that
// repeated invocations do not re-request pages the station has already
// served. Payloads are keyed by their detail URL and stored together in a
// single gzip-compressed JSON file.
//
// A cached payload is only trusted when it parses as an object without a
// top-level "message" key. The station uses that key for error responses,
// and an error payload must never shadow a later successful fetch.
package cache
