// Package fetch talks to the station's public JSON API. It retrieves the
// rolling 7-day schedule listing, the detail payload behind each listing
// entry, and the audio stream itself. Requests share a politeness rate
// limit so batch runs do not hammer the station.
package fetch
